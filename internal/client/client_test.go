package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/items", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":2,"name":"Pencil","description":"Graphite"},{"id":1,"name":"Pen","description":"Blue pen"}]`)
	}))
	defer srv.Close()

	items, err := New(srv.URL+"/api/", time.Second).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestClient_CreateAndUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/api/items", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": body["name"], "description": body["description"]})
		case http.MethodPut:
			assert.Equal(t, "/api/items/1", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": body["name"], "description": body["description"]})
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", time.Second)

	created, err := c.Create(context.Background(), "Pen", "Blue pen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	updated, err := c.Update(context.Background(), 1, "Pen", "Red pen")
	require.NoError(t, err)
	assert.Equal(t, "Red pen", updated.Description)
}

func TestClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/items/9", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"message":"Item deleted"}`)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL+"/api", time.Second).Delete(context.Background(), 9))
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"item.create.validation_failed","error":"Name and description are required"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Create(context.Background(), "", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "item.create.validation_failed", apiErr.Code)
	assert.Equal(t, "Name and description are required", apiErr.Error())
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).List(context.Background())
	assert.EqualError(t, err, "request failed with status 502")
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, time.Second).List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
