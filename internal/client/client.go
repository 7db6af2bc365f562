// Package client talks to the item gateway over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itemstore/domain"
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type itemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) List(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	if err := c.do(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Create(ctx context.Context, name, description string) (domain.Item, error) {
	var created domain.Item
	err := c.do(ctx, http.MethodPost, "/items", itemInput{Name: name, Description: description}, &created)
	return created, err
}

func (c *Client) Update(ctx context.Context, id int64, name, description string) (domain.Item, error) {
	var updated domain.Item
	err := c.do(ctx, http.MethodPut, itemPath(id), itemInput{Name: name, Description: description}, &updated)
	return updated, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func decodeAPIError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}

	var payload struct {
		Code    string `json:"code"`
		Error   string `json:"error"`
		Details any    `json:"details"`
	}
	data, err := io.ReadAll(res.Body)
	if err == nil && json.Unmarshal(data, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Error
		apiErr.Details = payload.Details
	}

	return apiErr
}
