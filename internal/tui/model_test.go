package tui

import (
	"context"
	"testing"

	"itemstore/domain"
	"itemstore/internal/controller"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAPI struct {
	items  []domain.Item
	nextID int64
}

func (a *memoryAPI) List(ctx context.Context) ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(a.items))
	for i := len(a.items) - 1; i >= 0; i-- {
		out = append(out, a.items[i])
	}
	return out, nil
}

func (a *memoryAPI) Create(ctx context.Context, name, description string) (domain.Item, error) {
	a.nextID++
	it := domain.Item{ID: a.nextID, Name: name, Description: description}
	a.items = append(a.items, it)
	return it, nil
}

func (a *memoryAPI) Update(ctx context.Context, id int64, name, description string) (domain.Item, error) {
	for i := range a.items {
		if a.items[i].ID == id {
			a.items[i].Name = name
			a.items[i].Description = description
		}
	}
	return domain.Item{ID: id, Name: name, Description: description}, nil
}

func (a *memoryAPI) Delete(ctx context.Context, id int64) error {
	for i := range a.items {
		if a.items[i].ID == id {
			a.items = append(a.items[:i], a.items[i+1:]...)
			break
		}
	}
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds msg to the model and drops returned commands (cursor blinks).
func press(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()

	next, _ := m.Update(msg)
	return next.(model)
}

// pressAndWait feeds msg and completes the controller request it starts.
func pressAndWait(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()

	next, cmd := m.Update(msg)
	m = next.(model)
	require.NotNil(t, cmd)

	done, ok := cmd().(doneMsg)
	require.True(t, ok)

	next, _ = m.Update(done)
	return next.(model)
}

func mounted(t *testing.T, api *memoryAPI) model {
	t.Helper()

	m := newModel(controller.New(api))
	next, _ := m.Update(m.request(m.ctrl.Mount)())
	return next.(model)
}

func TestModel_CreateItem(t *testing.T) {
	api := &memoryAPI{}
	m := mounted(t, api)

	m = press(t, m, runes("Pen"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("Blue pen"))
	m = pressAndWait(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	s := m.ctrl.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Blue pen", s.Items[0].Description)
	assert.Empty(t, m.name.Value())
	assert.Empty(t, m.description.Value())
	assert.Contains(t, m.View(), "Blue pen")
}

func TestModel_EnterIgnoredWhenIncomplete(t *testing.T) {
	api := &memoryAPI{}
	m := mounted(t, api)

	m = press(t, m, runes("Pen"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, api.items)
	assert.Equal(t, "Pen", m.ctrl.State().Name)
}

func TestModel_EditAndDelete(t *testing.T) {
	api := &memoryAPI{items: []domain.Item{{ID: 1, Name: "Pen", Description: "Blue pen"}}, nextID: 1}
	m := mounted(t, api)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, focusList, m.focus)

	m = press(t, m, runes("e"))
	assert.Equal(t, focusName, m.focus)
	assert.Equal(t, "Pen", m.name.Value())
	assert.True(t, m.ctrl.State().Editing())
	assert.Contains(t, m.View(), "Update Item")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.ctrl.State().Editing())
	assert.Empty(t, m.name.Value())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, runes("d"))
	require.NotNil(t, m.ctrl.State().PendingDelete)
	assert.Contains(t, m.View(), `Delete "Pen"? [y/n]`)

	m = press(t, m, runes("n"))
	assert.Nil(t, m.ctrl.State().PendingDelete)
	assert.Len(t, api.items, 1)

	m = press(t, m, runes("d"))
	m = pressAndWait(t, m, runes("y"))
	assert.Empty(t, api.items)
	assert.Empty(t, m.ctrl.State().Items)
	assert.Contains(t, m.View(), "No items yet")
}
