// Package controller holds the state of the item form client: the loaded
// list, the draft fields, the edit target and the request status.
//
// Every mutation is followed by a full reload; the list is never patched
// locally. A Controller allows one request at a time and drops responses
// that arrive after Close.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"itemstore/domain"

	"go.uber.org/zap"
)

var (
	ErrIncomplete = errors.New("name and description are required")
	ErrBusy       = errors.New("a request is already in flight")
	ErrClosed     = errors.New("controller is closed")
	ErrNoPending  = errors.New("no item is awaiting deletion")
)

type API interface {
	List(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, name, description string) (domain.Item, error)
	Update(ctx context.Context, id int64, name, description string) (domain.Item, error)
	Delete(ctx context.Context, id int64) error
}

type State struct {
	Items       []domain.Item
	Name        string
	Description string
	// EditingID is nil in create mode.
	EditingID     *int64
	Loading       bool
	Error         string
	PendingDelete *domain.Item
}

func (s State) Editing() bool {
	return s.EditingID != nil
}

// CanSubmit mirrors the enabled state of the submit button.
func (s State) CanSubmit() bool {
	return !s.Loading && s.Name != "" && s.Description != ""
}

type Controller struct {
	api API

	mu     sync.Mutex
	state  State
	closed bool

	lifetime context.Context
	cancel   context.CancelFunc
}

func New(api API) *Controller {
	lifetime, cancel := context.WithCancel(context.Background())

	return &Controller{
		api:      api,
		lifetime: lifetime,
		cancel:   cancel,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Items = append([]domain.Item(nil), c.state.Items...)
	if c.state.EditingID != nil {
		id := *c.state.EditingID
		s.EditingID = &id
	}
	if c.state.PendingDelete != nil {
		pending := *c.state.PendingDelete
		s.PendingDelete = &pending
	}

	return s
}

// Close cancels in-flight requests. Their results are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
}

func (c *Controller) Mount(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}

	return c.reload(ctx)
}

func (c *Controller) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Name = name
}

func (c *Controller) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Description = description
}

func (c *Controller) Edit(item domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.ID
	c.state.EditingID = &id
	c.state.Name = item.Name
	c.state.Description = item.Description
}

func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.EditingID = nil
	c.state.Name = ""
	c.state.Description = ""
}

// Submit creates a new item, or updates the one being edited.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Name == "" || c.state.Description == "" {
		c.mu.Unlock()
		return ErrIncomplete
	}
	name, description := c.state.Name, c.state.Description
	var editingID *int64
	if c.state.EditingID != nil {
		id := *c.state.EditingID
		editingID = &id
	}
	c.mu.Unlock()

	if err := c.begin(); err != nil {
		return err
	}

	reqCtx, done := c.requestContext(ctx)
	var err error
	if editingID != nil {
		_, err = c.api.Update(reqCtx, *editingID, name, description)
	} else {
		_, err = c.api.Create(reqCtx, name, description)
	}
	done()

	if dropErr := c.finish(func() {
		if err != nil {
			c.state.Error = fmt.Sprintf("Could not save item: %s", err)
			c.state.Loading = false
			return
		}
		c.state.Name = ""
		c.state.Description = ""
		c.state.EditingID = nil
	}); dropErr != nil {
		return dropErr
	}

	if err != nil {
		zap.L().Warn("Saving item failed", zap.Error(err))
		return err
	}

	return c.reload(ctx)
}

// RequestDelete marks item for deletion; nothing is sent until
// ConfirmDelete.
func (c *Controller) RequestDelete(item domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := item
	c.state.PendingDelete = &pending
}

func (c *Controller) AbortDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingDelete = nil
}

func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.state.PendingDelete
	c.mu.Unlock()

	if pending == nil {
		return ErrNoPending
	}

	if err := c.begin(); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.PendingDelete = nil
	c.mu.Unlock()

	reqCtx, done := c.requestContext(ctx)
	err := c.api.Delete(reqCtx, pending.ID)
	done()

	if dropErr := c.finish(func() {
		if err != nil {
			c.state.Error = fmt.Sprintf("Could not delete item: %s", err)
			c.state.Loading = false
		}
	}); dropErr != nil {
		return dropErr
	}

	if err != nil {
		zap.L().Warn("Deleting item failed", zap.Int64("itemId", pending.ID), zap.Error(err))
		return err
	}

	return c.reload(ctx)
}

// Reload fetches the list again outside of any mutation.
func (c *Controller) Reload(ctx context.Context) error {
	return c.Mount(ctx)
}

// reload expects Loading to be set and always clears it.
func (c *Controller) reload(ctx context.Context) error {
	reqCtx, done := c.requestContext(ctx)
	items, err := c.api.List(reqCtx)
	done()

	if dropErr := c.finish(func() {
		c.state.Loading = false
		if err != nil {
			c.state.Error = fmt.Sprintf("Could not load items: %s", err)
			c.state.Items = nil
			return
		}
		c.state.Items = items
	}); dropErr != nil {
		return dropErr
	}

	if err != nil {
		zap.L().Warn("Loading items failed", zap.Error(err))
	}

	return err
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state.Loading {
		return ErrBusy
	}

	c.state.Loading = true
	c.state.Error = ""

	return nil
}

// finish applies a response to the state unless the controller has been
// closed in the meantime.
func (c *Controller) finish(apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	apply()

	return nil
}

// requestContext derives a context that ends with either the caller's
// context or the controller lifetime.
func (c *Controller) requestContext(ctx context.Context) (context.Context, func()) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)

	return reqCtx, func() {
		stop()
		cancel()
	}
}
