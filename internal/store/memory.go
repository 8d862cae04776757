package store

import (
	"context"
	"sort"
	"sync"

	"github.com/JonMunkholm/contacts/internal/core"
)

// Memory is a Store held in process memory. Records are cloned on the
// way in and out so callers never share state with the store.
type Memory struct {
	mu       sync.RWMutex
	contacts map[core.ContactID]*core.Contact
	nextID   core.ContactID
	closed   bool
}

// NewMemory returns an empty in-memory store. IDs start at 1.
func NewMemory() *Memory {
	return &Memory{
		contacts: make(map[core.ContactID]*core.Contact),
		nextID:   1,
	}
}

func (m *Memory) Create(ctx context.Context, c *core.Contact) (core.ContactID, error) {
	if err := m.check(ctx, "create"); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	stored := c.Clone()
	stored.ContactID = id
	m.contacts[id] = stored
	c.ContactID = id
	return id, nil
}

func (m *Memory) Get(ctx context.Context, id core.ContactID) (*core.Contact, error) {
	if err := m.check(ctx, "get"); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contacts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return c.Clone(), nil
}

func (m *Memory) List(ctx context.Context) ([]*core.Contact, error) {
	if err := m.check(ctx, "list"); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContactID < out[j].ContactID })
	return out, nil
}

func (m *Memory) Update(ctx context.Context, c *core.Contact) (bool, error) {
	if err := m.check(ctx, "update"); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contacts[c.ContactID]; !ok {
		return false, nil
	}
	m.contacts[c.ContactID] = c.Clone()
	return true, nil
}

func (m *Memory) Delete(ctx context.Context, id core.ContactID) (bool, error) {
	if err := m.check(ctx, "delete"); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contacts[id]; !ok {
		return false, nil
	}
	delete(m.contacts, id)
	return true, nil
}

// Close marks the store unusable; later calls fail with a StorageError.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// check reports a cancelled context or a closed store as a storage failure.
func (m *Memory) check(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return core.NewStorageError(op, err)
	}
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return core.NewStorageError(op, errClosed)
	}
	return nil
}
