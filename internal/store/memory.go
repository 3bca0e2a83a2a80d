package store

import (
	"context"
	"sync"

	"github.com/scholarai/scholar/internal/model"
)

// MemoryPages is an in-process PageStore for commands that must not touch
// disk and for tests.
type MemoryPages struct {
	mu    sync.Mutex
	page  model.Page
	saved bool
	Saves []model.Page
}

var _ PageStore = (*MemoryPages)(nil)

func (m *MemoryPages) SavePage(_ context.Context, page model.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.page, m.saved = page, true
	m.Saves = append(m.Saves, page)
	return nil
}

func (m *MemoryPages) LastPage(context.Context) (model.Page, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page, m.saved, nil
}

func (m *MemoryPages) ClearPage(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.page, m.saved = "", false
	return nil
}

// MemorySessions is an in-process SessionStore.
type MemorySessions struct {
	mu   sync.Mutex
	data []byte
}

var _ SessionStore = (*MemorySessions)(nil)

func (m *MemorySessions) SaveSession(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemorySessions) LoadSession(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySessions) ClearSession(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
