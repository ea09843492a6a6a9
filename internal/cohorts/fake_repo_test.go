package cohorts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

type memoryRepo struct {
	mu      sync.Mutex
	items   map[string]Cohort
	lists   int
	listErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]Cohort)}
}

func (m *memoryRepo) List(ctx context.Context) ([]Cohort, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Cohort, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (*Cohort, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m *memoryRepo) Create(ctx context.Context, cohort Cohort) (*Cohort, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	cohort.CreatedAt, cohort.UpdatedAt = now, now
	m.items[cohort.ID] = cohort
	return &cohort, nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, mutate func(*Cohort) error) (*Cohort, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := mutate(&c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()
	m.items[id] = c
	return &c, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}
