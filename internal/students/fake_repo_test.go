package students

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cohort-tools/cohort-tools/internal/cohorts"
	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// memoryRepo populates cohort references from an in-memory cohort table,
// mirroring the LEFT JOIN of the PostgreSQL repository.
type memoryRepo struct {
	mu       sync.Mutex
	students map[string]Student
	cohorts  map[string]cohorts.Cohort
}

func newMemoryRepo(known ...cohorts.Cohort) *memoryRepo {
	m := &memoryRepo{students: make(map[string]Student), cohorts: make(map[string]cohorts.Cohort)}
	for _, c := range known {
		m.cohorts[c.ID] = c
	}
	return m
}

func (m *memoryRepo) populate(s Student) PopulatedStudent {
	p := PopulatedStudent{Student: s}
	if s.CohortID != nil {
		if c, ok := m.cohorts[*s.CohortID]; ok {
			p.Cohort = &c
		}
	}
	return p
}

func (m *memoryRepo) filter(keep func(Student) bool) []PopulatedStudent {
	out := []PopulatedStudent{}
	for _, s := range m.students {
		if keep(s) {
			out = append(out, m.populate(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out
}

func (m *memoryRepo) List(ctx context.Context) ([]PopulatedStudent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(Student) bool { return true }), nil
}

func (m *memoryRepo) ListByCohort(ctx context.Context, cohortID string) ([]PopulatedStudent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(s Student) bool { return s.CohortID != nil && *s.CohortID == cohortID }), nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (*PopulatedStudent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	p := m.populate(s)
	return &p, nil
}

func (m *memoryRepo) Create(ctx context.Context, student Student) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	student.CreatedAt, student.UpdatedAt = now, now
	m.students[student.ID] = student
	return &student, nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, mutate func(*Student) error) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := mutate(&s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now().UTC()
	m.students[id] = s
	return &s, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.students, id)
	return nil
}
