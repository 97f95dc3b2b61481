// Package store provides Repository implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/paytrack/payroll"
)

// ErrDuplicateRecord is returned when adding a record whose ID already exists.
var ErrDuplicateRecord = errors.New("record already exists")

// =============================================================================
// MEMORY STORE - In-memory Repository (for testing/dev)
// =============================================================================

// Memory implements payroll.Repository over plain maps. Visibility filters
// model the UI's filtered lists: when set, VisiblePersons/VisibleJobs return
// only matching records, while lookups by ID still see everything.
type Memory struct {
	mu           sync.RWMutex
	persons      map[payroll.ID]payroll.Person
	jobs         map[payroll.ID]payroll.Job
	personFilter func(payroll.Person) bool
	jobFilter    func(payroll.Job) bool
}

func NewMemory() *Memory {
	return &Memory{
		persons: make(map[payroll.ID]payroll.Person),
		jobs:    make(map[payroll.ID]payroll.Job),
	}
}

// =============================================================================
// PERSONS
// =============================================================================

// AddPerson inserts a new person record.
func (m *Memory) AddPerson(_ context.Context, p payroll.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.persons[p.ID()]; ok {
		return fmt.Errorf("person %s: %w", p.ID(), ErrDuplicateRecord)
	}
	m.persons[p.ID()] = p
	return nil
}

func (m *Memory) Person(_ context.Context, id payroll.ID) (payroll.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.persons[id]
	if !ok {
		return payroll.Person{}, &payroll.NotFoundError{Kind: "person", ID: id}
	}
	return p, nil
}

func (m *Memory) ReplacePerson(_ context.Context, old, updated payroll.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.persons[old.ID()]; !ok {
		return &payroll.NotFoundError{Kind: "person", ID: old.ID()}
	}
	delete(m.persons, old.ID())
	m.persons[updated.ID()] = updated
	return nil
}

func (m *Memory) RemovePerson(_ context.Context, id payroll.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.persons[id]; !ok {
		return &payroll.NotFoundError{Kind: "person", ID: id}
	}
	delete(m.persons, id)
	return nil
}

func (m *Memory) VisiblePersons(_ context.Context) ([]payroll.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]payroll.Person, 0, len(m.persons))
	for _, p := range m.persons {
		if m.personFilter == nil || m.personFilter(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// =============================================================================
// JOBS
// =============================================================================

// AddJob inserts a new job record.
func (m *Memory) AddJob(_ context.Context, j payroll.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[j.ID()]; ok {
		return fmt.Errorf("job %s: %w", j.ID(), ErrDuplicateRecord)
	}
	m.jobs[j.ID()] = j
	return nil
}

func (m *Memory) Job(_ context.Context, id payroll.ID) (payroll.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return payroll.Job{}, &payroll.NotFoundError{Kind: "job", ID: id}
	}
	return j, nil
}

func (m *Memory) ReplaceJob(_ context.Context, old, updated payroll.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[old.ID()]; !ok {
		return &payroll.NotFoundError{Kind: "job", ID: old.ID()}
	}
	delete(m.jobs, old.ID())
	m.jobs[updated.ID()] = updated
	return nil
}

func (m *Memory) RemoveJob(_ context.Context, id payroll.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return &payroll.NotFoundError{Kind: "job", ID: id}
	}
	delete(m.jobs, id)
	return nil
}

func (m *Memory) VisibleJobs(_ context.Context) ([]payroll.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]payroll.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		if m.jobFilter == nil || m.jobFilter(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *Memory) HasJob(_ context.Context, id payroll.ID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.jobs[id]
	return ok, nil
}

// =============================================================================
// VISIBILITY FILTERS
// =============================================================================

// SetPersonFilter narrows VisiblePersons. Pass nil to show everyone.
func (m *Memory) SetPersonFilter(fn func(payroll.Person) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.personFilter = fn
}

// SetJobFilter narrows VisibleJobs. Pass nil to show every job.
func (m *Memory) SetJobFilter(fn func(payroll.Job) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobFilter = fn
}
