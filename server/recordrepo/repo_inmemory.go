package recordrepo

import (
	"fmt"
	"sort"
	"sync"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface.
// setID writes the assigned id into a record.
type InMemoryRepo[T any] struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]T
	setID   func(*T, int64)
	prepare func(*T)
}

// NewInMemoryRepo creates a repo. prepare, if non-nil, runs on every record before it is stored.
func NewInMemoryRepo[T any](setID func(*T, int64), prepare func(*T)) *InMemoryRepo[T] {
	return &InMemoryRepo[T]{
		nextID:  1,
		records: make(map[int64]T),
		setID:   setID,
		prepare: prepare,
	}
}

func (r *InMemoryRepo[T]) Insert(record T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.setID(&record, id)
	if r.prepare != nil {
		r.prepare(&record)
	}
	r.records[id] = record
	return record, nil
}

func (r *InMemoryRepo[T]) Get(id int64) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		var zero T
		return zero, fmt.Errorf("record %d: %w", id, autherrors.ErrNotFound)
	}
	return record, nil
}

// List returns the records accepted by filter (all when filter is nil) in id order
func (r *InMemoryRepo[T]) List(filter func(T) bool) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if filter == nil || filter(r.records[id]) {
			out = append(out, r.records[id])
		}
	}
	return out, nil
}

func (r *InMemoryRepo[T]) Replace(id int64, record T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		var zero T
		return zero, fmt.Errorf("record %d: %w", id, autherrors.ErrNotFound)
	}
	r.setID(&record, id)
	if r.prepare != nil {
		r.prepare(&record)
	}
	r.records[id] = record
	return record, nil
}

func (r *InMemoryRepo[T]) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return fmt.Errorf("record %d: %w", id, autherrors.ErrNotFound)
	}
	delete(r.records, id)
	return nil
}
