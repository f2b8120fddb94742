package timetables

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of TimetablesRepo. It backs the
// API when no database is configured.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]Timetable
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		data:   make(map[int64]Timetable),
	}
}

// Create stores a new timetable and assigns its id and upload date.
func (r *MemoryRepo) Create(ctx context.Context, t Timetable) (Timetable, error) {
	if err := ctx.Err(); err != nil {
		return Timetable{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	if t.Status == "" {
		t.Status = "completed"
	}
	if t.UploadDate.IsZero() {
		t.UploadDate = time.Now().UTC()
	}
	t.WeekData.Normalize()
	r.data[t.ID] = t
	return t, nil
}

// GetByID returns one timetable.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Timetable, error) {
	if err := ctx.Err(); err != nil {
		return Timetable{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.data[id]
	if !ok {
		return Timetable{}, ErrNotFound
	}
	return t, nil
}

// List returns all timetables, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Timetable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Timetable, 0, len(r.data))
	for _, t := range r.data {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].UploadDate.After(out[j].UploadDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Delete removes a timetable. Returns ErrNotFound when the id is unknown.
func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

var _ TimetablesRepo = (*MemoryRepo)(nil)
