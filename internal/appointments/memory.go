package appointments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for development and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Appointment
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Appointment)}
}

func (r *MemoryRepository) Create(_ context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	if appt.Status == "" {
		appt.Status = StatusBooked
	}
	r.items[appt.ID.String()] = *appt
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appt, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &appt, nil
}

func (r *MemoryRepository) Apply(_ context.Context, id string, upd Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	if upd.ServiceID != nil {
		appt.ServiceID = *upd.ServiceID
	}
	if upd.Date != nil {
		appt.Date = *upd.Date
	}
	if upd.Time != nil {
		appt.Time = *upd.Time
	}
	if upd.Status != nil {
		appt.Status = *upd.Status
	}
	appt.UpdatedAt = time.Now().UTC()
	r.items[id] = appt
	return nil
}

func (r *MemoryRepository) ListByDate(_ context.Context, date string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Appointment
	for _, appt := range r.items {
		if appt.Date == date && appt.Status == StatusBooked {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (r *MemoryRepository) ListFrom(_ context.Context, fromDate string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Appointment
	for _, appt := range r.items {
		if appt.Date >= fromDate && appt.Status == StatusBooked {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *MemoryRepository) ListUpcomingByPhone(_ context.Context, phoneDigits, fromDate string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Appointment
	for _, appt := range r.items {
		if appt.CustomerPhone == phoneDigits && appt.Date >= fromDate && appt.Status == StatusBooked {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Appointment, 0, len(r.items))
	for _, appt := range r.items {
		out = append(out, appt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
