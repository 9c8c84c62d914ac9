package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-records/internal/domain/blacklist"
)

type blacklistRepo struct {
	mu   sync.RWMutex
	byID map[string]blacklist.Entry
}

func NewBlacklistRepo() blacklist.Repository {
	return &blacklistRepo{
		byID: make(map[string]blacklist.Entry),
	}
}

func (r *blacklistRepo) Create(ctx context.Context, e blacklist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("entry id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("entry already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *blacklistRepo) Update(ctx context.Context, e blacklist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *blacklistRepo) GetByID(ctx context.Context, id string) (blacklist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return blacklist.Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *blacklistRepo) List(ctx context.Context) ([]blacklist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]blacklist.Entry, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *blacklistRepo) FindByClient(ctx context.Context, clientID string) ([]blacklist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]blacklist.Entry, 0)
	for _, e := range r.byID {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *blacklistRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
