package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-records/internal/domain/organizations"
)

type organizationRepo struct {
	mu   sync.RWMutex
	byID map[string]organizations.Organization
}

func NewOrganizationRepo() organizations.Repository {
	return &organizationRepo{
		byID: make(map[string]organizations.Organization),
	}
}

func (r *organizationRepo) Create(ctx context.Context, o organizations.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("organization id required")
	}
	if _, exists := r.byID[o.ID]; exists {
		return errors.New("organization already exists")
	}
	r.byID[o.ID] = o
	return nil
}

func (r *organizationRepo) Update(ctx context.Context, o organizations.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[o.ID]; !exists {
		return ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *organizationRepo) GetByID(ctx context.Context, id string) (organizations.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return organizations.Organization{}, ErrNotFound
	}
	return o, nil
}

func (r *organizationRepo) List(ctx context.Context) ([]organizations.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]organizations.Organization, 0, len(r.byID))
	for _, o := range r.byID {
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *organizationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
