package memory

import (
	"context"
	"sync"

	"vet-records/internal/domain/settings"
)

type settingsRepo struct {
	mu    sync.RWMutex
	cur   settings.Settings
	saved bool
}

func NewSettingsRepo() settings.Repository {
	return &settingsRepo{}
}

func (r *settingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.saved {
		return settings.Settings{}, settings.ErrNotFound
	}
	return r.cur, nil
}

func (r *settingsRepo) Save(ctx context.Context, s settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cur = s
	r.saved = true
	return nil
}
