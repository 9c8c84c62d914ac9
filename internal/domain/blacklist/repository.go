package blacklist

import "context"

type Repository interface {
	Create(ctx context.Context, e Entry) error
	Update(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	FindByClient(ctx context.Context, clientID string) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}
