package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	List(ctx context.Context, clientID string) ([]Animal, error)
	CountByClient(ctx context.Context, clientID string) (int, error)
	Delete(ctx context.Context, id string) error
}
