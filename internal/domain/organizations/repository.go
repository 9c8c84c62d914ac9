package organizations

import "context"

type Repository interface {
	Create(ctx context.Context, o Organization) error
	Update(ctx context.Context, o Organization) error
	GetByID(ctx context.Context, id string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Delete(ctx context.Context, id string) error
}
