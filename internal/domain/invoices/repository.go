package invoices

import "context"

type Repository interface {
	Create(ctx context.Context, inv Invoice) error
	Update(ctx context.Context, inv Invoice) error
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, clientID string) ([]Invoice, error)
	Delete(ctx context.Context, id string) error
}
