package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrConflict: el cliente tiene animales vivos que lo referencian.
	ErrConflict = errors.New("client has dependent animals")
)

// AnimalCounter evita el import cycle clients <-> animals.
// Lo implementa animals.Service.
type AnimalCounter interface {
	CountByClient(ctx context.Context, clientID string) (int, error)
}

type Service struct {
	repo    Repository
	animals AnimalCounter
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalCounter) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Client{}, ErrInvalidInput
	}

	now := s.now()
	c := Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, ErrNotFound
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Client, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Client{}, ErrInvalidInput
		}
		c.Name = name
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}

	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Delete borra el cliente salvo que tenga animales que lo referencien:
// la única invariante cross-entidad fuera del core que importa.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.animals.CountByClient(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}

	return s.repo.Delete(ctx, c.ID)
}
