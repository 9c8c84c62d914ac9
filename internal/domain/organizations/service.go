package organizations

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
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	TaxID   string
	Email   string
	Phone   string
	Address string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Organization, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Organization{}, ErrInvalidInput
	}

	now := s.now()
	o := Organization{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		TaxID:     strings.TrimSpace(in.TaxID),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Organization{}, err
	}
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Organization{}, ErrNotFound
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Organization{}, ErrNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]Organization, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Name    *string
	TaxID   *string
	Email   *string
	Phone   *string
	Address *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Organization, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return Organization{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Organization{}, ErrInvalidInput
		}
		o.Name = name
	}
	if in.TaxID != nil {
		o.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Email != nil {
		o.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		o.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		o.Address = strings.TrimSpace(*in.Address)
	}

	o.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, o); err != nil {
		return Organization{}, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, o.ID)
}
