package blacklist

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
	ClientID  string
	Email     string
	Phone     string
	Reason    string
	CreatedBy string
}

// Create exige un motivo y al menos un identificador (cliente, email o
// teléfono); una entrada sin forma de matchear no sirve de nada.
func (s *Service) Create(ctx context.Context, in CreateInput) (Entry, error) {
	reason := strings.TrimSpace(in.Reason)
	clientID := strings.TrimSpace(in.ClientID)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	if reason == "" || strings.TrimSpace(in.CreatedBy) == "" {
		return Entry{}, ErrInvalidInput
	}
	if clientID == "" && email == "" && phone == "" {
		return Entry{}, ErrInvalidInput
	}

	now := s.now()
	e := Entry{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Email:     email,
		Phone:     phone,
		Reason:    reason,
		CreatedBy: strings.TrimSpace(in.CreatedBy),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, ErrNotFound
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// IsListed indica si un cliente tiene al menos una entrada vigente.
func (s *Service) IsListed(ctx context.Context, clientID string) (bool, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return false, nil
	}
	entries, err := s.repo.FindByClient(ctx, clientID)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

type UpdateInput struct {
	Email  *string
	Phone  *string
	Reason *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Entry, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	if in.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		e.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Reason != nil {
		reason := strings.TrimSpace(*in.Reason)
		if reason == "" {
			return Entry{}, ErrInvalidInput
		}
		e.Reason = reason
	}

	// La edición no puede dejar la entrada sin ningún identificador.
	if e.ClientID == "" && e.Email == "" && e.Phone == "" {
		return Entry{}, ErrInvalidInput
	}

	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, e.ID)
}
