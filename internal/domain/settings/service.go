package settings

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound lo devuelven los adapters cuando todavía no se guardó nada;
// el service lo traduce a los defaults.
var ErrNotFound = errors.New("not found")

func defaults() Settings {
	return Settings{
		ClinicName:    "Veterinary Clinic",
		InvoicePrefix: "INV-",
	}
}

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

func (s *Service) Get(ctx context.Context) (Settings, error) {
	cur, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return defaults(), nil
		}
		return Settings{}, err
	}
	return cur, nil
}

type UpdateInput struct {
	ClinicName    *string
	InvoicePrefix *string
	ShareTTLDays  *int
	UpdatedBy     string
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (Settings, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	if in.ClinicName != nil {
		name := strings.TrimSpace(*in.ClinicName)
		if name == "" {
			return Settings{}, ErrInvalidInput
		}
		cur.ClinicName = name
	}
	if in.InvoicePrefix != nil {
		cur.InvoicePrefix = strings.TrimSpace(*in.InvoicePrefix)
	}
	if in.ShareTTLDays != nil {
		if *in.ShareTTLDays < 0 {
			return Settings{}, ErrInvalidInput
		}
		cur.ShareTTLDays = *in.ShareTTLDays
	}

	cur.UpdatedBy = strings.TrimSpace(in.UpdatedBy)
	cur.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, cur); err != nil {
		return Settings{}, err
	}
	return cur, nil
}
