package invoices

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
	ErrBadState     = errors.New("invalid state")
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

type LineInput struct {
	Description string
	Quantity    int
	UnitCents   int64
}

type CreateInput struct {
	Number   string
	ClientID string
	IssuedAt *time.Time
	DueAt    *time.Time
	Lines    []LineInput
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Invoice, error) {
	if strings.TrimSpace(in.Number) == "" || strings.TrimSpace(in.ClientID) == "" {
		return Invoice{}, ErrInvalidInput
	}
	lines, err := normalizeLines(in.Lines)
	if err != nil {
		return Invoice{}, err
	}

	now := s.now()
	issuedAt := now
	if in.IssuedAt != nil {
		issuedAt = *in.IssuedAt
	}

	inv := Invoice{
		ID:         uuid.NewString(),
		Number:     strings.TrimSpace(in.Number),
		ClientID:   strings.TrimSpace(in.ClientID),
		IssuedAt:   issuedAt,
		DueAt:      in.DueAt,
		Lines:      lines,
		TotalCents: totalOf(lines),
		Status:     StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Invoice{}, ErrNotFound
	}
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, clientID string) ([]Invoice, error) {
	return s.repo.List(ctx, strings.TrimSpace(clientID))
}

type UpdateInput struct {
	Number *string
	DueAt  *time.Time
	Lines  []LineInput // si viene no-nil, reemplaza los renglones completos
	Status *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Invoice, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return Invoice{}, err
	}

	// Una factura anulada no se edita más.
	if inv.Status == StatusVoid {
		return Invoice{}, ErrBadState
	}

	if in.Number != nil {
		number := strings.TrimSpace(*in.Number)
		if number == "" {
			return Invoice{}, ErrInvalidInput
		}
		inv.Number = number
	}
	if in.DueAt != nil {
		inv.DueAt = in.DueAt
	}
	if in.Lines != nil {
		lines, err := normalizeLines(in.Lines)
		if err != nil {
			return Invoice{}, err
		}
		inv.Lines = lines
		inv.TotalCents = totalOf(lines)
	}
	if in.Status != nil {
		status, err := parseStatus(*in.Status)
		if err != nil {
			return Invoice{}, err
		}
		inv.Status = status
	}

	inv.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, inv.ID)
}

func normalizeLines(in []LineInput) ([]Line, error) {
	if len(in) == 0 {
		return nil, ErrInvalidInput
	}
	out := make([]Line, 0, len(in))
	for _, l := range in {
		desc := strings.TrimSpace(l.Description)
		if desc == "" || l.Quantity <= 0 || l.UnitCents < 0 {
			return nil, ErrInvalidInput
		}
		out = append(out, Line{Description: desc, Quantity: l.Quantity, UnitCents: l.UnitCents})
	}
	return out, nil
}

func totalOf(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.TotalCents()
	}
	return total
}

func parseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusIssued:
		return StatusIssued, nil
	case StatusPaid:
		return StatusPaid, nil
	case StatusVoid:
		return StatusVoid, nil
	default:
		return "", ErrInvalidInput
	}
}
