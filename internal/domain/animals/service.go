package animals

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
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Microchip string
	Notes     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	if strings.TrimSpace(in.ClientID) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ErrInvalidInput
	}
	species, err := parseSpecies(in.Species)
	if err != nil {
		return Animal{}, err
	}
	sex := parseSex(in.Sex)

	now := s.now()
	a := Animal{
		ID:        uuid.NewString(),
		ClientID:  strings.TrimSpace(in.ClientID),
		Name:      strings.TrimSpace(in.Name),
		Species:   species,
		Breed:     strings.TrimSpace(in.Breed),
		Sex:       sex,
		BirthDate: in.BirthDate,
		Microchip: strings.TrimSpace(in.Microchip),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

// List devuelve todos los animales, o los de un cliente si clientID viene.
func (s *Service) List(ctx context.Context, clientID string) ([]Animal, error) {
	return s.repo.List(ctx, strings.TrimSpace(clientID))
}

// CountByClient lo consume clients.Service para el guard de borrado.
func (s *Service) CountByClient(ctx context.Context, clientID string) (int, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return 0, nil
	}
	return s.repo.CountByClient(ctx, clientID)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	BirthDate *time.Time
	Microchip *string
	Notes     *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Animal, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Animal{}, ErrInvalidInput
		}
		a.Name = name
	}
	if in.Species != nil {
		species, err := parseSpecies(*in.Species)
		if err != nil {
			return Animal{}, err
		}
		a.Species = species
	}
	if in.Breed != nil {
		a.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		a.Sex = parseSex(*in.Sex)
	}
	if in.BirthDate != nil {
		a.BirthDate = in.BirthDate
	}
	if in.Microchip != nil {
		a.Microchip = strings.TrimSpace(*in.Microchip)
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, a.ID)
}

func parseSpecies(raw string) (Species, error) {
	s := Species(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
		return s, nil
	default:
		return "", ErrInvalidInput
	}
}

func parseSex(raw string) Sex {
	s := Sex(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case SexMale, SexFemale:
		return s
	default:
		return SexUnknown
	}
}
