package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrInvalidTTL      = errors.New("invalid ttl")
	ErrNotFound        = errors.New("not found")
	ErrVersionNotFound = errors.New("version not found")

	// ErrVersionConflict lo devuelven los repos cuando el CAS de
	// currentVersion pierde; el service reintenta.
	ErrVersionConflict = errors.New("version conflict")

	// ErrConflict sale al caller cuando se agotaron los reintentos.
	ErrConflict = errors.New("conflicting update")
)

const (
	MaxPayloadBytes = 10 << 20 // 10 MiB
	MediaTypePDF    = "application/pdf"

	maxReplaceRetries = 3
)

type Service struct {
	repo Repository
	now  func() time.Time

	// newToken se inyecta en tests; default: 20 bytes de crypto/rand en hex.
	newToken func() (string, error)

	// shareTTL resuelve el TTL configurado para share links; 0 o nil cae
	// en DefaultShareTTL. Lo alimenta el módulo de settings vía el router.
	shareTTL func(ctx context.Context) time.Duration
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		now:      time.Now,
		newToken: randomToken,
	}
}

// ShareTTLFrom registra la fuente del TTL por defecto de los share links.
func (s *Service) ShareTTLFrom(src func(ctx context.Context) time.Duration) {
	s.shareTTL = src
}

type CreateInput struct {
	Name        string
	Description string
	FileType    string
	Editable    bool
	Printable   bool

	AnimalID       string
	ClientID       string
	OrganizationID string
}

// Create da de alta un documento con currentVersion = 1, sin revisiones
// y sin estado de compartición.
func (s *Service) Create(ctx context.Context, in CreateInput, p Payload, actor string) (Document, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Document{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if strings.TrimSpace(actor) == "" {
		return Document{}, fmt.Errorf("%w: actor required", ErrInvalidInput)
	}
	if err := validatePayload(p); err != nil {
		return Document{}, err
	}

	now := s.now()
	d := Document{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		FileType:       strings.TrimSpace(in.FileType),
		Editable:       in.Editable,
		Printable:      in.Printable,
		AnimalID:       strings.TrimSpace(in.AnimalID),
		ClientID:       strings.TrimSpace(in.ClientID),
		OrganizationID: strings.TrimSpace(in.OrganizationID),
		MediaType:      p.MediaType,
		SizeBytes:      len(p.Data),
		CurrentVersion: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, d, p); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Document{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Document, error) {
	return s.repo.List(ctx, f)
}

// GetCurrent devuelve el payload vivo.
func (s *Service) GetCurrent(ctx context.Context, id string) (Payload, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Payload{}, ErrNotFound
	}
	return s.repo.GetPayload(ctx, id)
}

// GetRevision es 1-indexada contra el contador publicado:
// - version == currentVersion => payload vivo
// - 1 <= version < currentVersion => revisión en la posición version-1
// - cualquier otro valor => ErrVersionNotFound
func (s *Service) GetRevision(ctx context.Context, id string, version int) (Payload, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Payload{}, err
	}

	switch {
	case version == d.CurrentVersion:
		return s.repo.GetPayload(ctx, d.ID)
	case version >= 1 && version < d.CurrentVersion:
		return s.repo.GetRevisionPayload(ctx, d.ID, version)
	default:
		return Payload{}, ErrVersionNotFound
	}
}

// ReplacePayload empuja el payload vivo como revisión y lo reemplaza,
// todo como un solo paso atómico en el repo. Si otro reemplazo ganó la
// carrera, reintenta contra la versión nueva; tras agotar reintentos
// devuelve ErrConflict (nunca pisa en silencio).
func (s *Service) ReplacePayload(ctx context.Context, id string, p Payload, note, actor string) (Document, error) {
	if strings.TrimSpace(actor) == "" {
		return Document{}, fmt.Errorf("%w: actor required", ErrInvalidInput)
	}
	if err := validatePayload(p); err != nil {
		return Document{}, err
	}

	for attempt := 0; attempt < maxReplaceRetries; attempt++ {
		d, err := s.Get(ctx, id)
		if err != nil {
			return Document{}, err
		}

		// El payload de la revisión lo copia el repo del vivo, dentro de la
		// misma operación; acá solo va la metadata.
		rev := Revision{
			Version:   d.CurrentVersion,
			CreatedAt: s.now(),
			CreatedBy: strings.TrimSpace(actor),
			Note:      strings.TrimSpace(note),
		}

		err = s.repo.ReplacePayload(ctx, id, d.CurrentVersion, p, rev)
		if err == nil {
			return s.Get(ctx, id)
		}
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		return Document{}, err
	}

	return Document{}, ErrConflict
}

type UpdateMetadataInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string
	Description *string
	FileType    *string
	Editable    *bool
	Printable   *bool

	AnimalID       *string
	ClientID       *string
	OrganizationID *string
}

// UpdateMetadata muta solo metadata; jamás toca payload ni currentVersion.
func (s *Service) UpdateMetadata(ctx context.Context, id string, in UpdateMetadataInput) (Document, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Document{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		d.Name = name
	}
	if in.Description != nil {
		d.Description = strings.TrimSpace(*in.Description)
	}
	if in.FileType != nil {
		d.FileType = strings.TrimSpace(*in.FileType)
	}
	if in.Editable != nil {
		d.Editable = *in.Editable
	}
	if in.Printable != nil {
		d.Printable = *in.Printable
	}
	if in.AnimalID != nil {
		d.AnimalID = strings.TrimSpace(*in.AnimalID)
	}
	if in.ClientID != nil {
		d.ClientID = strings.TrimSpace(*in.ClientID)
	}
	if in.OrganizationID != nil {
		d.OrganizationID = strings.TrimSpace(*in.OrganizationID)
	}

	d.UpdatedAt = s.now()

	if err := s.repo.UpdateMetadata(ctx, d); err != nil {
		return Document{}, err
	}
	return s.Get(ctx, id)
}

// Delete borra documento + historial completo como unidad. Hard delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validatePayload(p Payload) error {
	if len(p.Data) == 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidPayload)
	}
	if len(p.Data) > MaxPayloadBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidPayload, MaxPayloadBytes)
	}
	if p.MediaType != MediaTypePDF {
		return fmt.Errorf("%w: only %s is accepted", ErrInvalidPayload, MediaTypePDF)
	}
	return nil
}
