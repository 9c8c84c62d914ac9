package documents

import (
	"context"
	"time"
)

type Filter struct {
	OrganizationID string
	ClientID       string
	AnimalID       string
}

type Repository interface {
	Create(ctx context.Context, d Document, p Payload) error

	// Get devuelve metadata + metadata de revisiones, sin bytes.
	Get(ctx context.Context, id string) (Document, error)

	// List devuelve metadata sin revisiones ni bytes.
	List(ctx context.Context, f Filter) ([]Document, error)

	GetPayload(ctx context.Context, id string) (Payload, error)
	GetRevisionPayload(ctx context.Context, id string, version int) (Payload, error)

	UpdateMetadata(ctx context.Context, d Document) error

	// ReplacePayload es el swap atómico: empuja el payload vivo como revisión
	// (con la metadata de rev), setea p como vivo e incrementa currentVersion.
	// Si currentVersion ya no es baseVersion devuelve ErrVersionConflict.
	ReplacePayload(ctx context.Context, id string, baseVersion int, p Payload, rev Revision) error

	// SetShare pisa el grant anterior, si había. El token viejo muere acá.
	SetShare(ctx context.Context, id string, grant ShareGrant, now time.Time) error

	FindByShareToken(ctx context.Context, token string) (Document, error)

	// Delete borra documento y revisiones como una unidad.
	Delete(ctx context.Context, id string) error
}
