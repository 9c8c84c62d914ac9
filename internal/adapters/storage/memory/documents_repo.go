package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"vet-records/internal/domain/documents"
)

// storedRevision guarda metadata y bytes juntos; hacia afuera los bytes
// solo salen por GetRevisionPayload.
type storedRevision struct {
	meta    documents.Revision
	payload documents.Payload
}

type storedDocument struct {
	meta      documents.Document
	payload   documents.Payload
	revisions []storedRevision
}

type documentRepo struct {
	mu   sync.RWMutex
	byID map[string]*storedDocument
}

func NewDocumentRepo() documents.Repository {
	return &documentRepo{
		byID: make(map[string]*storedDocument),
	}
}

func (r *documentRepo) Create(ctx context.Context, d documents.Document, p documents.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("document id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("document already exists")
	}

	d.Revisions = nil
	r.byID[d.ID] = &storedDocument{
		meta:    d,
		payload: clonePayload(p),
	}
	return nil
}

func (r *documentRepo) Get(ctx context.Context, id string) (documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sd, ok := r.byID[id]
	if !ok {
		return documents.Document{}, documents.ErrNotFound
	}
	return snapshotMeta(sd), nil
}

func (r *documentRepo) List(ctx context.Context, f documents.Filter) ([]documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]documents.Document, 0)
	for _, sd := range r.byID {
		m := sd.meta
		if f.OrganizationID != "" && m.OrganizationID != f.OrganizationID {
			continue
		}
		if f.ClientID != "" && m.ClientID != f.ClientID {
			continue
		}
		if f.AnimalID != "" && m.AnimalID != f.AnimalID {
			continue
		}
		m.Revisions = nil
		if m.Share != nil {
			g := *m.Share
			m.Share = &g
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *documentRepo) GetPayload(ctx context.Context, id string) (documents.Payload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sd, ok := r.byID[id]
	if !ok {
		return documents.Payload{}, documents.ErrNotFound
	}
	return clonePayload(sd.payload), nil
}

func (r *documentRepo) GetRevisionPayload(ctx context.Context, id string, version int) (documents.Payload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sd, ok := r.byID[id]
	if !ok {
		return documents.Payload{}, documents.ErrNotFound
	}
	for _, rev := range sd.revisions {
		if rev.meta.Version == version {
			return clonePayload(rev.payload), nil
		}
	}
	return documents.Payload{}, documents.ErrVersionNotFound
}

func (r *documentRepo) UpdateMetadata(ctx context.Context, d documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sd, ok := r.byID[d.ID]
	if !ok {
		return documents.ErrNotFound
	}

	// Lo que manda el service para metadata no toca payload, versión ni
	// estado de compartición; esos campos son propiedad del repo.
	d.Revisions = nil
	d.MediaType = sd.meta.MediaType
	d.SizeBytes = sd.meta.SizeBytes
	d.CurrentVersion = sd.meta.CurrentVersion
	d.Share = sd.meta.Share
	sd.meta = d
	return nil
}

func (r *documentRepo) ReplacePayload(ctx context.Context, id string, baseVersion int, p documents.Payload, rev documents.Revision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sd, ok := r.byID[id]
	if !ok {
		return documents.ErrNotFound
	}
	if sd.meta.CurrentVersion != baseVersion {
		return documents.ErrVersionConflict
	}

	// El payload vivo pasa a ser la revisión; la copia ocurre acá, dentro
	// del mismo lock que el swap.
	rev.Payload = documents.Payload{}
	sd.revisions = append(sd.revisions, storedRevision{
		meta:    rev,
		payload: sd.payload,
	})

	sd.payload = clonePayload(p)
	sd.meta.MediaType = p.MediaType
	sd.meta.SizeBytes = len(p.Data)
	sd.meta.CurrentVersion = baseVersion + 1
	sd.meta.UpdatedAt = rev.CreatedAt
	return nil
}

func (r *documentRepo) SetShare(ctx context.Context, id string, grant documents.ShareGrant, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sd, ok := r.byID[id]
	if !ok {
		return documents.ErrNotFound
	}

	g := grant
	sd.meta.Share = &g
	sd.meta.UpdatedAt = now
	return nil
}

func (r *documentRepo) FindByShareToken(ctx context.Context, token string) (documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Recorre todo siempre; el service hace encima la comparación en
	// tiempo constante.
	var found *storedDocument
	for _, sd := range r.byID {
		if sd.meta.Share != nil && sd.meta.Share.Token == token {
			found = sd
		}
	}
	if found == nil {
		return documents.Document{}, documents.ErrNotFound
	}
	return snapshotMeta(found), nil
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return documents.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// snapshotMeta copia metadata + metadata de revisiones, nunca bytes.
// Se llama con el lock tomado.
func snapshotMeta(sd *storedDocument) documents.Document {
	m := sd.meta
	if m.Share != nil {
		g := *m.Share
		m.Share = &g
	}
	m.Revisions = make([]documents.Revision, 0, len(sd.revisions))
	for _, rev := range sd.revisions {
		meta := rev.meta
		meta.Payload = documents.Payload{}
		m.Revisions = append(m.Revisions, meta)
	}
	return m
}

func clonePayload(p documents.Payload) documents.Payload {
	return documents.Payload{
		Data:      append([]byte(nil), p.Data...),
		MediaType: p.MediaType,
	}
}
