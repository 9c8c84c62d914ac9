package memory

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vet-records/internal/domain/documents"
)

func seedDocument(t *testing.T, repo documents.Repository, id string, data []byte) {
	t.Helper()
	d := documents.Document{
		ID:             id,
		Name:           "historia clínica",
		MediaType:      documents.MediaTypePDF,
		SizeBytes:      len(data),
		CurrentVersion: 1,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	p := documents.Payload{Data: data, MediaType: documents.MediaTypePDF}
	if err := repo.Create(context.Background(), d, p); err != nil {
		t.Fatalf("seed create: %v", err)
	}
}

func TestDocumentRepoReplacePayloadCAS(t *testing.T) {
	repo := NewDocumentRepo()
	ctx := context.Background()
	seedDocument(t, repo, "doc-1", []byte("%PDF-1.4 v1"))

	newPayload := documents.Payload{Data: []byte("%PDF-1.4 v2"), MediaType: documents.MediaTypePDF}
	rev := documents.Revision{Version: 1, CreatedAt: time.Now(), CreatedBy: "u1"}

	if err := repo.ReplacePayload(ctx, "doc-1", 1, newPayload, rev); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// Mismo baseVersion de nuevo: el CAS tiene que perder.
	err := repo.ReplacePayload(ctx, "doc-1", 1, newPayload, rev)
	if !errors.Is(err, documents.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	d, err := repo.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.CurrentVersion != 2 {
		t.Fatalf("expected version 2, got %d", d.CurrentVersion)
	}
	if len(d.Revisions) != 1 {
		t.Fatalf("expected 1 revision, got %d", len(d.Revisions))
	}

	old, err := repo.GetRevisionPayload(ctx, "doc-1", 1)
	if err != nil {
		t.Fatalf("revision payload: %v", err)
	}
	if !bytes.Equal(old.Data, []byte("%PDF-1.4 v1")) {
		t.Fatalf("revision 1 should hold the original bytes")
	}
}

// Dos goroutines compiten por el mismo baseVersion: gana exactamente una y
// queda exactamente una revisión nueva.
func TestDocumentRepoConcurrentReplace(t *testing.T) {
	repo := NewDocumentRepo()
	ctx := context.Background()
	seedDocument(t, repo, "doc-1", []byte("%PDF-1.4 v1"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := documents.Payload{Data: []byte("%PDF-1.4 racer"), MediaType: documents.MediaTypePDF}
			rev := documents.Revision{Version: 1, CreatedAt: time.Now(), CreatedBy: "racer"}
			errs[i] = repo.ReplacePayload(ctx, "doc-1", 1, p, rev)
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, documents.ErrVersionConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected 1 win and 1 conflict, got %d/%d", wins, conflicts)
	}

	d, err := repo.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.CurrentVersion != 2 {
		t.Fatalf("expected version 2, got %d", d.CurrentVersion)
	}
	if len(d.Revisions) != 1 {
		t.Fatalf("expected exactly 1 revision, got %d", len(d.Revisions))
	}
}

func TestDocumentRepoSetShareReplacesGrant(t *testing.T) {
	repo := NewDocumentRepo()
	ctx := context.Background()
	seedDocument(t, repo, "doc-1", []byte("%PDF-1.4"))

	now := time.Now()
	first := documents.ShareGrant{Token: "aaaa", Expiry: now.Add(time.Hour), Shared: true}
	if err := repo.SetShare(ctx, "doc-1", first, now); err != nil {
		t.Fatalf("set share: %v", err)
	}

	second := documents.ShareGrant{Token: "bbbb", Expiry: now.Add(time.Hour), Shared: true}
	if err := repo.SetShare(ctx, "doc-1", second, now); err != nil {
		t.Fatalf("set share: %v", err)
	}

	if _, err := repo.FindByShareToken(ctx, "aaaa"); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("old token should be dead, got %v", err)
	}
	d, err := repo.FindByShareToken(ctx, "bbbb")
	if err != nil {
		t.Fatalf("new token lookup: %v", err)
	}
	if d.ID != "doc-1" {
		t.Fatalf("unexpected document %q", d.ID)
	}
}
