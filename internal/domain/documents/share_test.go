package documents

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestIssue_DefaultTTLAndTokenShape(t *testing.T) {
	svc := newTestService(newTestRepo())
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d := mustCreate(t, svc, pdfPayload(10))

	grant, err := svc.Issue(context.Background(), d.ID, 0, "vet-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if len(grant.Token) != 40 { // 20 bytes hex
		t.Fatalf("expected 40 hex chars, got %d (%s)", len(grant.Token), grant.Token)
	}
	if !grant.Expiry.Equal(now.Add(DefaultShareTTL)) {
		t.Fatalf("expected default 7d expiry, got %v", grant.Expiry)
	}
	if !grant.Shared {
		t.Fatalf("expected grant marked shared")
	}
}

func TestIssue_ConfiguredTTLOverridesDefault(t *testing.T) {
	svc := newTestService(newTestRepo())
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.ShareTTLFrom(func(ctx context.Context) time.Duration { return 24 * time.Hour })

	d := mustCreate(t, svc, pdfPayload(10))

	// Sin TTL explícito gana el configurado, no los 7 días.
	grant, err := svc.Issue(context.Background(), d.ID, 0, "vet-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !grant.Expiry.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("expected configured 24h expiry, got %v", grant.Expiry)
	}

	// Un TTL explícito del caller sigue pisando la configuración.
	grant, err = svc.Issue(context.Background(), d.ID, 2*time.Hour, "vet-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !grant.Expiry.Equal(now.Add(2 * time.Hour)) {
		t.Fatalf("expected explicit 2h expiry, got %v", grant.Expiry)
	}
}

func TestIssue_TTLSourceZeroFallsBackToDefault(t *testing.T) {
	svc := newTestService(newTestRepo())
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.ShareTTLFrom(func(ctx context.Context) time.Duration { return 0 })

	d := mustCreate(t, svc, pdfPayload(10))

	grant, err := svc.Issue(context.Background(), d.ID, 0, "vet-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !grant.Expiry.Equal(now.Add(DefaultShareTTL)) {
		t.Fatalf("expected default 7d expiry, got %v", grant.Expiry)
	}
}

func TestIssue_NegativeTTL(t *testing.T) {
	svc := newTestService(newTestRepo())
	d := mustCreate(t, svc, pdfPayload(10))

	_, err := svc.Issue(context.Background(), d.ID, -time.Hour, "vet-1")
	if !errors.Is(err, ErrInvalidTTL) {
		t.Fatalf("expected ErrInvalidTTL, got %v", err)
	}
}

func TestIssue_UnknownDocument(t *testing.T) {
	svc := newTestService(newTestRepo())

	_, err := svc.Issue(context.Background(), "nope", 0, "vet-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_HappyPath(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	p := pdfPayload(123)
	d := mustCreate(t, svc, p)

	grant, err := svc.Issue(ctx, d.ID, time.Hour, "vet-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := svc.Resolve(ctx, grant.Token)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !bytes.Equal(got.Data, p.Data) {
		t.Fatalf("resolved payload does not match current payload")
	}
}

func TestResolve_AfterExpiry(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d := mustCreate(t, svc, pdfPayload(10))
	grant, err := svc.Issue(ctx, d.ID, time.Minute, "vet-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// reloj pasado el expiry: misma respuesta que un token inexistente
	svc.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := svc.Resolve(ctx, grant.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestResolve_ExpiryBoundaryIsExclusive(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d := mustCreate(t, svc, pdfPayload(10))
	grant, _ := svc.Issue(ctx, d.ID, time.Minute, "vet-1")

	// now == expiry ya no es válido (se exige expiry > now)
	svc.now = func() time.Time { return grant.Expiry }
	if _, err := svc.Resolve(ctx, grant.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound exactly at expiry, got %v", err)
	}
}

func TestIssue_ReissueInvalidatesPreviousTokenImmediately(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	d := mustCreate(t, svc, pdfPayload(10))

	first, err := svc.Issue(ctx, d.ID, time.Hour, "vet-1")
	if err != nil {
		t.Fatalf("Issue #1 error: %v", err)
	}
	second, err := svc.Issue(ctx, d.ID, time.Hour, "vet-1")
	if err != nil {
		t.Fatalf("Issue #2 error: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("reissue must generate a fresh token")
	}

	// el primero estaba dentro de su ventana de validez y aún así muere
	if _, err := svc.Resolve(ctx, first.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected first token dead after reissue, got %v", err)
	}
	if _, err := svc.Resolve(ctx, second.Token); err != nil {
		t.Fatalf("expected second token valid, got %v", err)
	}
}

func TestResolve_UnknownAndEmptyToken(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.Resolve(context.Background(), "ffffffffffffffffffffffffffffffffffffffff"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown token, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty token, got %v", err)
	}
}

func TestResolve_ServesLivePayloadAfterReplace(t *testing.T) {
	svc := newTestService(newTestRepo())
	ctx := context.Background()

	p1 := pdfPayload(10)
	p2 := pdfPayload(20)

	d := mustCreate(t, svc, p1)
	grant, _ := svc.Issue(ctx, d.ID, time.Hour, "vet-1")

	if _, err := svc.ReplacePayload(ctx, d.ID, p2, "", "vet-1"); err != nil {
		t.Fatalf("ReplacePayload error: %v", err)
	}

	got, err := svc.Resolve(ctx, grant.Token)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !bytes.Equal(got.Data, p2.Data) {
		t.Fatalf("share link must serve the live payload, not a snapshot")
	}
}
