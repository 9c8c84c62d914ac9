package blacklist

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	byID map[string]Entry
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Entry{}}
}

func (r *testRepo) Create(ctx context.Context, e Entry) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) Update(ctx context.Context, e Entry) error {
	if _, ok := r.byID[e.ID]; !ok {
		return errors.New("repo: not found")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Entry, error) {
	e, ok := r.byID[id]
	if !ok {
		return Entry{}, errors.New("repo: not found")
	}
	return e, nil
}

func (r *testRepo) List(ctx context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out, nil
}

func (r *testRepo) FindByClient(ctx context.Context, clientID string) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range r.byID {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func TestCreate_RequiresReasonAndMatcher(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	// Sin motivo.
	_, err := svc.Create(ctx, CreateInput{Email: "x@example.com", CreatedBy: "u1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing reason: expected ErrInvalidInput, got %v", err)
	}

	// Motivo pero ningún identificador.
	_, err = svc.Create(ctx, CreateInput{Reason: "impago reiterado", CreatedBy: "u1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("no matcher: expected ErrInvalidInput, got %v", err)
	}

	// Con email alcanza.
	e, err := svc.Create(ctx, CreateInput{
		Reason:    "impago reiterado",
		Email:     "Moroso@Example.COM",
		CreatedBy: "u1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.Email != "moroso@example.com" {
		t.Fatalf("email must be normalized, got %q", e.Email)
	}
}

func TestIsListed(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	listed, err := svc.IsListed(ctx, "client-1")
	if err != nil || listed {
		t.Fatalf("empty list: expected false, got %v/%v", listed, err)
	}

	if _, err := svc.Create(ctx, CreateInput{
		Reason:    "agresión al personal",
		ClientID:  "client-1",
		CreatedBy: "u1",
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	listed, err = svc.IsListed(ctx, "client-1")
	if err != nil || !listed {
		t.Fatalf("expected client-1 listed, got %v/%v", listed, err)
	}
}

func TestUpdate_CannotDropAllMatchers(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateInput{
		Reason:    "impago",
		Email:     "x@example.com",
		CreatedBy: "u1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	empty := ""
	_, err = svc.Update(ctx, e.ID, UpdateInput{Email: &empty})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput when last matcher removed, got %v", err)
	}
}
