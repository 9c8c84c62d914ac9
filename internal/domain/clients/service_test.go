package clients

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	byID map[string]Client
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Client{}}
}

func (r *testRepo) Create(ctx context.Context, c Client) error {
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) Update(ctx context.Context, c Client) error {
	if _, ok := r.byID[c.ID]; !ok {
		return errors.New("repo: not found")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return Client{}, errors.New("repo: not found")
	}
	return c, nil
}

func (r *testRepo) List(ctx context.Context) ([]Client, error) {
	out := make([]Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errors.New("repo: not found")
	}
	delete(r.byID, id)
	return nil
}

// counterStub simula animals.Service.CountByClient.
type counterStub struct {
	counts map[string]int
}

func (c *counterStub) CountByClient(ctx context.Context, clientID string) (int, error) {
	return c.counts[clientID], nil
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newTestRepo(), &counterStub{})

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDelete_ConflictWhileAnimalsExist(t *testing.T) {
	repo := newTestRepo()
	counter := &counterStub{counts: map[string]int{}}
	svc := NewService(repo, counter)

	c, err := svc.Create(context.Background(), CreateInput{Name: "Ana Pérez"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// un animal activo referencia al cliente => 409
	counter.counts[c.ID] = 1
	if err := svc.Delete(context.Background(), c.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), c.ID); err != nil {
		t.Fatalf("client must survive a conflicting delete: %v", err)
	}

	// sin animales, el mismo delete pasa
	counter.counts[c.ID] = 0
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("expected delete to succeed after animals removed, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := NewService(newTestRepo(), &counterStub{})

	c, _ := svc.Create(context.Background(), CreateInput{Name: "Ana", Phone: "111"})

	email := "ana@example.com"
	updated, err := svc.Update(context.Background(), c.ID, UpdateInput{Email: &email})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Email != email {
		t.Fatalf("email not applied")
	}
	if updated.Phone != "111" || updated.Name != "Ana" {
		t.Fatalf("untouched fields must survive: %+v", updated)
	}
}
