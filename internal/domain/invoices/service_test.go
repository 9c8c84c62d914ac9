package invoices

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	byID map[string]Invoice
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Invoice{}}
}

func (r *testRepo) Create(ctx context.Context, inv Invoice) error {
	r.byID[inv.ID] = inv
	return nil
}

func (r *testRepo) Update(ctx context.Context, inv Invoice) error {
	if _, ok := r.byID[inv.ID]; !ok {
		return errors.New("repo: not found")
	}
	r.byID[inv.ID] = inv
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return Invoice{}, errors.New("repo: not found")
	}
	return inv, nil
}

func (r *testRepo) List(ctx context.Context, clientID string) ([]Invoice, error) {
	out := make([]Invoice, 0)
	for _, inv := range r.byID {
		if clientID != "" && inv.ClientID != clientID {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func mustCreate(t *testing.T, svc *Service, lines []LineInput) Invoice {
	t.Helper()
	inv, err := svc.Create(context.Background(), CreateInput{
		Number:   "INV-001",
		ClientID: "client-1",
		Lines:    lines,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return inv
}

func TestCreate_ComputesTotalInCents(t *testing.T) {
	svc := NewService(newTestRepo())

	inv := mustCreate(t, svc, []LineInput{
		{Description: "Consulta", Quantity: 1, UnitCents: 3500},
		{Description: "Vacuna antirrábica", Quantity: 2, UnitCents: 1200},
	})

	if inv.Status != StatusDraft {
		t.Fatalf("new invoices start as draft, got %s", inv.Status)
	}
	if inv.TotalCents != 3500+2*1200 {
		t.Fatalf("wrong total: %d", inv.TotalCents)
	}
}

func TestCreate_RejectsBadLines(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := [][]LineInput{
		nil,
		{{Description: "  ", Quantity: 1, UnitCents: 100}},
		{{Description: "Consulta", Quantity: 0, UnitCents: 100}},
		{{Description: "Consulta", Quantity: 1, UnitCents: -1}},
	}
	for i, lines := range cases {
		_, err := svc.Create(context.Background(), CreateInput{
			Number: "INV-001", ClientID: "client-1", Lines: lines,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestUpdate_ReplacingLinesRecomputesTotal(t *testing.T) {
	svc := NewService(newTestRepo())
	inv := mustCreate(t, svc, []LineInput{{Description: "Consulta", Quantity: 1, UnitCents: 3500}})

	updated, err := svc.Update(context.Background(), inv.ID, UpdateInput{
		Lines: []LineInput{{Description: "Cirugía menor", Quantity: 1, UnitCents: 20000}},
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.TotalCents != 20000 {
		t.Fatalf("total not recomputed: %d", updated.TotalCents)
	}
	if len(updated.Lines) != 1 || updated.Lines[0].Description != "Cirugía menor" {
		t.Fatalf("lines must be replaced wholesale: %+v", updated.Lines)
	}
}

func TestUpdate_VoidInvoiceIsImmutable(t *testing.T) {
	svc := NewService(newTestRepo())
	inv := mustCreate(t, svc, []LineInput{{Description: "Consulta", Quantity: 1, UnitCents: 3500}})

	status := "void"
	if _, err := svc.Update(context.Background(), inv.ID, UpdateInput{Status: &status}); err != nil {
		t.Fatalf("void error: %v", err)
	}

	number := "INV-002"
	_, err := svc.Update(context.Background(), inv.ID, UpdateInput{Number: &number})
	if !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState on void invoice, got %v", err)
	}
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(newTestRepo())
	inv := mustCreate(t, svc, []LineInput{{Description: "Consulta", Quantity: 1, UnitCents: 3500}})

	status := "archived"
	_, err := svc.Update(context.Background(), inv.ID, UpdateInput{Status: &status})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
