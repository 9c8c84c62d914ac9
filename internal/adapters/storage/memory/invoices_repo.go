package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-records/internal/domain/invoices"
)

type invoiceRepo struct {
	mu   sync.RWMutex
	byID map[string]invoices.Invoice
}

func NewInvoiceRepo() invoices.Repository {
	return &invoiceRepo{
		byID: make(map[string]invoices.Invoice),
	}
}

func (r *invoiceRepo) Create(ctx context.Context, inv invoices.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(inv.ID) == "" {
		return errors.New("invoice id required")
	}
	if _, exists := r.byID[inv.ID]; exists {
		return errors.New("invoice already exists")
	}
	r.byID[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv invoices.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[inv.ID]; !exists {
		return ErrNotFound
	}
	r.byID[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (invoices.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byID[id]
	if !ok {
		return invoices.Invoice{}, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (r *invoiceRepo) List(ctx context.Context, clientID string) ([]invoices.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]invoices.Invoice, 0)
	for _, inv := range r.byID {
		if clientID != "" && inv.ClientID != clientID {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// cloneInvoice copia el slice de renglones para que nadie mute el estado
// guardado por referencia.
func cloneInvoice(inv invoices.Invoice) invoices.Invoice {
	out := inv
	out.Lines = append([]invoices.Line(nil), inv.Lines...)
	return out
}
