package invoices

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vet-records/internal/domain/permissions"
	"vet-records/internal/guard"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, g *guard.Guard) {
	r.Route("/invoices", func(ir chi.Router) {
		ir.Get("/", listInvoicesHandler(svc, g))
		ir.Post("/", createInvoiceHandler(svc, g))
		ir.Get("/{invoiceID}", getInvoiceHandler(svc, g))
		ir.Put("/{invoiceID}", updateInvoiceHandler(svc, g))
		ir.Delete("/{invoiceID}", deleteInvoiceHandler(svc, g))
	})
}

type lineRequest struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
}

type createInvoiceRequest struct {
	Number   string        `json:"number"`
	ClientID string        `json:"client_id"`
	IssuedAt *time.Time    `json:"issued_at"`
	DueAt    *time.Time    `json:"due_at"`
	Lines    []lineRequest `json:"lines"`
}

type updateInvoiceRequest struct {
	Number *string       `json:"number"`
	DueAt  *time.Time    `json:"due_at"`
	Lines  []lineRequest `json:"lines"`
	Status *string       `json:"status"`
}

type lineResponse struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
	TotalCents  int64  `json:"total_cents"`
}

type invoiceResponse struct {
	ID         string         `json:"id"`
	Number     string         `json:"number"`
	ClientID   string         `json:"client_id"`
	IssuedAt   time.Time      `json:"issued_at"`
	DueAt      *time.Time     `json:"due_at,omitempty"`
	Lines      []lineResponse `json:"lines"`
	TotalCents int64          `json:"total_cents"`
	Status     Status         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func listInvoicesHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadInvoices); err != nil {
			guard.WriteError(w, err)
			return
		}

		items, err := svc.List(r.Context(), r.URL.Query().Get("client_id"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]invoiceResponse, 0, len(items))
		for _, inv := range items {
			out = append(out, toInvoiceResponse(inv))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createInvoiceHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.CreateInvoices); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req createInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		inv, err := svc.Create(r.Context(), CreateInput{
			Number:   req.Number,
			ClientID: req.ClientID,
			IssuedAt: req.IssuedAt,
			DueAt:    req.DueAt,
			Lines:    toLineInputs(req.Lines),
		})
		if err != nil {
			writeInvoiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
	}
}

func getInvoiceHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadInvoices); err != nil {
			guard.WriteError(w, err)
			return
		}

		inv, err := svc.GetByID(r.Context(), chi.URLParam(r, "invoiceID"))
		if err != nil {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func updateInvoiceHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.UpdateInvoices); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req updateInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Number: req.Number,
			DueAt:  req.DueAt,
			Status: req.Status,
		}
		if req.Lines != nil {
			in.Lines = toLineInputs(req.Lines)
		}

		inv, err := svc.Update(r.Context(), chi.URLParam(r, "invoiceID"), in)
		if err != nil {
			writeInvoiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func deleteInvoiceHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.DeleteInvoices); err != nil {
			guard.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "invoiceID")); err != nil {
			writeInvoiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toLineInputs(in []lineRequest) []LineInput {
	out := make([]LineInput, 0, len(in))
	for _, l := range in {
		out = append(out, LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCents:   l.UnitCents,
		})
	}
	return out
}

func writeInvoiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "invoice not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, "invoice is void", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toInvoiceResponse(inv Invoice) invoiceResponse {
	lines := make([]lineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, lineResponse{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCents:   l.UnitCents,
			TotalCents:  l.TotalCents(),
		})
	}
	return invoiceResponse{
		ID:         inv.ID,
		Number:     inv.Number,
		ClientID:   inv.ClientID,
		IssuedAt:   inv.IssuedAt,
		DueAt:      inv.DueAt,
		Lines:      lines,
		TotalCents: inv.TotalCents,
		Status:     inv.Status,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
