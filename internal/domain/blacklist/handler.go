package blacklist

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
	r.Route("/blacklist", func(br chi.Router) {
		br.Get("/", listEntriesHandler(svc, g))
		br.Post("/", createEntryHandler(svc, g))
		br.Get("/{entryID}", getEntryHandler(svc, g))
		br.Put("/{entryID}", updateEntryHandler(svc, g))
		br.Delete("/{entryID}", deleteEntryHandler(svc, g))
	})
}

type createEntryRequest struct {
	ClientID string `json:"client_id"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Reason   string `json:"reason"`
}

type updateEntryRequest struct {
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Reason *string `json:"reason"`
}

type entryResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func listEntriesHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadBlacklist); err != nil {
			guard.WriteError(w, err)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createEntryHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Require(r.Context(), permissions.CreateBlacklist)
		if err != nil {
			guard.WriteError(w, err)
			return
		}

		var req createEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			ClientID:  req.ClientID,
			Email:     req.Email,
			Phone:     req.Phone,
			Reason:    req.Reason,
			CreatedBy: p.ID,
		})
		if err != nil {
			writeEntryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

func getEntryHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadBlacklist); err != nil {
			guard.WriteError(w, err)
			return
		}

		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "entryID"))
		if err != nil {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

func updateEntryHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.UpdateBlacklist); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req updateEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "entryID"), UpdateInput{
			Email:  req.Email,
			Phone:  req.Phone,
			Reason: req.Reason,
		})
		if err != nil {
			writeEntryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

func deleteEntryHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.DeleteBlacklist); err != nil {
			guard.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "entryID")); err != nil {
			writeEntryError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeEntryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "entry not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		ClientID:  e.ClientID,
		Email:     e.Email,
		Phone:     e.Phone,
		Reason:    e.Reason,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
