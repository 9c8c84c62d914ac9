package organizations

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
	r.Route("/organizations", func(or chi.Router) {
		or.Get("/", listOrganizationsHandler(svc, g))
		or.Post("/", createOrganizationHandler(svc, g))
		or.Get("/{organizationID}", getOrganizationHandler(svc, g))
		or.Put("/{organizationID}", updateOrganizationHandler(svc, g))
		or.Delete("/{organizationID}", deleteOrganizationHandler(svc, g))
	})
}

type organizationRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type updateOrganizationRequest struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"tax_id"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type organizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func listOrganizationsHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadOrganizations); err != nil {
			guard.WriteError(w, err)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]organizationResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOrganizationResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createOrganizationHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.CreateOrganizations); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req organizationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			TaxID:   req.TaxID,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			writeOrganizationError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toOrganizationResponse(o))
	}
}

func getOrganizationHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadOrganizations); err != nil {
			guard.WriteError(w, err)
			return
		}

		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "organizationID"))
		if err != nil {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toOrganizationResponse(o))
	}
}

func updateOrganizationHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.UpdateOrganizations); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req updateOrganizationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Update(r.Context(), chi.URLParam(r, "organizationID"), UpdateInput{
			Name:    req.Name,
			TaxID:   req.TaxID,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			writeOrganizationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrganizationResponse(o))
	}
}

// deleteOrganizationHandler: solo admin llega acá (staff no tiene
// delete_organizations en el catálogo).
func deleteOrganizationHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.DeleteOrganizations); err != nil {
			guard.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "organizationID")); err != nil {
			writeOrganizationError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeOrganizationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "organization not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toOrganizationResponse(o Organization) organizationResponse {
	return organizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		TaxID:     o.TaxID,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
