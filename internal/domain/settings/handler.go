package settings

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
	r.Route("/settings", func(sr chi.Router) {
		sr.Get("/", getSettingsHandler(svc, g))
		sr.Put("/", updateSettingsHandler(svc, g))
	})
}

type updateSettingsRequest struct {
	ClinicName    *string `json:"clinic_name"`
	InvoicePrefix *string `json:"invoice_prefix"`
	ShareTTLDays  *int    `json:"share_ttl_days"`
}

type settingsResponse struct {
	ClinicName    string     `json:"clinic_name"`
	InvoicePrefix string     `json:"invoice_prefix"`
	ShareTTLDays  int        `json:"share_ttl_days"`
	UpdatedBy     string     `json:"updated_by,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// getSettingsHandler: lectura para cualquier usuario autenticado.
func getSettingsHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Authenticate(r.Context()); err != nil {
			guard.WriteError(w, err)
			return
		}

		cur, err := svc.Get(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toSettingsResponse(cur))
	}
}

func updateSettingsHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Require(r.Context(), permissions.ManageSystemSettings)
		if err != nil {
			guard.WriteError(w, err)
			return
		}

		var req updateSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cur, err := svc.Update(r.Context(), UpdateInput{
			ClinicName:    req.ClinicName,
			InvoicePrefix: req.InvoicePrefix,
			ShareTTLDays:  req.ShareTTLDays,
			UpdatedBy:     p.ID,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toSettingsResponse(cur))
	}
}

func toSettingsResponse(s Settings) settingsResponse {
	resp := settingsResponse{
		ClinicName:    s.ClinicName,
		InvoicePrefix: s.InvoicePrefix,
		ShareTTLDays:  s.ShareTTLDays,
		UpdatedBy:     s.UpdatedBy,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
