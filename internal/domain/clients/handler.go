package clients

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
	r.Route("/clients", func(cr chi.Router) {
		cr.Get("/", listClientsHandler(svc, g))
		cr.Post("/", createClientHandler(svc, g))
		cr.Get("/{clientID}", getClientHandler(svc, g))
		cr.Put("/{clientID}", updateClientHandler(svc, g))
		cr.Delete("/{clientID}", deleteClientHandler(svc, g))
	})
}

type clientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type updateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type clientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func listClientsHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadClients); err != nil {
			guard.WriteError(w, err)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]clientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toClientResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createClientHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.CreateClients); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req clientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			Notes:   req.Notes,
		})
		if err != nil {
			writeClientError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toClientResponse(c))
	}
}

func getClientHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadClients); err != nil {
			guard.WriteError(w, err)
			return
		}

		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clientID"))
		if err != nil {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toClientResponse(c))
	}
}

func updateClientHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.UpdateClients); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req updateClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "clientID"), UpdateInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			Notes:   req.Notes,
		})
		if err != nil {
			writeClientError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toClientResponse(c))
	}
}

// deleteClientHandler godoc
// @Summary Borrar cliente
// @Description Falla con 409 mientras existan animales que referencien al cliente.
// @Tags clients
// @Router /clients/{clientID} [delete]
func deleteClientHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.DeleteClients); err != nil {
			guard.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "clientID")); err != nil {
			writeClientError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeClientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "client not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "client has dependent animals", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toClientResponse(c Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
