package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-records/internal/domain/permissions"
	"vet-records/internal/guard"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, g *guard.Guard) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc, g))
		ar.Post("/", createAnimalHandler(svc, g))
		ar.Get("/{animalID}", getAnimalHandler(svc, g))
		ar.Put("/{animalID}", updateAnimalHandler(svc, g))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc, g))
	})
}

type createAnimalRequest struct {
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD opcional
	Microchip string `json:"microchip"`
	Notes     string `json:"notes"`
}

type updateAnimalRequest struct {
	Name      *string `json:"name"`
	Species   *string `json:"species"`
	Breed     *string `json:"breed"`
	Sex       *string `json:"sex"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Microchip *string `json:"microchip"`
	Notes     *string `json:"notes"`
}

type animalResponse struct {
	ID        string     `json:"id"`
	ClientID  string     `json:"client_id"`
	Name      string     `json:"name"`
	Species   Species    `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	Sex       Sex        `json:"sex"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Microchip string     `json:"microchip,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func listAnimalsHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadAnimals); err != nil {
			guard.WriteError(w, err)
			return
		}

		items, err := svc.List(r.Context(), r.URL.Query().Get("client_id"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createAnimalHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.CreateAnimals); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, ok := parseBirthDate(req.BirthDate)
		if !ok {
			http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			ClientID:  req.ClientID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		})
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func getAnimalHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.ReadAnimals); err != nil {
			guard.WriteError(w, err)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func updateAnimalHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.UpdateAnimals); err != nil {
			guard.WriteError(w, err)
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		}
		if req.BirthDate != nil {
			bd, ok := parseBirthDate(*req.BirthDate)
			if !ok || bd == nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.BirthDate = bd
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), in)
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func deleteAnimalHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Require(r.Context(), permissions.DeleteAnimals); err != nil {
			guard.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID")); err != nil {
			writeAnimalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseBirthDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func writeAnimalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:        a.ID,
		ClientID:  a.ClientID,
		Name:      a.Name,
		Species:   a.Species,
		Breed:     a.Breed,
		Sex:       a.Sex,
		BirthDate: a.BirthDate,
		Microchip: a.Microchip,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
