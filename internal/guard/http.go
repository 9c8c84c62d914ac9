package guard

import (
	"encoding/json"
	"errors"
	"net/http"
)

type errorResponse struct {
	Error    string   `json:"error"`
	Required []string `json:"required,omitempty"`
}

// WriteError mapea fallas del guard a HTTP:
// - sin credencial / credencial inválida => 401
// - principal inactivo => 401 (la credencial ya no sirve, no es tema de permisos)
// - permiso insuficiente => 403 con los permisos requeridos
// Cualquier otro error cae en 500.
func WriteError(w http.ResponseWriter, err error) {
	var fe *ForbiddenError
	switch {
	case errors.Is(err, ErrUnauthenticated):
		writeJSONError(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, ErrInactivePrincipal):
		writeJSONError(w, http.StatusUnauthorized, errorResponse{Error: "account inactive"})
	case errors.As(err, &fe):
		required := make([]string, 0, len(fe.Required))
		for _, p := range fe.Required {
			required = append(required, string(p))
		}
		writeJSONError(w, http.StatusForbidden, errorResponse{Error: "forbidden", Required: required})
	default:
		writeJSONError(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSONError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
