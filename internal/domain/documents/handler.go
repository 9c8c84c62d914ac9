package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vet-records/internal/guard"

	"github.com/go-chi/chi/v5"
)

// Cota del body multipart: payload máximo + margen para los fields.
const maxUploadBytes = MaxPayloadBytes + (1 << 20)

func RegisterRoutes(r chi.Router, svc *Service, g *guard.Guard) {
	// Rutas de documentos: requieren autenticación, sin permiso específico
	// (cualquier principal activo de la clínica opera documentos).
	r.Route("/documents", func(dr chi.Router) {
		dr.Get("/", listDocumentsHandler(svc, g))
		dr.Post("/", createDocumentHandler(svc, g))
		dr.Get("/{documentID}", getDocumentHandler(svc, g))
		dr.Put("/{documentID}", updateDocumentHandler(svc, g))
		dr.Delete("/{documentID}", deleteDocumentHandler(svc, g))
		dr.Get("/{documentID}/file", getDocumentFileHandler(svc, g))
		dr.Get("/{documentID}/version/{version}", getDocumentVersionHandler(svc, g))
		dr.Post("/{documentID}/share", shareDocumentHandler(svc, g))
	})

	// Acceso público por share link: el único bypass del guard, a propósito.
	r.Get("/share/{token}", resolveShareHandler(svc))
}

type revisionResponse struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	Note      string    `json:"note,omitempty"`
}

type documentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FileType    string `json:"file_type,omitempty"`
	Editable    bool   `json:"editable"`
	Printable   bool   `json:"printable"`

	AnimalID       string `json:"animal_id,omitempty"`
	ClientID       string `json:"client_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`

	MediaType      string `json:"media_type"`
	SizeBytes      int    `json:"size_bytes"`
	CurrentVersion int    `json:"current_version"`

	Revisions []revisionResponse `json:"revisions,omitempty"`

	Shared      bool       `json:"shared"`
	ShareExpiry *time.Time `json:"share_expiry,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type shareResponse struct {
	ShareLink string    `json:"share_link"`
	Token     string    `json:"token"`
	Expiry    time.Time `json:"expiry"`
}

// listDocumentsHandler godoc
// @Summary Listar documentos
// @Description Metadata solamente; nunca incluye binarios ni payloads de revisiones.
// @Tags documents
// @Produce json
// @Param organization_id query string false "Filtrar por organización"
// @Param client_id query string false "Filtrar por cliente"
// @Param animal_id query string false "Filtrar por animal"
// @Success 200 {array} documentResponse
// @Router /documents [get]
func listDocumentsHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Authenticate(r.Context()); err != nil {
			guard.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		items, err := svc.List(r.Context(), Filter{
			OrganizationID: strings.TrimSpace(q.Get("organization_id")),
			ClientID:       strings.TrimSpace(q.Get("client_id")),
			AnimalID:       strings.TrimSpace(q.Get("animal_id")),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]documentResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDocumentResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createDocumentHandler godoc
// @Summary Subir documento
// @Description Multipart con field "file" obligatorio (solo PDF, máx 10 MiB).
// @Tags documents
// @Accept mpfd
// @Produce json
// @Success 201 {object} documentResponse
// @Router /documents [post]
func createDocumentHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Authenticate(r.Context())
		if err != nil {
			guard.WriteError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid or oversized multipart body", http.StatusBadRequest)
			return
		}

		payload, filename, err := readFilePart(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			name = filename
		}

		doc, err := svc.Create(r.Context(), CreateInput{
			Name:           name,
			Description:    r.FormValue("description"),
			FileType:       r.FormValue("file_type"),
			Editable:       r.FormValue("editable") == "true",
			Printable:      r.FormValue("printable") == "true",
			AnimalID:       r.FormValue("animal_id"),
			ClientID:       r.FormValue("client_id"),
			OrganizationID: r.FormValue("organization_id"),
		}, payload, p.ID)
		if err != nil {
			writeDocumentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
	}
}

func getDocumentHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Authenticate(r.Context()); err != nil {
			guard.WriteError(w, err)
			return
		}

		d, err := svc.Get(r.Context(), chi.URLParam(r, "documentID"))
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDocumentResponse(d))
	}
}

// getDocumentFileHandler godoc
// @Summary Descargar payload vigente
// @Tags documents
// @Produce application/pdf
// @Router /documents/{documentID}/file [get]
func getDocumentFileHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Authenticate(r.Context()); err != nil {
			guard.WriteError(w, err)
			return
		}

		payload, err := svc.GetCurrent(r.Context(), chi.URLParam(r, "documentID"))
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		writePayload(w, payload)
	}
}

// getDocumentVersionHandler godoc
// @Summary Descargar una versión (1-indexada)
// @Description Pedir la versión igual a current_version devuelve el payload vivo; menores devuelven la revisión correspondiente; fuera de rango es 404.
// @Tags documents
// @Produce application/pdf
// @Router /documents/{documentID}/version/{version} [get]
func getDocumentVersionHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Authenticate(r.Context()); err != nil {
			guard.WriteError(w, err)
			return
		}

		version, err := strconv.Atoi(chi.URLParam(r, "version"))
		if err != nil {
			http.Error(w, "version not found", http.StatusNotFound)
			return
		}

		payload, err := svc.GetRevision(r.Context(), chi.URLParam(r, "documentID"), version)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		writePayload(w, payload)
	}
}

// updateDocumentHandler acepta dos formas:
// - JSON: solo metadata (campos opcionales, punteros).
// - multipart: fields de metadata opcionales + file opcional; si viene file,
//   empuja el payload vivo como revisión (field "note" opcional).
func updateDocumentHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Authenticate(r.Context())
		if err != nil {
			guard.WriteError(w, err)
			return
		}

		id := chi.URLParam(r, "documentID")

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			updateDocumentMultipart(w, r, svc, id, p.ID)
			return
		}

		var req struct {
			Name           *string `json:"name"`
			Description    *string `json:"description"`
			FileType       *string `json:"file_type"`
			Editable       *bool   `json:"editable"`
			Printable      *bool   `json:"printable"`
			AnimalID       *string `json:"animal_id"`
			ClientID       *string `json:"client_id"`
			OrganizationID *string `json:"organization_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.UpdateMetadata(r.Context(), id, UpdateMetadataInput{
			Name:           req.Name,
			Description:    req.Description,
			FileType:       req.FileType,
			Editable:       req.Editable,
			Printable:      req.Printable,
			AnimalID:       req.AnimalID,
			ClientID:       req.ClientID,
			OrganizationID: req.OrganizationID,
		})
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDocumentResponse(d))
	}
}

func updateDocumentMultipart(w http.ResponseWriter, r *http.Request, svc *Service, id, actorID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid or oversized multipart body", http.StatusBadRequest)
		return
	}

	// Metadata primero: si falla, no tocamos el historial.
	meta := UpdateMetadataInput{}
	changed := false
	for field, dst := range map[string]**string{
		"name":            &meta.Name,
		"description":     &meta.Description,
		"file_type":       &meta.FileType,
		"animal_id":       &meta.AnimalID,
		"client_id":       &meta.ClientID,
		"organization_id": &meta.OrganizationID,
	} {
		if vs, ok := r.MultipartForm.Value[field]; ok && len(vs) > 0 {
			v := vs[0]
			*dst = &v
			changed = true
		}
	}
	for field, dst := range map[string]**bool{
		"editable":  &meta.Editable,
		"printable": &meta.Printable,
	} {
		if vs, ok := r.MultipartForm.Value[field]; ok && len(vs) > 0 {
			v := vs[0] == "true"
			*dst = &v
			changed = true
		}
	}

	var d Document
	var err error
	if changed {
		d, err = svc.UpdateMetadata(r.Context(), id, meta)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
	}

	if _, ok := r.MultipartForm.File["file"]; ok {
		payload, _, err := readFilePart(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		d, err = svc.ReplacePayload(r.Context(), id, payload, r.FormValue("note"), actorID)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
	} else if !changed {
		// PUT vacío: devolvemos el estado actual sin mutar nada.
		d, err = svc.Get(r.Context(), id)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(d))
}

// shareDocumentHandler godoc
// @Summary Emitir share link
// @Description Body opcional {"expiry_days": n}; default 7 días. Emitir de nuevo invalida el token anterior de inmediato.
// @Tags documents
// @Accept json
// @Produce json
// @Success 200 {object} shareResponse
// @Router /documents/{documentID}/share [post]
func shareDocumentHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Authenticate(r.Context())
		if err != nil {
			guard.WriteError(w, err)
			return
		}

		var req struct {
			ExpiryDays *int `json:"expiry_days"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		ttl := time.Duration(0) // 0 => default del service
		if req.ExpiryDays != nil {
			if *req.ExpiryDays <= 0 {
				http.Error(w, "expiry_days must be positive", http.StatusBadRequest)
				return
			}
			ttl = time.Duration(*req.ExpiryDays) * 24 * time.Hour
		}

		grant, err := svc.Issue(r.Context(), chi.URLParam(r, "documentID"), ttl, p.ID)
		if err != nil {
			writeDocumentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, shareResponse{
			ShareLink: shareLink(r, grant.Token),
			Token:     grant.Token,
			Expiry:    grant.Expiry,
		})
	}
}

func deleteDocumentHandler(svc *Service, g *guard.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.Authenticate(r.Context()); err != nil {
			guard.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "documentID")); err != nil {
			writeDocumentError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// resolveShareHandler godoc
// @Summary Acceso público por share link
// @Description Devuelve el payload o 404. Nunca autentica; expirado, revocado y nunca emitido responden igual.
// @Tags documents
// @Produce application/pdf
// @Router /share/{token} [get]
func resolveShareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := svc.Resolve(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			// Respuesta uniforme: no distinguimos expirado de inexistente.
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writePayload(w, payload)
	}
}

// readFilePart lee el field "file" acotado al máximo permitido.
// El media type sale del header del part; si no viene, se detecta del contenido.
func readFilePart(r *http.Request) (Payload, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return Payload{}, "", errors.New("file field required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxPayloadBytes+1))
	if err != nil {
		return Payload{}, "", errors.New("cannot read file")
	}

	return Payload{Data: data, MediaType: partMediaType(header, data)}, header.Filename, nil
}

func partMediaType(header *multipart.FileHeader, data []byte) string {
	ct := strings.TrimSpace(header.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	// sin parámetros tipo "; charset=..."
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func shareLink(r *http.Request, token string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/share/%s", scheme, r.Host, token)
}

func writePayload(w http.ResponseWriter, p Payload) {
	ct := p.MediaType
	if ct == "" {
		ct = MediaTypePDF
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(p.Data)))
	_, _ = w.Write(p.Data)
}

func writeDocumentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrInvalidTTL):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrVersionNotFound):
		http.Error(w, "version not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "conflicting update, retry", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDocumentResponse(d Document) documentResponse {
	out := documentResponse{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		FileType:       d.FileType,
		Editable:       d.Editable,
		Printable:      d.Printable,
		AnimalID:       d.AnimalID,
		ClientID:       d.ClientID,
		OrganizationID: d.OrganizationID,
		MediaType:      d.MediaType,
		SizeBytes:      d.SizeBytes,
		CurrentVersion: d.CurrentVersion,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}

	for _, rev := range d.Revisions {
		out.Revisions = append(out.Revisions, revisionResponse{
			Version:   rev.Version,
			CreatedAt: rev.CreatedAt,
			CreatedBy: rev.CreatedBy,
			Note:      rev.Note,
		})
	}

	if d.Share != nil && d.Share.Shared {
		out.Shared = true
		expiry := d.Share.Expiry
		out.ShareExpiry = &expiry
	}
	return out
}

// writeJSON está duplicado a propósito en los handlers de cada módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
