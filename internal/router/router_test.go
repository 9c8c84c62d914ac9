package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"
)

// Servidor completo con repos in-memory y auth en modo dev
// (X-Debug-User-ID / X-Debug-Role). El primer request de cada identidad
// la da de alta en el directorio con el rol del header.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(Options{}))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, userID, role string, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
		req.Header.Set("X-Debug-Role", role)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func doJSON(t *testing.T, method, url, userID, role string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return doRequest(t, method, url, userID, role, "application/json", body)
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func pdfUpload(t *testing.T, fields map[string]string, filename string, data []byte, mediaType string) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return mw.FormDataContentType(), &buf
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", "", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedGets401(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/clients", "", "", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestStaffCannotDeleteOrganization(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/organizations", "admin-1", "admin", map[string]string{
		"name": "Laboratorio Central",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create organization: expected 201, got %d", resp.StatusCode)
	}
	var org struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &org)

	// Staff lee sin problema...
	resp = doRequest(t, http.MethodGet, srv.URL+"/organizations/"+org.ID, "staff-1", "staff", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("staff read: expected 200, got %d", resp.StatusCode)
	}

	// ...pero no puede borrar.
	resp = doRequest(t, http.MethodDelete, srv.URL+"/organizations/"+org.ID, "staff-1", "staff", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff delete: expected 403, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodDelete, srv.URL+"/organizations/"+org.ID, "admin-1", "admin", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("admin delete: expected 204, got %d", resp.StatusCode)
	}
}

func TestUserRoleIsReadOnly(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/clients", "user-1", "user", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user list clients: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/clients", "user-1", "user", map[string]string{
		"name": "Marta García",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user create client: expected 403, got %d", resp.StatusCode)
	}
}

func TestClientDeleteBlockedByAnimals(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/clients", "staff-1", "staff", map[string]string{
		"name": "Pedro Núñez",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create client: expected 201, got %d", resp.StatusCode)
	}
	var client struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &client)

	resp = doJSON(t, http.MethodPost, srv.URL+"/animals", "staff-1", "staff", map[string]string{
		"client_id": client.ID,
		"name":      "Rocco",
		"species":   "dog",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create animal: expected 201, got %d", resp.StatusCode)
	}
	var animal struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &animal)

	// Con un animal referenciándolo, el cliente no se borra.
	resp = doRequest(t, http.MethodDelete, srv.URL+"/clients/"+client.ID, "admin-1", "admin", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("delete client with animals: expected 409, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodDelete, srv.URL+"/animals/"+animal.ID, "staff-1", "staff", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete animal: expected 204, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodDelete, srv.URL+"/clients/"+client.ID, "admin-1", "admin", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete client after animals gone: expected 204, got %d", resp.StatusCode)
	}
}

func TestDocumentUploadAndShareLifecycle(t *testing.T) {
	srv := newTestServer(t)
	pdf := []byte("%PDF-1.4 historia clinica de Rocco")

	ct, body := pdfUpload(t, map[string]string{"name": "radiografía tórax"}, "rx.pdf", pdf, "application/pdf")
	resp := doRequest(t, http.MethodPost, srv.URL+"/documents", "staff-1", "staff", ct, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.StatusCode)
	}
	var doc struct {
		ID             string `json:"id"`
		CurrentVersion int    `json:"current_version"`
	}
	decodeBody(t, resp, &doc)
	if doc.CurrentVersion != 1 {
		t.Fatalf("fresh document should be version 1, got %d", doc.CurrentVersion)
	}

	// Emite share link.
	resp = doJSON(t, http.MethodPost, srv.URL+"/documents/"+doc.ID+"/share", "staff-1", "staff", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("share: expected 200, got %d", resp.StatusCode)
	}
	var share struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &share)
	if len(share.Token) != 40 {
		t.Fatalf("expected 40-char hex token, got %q", share.Token)
	}

	// Acceso público, sin headers de auth.
	resp = doRequest(t, http.MethodGet, srv.URL+"/share/"+share.Token, "", "", "", nil)
	got, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public fetch: expected 200, got %d", resp.StatusCode)
	}
	if !bytes.Equal(got, pdf) {
		t.Fatalf("public fetch returned wrong bytes")
	}

	// Re-emitir mata el token anterior de inmediato.
	resp = doJSON(t, http.MethodPost, srv.URL+"/documents/"+doc.ID+"/share", "staff-1", "staff", nil)
	var second struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &second)
	if second.Token == share.Token {
		t.Fatalf("reissue must rotate the token")
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/share/"+share.Token, "", "", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("old token: expected 404, got %d", resp.StatusCode)
	}
	resp = doRequest(t, http.MethodGet, srv.URL+"/share/"+second.Token, "", "", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new token: expected 200, got %d", resp.StatusCode)
	}

	// Token desconocido y documento no compartido responden igual.
	resp = doRequest(t, http.MethodGet, srv.URL+"/share/"+strings.Repeat("ab", 20), "", "", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown token: expected 404, got %d", resp.StatusCode)
	}
}

func TestDocumentReplaceKeepsHistory(t *testing.T) {
	srv := newTestServer(t)
	v1 := []byte("%PDF-1.4 version uno")
	v2 := []byte("%PDF-1.4 version dos, con correcciones")

	ct, body := pdfUpload(t, map[string]string{"name": "consentimiento"}, "consent.pdf", v1, "application/pdf")
	resp := doRequest(t, http.MethodPost, srv.URL+"/documents", "staff-1", "staff", ct, body)
	var doc struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &doc)

	ct, body = pdfUpload(t, map[string]string{"note": "firma actualizada"}, "consent.pdf", v2, "application/pdf")
	resp = doRequest(t, http.MethodPut, srv.URL+"/documents/"+doc.ID, "staff-1", "staff", ct, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replace: expected 200, got %d", resp.StatusCode)
	}
	var updated struct {
		CurrentVersion int `json:"current_version"`
		Revisions      []struct {
			Version int    `json:"version"`
			Note    string `json:"note"`
		} `json:"revisions"`
	}
	decodeBody(t, resp, &updated)
	if updated.CurrentVersion != 2 {
		t.Fatalf("expected version 2, got %d", updated.CurrentVersion)
	}
	if len(updated.Revisions) != 1 || updated.Revisions[0].Version != 1 {
		t.Fatalf("expected revision 1 in history, got %+v", updated.Revisions)
	}

	// Versión 1 sigue siendo los bytes originales; la 2 es el payload vivo.
	resp = doRequest(t, http.MethodGet, srv.URL+"/documents/"+doc.ID+"/version/1", "staff-1", "staff", "", nil)
	got, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Equal(got, v1) {
		t.Fatalf("version 1 should be the original payload")
	}
	resp = doRequest(t, http.MethodGet, srv.URL+"/documents/"+doc.ID+"/version/2", "staff-1", "staff", "", nil)
	got, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Equal(got, v2) {
		t.Fatalf("version 2 should be the live payload")
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/documents/"+doc.ID+"/version/3", "staff-1", "staff", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("version 3: expected 404, got %d", resp.StatusCode)
	}
}

func TestDocumentUploadRejectsNonPDFAndOversize(t *testing.T) {
	srv := newTestServer(t)

	ct, body := pdfUpload(t, map[string]string{"name": "foto"}, "foto.png", []byte("\x89PNG fake"), "image/png")
	resp := doRequest(t, http.MethodPost, srv.URL+"/documents", "staff-1", "staff", ct, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("png upload: expected 400, got %d", resp.StatusCode)
	}

	big := bytes.Repeat([]byte("a"), 12<<20) // 12 MiB > límite de 10
	ct, body = pdfUpload(t, map[string]string{"name": "enorme"}, "big.pdf", big, "application/pdf")
	resp = doRequest(t, http.MethodPost, srv.URL+"/documents", "staff-1", "staff", ct, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversized upload: expected 400, got %d", resp.StatusCode)
	}
}

func TestSettingsRequireManagePermission(t *testing.T) {
	srv := newTestServer(t)

	// Lectura: cualquier autenticado.
	resp := doRequest(t, http.MethodGet, srv.URL+"/settings", "user-1", "user", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user read settings: expected 200, got %d", resp.StatusCode)
	}

	// Escritura: solo manage_system_settings (admin).
	resp = doJSON(t, http.MethodPut, srv.URL+"/settings", "staff-1", "staff", map[string]any{
		"clinic_name": "Clínica San Roque",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff update settings: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/settings", "admin-1", "admin", map[string]any{
		"clinic_name":    "Clínica San Roque",
		"share_ttl_days": 14,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin update settings: expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		ClinicName   string `json:"clinic_name"`
		ShareTTLDays int    `json:"share_ttl_days"`
	}
	decodeBody(t, resp, &got)
	if got.ClinicName != "Clínica San Roque" || got.ShareTTLDays != 14 {
		t.Fatalf("unexpected settings after update: %+v", got)
	}
}

func TestConfiguredShareTTLAppliesToNewGrants(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/settings", "admin-1", "admin", map[string]any{
		"share_ttl_days": 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update settings: expected 200, got %d", resp.StatusCode)
	}

	ct, body := pdfUpload(t, map[string]string{"name": "informe"}, "informe.pdf", []byte("%PDF-1.4 informe"), "application/pdf")
	resp = doRequest(t, http.MethodPost, srv.URL+"/documents", "staff-1", "staff", ct, body)
	var doc struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &doc)

	resp = doJSON(t, http.MethodPost, srv.URL+"/documents/"+doc.ID+"/share", "staff-1", "staff", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("share: expected 200, got %d", resp.StatusCode)
	}
	var share struct {
		Expiry time.Time `json:"expiry"`
	}
	decodeBody(t, resp, &share)

	ttl := time.Until(share.Expiry)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Fatalf("expected ~24h expiry from settings override, got %v", ttl)
	}
}

func TestUsersEndpointsGatedByManageUsers(t *testing.T) {
	srv := newTestServer(t)

	// Alta implícita del staff al autenticarse por primera vez.
	resp := doRequest(t, http.MethodGet, srv.URL+"/clients", "staff-1", "staff", "", nil)
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/users", "staff-1", "staff", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff list users: expected 403, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/users", "admin-1", "admin", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list users: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// El admin desactiva al staff; su siguiente request es 401.
	resp = doJSON(t, http.MethodPut, srv.URL+"/users/staff-1/active", "admin-1", "admin", map[string]bool{
		"active": false,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/clients", "staff-1", "staff", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("inactive principal: expected 401, got %d", resp.StatusCode)
	}
}
