package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vet-records/internal/domain/permissions"
	"vet-records/internal/middleware"
	"vet-records/internal/ports/auth"
)

func staticDirectory(entries map[string]DirectoryEntry) Directory {
	return DirectoryFunc(func(ctx context.Context, userID, email, fallbackRole string) (DirectoryEntry, error) {
		e, ok := entries[userID]
		if !ok {
			return DirectoryEntry{}, ErrPrincipalNotFound
		}
		return e, nil
	})
}

func ctxWithUser(userID string) context.Context {
	return middleware.WithClaims(context.Background(), auth.Claims{UserID: userID})
}

func TestAuthenticate_NoClaims(t *testing.T) {
	g := New(staticDirectory(nil), nil)

	_, err := g.Authenticate(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticate_UnknownPrincipal(t *testing.T) {
	g := New(staticDirectory(map[string]DirectoryEntry{}), nil)

	_, err := g.Authenticate(ctxWithUser("ghost"))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticate_DirectoryFailureIsNotUnauthenticated(t *testing.T) {
	dir := DirectoryFunc(func(ctx context.Context, userID, email, fallbackRole string) (DirectoryEntry, error) {
		return DirectoryEntry{}, errors.New("storage down")
	})
	g := New(dir, nil)

	_, err := g.Authenticate(ctxWithUser("u1"))
	if err == nil {
		t.Fatalf("expected error from failing directory")
	}
	// Una falla de infraestructura no es una credencial inválida: sale como
	// 500, no como 401.
	if errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("infra failure must not map to ErrUnauthenticated, got %v", err)
	}

	rec := httptest.NewRecorder()
	WriteError(rec, err)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for directory failure, got %d", rec.Code)
	}
}

func TestAuthenticate_InactivePrincipal(t *testing.T) {
	g := New(staticDirectory(map[string]DirectoryEntry{
		"u1": {ID: "u1", Role: "admin", Active: false},
	}), nil)

	_, err := g.Authenticate(ctxWithUser("u1"))
	if !errors.Is(err, ErrInactivePrincipal) {
		t.Fatalf("expected ErrInactivePrincipal, got %v", err)
	}
}

func TestRequire_AdmitsWithPermission(t *testing.T) {
	g := New(staticDirectory(map[string]DirectoryEntry{
		"u1": {ID: "u1", Role: "staff", Active: true},
	}), nil)

	p, err := g.Require(ctxWithUser("u1"), permissions.ReadAnimals)
	if err != nil {
		t.Fatalf("Require returned error: %v", err)
	}
	if p.ID != "u1" || p.Role != permissions.RoleStaff {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestRequire_ForbiddenCarriesRequiredPermission(t *testing.T) {
	g := New(staticDirectory(map[string]DirectoryEntry{
		"u1": {ID: "u1", Role: "staff", Active: true},
	}), nil)

	_, err := g.Require(ctxWithUser("u1"), permissions.DeleteOrganizations)
	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if len(fe.Required) != 1 || fe.Required[0] != permissions.DeleteOrganizations {
		t.Fatalf("expected required=[delete_organizations], got %v", fe.Required)
	}
	if fe.Role != permissions.RoleStaff {
		t.Fatalf("expected role staff in error, got %s", fe.Role)
	}
}

func TestAuthorizeAny(t *testing.T) {
	g := New(nil, nil)
	p := Principal{ID: "u1", Role: permissions.RoleUser}

	if err := g.AuthorizeAny(p, permissions.DeleteClients, permissions.ReadClients); err != nil {
		t.Fatalf("expected admission via read_clients, got %v", err)
	}

	err := g.AuthorizeAny(p, permissions.DeleteClients, permissions.DeleteAnimals)
	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if len(fe.Required) != 2 {
		t.Fatalf("expected both permissions echoed, got %v", fe.Required)
	}
}

func TestAuthorize_UnknownRoleFailsClosed(t *testing.T) {
	g := New(nil, nil)
	p := Principal{ID: "u1", Role: permissions.Role("")}

	if err := g.Authorize(p, permissions.ReadClients); err == nil {
		t.Fatalf("expected forbidden for unknown role")
	}
}
