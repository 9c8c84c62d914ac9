package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vet-records/internal/domain/permissions"
	"vet-records/internal/middleware"
	"vet-records/internal/platform/logger"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInactivePrincipal = errors.New("principal inactive")

	// ErrPrincipalNotFound lo devuelven los directorios cuando la identidad
	// no existe. Cualquier otro error de Resolve se trata como falla de
	// infraestructura (500), no como credencial inválida.
	ErrPrincipalNotFound = errors.New("principal not found")
)

// ForbiddenError lleva el rol y los permisos que faltaron.
// La taxonomía de permisos es pública, así que el 403 los devuelve tal cual.
type ForbiddenError struct {
	Role     permissions.Role
	Required []permissions.Permission
}

func (e *ForbiddenError) Error() string {
	names := make([]string, 0, len(e.Required))
	for _, p := range e.Required {
		names = append(names, string(p))
	}
	return fmt.Sprintf("forbidden: role %s requires %s", e.Role, strings.Join(names, "|"))
}

// Principal es el caller ya autenticado. Los handlers solo lo obtienen
// vía Authenticate/Require: no existe camino para autorizar un rol suelto.
type Principal struct {
	ID    string
	Email string
	Role  permissions.Role
}

// DirectoryEntry es lo que el directorio de usuarios sabe de una identidad.
type DirectoryEntry struct {
	ID     string
	Email  string
	Role   string
	Active bool
}

// Directory resuelve claims verificados contra el directorio de usuarios.
// fallbackRole viene del token (o del header de dev) y solo aplica si la
// identidad aún no existe en el directorio.
type Directory interface {
	Resolve(ctx context.Context, userID, email, fallbackRole string) (DirectoryEntry, error)
}

type DirectoryFunc func(ctx context.Context, userID, email, fallbackRole string) (DirectoryEntry, error)

func (f DirectoryFunc) Resolve(ctx context.Context, userID, email, fallbackRole string) (DirectoryEntry, error) {
	return f(ctx, userID, email, fallbackRole)
}

type Guard struct {
	dir Directory
	log logger.Logger
}

func New(dir Directory, log logger.Logger) *Guard {
	return &Guard{dir: dir, log: log}
}

// Authenticate lee claims del contexto (los dejó el middleware), resuelve el
// principal en el directorio y exige que esté activo.
func (g *Guard) Authenticate(ctx context.Context) (Principal, error) {
	claims, ok := middleware.GetClaims(ctx)
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return Principal{}, ErrUnauthenticated
	}

	entry, err := g.dir.Resolve(ctx, claims.UserID, claims.Email, claims.Role)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return Principal{}, ErrUnauthenticated
		}
		if g.log != nil {
			g.log.Error("directory resolve failed", logger.Err(err))
		}
		return Principal{}, fmt.Errorf("resolve principal: %w", err)
	}
	if !entry.Active {
		return Principal{}, ErrInactivePrincipal
	}

	return Principal{
		ID:    entry.ID,
		Email: entry.Email,
		Role:  permissions.ParseRole(entry.Role),
	}, nil
}

// Authorize exige el permiso exacto de la operación. Nada de sustituir por
// uno más amplio en el call site.
func (g *Guard) Authorize(p Principal, perm permissions.Permission) error {
	if permissions.Has(p.Role, perm) {
		return nil
	}
	if g.log != nil {
		g.log.Debug("authorization denied", map[string]any{
			"user_id":  p.ID,
			"role":     string(p.Role),
			"required": string(perm),
		})
	}
	return &ForbiddenError{Role: p.Role, Required: []permissions.Permission{perm}}
}

// AuthorizeAny admite si el principal tiene al menos uno de los permisos.
// Para endpoints que se satisfacen por más de un camino.
func (g *Guard) AuthorizeAny(p Principal, perms ...permissions.Permission) error {
	for _, perm := range perms {
		if permissions.Has(p.Role, perm) {
			return nil
		}
	}
	return &ForbiddenError{Role: p.Role, Required: perms}
}

// Require compone authenticate + authorize, en ese orden siempre.
func (g *Guard) Require(ctx context.Context, perm permissions.Permission) (Principal, error) {
	p, err := g.Authenticate(ctx)
	if err != nil {
		return Principal{}, err
	}
	if err := g.Authorize(p, perm); err != nil {
		return Principal{}, err
	}
	return p, nil
}

func (g *Guard) RequireAny(ctx context.Context, perms ...permissions.Permission) (Principal, error) {
	p, err := g.Authenticate(ctx)
	if err != nil {
		return Principal{}, err
	}
	if err := g.AuthorizeAny(p, perms...); err != nil {
		return Principal{}, err
	}
	return p, nil
}
