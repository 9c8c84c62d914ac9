package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-records/internal/domain/permissions"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// EnsureForClaims resuelve la identidad del token contra el directorio.
// Primera vez que vemos un user_id verificado: lo damos de alta con el rol
// que trae el token (o "user" si no trae). Cambios de rol posteriores se
// hacen solo por el endpoint de manage_users, nunca desde el token.
func (s *Service) EnsureForClaims(ctx context.Context, userID, email, tokenRole string) (User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return u, nil
	}

	role := permissions.ParseRole(tokenRole)
	if role == "" {
		role = permissions.RoleUser
	}

	now := s.now()
	u = User{
		ID:        userID,
		Email:     strings.TrimSpace(email),
		Role:      string(role),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// UpdateRole cambia el rol de un usuario. Solo llega acá un caller con
// manage_users (es decir, admin: ningún otro rol lo tiene en el catálogo).
func (s *Service) UpdateRole(ctx context.Context, id, role string) (User, error) {
	id = strings.TrimSpace(id)
	parsed := permissions.ParseRole(role)
	if id == "" || parsed == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}

	u.Role = string(parsed)
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// SetActive activa o desactiva la identidad. Un user inactivo queda fuera
// aunque su token siga siendo criptográficamente válido.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}

	// Idempotente
	if u.Active == active {
		return u, nil
	}

	u.Active = active
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}
