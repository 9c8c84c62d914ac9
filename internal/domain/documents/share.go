package documents

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"
)

// DefaultShareTTL aplica cuando el caller no especifica vigencia.
const DefaultShareTTL = 7 * 24 * time.Hour

// randomToken: 20 bytes de crypto/rand en hex (160 bits). El espacio de
// tokens tiene que ser inadivinable: es el único acceso sin autenticar.
func randomToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue emite un share link para el documento. ttl == 0 usa el default
// configurado (settings de la clínica, o 7 días si no hay override); ttl
// negativo es ErrInvalidTTL. Pisa cualquier grant anterior: el token viejo
// queda inválido de inmediato aunque no hubiera vencido.
func (s *Service) Issue(ctx context.Context, id string, ttl time.Duration, actor string) (ShareGrant, error) {
	if strings.TrimSpace(actor) == "" {
		return ShareGrant{}, ErrInvalidInput
	}
	if ttl < 0 {
		return ShareGrant{}, ErrInvalidTTL
	}
	if ttl == 0 {
		ttl = s.defaultShareTTL(ctx)
	}

	// Existencia primero: no emitimos tokens de documentos que no existen.
	if _, err := s.Get(ctx, id); err != nil {
		return ShareGrant{}, err
	}

	token, err := s.newToken()
	if err != nil {
		return ShareGrant{}, err
	}

	now := s.now()
	grant := ShareGrant{
		Token:  token,
		Expiry: now.Add(ttl),
		Shared: true,
	}

	// SetShare es atómico en el repo: de dos Issue concurrentes queda
	// exactamente uno como grant vigente.
	if err := s.repo.SetShare(ctx, id, grant, now); err != nil {
		return ShareGrant{}, err
	}
	return grant, nil
}

func (s *Service) defaultShareTTL(ctx context.Context) time.Duration {
	if s.shareTTL != nil {
		if ttl := s.shareTTL(ctx); ttl > 0 {
			return ttl
		}
	}
	return DefaultShareTTL
}

// Resolve valida un token público y devuelve el payload vivo. Es el único
// camino que no pasa por el guard. Expirado, revocado o nunca emitido
// responden igual: ErrNotFound, sin distinguir el caso hacia afuera.
func (s *Service) Resolve(ctx context.Context, token string) (Payload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Payload{}, ErrNotFound
	}

	d, err := s.repo.FindByShareToken(ctx, token)
	if err != nil {
		return Payload{}, ErrNotFound
	}
	if d.Share == nil {
		return Payload{}, ErrNotFound
	}

	// Comparación en tiempo constante: el lookup del adapter pudo ser por
	// igualdad; acá se re-verifica sin filtrar prefijos coincidentes.
	if subtle.ConstantTimeCompare([]byte(d.Share.Token), []byte(token)) != 1 {
		return Payload{}, ErrNotFound
	}
	if !d.Share.ValidAt(s.now()) {
		return Payload{}, ErrNotFound
	}

	return s.repo.GetPayload(ctx, d.ID)
}
