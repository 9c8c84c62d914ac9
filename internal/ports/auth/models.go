package auth

// Claims representa la información extraída del token.
// Role puede venir vacío si el token no lo trae; el guard lo resuelve
// contra el directorio de usuarios.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
