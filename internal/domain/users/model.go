package users

import "time"

// User es una identidad conocida por la clínica: rol + flag de actividad.
// La emisión de credenciales vive fuera de este repo; acá solo
// administramos el directorio que consulta el guard.
type User struct {
	ID    string
	Email string
	Name  string

	Role   string // admin | staff | user (ver domain/permissions)
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
