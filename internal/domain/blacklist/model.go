package blacklist

import "time"

// Entry es una entrada de la lista negra de la clínica. Puede apuntar a un
// cliente registrado o a un contacto suelto (email/teléfono).
type Entry struct {
	ID string

	ClientID string // opcional, referencia débil a clients
	Email    string
	Phone    string

	Reason    string
	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}
