package organizations

import "time"

// Organization es una entidad externa vinculada a la clínica
// (aseguradoras, criaderos, refugios, laboratorios).
type Organization struct {
	ID string

	Name    string
	TaxID   string
	Email   string
	Phone   string
	Address string

	CreatedAt time.Time
	UpdatedAt time.Time
}
