package clients

import "time"

// Client es el dueño humano de los animales atendidos por la clínica.
type Client struct {
	ID string

	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
