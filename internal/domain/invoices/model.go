package invoices

import "time"

// Status define el ciclo de vida de una factura.
// @Enum draft, issued, paid, void
type Status string

const (
	StatusDraft  Status = "draft"
	StatusIssued Status = "issued"
	StatusPaid   Status = "paid"
	StatusVoid   Status = "void"
)

// Line es un renglón de factura. Montos en centavos para evitar floats.
type Line struct {
	Description string
	Quantity    int
	UnitCents   int64
}

func (l Line) TotalCents() int64 {
	return int64(l.Quantity) * l.UnitCents
}

// Invoice es una factura emitida a un cliente.
type Invoice struct {
	ID       string
	Number   string
	ClientID string

	IssuedAt time.Time
	DueAt    *time.Time

	Lines      []Line
	TotalCents int64 // derivado de Lines; lo recalcula el service en cada escritura

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
