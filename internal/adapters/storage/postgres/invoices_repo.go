package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"vet-records/internal/domain/invoices"
)

type InvoicesRepo struct {
	db *sql.DB
}

func NewInvoicesRepo(db *sql.DB) *InvoicesRepo {
	return &InvoicesRepo{db: db}
}

// invoiceLine es la forma JSONB de un renglón en la columna lines.
type invoiceLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
}

func (r *InvoicesRepo) Create(ctx context.Context, inv invoices.Invoice) error {
	lines, err := marshalLines(inv.Lines)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO invoices (
			id, number, client_id,
			issued_at, due_at,
			lines, total_cents, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		inv.ID,
		inv.Number,
		inv.ClientID,
		inv.IssuedAt,
		toNullTime(inv.DueAt),
		lines,
		inv.TotalCents,
		string(inv.Status),
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	return err
}

func (r *InvoicesRepo) Update(ctx context.Context, inv invoices.Invoice) error {
	lines, err := marshalLines(inv.Lines)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices
		SET
			number = $2,
			due_at = $3,
			lines = $4,
			total_cents = $5,
			status = $6,
			updated_at = $7
		WHERE id = $1
	`,
		inv.ID,
		inv.Number,
		toNullTime(inv.DueAt),
		lines,
		inv.TotalCents,
		string(inv.Status),
		inv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InvoicesRepo) GetByID(ctx context.Context, id string) (invoices.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return invoices.Invoice{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, number, client_id,
			issued_at, due_at,
			lines, total_cents, status,
			created_at, updated_at
		FROM invoices
		WHERE id = $1
	`, id)

	inv, err := scanInvoice(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return invoices.Invoice{}, ErrNotFound
		}
		return invoices.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoicesRepo) List(ctx context.Context, clientID string) ([]invoices.Invoice, error) {
	query := `
		SELECT
			id, number, client_id,
			issued_at, due_at,
			lines, total_cents, status,
			created_at, updated_at
		FROM invoices
	`
	args := []any{}
	if strings.TrimSpace(clientID) != "" {
		query += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]invoices.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}

	return out, rows.Err()
}

func (r *InvoicesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInvoice(row rowScanner) (invoices.Invoice, error) {
	var inv invoices.Invoice
	var status string
	var due sql.NullTime
	var rawLines []byte
	if err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.ClientID,
		&inv.IssuedAt,
		&due,
		&rawLines,
		&inv.TotalCents,
		&status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return invoices.Invoice{}, err
	}

	inv.Status = invoices.Status(status)
	if due.Valid {
		t := due.Time
		inv.DueAt = &t
	}

	var lines []invoiceLine
	if err := json.Unmarshal(rawLines, &lines); err != nil {
		return invoices.Invoice{}, err
	}
	inv.Lines = make([]invoices.Line, 0, len(lines))
	for _, l := range lines {
		inv.Lines = append(inv.Lines, invoices.Line{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCents:   l.UnitCents,
		})
	}

	return inv, nil
}

func marshalLines(in []invoices.Line) ([]byte, error) {
	lines := make([]invoiceLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, invoiceLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCents:   l.UnitCents,
		})
	}
	return json.Marshal(lines)
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
