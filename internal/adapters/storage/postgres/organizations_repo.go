package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-records/internal/domain/organizations"
)

type OrganizationsRepo struct {
	db *sql.DB
}

func NewOrganizationsRepo(db *sql.DB) *OrganizationsRepo {
	return &OrganizationsRepo{db: db}
}

func (r *OrganizationsRepo) Create(ctx context.Context, o organizations.Organization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (
			id, name, tax_id, email, phone, address,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		o.ID,
		o.Name,
		o.TaxID,
		o.Email,
		o.Phone,
		o.Address,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OrganizationsRepo) Update(ctx context.Context, o organizations.Organization) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE organizations
		SET
			name = $2,
			tax_id = $3,
			email = $4,
			phone = $5,
			address = $6,
			updated_at = $7
		WHERE id = $1
	`,
		o.ID,
		o.Name,
		o.TaxID,
		o.Email,
		o.Phone,
		o.Address,
		o.UpdatedAt,
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

func (r *OrganizationsRepo) GetByID(ctx context.Context, id string) (organizations.Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return organizations.Organization{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, tax_id, email, phone, address, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, id)

	var o organizations.Organization
	if err := row.Scan(
		&o.ID,
		&o.Name,
		&o.TaxID,
		&o.Email,
		&o.Phone,
		&o.Address,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return organizations.Organization{}, ErrNotFound
		}
		return organizations.Organization{}, err
	}

	return o, nil
}

func (r *OrganizationsRepo) List(ctx context.Context) ([]organizations.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, tax_id, email, phone, address, created_at, updated_at
		FROM organizations
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]organizations.Organization, 0)
	for rows.Next() {
		var o organizations.Organization
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.TaxID,
			&o.Email,
			&o.Phone,
			&o.Address,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}

	return out, rows.Err()
}

func (r *OrganizationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
