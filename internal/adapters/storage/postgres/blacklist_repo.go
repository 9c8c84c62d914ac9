package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-records/internal/domain/blacklist"
)

type BlacklistRepo struct {
	db *sql.DB
}

func NewBlacklistRepo(db *sql.DB) *BlacklistRepo {
	return &BlacklistRepo{db: db}
}

func (r *BlacklistRepo) Create(ctx context.Context, e blacklist.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blacklist_entries (
			id, client_id, email, phone, reason, created_by,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.ClientID,
		e.Email,
		e.Phone,
		e.Reason,
		e.CreatedBy,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *BlacklistRepo) Update(ctx context.Context, e blacklist.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE blacklist_entries
		SET
			email = $2,
			phone = $3,
			reason = $4,
			updated_at = $5
		WHERE id = $1
	`,
		e.ID,
		e.Email,
		e.Phone,
		e.Reason,
		e.UpdatedAt,
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

func (r *BlacklistRepo) GetByID(ctx context.Context, id string) (blacklist.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return blacklist.Entry{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, email, phone, reason, created_by, created_at, updated_at
		FROM blacklist_entries
		WHERE id = $1
	`, id)

	var e blacklist.Entry
	if err := row.Scan(
		&e.ID,
		&e.ClientID,
		&e.Email,
		&e.Phone,
		&e.Reason,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return blacklist.Entry{}, ErrNotFound
		}
		return blacklist.Entry{}, err
	}

	return e, nil
}

func (r *BlacklistRepo) List(ctx context.Context) ([]blacklist.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, email, phone, reason, created_by, created_at, updated_at
		FROM blacklist_entries
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *BlacklistRepo) FindByClient(ctx context.Context, clientID string) ([]blacklist.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, email, phone, reason, created_by, created_at, updated_at
		FROM blacklist_entries
		WHERE client_id = $1
		ORDER BY created_at ASC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *BlacklistRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blacklist_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectEntries(rows *sql.Rows) ([]blacklist.Entry, error) {
	out := make([]blacklist.Entry, 0)
	for rows.Next() {
		var e blacklist.Entry
		if err := rows.Scan(
			&e.ID,
			&e.ClientID,
			&e.Email,
			&e.Phone,
			&e.Reason,
			&e.CreatedBy,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
