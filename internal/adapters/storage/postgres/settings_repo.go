package postgres

import (
	"context"
	"database/sql"

	"vet-records/internal/domain/settings"
)

type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// La tabla settings tiene una sola fila con id fijo = 1.
func (r *SettingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT clinic_name, invoice_prefix, share_ttl_days, updated_by, updated_at
		FROM settings
		WHERE id = 1
	`)

	var s settings.Settings
	if err := row.Scan(
		&s.ClinicName,
		&s.InvoicePrefix,
		&s.ShareTTLDays,
		&s.UpdatedBy,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return settings.Settings{}, settings.ErrNotFound
		}
		return settings.Settings{}, err
	}

	return s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s settings.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, clinic_name, invoice_prefix, share_ttl_days, updated_by, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			clinic_name = EXCLUDED.clinic_name,
			invoice_prefix = EXCLUDED.invoice_prefix,
			share_ttl_days = EXCLUDED.share_ttl_days,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`,
		s.ClinicName,
		s.InvoicePrefix,
		s.ShareTTLDays,
		s.UpdatedBy,
		s.UpdatedAt,
	)
	return err
}
