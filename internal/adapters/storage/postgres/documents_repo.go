package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"vet-records/internal/domain/documents"
)

type DocumentsRepo struct {
	db *sql.DB
}

func NewDocumentsRepo(db *sql.DB) *DocumentsRepo {
	return &DocumentsRepo{db: db}
}

const documentMetaColumns = `
	id, name, description, file_type,
	editable, printable,
	animal_id, client_id, organization_id,
	media_type, size_bytes, current_version,
	share_token, share_expiry, shared,
	created_at, updated_at
`

func (r *DocumentsRepo) Create(ctx context.Context, d documents.Document, p documents.Payload) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, name, description, file_type,
			editable, printable,
			animal_id, client_id, organization_id,
			media_type, size_bytes, current_version,
			payload,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		d.ID,
		d.Name,
		d.Description,
		d.FileType,
		d.Editable,
		d.Printable,
		d.AnimalID,
		d.ClientID,
		d.OrganizationID,
		p.MediaType,
		len(p.Data),
		d.CurrentVersion,
		p.Data,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DocumentsRepo) Get(ctx context.Context, id string) (documents.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return documents.Document{}, documents.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+documentMetaColumns+`
		FROM documents
		WHERE id = $1
	`, id)

	d, err := scanDocument(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return documents.Document{}, documents.ErrNotFound
		}
		return documents.Document{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT version, created_at, created_by, note
		FROM document_revisions
		WHERE document_id = $1
		ORDER BY version ASC
	`, id)
	if err != nil {
		return documents.Document{}, err
	}
	defer rows.Close()

	d.Revisions = make([]documents.Revision, 0)
	for rows.Next() {
		var rev documents.Revision
		if err := rows.Scan(&rev.Version, &rev.CreatedAt, &rev.CreatedBy, &rev.Note); err != nil {
			return documents.Document{}, err
		}
		d.Revisions = append(d.Revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return documents.Document{}, err
	}

	return d, nil
}

func (r *DocumentsRepo) List(ctx context.Context, f documents.Filter) ([]documents.Document, error) {
	query := `SELECT ` + documentMetaColumns + ` FROM documents`
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		where = append(where, col+" = $"+strconv.Itoa(len(args)))
	}
	add("organization_id", f.OrganizationID)
	add("client_id", f.ClientID)
	add("animal_id", f.AnimalID)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]documents.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, rows.Err()
}

func (r *DocumentsRepo) GetPayload(ctx context.Context, id string) (documents.Payload, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT payload, media_type FROM documents WHERE id = $1
	`, id)

	var p documents.Payload
	if err := row.Scan(&p.Data, &p.MediaType); err != nil {
		if err == sql.ErrNoRows {
			return documents.Payload{}, documents.ErrNotFound
		}
		return documents.Payload{}, err
	}
	return p, nil
}

func (r *DocumentsRepo) GetRevisionPayload(ctx context.Context, id string, version int) (documents.Payload, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT payload, media_type
		FROM document_revisions
		WHERE document_id = $1 AND version = $2
	`, id, version)

	var p documents.Payload
	if err := row.Scan(&p.Data, &p.MediaType); err != nil {
		if err == sql.ErrNoRows {
			return documents.Payload{}, documents.ErrVersionNotFound
		}
		return documents.Payload{}, err
	}
	return p, nil
}

func (r *DocumentsRepo) UpdateMetadata(ctx context.Context, d documents.Document) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET
			name = $2,
			description = $3,
			file_type = $4,
			editable = $5,
			printable = $6,
			animal_id = $7,
			client_id = $8,
			organization_id = $9,
			updated_at = $10
		WHERE id = $1
	`,
		d.ID,
		d.Name,
		d.Description,
		d.FileType,
		d.Editable,
		d.Printable,
		d.AnimalID,
		d.ClientID,
		d.OrganizationID,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return documents.ErrNotFound
	}
	return nil
}

// ReplacePayload corre como una transacción con CAS sobre current_version:
// copia el payload vivo a document_revisions y después pisa el vivo, ambos
// condicionados a que current_version siga siendo baseVersion.
func (r *DocumentsRepo) ReplacePayload(ctx context.Context, id string, baseVersion int, p documents.Payload, rev documents.Revision) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO document_revisions (document_id, version, payload, media_type, created_at, created_by, note)
		SELECT id, current_version, payload, media_type, $3, $4, $5
		FROM documents
		WHERE id = $1 AND current_version = $2
	`, id, baseVersion, rev.CreatedAt, rev.CreatedBy, rev.Note)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Documento inexistente o versión movida; distinguimos para que el
		// service sepa si reintentar.
		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)
		`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return documents.ErrNotFound
		}
		return documents.ErrVersionConflict
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE documents
		SET
			payload = $3,
			media_type = $4,
			size_bytes = $5,
			current_version = current_version + 1,
			updated_at = $6
		WHERE id = $1 AND current_version = $2
	`, id, baseVersion, p.Data, p.MediaType, len(p.Data), rev.CreatedAt)
	if err != nil {
		return err
	}
	// Bajo READ COMMITTED los dos statements pueden ver current_version
	// distinto: si otro reemplazo commiteó entre el INSERT y este UPDATE,
	// acá hay 0 filas y el rollback descarta también la revisión insertada.
	n, _ = res.RowsAffected()
	if n == 0 {
		return documents.ErrVersionConflict
	}

	return tx.Commit()
}

func (r *DocumentsRepo) SetShare(ctx context.Context, id string, grant documents.ShareGrant, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET
			share_token = $2,
			share_expiry = $3,
			shared = $4,
			updated_at = $5
		WHERE id = $1
	`,
		id,
		grant.Token,
		grant.Expiry,
		grant.Shared,
		now,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return documents.ErrNotFound
	}
	return nil
}

func (r *DocumentsRepo) FindByShareToken(ctx context.Context, token string) (documents.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+documentMetaColumns+`
		FROM documents
		WHERE share_token = $1
	`, token)

	d, err := scanDocument(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return documents.Document{}, documents.ErrNotFound
		}
		return documents.Document{}, err
	}
	return d, nil
}

func (r *DocumentsRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM document_revisions WHERE document_id = $1
	`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return documents.ErrNotFound
	}

	return tx.Commit()
}

func scanDocument(row rowScanner) (documents.Document, error) {
	var d documents.Document
	var shareToken sql.NullString
	var shareExpiry sql.NullTime
	var shared sql.NullBool
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.FileType,
		&d.Editable,
		&d.Printable,
		&d.AnimalID,
		&d.ClientID,
		&d.OrganizationID,
		&d.MediaType,
		&d.SizeBytes,
		&d.CurrentVersion,
		&shareToken,
		&shareExpiry,
		&shared,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return documents.Document{}, err
	}

	if shareToken.Valid && shareToken.String != "" {
		d.Share = &documents.ShareGrant{
			Token:  shareToken.String,
			Expiry: shareExpiry.Time,
			Shared: shared.Valid && shared.Bool,
		}
	}

	return d, nil
}
