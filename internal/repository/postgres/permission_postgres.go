package postgres

import (
	"context"
	"database/sql"
	"time"

	"docbridge/internal/model"
	"docbridge/internal/repository"
)

// PermissionPostgres is a PostgreSQL implementation of repository.PermissionRepository.
type PermissionPostgres struct {
	db *sql.DB
}

// NewPermissionPostgres creates a new PermissionPostgres repository.
func NewPermissionPostgres(db *sql.DB) *PermissionPostgres {
	return &PermissionPostgres{db: db}
}

var _ repository.PermissionRepository = (*PermissionPostgres)(nil)

const permissionColumns = `id, document_id, user_id, permission_type, created_at, updated_at`

func scanPermission(row interface{ Scan(...any) error }) (*model.Permission, error) {
	var p model.Permission
	if err := row.Scan(
		&p.ID,
		&p.DocumentID,
		&p.UserID,
		&p.Type,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new grant. The unique (document_id, user_id) index rejects
// duplicates.
func (r *PermissionPostgres) Create(ctx context.Context, p *model.Permission) (*model.Permission, error) {
	const q = `
		INSERT INTO document_permissions (id, document_id, user_id, permission_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + permissionColumns
	return scanPermission(r.db.QueryRowContext(ctx, q,
		p.ID,
		p.DocumentID,
		p.UserID,
		p.Type,
		p.CreatedAt,
		p.UpdatedAt,
	))
}

// FindByID fetches a grant scoped to a document.
func (r *PermissionPostgres) FindByID(ctx context.Context, id, documentID string) (*model.Permission, error) {
	const q = `SELECT ` + permissionColumns + ` FROM document_permissions WHERE id = $1 AND document_id = $2`
	return scanPermission(r.db.QueryRowContext(ctx, q, id, documentID))
}

// FindByDocumentAndUser fetches the grant for a (document, user) pair.
func (r *PermissionPostgres) FindByDocumentAndUser(ctx context.Context, documentID, userID string) (*model.Permission, error) {
	const q = `SELECT ` + permissionColumns + ` FROM document_permissions WHERE document_id = $1 AND user_id = $2`
	return scanPermission(r.db.QueryRowContext(ctx, q, documentID, userID))
}

// ListByDocument returns all grants for a document with their users attached.
func (r *PermissionPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.PermissionGrant, error) {
	const q = `
		SELECT p.id, p.permission_type, u.id, u.username, u.name, u.avatar
		FROM document_permissions p
		JOIN users u ON u.id = p.user_id
		WHERE p.document_id = $1
		ORDER BY p.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := make([]model.PermissionGrant, 0)
	for rows.Next() {
		var g model.PermissionGrant
		if err := rows.Scan(
			&g.ID,
			&g.Type,
			&g.User.ID,
			&g.User.Username,
			&g.User.Name,
			&g.User.Avatar,
		); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

// UpdateType changes the permission type of an existing grant.
func (r *PermissionPostgres) UpdateType(ctx context.Context, id string, t model.PermissionType) error {
	const q = `UPDATE document_permissions SET permission_type = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, t, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a grant by ID. It does not return an error if the row does not exist.
func (r *PermissionPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM document_permissions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
