package repository

import (
	"context"

	"docbridge/internal/model"
)

// PermissionRepository defines data access for per-document access grants.
type PermissionRepository interface {
	// Create inserts a new permission row. The (document, user) pair is
	// unique; a duplicate insert fails at the database level.
	Create(ctx context.Context, p *model.Permission) (*model.Permission, error)

	// FindByID returns a permission scoped to a document.
	FindByID(ctx context.Context, id, documentID string) (*model.Permission, error)

	// FindByDocumentAndUser returns the grant for a (document, user) pair.
	FindByDocumentAndUser(ctx context.Context, documentID, userID string) (*model.Permission, error)

	// ListByDocument returns all grants for a document joined with their users.
	ListByDocument(ctx context.Context, documentID string) ([]model.PermissionGrant, error)

	// UpdateType changes the permission type of an existing grant.
	UpdateType(ctx context.Context, id string, t model.PermissionType) error

	// Delete removes a grant by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

// UserRepository defines read access to content-host users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// PostRepository defines read access to content-host posts.
type PostRepository interface {
	FindByID(ctx context.Context, id string) (*model.Post, error)
}
