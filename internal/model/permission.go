package model

import "time"

// PermissionType is the access level a user holds on a document.
type PermissionType string

const (
	PermissionViewer PermissionType = "viewer"
	PermissionEditor PermissionType = "editor"
)

// Valid reports whether t is one of the known permission types.
func (t PermissionType) Valid() bool {
	return t == PermissionViewer || t == PermissionEditor
}

// Permission is an explicit per-document, per-user access grant.
// At most one row exists per (document, user) pair.
type Permission struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	UserID     string         `json:"user_id"`
	Type       PermissionType `json:"permission_type"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PermissionGrant is a permission row joined with its user, as exposed by the
// permission listing endpoint.
type PermissionGrant struct {
	ID   string         `json:"id"`
	User User           `json:"user"`
	Type PermissionType `json:"permission_type"`
}
