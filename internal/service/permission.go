package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docbridge/internal/model"
	"docbridge/internal/repository"
)

// PermissionService resolves edit/view access for documents and manages the
// explicit grants behind it.
//
// Resolve answers "may this user edit this document"; CanManage answers the
// stricter "may this user grant edit rights to others". A post author has
// management rights over attached documents but no automatic edit rights.
type PermissionService interface {
	// Resolve decides the access level for a user on a document. It is total:
	// it always returns viewer or editor, never an error. Precedence: owner,
	// explicit grant, default viewer. Anonymous users always get viewer.
	Resolve(ctx context.Context, doc *model.Document, userID string) model.PermissionType

	// CanManage reports whether userID may manage grants for doc. Only the
	// document owner or the author of the referencing post (when postID is
	// given) qualify.
	CanManage(ctx context.Context, doc *model.Document, userID, postID string) bool

	List(ctx context.Context, shortKey, actorID, postID string) ([]model.PermissionGrant, error)
	Create(ctx context.Context, shortKey, actorID, postID, userID string, t model.PermissionType) (*model.Permission, error)
	Update(ctx context.Context, shortKey, actorID, postID, permissionID string, t model.PermissionType) error
	Delete(ctx context.Context, shortKey, actorID, postID, permissionID string) error
}

type permissionService struct {
	docs  repository.DocumentRepository
	perms repository.PermissionRepository
	users repository.UserRepository
	posts repository.PostRepository
	log   *zap.Logger
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(docs repository.DocumentRepository, perms repository.PermissionRepository, users repository.UserRepository, posts repository.PostRepository, log *zap.Logger) PermissionService {
	return &permissionService{docs: docs, perms: perms, users: users, posts: posts, log: log}
}

func (s *permissionService) Resolve(ctx context.Context, doc *model.Document, userID string) model.PermissionType {
	if userID == "" || doc == nil {
		return model.PermissionViewer
	}
	// The owner is always an editor, regardless of any grant row.
	if doc.UserID == userID {
		return model.PermissionEditor
	}

	grant, err := s.perms.FindByDocumentAndUser(ctx, doc.ID, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			// Lookup failures default-deny rather than failing the session.
			s.log.Warn("permission lookup failed, defaulting to viewer",
				zap.String("document_id", doc.ID),
				zap.String("user_id", userID),
				zap.Error(err))
		}
		return model.PermissionViewer
	}
	if grant.Type.Valid() {
		return grant.Type
	}
	return model.PermissionViewer
}

func (s *permissionService) CanManage(ctx context.Context, doc *model.Document, userID, postID string) bool {
	if userID == "" || doc == nil {
		return false
	}
	if postID != "" {
		post, err := s.posts.FindByID(ctx, postID)
		if err == nil && post.UserID == userID {
			return true
		}
	}
	return doc.UserID == userID
}

// findManaged resolves the document and checks management rights in one step.
func (s *permissionService) findManaged(ctx context.Context, shortKey, actorID, postID string) (*model.Document, error) {
	doc, err := s.docs.FindByShortKey(ctx, shortKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.CanManage(ctx, doc, actorID, postID) {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *permissionService) List(ctx context.Context, shortKey, actorID, postID string) ([]model.PermissionGrant, error) {
	doc, err := s.findManaged(ctx, shortKey, actorID, postID)
	if err != nil {
		return nil, err
	}
	return s.perms.ListByDocument(ctx, doc.ID)
}

func (s *permissionService) Create(ctx context.Context, shortKey, actorID, postID, userID string, t model.PermissionType) (*model.Permission, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown permission type %q", ErrInvalidInput, t)
	}

	doc, err := s.findManaged(ctx, shortKey, actorID, postID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s does not exist", ErrInvalidInput, userID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	return s.perms.Create(ctx, &model.Permission{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		UserID:     userID,
		Type:       t,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *permissionService) Update(ctx context.Context, shortKey, actorID, postID, permissionID string, t model.PermissionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown permission type %q", ErrInvalidInput, t)
	}

	doc, err := s.findManaged(ctx, shortKey, actorID, postID)
	if err != nil {
		return err
	}

	if _, err := s.perms.FindByID(ctx, permissionID, doc.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.perms.UpdateType(ctx, permissionID, t)
}

func (s *permissionService) Delete(ctx context.Context, shortKey, actorID, postID, permissionID string) error {
	doc, err := s.findManaged(ctx, shortKey, actorID, postID)
	if err != nil {
		return err
	}

	if _, err := s.perms.FindByID(ctx, permissionID, doc.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.perms.Delete(ctx, permissionID)
}
