package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docbridge/internal/model"
	"docbridge/internal/repository"
	"docbridge/internal/storage"
)

const downloadLinkExpiry = 10 * time.Minute

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload streams the content to object storage and records its metadata,
	// including the content hash and an opaque short key. Storage is rolled
	// back if the metadata save fails.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, ownerID string) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// GetByKey returns a single document by its short key.
	GetByKey(ctx context.Context, shortKey string) (*model.Document, error)

	// DownloadURL returns a time-limited URL for the document bytes. The
	// editor fetches the file through this.
	DownloadURL(ctx context.Context, shortKey string) (string, error)

	// Delete removes a document from both storage and repository. Only the
	// owner may delete.
	Delete(ctx context.Context, shortKey, userID string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	log   *zap.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, log *zap.Logger) DocumentService {
	return &documentService{store: store, repo: repo, log: log}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, ownerID string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	// Hash the content while it streams to storage.
	hasher := sha256.New()
	objInfo, err := s.store.Put(ctx, key, io.TeeReader(r, hasher), storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          uuid.New().String(),
		ShortKey:    strings.ReplaceAll(uuid.New().String(), "-", ""),
		Filename:    originalFilename,
		StoragePath: objInfo.Key,
		SHA256:      hex.EncodeToString(hasher.Sum(nil)),
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("document uploaded",
		zap.String("document_id", stored.ID),
		zap.String("short_key", stored.ShortKey),
		zap.Int64("size", stored.Size))
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) GetByKey(ctx context.Context, shortKey string) (*model.Document, error) {
	if shortKey == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByShortKey(ctx, shortKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) DownloadURL(ctx context.Context, shortKey string) (string, error) {
	doc, err := s.GetByKey(ctx, shortKey)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, doc.StoragePath, downloadLinkExpiry)
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, shortKey, userID string) error {
	doc, err := s.GetByKey(ctx, shortKey)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		return ErrForbidden
	}
	// Delete from storage first; if this fails, keep DB row to avoid losing
	// the storage reference.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, doc.ID)
}
