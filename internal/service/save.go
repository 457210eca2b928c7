package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"docbridge/internal/model"
	"docbridge/internal/repository"
	"docbridge/internal/storage"
)

// DocumentSaver persists an edited document delivered by the editor: it
// downloads the file from the given URL and overwrites the stored bytes.
type DocumentSaver interface {
	// Save fetches the edited file and writes it back to storage. The write is
	// last-writer-wins: concurrent saves for the same document are not
	// serialized here, the editor's own per-key serialization keeps them rare.
	// Re-running an identical save is safe.
	Save(ctx context.Context, docKey, downloadURL string) error
}

type documentSaver struct {
	store  storage.Storage
	docs   repository.DocumentRepository
	client *http.Client
	// internalEditorAddress replaces raw-IP editor hosts in download URLs;
	// the editor reports its own address as seen from inside its network.
	internalEditorAddress string
	log                   *zap.Logger
}

// NewDocumentSaver constructs the save pipeline.
func NewDocumentSaver(store storage.Storage, docs repository.DocumentRepository, client *http.Client, internalEditorAddress string, log *zap.Logger) DocumentSaver {
	return &documentSaver{
		store:                 store,
		docs:                  docs,
		client:                client,
		internalEditorAddress: internalEditorAddress,
		log:                   log,
	}
}

var rawIPURLPattern = regexp.MustCompile(`^(https?://[\d.]+)[:/]`)

// rewriteDownloadURL swaps a raw-IP editor host for the configured internal
// editor address, keeping any port and path from the reported URL. The editor
// sometimes reports container-internal IPs that are unreachable from this
// server.
func (s *documentSaver) rewriteDownloadURL(downloadURL string) string {
	if s.internalEditorAddress == "" {
		return downloadURL
	}
	m := rawIPURLPattern.FindStringSubmatch(downloadURL)
	if m == nil {
		return downloadURL
	}
	return strings.TrimSuffix(s.internalEditorAddress, "/") + strings.TrimPrefix(downloadURL, m[1])
}

// resolveDocument finds the document behind a callback key. Keys may carry a
// trailing ".json" from the callback route and may or may not include the
// file extension, so a stripped variant is tried as a fallback.
func (s *documentSaver) resolveDocument(ctx context.Context, docKey string) (*model.Document, error) {
	key := strings.TrimSuffix(docKey, ".json")

	doc, err := s.docs.FindByShortKey(ctx, key)
	if err == nil {
		return doc, nil
	}

	if ext := filepath.Ext(key); ext != "" {
		stripped := strings.TrimSuffix(key, ext)
		if doc, err2 := s.docs.FindByShortKey(ctx, stripped); err2 == nil {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("resolve document %q: %w", docKey, err)
}

func (s *documentSaver) Save(ctx context.Context, docKey, downloadURL string) error {
	if downloadURL == "" {
		return fmt.Errorf("%w: notification has no download url", ErrSaveFailed)
	}

	doc, err := s.resolveDocument(ctx, docKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	content, err := s.download(ctx, s.rewriteDownloadURL(downloadURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if _, err := s.store.Put(ctx, doc.StoragePath, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: doc.ContentType,
	}); err != nil {
		return fmt.Errorf("%w: overwrite stored bytes: %v", ErrSaveFailed, err)
	}

	sum := sha256.Sum256(content)
	if err := s.docs.UpdateContent(ctx, doc.ID, int64(len(content)), hex.EncodeToString(sum[:])); err != nil {
		return fmt.Errorf("%w: update document record: %v", ErrSaveFailed, err)
	}

	s.log.Info("document saved",
		zap.String("document_id", doc.ID),
		zap.String("short_key", doc.ShortKey),
		zap.Int("size", len(content)))
	return nil
}

func (s *documentSaver) download(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download edited file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download edited file: HTTP %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("download edited file: empty body")
	}
	return content, nil
}
