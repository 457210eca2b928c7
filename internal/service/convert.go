package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"docbridge/internal/config"
	"docbridge/internal/repository"
	"docbridge/internal/token"
)

// ConversionResult points the client at the converted file on the editor.
type ConversionResult struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

// ConversionService proxies format conversion requests to the editor's
// conversion endpoint.
type ConversionService interface {
	Convert(ctx context.Context, shortKey, targetFormat string) (*ConversionResult, error)
}

type conversionService struct {
	docs   repository.DocumentRepository
	codec  *token.Codec
	client *http.Client
	cfg    *config.AppConfig
	log    *zap.Logger
}

// NewConversionService constructs a ConversionService.
func NewConversionService(docs repository.DocumentRepository, codec *token.Codec, client *http.Client, cfg *config.AppConfig, log *zap.Logger) ConversionService {
	return &conversionService{docs: docs, codec: codec, client: client, cfg: cfg, log: log}
}

// conversionRequest follows the editor conversion API's request shape.
type conversionRequest struct {
	URL        string `json:"url"`
	OutputType string `json:"outputtype"`
	FileType   string `json:"filetype"`
	Title      string `json:"title"`
	Async      bool   `json:"async"`
	Token      string `json:"token,omitempty"`
}

type conversionResponse struct {
	Error   *int   `json:"error,omitempty"`
	FileURL string `json:"fileUrl,omitempty"`
}

func (s *conversionService) Convert(ctx context.Context, shortKey, targetFormat string) (*ConversionResult, error) {
	if shortKey == "" || targetFormat == "" {
		return nil, fmt.Errorf("%w: document key and target format are required", ErrInvalidInput)
	}

	doc, err := s.docs.FindByShortKey(ctx, shortKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fileType := strings.ToLower(strings.TrimPrefix(filepath.Ext(doc.Filename), "."))
	title := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))

	reqBody := conversionRequest{
		URL:        strings.TrimSuffix(s.cfg.InternalHost, "/") + "/documents/" + doc.ShortKey + "/download",
		OutputType: targetFormat,
		FileType:   fileType,
		Title:      title,
		Async:      false,
	}
	if s.codec.Enabled() {
		signed, err := s.codec.Sign(reqBody)
		if err != nil {
			return nil, fmt.Errorf("sign conversion request: %w", err)
		}
		reqBody.Token = signed
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal conversion request: %w", err)
	}

	endpoint := strings.TrimSuffix(s.cfg.Editor.InternalAddress, "/") + "/ConvertService.ashx"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request conversion: %w", err)
	}
	defer resp.Body.Close()

	var result conversionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode conversion response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("conversion failed: editor error %d", *result.Error)
	}
	if result.FileURL == "" {
		return nil, fmt.Errorf("conversion failed: no file URL returned")
	}

	s.log.Info("document converted",
		zap.String("short_key", doc.ShortKey),
		zap.String("target_format", targetFormat))

	return &ConversionResult{
		DownloadURL: result.FileURL,
		Filename:    title + "." + targetFormat,
	}, nil
}
