package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"docbridge/internal/config"
	"docbridge/internal/model"
	"docbridge/internal/repository"
	"docbridge/internal/token"
)

// SessionService assembles the signed editing-session descriptor the client
// hands to the external editor.
type SessionService interface {
	// BuildConfig resolves the document and the requesting user's access
	// level and builds the per-session editor config. userID may be empty
	// for anonymous viewers.
	BuildConfig(ctx context.Context, shortKey, userID string) (*model.SessionEnvelope, error)
}

type sessionService struct {
	docs     repository.DocumentRepository
	users    repository.UserRepository
	resolver PermissionService
	codec    *token.Codec
	cfg      *config.AppConfig
	log      *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(docs repository.DocumentRepository, users repository.UserRepository, resolver PermissionService, codec *token.Codec, cfg *config.AppConfig, log *zap.Logger) SessionService {
	return &sessionService{docs: docs, users: users, resolver: resolver, codec: codec, cfg: cfg, log: log}
}

func (s *sessionService) BuildConfig(ctx context.Context, shortKey, userID string) (*model.SessionEnvelope, error) {
	doc, err := s.docs.FindByShortKey(ctx, shortKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user *model.User
	if userID != "" {
		user, err = s.users.FindByID(ctx, userID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	fileType := strings.ToLower(strings.TrimPrefix(filepath.Ext(doc.Filename), "."))
	if fileType == "" {
		return nil, fmt.Errorf("%w: cannot determine file type for %q", ErrInvalidInput, doc.Filename)
	}

	edit := false
	if user != nil {
		edit = s.resolver.Resolve(ctx, doc, user.ID) == model.PermissionEditor
	}

	mode := "view"
	if edit {
		mode = "edit"
	}

	sessionUser := model.SessionUser{ID: "guest", Name: "Guest"}
	lang := normalizeLocale(s.cfg.DefaultLocale)
	if user != nil {
		sessionUser = model.SessionUser{ID: user.ID, Name: user.Name}
		if sessionUser.Name == "" {
			sessionUser.Name = user.Username
		}
		if user.Locale != "" {
			lang = normalizeLocale(user.Locale)
		}
	}

	internalHost := strings.TrimSuffix(s.cfg.InternalHost, "/")
	docConfig := model.SessionConfig{
		Type:         "desktop",
		DocumentType: classifyDocumentType(fileType),
		Document: model.SessionDocument{
			Title:    doc.Filename,
			URL:      internalHost + "/documents/" + doc.ShortKey + "/download",
			FileType: fileType,
			// The version key changes with every save so stale cached
			// editors reload the document.
			Key:         doc.ShortKey + "_" + strconv.FormatInt(doc.UpdatedAt.Unix(), 10),
			Permissions: model.SessionPermissions{Edit: edit},
		},
		EditorConfig: model.SessionEditorBlock{
			Mode:          mode,
			Lang:          lang,
			CallbackURL:   internalHost + "/callback/" + doc.ShortKey,
			User:          sessionUser,
			Customization: model.SessionCustomization{Forcesave: false},
		},
	}

	if s.codec.Enabled() {
		signed, err := s.codec.Sign(docConfig)
		if err != nil {
			return nil, fmt.Errorf("sign session config: %w", err)
		}
		docConfig.Token = signed
	}

	return &model.SessionEnvelope{
		Config:    model.SessionHostConfig{DSHost: s.cfg.Editor.Address},
		ID:        doc.ShortKey,
		DocConfig: docConfig,
	}, nil
}

var (
	wordExtensions = map[string]bool{
		"doc": true, "docx": true, "docm": true, "dot": true, "dotx": true,
		"dotm": true, "odt": true, "fodt": true, "ott": true, "rtf": true,
		"txt": true, "html": true, "htm": true, "mht": true, "pdf": true,
		"djvu": true, "fb2": true, "epub": true, "xps": true,
	}
	cellExtensions = map[string]bool{
		"xls": true, "xlsx": true, "xlsm": true, "xlt": true, "xltx": true,
		"xltm": true, "ods": true, "fods": true, "ots": true, "csv": true,
	}
	slideExtensions = map[string]bool{
		"pps": true, "ppsx": true, "ppsm": true, "ppt": true, "pptx": true,
		"pptm": true, "pot": true, "potx": true, "potm": true, "odp": true,
		"fodp": true, "otp": true,
	}
)

// classifyDocumentType maps a file extension to the editor's document type
// class. Unknown extensions open in the word editor.
func classifyDocumentType(ext string) string {
	switch {
	case cellExtensions[ext]:
		return "cell"
	case slideExtensions[ext]:
		return "slide"
	case wordExtensions[ext]:
		return "word"
	default:
		return "word"
	}
}

// localeSpecialCases are host locales whose editor tag does not follow the
// xx -> xx-XX pattern.
var localeSpecialCases = map[string]string{
	"pt":    "pt-BR",
	"zh_CN": "zh-CN",
	"zh_TW": "zh-TW",
	"nb_NO": "nb-NO",
}

var localeCountries = map[string]string{
	"en": "US", "ru": "RU", "de": "DE", "fr": "FR", "es": "ES",
	"it": "IT", "ja": "JP", "ko": "KR", "ar": "SA", "pl": "PL",
	"nl": "NL", "tr": "TR", "uk": "UA", "cs": "CZ", "sv": "SE",
	"da": "DK", "fi": "FI", "he": "IL", "hu": "HU", "ro": "RO",
	"bg": "BG", "sk": "SK", "el": "GR", "vi": "VN", "id": "ID",
	"ms": "MY", "th": "TH",
}

// normalizeLocale converts a host locale to the editor's language tag format.
func normalizeLocale(locale string) string {
	if locale == "" {
		return "en-US"
	}
	if mapped, ok := localeSpecialCases[locale]; ok {
		return mapped
	}
	if strings.Contains(locale, "-") {
		return locale
	}
	country, ok := localeCountries[locale]
	if !ok {
		country = strings.ToUpper(locale)
	}
	return locale + "-" + country
}
