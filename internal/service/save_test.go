package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docbridge/internal/model"
	repoMocks "docbridge/internal/repository/mocks"
	"docbridge/internal/storage"
	storeMocks "docbridge/internal/storage/mocks"
)

func testDocument() *model.Document {
	return &model.Document{
		ID:          "d1",
		ShortKey:    "abc123",
		Filename:    "report.docx",
		StoragePath: "documents/uuid.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

func TestDocumentSaver_Save(t *testing.T) {
	ctx := context.Background()
	content := []byte("edited document bytes")
	sum := sha256.Sum256(content)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("FindByShortKey", ctx, "abc123").Return(testDocument(), nil)
	mRepo.On("UpdateContent", ctx, "d1", int64(len(content)), hex.EncodeToString(sum[:])).Return(nil)

	mStore := new(storeMocks.MockStorage)
	mStore.On("Put", ctx, "documents/uuid.docx", mock.Anything, storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: testDocument().ContentType,
	}).Return(storage.ObjectInfo{Key: "documents/uuid.docx"}, nil)

	saver := NewDocumentSaver(mStore, mRepo, srv.Client(), "", zap.NewNop())
	require.NoError(t, saver.Save(ctx, "abc123", srv.URL+"/file.docx"))

	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestDocumentSaver_Save_Idempotent(t *testing.T) {
	ctx := context.Background()
	content := []byte("same bytes every time")
	sum := sha256.Sum256(content)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("FindByShortKey", ctx, "abc123").Return(testDocument(), nil)
	mRepo.On("UpdateContent", ctx, "d1", int64(len(content)), hex.EncodeToString(sum[:])).Return(nil).Twice()

	mStore := new(storeMocks.MockStorage)
	mStore.On("Put", ctx, "documents/uuid.docx", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, nil).Twice()

	saver := NewDocumentSaver(mStore, mRepo, srv.Client(), "", zap.NewNop())
	require.NoError(t, saver.Save(ctx, "abc123", srv.URL+"/file.docx"))
	require.NoError(t, saver.Save(ctx, "abc123", srv.URL+"/file.docx"))

	mRepo.AssertExpectations(t)
	mStore.AssertExpectations(t)
}

func TestDocumentSaver_Save_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing download url", func(t *testing.T) {
		saver := NewDocumentSaver(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository), http.DefaultClient, "", zap.NewNop())
		assert.ErrorIs(t, saver.Save(ctx, "abc123", ""), ErrSaveFailed)
	})

	t.Run("unknown document", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByShortKey", ctx, mock.Anything).Return(nil, sql.ErrNoRows)

		saver := NewDocumentSaver(new(storeMocks.MockStorage), mRepo, http.DefaultClient, "", zap.NewNop())
		assert.ErrorIs(t, saver.Save(ctx, "missing", "http://editor/f"), ErrSaveFailed)
	})

	t.Run("download returns non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByShortKey", ctx, "abc123").Return(testDocument(), nil)

		saver := NewDocumentSaver(new(storeMocks.MockStorage), mRepo, srv.Client(), "", zap.NewNop())
		err := saver.Save(ctx, "abc123", srv.URL+"/file.docx")
		assert.ErrorIs(t, err, ErrSaveFailed)
		assert.ErrorContains(t, err, "HTTP 502")
	})

	t.Run("empty download body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByShortKey", ctx, "abc123").Return(testDocument(), nil)

		saver := NewDocumentSaver(new(storeMocks.MockStorage), mRepo, srv.Client(), "", zap.NewNop())
		assert.ErrorIs(t, saver.Save(ctx, "abc123", srv.URL+"/file.docx"), ErrSaveFailed)
	})
}

func TestDocumentSaver_ResolveDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("strips trailing json suffix", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByShortKey", ctx, "abc123").Return(testDocument(), nil)

		s := &documentSaver{docs: mRepo, log: zap.NewNop()}
		doc, err := s.resolveDocument(ctx, "abc123.json")
		require.NoError(t, err)
		assert.Equal(t, "d1", doc.ID)
	})

	t.Run("falls back to extension-stripped key", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByShortKey", ctx, "abc123.docx").Return(nil, sql.ErrNoRows).Once()
		mRepo.On("FindByShortKey", ctx, "abc123").Return(testDocument(), nil).Once()

		s := &documentSaver{docs: mRepo, log: zap.NewNop()}
		doc, err := s.resolveDocument(ctx, "abc123.docx")
		require.NoError(t, err)
		assert.Equal(t, "d1", doc.ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("unresolvable key fails", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByShortKey", ctx, mock.Anything).Return(nil, sql.ErrNoRows)

		s := &documentSaver{docs: mRepo, log: zap.NewNop()}
		_, err := s.resolveDocument(ctx, "ghost.docx")
		assert.Error(t, err)
	})
}

func TestDocumentSaver_RewriteDownloadURL(t *testing.T) {
	tests := []struct {
		name     string
		internal string
		in       string
		want     string
	}{
		{
			name:     "raw ip host rewritten",
			internal: "http://documentserver",
			in:       "http://172.18.0.3/cache/files/data/key/output.docx",
			want:     "http://documentserver/cache/files/data/key/output.docx",
		},
		{
			name:     "raw ip host rewritten, port preserved",
			internal: "http://documentserver/",
			in:       "http://10.0.0.5:8000/cache/output.docx",
			want:     "http://documentserver:8000/cache/output.docx",
		},
		{
			name:     "bare raw ip without path untouched",
			internal: "http://documentserver",
			in:       "http://10.0.0.5",
			want:     "http://10.0.0.5",
		},
		{
			name:     "hostname url untouched",
			internal: "http://documentserver",
			in:       "https://editor.example.com/cache/output.docx",
			want:     "https://editor.example.com/cache/output.docx",
		},
		{
			name:     "no internal address configured",
			internal: "",
			in:       "http://172.18.0.3/cache/output.docx",
			want:     "http://172.18.0.3/cache/output.docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &documentSaver{internalEditorAddress: tt.internal}
			assert.Equal(t, tt.want, s.rewriteDownloadURL(tt.in))
		})
	}
}
