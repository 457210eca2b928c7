package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docbridge/internal/model"
	"docbridge/internal/token"
)

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) Save(ctx context.Context, docKey, downloadURL string) error {
	args := m.Called(ctx, docKey, downloadURL)
	return args.Error(0)
}

func notificationBody(t *testing.T, status model.CallbackStatus, url string) []byte {
	t.Helper()
	b, err := json.Marshal(model.CallbackNotification{Key: "doc-key", Status: status, URL: url})
	require.NoError(t, err)
	return b
}

func TestCallbackService_NoOpStatuses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		status      model.CallbackStatus
		wantMessage string
	}{
		{
			name:        "unknown document",
			status:      model.StatusNotFound,
			wantMessage: "The editor has reported that no doc with the specified key can be found",
		},
		{
			name:        "user joined or left",
			status:      model.StatusEditing,
			wantMessage: "User has entered/exited the editing session",
		},
		{
			name:        "closed without changes",
			status:      model.StatusNoChanges,
			wantMessage: "No document updates",
		},
		{
			name:        "unrecognized status",
			status:      model.CallbackStatus(5),
			wantMessage: "Unknown status: 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := new(mockSaver)
			svc := NewCallbackService(token.NewCodec(""), saver, zap.NewNop())

			resp, err := svc.HandleNotification(ctx, "doc-key", notificationBody(t, tt.status, ""), "")
			require.NoError(t, err)
			assert.Equal(t, 0, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Message)
			saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCallbackService_SaveStatuses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		status      model.CallbackStatus
		wantMessage string
	}{
		{model.StatusMustSave, "Document saved successfully"},
		{model.StatusCorrupted, "Document saved successfully"},
		{model.StatusMustForceSave, "Document force saved successfully"},
		{model.StatusCorruptedForceSave, "Document force saved successfully"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			saver := new(mockSaver)
			saver.On("Save", ctx, "doc-key", "http://editor/file.docx").Return(nil)

			svc := NewCallbackService(token.NewCodec(""), saver, zap.NewNop())
			resp, err := svc.HandleNotification(ctx, "doc-key", notificationBody(t, tt.status, "http://editor/file.docx"), "")
			require.NoError(t, err)
			assert.Equal(t, 0, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Message)
			saver.AssertExpectations(t)
		})
	}
}

func TestCallbackService_SaveFailure(t *testing.T) {
	ctx := context.Background()

	saver := new(mockSaver)
	saver.On("Save", ctx, "doc-key", "http://editor/file.docx").
		Return(fmt.Errorf("%w: boom", ErrSaveFailed))

	svc := NewCallbackService(token.NewCodec(""), saver, zap.NewNop())
	resp, err := svc.HandleNotification(ctx, "doc-key", notificationBody(t, model.StatusMustSave, "http://editor/file.docx"), "")

	assert.ErrorIs(t, err, ErrSaveFailed)
	require.NotNil(t, resp)
	assert.Equal(t, 1, resp.Error)
	assert.Equal(t, "Error saving document", resp.Message)
}

func TestCallbackService_IdenticalRedelivery(t *testing.T) {
	ctx := context.Background()

	saver := new(mockSaver)
	saver.On("Save", ctx, "doc-key", "http://editor/file.docx").Return(nil).Twice()

	svc := NewCallbackService(token.NewCodec(""), saver, zap.NewNop())
	body := notificationBody(t, model.StatusMustSave, "http://editor/file.docx")

	for i := 0; i < 2; i++ {
		resp, err := svc.HandleNotification(ctx, "doc-key", body, "")
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Error)
	}
	saver.AssertExpectations(t)
}

// Every status the protocol defines must produce a response, not an error.
func TestCallbackService_AllStatusesHandled(t *testing.T) {
	ctx := context.Background()

	saver := new(mockSaver)
	saver.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewCallbackService(token.NewCodec(""), saver, zap.NewNop())
	for _, status := range model.CallbackStatuses() {
		resp, err := svc.HandleNotification(ctx, "doc-key", notificationBody(t, status, "http://editor/file.docx"), "")
		require.NoError(t, err, "status %d", status)
		require.NotNil(t, resp, "status %d", status)
		assert.Equal(t, 0, resp.Error, "status %d", status)
		assert.NotEmpty(t, resp.Message, "status %d", status)
	}
}

func TestCallbackAuthenticator(t *testing.T) {
	const secret = "callback-secret"
	codec := token.NewCodec(secret)

	signBody := func(t *testing.T, notif model.CallbackNotification) []byte {
		t.Helper()
		signed, err := codec.Sign(notif)
		require.NoError(t, err)
		notif.Token = signed
		b, err := json.Marshal(notif)
		require.NoError(t, err)
		return b
	}

	t.Run("empty body rejected", func(t *testing.T) {
		a := &callbackAuthenticator{codec: codec}
		_, err := a.Authenticate(nil, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		a := &callbackAuthenticator{codec: codec}
		_, err := a.Authenticate([]byte("{not json"), "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("signing disabled trusts body", func(t *testing.T) {
		a := &callbackAuthenticator{codec: token.NewCodec("")}
		notif, err := a.Authenticate(notificationBody(t, model.StatusMustSave, "http://editor/f"), "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusMustSave, notif.Status)
		assert.Equal(t, "http://editor/f", notif.URL)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		a := &callbackAuthenticator{codec: codec}
		_, err := a.Authenticate(notificationBody(t, model.StatusMustSave, "http://editor/f"), "")
		assert.ErrorIs(t, err, ErrAuthFailed)
		assert.ErrorContains(t, err, "expected token")
	})

	t.Run("body token verified and replaces body", func(t *testing.T) {
		a := &callbackAuthenticator{codec: codec}
		body := signBody(t, model.CallbackNotification{Key: "doc-key", Status: model.StatusMustSave, URL: "http://editor/f"})

		notif, err := a.Authenticate(body, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusMustSave, notif.Status)
		assert.Equal(t, "http://editor/f", notif.URL)
	})

	t.Run("body token signed with wrong secret rejected", func(t *testing.T) {
		other := token.NewCodec("other-secret")
		signed, err := other.Sign(model.CallbackNotification{Status: model.StatusMustSave})
		require.NoError(t, err)
		b, err := json.Marshal(model.CallbackNotification{Status: model.StatusMustSave, Token: signed})
		require.NoError(t, err)

		a := &callbackAuthenticator{codec: codec}
		_, err = a.Authenticate(b, "")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("header token unwraps nested payload", func(t *testing.T) {
		signed, err := codec.Sign(map[string]any{
			"payload": model.CallbackNotification{Key: "doc-key", Status: model.StatusCorrupted, URL: "http://editor/f"},
		})
		require.NoError(t, err)

		a := &callbackAuthenticator{codec: codec}
		notif, err := a.Authenticate(notificationBody(t, model.StatusEditing, ""), "Bearer "+signed)
		require.NoError(t, err)
		// The verified payload wins over whatever the body claimed.
		assert.Equal(t, model.StatusCorrupted, notif.Status)
		assert.Equal(t, "http://editor/f", notif.URL)
	})

	t.Run("header token without payload rejected", func(t *testing.T) {
		signed, err := codec.Sign(model.CallbackNotification{Status: model.StatusMustSave})
		require.NoError(t, err)

		a := &callbackAuthenticator{codec: codec}
		_, err = a.Authenticate(notificationBody(t, model.StatusEditing, ""), signed)
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}

func TestCallbackService_UnauthenticatedNotificationNeverSaves(t *testing.T) {
	ctx := context.Background()
	saver := new(mockSaver)

	svc := NewCallbackService(token.NewCodec("secret"), saver, zap.NewNop())
	resp, err := svc.HandleNotification(ctx, "doc-key", notificationBody(t, model.StatusMustSave, "http://editor/f"), "")

	assert.True(t, errors.Is(err, ErrAuthFailed))
	assert.Nil(t, resp)
	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
