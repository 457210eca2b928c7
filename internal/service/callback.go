package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docbridge/internal/model"
	"docbridge/internal/token"
)

// CallbackService dispatches inbound editor notifications: authenticate,
// classify the status, run the save pipeline when required, and produce the
// protocol acknowledgement.
type CallbackService interface {
	// HandleNotification processes one callback for the document addressed by
	// docKey. Each notification is independent; the editor may redeliver, so
	// handling is idempotent. The returned response is the protocol envelope;
	// a non-nil error classifies the failure (ErrAuthFailed, ErrInvalidInput,
	// ErrSaveFailed) and the response, when present, still carries the
	// protocol body to send.
	HandleNotification(ctx context.Context, docKey string, body []byte, headerToken string) (*model.CallbackResponse, error)
}

type callbackService struct {
	auth  *callbackAuthenticator
	saver DocumentSaver
	log   *zap.Logger
}

// NewCallbackService constructs the callback dispatcher.
func NewCallbackService(codec *token.Codec, saver DocumentSaver, log *zap.Logger) CallbackService {
	return &callbackService{
		auth:  &callbackAuthenticator{codec: codec},
		saver: saver,
		log:   log,
	}
}

func (s *callbackService) HandleNotification(ctx context.Context, docKey string, body []byte, headerToken string) (*model.CallbackResponse, error) {
	notif, err := s.auth.Authenticate(body, headerToken)
	if err != nil {
		s.log.Warn("callback rejected",
			zap.String("doc_key", docKey),
			zap.Error(err))
		return nil, err
	}

	switch notif.Status {
	case model.StatusNotFound:
		return &model.CallbackResponse{
			Message: "The editor has reported that no doc with the specified key can be found",
		}, nil

	case model.StatusEditing:
		return &model.CallbackResponse{
			Message: "User has entered/exited the editing session",
		}, nil

	case model.StatusMustSave, model.StatusCorrupted:
		if err := s.saver.Save(ctx, docKey, notif.URL); err != nil {
			s.log.Error("callback save failed",
				zap.String("doc_key", docKey),
				zap.Int("status", int(notif.Status)),
				zap.Error(err))
			return &model.CallbackResponse{Error: 1, Message: "Error saving document"}, err
		}
		return &model.CallbackResponse{Message: "Document saved successfully"}, nil

	case model.StatusNoChanges:
		return &model.CallbackResponse{
			Message: "No document updates",
		}, nil

	case model.StatusMustForceSave, model.StatusCorruptedForceSave:
		// Force save persists exactly like a normal save; only the
		// acknowledgement wording differs.
		if err := s.saver.Save(ctx, docKey, notif.URL); err != nil {
			s.log.Error("callback force save failed",
				zap.String("doc_key", docKey),
				zap.Int("status", int(notif.Status)),
				zap.Error(err))
			return &model.CallbackResponse{Error: 1, Message: "Error force saving document"}, err
		}
		return &model.CallbackResponse{Message: "Document force saved successfully"}, nil

	default:
		return &model.CallbackResponse{
			Message: fmt.Sprintf("Unknown status: %d", notif.Status),
		}, nil
	}
}
