package mocks

import (
	"context"
	"io"

	"docbridge/internal/model"
	"docbridge/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, ownerID string) (*model.Document, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) GetByKey(ctx context.Context, shortKey string) (*model.Document, error) {
	args := m.Called(ctx, shortKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, shortKey string) (string, error) {
	args := m.Called(ctx, shortKey)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, shortKey, userID string) error {
	args := m.Called(ctx, shortKey, userID)
	return args.Error(0)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) BuildConfig(ctx context.Context, shortKey, userID string) (*model.SessionEnvelope, error) {
	args := m.Called(ctx, shortKey, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionEnvelope), args.Error(1)
}

type MockCallbackService struct {
	mock.Mock
}

func (m *MockCallbackService) HandleNotification(ctx context.Context, docKey string, body []byte, headerToken string) (*model.CallbackResponse, error) {
	args := m.Called(ctx, docKey, body, headerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CallbackResponse), args.Error(1)
}

type MockPermissionService struct {
	mock.Mock
}

func (m *MockPermissionService) Resolve(ctx context.Context, doc *model.Document, userID string) model.PermissionType {
	args := m.Called(ctx, doc, userID)
	return args.Get(0).(model.PermissionType)
}

func (m *MockPermissionService) CanManage(ctx context.Context, doc *model.Document, userID, postID string) bool {
	args := m.Called(ctx, doc, userID, postID)
	return args.Bool(0)
}

func (m *MockPermissionService) List(ctx context.Context, shortKey, actorID, postID string) ([]model.PermissionGrant, error) {
	args := m.Called(ctx, shortKey, actorID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PermissionGrant), args.Error(1)
}

func (m *MockPermissionService) Create(ctx context.Context, shortKey, actorID, postID, userID string, t model.PermissionType) (*model.Permission, error) {
	args := m.Called(ctx, shortKey, actorID, postID, userID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Permission), args.Error(1)
}

func (m *MockPermissionService) Update(ctx context.Context, shortKey, actorID, postID, permissionID string, t model.PermissionType) error {
	args := m.Called(ctx, shortKey, actorID, postID, permissionID, t)
	return args.Error(0)
}

func (m *MockPermissionService) Delete(ctx context.Context, shortKey, actorID, postID, permissionID string) error {
	args := m.Called(ctx, shortKey, actorID, postID, permissionID)
	return args.Error(0)
}

type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, shortKey, targetFormat string) (*service.ConversionResult, error) {
	args := m.Called(ctx, shortKey, targetFormat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConversionResult), args.Error(1)
}
