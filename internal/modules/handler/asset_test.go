package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/service"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
)

// MockAssetService is a mock implementation of AssetService
type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) Upload(ctx context.Context, caller *model.User, in service.UploadAssetInput) (*model.Asset, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*service.AssetDetail, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssetDetail), args.Error(1)
}

func (m *MockAssetService) Update(ctx context.Context, caller *model.User, id uuid.UUID, in service.UpdateAssetInput) (*model.Asset, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) TrackView(ctx context.Context, caller *model.User, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockAssetService) TrackDownload(ctx context.Context, caller *model.User, id uuid.UUID) (string, error) {
	args := m.Called(ctx, caller, id)
	return args.String(0), args.Error(1)
}

func multipartUpload(t *testing.T, fields map[string]string, filename string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("png bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestAssetHandler_UploadAsset(t *testing.T) {
	creative := &model.User{ID: uuid.New(), Role: model.RoleCreative}

	tests := []struct {
		name           string
		fields         map[string]string
		filename       string
		setup          func(*MockAssetService)
		expectedStatus int
	}{
		{
			name:     "upload with metadata",
			fields:   map[string]string{"title": "Hero", "usage": "PUBLIC", "tags": "spring,hero", "production_year": "2025"},
			filename: "hero.png",
			setup: func(svc *MockAssetService) {
				svc.On("Upload", mock.Anything, creative, mock.MatchedBy(func(in service.UploadAssetInput) bool {
					return in.File != nil && in.File.Filename == "hero.png" &&
						in.Title == "Hero" &&
						in.Usage == model.UsagePublic &&
						assert.ObjectsAreEqual([]string{"spring", "hero"}, in.Tags) &&
						in.ProductionYear != nil && *in.ProductionYear == 2025
				})).Return(&model.Asset{ID: uuid.New(), Title: "Hero"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing file",
			fields:         map[string]string{"title": "Hero"},
			setup:          func(*MockAssetService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "production year out of range",
			fields:         map[string]string{"production_year": "1200"},
			filename:       "hero.png",
			setup:          func(*MockAssetService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "storage down",
			filename: "hero.png",
			setup: func(svc *MockAssetService) {
				svc.On("Upload", mock.Anything, creative, mock.Anything).Return(nil, apperr.Unavailable("upload failed", assert.AnError))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAssetService{}
			tt.setup(mockService)

			handler := NewAssetHandler(mockService)
			router := setupRouter()
			router.POST("/assets", withUser(creative, handler.UploadAsset))

			body, contentType := multipartUpload(t, tt.fields, tt.filename)
			req := httptest.NewRequest("POST", "/assets", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAssetHandler_UpdateAsset(t *testing.T) {
	creative := &model.User{ID: uuid.New(), Role: model.RoleCreative}
	assetID := uuid.New()

	tests := []struct {
		name           string
		path           string
		body           string
		setup          func(*MockAssetService)
		expectedStatus int
	}{
		{
			name: "rename and retag",
			path: "/assets/" + assetID.String(),
			body: `{"title":"New title","usage":"Public","tags":["a"]}`,
			setup: func(svc *MockAssetService) {
				svc.On("Update", mock.Anything, creative, assetID, mock.MatchedBy(func(in service.UpdateAssetInput) bool {
					return in.Title != nil && *in.Title == "New title" &&
						in.Usage != nil && *in.Usage == model.UsagePublic &&
						in.Tags != nil && len(*in.Tags) == 1 &&
						in.Description == nil
				})).Return(&model.Asset{ID: assetID}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "under review",
			path: "/assets/" + assetID.String(),
			body: `{"title":"x"}`,
			setup: func(svc *MockAssetService) {
				svc.On("Update", mock.Anything, creative, assetID, mock.Anything).Return(nil, apperr.Conflict("Asset is under review"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "malformed body",
			path:           "/assets/" + assetID.String(),
			body:           `{"title":`,
			setup:          func(*MockAssetService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad id",
			path:           "/assets/123",
			body:           `{}`,
			setup:          func(*MockAssetService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAssetService{}
			tt.setup(mockService)

			handler := NewAssetHandler(mockService)
			router := setupRouter()
			router.PATCH("/assets/:id", withUser(creative, handler.UpdateAsset))

			req := httptest.NewRequest("PATCH", tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAssetHandler_GetAndCounters(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser}
	assetID := uuid.New()
	missing := uuid.New()

	mockService := &MockAssetService{}
	mockService.On("Get", mock.Anything, user, assetID).Return(&service.AssetDetail{Asset: &model.Asset{ID: assetID}, DownloadURL: "https://s3/get"}, nil)
	mockService.On("Get", mock.Anything, user, missing).Return(nil, apperr.NotFound("Asset not found"))
	mockService.On("TrackView", mock.Anything, user, assetID).Return(nil)
	mockService.On("TrackDownload", mock.Anything, user, assetID).Return("https://s3/attachment", nil)

	handler := NewAssetHandler(mockService)
	router := setupRouter()
	router.GET("/assets/:id", withUser(user, handler.GetAsset))
	router.POST("/assets/:id/view", withUser(user, handler.TrackView))
	router.POST("/assets/:id/download", withUser(user, handler.TrackDownload))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/assets/"+assetID.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://s3/get")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/assets/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/assets/"+assetID.String()+"/view", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/assets/"+assetID.String()+"/download", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://s3/attachment")

	mockService.AssertExpectations(t)
}
