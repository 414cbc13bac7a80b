package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/service"
	"github.com/contenthub/contenthub/internal/pkg/access"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, caller *model.User, in service.ListNotificationsInput) (*service.ListNotificationsOutput, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListNotificationsOutput), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Notification, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Me(ctx context.Context, caller *model.User) (*service.MeOutput, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MeOutput), args.Error(1)
}

func (m *MockUserService) Resolve(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, email, name string) (*model.User, error) {
	args := m.Called(ctx, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestNotificationHandler_ListNotifications(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleCreative}

	tests := []struct {
		name           string
		query          string
		setup          func(*MockNotificationService)
		expectedStatus int
	}{
		{
			name:  "first page",
			query: "",
			setup: func(svc *MockNotificationService) {
				svc.On("List", mock.Anything, user, service.ListNotificationsInput{Limit: 20}).
					Return(&service.ListNotificationsOutput{Items: []*model.Notification{}, Unread: 2}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "bad cursor",
			query: "?cursor=bogus",
			setup: func(svc *MockNotificationService) {
				svc.On("List", mock.Anything, user, mock.Anything).Return(nil, apperr.Validation("Invalid cursor"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "limit zero",
			query:          "?limit=0",
			setup:          func(*MockNotificationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockNotificationService{}
			tt.setup(mockService)

			handler := NewNotificationHandler(mockService)
			router := setupRouter()
			router.GET("/notifications", withUser(user, handler.ListNotifications))

			req := httptest.NewRequest("GET", "/notifications"+tt.query, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleCreative}
	id := uuid.New()
	other := uuid.New()

	mockService := &MockNotificationService{}
	mockService.On("MarkRead", mock.Anything, user, id).Return(&model.Notification{ID: id, UserID: user.ID}, nil)
	mockService.On("MarkRead", mock.Anything, user, other).Return(nil, apperr.NotFound("Notification not found"))

	handler := NewNotificationHandler(mockService)
	router := setupRouter()
	router.POST("/notifications/:id/read", withUser(user, handler.MarkRead))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/notifications/"+id.String()+"/read", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/notifications/"+other.String()+"/read", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}

func TestUserHandler_Me(t *testing.T) {
	reviewer := &model.User{ID: uuid.New(), Role: model.RoleReviewer}

	mockService := &MockUserService{}
	mockService.On("Me", mock.Anything, reviewer).Return(&service.MeOutput{
		User:         reviewer,
		Capabilities: access.For(reviewer),
	}, nil)

	handler := NewUserHandler(mockService)
	router := setupRouter()
	router.GET("/me", withUser(reviewer, handler.Me))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"can_review":true`)
	mockService.AssertExpectations(t)
}

func TestUserHandler_MeWithoutCaller(t *testing.T) {
	mockService := &MockUserService{}
	mockService.On("Me", mock.Anything, (*model.User)(nil)).Return(nil, apperr.Unauthenticated("Sign in required"))

	handler := NewUserHandler(mockService)
	router := setupRouter()
	router.GET("/me", handler.Me)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}
