package service

import (
	"context"
	"strings"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/pkg/access"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/google/uuid"
)

type UserService interface {
	Me(ctx context.Context, caller *model.User) (*MeOutput, error)
	// Resolve loads the user a bearer token was issued for.
	Resolve(ctx context.Context, id uuid.UUID) (*model.User, error)
	// EnsureAdmin seeds an ADMIN account for a fresh deployment.
	EnsureAdmin(ctx context.Context, email, name string) (*model.User, error)
}

type MeOutput struct {
	User         *model.User         `json:"user"`
	Capabilities access.Capabilities `json:"capabilities"`
}

type userService struct{ r repo.UserRepo }

func NewUserService(r repo.UserRepo) UserService {
	return &userService{r: r}
}

func (s *userService) Me(_ context.Context, caller *model.User) (*MeOutput, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	return &MeOutput{User: caller, Capabilities: access.For(caller)}, nil
}

func (s *userService) Resolve(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "User not found", "User changed")
	}
	return u, nil
}

func (s *userService) EnsureAdmin(ctx context.Context, email, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.Validation("admin email is empty")
	}
	u, err := s.r.EnsureByEmail(ctx, &model.User{Email: email, Name: name, Role: model.RoleAdmin})
	if err != nil {
		return nil, translate(err, "User not found", "User changed")
	}
	return u, nil
}
