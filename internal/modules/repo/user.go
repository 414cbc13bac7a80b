package repo

import (
	"context"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	// EnsureByEmail inserts u unless a user with the same email exists, and
	// returns the stored row either way.
	EnsureByEmail(ctx context.Context, u *model.User) (*model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) EnsureByEmail(ctx context.Context, u *model.User) (*model.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(u).Error
	if err != nil {
		return nil, err
	}

	var stored model.User
	return &stored, r.db.WithContext(ctx).Where("email = ?", u.Email).First(&stored).Error
}
