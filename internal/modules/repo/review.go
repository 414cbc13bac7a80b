package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleStatus is returned when the compare-and-set on a review's status
// matched no row: another transaction moved the review first.
var ErrStaleStatus = errors.New("review status changed concurrently")

// SubmitCheck validates the locked asset before a review is inserted.
// hasOpen reports whether the asset already has an open review.
type SubmitCheck func(a *model.Asset, hasOpen bool) error

// Transition is the write a TransitionFunc asks for.
type Transition struct {
	To           model.ReviewStatus
	ReviewFields map[string]any
	AssetFields  map[string]any
}

// TransitionFunc inspects the locked review and asset and returns the write to
// apply, or an error to abort without writing.
type TransitionFunc func(rv *model.Review, a *model.Asset) (*Transition, error)

type ReviewListFilter struct {
	Statuses []model.ReviewStatus
	Offset   int
	Limit    int

	// keyset position; both zero means from the start of the queue
	AfterSubmittedAt time.Time
	AfterID          uuid.UUID
}

type ReviewRepo interface {
	Submit(ctx context.Context, rv *model.Review, check SubmitCheck) (*model.Asset, error)
	Transition(ctx context.Context, reviewID uuid.UUID, fn TransitionFunc) (*model.Review, *model.Asset, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context, f ReviewListFilter) ([]*model.Review, error)
	Count(ctx context.Context, statuses []model.ReviewStatus) (int64, error)
	CountByStatus(ctx context.Context) (map[model.ReviewStatus]int64, error)
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*model.Review, error)
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) ReviewRepo {
	return &reviewRepo{db: db}
}

// Submit locks the asset, runs check, inserts rv and moves the asset to
// REVIEWING in one transaction. The partial unique index on open reviews
// rejects a concurrent duplicate with gorm.ErrDuplicatedKey.
func (r *reviewRepo) Submit(ctx context.Context, rv *model.Review, check SubmitCheck) (*model.Asset, error) {
	var out model.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", rv.AssetID).First(&a).Error; err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&model.Review{}).
			Where("asset_id = ? AND status IN ?", a.ID, model.OpenReviewStatuses).
			Count(&open).Error; err != nil {
			return fmt.Errorf("count open reviews: %w", err)
		}

		if err := check(&a, open > 0); err != nil {
			return err
		}

		if err := tx.Create(rv).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Asset{}).
			Where("id = ? AND processing_status = ?", a.ID, model.ProcessingCompleted).
			Update("processing_status", model.ProcessingReviewing)
		if res.Error != nil {
			return fmt.Errorf("mark asset reviewing: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		return tx.Where("id = ?", a.ID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Transition locks the review's asset and then the review (the same order
// Submit uses), lets fn decide, and applies the result with a compare-and-set
// on the review status.
func (r *reviewRepo) Transition(ctx context.Context, reviewID uuid.UUID, fn TransitionFunc) (*model.Review, *model.Asset, error) {
	var outReview model.Review
	var outAsset model.Asset

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ref model.Review
		if err := tx.Select("id", "asset_id").Where("id = ?", reviewID).First(&ref).Error; err != nil {
			return err
		}

		var a model.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", ref.AssetID).First(&a).Error; err != nil {
			return err
		}
		var rv model.Review
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", reviewID).First(&rv).Error; err != nil {
			return err
		}

		t, err := fn(&rv, &a)
		if err != nil {
			return err
		}

		fields := make(map[string]any, len(t.ReviewFields)+1)
		for k, v := range t.ReviewFields {
			fields[k] = v
		}
		fields["status"] = t.To

		res := tx.Model(&model.Review{}).
			Where("id = ? AND status IN ?", rv.ID, model.TransitionSources(t.To)).
			Updates(fields)
		if res.Error != nil {
			return fmt.Errorf("update review: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if len(t.AssetFields) > 0 {
			if err := tx.Model(&model.Asset{}).Where("id = ?", a.ID).Updates(t.AssetFields).Error; err != nil {
				return fmt.Errorf("update asset: %w", err)
			}
		}

		if err := tx.Where("id = ?", rv.ID).First(&outReview).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", a.ID).First(&outAsset).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &outReview, &outAsset, nil
}

func (r *reviewRepo) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var rv model.Review
	if err := r.db.WithContext(ctx).Preload("Asset").Preload("Asset.Tags").Where("id = ?", id).First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

// List returns reviews in queue order: submitted_at ascending, id ascending.
func (r *reviewRepo) List(ctx context.Context, f ReviewListFilter) ([]*model.Review, error) {
	q := r.db.WithContext(ctx).Preload("Asset").Where("status IN ?", f.Statuses)

	if !f.AfterSubmittedAt.IsZero() && f.AfterID != uuid.Nil {
		q = q.Where("(submitted_at > ?) OR (submitted_at = ? AND id > ?)", f.AfterSubmittedAt, f.AfterSubmittedAt, f.AfterID)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var items []*model.Review
	return items, q.Order("submitted_at ASC, id ASC").Limit(f.Limit).Find(&items).Error
}

func (r *reviewRepo) Count(ctx context.Context, statuses []model.ReviewStatus) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&model.Review{}).Where("status IN ?", statuses).Count(&n).Error
}

func (r *reviewRepo) CountByStatus(ctx context.Context) (map[model.ReviewStatus]int64, error) {
	var rows []struct {
		Status model.ReviewStatus
		N      int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[model.ReviewStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

// ListByAsset returns the review history of an asset, newest first.
func (r *reviewRepo) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*model.Review, error) {
	var items []*model.Review
	return items, r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("submitted_at DESC, id DESC").
		Find(&items).Error
}
