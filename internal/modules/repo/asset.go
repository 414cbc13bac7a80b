package repo

import (
	"context"
	"fmt"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter columns that tracking events may increment.
const (
	CounterViews     = "view_count"
	CounterDownloads = "download_count"
)

type AssetRepo interface {
	Create(ctx context.Context, a *model.Asset, tagNames []string) error
	Get(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	// Update applies fields and, when tagNames is non-nil, replaces the tag set,
	// all in one transaction. check runs against the locked row first.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, tagNames []string, check func(a *model.Asset) error) (*model.Asset, error)
	IncrementCounter(ctx context.Context, id uuid.UUID, column string) error
}

type assetRepo struct{ db *gorm.DB }

func NewAssetRepo(db *gorm.DB) AssetRepo {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, a *model.Asset, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := ensureTags(tx, tagNames)
		if err != nil {
			return err
		}
		a.Tags = tags
		// tags already exist, only write the join rows
		return tx.Omit("Tags.*").Create(a).Error
	})
}

func (r *assetRepo) Get(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var a model.Asset
	if err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any, tagNames []string, check func(a *model.Asset) error) (*model.Asset, error) {
	var out model.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.Asset
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&a).Error; err != nil {
			return err
		}
		if check != nil {
			if err := check(&a); err != nil {
				return err
			}
		}

		if len(fields) > 0 {
			if err := tx.Model(&model.Asset{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return fmt.Errorf("update asset: %w", err)
			}
		}
		if tagNames != nil {
			tags, err := ensureTags(tx, tagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(&a).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("replace tags: %w", err)
			}
		}

		return tx.Preload("Tags").Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetRepo) IncrementCounter(ctx context.Context, id uuid.UUID, column string) error {
	if column != CounterViews && column != CounterDownloads {
		return fmt.Errorf("unknown counter %q", column)
	}
	res := r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ensureTags returns the tags named in names, creating missing ones.
func ensureTags(tx *gorm.DB, names []string) ([]model.Tag, error) {
	names = model.NormalizeTagNames(names)
	if len(names) == 0 {
		return []model.Tag{}, nil
	}

	candidates := make([]model.Tag, 0, len(names))
	for _, n := range names {
		candidates = append(candidates, model.Tag{Name: n})
	}
	if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&candidates).Error; err != nil {
		return nil, fmt.Errorf("create tags: %w", err)
	}

	var tags []model.Tag
	if err := tx.Where("name IN ?", names).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return tags, nil
}
