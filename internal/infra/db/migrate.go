package db

import (
	"fmt"

	"github.com/contenthub/contenthub/internal/modules/model"
	"gorm.io/gorm"
)

// openReviewIndex backs the one-open-review-per-asset rule. Both postgres and
// sqlite accept partial indexes with this syntax.
const openReviewIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_reviews_open_asset
	ON reviews (asset_id)
	WHERE status IN ('PENDING', 'IN_PROGRESS', 'CHANGES_REQUESTED')`

func Migrate(d *gorm.DB) error {
	if err := d.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Asset{},
		&model.Review{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := d.Exec(openReviewIndex).Error; err != nil {
		return fmt.Errorf("create open review index: %w", err)
	}
	return nil
}
