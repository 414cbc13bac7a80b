package repo

import (
	"context"
	"time"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepo interface {
	// Create stores n once per EventID. It reports false when the event was
	// already stored.
	Create(ctx context.Context, n *model.Notification) (bool, error)
	ListByUserWithCursor(ctx context.Context, userID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByUserWithCursor returns the newest notifications first. A zero
// afterCreatedAt starts from the top.
func (r *notificationRepo) ListByUserWithCursor(ctx context.Context, userID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]*model.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if !afterCreatedAt.IsZero() && afterID != uuid.Nil {
		// Newest first: next page is strictly older than the cursor.
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", afterCreatedAt, afterCreatedAt, afterID)
	}

	var items []*model.Notification
	return items, q.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
			return err
		}
		if n.Read {
			return nil
		}
		now := time.Now().UTC()
		if err := tx.Model(&n).Updates(map[string]any{"read": true, "read_at": now}).Error; err != nil {
			return err
		}
		n.Read = true
		n.ReadAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
}
