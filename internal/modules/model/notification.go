package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationAssetApproved          NotificationType = "ASSET_APPROVED"
	NotificationAssetRejected          NotificationType = "ASSET_REJECTED"
	NotificationReviewChangesRequested NotificationType = "REVIEW_CHANGES_REQUESTED"
)

// Notification is the in-app copy of a message delivered to a user.
type Notification struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	Type      NotificationType  `gorm:"type:text;not null" json:"type"`
	Title     string            `gorm:"type:text;not null" json:"title"`
	Message   string            `gorm:"type:text;not null;default:''" json:"message"`
	ActionURL string            `gorm:"column:action_url;type:text;not null;default:''" json:"action_url"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"metadata"`

	// EventID is the dispatcher's idempotency key; redelivered events are stored once.
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`

	Read   bool       `gorm:"not null;default:false" json:"read"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP;index:idx_notifications_user_created,priority:2,sort:desc" json:"created_at"`

	// Notification <-> User
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
