package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleContentManager Role = "CONTENT_MANAGER"
	RoleCreative       Role = "CREATIVE"
	RoleReviewer       Role = "REVIEWER"
	RoleUser           Role = "USER"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleContentManager, RoleCreative, RoleReviewer, RoleUser:
		return true
	}
	return false
}

// User is owned by the identity layer; this service only reads it.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name  string    `gorm:"type:text;not null;default:''" json:"name"`
	Role  Role      `gorm:"type:text;not null;default:'USER';check:role IN ('ADMIN','CONTENT_MANAGER','CREATIVE','REVIEWER','USER')" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
