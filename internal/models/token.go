package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Token is an opaque bearer credential bound to a user.
// Tokens do not expire and a new login does not revoke earlier ones.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Token model
func (Token) TableName() string {
	return "tokens"
}

// BeforeCreate assigns a UUID if one has not been set
func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
