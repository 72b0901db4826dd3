package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Acronym represents a single acronym entry and its owner
type Acronym struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Short     string    `gorm:"size:100;not null" json:"short"`
	Long      string    `gorm:"size:255;not null" json:"long"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Categories []Category `gorm:"many2many:acronym_categories" json:"categories,omitempty"`
}

// TableName specifies the table name for Acronym model
func (Acronym) TableName() string {
	return "acronyms"
}

// AcronymCategory is the pivot row linking an acronym to a category.
// Deleting either parent removes the row at the database level.
type AcronymCategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AcronymID  uint      `gorm:"index;not null" json:"acronym_id"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`

	// Relations
	Acronym  Acronym  `gorm:"foreignKey:AcronymID;constraint:OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AcronymCategory model
func (AcronymCategory) TableName() string {
	return "acronym_categories"
}

// BeforeCreate assigns a UUID if one has not been set
func (p *AcronymCategory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
