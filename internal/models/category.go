package models

import "time"

// Category tags acronyms. Names are globally unique; categories are
// created on first reference and never deleted.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Acronyms []Acronym `gorm:"many2many:acronym_categories" json:"acronyms,omitempty"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}
