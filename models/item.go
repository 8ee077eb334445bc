package models

import "time"

// Item is the shared row shape of notes, reminders and drawings.
// Each variant lives in its own table; the table is chosen per query,
// so Item never maps to an "items" table of its own.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"userId"`
	Type      Variant   `gorm:"-" json:"type"`
	Title     string    `gorm:"not null;default:''" json:"title"`
	Content   string    `gorm:"not null;default:''" json:"content"`
	Date      *string   `json:"date,omitempty"`
	Image     *string   `gorm:"type:text" json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemFields carries optional field values. A nil pointer means "not set".
type ItemFields struct {
	Title   *string
	Content *string
	Date    *string
	Image   *string
}
