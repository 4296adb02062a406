package entities

import (
	"github.com/google/uuid"
	"time"
)

// Note is append-only; rows are never updated.
type Note struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FoodItemID uuid.UUID `gorm:"type:uuid;index;not null" json:"food_item_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	PostedAt   time.Time `gorm:"not null" json:"posted_at"`
}
