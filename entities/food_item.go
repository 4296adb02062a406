package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FoodItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	TitleSearch string    `gorm:"not null;default:''" json:"-"`
	Category    string    `gorm:"index;not null" json:"category"`
	Quantity    string    `json:"quantity"`
	ExpiryDate  time.Time `gorm:"index;not null" json:"expiry_date"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`

	User  *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Notes []*Note `gorm:"foreignKey:FoodItemID" json:"notes,omitempty"`
	Timestamp
}

// BeforeSave keeps TitleSearch, the Unicode-folded title matched by search, in step with Title.
func (f *FoodItem) BeforeSave(_ *gorm.DB) error {
	f.TitleSearch = FoldTitle(f.Title)
	return nil
}

func FoldTitle(title string) string {
	return strings.ToLower(title)
}
