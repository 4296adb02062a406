package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	PhotoURL string    `json:"photo_url,omitempty"`
	AuthType string    `json:"auth_type"` // email, google, github

	FoodItems []*FoodItem `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
