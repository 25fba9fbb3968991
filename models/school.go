package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// School is the tenant root (public schema). Each school gets its own
// Postgres schema holding students, fees, demands, payments and receipts.
type School struct {
	Id          string         `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null;unique"`
	Address     datatypes.JSON `json:"address" gorm:"type:jsonb"` // {street, city, state, country, postal_code}
	PhoneNumber string         `json:"phone_number"`
	Email       string         `json:"email" gorm:"unique;not null"`
	LogoURL     string         `json:"logo_url"`
	UserId      string         `json:"-"`
	User        User           `json:"user" gorm:"foreignKey:UserId;references:Id"`
	SchemaName  string         `json:"-" gorm:"unique;not null"`
}

func (school *School) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	school.Id = uuid.NewString()
	return
}
