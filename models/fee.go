package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeCategory names a kind of fee (Tuition, Transport, Library, ...).
type FeeCategory struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;unique"`
	Description string `json:"description"`
}

func (category *FeeCategory) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	category.Id = uuid.NewString()
	return
}

// FeeStructure is a catalog entry: the amount charged for one fee category in
// one grade. Owned by school administration; the payment flow only reads it.
type FeeStructure struct {
	Id            string      `json:"id" gorm:"primaryKey"`
	FeeCategoryID string      `json:"fee_category_id" gorm:"not null;index"`
	FeeCategory   FeeCategory `json:"fee_category" gorm:"foreignKey:FeeCategoryID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Grade         string      `json:"grade" gorm:"not null;index"`
	Amount        float64     `json:"amount" gorm:"type:numeric(12,2)"`
	Active        bool        `json:"is_active" gorm:"default:true;index"`
}

func (structure *FeeStructure) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	structure.Id = uuid.NewString()
	return
}

// CategoryName is safe on a structure loaded without its association.
func (structure *FeeStructure) CategoryName() string {
	if structure.FeeCategory.Name == "" {
		return "Unknown"
	}
	return structure.FeeCategory.Name
}
