package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	Id          string     `json:"id" gorm:"primaryKey"`
	FullName    string     `json:"full_name" gorm:"not null;index"`
	AdmissionNo string     `json:"admission_no" gorm:"not null;unique"`
	Grade       string     `json:"grade" gorm:"not null;index"`
	Section     string     `json:"section"`
	Active      bool       `json:"-" gorm:"default:true"`
	Guardians   []Guardian `json:"guardians" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (student *Student) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	student.Id = uuid.NewString()
	return
}

// Guardian is a parent/guardian linked to one student. The receipt uses the
// first linked guardian, if any.
type Guardian struct {
	Id        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"-" gorm:"index;not null"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (guardian *Guardian) FullName() string {
	if guardian.LastName == "" {
		return guardian.FirstName
	}
	return guardian.FirstName + " " + guardian.LastName
}
