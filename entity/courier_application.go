// entity/courier_application.go
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinApplicantAge = 18
	MaxApplicantAge = 70
)

// ใบสมัคร courier: 1 user มีได้ไม่เกิน 1 ใบ (unique index บน user_id)
type CourierApplication struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// ใครยื่น
	UserID string `gorm:"uniqueIndex;not null;type:varchar(36)" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID;references:ID" json:"-"`

	FirstName    string      `gorm:"not null" json:"firstName"`
	LastName     string      `gorm:"not null" json:"lastName"`
	PhoneNumber  string      `gorm:"not null" json:"phoneNumber"`
	Age          int         `gorm:"not null" json:"age"`
	Gender       Gender      `gorm:"type:varchar(32);not null" json:"gender"`
	VehicleType  VehicleType `gorm:"type:varchar(32);not null" json:"vehicleType"`
	WorkingHours string      `gorm:"type:text;not null" json:"workingHours"`

	// สถานะ: pending / approved / rejected
	Status     ApplicationStatus `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	AdminNotes *string           `gorm:"type:text" json:"adminNotes,omitempty"`
	ApprovedBy *string           `gorm:"type:varchar(36)" json:"approvedBy,omitempty"`

	AppliedAt time.Time `gorm:"not null;index" json:"appliedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *CourierApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// Editable: ผู้สมัครแก้ไขได้เฉพาะตอน pending
func (a *CourierApplication) Editable() bool { return a.Status == StatusPending }

func (a *CourierApplication) Notes() string {
	if a.AdminNotes == nil {
		return ""
	}
	return *a.AdminNotes
}
