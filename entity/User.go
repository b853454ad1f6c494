package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleApplicant = "applicant"
	RoleAdmin     = "admin"
)

// User คือ identity ที่ล็อกอินได้ (ผู้สมัคร หรือ admin)
// role เปลี่ยนได้เฉพาะนอก UI เท่านั้น (CLI promote / seed-admin)
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	Role      string    `gorm:"not null;default:applicant" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// preload เฉพาะตอนจำเป็น
	Application *CourierApplication `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleApplicant
	}
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
