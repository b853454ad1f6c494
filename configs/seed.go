package configs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin สร้าง admin ครั้งแรกจาก ADMIN_EMAIL/ADMIN_PASSWORD
func SeedAdmin(db *gorm.DB, cfg *Config, log *logrus.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		log.Warn("⚠️ skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.WithField("email", email).Info("ℹ️ admin already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := entity.User{
		Email:    email,
		Password: string(hash),
		Role:     entity.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.WithField("email", email).Info("✅ admin seeded")
	return nil
}

// PromoteUser เปลี่ยน role ของ user ที่มีอยู่แล้ว (out-of-band เท่านั้น ไม่มีทางทำผ่าน API)
func PromoteUser(db *gorm.DB, email, role string) (*entity.User, error) {
	if role != entity.RoleAdmin && role != entity.RoleApplicant {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	var u entity.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s not found", email)
	}
	if err != nil {
		return nil, err
	}
	if err := db.Model(&u).Update("role", role).Error; err != nil {
		return nil, err
	}
	u.Role = role
	return &u, nil
}
