// Package testdb opens throwaway sqlite databases for tests.
package testdb

import (
	"io"
	"testing"

	"github.com/IrakliAvdulaj/trek-fleet-apply/configs"
	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open คืน DB ในหน่วยความจำที่ migrate แล้ว ปิดเองตอนจบเทสต์
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// memory DB อยู่กับ connection เดียว
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, configs.SetupDatabase(db))
	return db
}

func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// User สร้างบัญชีพร้อมรหัสผ่าน (bcrypt cost ต่ำสุดเพื่อความเร็ว)
func User(t testing.TB, db *gorm.DB, email, password, role string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Email: email, Password: string(hash), Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}
