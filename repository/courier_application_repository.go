// repository/courier_application_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"gorm.io/gorm"
)

type CourierApplicationRepository struct{ DB *gorm.DB }

func NewCourierApplicationRepository(db *gorm.DB) *CourierApplicationRepository {
	return &CourierApplicationRepository{DB: db}
}

// StatusCount: จำนวนใบสมัครแยกตามสถานะ
type StatusCount struct {
	Status entity.ApplicationStatus
	Total  int64
}

// ผู้ใช้ยื่นสมัคร
func (r *CourierApplicationRepository) Create(ctx context.Context, app *entity.CourierApplication) error {
	return r.DB.WithContext(ctx).Omit("User").Create(app).Error
}

// ใบสมัครของ user (ไม่มี = nil, nil)
func (r *CourierApplicationRepository) FindByUser(ctx context.Context, userID string) (*entity.CourierApplication, error) {
	var app entity.CourierApplication
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Take(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *CourierApplicationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&entity.CourierApplication{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// แอดมินดูทั้งหมด ใหม่สุดก่อน (preload email ของผู้สมัคร)
func (r *CourierApplicationRepository) FindAll(ctx context.Context) ([]entity.CourierApplication, error) {
	var apps []entity.CourierApplication
	err := r.DB.WithContext(ctx).
		Preload("User").
		Order("applied_at DESC").
		Order("id DESC").
		Find(&apps).Error
	return apps, err
}

func (r *CourierApplicationRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.DB.WithContext(ctx).
		Model(&entity.CourierApplication{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&out).Error
	return out, err
}

// UpdateOwn แก้ไขฟิลด์ของผู้สมัคร เฉพาะตอนยัง pending; คืนค่า (ก่อน, หลัง)
func (r *CourierApplicationRepository) UpdateOwn(ctx context.Context, userID string, fields map[string]any, now time.Time) (prev, next *entity.CourierApplication, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before entity.CourierApplication
		if err := tx.Where("user_id = ?", userID).Take(&before).Error; err != nil {
			return err
		}
		if !before.Editable() {
			return ErrNotEditable
		}

		fields["updated_at"] = now
		res := tx.Model(&entity.CourierApplication{}).
			Where("id = ? AND status = ?", before.ID, entity.StatusPending).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotEditable
		}

		var after entity.CourierApplication
		if err := tx.Where("id = ?", before.ID).Take(&after).Error; err != nil {
			return err
		}
		prev, next = &before, &after
		return nil
	})
	return prev, next, err
}

// SetStatus: อนุมัติ/ปฏิเสธ เขียน status + notes + approved_by ใน UPDATE เดียว
func (r *CourierApplicationRepository) SetStatus(ctx context.Context, id string, status entity.ApplicationStatus, notes *string, adminID string, now time.Time) (prev, next *entity.CourierApplication, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before entity.CourierApplication
		if err := tx.Where("id = ?", id).Take(&before).Error; err != nil {
			return err
		}
		if !before.Status.CanTransition(status) {
			return &TransitionError{From: before.Status, To: status}
		}

		if err := tx.Model(&entity.CourierApplication{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":      status,
				"admin_notes": notes,
				"approved_by": adminID,
				"updated_at":  now,
			}).Error; err != nil {
			return err
		}

		var after entity.CourierApplication
		if err := tx.Where("id = ?", id).Take(&after).Error; err != nil {
			return err
		}
		prev, next = &before, &after
		return nil
	})
	return prev, next, err
}
