package services

import (
	"context"
	"strings"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/metrics"
	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"github.com/sirupsen/logrus"
)

// ChangeFeed ส่ง/รับ event เมื่อใบสมัครถูกแก้ไข
type ChangeFeed interface {
	Publish(ctx context.Context, change entity.ApplicationChange) error
	Subscribe(userID string, fn func(updated, previous entity.CourierApplication)) (dispose func())
}

// ApplicationListing ใบสมัคร + email เจ้าของ (ใช้ในหน้า admin)
type ApplicationListing struct {
	entity.CourierApplication
	Email string `json:"email"`
}

type StatusStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func (s StatusStats) Total() int64 { return s.Pending + s.Approved + s.Rejected }

// CourierApplicationService is the single data-access point for applications.
// Access rules live here: an applicant touches only their own record, an admin any record.
type CourierApplicationService struct {
	Repo *repository.CourierApplicationRepository
	feed ChangeFeed
	now  func() time.Time
	log  *logrus.Entry
}

func NewCourierApplicationService(repo *repository.CourierApplicationRepository, feed ChangeFeed, log *logrus.Logger) *CourierApplicationService {
	return &CourierApplicationService{
		Repo: repo,
		feed: feed,
		now:  func() time.Time { return time.Now().UTC() },
		log:  log.WithField("component", "applications"),
	}
}

// WithClock ใช้ในเทสต์
func (s *CourierApplicationService) WithClock(now func() time.Time) *CourierApplicationService {
	s.now = now
	return s
}

func caller(ctx context.Context, op string) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Principal{}, &StoreError{Kind: StoreForbidden, Op: op, Msg: "not authenticated"}
	}
	return p, nil
}

// GetOwn คืนใบสมัครของ identity (ไม่มี = nil)
func (s *CourierApplicationService) GetOwn(ctx context.Context, identityID string) (*entity.CourierApplication, error) {
	const op = "getOwn"
	p, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	if p.UserID != identityID && !p.IsAdmin() {
		return nil, forbidden(op)
	}
	app, err := s.Repo.FindByUser(ctx, identityID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return app, nil
}

// Create ยื่นใบสมัครครั้งแรกของผู้เรียก สถานะเริ่มต้น pending
func (s *CourierApplicationService) Create(ctx context.Context, draft ApplicationDraft) (*entity.CourierApplication, error) {
	const op = "create"
	p, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := Validate(draft); err != nil {
		return nil, &StoreError{Kind: StoreInvalid, Op: op, Msg: err.Error(), Err: err}
	}

	count, err := s.Repo.CountByUser(ctx, p.UserID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if count > 0 {
		return nil, &StoreError{Kind: StoreConflict, Op: op, Msg: "application already submitted for this account"}
	}

	now := s.now()
	app := &entity.CourierApplication{
		UserID:       p.UserID,
		FirstName:    strings.TrimSpace(draft.FirstName),
		LastName:     strings.TrimSpace(draft.LastName),
		PhoneNumber:  strings.TrimSpace(draft.PhoneNumber),
		Age:          draft.Age,
		Gender:       draft.Gender,
		VehicleType:  draft.VehicleType,
		WorkingHours: strings.TrimSpace(draft.WorkingHours),
		Status:       entity.StatusPending,
		AppliedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return nil, storeErr(op, err)
	}

	metrics.ApplicationsSubmitted.Inc()
	s.log.WithFields(logrus.Fields{"applicationId": app.ID, "userId": p.UserID}).Info("application submitted")
	return app, nil
}

// Update แก้ไขใบสมัครของตัวเอง ได้เฉพาะตอน pending
func (s *CourierApplicationService) Update(ctx context.Context, identityID string, patch ApplicationPatch) (*entity.CourierApplication, error) {
	const op = "update"
	p, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	if p.UserID != identityID {
		return nil, forbidden(op)
	}
	if err := Validate(patch); err != nil {
		return nil, &StoreError{Kind: StoreInvalid, Op: op, Msg: err.Error(), Err: err}
	}
	fields := patch.columns()
	if len(fields) == 0 {
		return nil, &StoreError{Kind: StoreInvalid, Op: op, Msg: "nothing to update"}
	}

	prev, next, err := s.Repo.UpdateOwn(ctx, identityID, fields, s.now())
	if err != nil {
		return nil, storeErr(op, err)
	}
	s.publish(ctx, *next, *prev)
	return next, nil
}

// ListAll admin เท่านั้น ใหม่สุดก่อน
func (s *CourierApplicationService) ListAll(ctx context.Context) ([]ApplicationListing, error) {
	const op = "listAll"
	p, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, forbidden(op)
	}

	apps, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, storeErr(op, err)
	}
	out := make([]ApplicationListing, 0, len(apps))
	for _, a := range apps {
		item := ApplicationListing{CourierApplication: a}
		if a.User != nil {
			item.Email = a.User.Email
		}
		item.User = nil
		out = append(out, item)
	}
	return out, nil
}

// SetStatus admin อนุมัติ/ปฏิเสธ พร้อม notes (ว่าง = ไม่มี notes)
func (s *CourierApplicationService) SetStatus(ctx context.Context, applicationID string, status entity.ApplicationStatus, notes string) (*entity.CourierApplication, error) {
	const op = "setStatus"
	p, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, forbidden(op)
	}
	if !status.Decided() {
		return nil, &StoreError{Kind: StoreInvalid, Op: op, Msg: "status must be approved or rejected"}
	}

	var notesPtr *string
	if n := strings.TrimSpace(notes); n != "" {
		notesPtr = &n
	}
	prev, next, err := s.Repo.SetStatus(ctx, applicationID, status, notesPtr, p.UserID, s.now())
	if err != nil {
		return nil, storeErr(op, err)
	}

	metrics.Decisions.WithLabelValues(string(status)).Inc()
	s.log.WithFields(logrus.Fields{
		"applicationId": applicationID,
		"adminId":       p.UserID,
		"from":          prev.Status,
		"to":            next.Status,
	}).Info("application reviewed")
	s.publish(ctx, *next, *prev)
	return next, nil
}

// SubscribeToOwn ลงทะเบียนรับ event ของใบสมัครตัวเอง ต้องเรียก dispose ตอนเลิกใช้
func (s *CourierApplicationService) SubscribeToOwn(ctx context.Context, identityID string, onChange func(updated, previous entity.CourierApplication)) (func(), error) {
	const op = "subscribeToOwn"
	p, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	if p.UserID != identityID && !p.IsAdmin() {
		return nil, forbidden(op)
	}
	if s.feed == nil {
		return nil, &StoreError{Kind: StoreUnavailable, Op: op, Msg: "change feed is not configured"}
	}
	return s.feed.Subscribe(identityID, onChange), nil
}

// Stats จำนวนใบสมัครแยกตามสถานะ (admin)
func (s *CourierApplicationService) Stats(ctx context.Context) (StatusStats, error) {
	const op = "stats"
	p, err := caller(ctx, op)
	if err != nil {
		return StatusStats{}, err
	}
	if !p.IsAdmin() {
		return StatusStats{}, forbidden(op)
	}
	rows, err := s.Repo.CountByStatus(ctx)
	if err != nil {
		return StatusStats{}, storeErr(op, err)
	}
	var st StatusStats
	for _, r := range rows {
		switch r.Status {
		case entity.StatusPending:
			st.Pending = r.Total
		case entity.StatusApproved:
			st.Approved = r.Total
		case entity.StatusRejected:
			st.Rejected = r.Total
		}
	}
	return st, nil
}

// publish: write สำเร็จแล้ว ถ้าส่ง event ไม่ได้ให้ log ไว้เฉย ๆ
func (s *CourierApplicationService) publish(ctx context.Context, updated, previous entity.CourierApplication) {
	if s.feed == nil {
		return
	}
	change := entity.ApplicationChange{New: updated, Old: previous}
	if err := s.feed.Publish(ctx, change); err != nil {
		s.log.WithError(err).WithField("applicationId", updated.ID).Warn("publish change failed")
	}
}
