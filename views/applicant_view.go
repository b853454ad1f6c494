package views

import (
	"context"
	"sync"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/session"
	"github.com/sirupsen/logrus"
)

type ViewState string

const (
	StateLoading       ViewState = "loading"
	StateNoApplication ViewState = "no_application"
	StateEditing       ViewState = "editing"
	StateViewing       ViewState = "viewing"
)

// ApplicantView: หน้าของผู้สมัคร แสดงใบสมัครตัวเอง หรือฟอร์มถ้ายังไม่มี
// never hold mu while calling the store: updates echo back through onChange.
type ApplicantView struct {
	store   ApplicationStore
	session SessionProvider
	tr      Translator
	notify  Notifier
	log     *logrus.Entry

	mu        sync.Mutex
	owner     string // UserID ที่ mount อยู่ ("" = ไม่ได้ mount)
	state     ViewState
	record    *entity.CourierApplication
	form      *ApplicationForm
	dispose   func()
	unsession func()
}

func NewApplicantView(store ApplicationStore, session SessionProvider, tr Translator, notify Notifier, log *logrus.Logger) *ApplicantView {
	return &ApplicantView{
		store:   store,
		session: session,
		tr:      tr,
		notify:  notify,
		log:     log.WithField("component", "applicant_view"),
		state:   StateLoading,
	}
}

func (v *ApplicantView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Record คืนสำเนาใบสมัครที่แสดงอยู่ (nil = ไม่มี)
func (v *ApplicantView) Record() *entity.CourierApplication {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.record == nil {
		return nil
	}
	cp := *v.record
	return &cp
}

func (v *ApplicantView) Form() *ApplicationForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// CanEdit: เสนอให้แก้ไขได้เฉพาะตอนดูใบที่ยัง pending
func (v *ApplicantView) CanEdit() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state == StateViewing && v.record != nil && v.record.Editable()
}

// Mount สมัครรับการเปลี่ยนแปลงแล้วโหลดใบสมัครของตัวเอง
// view ผูกกับ identity ตอน mount: sign out หรือเปลี่ยน user แล้ว view จะ reset
func (v *ApplicantView) Mount(ctx context.Context) error {
	p, ok := v.session.Principal()
	if !ok {
		v.notify.Notify(v.tr.T("error"), v.tr.T("login.required"), SeverityError)
		return ErrNotSignedIn
	}

	v.mu.Lock()
	v.owner = p.UserID
	if v.unsession == nil {
		v.unsession = v.session.Subscribe(v.onSession)
	}
	v.mu.Unlock()

	sctx := v.session.Context(ctx)
	dispose, err := v.store.SubscribeToOwn(sctx, p.UserID, v.onChange)
	if err != nil {
		v.notify.Notify(v.tr.T("error"), err.Error(), SeverityError)
		return err
	}

	app, err := v.store.GetOwn(sctx, p.UserID)
	if err != nil {
		dispose()
		v.notify.Notify(v.tr.T("error"), err.Error(), SeverityError)
		return err
	}

	v.mu.Lock()
	if v.owner != p.UserID {
		// sign out ระหว่างโหลด
		v.mu.Unlock()
		dispose()
		return ErrNotSignedIn
	}
	prev := v.dispose
	v.dispose = dispose
	if v.state == StateLoading {
		if app == nil && v.record == nil {
			v.state = StateNoApplication
		} else {
			if app != nil {
				v.record = app
			}
			v.state = StateViewing
		}
	}
	v.mu.Unlock()
	if prev != nil {
		prev()
	}
	return nil
}

// Unmount ยกเลิก subscription ทั้งหมด (เรียกซ้ำได้)
func (v *ApplicantView) Unmount() {
	v.mu.Lock()
	dispose, unsession := v.dispose, v.unsession
	v.dispose, v.unsession = nil, nil
	v.owner = ""
	v.mu.Unlock()
	if dispose != nil {
		dispose()
	}
	if unsession != nil {
		unsession()
	}
}

func (v *ApplicantView) onSession(snap session.Snapshot) {
	v.mu.Lock()
	if v.owner == "" || (snap.Identity != nil && snap.Identity.UserID == v.owner) {
		v.mu.Unlock()
		return
	}
	owner := v.owner
	dispose := v.dispose
	v.owner = ""
	v.dispose = nil
	v.record = nil
	v.form = nil
	v.state = StateLoading
	v.mu.Unlock()

	if dispose != nil {
		dispose()
	}
	v.log.WithField("userId", owner).Info("identity changed, applicant view reset")
}

// StartApplication: no_application -> editing
func (v *ApplicantView) StartApplication() (*ApplicationForm, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateNoApplication {
		return nil, ErrInvalidState
	}
	v.form = NewApplicationForm(v.store, nil, v.tr, v.notify)
	v.state = StateEditing
	return v.form, nil
}

// StartEdit: viewing -> editing เฉพาะตอน pending
func (v *ApplicantView) StartEdit() (*ApplicationForm, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateViewing || v.record == nil {
		return nil, ErrInvalidState
	}
	if !v.record.Editable() {
		return nil, ErrNotPending
	}
	cp := *v.record
	v.form = NewApplicationForm(v.store, &cp, v.tr, v.notify)
	v.state = StateEditing
	return v.form, nil
}

// CancelEdit ปิดฟอร์ม กลับไปสถานะก่อนหน้า
func (v *ApplicantView) CancelEdit() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateEditing {
		return ErrInvalidState
	}
	if f := v.form; f != nil && f.InFlight() {
		return ErrSubmissionInFlight
	}
	v.form = nil
	if v.record == nil {
		v.state = StateNoApplication
	} else {
		v.state = StateViewing
	}
	return nil
}

// Submit ส่งฟอร์ม สำเร็จแล้ว editing -> viewing
func (v *ApplicantView) Submit(ctx context.Context, d services.ApplicationDraft) error {
	v.mu.Lock()
	form := v.form
	editing := v.state == StateEditing
	v.mu.Unlock()
	if !editing || form == nil {
		return ErrInvalidState
	}

	app, err := form.Submit(v.session.Context(ctx), d)
	if err != nil {
		return err
	}

	v.mu.Lock()
	// push ที่เปลี่ยนสถานะระหว่างส่งอาจปิดฟอร์มไปแล้ว
	if v.form == form {
		v.record = app
		v.form = nil
		v.state = StateViewing
	}
	v.mu.Unlock()
	return nil
}

func (v *ApplicantView) onChange(updated, previous entity.CourierApplication) {
	statusChanged := updated.Status != previous.Status

	v.mu.Lock()
	if v.owner == "" || updated.UserID != v.owner {
		v.mu.Unlock()
		return
	}
	state := v.state
	rec := updated
	v.record = &rec
	switch state {
	case StateEditing:
		if statusChanged {
			// last writer wins: ค่าใหม่จาก push ทับฟอร์มที่ค้างอยู่
			v.form = nil
			v.state = StateViewing
		}
	case StateNoApplication:
		v.state = StateViewing
	}
	v.mu.Unlock()

	if !statusChanged {
		return
	}
	v.log.WithFields(logrus.Fields{"applicationId": updated.ID, "status": updated.Status}).Info("application status changed")

	if state == StateEditing {
		v.notify.Notify(v.tr.T("warning"), v.tr.T("application.changed.while.editing"), SeverityWarning)
	}
	switch updated.Status {
	case entity.StatusApproved:
		v.notify.Notify(v.tr.T("success"), v.tr.T("application.approved"), SeveritySuccess)
	case entity.StatusRejected:
		v.notify.Notify(v.tr.T("error"), v.tr.T("application.rejected"), SeverityError)
	}
}
