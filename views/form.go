package views

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
)

// ApplicationForm ใช้ทั้งสร้างใหม่และแก้ไข ขึ้นกับว่ามีใบสมัครเดิมหรือไม่
type ApplicationForm struct {
	store    ApplicationStore
	existing *entity.CourierApplication
	tr       Translator
	notify   Notifier
	inFlight atomic.Bool
}

func NewApplicationForm(store ApplicationStore, existing *entity.CourierApplication, tr Translator, notify Notifier) *ApplicationForm {
	return &ApplicationForm{store: store, existing: existing, tr: tr, notify: notify}
}

func (f *ApplicationForm) Existing() *entity.CourierApplication { return f.existing }

func (f *ApplicationForm) InFlight() bool { return f.inFlight.Load() }

// Initial คืนค่าเริ่มต้นของฟอร์ม (ว่าง หรือจากใบสมัครเดิม)
func (f *ApplicationForm) Initial() services.ApplicationDraft {
	if f.existing == nil {
		return services.ApplicationDraft{}
	}
	a := f.existing
	return services.ApplicationDraft{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		PhoneNumber:  a.PhoneNumber,
		Age:          a.Age,
		Gender:       a.Gender,
		VehicleType:  a.VehicleType,
		WorkingHours: a.WorkingHours,
	}
}

// Validate ตรวจก่อนส่ง: gender/vehicle ต้องเลือก, ช่องอื่นต้องกรอก, อายุ 18-70
func (f *ApplicationForm) Validate(d services.ApplicationDraft) error {
	return services.Validate(d)
}

// Submit: ไม่มีใบเดิม = Create, มี = Update
func (f *ApplicationForm) Submit(ctx context.Context, d services.ApplicationDraft) (*entity.CourierApplication, error) {
	if err := f.Validate(d); err != nil {
		f.notify.Notify(f.tr.T("error"), f.tr.T(validationKey(err)), SeverityError)
		return nil, err
	}
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer f.inFlight.Store(false)

	var (
		app *entity.CourierApplication
		err error
		key = "application.submitted"
	)
	if f.existing == nil {
		app, err = f.store.Create(ctx, d)
	} else {
		key = "application.updated"
		app, err = f.store.Update(ctx, f.existing.UserID, services.PatchFromDraft(d))
	}
	if err != nil {
		f.notify.Notify(f.tr.T("error"), f.message(err), SeverityError)
		return nil, err
	}

	f.existing = app
	f.notify.Notify(f.tr.T("success"), f.tr.T(key), SeveritySuccess)
	return app, nil
}

func (f *ApplicationForm) message(err error) string {
	var se *services.StoreError
	if errors.As(err, &se) && se.Kind == services.StoreConflict {
		if f.existing == nil {
			return f.tr.T("application.exists")
		}
		return f.tr.T("application.not.editable")
	}
	return err.Error()
}

// validationKey: ช่องว่าง/ไม่ได้เลือกมาก่อน อายุผิดช่วงอย่างเดียวค่อยบอกเรื่องอายุ
func validationKey(err error) string {
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		return "required.fields"
	}
	ageOnly := len(ve.Fields) > 0
	for _, fe := range ve.Fields {
		if fe.Rule != "gte" && fe.Rule != "lte" {
			ageOnly = false
		}
	}
	if ageOnly {
		return "age.out.of.range"
	}
	return "required.fields"
}
