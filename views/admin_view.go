package views

import (
	"context"
	"sync"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/session"
	"github.com/sirupsen/logrus"
)

// AdminView: รายการใบสมัครทั้งหมด + approve/reject
type AdminView struct {
	store   ApplicationStore
	session SessionProvider
	tr      Translator
	notify  Notifier
	log     *logrus.Entry

	mu        sync.Mutex
	items     []services.ApplicationListing
	inFlight  map[string]bool
	unsession func()
}

func NewAdminView(store ApplicationStore, session SessionProvider, tr Translator, notify Notifier, log *logrus.Logger) *AdminView {
	return &AdminView{
		store:    store,
		session:  session,
		tr:       tr,
		notify:   notify,
		log:      log.WithField("component", "admin_view"),
		inFlight: make(map[string]bool),
	}
}

func (v *AdminView) Items() []services.ApplicationListing {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]services.ApplicationListing, len(v.items))
	copy(out, v.items)
	return out
}

func (v *AdminView) Busy(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inFlight[id]
}

func (v *AdminView) admin() error {
	p, ok := v.session.Principal()
	if !ok || !p.IsAdmin() {
		v.notify.Notify(v.tr.T("error"), v.tr.T("admin.access.required"), SeverityError)
		return ErrAdminRequired
	}
	return nil
}

// Mount ผูก view กับ session แล้วโหลดรายการ; ไม่ใช่ admin แล้วรายการจะถูกล้าง
func (v *AdminView) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.unsession == nil {
		v.unsession = v.session.Subscribe(v.onSession)
	}
	v.mu.Unlock()
	return v.Load(ctx)
}

func (v *AdminView) Unmount() {
	v.mu.Lock()
	unsession := v.unsession
	v.unsession = nil
	v.mu.Unlock()
	if unsession != nil {
		unsession()
	}
}

func (v *AdminView) onSession(snap session.Snapshot) {
	if snap.IsAdmin() {
		return
	}
	v.mu.Lock()
	v.items = nil
	v.mu.Unlock()
	v.log.Info("admin identity gone, listing cleared")
}

// Load ดึงรายการทั้งหมด (ใหม่สุดก่อน)
func (v *AdminView) Load(ctx context.Context) error {
	if err := v.admin(); err != nil {
		return err
	}
	items, err := v.store.ListAll(v.session.Context(ctx))
	if err != nil {
		v.notify.Notify(v.tr.T("error"), err.Error(), SeverityError)
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	// session อาจ sign out ระหว่างรอ ListAll
	if p, ok := v.session.Principal(); !ok || !p.IsAdmin() {
		v.items = nil
		return ErrAdminRequired
	}
	v.items = items
	return nil
}

func (v *AdminView) Approve(ctx context.Context, id, notes string) error {
	return v.decide(ctx, id, entity.StatusApproved, notes)
}

func (v *AdminView) Reject(ctx context.Context, id, notes string) error {
	return v.decide(ctx, id, entity.StatusRejected, notes)
}

func (v *AdminView) decide(ctx context.Context, id string, status entity.ApplicationStatus, notes string) error {
	if err := v.admin(); err != nil {
		return err
	}

	v.mu.Lock()
	shown := v.find(id)
	switch {
	case shown == nil || shown.Status != entity.StatusPending:
		v.mu.Unlock()
		return ErrNotPending
	case v.inFlight[id]:
		v.mu.Unlock()
		return ErrDecisionInFlight
	}
	v.inFlight[id] = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.inFlight, id)
		v.mu.Unlock()
	}()

	if _, err := v.store.SetStatus(v.session.Context(ctx), id, status, notes); err != nil {
		v.notify.Notify(v.tr.T("error"), err.Error(), SeverityError)
		return err
	}
	v.log.WithFields(logrus.Fields{"applicationId": id, "status": status}).Info("decision recorded")
	v.notify.Notify(v.tr.T("success"), v.tr.T("application.reviewed"), SeveritySuccess)

	// อ่านใหม่ทั้งหมด ไม่ patch เอง
	return v.Load(ctx)
}

func (v *AdminView) find(id string) *services.ApplicationListing {
	for i := range v.items {
		if v.items[i].ID == id {
			return &v.items[i]
		}
	}
	return nil
}
