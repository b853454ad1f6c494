package views

import (
	"context"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/session"
)

// ApplicationStore คือ data-access เดียวที่ view ใช้ (services.CourierApplicationService)
type ApplicationStore interface {
	GetOwn(ctx context.Context, identityID string) (*entity.CourierApplication, error)
	Create(ctx context.Context, draft services.ApplicationDraft) (*entity.CourierApplication, error)
	Update(ctx context.Context, identityID string, patch services.ApplicationPatch) (*entity.CourierApplication, error)
	ListAll(ctx context.Context) ([]services.ApplicationListing, error)
	SetStatus(ctx context.Context, applicationID string, status entity.ApplicationStatus, notes string) (*entity.CourierApplication, error)
	SubscribeToOwn(ctx context.Context, identityID string, onChange func(updated, previous entity.CourierApplication)) (func(), error)
}

// SessionProvider is satisfied by session.Store. View ต้องรู้เมื่อ identity เปลี่ยน
type SessionProvider interface {
	Principal() (services.Principal, bool)
	Context(ctx context.Context) context.Context
	Subscribe(fn func(session.Snapshot)) (dispose func())
}

type Translator interface {
	T(key string) string
}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Notifier interface {
	Notify(title, message string, severity Severity)
}
