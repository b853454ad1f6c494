package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/i18n"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/testdb"
	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/session"
	"github.com/IrakliAvdulaj/trek-fleet-apply/ws"
	"github.com/stretchr/testify/require"
)

type notice struct {
	Title    string
	Message  string
	Severity Severity
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []notice
}

func (n *recordingNotifier) Notify(title, message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, notice{title, message, severity})
}

func (n *recordingNotifier) all() []notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notice(nil), n.got...)
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	n.got = nil
	n.mu.Unlock()
}

// env: service จริง + hub จริง + session ของผู้สมัครและ admin
type env struct {
	store   *services.CourierApplicationService
	tr      i18n.Translator
	ana     *session.Store
	admin   *session.Store
	anaNote *recordingNotifier
	admNote *recordingNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.Open(t)
	log := testdb.Logger()

	testdb.User(t, db, "ana@example.com", "secret1", entity.RoleApplicant)
	testdb.User(t, db, "admin@example.com", "secret1", entity.RoleAdmin)

	auth := services.NewAuthService(repository.NewUserRepository(db), services.NewMemoryRevoker(), services.AuthOptions{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}, log)
	store := services.NewCourierApplicationService(repository.NewCourierApplicationRepository(db), ws.NewApplicationHub(log), log)

	e := &env{
		store:   store,
		tr:      i18n.MustLoad().Translator(i18n.English),
		ana:     session.NewStore(auth, nil, log),
		admin:   session.NewStore(auth, nil, log),
		anaNote: &recordingNotifier{},
		admNote: &recordingNotifier{},
	}
	ctx := context.Background()
	require.NoError(t, e.ana.SignIn(ctx, "ana@example.com", "secret1"))
	require.NoError(t, e.admin.SignIn(ctx, "admin@example.com", "secret1"))
	return e
}

func (e *env) applicantView() *ApplicantView {
	return NewApplicantView(e.store, e.ana, e.tr, e.anaNote, testdb.Logger())
}

func (e *env) adminView() *AdminView {
	return NewAdminView(e.store, e.admin, e.tr, e.admNote, testdb.Logger())
}

func anaDraft() services.ApplicationDraft {
	return services.ApplicationDraft{
		FirstName:    "Ana",
		LastName:     "Krasniqi",
		PhoneNumber:  "+383 44 123 456",
		Age:          24,
		Gender:       entity.GenderFemale,
		VehicleType:  entity.VehicleScooter,
		WorkingHours: "Mon-Fri 9-17",
	}
}
