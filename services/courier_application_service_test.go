package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/testdb"
	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFeed เก็บ change ไว้ตรวจ และส่งต่อให้ subscriber แบบ synchronous
type recordingFeed struct {
	changes []entity.ApplicationChange
	subs    map[string][]func(updated, previous entity.CourierApplication)
	err     error
}

func newRecordingFeed() *recordingFeed {
	return &recordingFeed{subs: map[string][]func(updated, previous entity.CourierApplication){}}
}

func (f *recordingFeed) Publish(_ context.Context, c entity.ApplicationChange) error {
	f.changes = append(f.changes, c)
	for _, fn := range f.subs[c.New.UserID] {
		fn(c.New, c.Old)
	}
	return f.err
}

func (f *recordingFeed) Subscribe(userID string, fn func(updated, previous entity.CourierApplication)) func() {
	f.subs[userID] = append(f.subs[userID], fn)
	return func() { f.subs[userID] = nil }
}

type fixture struct {
	svc   *CourierApplicationService
	feed  *recordingFeed
	clock time.Time
	ana   *entity.User
	admin *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	f := &fixture{
		feed:  newRecordingFeed(),
		clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		ana:   testdb.User(t, db, "ana@example.com", "secret1", entity.RoleApplicant),
		admin: testdb.User(t, db, "admin@example.com", "secret1", entity.RoleAdmin),
	}
	f.svc = NewCourierApplicationService(repository.NewCourierApplicationRepository(db), f.feed, testdb.Logger()).
		WithClock(func() time.Time { return f.clock })
	return f
}

func (f *fixture) as(u *entity.User) context.Context {
	return WithPrincipal(context.Background(), PrincipalOf(u))
}

func anaDraft() ApplicationDraft {
	return ApplicationDraft{
		FirstName:    "Ana",
		LastName:     "Krasniqi",
		PhoneNumber:  "+383 44 123 456",
		Age:          24,
		Gender:       entity.GenderFemale,
		VehicleType:  entity.VehicleScooter,
		WorkingHours: "Mon-Fri 9-17",
	}
}

func TestCreateThenGetOwnIsPending(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.ana)

	created, err := f.svc.Create(ctx, anaDraft())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := f.svc.GetOwn(ctx, f.ana.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.True(t, got.AppliedAt.Equal(f.clock), "applied at %s", got.AppliedAt)
	assert.Equal(t, f.ana.ID, got.UserID)
	assert.Nil(t, got.AdminNotes)
	assert.Empty(t, f.feed.changes, "insert must not publish")
}

func TestGetOwnWithoutApplicationReturnsNil(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.GetOwn(f.as(f.ana), f.ana.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetOwnOfSomeoneElseIsForbidden(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetOwn(f.as(f.ana), f.admin.ID)
	assert.True(t, IsStoreKind(err, StoreForbidden))

	// admin อ่านของใครก็ได้
	_, err = f.svc.GetOwn(f.as(f.admin), f.ana.ID)
	assert.NoError(t, err)
}

func TestCreateTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.ana)
	_, err := f.svc.Create(ctx, anaDraft())
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, anaDraft())
	require.Error(t, err)
	assert.True(t, IsStoreKind(err, StoreConflict))
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	f := newFixture(t)
	d := anaDraft()
	d.Age = 17
	d.Gender = ""

	_, err := f.svc.Create(f.as(f.ana), d)
	require.Error(t, err)
	assert.True(t, IsStoreKind(err, StoreInvalid))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]bool{}
	for _, fe := range ve.Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["age"])
	assert.True(t, fields["gender"])
}

func TestCreateRequiresPrincipal(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), anaDraft())
	assert.True(t, IsStoreKind(err, StoreForbidden))
}

func TestUpdateOwnPublishesChange(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.ana)
	_, err := f.svc.Create(ctx, anaDraft())
	require.NoError(t, err)

	f.clock = f.clock.Add(time.Hour)
	hours := "Weekends"
	updated, err := f.svc.Update(ctx, f.ana.ID, ApplicationPatch{WorkingHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, "Weekends", updated.WorkingHours)
	assert.Equal(t, "Ana", updated.FirstName)

	require.Len(t, f.feed.changes, 1)
	c := f.feed.changes[0]
	assert.Equal(t, "Mon-Fri 9-17", c.Old.WorkingHours)
	assert.Equal(t, "Weekends", c.New.WorkingHours)
	assert.False(t, c.StatusChanged())
}

func TestUpdateOtherIdentityIsForbidden(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)

	hours := "never"
	_, err = f.svc.Update(f.as(f.admin), f.ana.ID, ApplicationPatch{WorkingHours: &hours})
	assert.True(t, IsStoreKind(err, StoreForbidden))
}

func TestUpdateAfterDecisionConflicts(t *testing.T) {
	f := newFixture(t)
	app, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)
	_, err = f.svc.SetStatus(f.as(f.admin), app.ID, entity.StatusRejected, "")
	require.NoError(t, err)

	age := 30
	_, err = f.svc.Update(f.as(f.ana), f.ana.ID, ApplicationPatch{Age: &age})
	assert.True(t, IsStoreKind(err, StoreConflict))
}

func TestUpdateRevalidatesAge(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)

	age := 71
	_, err = f.svc.Update(f.as(f.ana), f.ana.ID, ApplicationPatch{Age: &age})
	assert.True(t, IsStoreKind(err, StoreInvalid))
}

func TestSetStatusIsLastWriteWins(t *testing.T) {
	f := newFixture(t)
	app, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)
	admin := f.as(f.admin)

	_, err = f.svc.SetStatus(admin, app.ID, entity.StatusApproved, "first")
	require.NoError(t, err)
	got, err := f.svc.SetStatus(admin, app.ID, entity.StatusApproved, "second")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusApproved, got.Status)
	assert.Equal(t, "second", got.Notes())
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, f.admin.ID, *got.ApprovedBy)
}

func TestSetStatusCannotFlipDecision(t *testing.T) {
	f := newFixture(t)
	app, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)
	admin := f.as(f.admin)

	_, err = f.svc.SetStatus(admin, app.ID, entity.StatusApproved, "")
	require.NoError(t, err)
	_, err = f.svc.SetStatus(admin, app.ID, entity.StatusRejected, "")
	assert.True(t, IsStoreKind(err, StoreInvalidTransition))

	_, err = f.svc.SetStatus(admin, app.ID, entity.StatusPending, "")
	assert.True(t, IsStoreKind(err, StoreInvalid))
}

func TestSetStatusRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	app, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)

	_, err = f.svc.SetStatus(f.as(f.ana), app.ID, entity.StatusApproved, "")
	assert.True(t, IsStoreKind(err, StoreForbidden))

	_, err = f.svc.SetStatus(f.as(f.admin), "missing", entity.StatusApproved, "")
	assert.True(t, IsStoreKind(err, StoreNotFound))
}

func TestListAllNewestFirstWithEmail(t *testing.T) {
	f := newFixture(t)
	db := f.svc.Repo.DB
	users := []*entity.User{
		f.ana,
		testdb.User(t, db, "b@example.com", "secret1", entity.RoleApplicant),
		testdb.User(t, db, "c@example.com", "secret1", entity.RoleApplicant),
	}
	for i, u := range users {
		f.clock = time.Date(2024, 3, 1+i, 9, 0, 0, 0, time.UTC)
		_, err := f.svc.Create(f.as(u), anaDraft())
		require.NoError(t, err)
	}

	items, err := f.svc.ListAll(f.as(f.admin))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c@example.com", items[0].Email)
	assert.Equal(t, "b@example.com", items[1].Email)
	assert.Equal(t, "ana@example.com", items[2].Email)

	_, err = f.svc.ListAll(f.as(f.ana))
	assert.True(t, IsStoreKind(err, StoreForbidden))
}

func TestSubscribeToOwnGetsOneEventPerDecision(t *testing.T) {
	f := newFixture(t)
	app, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)

	var got []entity.CourierApplication
	dispose, err := f.svc.SubscribeToOwn(f.as(f.ana), f.ana.ID, func(updated, _ entity.CourierApplication) {
		got = append(got, updated)
	})
	require.NoError(t, err)
	defer dispose()

	_, err = f.svc.SetStatus(f.as(f.admin), app.ID, entity.StatusApproved, "Welcome aboard")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, entity.StatusApproved, got[0].Status)
	assert.Equal(t, "Welcome aboard", got[0].Notes())
}

func TestSubscribeToOwnOfOtherIsForbidden(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SubscribeToOwn(f.as(f.ana), f.admin.ID, func(_, _ entity.CourierApplication) {})
	assert.True(t, IsStoreKind(err, StoreForbidden))
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.feed.err = errors.New("redis down")
	app, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)

	got, err := f.svc.SetStatus(f.as(f.admin), app.ID, entity.StatusRejected, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, got.Status)
}

func TestStatsCountsPerStatus(t *testing.T) {
	f := newFixture(t)
	db := f.svc.Repo.DB
	b := testdb.User(t, db, "b@example.com", "secret1", entity.RoleApplicant)

	a1, err := f.svc.Create(f.as(f.ana), anaDraft())
	require.NoError(t, err)
	_, err = f.svc.Create(f.as(b), anaDraft())
	require.NoError(t, err)
	_, err = f.svc.SetStatus(f.as(f.admin), a1.ID, entity.StatusApproved, "")
	require.NoError(t, err)

	st, err := f.svc.Stats(f.as(f.admin))
	require.NoError(t, err)
	assert.Equal(t, StatusStats{Pending: 1, Approved: 1}, st)
	assert.EqualValues(t, 2, st.Total())
}

func TestCreateRejectsWhitespaceOnlyFields(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.ana)
	d := anaDraft()
	d.FirstName = "   "
	d.WorkingHours = "  "

	_, err := f.svc.Create(ctx, d)
	require.Error(t, err)
	assert.True(t, IsStoreKind(err, StoreInvalid))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	rules := map[string]string{}
	for _, fe := range ve.Fields {
		rules[fe.Field] = fe.Rule
	}
	assert.Equal(t, map[string]string{"firstName": "notblank", "workingHours": "notblank"}, rules)

	got, err := f.svc.GetOwn(ctx, f.ana.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateRejectsBlankText(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.ana)
	_, err := f.svc.Create(ctx, anaDraft())
	require.NoError(t, err)

	for _, blank := range []string{"", " \t "} {
		v := blank
		_, err = f.svc.Update(ctx, f.ana.ID, ApplicationPatch{LastName: &v})
		assert.True(t, IsStoreKind(err, StoreInvalid), "last name %q", blank)
	}
	got, err := f.svc.GetOwn(ctx, f.ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Krasniqi", got.LastName)
	assert.Empty(t, f.feed.changes)
}
