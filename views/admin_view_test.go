package views

import (
	"context"
	"testing"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/testdb"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminViewApproveRefetches(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	app, err := e.store.Create(e.ana.Context(ctx), anaDraft())
	require.NoError(t, err)

	v := e.adminView()
	require.NoError(t, v.Load(ctx))
	items := v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "ana@example.com", items[0].Email)
	assert.Equal(t, entity.StatusPending, items[0].Status)

	require.NoError(t, v.Approve(ctx, app.ID, "Welcome aboard"))
	items = v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, entity.StatusApproved, items[0].Status)
	assert.Equal(t, "Welcome aboard", items[0].Notes())
	assert.False(t, v.Busy(app.ID))

	got := e.admNote.all()
	require.Len(t, got, 1)
	assert.Equal(t, SeveritySuccess, got[0].Severity)
	assert.Equal(t, e.tr.T("application.reviewed"), got[0].Message)
}

func TestAdminViewOnlyDecidesShownPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	app, err := e.store.Create(e.ana.Context(ctx), anaDraft())
	require.NoError(t, err)

	v := e.adminView()
	assert.ErrorIs(t, v.Reject(ctx, app.ID, ""), ErrNotPending, "not loaded yet")

	require.NoError(t, v.Load(ctx))
	require.NoError(t, v.Reject(ctx, app.ID, "incomplete"))
	assert.ErrorIs(t, v.Approve(ctx, app.ID, ""), ErrNotPending)
}

func TestAdminViewStaleListSurfacesStoreError(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	app, err := e.store.Create(e.ana.Context(ctx), anaDraft())
	require.NoError(t, err)

	v := e.adminView()
	require.NoError(t, v.Load(ctx))

	// admin อีกคนตัดสินไปก่อนแล้ว
	_, err = e.store.SetStatus(e.admin.Context(ctx), app.ID, entity.StatusApproved, "")
	require.NoError(t, err)

	err = v.Reject(ctx, app.ID, "")
	assert.True(t, services.IsStoreKind(err, services.StoreInvalidTransition))
	got := e.admNote.all()
	require.Len(t, got, 1)
	assert.Equal(t, SeverityError, got[0].Severity)
	assert.False(t, v.Busy(app.ID))
}

func TestAdminViewRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	v := NewAdminView(e.store, e.ana, e.tr, e.anaNote, testdb.Logger())
	assert.ErrorIs(t, v.Load(context.Background()), ErrAdminRequired)

	got := e.anaNote.all()
	require.Len(t, got, 1)
	assert.Equal(t, e.tr.T("admin.access.required"), got[0].Message)
}

func TestAdminViewClearsOnSignOut(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	app, err := e.store.Create(e.ana.Context(ctx), anaDraft())
	require.NoError(t, err)

	v := e.adminView()
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()
	require.Len(t, v.Items(), 1)

	require.NoError(t, e.admin.SignOut(ctx))
	assert.Empty(t, v.Items())
	assert.ErrorIs(t, v.Approve(ctx, app.ID, ""), ErrAdminRequired)
	assert.ErrorIs(t, v.Load(ctx), ErrAdminRequired)
	assert.Empty(t, v.Items())
}
