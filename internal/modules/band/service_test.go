package band

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stageside/merchtable-backend/internal/modules/user"
)

type bandFixture struct {
	svc     Service
	repo    *MemoryRepository
	users   *user.MemoryRepository
	bandID  uuid.UUID
	adminID uuid.UUID
	modID   uuid.UUID
	outID   uuid.UUID // registered user, not a member
}

func newBandFixture(t *testing.T) *bandFixture {
	t.Helper()
	ctx := context.Background()

	f := &bandFixture{
		repo:    NewMemoryRepository(),
		users:   user.NewMemoryRepository(),
		adminID: uuid.New(),
		modID:   uuid.New(),
		outID:   uuid.New(),
	}
	f.svc = NewService(f.repo, f.users)

	require.NoError(t, f.users.CreateUser(ctx, &user.User{ID: f.adminID, Email: "ana@band.test", Name: "Ana"}))
	require.NoError(t, f.users.CreateUser(ctx, &user.User{ID: f.modID, Email: "max@band.test", Name: "Max"}))
	require.NoError(t, f.users.CreateUser(ctx, &user.User{ID: f.outID, Email: "out@band.test", Name: "Outi"}))

	b, err := f.svc.CreateBand(ctx, f.adminID.String(), UpsertBandRequest{Name: "The Lintheads"})
	require.NoError(t, err)
	f.bandID = b.ID

	require.NoError(t, f.repo.AddMember(ctx, &Member{BandID: f.bandID, UserID: f.modID, Name: "Max", Role: RoleModerator}))
	return f
}

func TestCreateBandMakesCreatorAdmin(t *testing.T) {
	f := newBandFixture(t)
	role, err := f.repo.GetMemberRole(context.Background(), f.bandID.String(), f.adminID.String())
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}

func TestUpdateBandRequiresEditRole(t *testing.T) {
	f := newBandFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateBand(ctx, f.outID.String(), f.bandID.String(), UpsertBandRequest{Name: "Renamed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")

	b, err := f.svc.UpdateBand(ctx, f.modID.String(), f.bandID.String(), UpsertBandRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", b.Name)
}

func TestChangeMemberRole(t *testing.T) {
	f := newBandFixture(t)
	ctx := context.Background()

	t.Run("admin promotes a member", func(t *testing.T) {
		err := f.svc.ChangeMemberRole(ctx, f.adminID.String(), f.bandID.String(), f.modID.String(), RoleBandMember)
		require.NoError(t, err)
		role, err := f.repo.GetMemberRole(ctx, f.bandID.String(), f.modID.String())
		require.NoError(t, err)
		assert.Equal(t, RoleBandMember, role)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		err := f.svc.ChangeMemberRole(ctx, f.adminID.String(), f.bandID.String(), f.adminID.String(), RoleMember)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "own role")
	})

	t.Run("non-admin denied", func(t *testing.T) {
		err := f.svc.ChangeMemberRole(ctx, f.modID.String(), f.bandID.String(), f.adminID.String(), RoleMember)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forbidden")
	})
}

func TestRemoveMember(t *testing.T) {
	f := newBandFixture(t)
	ctx := context.Background()

	err := f.svc.RemoveMember(ctx, f.adminID.String(), f.bandID.String(), f.adminID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yourself")

	require.NoError(t, f.svc.RemoveMember(ctx, f.adminID.String(), f.bandID.String(), f.modID.String()))
	role, err := f.repo.GetMemberRole(ctx, f.bandID.String(), f.modID.String())
	require.NoError(t, err)
	assert.Equal(t, RoleNone, role)
}

func TestJoinRequestFlow(t *testing.T) {
	f := newBandFixture(t)
	ctx := context.Background()

	req, err := f.svc.RequestToJoin(ctx, f.outID.String(), f.bandID.String())
	require.NoError(t, err)
	assert.Equal(t, RequestPending, req.Status)

	t.Run("duplicate pending request rejected", func(t *testing.T) {
		_, err := f.svc.RequestToJoin(ctx, f.outID.String(), f.bandID.String())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already pending")
	})

	t.Run("members cannot request", func(t *testing.T) {
		_, err := f.svc.RequestToJoin(ctx, f.modID.String(), f.bandID.String())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already a member")
	})

	t.Run("only admin lists and approves", func(t *testing.T) {
		_, err := f.svc.ListRequests(ctx, f.modID.String(), f.bandID.String())
		require.Error(t, err)

		_, err = f.svc.ApproveRequest(ctx, f.modID.String(), req.ID.String())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forbidden")
	})

	t.Run("approval adds a plain member", func(t *testing.T) {
		m, err := f.svc.ApproveRequest(ctx, f.adminID.String(), req.ID.String())
		require.NoError(t, err)
		assert.Equal(t, RoleMember, m.Role)

		role, err := f.repo.GetMemberRole(ctx, f.bandID.String(), f.outID.String())
		require.NoError(t, err)
		assert.Equal(t, RoleMember, role)

		// A settled request cannot be approved again.
		_, err = f.svc.ApproveRequest(ctx, f.adminID.String(), req.ID.String())
		require.Error(t, err)
	})
}

func TestRejectRequest(t *testing.T) {
	f := newBandFixture(t)
	ctx := context.Background()

	req, err := f.svc.RequestToJoin(ctx, f.outID.String(), f.bandID.String())
	require.NoError(t, err)

	require.NoError(t, f.svc.RejectRequest(ctx, f.adminID.String(), req.ID.String()))

	role, err := f.repo.GetMemberRole(ctx, f.bandID.String(), f.outID.String())
	require.NoError(t, err)
	assert.Equal(t, RoleNone, role, "rejection never adds a member")

	pending, err := f.svc.ListRequests(ctx, f.adminID.String(), f.bandID.String())
	require.NoError(t, err)
	assert.Empty(t, pending)
}
