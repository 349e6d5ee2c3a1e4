package snapshot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/inventory"
	"github.com/stageside/merchtable-backend/internal/modules/pos"
	"github.com/stageside/merchtable-backend/internal/modules/project"
)

type snapFixture struct {
	svc      Service
	bandID   uuid.UUID
	adminID  uuid.UUID
	memberID uuid.UUID
}

func newSnapFixture(t *testing.T) *snapFixture {
	t.Helper()
	ctx := context.Background()

	bands := band.NewMemoryRepository()
	inv := inventory.NewMemoryRepository()
	sales := pos.NewMemoryRepository()
	projects := project.NewMemoryRepository()

	f := &snapFixture{
		bandID:   uuid.New(),
		adminID:  uuid.New(),
		memberID: uuid.New(),
	}
	f.svc = NewService(bands, inv, sales, projects)

	require.NoError(t, bands.CreateBand(ctx, &band.Band{ID: f.bandID, Name: "The Lintheads"}))
	require.NoError(t, bands.AddMember(ctx, &band.Member{BandID: f.bandID, UserID: f.adminID, Role: band.RoleAdmin}))
	require.NoError(t, bands.AddMember(ctx, &band.Member{BandID: f.bandID, UserID: f.memberID, Role: band.RoleMember}))
	require.NoError(t, bands.CreateRequest(ctx, &band.JoinRequest{
		ID: uuid.New(), BandID: f.bandID, UserID: uuid.New(), Name: "Outi", Status: band.RequestPending,
	}))

	require.NoError(t, inv.CreateItem(ctx, &inventory.Item{
		ID: uuid.New(), BandID: f.bandID, Name: "Poster", Price: 5,
		Variants: []inventory.Variant{{Label: inventory.UniversalLabel, Stock: 10}},
	}))
	require.NoError(t, sales.CreateSale(ctx, &pos.Sale{
		ID: uuid.New(), BandID: f.bandID, Total: 5, SellerName: "Ana",
		Items: []pos.SaleItem{{ItemID: uuid.New(), VariantLabel: inventory.UniversalLabel, Quantity: 1, PriceAtSale: 5, Name: "Poster"}},
	}))
	require.NoError(t, projects.CreateProject(ctx, &project.Project{
		ID: uuid.New(), BandID: f.bandID, Title: "Spring Tour", Type: project.TypeEvent, Status: project.StatusInProgress,
	}))
	return f
}

func TestSnapshotForAdminIncludesEverything(t *testing.T) {
	f := newSnapFixture(t)

	snap, err := f.svc.BandSnapshot(context.Background(), f.adminID.String(), f.bandID.String())
	require.NoError(t, err)

	assert.Equal(t, band.RoleAdmin, snap.Role)
	assert.Equal(t, "The Lintheads", snap.Band.Name)
	assert.Len(t, snap.Members, 2)
	assert.Len(t, snap.Items, 1)
	assert.Len(t, snap.Sales, 1)
	assert.Len(t, snap.Projects, 1)
	assert.Len(t, snap.Requests, 1)
}

func TestSnapshotGatesSalesAndRequests(t *testing.T) {
	f := newSnapFixture(t)

	snap, err := f.svc.BandSnapshot(context.Background(), f.memberID.String(), f.bandID.String())
	require.NoError(t, err)

	assert.Equal(t, band.RoleMember, snap.Role)
	assert.Len(t, snap.Items, 1, "catalog is visible to every member")
	assert.NotNil(t, snap.Sales)
	assert.Empty(t, snap.Sales, "plain members see an empty sales list, not an error")
	assert.NotNil(t, snap.Requests)
	assert.Empty(t, snap.Requests)
}

func TestSnapshotRejectsNonMembers(t *testing.T) {
	f := newSnapFixture(t)

	_, err := f.svc.BandSnapshot(context.Background(), uuid.NewString(), f.bandID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}
