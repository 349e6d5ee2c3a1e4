package pos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/inventory"
	"github.com/stageside/merchtable-backend/internal/modules/user"
)

type fixture struct {
	svc    Service
	inv    *inventory.MemoryRepository
	bandID uuid.UUID

	adminID    uuid.UUID
	memberID   uuid.UUID
	strangerID uuid.UUID

	shirtID  uuid.UUID // sized: M=10, L=4
	posterID uuid.UUID // Universal=20, price 5.00
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := user.NewMemoryRepository()
	bands := band.NewMemoryRepository()
	inv := inventory.NewMemoryRepository()
	sales := NewMemoryRepository()

	f := &fixture{
		inv:        inv,
		bandID:     uuid.New(),
		adminID:    uuid.New(),
		memberID:   uuid.New(),
		strangerID: uuid.New(),
		shirtID:    uuid.New(),
		posterID:   uuid.New(),
	}

	require.NoError(t, users.CreateUser(ctx, &user.User{ID: f.adminID, Email: "ana@band.test", Name: "Ana"}))
	require.NoError(t, users.CreateUser(ctx, &user.User{ID: f.memberID, Email: "mo@band.test", Name: "Mo"}))
	require.NoError(t, users.CreateUser(ctx, &user.User{ID: f.strangerID, Email: "sal@other.test", Name: "Sal"}))

	require.NoError(t, bands.CreateBand(ctx, &band.Band{ID: f.bandID, Name: "The Lintheads"}))
	require.NoError(t, bands.AddMember(ctx, &band.Member{BandID: f.bandID, UserID: f.adminID, Name: "Ana", Role: band.RoleAdmin}))
	require.NoError(t, bands.AddMember(ctx, &band.Member{BandID: f.bandID, UserID: f.memberID, Name: "Mo", Role: band.RoleMember}))

	require.NoError(t, inv.CreateItem(ctx, &inventory.Item{
		ID:     f.shirtID,
		BandID: f.bandID,
		Name:   "Tour Shirt",
		Price:  25,
		Variants: []inventory.Variant{
			{Label: "M", Stock: 10},
			{Label: "L", Stock: 4},
		},
	}))
	require.NoError(t, inv.CreateItem(ctx, &inventory.Item{
		ID:       f.posterID,
		BandID:   f.bandID,
		Name:     "Poster",
		Price:    5,
		Variants: []inventory.Variant{{Label: inventory.UniversalLabel, Stock: 20}},
	}))

	f.svc = NewService(sales, inv, bands, users)
	return f
}

func (f *fixture) stock(t *testing.T, itemID uuid.UUID, label string) int {
	t.Helper()
	item, err := f.inv.GetItemByID(context.Background(), itemID.String())
	require.NoError(t, err)
	v, ok := item.Variant(label)
	require.True(t, ok, "variant %q missing", label)
	return v.Stock
}

func TestRecordSaleDecrementsStockAndSnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
		BandID: f.bandID.String(),
		Items: []CartLine{
			{ItemID: f.shirtID.String(), VariantLabel: "M", Quantity: 3},
			{ItemID: f.posterID.String(), VariantLabel: inventory.UniversalLabel, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, f.stock(t, f.shirtID, "M"))
	assert.Equal(t, 4, f.stock(t, f.shirtID, "L"), "untouched variant stays put")
	assert.Equal(t, 18, f.stock(t, f.posterID, inventory.UniversalLabel))

	assert.Equal(t, 85.0, sale.Total) // 3*25 + 2*5
	assert.Equal(t, "Ana", sale.SellerName)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 25.0, sale.Items[0].PriceAtSale)
	assert.Equal(t, "Tour Shirt", sale.Items[0].Name)
}

func TestSaleLifecycleConservesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
		BandID: f.bandID.String(),
		Items:  []CartLine{{ItemID: f.shirtID.String(), VariantLabel: "M", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, f.shirtID, "M"))

	// Edit to a larger quantity: net effect is the new quantity, not the sum.
	_, err = f.svc.UpdateSale(ctx, f.adminID.String(), sale.ID.String(), UpdateSaleRequest{
		Items: []CartLine{{ItemID: f.shirtID.String(), VariantLabel: "M", Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, f.shirtID, "M"))

	// Delete fully restores the original level.
	require.NoError(t, f.svc.DeleteSale(ctx, f.adminID.String(), sale.ID.String()))
	assert.Equal(t, 10, f.stock(t, f.shirtID, "M"))
}

func TestUpdateSaleWithUnchangedItemsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
		BandID: f.bandID.String(),
		Items: []CartLine{
			{ItemID: f.shirtID.String(), VariantLabel: "M", Quantity: 2},
			{ItemID: f.shirtID.String(), VariantLabel: "L", Quantity: 1},
		},
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSale(ctx, f.adminID.String(), sale.ID.String(), UpdateSaleRequest{
		Items: []CartLine{
			{ItemID: f.shirtID.String(), VariantLabel: "M", Quantity: 2},
			{ItemID: f.shirtID.String(), VariantLabel: "L", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, f.stock(t, f.shirtID, "M"))
	assert.Equal(t, 3, f.stock(t, f.shirtID, "L"))
	assert.Equal(t, sale.ID, updated.ID)
	assert.Equal(t, sale.Total, updated.Total)
	assert.Equal(t, sale.SellerID, updated.SellerID)
	assert.Equal(t, sale.Timestamp, updated.Timestamp)
}

func TestUpdateSaleSwapsVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
		BandID: f.bandID.String(),
		Items:  []CartLine{{ItemID: f.shirtID.String(), VariantLabel: "M", Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateSale(ctx, f.adminID.String(), sale.ID.String(), UpdateSaleRequest{
		Items: []CartLine{{ItemID: f.shirtID.String(), VariantLabel: "L", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, f.stock(t, f.shirtID, "M"), "fully reverted")
	assert.Equal(t, 2, f.stock(t, f.shirtID, "L"), "newly applied")
}

func TestOversellDrivesStockNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
		BandID: f.bandID.String(),
		Items:  []CartLine{{ItemID: f.shirtID.String(), VariantLabel: "L", Quantity: 6}},
	})
	require.NoError(t, err, "oversell is recorded, not rejected")
	assert.Equal(t, -2, f.stock(t, f.shirtID, "L"))
}

func TestUpdateSaleRejectsEmptyItemList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
		BandID: f.bandID.String(),
		Items:  []CartLine{{ItemID: f.posterID.String(), VariantLabel: inventory.UniversalLabel, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateSale(ctx, f.adminID.String(), sale.ID.String(), UpdateSaleRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete the sale instead")
	assert.Equal(t, 19, f.stock(t, f.posterID, inventory.UniversalLabel), "rejected update leaves stock untouched")
}

func TestRecordSaleValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("zero quantity", func(t *testing.T) {
		_, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
			BandID: f.bandID.String(),
			Items:  []CartLine{{ItemID: f.shirtID.String(), VariantLabel: "M", Quantity: 0}},
		})
		assert.Error(t, err)
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
			BandID: f.bandID.String(),
			Items:  []CartLine{{ItemID: f.shirtID.String(), VariantLabel: "XXL", Quantity: 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "variant")
	})

	t.Run("item from another band", func(t *testing.T) {
		otherItem := uuid.New()
		require.NoError(t, f.inv.CreateItem(ctx, &inventory.Item{
			ID:       otherItem,
			BandID:   uuid.New(),
			Name:     "Foreign Pin",
			Price:    2,
			Variants: []inventory.Variant{{Label: inventory.UniversalLabel, Stock: 5}},
		}))
		_, err := f.svc.RecordSale(ctx, f.adminID.String(), RecordSaleRequest{
			BandID: f.bandID.String(),
			Items:  []CartLine{{ItemID: otherItem.String(), VariantLabel: inventory.UniversalLabel, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})
}

func TestSalePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("non-member cannot record", func(t *testing.T) {
		_, err := f.svc.RecordSale(ctx, f.strangerID.String(), RecordSaleRequest{
			BandID: f.bandID.String(),
			Items:  []CartLine{{ItemID: f.posterID.String(), VariantLabel: inventory.UniversalLabel, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forbidden")
	})

	t.Run("plain member records but cannot edit", func(t *testing.T) {
		sale, err := f.svc.RecordSale(ctx, f.memberID.String(), RecordSaleRequest{
			BandID: f.bandID.String(),
			Items:  []CartLine{{ItemID: f.posterID.String(), VariantLabel: inventory.UniversalLabel, Quantity: 1}},
		})
		require.NoError(t, err)

		_, err = f.svc.UpdateSale(ctx, f.memberID.String(), sale.ID.String(), UpdateSaleRequest{
			Items: []CartLine{{ItemID: f.posterID.String(), VariantLabel: inventory.UniversalLabel, Quantity: 2}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forbidden")

		err = f.svc.DeleteSale(ctx, f.memberID.String(), sale.ID.String())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forbidden")
	})

	t.Run("plain member cannot view history", func(t *testing.T) {
		_, err := f.svc.ListSales(ctx, f.memberID.String(), f.bandID.String())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forbidden")
	})
}
