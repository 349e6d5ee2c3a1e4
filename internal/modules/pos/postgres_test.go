package pos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func sampleSale() *Sale {
	return &Sale{
		ID:         uuid.New(),
		BandID:     uuid.New(),
		Total:      55,
		SellerID:   uuid.New(),
		SellerName: "Ana",
		Timestamp:  time.Now().UTC(),
		Items: []SaleItem{
			{ItemID: uuid.New(), VariantLabel: "M", Quantity: 2, PriceAtSale: 25, Name: "Tour Shirt"},
			{ItemID: uuid.New(), VariantLabel: "Universal", Quantity: 1, PriceAtSale: 5, Name: "Poster"},
		},
	}
}

func TestPostgresCreateSaleCommitsSaleAndLines(t *testing.T) {
	repo, mock := newMockRepo(t)
	sale := sampleSale()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sales").
		WithArgs(sale.ID, sale.BandID, sale.Total, sale.SellerID, sale.SellerName, sale.Timestamp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, item := range sale.Items {
		mock.ExpectExec("INSERT INTO sale_items").
			WithArgs(sale.ID, item.ItemID, item.VariantLabel, item.Quantity, item.PriceAtSale, item.Name).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.CreateSale(context.Background(), sale))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateSaleRollsBackOnLineFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	sale := sampleSale()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sales").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO sale_items").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateSale(context.Background(), sale)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetSaleByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	sale := sampleSale()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, band_id, total, seller_id, seller_name, sold_at, created_at, updated_at").
		WithArgs(sale.ID.String()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "band_id", "total", "seller_id", "seller_name", "sold_at", "created_at", "updated_at",
		}).AddRow(sale.ID.String(), sale.BandID.String(), sale.Total, sale.SellerID.String(), sale.SellerName, sale.Timestamp, now, now))

	itemRows := sqlmock.NewRows([]string{"item_id", "variant_label", "quantity", "price_at_sale", "name"})
	for _, item := range sale.Items {
		itemRows.AddRow(item.ItemID.String(), item.VariantLabel, item.Quantity, item.PriceAtSale, item.Name)
	}
	mock.ExpectQuery("SELECT item_id, variant_label, quantity, price_at_sale, name").
		WithArgs(sale.ID.String()).
		WillReturnRows(itemRows)

	got, err := repo.GetSaleByID(context.Background(), sale.ID.String())
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, sale.Total, got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Tour Shirt", got.Items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteSaleRemovesLinesFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sale_items").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM sales").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteSale(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
