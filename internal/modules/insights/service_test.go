package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/pos"
)

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func seedSales(t *testing.T, sales *pos.MemoryRepository, bandID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	shirtID, posterID := uuid.New(), uuid.New()

	require.NoError(t, sales.CreateSale(ctx, &pos.Sale{
		ID: uuid.New(), BandID: bandID, Total: 55, SellerName: "Ana",
		Items: []pos.SaleItem{
			{ItemID: shirtID, VariantLabel: "M", Quantity: 2, PriceAtSale: 25, Name: "Tour Shirt"},
			{ItemID: posterID, VariantLabel: "Universal", Quantity: 1, PriceAtSale: 5, Name: "Poster"},
		},
	}))
	require.NoError(t, sales.CreateSale(ctx, &pos.Sale{
		ID: uuid.New(), BandID: bandID, Total: 15, SellerName: "Mo",
		Items: []pos.SaleItem{
			{ItemID: posterID, VariantLabel: "Universal", Quantity: 3, PriceAtSale: 5, Name: "Poster"},
		},
	}))
}

func newRecapFixture(t *testing.T, gen Generator) (Service, uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	bands := band.NewMemoryRepository()
	sales := pos.NewMemoryRepository()
	bandID, viewerID := uuid.New(), uuid.New()

	require.NoError(t, bands.CreateBand(ctx, &band.Band{ID: bandID, Name: "The Lintheads"}))
	require.NoError(t, bands.AddMember(ctx, &band.Member{BandID: bandID, UserID: viewerID, Role: band.RoleBandMember}))
	seedSales(t, sales, bandID)

	return NewService(sales, bands, gen), bandID, viewerID
}

func TestSalesRecapAggregates(t *testing.T) {
	svc, bandID, viewerID := newRecapFixture(t, stubGenerator{text: "What a week!"})

	recap, err := svc.SalesRecap(context.Background(), viewerID.String(), bandID.String())
	require.NoError(t, err)

	assert.Equal(t, 2, recap.SaleCount)
	assert.Equal(t, 70.0, recap.Revenue)
	assert.Equal(t, "What a week!", recap.Narrative)

	// Poster leads on units (4 vs 2), shirt leads on nothing.
	require.Len(t, recap.TopItems, 2)
	assert.Equal(t, "Poster", recap.TopItems[0].Name)
	assert.Equal(t, 4, recap.TopItems[0].Units)
	assert.Equal(t, 20.0, recap.TopItems[0].Revenue)

	// Ana out-earns Mo.
	require.Len(t, recap.TopSellers, 2)
	assert.Equal(t, "Ana", recap.TopSellers[0].Name)
	assert.Equal(t, 55.0, recap.TopSellers[0].Revenue)
}

func TestSalesRecapFallsBackWhenGeneratorFails(t *testing.T) {
	svc, bandID, viewerID := newRecapFixture(t, NewDisabledGenerator())

	recap, err := svc.SalesRecap(context.Background(), viewerID.String(), bandID.String())
	require.NoError(t, err, "generator failure must not fail the recap")
	assert.Contains(t, recap.Narrative, "2 sales")
	assert.Contains(t, recap.Narrative, "Poster")
}

func TestSalesRecapRequiresViewHistory(t *testing.T) {
	svc, bandID, _ := newRecapFixture(t, stubGenerator{})

	_, err := svc.SalesRecap(context.Background(), uuid.NewString(), bandID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestOpenAIGeneratorParsesChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Solid night at the table.  "}}]}`))
	}))
	defer server.Close()

	gen := NewOpenAIGenerator("test-key", server.URL, "test-model")
	got, err := gen.Generate(context.Background(), "summarise")
	require.NoError(t, err)
	assert.Equal(t, "Solid night at the table.", got)
}

func TestOpenAIGeneratorSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	gen := NewOpenAIGenerator("test-key", server.URL, "")
	_, err := gen.Generate(context.Background(), "summarise")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
