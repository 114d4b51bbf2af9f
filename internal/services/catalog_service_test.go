package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"bodyfuel/internal/domain"
	"bodyfuel/internal/repos"
	"bodyfuel/internal/services"
)

// memdb opens a fully seeded in-memory database.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFilter_EmptyCriteriaIsIdentity(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db))

	all, err := svc.List()
	require.NoError(t, err)
	require.Len(t, all, 12)

	got := services.Filter(all, services.Criteria{})
	assert.Equal(t, all, got)
}

func TestFilter_CriteriaAndTogether(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db))
	all, err := svc.List()
	require.NoError(t, err)

	got := services.Filter(all, services.Criteria{Category: "Mass Gainers"})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Equal(t, "Mass Gainers", p.Category)
	}

	got = services.Filter(all, services.Criteria{PriceMin: 40, PriceMax: 50})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Price, 40.0)
		assert.LessOrEqual(t, p.Price, 50.0)
	}

	// Half-set ranges still filter on their one bound.
	got = services.Filter(all, services.Criteria{PriceMin: 50})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Price, 50.0)
	}
	got = services.Filter(all, services.Criteria{PriceMax: 30})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.LessOrEqual(t, p.Price, 30.0)
	}

	// Brand membership ORs across selected brands.
	got = services.Filter(all, services.Criteria{Brands: []string{"BSN", "Weider"}})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Contains(t, []string{"BSN", "Weider"}, p.Brand)
	}

	// Dietary tags OR within the criterion, AND with the rest.
	got = services.Filter(all, services.Criteria{
		Category: "Protéines",
		Dietary:  []string{"Vegan"},
	})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Equal(t, "Protéines", p.Category)
		assert.Contains(t, p.Dietary, "Vegan")
	}

	got = services.Filter(all, services.Criteria{Goals: []string{"Endurance"}})
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Contains(t, p.Goals, "Endurance")
	}
}

func TestSortProducts(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db))
	all, err := svc.List()
	require.NoError(t, err)

	asc := services.SortProducts(all, services.SortPriceAsc)
	for i := 1; i < len(asc); i++ {
		assert.LessOrEqual(t, asc[i-1].Price, asc[i].Price)
	}

	desc := services.SortProducts(all, services.SortPriceDesc)
	for i := 1; i < len(desc); i++ {
		assert.GreaterOrEqual(t, desc[i-1].Price, desc[i].Price)
	}

	rating := services.SortProducts(all, services.SortRating)
	for i := 1; i < len(rating); i++ {
		assert.GreaterOrEqual(t, rating[i-1].Rating, rating[i].Rating)
	}

	newest := services.SortProducts(all, services.SortNewest)
	for i := 1; i < len(newest); i++ {
		assert.Greater(t, newest[i-1].ID, newest[i].ID)
	}

	// Relevance keeps the input order and the input untouched.
	rel := services.SortProducts(all, services.SortRelevance)
	assert.Equal(t, all, rel)
}

func TestSizeOptions_MultiplierTable(t *testing.T) {
	p := domain.Product{Price: 10}
	opts := services.SizeOptions(p)
	require.Len(t, opts, 3)
	assert.InDelta(t, 10.0, opts[0].Price, 1e-9)
	assert.InDelta(t, 18.0, opts[1].Price, 1e-9)
	assert.InDelta(t, 42.0, opts[2].Price, 1e-9)

	assert.InDelta(t, 18.0, services.SizePrice(p, "2kg"), 1e-9)
	assert.InDelta(t, 42.0, services.SizePrice(p, "5kg"), 1e-9)
	// Unknown sizes fall back to the base price.
	assert.InDelta(t, 10.0, services.SizePrice(p, "500g"), 1e-9)
}

func TestRecommended_ExcludesSelfAndOutOfStock(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db))

	recs, err := svc.Recommended("Mass Gainers", 1, 4)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, p := range recs {
		assert.NotEqual(t, 1, p.ID)
		assert.True(t, p.InStock)
		assert.Equal(t, "Mass Gainers", p.Category)
	}
}
