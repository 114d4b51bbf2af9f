package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfuel/internal/domain"
	"bodyfuel/internal/repos"
	"bodyfuel/internal/services"
)

func cartFixture(t *testing.T) (*services.CartService, string) {
	t.Helper()
	db := memdb(t)
	svc := services.NewCartService(repos.NewKVRepo(db), repos.NewProductRepo(db))
	return svc, "sid-test"
}

func TestCart_AddSnapshotsSizePrice(t *testing.T) {
	svc, sid := cartFixture(t)

	// Product 2 base price is 39.99; the 2kg size applies the 1.8 multiplier.
	line, err := svc.Add(sid, 2, "Chocolat", "2kg", 1)
	require.NoError(t, err)
	assert.InDelta(t, 39.99*1.8, line.Price, 1e-9)
	assert.Equal(t, "Whey Protein Isolate", line.Name)
	assert.Equal(t, 8, line.Stock)
	assert.NotEmpty(t, line.ID)
}

func TestCart_AddNeverMergesLines(t *testing.T) {
	svc, sid := cartFixture(t)

	a, err := svc.Add(sid, 2, "Chocolat", "1kg", 1)
	require.NoError(t, err)
	b, err := svc.Add(sid, 2, "Chocolat", "1kg", 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	lines, err := svc.Lines(sid)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	n, err := svc.Count(sid)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCart_AddClampsQuantityAndRejectsOutOfStock(t *testing.T) {
	svc, sid := cartFixture(t)

	// Product 2 has 8 in stock.
	line, err := svc.Add(sid, 2, "Vanille", "1kg", 50)
	require.NoError(t, err)
	assert.Equal(t, 8, line.Quantity)

	line, err = svc.Add(sid, 2, "Vanille", "1kg", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	// Product 7 is out of stock.
	_, err = svc.Add(sid, 7, "Chocolat", "1kg", 1)
	assert.ErrorIs(t, err, services.ErrOutOfStock)
}

func TestCart_SetQuantityBounds(t *testing.T) {
	svc, sid := cartFixture(t)

	line, err := svc.Add(sid, 2, "Chocolat", "1kg", 2)
	require.NoError(t, err)

	changed, err := svc.SetQuantity(sid, line.ID, 5)
	require.NoError(t, err)
	assert.True(t, changed)

	// Outside [1, stock] is rejected without touching the line.
	changed, err = svc.SetQuantity(sid, line.ID, 0)
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = svc.SetQuantity(sid, line.ID, 9)
	require.NoError(t, err)
	assert.False(t, changed)

	lines, err := svc.Lines(sid)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	_, err = svc.SetQuantity(sid, "no-such-line", 1)
	assert.ErrorIs(t, err, services.ErrLineNotFound)
}

func TestCart_RemoveAndClear(t *testing.T) {
	svc, sid := cartFixture(t)

	a, err := svc.Add(sid, 1, "Chocolat", "1kg", 1)
	require.NoError(t, err)
	_, err = svc.Add(sid, 9, "Sans saveur", "1kg", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(sid, a.ID))
	lines, err := svc.Lines(sid)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 9, lines[0].ProductID)

	assert.ErrorIs(t, svc.Remove(sid, a.ID), services.ErrLineNotFound)

	require.NoError(t, svc.Clear(sid))
	lines, err = svc.Lines(sid)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCart_PersistsAcrossServiceInstances(t *testing.T) {
	db := memdb(t)
	sid := "sid-persist"

	first := services.NewCartService(repos.NewKVRepo(db), repos.NewProductRepo(db))
	_, err := first.Add(sid, 5, "Citron", "1kg", 2)
	require.NoError(t, err)

	second := services.NewCartService(repos.NewKVRepo(db), repos.NewProductRepo(db))
	lines, err := second.Lines(sid)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	svc, sid := cartFixture(t)

	_, err := svc.Add(sid, 1, "Chocolat", "1kg", 1)
	require.NoError(t, err)

	other, err := svc.Lines("sid-other")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSubtotal_ReferenceScenario(t *testing.T) {
	lines := []domain.CartLine{
		{Price: 59.99, Quantity: 2},
		{Price: 45.99, Quantity: 1},
	}
	assert.InDelta(t, 165.97, services.Subtotal(lines), 1e-9)
	assert.InDelta(t, 0, services.Subtotal(nil), 1e-9)
}

func TestCartShipping_Threshold(t *testing.T) {
	assert.InDelta(t, 5.99, services.CartShipping(99.99), 1e-9)
	assert.InDelta(t, 5.99, services.CartShipping(100.00), 1e-9)
	assert.InDelta(t, 0, services.CartShipping(100.01), 1e-9)

	assert.InDelta(t, 40.01, services.FreeShippingRemainder(59.99), 1e-9)
	assert.InDelta(t, 0, services.FreeShippingRemainder(100.00), 1e-9)
}

func TestCheckoutShipping_OptionTable(t *testing.T) {
	opts := services.ShippingOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, "Livraison Standard", opts[0].Label)

	assert.InDelta(t, 4.99, services.CheckoutShipping("standard"), 1e-9)
	assert.InDelta(t, 9.99, services.CheckoutShipping("express"), 1e-9)
	assert.InDelta(t, 3.49, services.CheckoutShipping("pickup"), 1e-9)
	assert.InDelta(t, 0, services.CheckoutShipping(""), 1e-9)
}

func TestGrandTotal_FlooredAtZero(t *testing.T) {
	assert.InDelta(t, 170.96, services.GrandTotal(165.97, 4.99, 0), 1e-9)
	assert.InDelta(t, 0, services.GrandTotal(10, 4.99, 50), 1e-9)
}

func TestTax_InformationalVAT(t *testing.T) {
	assert.InDelta(t, 34.19, services.Tax(170.96), 1e-9)
}
