package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfuel/internal/repos"
	"bodyfuel/internal/services"
)

func dashboardFixture(t *testing.T) *services.DashboardService {
	t.Helper()
	db := memdb(t)
	return services.NewDashboardService(
		repos.NewCustomerRepo(db),
		repos.NewProductRepo(db),
		repos.NewOrderRepo(db),
	)
}

func TestDashboard_View(t *testing.T) {
	svc := dashboardFixture(t)

	view, err := svc.View()
	require.NoError(t, err)

	assert.Equal(t, "Sophie Martin", view.Profile.Name)
	assert.Equal(t, "Membre Premium", view.Profile.AccountStatus)
	assert.Equal(t, 2450, view.Profile.LoyaltyPoints)

	require.Len(t, view.Favorites, 4)
	ids := make([]int, 0, len(view.Favorites))
	for _, p := range view.Favorites {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 2, 6, 9}, ids)

	require.Len(t, view.RecentOrders, 3)
	assert.Equal(t, "BF2026-001234", view.RecentOrders[0].OrderNumber)
}

func TestDashboard_RemoveFavorite(t *testing.T) {
	svc := dashboardFixture(t)

	require.NoError(t, svc.RemoveFavorite(2))

	view, err := svc.View()
	require.NoError(t, err)
	require.Len(t, view.Favorites, 3)
	for _, p := range view.Favorites {
		assert.NotEqual(t, 2, p.ID)
	}
}
