package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"bodyfuel/internal/repos"
	"bodyfuel/internal/services"
)

// historyRef is the fixed reference "now" the relative order-history date
// ranges are computed against; the seeded orders cluster around it.
var historyRef = time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)

// historyLoadDelay is the artificial delay before the order data counts as
// loaded.
const historyLoadDelay = 800 * time.Millisecond

type Deps struct {
	CatalogHandler   *CatalogHandler
	CartHandler      *CartHandler
	CheckoutHandler  *CheckoutHandler
	OrderHandler     *OrderHandler
	DashboardHandler *DashboardHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	kvRepo := repos.NewKVRepo(db)
	custRepo := repos.NewCustomerRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(kvRepo, prodRepo)
	promoSvc := services.NewPromoService()
	checkoutSvc := services.NewCheckoutService(cartSvc, promoSvc)
	historySvc := services.NewOrderHistoryService(orderRepo, historyRef, historyLoadDelay)
	dashSvc := services.NewDashboardService(custRepo, prodRepo, orderRepo)

	return &Deps{
		CatalogHandler:   &CatalogHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc, Promo: promoSvc, Catalog: catalogSvc},
		CheckoutHandler:  &CheckoutHandler{Checkout: checkoutSvc, Cart: cartSvc, Promo: promoSvc},
		OrderHandler:     &OrderHandler{History: historySvc},
		DashboardHandler: &DashboardHandler{Dash: dashSvc},
	}
}
