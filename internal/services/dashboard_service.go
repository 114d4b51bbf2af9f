package services

import (
	"bodyfuel/internal/domain"
	"bodyfuel/internal/repos"
)

// DashboardService assembles the read-only account dashboard: the seeded
// demo profile, favorites and the latest past orders. There is no account
// system behind it.
type DashboardService struct {
	Customers *repos.CustomerRepo
	Prods     *repos.ProductRepo
	Orders    *repos.OrderRepo
}

func NewDashboardService(customers *repos.CustomerRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *DashboardService {
	return &DashboardService{Customers: customers, Prods: prods, Orders: orders}
}

type DashboardView struct {
	Profile      repos.CustomerRow `json:"profile"`
	Favorites    []domain.Product  `json:"favorites"`
	RecentOrders []domain.Order    `json:"recentOrders"`
}

func (s *DashboardService) View() (DashboardView, error) {
	profile, err := s.Customers.Demo()
	if err != nil {
		return DashboardView{}, err
	}
	ids, err := s.Customers.FavoriteProductIDs(profile.ID)
	if err != nil {
		return DashboardView{}, err
	}
	favs, err := s.Prods.GetMany(ids)
	if err != nil {
		return DashboardView{}, err
	}
	orders, err := s.Orders.List()
	if err != nil {
		return DashboardView{}, err
	}
	if len(orders) > 3 {
		orders = orders[:3]
	}
	return DashboardView{Profile: profile, Favorites: favs, RecentOrders: orders}, nil
}

func (s *DashboardService) RemoveFavorite(productID int) error {
	profile, err := s.Customers.Demo()
	if err != nil {
		return err
	}
	return s.Customers.RemoveFavorite(profile.ID, productID)
}
