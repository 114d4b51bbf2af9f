package services

import (
	"strings"
	"sync/atomic"
	"time"

	"bodyfuel/internal/domain"
	"bodyfuel/internal/money"
	"bodyfuel/internal/repos"
)

const ordersPerPage = 5

// statusFilters maps the filter sentinel values to the displayed status.
var statusFilters = map[string]domain.OrderStatus{
	"preparation": domain.StatusPreparing,
	"shipped":     domain.StatusShipped,
	"delivered":   domain.StatusDelivered,
}

// HistoryQuery is the order-history filter set. "all" disables a filter.
type HistoryQuery struct {
	Search    string
	Status    string
	Category  string
	DateRange string // all | last30 | last90 | last180 | lastYear
}

// OrderHistoryService serves the static past-order list. The data counts as
// loaded only after a fixed delay, mirroring the artificial loading phase
// of the storefront.
type OrderHistoryService struct {
	Orders *repos.OrderRepo
	ref    time.Time
	loaded atomic.Bool
}

// NewOrderHistoryService wires the repo and arms the loading gate. ref is
// the reference "now" the relative date ranges are computed against.
func NewOrderHistoryService(orders *repos.OrderRepo, ref time.Time, loadDelay time.Duration) *OrderHistoryService {
	s := &OrderHistoryService{Orders: orders, ref: ref}
	if loadDelay <= 0 {
		s.loaded.Store(true)
	} else {
		time.AfterFunc(loadDelay, func() { s.loaded.Store(true) })
	}
	return s
}

// Loaded reports whether the order data is past its artificial delay.
func (s *OrderHistoryService) Loaded() bool { return s.loaded.Load() }

// List applies the query and paginates. page is 1-based; callers reset it
// to 1 whenever the query changes.
func (s *OrderHistoryService) List(q HistoryQuery, page int) ([]domain.Order, int, int, error) {
	all, err := s.Orders.List()
	if err != nil {
		return nil, 0, 0, err
	}
	filtered := FilterOrders(all, q, s.ref)
	pageItems, totalPages := Paginate(filtered, page)
	return pageItems, totalPages, len(filtered), nil
}

// FilterOrders applies search, status, category and date-range filters; all
// AND together. Pure over the input list.
func FilterOrders(orders []domain.Order, q HistoryQuery, ref time.Time) []domain.Order {
	out := make([]domain.Order, 0, len(orders))

	var since time.Time
	switch q.DateRange {
	case "last30":
		since = ref.AddDate(0, 0, -30)
	case "last90":
		since = ref.AddDate(0, 0, -90)
	case "last180":
		since = ref.AddDate(0, 0, -180)
	case "lastYear":
		since = ref.AddDate(-1, 0, 0)
	}

	query := strings.ToLower(strings.TrimSpace(q.Search))

	for _, o := range orders {
		if query != "" && !matchesSearch(o, query) {
			continue
		}
		if q.Status != "" && q.Status != "all" {
			want, ok := statusFilters[q.Status]
			if !ok || o.Status != want {
				continue
			}
		}
		if q.Category != "" && q.Category != "all" && o.Category != q.Category {
			continue
		}
		if !since.IsZero() {
			d, err := money.ParseDate(o.Date)
			if err != nil || d.Before(since) {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

// matchesSearch is a case-insensitive substring match over the order number
// and every line item name.
func matchesSearch(o domain.Order, query string) bool {
	if strings.Contains(strings.ToLower(o.OrderNumber), query) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), query) {
			return true
		}
	}
	return false
}

// Paginate slices one fixed-size page out of the filtered list.
func Paginate(orders []domain.Order, page int) ([]domain.Order, int) {
	if page < 1 {
		page = 1
	}
	totalPages := (len(orders) + ordersPerPage - 1) / ordersPerPage
	start := (page - 1) * ordersPerPage
	if start >= len(orders) {
		return nil, totalPages
	}
	end := start + ordersPerPage
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end], totalPages
}
