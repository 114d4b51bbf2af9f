package repos

import (
	"github.com/jmoiron/sqlx"

	"bodyfuel/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, order_number, order_date, total, status, tracking_number,
  shipping_address, payment_method, delivery_date, can_return, category`

// List returns the full order history, newest first, with line items attached.
func (r *OrderRepo) List() ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.db.Select(&orders, `SELECT`+orderCols+` FROM orders ORDER BY id`); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.db.Select(&orders[i].Items, `
		  SELECT id, name, alt, quantity, price
		  FROM order_items WHERE order_id = ? ORDER BY id
		`, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepo) Get(id int) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT`+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, err
	}
	if err := r.db.Select(&o.Items, `
	  SELECT id, name, alt, quantity, price
	  FROM order_items WHERE order_id = ? ORDER BY id
	`, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
