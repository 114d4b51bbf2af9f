package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"bodyfuel/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	domain.Product
	FlavorsJSON string `db:"flavors_json"`
	DietaryJSON string `db:"dietary_json"`
	GoalsJSON   string `db:"goals_json"`
}

func (row *productRow) toProduct() domain.Product {
	p := row.Product
	_ = json.Unmarshal([]byte(row.FlavorsJSON), &p.Flavors)
	_ = json.Unmarshal([]byte(row.DietaryJSON), &p.Dietary)
	_ = json.Unmarshal([]byte(row.GoalsJSON), &p.Goals)
	return p
}

const productCols = `
  id, name, brand, category, price, original_price, rating, review_count,
  image, alt, protein, badge, in_stock, stock, flavors_json, dietary_json, goals_json`

// List returns the full catalog in insertion order. Filtering and sorting
// happen in memory over this static list.
func (r *ProductRepo) List() ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.Select(&rows, `SELECT`+productCols+` FROM products ORDER BY id`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toProduct())
	}
	return out, nil
}

func (r *ProductRepo) Get(id int) (domain.Product, error) {
	var row productRow
	if err := r.db.Get(&row, `SELECT`+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	return row.toProduct(), nil
}

// GetMany loads the given product ids, preserving the requested order.
func (r *ProductRepo) GetMany(ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT`+productCols+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []productRow
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byID := make(map[int]domain.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].toProduct()
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
