package repos

import "github.com/jmoiron/sqlx"

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

type CustomerRow struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	AccountStatus string `db:"account_status" json:"accountStatus"`
	MemberSince   string `db:"member_since" json:"memberSince"`
	LoyaltyPoints int    `db:"loyalty_points" json:"loyaltyPoints"`
}

// Demo returns the single seeded customer profile. There is no account
// system; the dashboard reads this fixed record.
func (r *CustomerRepo) Demo() (CustomerRow, error) {
	var c CustomerRow
	err := r.db.Get(&c, `SELECT id, name, account_status, member_since, loyalty_points FROM customers LIMIT 1`)
	return c, err
}

func (r *CustomerRepo) FavoriteProductIDs(customerID string) ([]int, error) {
	var ids []int
	err := r.db.Select(&ids, `
	  SELECT product_id FROM favorites WHERE customer_id = ? ORDER BY product_id
	`, customerID)
	return ids, err
}

func (r *CustomerRepo) RemoveFavorite(customerID string, productID int) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE customer_id = ? AND product_id = ?`, customerID, productID)
	return err
}
