package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// KVRepo is the per-session key-value store. The cart serializes into the
// slot keyed "cart"; every mutation rewrites the slot.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

// Get returns the stored value, or "" when the slot is empty.
func (r *KVRepo) Get(sessionID, key string) (string, error) {
	var v string
	err := r.db.Get(&v, `SELECT v FROM session_kv WHERE session_id = ? AND k = ?`, sessionID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func (r *KVRepo) Set(sessionID, key, value string) error {
	_, err := r.db.Exec(`
	  INSERT INTO session_kv(session_id, k, v, updated_at)
	  VALUES(?, ?, ?, ?)
	  ON CONFLICT(session_id, k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at
	`, sessionID, key, value, time.Now().Format(time.RFC3339))
	return err
}

func (r *KVRepo) Delete(sessionID, key string) error {
	_, err := r.db.Exec(`DELETE FROM session_kv WHERE session_id = ? AND k = ?`, sessionID, key)
	return err
}
