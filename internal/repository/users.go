package repository

import (
	"context"
	"errors"
)

// Users reads the account table owned by the sign-up flow.
type Users struct {
	db DBTX
}

// NewUsers returns a repository on db.
func NewUsers(db DBTX) *Users {
	return &Users{db: db}
}

// Count returns the number of registered users.
func (r *Users) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	return n, nil
}
