package repository

import "errors"

// ErrQuery wraps failures reported by PostgreSQL.
var ErrQuery = errors.New("repository: query failed")
