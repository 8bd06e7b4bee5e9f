package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("operation requires a privileged account")
)

// isDuplicateKey reports whether err is a storage-layer unique-constraint
// violation. GORM translates most drivers to ErrDuplicatedKey; raw postgres
// errors are matched on SQLSTATE 23505.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
