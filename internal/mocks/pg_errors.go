package mocks

import "github.com/jackc/pgx/v5/pgconn"

// DuplicateKeyError builds the unique-violation error Postgres would return
// for the named constraint, so usecase error mapping is exercised the same
// way it is against the real database.
func DuplicateKeyError(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}
