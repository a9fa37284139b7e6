// Package repository holds the pgx-backed data access layer, one repository
// per entity. Driver errors are normalized: pgx.ErrNoRows becomes
// finerr.ErrNotFound and unique violations become finerr.ErrConflict, so
// services above never inspect SQLSTATEs.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ledgerly/ledgerly/internal/finerr"
)

const uniqueViolation = "23505"

func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return finerr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return finerr.Conflictf("%s", pgErr.ConstraintName)
	}
	return err
}
