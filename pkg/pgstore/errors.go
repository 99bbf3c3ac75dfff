package pgstore

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrFailedToOpenDBConnection = errors.New("pgstore.open_failed")
	ErrFailedToParseDBConfig    = errors.New("pgstore.invalid_config")
	ErrHealthcheckFailed        = errors.New("pgstore.healthcheck_failed")
	ErrFailedToApplyMigrations  = errors.New("pgstore.migrations_failed")
	ErrQueryFailed              = errors.New("pgstore.query_failed")
)

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
