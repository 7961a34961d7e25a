package postgres

import (
	"database/sql"
	"errors"
)

// isNotFound classifies wrapped driver errors too, not only the bare
// sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
