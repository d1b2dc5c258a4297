package errx

import (
	"database/sql"
	"errors"
	"net/http"
)

// WrapSQLite maps SQLite errors to the unified Error type with appropriate status codes.
func WrapSQLite(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return New(err, http.StatusNotFound, NotFoundMessage)
	}

	return New(err, http.StatusBadGateway, SQLiteErrorMessage)
}
