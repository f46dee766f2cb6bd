package errx

import (
	"database/sql"
	"errors"
	"net/http"
)

// WrapSQL maps database/sql errors the same way WrapRedis maps Redis ones.
func WrapSQL(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return New(err, http.StatusNotFound, NotFoundMessage)
	}

	return New(err, http.StatusServiceUnavailable, StorageErrorMessage)
}
