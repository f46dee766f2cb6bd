package errx

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to AppError. redis.Nil becomes a 404 so callers
// can treat a missing key as absent state.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(err, http.StatusNotFound, NotFoundMessage)
	}

	return New(err, http.StatusServiceUnavailable, StorageErrorMessage)
}
