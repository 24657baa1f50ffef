package services

import (
	"errors"
	"net/http"

	fixture_errors "messenger-fixtures/pkg/errors"
)

// HTTPStatus maps package sentinels to response status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, fixture_errors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, fixture_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fixture_errors.ErrAlreadyExists), errors.Is(err, fixture_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, fixture_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
