package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/criteria"
	"github.com/spigell/team-matcher/internal/store"
)

// ErrBadRequest is a malformed path parameter or body.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// errNoAdvisor is returned by the AI endpoints when no advisor is configured.
var errNoAdvisor = errors.New("ai advisor is not configured")

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	var badRequest *ErrBadRequest
	var validation validator.ValidationErrors

	switch {
	case errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, criteria.ErrUnknownArchetype):
		return http.StatusNotFound
	case errors.Is(err, errNoAdvisor), errors.Is(err, ai.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
