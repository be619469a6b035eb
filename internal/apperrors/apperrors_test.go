// internal/apperrors/apperrors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindInvalidState, KindOf(InvalidState("wrong state")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindAuth, KindOf(Auth("denied")))
	assert.Equal(t, KindStorage, KindOf(Storage("db down", errors.New("conn refused"))))

	// Unknown errors default to a storage failure.
	assert.Equal(t, KindStorage, KindOf(errors.New("plain")))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("while saving: %w", NotFound("lot not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("x")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Auth("x")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(InvalidState("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Storage("x", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR", Code(Validation("x")))
	assert.Equal(t, "UNAUTHORIZED", Code(Auth("x")))
	assert.Equal(t, "NOT_FOUND", Code(NotFound("x")))
	assert.Equal(t, "INVALID_STATE", Code(InvalidState("x")))
	assert.Equal(t, "CONFLICT", Code(Conflict("x")))
	assert.Equal(t, "INTERNAL_ERROR", Code(Storage("x", nil)))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("conn refused")
	err := Storage("db down", cause)
	assert.True(t, errors.Is(err, cause))
}
