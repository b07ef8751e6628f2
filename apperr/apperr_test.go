package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{Validation("quantity is required", "quantity"), http.StatusBadRequest},
		{NotFound("instrument"), http.StatusNotFound},
		{Conflict("request is not pending"), http.StatusConflict},
		{Unauthorized("no session"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{Store("list instruments", errors.New("connection refused")), http.StatusInternalServerError},
		{errors.New("some driver error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, Status(tt.err), "error: %v", tt.err)
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	raw := errors.New("pq: deadlock detected")
	ae := From(raw)
	assert.Equal(t, KindStore, ae.Kind)
	assert.Equal(t, "internal error", ae.Message)
	assert.ErrorIs(t, ae, raw)
}

func TestFromKeepsWrappedKind(t *testing.T) {
	err := fmt.Errorf("approve: %w", Conflict("insufficient stock"))
	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, http.StatusConflict, Status(err))
}

func TestValidationFields(t *testing.T) {
	err := Validation("missing required fields", "name", "quantity")
	assert.Equal(t, []string{"name", "quantity"}, err.Fields)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestStoreUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Store("update instrument", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "update instrument failed")
}
