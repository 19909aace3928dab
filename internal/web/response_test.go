package web

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/goserg/matchrating/internal/auth"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/storage"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "invalid input",
			err:    service.NewInvalidInputError([]service.FieldError{{Field: "matchName", Message: "is required"}}),
			status: fiber.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "value rejected by the schema",
			err:    fmt.Errorf("%w: goals -1", storage.ErrInvalidValue),
			status: fiber.StatusBadRequest,
			code:   "invalid_input",
		},
		{name: "unauthorized", err: auth.ErrNotAuthorized, status: fiber.StatusUnauthorized, code: "unauthorized"},
		{name: "not rostered", err: storage.ErrNotRosterMember, status: fiber.StatusNotFound, code: "not_found"},
		{name: "not found", err: fmt.Errorf("get: %w", storage.ErrNotFound), status: fiber.StatusNotFound, code: "not_found"},
		{name: "conflict", err: storage.ErrConflict, status: fiber.StatusConflict, code: "conflict"},
		{name: "fiber error", err: fiber.ErrMethodNotAllowed, status: fiber.StatusMethodNotAllowed, code: "method_not_allowed"},
		{name: "unknown", err: errors.New("disk on fire"), status: fiber.StatusInternalServerError, code: "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, payload.Error)
		})
	}
}
