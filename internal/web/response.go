package web

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/goserg/matchrating/internal/auth"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/storage"
)

// errorPayload is the error envelope of the JSON API.
type errorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"fieldErrors,omitempty"`
}

func mapError(err error) (int, errorPayload) {
	if errors.Is(err, service.ErrInvalidInput) {
		return fiber.StatusBadRequest, errorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}
	var fe *fiber.Error
	switch {
	case errors.Is(err, auth.ErrNotAuthorized):
		return fiber.StatusUnauthorized, errorPayload{Error: "unauthorized", Message: "a valid token is required"}
	case errors.Is(err, storage.ErrNotRosterMember):
		return fiber.StatusNotFound, errorPayload{Error: "not_found", Message: err.Error()}
	case errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound, errorPayload{Error: "not_found"}
	case errors.Is(err, storage.ErrAlreadyExists):
		return fiber.StatusConflict, errorPayload{Error: "already_exists"}
	case errors.Is(err, storage.ErrInvalidValue):
		return fiber.StatusBadRequest, errorPayload{Error: "invalid_input", Message: err.Error()}
	case errors.Is(err, storage.ErrConflict):
		return fiber.StatusConflict, errorPayload{Error: "conflict", Message: err.Error()}
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return fe.Code, errorPayload{Error: strings.ToLower(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_")), Message: fe.Message}
	default:
		return fiber.StatusInternalServerError, errorPayload{Error: "internal_error"}
	}
}

func (s *Server) writeError(c *fiber.Ctx, err error) error {
	status, payload := mapError(err)
	if status >= fiber.StatusInternalServerError {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
	}
	return c.Status(status).JSON(payload)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts validator errors into field errors keyed by json names.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: err.Error()}})
	}
	fields := make([]service.FieldError, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		fields = append(fields, service.FieldError{Field: field, Message: fieldMessage(fe)})
	}
	return service.NewInvalidInputError(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be >= " + fe.Param()
	case "max":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "uuid":
		return "must be a valid id"
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}

// parseBody decodes and validates a JSON request body.
func (s *Server) parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "malformed JSON"}})
	}
	if err := s.validate.Struct(dest); err != nil {
		return validationError(err)
	}
	return nil
}
