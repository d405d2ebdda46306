// Package common holds the response envelope, problem details and request
// binding shared by the HTTP handlers.
package common

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the per-field failures of a rejected body.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidArgument }

// ProblemContentType is the media type of every error response.
const ProblemContentType = "application/problem+json"

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes err as application/problem+json. opts may carry
// a detail string overriding err's message and an explicit status code;
// without one the status follows the error kind.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, opts ...any) error {
	status := ErrorToStatusCode(err)
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	for _, opt := range opts {
		switch v := opt.(type) {
		case int:
			status = v
		case string:
			detail = v
		}
	}

	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		pd.Errors = verr.Fields
	}
	if status >= fiber.StatusInternalServerError && domain.Kind(err) == nil {
		// infrastructure failures are not described to the client
		pd.Detail = "an internal error occurred"
	}
	return c.Status(status).JSON(pd, ProblemContentType)
}

// ErrorToStatusCode maps a failure kind to its HTTP status.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch domain.Kind(err) {
	case domain.ErrInvalidArgument:
		return fiber.StatusBadRequest
	case domain.ErrNotFound:
		return fiber.StatusNotFound
	case domain.ErrConflict:
		return fiber.StatusConflict
	case domain.ErrUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body into T and validates it.
// On failure the problem response is already written and nil is returned
// together with the write error, if any.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, "request body is not valid JSON", fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
		}
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", &ValidationError{Fields: fields}, fiber.StatusBadRequest)
	}
	return &input, nil
}

// ParseID reads a positive integer path parameter.
func ParseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// QueryInt reads an integer query parameter, falling back to def when absent.
func QueryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
