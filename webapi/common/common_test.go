package common

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transferBody struct {
	ToAccountID int64  `json:"toAccountId" validate:"required,gt=0"`
	Note        string `json:"note,omitempty" validate:"max=3"`
	Internal    string `json:"-" validate:"max=1"`
}

func TestProblemDetailsJSON_ContentType(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Not Found", domain.NewError(domain.ErrNotFound, "account not found"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ProblemContentType, resp.Header.Get(fiber.HeaderContentType))

	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, "account not found", pd.Detail)
	assert.Equal(t, fiber.StatusNotFound, pd.Status)
}

func TestProblemDetailsJSON_HidesInternalErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Internal Server Error", assert.AnError)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, ProblemContentType, resp.Header.Get(fiber.HeaderContentType))
	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, "an internal error occurred", pd.Detail)
}

func TestBindAndValidate_ReportsJSONFieldNames(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		in, err := BindAndValidate[transferBody](c)
		if in == nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(`{"toAccountId":0,"note":"toolong"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ProblemContentType, resp.Header.Get(fiber.HeaderContentType))

	var pd struct {
		Errors []FieldError `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.ElementsMatch(t, []FieldError{
		{Field: "toAccountId", Message: "is required"},
		{Field: "note", Message: "must be at most 3 characters"},
	}, pd.Errors)
}

func TestBindAndValidate_Valid(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		in, err := BindAndValidate[transferBody](c)
		if in == nil {
			return err
		}
		return c.JSON(fiber.Map{"to": in.ToAccountID})
	})

	req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(`{"toAccountId":7}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
