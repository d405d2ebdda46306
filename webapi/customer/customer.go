package customer

import (
	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain/customer"
	customersvc "github.com/amirasaad/bank/pkg/service/customer"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the customer directory endpoints.
func Routes(app fiber.Router, svc *customersvc.Service, protect fiber.Handler) {
	g := app.Group("/api/customers")
	g.Get("", ListCustomers(svc))
	g.Post("", protect, CreateCustomer(svc))
	g.Get("/search", SearchCustomers(svc))
	g.Get("/:id", GetCustomer(svc))
	g.Put("/:id", protect, UpdateCustomer(svc))
	g.Delete("/:id", protect, DeleteCustomer(svc))
}

// ListCustomers returns every customer ordered by id.
// @Summary List customers
// @Tags customers
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/customers [get]
func ListCustomers(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customers, err := svc.All(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list customers", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Customers fetched", toCustomerDTOs(customers))
	}
}

// CreateCustomer registers a customer.
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body SaveCustomerRequest true "Customer details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Email already exists"
// @Router /api/customers [post]
// @Security BasicAuth
// @Security Bearer
func CreateCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SaveCustomerRequest](c)
		if input == nil {
			return err
		}
		created, err := svc.Create(c.UserContext(), commands.SaveCustomer{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
		})
		if err != nil {
			log.Errorf("Failed to create customer: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create customer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Customer created", toCustomerDTO(created))
	}
}

// SearchCustomers pages through customers whose first or last name contains q.
// @Summary Search customers
// @Tags customers
// @Produce json
// @Param q query string false "Search text"
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /api/customers/search [get]
func SearchCustomers(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := common.QueryInt(c, "page", 0)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid page", err)
		}
		size, err := common.QueryInt(c, "size", customer.DefaultPageSize)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid size", err)
		}
		customers, err := svc.Search(c.UserContext(), c.Query("q"), page, size)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to search customers", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Customers fetched", toCustomerDTOs(customers))
	}
}

// GetCustomer returns one customer.
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /api/customers/{id} [get]
func GetCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err)
		}
		found, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get customer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Customer fetched", toCustomerDTO(found))
	}
}

// UpdateCustomer replaces every editable field of a customer.
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body SaveCustomerRequest true "Customer details"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Email already exists"
// @Router /api/customers/{id} [put]
// @Security BasicAuth
// @Security Bearer
func UpdateCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err)
		}
		input, err := common.BindAndValidate[SaveCustomerRequest](c)
		if input == nil {
			return err
		}
		updated, err := svc.Update(c.UserContext(), id, commands.SaveCustomer{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
		})
		if err != nil {
			log.Errorf("Failed to update customer %d: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to update customer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Customer updated", toCustomerDTO(updated))
	}
}

// DeleteCustomer removes a customer without accounts.
// @Summary Delete a customer
// @Tags customers
// @Param id path int true "Customer ID"
// @Success 204
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Customer has accounts"
// @Router /api/customers/{id} [delete]
// @Security BasicAuth
// @Security Bearer
func DeleteCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			log.Errorf("Failed to delete customer %d: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to delete customer", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
