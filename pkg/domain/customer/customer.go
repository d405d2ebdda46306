package customer

import (
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
)

var (
	// ErrCustomerNotFound is returned when a customer id does not resolve.
	ErrCustomerNotFound = domain.NewError(domain.ErrNotFound, "customer not found")
	// ErrEmailAlreadyExists is returned when another customer already uses the email.
	ErrEmailAlreadyExists = domain.NewError(domain.ErrConflict, "email already exists")
	// ErrHasAccounts is returned when deleting a customer that still owns accounts.
	ErrHasAccounts = domain.NewError(domain.ErrConflict, "customer has accounts")
	// ErrFirstNameRequired is returned for a blank first name.
	ErrFirstNameRequired = domain.NewError(domain.ErrInvalidArgument, "firstName is required")
	// ErrEmailRequired is returned for a blank email.
	ErrEmailRequired = domain.NewError(domain.ErrInvalidArgument, "email is required")
	// ErrInvalidPage is returned for a negative page or an out of range page size.
	ErrInvalidPage = domain.NewError(domain.ErrInvalidArgument, "page must be >= 0 and size between 1 and 100")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Customer owns accounts. Email is unique across customers.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New validates the fields of a customer that is about to be stored.
func New(firstName, lastName, email string) (*Customer, error) {
	c := &Customer{}
	if err := c.Replace(firstName, lastName, email); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace overwrites all editable fields.
func (c *Customer) Replace(firstName, lastName, email string) error {
	firstName = strings.TrimSpace(firstName)
	email = strings.TrimSpace(email)
	if firstName == "" {
		return ErrFirstNameRequired
	}
	if email == "" {
		return ErrEmailRequired
	}
	c.FirstName = firstName
	c.LastName = strings.TrimSpace(lastName)
	c.Email = email
	return nil
}

// ValidatePage checks search paging input.
func ValidatePage(page, size int) error {
	if page < 0 || size < 1 || size > MaxPageSize {
		return ErrInvalidPage
	}
	return nil
}
