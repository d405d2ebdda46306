package customer

import (
	"time"

	"github.com/amirasaad/bank/pkg/domain/customer"
)

// SaveCustomerRequest is the body of both create and full update.
type SaveCustomerRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

type CustomerDTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCustomerDTO(c *customer.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCustomerDTOs(customers []*customer.Customer) []*CustomerDTO {
	out := make([]*CustomerDTO, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerDTO(c))
	}
	return out
}
