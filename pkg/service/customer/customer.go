// Package customer implements the customer directory: CRUD and name search
// with email uniqueness.
package customer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/customer"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
	"github.com/amirasaad/bank/pkg/repository"
)

// Service provides business logic for customer operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
}

// New creates a new Service.
func New(bus eventbus.Bus, uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{
		uow:    uow,
		bus:    bus,
		logger: logger.With("service", "customer"),
	}
}

// Create stores a new customer. The email must not be used by anyone else.
func (s *Service) Create(ctx context.Context, cmd commands.SaveCustomer) (c *customer.Customer, err error) {
	c, err = customer.New(cmd.FirstName, cmd.LastName, cmd.Email)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		if err := ensureEmailFree(ctx, repo, c.Email, 0); err != nil {
			return err
		}
		return conflictAsDuplicateEmail(repo.Create(ctx, c))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created", "customerID", c.ID)
	s.emit(ctx, events.CustomerCreated{CustomerChanged: changed(c)})
	return c, nil
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id int64) (c *customer.Customer, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		return notFound(err)
	})
	if err != nil {
		c = nil
	}
	return
}

// All lists every customer ordered by id.
func (s *Service) All(ctx context.Context) (customers []*customer.Customer, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		customers, err = repo.List(ctx)
		return err
	})
	if err != nil {
		customers = nil
	}
	return
}

// Update replaces all editable fields of a customer. Keeping the current
// email is always allowed; taking another customer's email is a conflict.
func (s *Service) Update(ctx context.Context, id int64, cmd commands.SaveCustomer) (c *customer.Customer, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if err := c.Replace(cmd.FirstName, cmd.LastName, cmd.Email); err != nil {
			return err
		}
		if err := ensureEmailFree(ctx, repo, c.Email, c.ID); err != nil {
			return err
		}
		return notFound(conflictAsDuplicateEmail(repo.Update(ctx, c)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer updated", "customerID", c.ID)
	s.emit(ctx, events.CustomerUpdated{CustomerChanged: changed(c)})
	return c, nil
}

// Search returns one page of customers whose first or last name contains
// query, ignoring case. A blank query pages through everyone.
func (s *Service) Search(ctx context.Context, query string, page, size int) (customers []*customer.Customer, err error) {
	if err := customer.ValidatePage(page, size); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		customers, err = repo.Search(ctx, query, page, size)
		return err
	})
	if err != nil {
		customers = nil
	}
	return
}

// Delete removes a customer that owns no accounts.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		if _, err := repo.Get(ctx, id); err != nil {
			return notFound(err)
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		owned, err := accounts.CountByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if owned > 0 {
			return customer.ErrHasAccounts
		}
		return notFound(repo.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	s.logger.Info("customer deleted", "customerID", id)
	s.emit(ctx, events.CustomerDeleted{CustomerChanged: events.CustomerChanged{
		Meta:       events.NewMeta(),
		CustomerID: id,
	}})
	return nil
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit event", "type", event.Type(), "error", err)
	}
}

func ensureEmailFree(ctx context.Context, repo repository.CustomerRepository, email string, excludeID int64) error {
	taken, err := repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return customer.ErrEmailAlreadyExists
	}
	return nil
}

// conflictAsDuplicateEmail covers the race where the unique index, not the
// pre-check, catches the duplicate.
func conflictAsDuplicateEmail(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return customer.ErrEmailAlreadyExists
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return customer.ErrCustomerNotFound
	}
	return err
}

func changed(c *customer.Customer) events.CustomerChanged {
	return events.CustomerChanged{
		Meta:       events.NewMeta(),
		CustomerID: c.ID,
		Email:      c.Email,
	}
}
