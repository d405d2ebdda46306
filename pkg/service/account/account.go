// Package account implements the account operations of the ledger: opening and
// closing accounts, deposits, withdrawals, transfers and history.
//
// Every mutation runs as one unit of work. Balances are read with a row lock
// and written back in the same transaction, so concurrent operations on an
// account serialize in the database instead of in process.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
	"github.com/amirasaad/bank/pkg/repository"
)

// Service provides business logic for account operations.
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
		logger: logger.With("service", "account"),
	}
}

// Create opens an account for an existing customer.
func (s *Service) Create(ctx context.Context, cmd commands.CreateAccount) (a *account.Account, err error) {
	a, err = account.New(cmd.CustomerID, cmd.Number, cmd.Currency, cmd.Balance)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		customers, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		if _, err := customers.Get(ctx, cmd.CustomerID); err != nil {
			return notFoundAs(err, account.ErrCustomerNotFound)
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := accounts.Create(ctx, a); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return account.ErrNumberAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created", "accountID", a.ID, "customerID", a.CustomerID, "currency", a.Currency)
	s.emit(ctx, events.AccountCreated{
		Meta:       events.NewMeta(),
		AccountID:  a.ID,
		CustomerID: a.CustomerID,
		Number:     a.Number,
		Currency:   a.Currency,
		Balance:    a.Balance,
	})
	return a, nil
}

// Get returns the account when it is owned by customerID. An account owned by
// someone else is reported exactly like a missing one.
func (s *Service) Get(ctx context.Context, customerID, accountID int64) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = ownedAccount(ctx, accounts.Get, customerID, accountID, account.ErrAccountNotFound)
		return err
	})
	if err != nil {
		a = nil
	}
	return
}

// GetPublic returns an account by id without an ownership check.
func (s *Service) GetPublic(ctx context.Context, accountID int64) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = accounts.Get(ctx, accountID)
		return notFoundAs(err, account.ErrAccountNotFound)
	})
	if err != nil {
		a = nil
	}
	return
}

// ListByCustomer returns every account owned by customerID.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) (accounts []*account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = repo.ListByCustomer(ctx, customerID)
		return err
	})
	if err != nil {
		accounts = nil
	}
	return
}

// ListTransactions returns the newest ledger entries of an owned account,
// at most account.HistoryLimit of them.
func (s *Service) ListTransactions(ctx context.Context, customerID, accountID int64) (txs []*account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err := ownedAccount(ctx, accounts.Get, customerID, accountID, account.ErrAccountNotFound); err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = transactions.ListRecent(ctx, accountID, account.HistoryLimit)
		return err
	})
	if err != nil {
		txs = nil
	}
	return
}

// Delete removes an owned account with a zero balance together with its
// ledger entries.
func (s *Service) Delete(ctx context.Context, customerID, accountID int64) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := ownedAccount(ctx, accounts.GetForUpdate, customerID, accountID, account.ErrAccountNotFound)
		if err != nil {
			return err
		}
		if err := a.CanDelete(); err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if err := transactions.DeleteByAccount(ctx, accountID); err != nil {
			return err
		}
		return notFoundAs(accounts.Delete(ctx, accountID), account.ErrAccountNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("account deleted", "accountID", accountID, "customerID", customerID)
	s.emit(ctx, events.AccountDeleted{
		Meta:       events.NewMeta(),
		AccountID:  accountID,
		CustomerID: customerID,
	})
	return nil
}

// emit publishes an event for work that is already committed. A failure is
// logged and otherwise ignored.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit event", "type", event.Type(), "error", err)
	}
}

type accountLoader func(ctx context.Context, id int64) (*account.Account, error)

// ownedAccount loads an account and hides both absence and foreign ownership
// behind notFound.
func ownedAccount(
	ctx context.Context,
	load accountLoader,
	customerID, accountID int64,
	notFound error,
) (*account.Account, error) {
	a, err := load(ctx, accountID)
	if err != nil {
		return nil, notFoundAs(err, notFound)
	}
	if !a.IsOwnedBy(customerID) {
		return nil, notFound
	}
	return a, nil
}

func notFoundAs(err, target error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return target
	}
	return err
}
