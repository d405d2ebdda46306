package repository

import (
	"context"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/customer"
	"github.com/shopspring/decimal"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id int64) (*account.Account, error)
	// GetForUpdate reads the account and holds a row lock on it until the
	// surrounding unit of work ends.
	GetForUpdate(ctx context.Context, id int64) (*account.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*account.Account, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
}

// TransactionRepository defines data access for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	// ListRecent returns at most limit entries of the account, newest first.
	ListRecent(ctx context.Context, accountID int64, limit int) ([]*account.Transaction, error)
	DeleteByAccount(ctx context.Context, accountID int64) error
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *customer.Customer) error
	Get(ctx context.Context, id int64) (*customer.Customer, error)
	List(ctx context.Context) ([]*customer.Customer, error)
	Update(ctx context.Context, c *customer.Customer) error
	Delete(ctx context.Context, id int64) error
	// ExistsByEmail reports whether a customer other than excludeID uses email.
	// Pass 0 to consider every customer.
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	// Search matches query as a case-insensitive substring of first or last
	// name. A blank query matches everyone. page is zero based.
	Search(ctx context.Context, query string, page, size int) ([]*customer.Customer, error)
}
