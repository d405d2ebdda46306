package account

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/shopspring/decimal"
)

const (
	// MaxNumberLength is the widest account number the ledger stores.
	MaxNumberLength = 64
	// MaxCurrencyLength is the widest currency code the ledger stores.
	MaxCurrencyLength = 8
	// Scale is the number of fractional digits kept for money.
	Scale = 2
)

var (
	ErrAccountNotFound      = domain.NewError(domain.ErrNotFound, "account not found")
	ErrFromAccountNotFound  = domain.NewError(domain.ErrNotFound, "from account not found")
	ErrToAccountNotFound    = domain.NewError(domain.ErrNotFound, "to account not found")
	ErrCustomerNotFound     = domain.NewError(domain.ErrNotFound, "customer not found")
	ErrNegativeBalance      = domain.NewError(domain.ErrInvalidArgument, "balance cannot be negative")
	ErrAmountMustBePositive = domain.NewError(domain.ErrInvalidArgument, "amount must be positive")
	ErrTooManyDecimals      = domain.NewError(domain.ErrInvalidArgument, "amount must have at most 2 decimal places")
	ErrInsufficientFunds    = domain.NewError(domain.ErrInvalidArgument, "insufficient funds")
	ErrCurrencyMismatch     = domain.NewError(domain.ErrInvalidArgument, "currencies must match")
	ErrNumberRequired       = domain.NewError(domain.ErrInvalidArgument, "number is required")
	ErrNumberTooLong        = domain.NewError(domain.ErrInvalidArgument, "number must be at most 64 characters")
	ErrCurrencyRequired     = domain.NewError(domain.ErrInvalidArgument, "currency is required")
	ErrCurrencyTooLong      = domain.NewError(domain.ErrInvalidArgument, "currency must be at most 8 characters")
	ErrNumberAlreadyExists  = domain.NewError(domain.ErrConflict, "account number already exists")
	ErrBalanceNotZero       = domain.NewError(domain.ErrConflict, "balance must be 0 to delete")
)

// Account is a customer's money holder. Its balance never goes below zero.
type Account struct {
	ID         int64
	CustomerID int64
	Number     string
	Currency   string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New validates the opening state of an account. The returned account has no id yet.
// Number and currency are stored exactly as given; lengths count characters.
func New(customerID int64, number, currency string, balance decimal.Decimal) (*Account, error) {
	switch {
	case strings.TrimSpace(number) == "":
		return nil, ErrNumberRequired
	case utf8.RuneCountInString(number) > MaxNumberLength:
		return nil, ErrNumberTooLong
	case strings.TrimSpace(currency) == "":
		return nil, ErrCurrencyRequired
	case utf8.RuneCountInString(currency) > MaxCurrencyLength:
		return nil, ErrCurrencyTooLong
	case balance.IsNegative():
		return nil, ErrNegativeBalance
	case !hasScale(balance):
		return nil, ErrTooManyDecimals
	}
	return &Account{
		CustomerID: customerID,
		Number:     number,
		Currency:   currency,
		Balance:    balance,
	}, nil
}

// IsOwnedBy reports whether the account belongs to the customer.
func (a *Account) IsOwnedBy(customerID int64) bool {
	return a.CustomerID == customerID
}

// Deposit credits amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw debits amount from the balance.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// CanTransferTo checks the rules that involve both sides of a transfer.
// dest may be a itself; such a transfer nets to zero.
func (a *Account) CanTransferTo(dest *Account, amount decimal.Decimal) error {
	if a.Currency != dest.Currency {
		return ErrCurrencyMismatch
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// CanDelete reports whether the account may be removed.
func (a *Account) CanDelete() error {
	if !a.Balance.IsZero() {
		return ErrBalanceNotZero
	}
	return nil
}

// ValidateAmount checks that a money movement amount is strictly positive and
// representable in the ledger.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if !hasScale(amount) {
		return ErrTooManyDecimals
	}
	return nil
}

func hasScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(Scale))
}
