// Package commands contains the inputs of ledger mutations.
package commands

import "github.com/shopspring/decimal"

// CreateAccount opens an account for a customer.
type CreateAccount struct {
	CustomerID int64
	Number     string
	Currency   string
	Balance    decimal.Decimal
}

// Deposit credits an account owned by CustomerID.
type Deposit struct {
	CustomerID  int64
	AccountID   int64
	Amount      decimal.Decimal
	Description string
}

// Withdraw debits an account owned by CustomerID.
type Withdraw struct {
	CustomerID  int64
	AccountID   int64
	Amount      decimal.Decimal
	Description string
}

// Transfer moves money from an account owned by CustomerID to any account.
type Transfer struct {
	CustomerID    int64
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Description   string
}

// SaveCustomer carries the editable customer fields for create and update.
type SaveCustomer struct {
	FirstName string
	LastName  string
	Email     string
}
