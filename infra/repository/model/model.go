// Package model holds the gorm models backing the ledger tables.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a customer record in the database.
type Customer struct {
	ID        int64  `gorm:"primaryKey"`
	FirstName string `gorm:"size:255;not null"`
	LastName  string `gorm:"size:255"`
	Email     string `gorm:"size:255;not null;uniqueIndex:ux_customers_email"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Customer model.
func (Customer) TableName() string {
	return "customers"
}

// Account represents an account record in the database.
type Account struct {
	ID         int64           `gorm:"primaryKey"`
	CustomerID int64           `gorm:"not null;index:ix_accounts_customer_id"`
	Number     string          `gorm:"size:64;not null;uniqueIndex:ux_accounts_number"`
	Currency   string          `gorm:"size:8;not null"`
	Balance    decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a ledger entry in the database.
type Transaction struct {
	ID           int64               `gorm:"primaryKey"`
	AccountID    int64               `gorm:"not null;index:ix_account_transactions_account_id"`
	Type         string              `gorm:"size:20;not null"`
	Amount       decimal.Decimal     `gorm:"type:numeric(19,2);not null"`
	BalanceAfter decimal.NullDecimal `gorm:"type:numeric(19,2)"`
	Description  string              `gorm:"size:255"`
	CreatedAt    time.Time           `gorm:"not null;index:ix_account_transactions_created_at"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "account_transactions"
}

// All lists every model, in dependency order, for schema migration.
func All() []any {
	return []any{&Customer{}, &Account{}, &Transaction{}}
}
