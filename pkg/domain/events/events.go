// Package events defines the ledger events emitted once a unit of work commits.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is anything published on the event bus.
type Event interface {
	Type() string
}

// Event type names.
const (
	EventTypeAccountCreated   = "account.created"
	EventTypeAccountDeleted   = "account.deleted"
	EventTypeMoneyDeposited   = "account.deposited"
	EventTypeMoneyWithdrawn   = "account.withdrawn"
	EventTypeMoneyTransferred = "account.transferred"
	EventTypeCustomerCreated  = "customer.created"
	EventTypeCustomerUpdated  = "customer.updated"
	EventTypeCustomerDeleted  = "customer.deleted"
)

// Meta is embedded in every event.
type Meta struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMeta stamps a fresh event id and time.
func NewMeta() Meta {
	return Meta{ID: uuid.New(), OccurredAt: time.Now().UTC()}
}

type AccountCreated struct {
	Meta
	AccountID  int64           `json:"account_id"`
	CustomerID int64           `json:"customer_id"`
	Number     string          `json:"number"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
}

type AccountDeleted struct {
	Meta
	AccountID  int64 `json:"account_id"`
	CustomerID int64 `json:"customer_id"`
}

// MoneyDeposited and MoneyWithdrawn share this shape.
type MoneyMoved struct {
	Meta
	AccountID     int64           `json:"account_id"`
	CustomerID    int64           `json:"customer_id"`
	TransactionID int64           `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

type MoneyDeposited struct{ MoneyMoved }

type MoneyWithdrawn struct{ MoneyMoved }

type MoneyTransferred struct {
	Meta
	CustomerID       int64           `json:"customer_id"`
	FromAccountID    int64           `json:"from_account_id"`
	ToAccountID      int64           `json:"to_account_id"`
	OutTransactionID int64           `json:"out_transaction_id"`
	InTransactionID  int64           `json:"in_transaction_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

type CustomerChanged struct {
	Meta
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email,omitempty"`
}

type CustomerCreated struct{ CustomerChanged }

type CustomerUpdated struct{ CustomerChanged }

type CustomerDeleted struct{ CustomerChanged }

func (AccountCreated) Type() string   { return EventTypeAccountCreated }
func (AccountDeleted) Type() string   { return EventTypeAccountDeleted }
func (MoneyDeposited) Type() string   { return EventTypeMoneyDeposited }
func (MoneyWithdrawn) Type() string   { return EventTypeMoneyWithdrawn }
func (MoneyTransferred) Type() string { return EventTypeMoneyTransferred }
func (CustomerCreated) Type() string  { return EventTypeCustomerCreated }
func (CustomerUpdated) Type() string  { return EventTypeCustomerUpdated }
func (CustomerDeleted) Type() string  { return EventTypeCustomerDeleted }

// EventTypes builds empty events by type name for decoding from a broker.
var EventTypes = map[string]func() Event{
	EventTypeAccountCreated:   func() Event { return &AccountCreated{} },
	EventTypeAccountDeleted:   func() Event { return &AccountDeleted{} },
	EventTypeMoneyDeposited:   func() Event { return &MoneyDeposited{} },
	EventTypeMoneyWithdrawn:   func() Event { return &MoneyWithdrawn{} },
	EventTypeMoneyTransferred: func() Event { return &MoneyTransferred{} },
	EventTypeCustomerCreated:  func() Event { return &CustomerCreated{} },
	EventTypeCustomerUpdated:  func() Event { return &CustomerUpdated{} },
	EventTypeCustomerDeleted:  func() Event { return &CustomerDeleted{} },
}

// AllTypes lists every event type name.
func AllTypes() []string {
	return []string{
		EventTypeAccountCreated,
		EventTypeAccountDeleted,
		EventTypeMoneyDeposited,
		EventTypeMoneyWithdrawn,
		EventTypeMoneyTransferred,
		EventTypeCustomerCreated,
		EventTypeCustomerUpdated,
		EventTypeCustomerDeleted,
	}
}
