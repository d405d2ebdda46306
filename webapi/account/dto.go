package account

import (
	"time"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents the request body for opening an account.
type CreateAccountRequest struct {
	Number   string           `json:"number" validate:"required,max=64"`
	Currency string           `json:"currency" validate:"required,max=8"`
	Balance  *decimal.Decimal `json:"balance"`
}

// MoneyRequest represents the request body of a deposit or a withdrawal.
// Amount accepts a JSON number or a decimal string.
type MoneyRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Description string           `json:"description" validate:"max=255"`
}

// TransferRequest represents the request body for moving money between accounts.
type TransferRequest struct {
	ToAccountID int64            `json:"toAccountId" validate:"required,gt=0"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Description string           `json:"description" validate:"max=255"`
}

// AccountDTO is the API representation of an account.
type AccountDTO struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	Number     string    `json:"number"`
	Currency   string    `json:"currency"`
	Balance    string    `json:"balance"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TransactionDTO is the API representation of a ledger entry.
type TransactionDTO struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"accountId"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	BalanceAfter *string   `json:"balanceAfter,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(account.Scale)
}

func toAccountDTO(a *account.Account) *AccountDTO {
	return &AccountDTO{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Number:     a.Number,
		Currency:   a.Currency,
		Balance:    money(a.Balance),
		CreatedAt:  a.CreatedAt,
	}
}

func toAccountDTOs(accounts []*account.Account) []*AccountDTO {
	out := make([]*AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountDTO(a))
	}
	return out
}

func toTransactionDTO(tx *account.Transaction) *TransactionDTO {
	dto := &TransactionDTO{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Type:        string(tx.Type),
		Amount:      money(tx.Amount),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.BalanceAfter.Valid {
		b := money(tx.BalanceAfter.Decimal)
		dto.BalanceAfter = &b
	}
	return dto
}

func toTransactionDTOs(txs []*account.Transaction) []*TransactionDTO {
	out := make([]*TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionDTO(tx))
	}
	return out
}
