package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypeDeposit     TransactionType = "DEPOSIT"
	TypeWithdraw    TransactionType = "WITHDRAW"
	TypeTransferOut TransactionType = "TRANSFER_OUT"
	TypeTransferIn  TransactionType = "TRANSFER_IN"
)

// HistoryLimit caps how many entries a history listing returns.
const HistoryLimit = 100

// Transaction is an append-only ledger entry on one account.
type Transaction struct {
	ID           int64
	AccountID    int64
	Type         TransactionType
	Amount       decimal.Decimal
	BalanceAfter decimal.NullDecimal
	Description  string
	CreatedAt    time.Time
}

// NewTransaction records a movement of amount on the account, snapshotting the
// balance the account holds once the movement is applied.
func NewTransaction(
	a *Account,
	typ TransactionType,
	amount decimal.Decimal,
	description string,
) *Transaction {
	return &Transaction{
		AccountID:    a.ID,
		Type:         typ,
		Amount:       amount,
		BalanceAfter: decimal.NewNullDecimal(a.Balance),
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
}
