package account

import (
	"context"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/shopspring/decimal"
)

// Deposit credits an owned account and returns the DEPOSIT entry.
func (s *Service) Deposit(ctx context.Context, cmd commands.Deposit) (tx *account.Transaction, err error) {
	if err := account.ValidateAmount(cmd.Amount); err != nil {
		return nil, err
	}
	var a *account.Account
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = ownedAccount(ctx, accounts.GetForUpdate, cmd.CustomerID, cmd.AccountID, account.ErrAccountNotFound)
		if err != nil {
			return err
		}
		if err := a.Deposit(cmd.Amount); err != nil {
			return err
		}
		tx, err = s.record(ctx, uow, accounts, a, account.TypeDeposit, cmd.Amount, cmd.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit completed", "accountID", a.ID, "amount", cmd.Amount, "transactionID", tx.ID)
	s.emit(ctx, events.MoneyDeposited{MoneyMoved: moneyMoved(a, tx)})
	return tx, nil
}

// Withdraw debits an owned account and returns the WITHDRAW entry.
func (s *Service) Withdraw(ctx context.Context, cmd commands.Withdraw) (tx *account.Transaction, err error) {
	if err := account.ValidateAmount(cmd.Amount); err != nil {
		return nil, err
	}
	var a *account.Account
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = ownedAccount(ctx, accounts.GetForUpdate, cmd.CustomerID, cmd.AccountID, account.ErrAccountNotFound)
		if err != nil {
			return err
		}
		if err := a.Withdraw(cmd.Amount); err != nil {
			return err
		}
		tx, err = s.record(ctx, uow, accounts, a, account.TypeWithdraw, cmd.Amount, cmd.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal completed", "accountID", a.ID, "amount", cmd.Amount, "transactionID", tx.ID)
	s.emit(ctx, events.MoneyWithdrawn{MoneyMoved: moneyMoved(a, tx)})
	return tx, nil
}

// Transfer moves money from an owned account to any account with the same
// currency and returns the TRANSFER_OUT entry.
//
// Both rows are locked in ascending id order whatever the direction, so two
// opposite transfers between the same accounts cannot deadlock.
func (s *Service) Transfer(ctx context.Context, cmd commands.Transfer) (out *account.Transaction, err error) {
	if err := account.ValidateAmount(cmd.Amount); err != nil {
		return nil, err
	}
	var (
		in       *account.Transaction
		currency string
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, lockErrs := lockInOrder(ctx, accounts, cmd.FromAccountID, cmd.ToAccountID)

		from, ok := locked[cmd.FromAccountID]
		if !ok {
			return notFoundAs(lockErrs[cmd.FromAccountID], account.ErrFromAccountNotFound)
		}
		if !from.IsOwnedBy(cmd.CustomerID) {
			return account.ErrFromAccountNotFound
		}
		to, ok := locked[cmd.ToAccountID]
		if !ok {
			return notFoundAs(lockErrs[cmd.ToAccountID], account.ErrToAccountNotFound)
		}
		if err := from.CanTransferTo(to, cmd.Amount); err != nil {
			return err
		}

		currency = from.Currency
		if err := from.Withdraw(cmd.Amount); err != nil {
			return err
		}
		if err := to.Deposit(cmd.Amount); err != nil {
			return err
		}
		out, err = s.record(ctx, uow, accounts, from, account.TypeTransferOut, cmd.Amount, cmd.Description)
		if err != nil {
			return err
		}
		in, err = s.record(ctx, uow, accounts, to, account.TypeTransferIn, cmd.Amount, cmd.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer completed",
		"fromAccountID", cmd.FromAccountID,
		"toAccountID", cmd.ToAccountID,
		"amount", cmd.Amount,
		"transactionID", out.ID,
	)
	s.emit(ctx, events.MoneyTransferred{
		Meta:             events.NewMeta(),
		CustomerID:       cmd.CustomerID,
		FromAccountID:    cmd.FromAccountID,
		ToAccountID:      cmd.ToAccountID,
		OutTransactionID: out.ID,
		InTransactionID:  in.ID,
		Amount:           cmd.Amount,
		Currency:         currency,
	})
	return out, nil
}

// lockInOrder row-locks the given accounts in ascending id order. Accounts
// that fail to load are reported in the error map instead of the result.
func lockInOrder(
	ctx context.Context,
	accounts repository.AccountRepository,
	a, b int64,
) (map[int64]*account.Account, map[int64]error) {
	ids := []int64{a, b}
	if b < a {
		ids = []int64{b, a}
	}
	if a == b {
		ids = ids[:1]
	}
	locked := make(map[int64]*account.Account, len(ids))
	errs := make(map[int64]error)
	for _, id := range ids {
		acc, err := accounts.GetForUpdate(ctx, id)
		if err != nil {
			errs[id] = err
			continue
		}
		locked[id] = acc
	}
	return locked, errs
}

// record persists the account's new balance and appends the ledger entry
// snapshotting it.
func (s *Service) record(
	ctx context.Context,
	uow repository.UnitOfWork,
	accounts repository.AccountRepository,
	a *account.Account,
	typ account.TransactionType,
	amount decimal.Decimal,
	description string,
) (*account.Transaction, error) {
	if err := accounts.UpdateBalance(ctx, a.ID, a.Balance); err != nil {
		return nil, err
	}
	transactions, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	tx := account.NewTransaction(a, typ, amount, description)
	if err := transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func moneyMoved(a *account.Account, tx *account.Transaction) events.MoneyMoved {
	return events.MoneyMoved{
		Meta:          events.NewMeta(),
		AccountID:     a.ID,
		CustomerID:    a.CustomerID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Currency:      a.Currency,
		BalanceAfter:  a.Balance,
	}
}
