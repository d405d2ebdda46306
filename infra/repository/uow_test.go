package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/customer"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUoW_GetRepository(t *testing.T) {
	db, _ := newMockDB(t)
	uow := NewUoW(db)

	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	assert.IsType(t, &accountRepository{}, accounts)

	transactions, err := uow.TransactionRepository()
	require.NoError(t, err)
	assert.IsType(t, &transactionRepository{}, transactions)

	customers, err := uow.CustomerRepository()
	require.NoError(t, err)
	assert.IsType(t, &customerRepository{}, customers)

	_, err = uow.GetRepository(reflect.TypeOf((*error)(nil)).Elem())
	assert.Error(t, err)
}

func TestUoW_Do_CommitAndRollback(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := uow.Do(context.Background(), func(repository.UnitOfWork) error { return nil })
	assert.NoError(t, err)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = uow.Do(context.Background(), func(repository.UnitOfWork) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_Do_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	uow := NewUoW(testutils.NewTestDB(t))

	boom := errors.New("boom")
	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		customers, err := tx.CustomerRepository()
		if err != nil {
			return err
		}
		c, _ := customer.New("Ada", "", "ada@example.com")
		if err := customers.Create(ctx, c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	customers, err := uow.CustomerRepository()
	require.NoError(t, err)
	all, err := customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepositories_Sqlite(t *testing.T) {
	ctx := context.Background()
	uow := NewUoW(testutils.NewTestDB(t))
	customers, _ := uow.CustomerRepository()
	accounts, _ := uow.AccountRepository()
	transactions, _ := uow.TransactionRepository()

	c, _ := customer.New("Ada", "Lovelace", "ada@example.com")
	require.NoError(t, customers.Create(ctx, c))

	dup, _ := customer.New("Other", "", "ada@example.com")
	assert.ErrorIs(t, customers.Create(ctx, dup), domain.ErrConflict)

	a, _ := account.New(c.ID, "PL-1", "PLN", decimal.RequireFromString("10.00"))
	require.NoError(t, accounts.Create(ctx, a))

	same, _ := account.New(c.ID, "PL-1", "PLN", decimal.Zero)
	assert.ErrorIs(t, accounts.Create(ctx, same), domain.ErrConflict)

	n, err := accounts.CountByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	a.Balance = decimal.RequireFromString("25.00")
	require.NoError(t, accounts.UpdateBalance(ctx, a.ID, a.Balance))
	got, err := accounts.GetForUpdate(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Balance.StringFixed(2))

	first := account.NewTransaction(a, account.TypeDeposit, decimal.RequireFromString("15.00"), "first")
	require.NoError(t, transactions.Create(ctx, first))
	second := account.NewTransaction(a, account.TypeWithdraw, decimal.RequireFromString("5.00"), "second")
	second.CreatedAt = first.CreatedAt
	require.NoError(t, transactions.Create(ctx, second))

	entries, err := transactions.ListRecent(ctx, a.ID, account.HistoryLimit)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "ties on created_at break by id, newest first")
	assert.Equal(t, first.ID, entries[1].ID)

	limited, err := transactions.ListRecent(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, transactions.DeleteByAccount(ctx, a.ID))
	require.NoError(t, accounts.Delete(ctx, a.ID))
	_, err = accounts.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerRepository_Search_Sqlite(t *testing.T) {
	ctx := context.Background()
	uow := NewUoW(testutils.NewTestDB(t))
	customers, _ := uow.CustomerRepository()

	for _, n := range [][3]string{
		{"Anna", "Nowak", "anna@example.com"},
		{"Jan", "Kowalski", "jan@example.com"},
		{"Joanna", "Annanowicz", "joanna@example.com"},
		{"Per_cent", "100%", "odd@example.com"},
	} {
		c, err := customer.New(n[0], n[1], n[2])
		require.NoError(t, err)
		require.NoError(t, customers.Create(ctx, c))
	}

	names := func(cs []*customer.Customer) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.FirstName)
		}
		return out
	}

	result, err := customers.Search(ctx, "ANNA", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anna", "Joanna"}, names(result))

	result, err = customers.Search(ctx, "kowal", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jan"}, names(result))

	result, err = customers.Search(ctx, "   ", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anna", "Jan"}, names(result))

	result, err = customers.Search(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Joanna", "Per_cent"}, names(result))

	result, err = customers.Search(ctx, "%", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Per_cent"}, names(result), "wildcards match literally")

	result, err = customers.Search(ctx, "a_na", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, result)

	exists, err := customers.ExistsByEmail(ctx, "jan@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)
}
