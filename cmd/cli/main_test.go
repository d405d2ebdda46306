package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	infraeventbus "github.com/amirasaad/bank/infra/eventbus"
	infrarepository "github.com/amirasaad/bank/infra/repository"
	accountsvc "github.com/amirasaad/bank/pkg/service/account"
	customersvc "github.com/amirasaad/bank/pkg/service/customer"
	"github.com/amirasaad/bank/pkg/testutils"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCLI(t *testing.T) (*cli, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uow := infrarepository.NewUoW(testutils.NewTestDB(t))
	bus := infraeventbus.NewWithMemory(logger)
	var out, errOut bytes.Buffer
	return &cli{
		accounts:  accountsvc.New(bus, uow, logger),
		customers: customersvc.New(bus, uow, logger),
		out:       &out,
		errOut:    &errOut,
	}, &out, &errOut
}

func TestCLI_Workflow(t *testing.T) {
	c, out, _ := newCLI(t)
	ctx := context.Background()
	step := func(args ...string) string {
		t.Helper()
		out.Reset()
		require.NoError(t, c.run(ctx, args))
		return out.String()
	}

	assert.Contains(t, step("customer-create", "Ada", "ada@example.com", "Lovelace"), "Customer created: 1")
	assert.Contains(t, step("customers"), "Ada Lovelace")

	assert.Contains(t, step("account-create", "1", "EUR", "100", "ACC-1"), "Number=ACC-1")
	assert.Contains(t, step("account-create", "1", "EUR"), "Number=ACC-")

	assert.Contains(t, step("deposit", "1", "1", "5.5", "gift"), "DEPOSIT 5.50, balance 105.50")
	assert.Contains(t, step("withdraw", "1", "1", "0.50"), "WITHDRAW 0.50, balance 105.00")
	assert.Contains(t, step("transfer", "1", "1", "2", "5"), "Transferred 5.00 from 1 to 2, balance 100.00")

	accounts := step("accounts", "1")
	assert.Contains(t, accounts, "100.00")
	assert.Contains(t, accounts, "5.00")

	history := step("history", "1", "1")
	assert.Contains(t, history, "TRANSFER_OUT")
	assert.Contains(t, history, "gift")
}

func TestCLI_Errors(t *testing.T) {
	c, _, errOut := newCLI(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.run(ctx, []string{"nope"}), errUsage)
	assert.Contains(t, errOut.String(), `unknown command "nope"`)

	assert.ErrorIs(t, c.run(ctx, []string{"deposit", "1"}), errUsage)
	assert.EqualError(t, c.run(ctx, []string{"accounts", "x"}), "customerId must be a positive integer")
	assert.EqualError(t, c.run(ctx, []string{"deposit", "1", "1", "ten"}), `invalid amount "ten"`)
	assert.EqualError(t, c.run(ctx, []string{"account-create", "7", "EUR"}), "customer not found")
}
