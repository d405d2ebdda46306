// Command bank-cli runs ledger operations directly against the configured
// database, without going through HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/amirasaad/bank/infra"
	infraeventbus "github.com/amirasaad/bank/infra/eventbus"
	infrarepository "github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/customer"
	accountsvc "github.com/amirasaad/bank/pkg/service/account"
	customersvc "github.com/amirasaad/bank/pkg/service/customer"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const usage = `Usage: bank-cli <command> [arguments]

Commands:
  customers
  customer-create <firstName> <email> [lastName]
  accounts <customerId>
  account-create <customerId> <currency> [balance] [number]
  deposit <customerId> <accountId> <amount> [description]
  withdraw <customerId> <accountId> <amount> [description]
  transfer <customerId> <fromId> <toId> <amount> [description]
  history <customerId> <accountId>
`

var errUsage = errors.New("invalid arguments")

func main() {
	color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			color.New(color.FgRed).Fprintln(os.Stderr, "error:", err) //nolint: errcheck
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return err
	}
	if cfg.DB.Migrate {
		if err := infra.Migrate(ctx, db); err != nil {
			return err
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uow := infrarepository.NewUoW(db)
	bus := infraeventbus.NewWithMemory(logger)
	c := &cli{
		accounts:  accountsvc.New(bus, uow, logger),
		customers: customersvc.New(bus, uow, logger),
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
	return c.run(ctx, args)
}

type cli struct {
	accounts  *accountsvc.Service
	customers *customersvc.Service
	out       io.Writer
	errOut    io.Writer
}

var (
	header  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	amount  = color.New(color.FgYellow).SprintFunc()
)

func (c *cli) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "customers":
		return c.listCustomers(ctx)
	case "customer-create":
		return c.createCustomer(ctx, rest)
	case "accounts":
		return c.listAccounts(ctx, rest)
	case "account-create":
		return c.createAccount(ctx, rest)
	case "deposit", "withdraw":
		return c.move(ctx, cmd, rest)
	case "transfer":
		return c.transfer(ctx, rest)
	case "history":
		return c.history(ctx, rest)
	default:
		fmt.Fprintf(c.errOut, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

func (c *cli) need(args []string, min int, form string) error {
	if len(args) < min {
		fmt.Fprintf(c.errOut, "Usage: bank-cli %s\n", form)
		return errUsage
	}
	return nil
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

func parseIDs(names []string, raw []string) ([]int64, error) {
	ids := make([]int64, len(names))
	for i, name := range names {
		id, err := parseID(name, raw[i])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return d, nil
}

func optional(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

func (c *cli) printCustomer(cu *customer.Customer) {
	name := strings.TrimSpace(cu.FirstName + " " + cu.LastName)
	fmt.Fprintf(c.out, "%-6d %-30s %s\n", cu.ID, name, cu.Email)
}

func (c *cli) printAccount(a *account.Account) {
	fmt.Fprintf(c.out, "%-6d %-24s %-4s %s\n", a.ID, a.Number, a.Currency, amount(a.Balance.StringFixed(account.Scale)))
}

func (c *cli) listCustomers(ctx context.Context) error {
	customers, err := c.customers.All(ctx)
	if err != nil {
		return err
	}
	header.Fprintf(c.out, "%-6s %-30s %s\n", "ID", "NAME", "EMAIL") //nolint: errcheck
	for _, cu := range customers {
		c.printCustomer(cu)
	}
	return nil
}

func (c *cli) createCustomer(ctx context.Context, args []string) error {
	if err := c.need(args, 2, "customer-create <firstName> <email> [lastName]"); err != nil {
		return err
	}
	cu, err := c.customers.Create(ctx, commands.SaveCustomer{
		FirstName: args[0],
		Email:     args[1],
		LastName:  optional(args, 2),
	})
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Customer created: %d\n", cu.ID) //nolint: errcheck
	return nil
}

func (c *cli) listAccounts(ctx context.Context, args []string) error {
	if err := c.need(args, 1, "accounts <customerId>"); err != nil {
		return err
	}
	customerID, err := parseID("customerId", args[0])
	if err != nil {
		return err
	}
	accounts, err := c.accounts.ListByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	header.Fprintf(c.out, "%-6s %-24s %-4s %s\n", "ID", "NUMBER", "CCY", "BALANCE") //nolint: errcheck
	for _, a := range accounts {
		c.printAccount(a)
	}
	return nil
}

func (c *cli) createAccount(ctx context.Context, args []string) error {
	if err := c.need(args, 2, "account-create <customerId> <currency> [balance] [number]"); err != nil {
		return err
	}
	customerID, err := parseID("customerId", args[0])
	if err != nil {
		return err
	}
	balance := decimal.Zero
	if raw := optional(args, 2); raw != "" {
		if balance, err = parseAmount(raw); err != nil {
			return err
		}
	}
	number := optional(args, 3)
	if number == "" {
		number = "ACC-" + strings.ToUpper(uuid.NewString()[:8])
	}
	a, err := c.accounts.Create(ctx, commands.CreateAccount{
		CustomerID: customerID,
		Number:     number,
		Currency:   args[1],
		Balance:    balance,
	})
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Account created: ID=%d Number=%s\n", a.ID, a.Number) //nolint: errcheck
	return nil
}

func (c *cli) move(ctx context.Context, cmd string, args []string) error {
	if err := c.need(args, 3, cmd+" <customerId> <accountId> <amount> [description]"); err != nil {
		return err
	}
	ids, err := parseIDs([]string{"customerId", "accountId"}, args)
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	var tx *account.Transaction
	if cmd == "deposit" {
		tx, err = c.accounts.Deposit(ctx, commands.Deposit{
			CustomerID: ids[0], AccountID: ids[1], Amount: amt, Description: optional(args, 3),
		})
	} else {
		tx, err = c.accounts.Withdraw(ctx, commands.Withdraw{
			CustomerID: ids[0], AccountID: ids[1], Amount: amt, Description: optional(args, 3),
		})
	}
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "%s %s, balance %s\n", tx.Type, amount(tx.Amount.StringFixed(account.Scale)), //nolint: errcheck
		amount(tx.BalanceAfter.Decimal.StringFixed(account.Scale)))
	return nil
}

func (c *cli) transfer(ctx context.Context, args []string) error {
	if err := c.need(args, 4, "transfer <customerId> <fromId> <toId> <amount> [description]"); err != nil {
		return err
	}
	ids, err := parseIDs([]string{"customerId", "fromId", "toId"}, args)
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[3])
	if err != nil {
		return err
	}
	tx, err := c.accounts.Transfer(ctx, commands.Transfer{
		CustomerID:    ids[0],
		FromAccountID: ids[1],
		ToAccountID:   ids[2],
		Amount:        amt,
		Description:   optional(args, 4),
	})
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Transferred %s from %d to %d, balance %s\n", //nolint: errcheck
		amount(tx.Amount.StringFixed(account.Scale)), ids[1], ids[2],
		amount(tx.BalanceAfter.Decimal.StringFixed(account.Scale)))
	return nil
}

func (c *cli) history(ctx context.Context, args []string) error {
	if err := c.need(args, 2, "history <customerId> <accountId>"); err != nil {
		return err
	}
	ids, err := parseIDs([]string{"customerId", "accountId"}, args)
	if err != nil {
		return err
	}
	txs, err := c.accounts.ListTransactions(ctx, ids[0], ids[1])
	if err != nil {
		return err
	}
	header.Fprintf(c.out, "%-20s %-13s %12s %12s  %s\n", "TIME", "TYPE", "AMOUNT", "BALANCE", "DESCRIPTION") //nolint: errcheck
	for _, tx := range txs {
		balance := "-"
		if tx.BalanceAfter.Valid {
			balance = tx.BalanceAfter.Decimal.StringFixed(account.Scale)
		}
		fmt.Fprintf(c.out, "%-20s %-13s %12s %12s  %s\n",
			tx.CreatedAt.Format("2006-01-02 15:04:05"), tx.Type,
			tx.Amount.StringFixed(account.Scale), balance, tx.Description)
	}
	return nil
}
