package account

import (
	"github.com/amirasaad/bank/pkg/commands"
	accountsvc "github.com/amirasaad/bank/pkg/service/account"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
)

// Routes registers the account endpoints. Reads are public; every mutation
// goes through protect.
//
// Routes:
//   - GET    /api/customers/:customerId/accounts                       : List a customer's accounts.
//   - POST   /api/customers/:customerId/accounts                       : Open an account.
//   - GET    /api/customers/:customerId/accounts/:accountId            : Get an owned account.
//   - DELETE /api/customers/:customerId/accounts/:accountId            : Delete an empty account.
//   - POST   /api/customers/:customerId/accounts/:accountId/deposit    : Deposit money.
//   - POST   /api/customers/:customerId/accounts/:accountId/withdraw   : Withdraw money.
//   - POST   /api/customers/:customerId/accounts/:accountId/transfer   : Transfer money.
//   - GET    /api/customers/:customerId/accounts/:accountId/transactions : Recent ledger entries.
//   - GET    /api/accounts/:accountId                                  : Public account lookup.
func Routes(app fiber.Router, svc *accountsvc.Service, protect fiber.Handler) {
	owned := app.Group("/api/customers/:customerId/accounts")
	owned.Get("", ListAccounts(svc))
	owned.Post("", protect, CreateAccount(svc))
	owned.Get("/:accountId", GetAccount(svc))
	owned.Delete("/:accountId", protect, DeleteAccount(svc))
	owned.Post("/:accountId/deposit", protect, Deposit(svc))
	owned.Post("/:accountId/withdraw", protect, Withdraw(svc))
	owned.Post("/:accountId/transfer", protect, Transfer(svc))
	owned.Get("/:accountId/transactions", GetTransactions(svc))

	app.Get("/api/accounts/:accountId", GetPublicAccount(svc))
}

func ownedIDs(c *fiber.Ctx) (customerID, accountID int64, err error) {
	if customerID, err = common.ParseID(c, "customerId"); err != nil {
		return
	}
	accountID, err = common.ParseID(c, "accountId")
	return
}

// ListAccounts returns a handler listing a customer's accounts.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/customers/{customerId}/accounts [get]
func ListAccounts(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, err := common.ParseID(c, "customerId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err)
		}
		accounts, err := svc.ListByCustomer(c.UserContext(), customerID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", toAccountDTOs(accounts))
	}
}

// CreateAccount returns a handler opening an account for the customer.
// @Summary Open an account
// @Description Opens an account with a unique number, a currency code and an optional opening balance.
// @Tags accounts
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Failure 409 {object} common.ProblemDetails "Number already exists"
// @Router /api/customers/{customerId}/accounts [post]
// @Security BasicAuth
// @Security Bearer
func CreateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, err := common.ParseID(c, "customerId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err)
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		balance := decimal.Zero
		if input.Balance != nil {
			balance = *input.Balance
		}
		a, err := svc.Create(c.UserContext(), commands.CreateAccount{
			CustomerID: customerID,
			Number:     input.Number,
			Currency:   input.Currency,
			Balance:    balance,
		})
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", toAccountDTO(a))
	}
}

// GetAccount returns a handler fetching an account owned by the customer.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param accountId path int true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /api/customers/{customerId}/accounts/{accountId} [get]
func GetAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, accountID, err := ownedIDs(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid ID", err)
		}
		a, err := svc.Get(c.UserContext(), customerID, accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", toAccountDTO(a))
	}
}

// GetPublicAccount returns a handler looking up any account by id.
// @Summary Look up an account
// @Tags accounts
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /api/accounts/{accountId} [get]
func GetPublicAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := common.ParseID(c, "accountId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		a, err := svc.GetPublic(c.UserContext(), accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", toAccountDTO(a))
	}
}

// DeleteAccount returns a handler deleting an account with a zero balance.
// @Summary Delete an account
// @Tags accounts
// @Param customerId path int true "Customer ID"
// @Param accountId path int true "Account ID"
// @Success 204
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Balance is not zero"
// @Router /api/customers/{customerId}/accounts/{accountId} [delete]
// @Security BasicAuth
// @Security Bearer
func DeleteAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, accountID, err := ownedIDs(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid ID", err)
		}
		if err := svc.Delete(c.UserContext(), customerID, accountID); err != nil {
			log.Errorf("Failed to delete account %d: %v", accountID, err)
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Deposit returns a handler crediting an owned account.
// @Summary Deposit funds into an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param accountId path int true "Account ID"
// @Param request body MoneyRequest true "Deposit details"
// @Success 200 {object} common.Response "Deposit successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /api/customers/{customerId}/accounts/{accountId}/deposit [post]
// @Security BasicAuth
// @Security Bearer
func Deposit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, accountID, err := ownedIDs(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid ID", err)
		}
		input, err := common.BindAndValidate[MoneyRequest](c)
		if input == nil {
			return err
		}
		tx, err := svc.Deposit(c.UserContext(), commands.Deposit{
			CustomerID:  customerID,
			AccountID:   accountID,
			Amount:      *input.Amount,
			Description: input.Description,
		})
		if err != nil {
			log.Errorf("Failed to deposit: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to deposit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", toTransactionDTO(tx))
	}
}

// Withdraw returns a handler debiting an owned account.
// @Summary Withdraw funds from an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param accountId path int true "Account ID"
// @Param request body MoneyRequest true "Withdrawal details"
// @Success 200 {object} common.Response "Withdrawal successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request or insufficient funds"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /api/customers/{customerId}/accounts/{accountId}/withdraw [post]
// @Security BasicAuth
// @Security Bearer
func Withdraw(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, accountID, err := ownedIDs(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid ID", err)
		}
		input, err := common.BindAndValidate[MoneyRequest](c)
		if input == nil {
			return err
		}
		tx, err := svc.Withdraw(c.UserContext(), commands.Withdraw{
			CustomerID:  customerID,
			AccountID:   accountID,
			Amount:      *input.Amount,
			Description: input.Description,
		})
		if err != nil {
			log.Errorf("Failed to withdraw: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to withdraw", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal successful", toTransactionDTO(tx))
	}
}

// Transfer returns a handler moving money from an owned account to any account.
// @Summary Transfer funds between accounts
// @Tags accounts
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param accountId path int true "Source account ID"
// @Param request body TransferRequest true "Transfer details"
// @Success 200 {object} common.Response "Transfer successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request, currency mismatch or insufficient funds"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Source or destination not found"
// @Router /api/customers/{customerId}/accounts/{accountId}/transfer [post]
// @Security BasicAuth
// @Security Bearer
func Transfer(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, accountID, err := ownedIDs(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid ID", err)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		tx, err := svc.Transfer(c.UserContext(), commands.Transfer{
			CustomerID:    customerID,
			FromAccountID: accountID,
			ToAccountID:   input.ToAccountID,
			Amount:        *input.Amount,
			Description:   input.Description,
		})
		if err != nil {
			log.Errorf("Failed to transfer: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", toTransactionDTO(tx))
	}
}

// GetTransactions returns a handler listing recent ledger entries, newest first.
// @Summary List account transactions
// @Tags accounts
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param accountId path int true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /api/customers/{customerId}/accounts/{accountId}/transactions [get]
func GetTransactions(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, accountID, err := ownedIDs(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid ID", err)
		}
		txs, err := svc.ListTransactions(c.UserContext(), customerID, accountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", toTransactionDTOs(txs))
	}
}
