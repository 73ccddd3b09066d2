package remote

import (
	"context"

	"finbridge/internal/domain/finance"
)

// ClientInterface defines the methods required from the finance API client
type ClientInterface interface {
	GetAccountByID(ctx context.Context, id int) (*finance.Account, error)
	GetAccounts(ctx context.Context) ([]finance.Account, error)
	GetTransactionsForPeriod(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error)
	GetAllCategories(ctx context.Context) ([]finance.Category, error)
	UpdateAccount(ctx context.Context, id int, req finance.UpdateAccountRequest) (*finance.Account, error)
	AddTransaction(ctx context.Context, req finance.TransactionRequest) (*finance.Transaction, error)
	GetTransactionByID(ctx context.Context, id int) (*finance.Transaction, error)
	EditTransaction(ctx context.Context, id int, req finance.TransactionRequest) (*finance.Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
}
