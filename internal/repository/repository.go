// Package repository exposes the domain-level operations of the finance
// API. Every operation funnels through the request pipeline and returns a
// closed Result; no transport error or status code leaks to callers.
package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"finbridge/internal/domain/finance"
	"finbridge/internal/remote"
	"finbridge/internal/result"
	"finbridge/internal/watch"
)

const dateLayout = "2006-01-02"

// Repository composes the API client with result mapping and republishes
// the latest fetched account into a shared observable slot.
type Repository struct {
	api     remote.ClientInterface
	logger  *zap.Logger
	account *watch.AccountWatch
	group   singleflight.Group

	// now is replaced in tests to pin the current-month window.
	now func() time.Time
}

// New creates a repository over the given API client.
func New(api remote.ClientInterface, logger *zap.Logger) *Repository {
	return &Repository{
		api:     api,
		logger:  logger,
		account: watch.NewAccountWatch(),
		now:     time.Now,
	}
}

// AccountWatch returns the shared slot holding the latest known account.
func (r *Repository) AccountWatch() *watch.AccountWatch {
	return r.account
}

// resolveCurrentAccountID returns the id of the user's first account.
// Concurrent callers share a single in-flight lookup.
func (r *Repository) resolveCurrentAccountID(ctx context.Context) (int, error) {
	v, err, _ := r.group.Do("current-account-id", func() (any, error) {
		accounts, err := r.api.GetAccounts(ctx)
		if err != nil {
			return 0, err
		}
		if len(accounts) == 0 {
			return 0, ErrNoAccounts
		}
		return accounts[0].ID, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// GetHistory fetches the current account's transactions within
// [startDate, endDate], inclusive ISO calendar dates.
func (r *Repository) GetHistory(ctx context.Context, startDate, endDate string) result.Result[[]finance.Transaction] {
	accountID, err := r.resolveCurrentAccountID(ctx)
	if err != nil {
		return fail[[]finance.Transaction](err)
	}

	transactions, err := r.api.GetTransactionsForPeriod(ctx, accountID, startDate, endDate)
	if err != nil {
		r.logger.Warn("failed to fetch history",
			zap.String("start_date", startDate),
			zap.String("end_date", endDate),
			zap.Error(err))
		return fail[[]finance.Transaction](err)
	}
	return result.Ok(transactions)
}

// GetExpenseTransactions fetches the current month's expense transactions.
// On success with at least one expense, the embedded account of the first
// one is republished into the shared slot.
func (r *Repository) GetExpenseTransactions(ctx context.Context) result.Result[[]finance.Transaction] {
	return r.currentMonthByKind(ctx, false)
}

// GetIncomeTransactions fetches the current month's income transactions.
func (r *Repository) GetIncomeTransactions(ctx context.Context) result.Result[[]finance.Transaction] {
	return r.currentMonthByKind(ctx, true)
}

func (r *Repository) currentMonthByKind(ctx context.Context, income bool) result.Result[[]finance.Transaction] {
	startDate, endDate := r.currentMonthRange()

	history := r.GetHistory(ctx, startDate, endDate)
	if !history.IsOK() {
		return history
	}

	matched := make([]finance.Transaction, 0, len(history.Value()))
	for _, tx := range history.Value() {
		if tx.Category.IsIncome == income {
			matched = append(matched, tx)
		}
	}

	if len(matched) > 0 {
		r.account.Publish(matched[0].Account)
	}
	return result.Ok(matched)
}

func (r *Repository) currentMonthRange() (string, string) {
	today := r.now()
	startOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return startOfMonth.Format(dateLayout), today.Format(dateLayout)
}

// GetMainAccount fetches the user's current account and republishes it
// into the shared slot.
func (r *Repository) GetMainAccount(ctx context.Context) result.Result[finance.Account] {
	accountID, err := r.resolveCurrentAccountID(ctx)
	if err != nil {
		return fail[finance.Account](err)
	}

	account, err := r.api.GetAccountByID(ctx, accountID)
	if err != nil {
		r.logger.Warn("failed to fetch main account", zap.Int("account_id", accountID), zap.Error(err))
		return fail[finance.Account](err)
	}

	r.account.Publish(*account)
	return result.Ok(*account)
}

// UpdateAccount replaces the current account's name, balance and currency,
// and republishes the updated account into the shared slot.
func (r *Repository) UpdateAccount(ctx context.Context, name, balance, currency string) result.Result[finance.Account] {
	accountID, err := r.resolveCurrentAccountID(ctx)
	if err != nil {
		return fail[finance.Account](err)
	}

	account, err := r.api.UpdateAccount(ctx, accountID, finance.UpdateAccountRequest{
		Name:     name,
		Balance:  balance,
		Currency: currency,
	})
	if err != nil {
		r.logger.Warn("failed to update account", zap.Int("account_id", accountID), zap.Error(err))
		return fail[finance.Account](err)
	}

	r.account.Publish(*account)
	return result.Ok(*account)
}

// GetAllCategories fetches all transaction categories.
func (r *Repository) GetAllCategories(ctx context.Context) result.Result[[]finance.Category] {
	categories, err := r.api.GetAllCategories(ctx)
	if err != nil {
		r.logger.Warn("failed to fetch categories", zap.Error(err))
		return fail[[]finance.Category](err)
	}
	return result.Ok(categories)
}

// AddTransaction creates a new transaction.
func (r *Repository) AddTransaction(ctx context.Context, req finance.TransactionRequest) result.Result[finance.Transaction] {
	tx, err := r.api.AddTransaction(ctx, req)
	if err != nil {
		r.logger.Warn("failed to add transaction", zap.Int("account_id", req.AccountID), zap.Error(err))
		return fail[finance.Transaction](err)
	}
	return result.Ok(*tx)
}

// GetTransactionByID fetches a single transaction.
func (r *Repository) GetTransactionByID(ctx context.Context, id int) result.Result[finance.Transaction] {
	tx, err := r.api.GetTransactionByID(ctx, id)
	if err != nil {
		return fail[finance.Transaction](err)
	}
	return result.Ok(*tx)
}

// EditTransaction replaces an existing transaction.
func (r *Repository) EditTransaction(ctx context.Context, id int, req finance.TransactionRequest) result.Result[finance.Transaction] {
	tx, err := r.api.EditTransaction(ctx, id, req)
	if err != nil {
		r.logger.Warn("failed to edit transaction", zap.Int("transaction_id", id), zap.Error(err))
		return fail[finance.Transaction](err)
	}
	return result.Ok(*tx)
}

// DeleteTransaction removes a transaction.
func (r *Repository) DeleteTransaction(ctx context.Context, id int) result.Result[struct{}] {
	if err := r.api.DeleteTransaction(ctx, id); err != nil {
		r.logger.Warn("failed to delete transaction", zap.Int("transaction_id", id), zap.Error(err))
		return fail[struct{}](err)
	}
	return result.Ok(struct{}{})
}
