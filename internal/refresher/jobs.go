package refresher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"finbridge/internal/domain/finance"
	"finbridge/internal/repository"
	"finbridge/internal/result"
)

var (
	gaugeMeter        = otel.Meter("finbridge/refresher")
	accountBalance, _ = gaugeMeter.Float64Gauge("finance.account.balance", metric.WithDescription("Latest known main account balance"))
	monthlyTotal, _   = gaugeMeter.Float64Gauge("finance.month.total", metric.WithDescription("Current-month totals by kind"))
)

// Job is a unit of periodic work executed by the refresher's worker pool.
type Job interface {
	Execute(ctx context.Context) error
	Description() string
}

// AccountRefreshJob keeps the shared account slot warm and exports the
// current balance as a gauge.
type AccountRefreshJob struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewAccountRefreshJob(repo *repository.Repository, logger *zap.Logger) *AccountRefreshJob {
	return &AccountRefreshJob{repo: repo, logger: logger}
}

func (j *AccountRefreshJob) Execute(ctx context.Context) error {
	var jobErr error
	j.repo.GetMainAccount(ctx).Fold(
		func(account finance.Account) {
			balance, err := account.ParseBalance()
			if err != nil {
				j.logger.Warn("account refreshed but balance is unparsable",
					zap.Int("account_id", account.ID), zap.Error(err))
				return
			}
			accountBalance.Record(ctx, balance,
				metric.WithAttributes(attribute.String("currency", account.Currency)))
			j.logger.Info("account refreshed",
				zap.Int("account_id", account.ID),
				zap.String("balance", account.Balance),
				zap.String("currency", account.Currency))
		},
		func(e *result.Error) {
			jobErr = fmt.Errorf("account refresh: %w", e)
		},
	)
	return jobErr
}

func (j *AccountRefreshJob) Description() string {
	return "main account refresh"
}

// MonthlySummaryJob recomputes the current-month expense and income totals
// and exports them as gauges.
type MonthlySummaryJob struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewMonthlySummaryJob(repo *repository.Repository, logger *zap.Logger) *MonthlySummaryJob {
	return &MonthlySummaryJob{repo: repo, logger: logger}
}

func (j *MonthlySummaryJob) Execute(ctx context.Context) error {
	expenses := j.repo.GetExpenseTransactions(ctx)
	if !expenses.IsOK() {
		return fmt.Errorf("monthly summary, expenses: %w", expenses.Err())
	}
	incomes := j.repo.GetIncomeTransactions(ctx)
	if !incomes.IsOK() {
		return fmt.Errorf("monthly summary, incomes: %w", incomes.Err())
	}

	expenseTotal := j.sum(expenses.Value())
	incomeTotal := j.sum(incomes.Value())

	monthlyTotal.Record(ctx, expenseTotal, metric.WithAttributes(attribute.String("kind", "expense")))
	monthlyTotal.Record(ctx, incomeTotal, metric.WithAttributes(attribute.String("kind", "income")))

	j.logger.Info("monthly summary refreshed",
		zap.Float64("expense_total", expenseTotal),
		zap.Float64("income_total", incomeTotal),
		zap.Int("expense_count", len(expenses.Value())),
		zap.Int("income_count", len(incomes.Value())))
	return nil
}

// sum adds up the parsable amounts; unparsable ones are logged and skipped
// rather than failing the whole summary.
func (j *MonthlySummaryJob) sum(transactions []finance.Transaction) float64 {
	var total float64
	for _, tx := range transactions {
		amount, err := tx.ParseAmount()
		if err != nil {
			j.logger.Warn("skipping transaction with unparsable amount",
				zap.Int("transaction_id", tx.ID), zap.Error(err))
			continue
		}
		total += amount
	}
	return total
}

func (j *MonthlySummaryJob) Description() string {
	return "current-month summary refresh"
}
