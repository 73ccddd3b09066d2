package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"finbridge/internal/domain/finance"
	"finbridge/internal/remote"
	"finbridge/internal/repository"
	"finbridge/internal/result"
	"finbridge/internal/shared/config"
	"finbridge/internal/transport"
)

const usage = `finctl - One-shot commands against the finance API

Usage:
  finctl <command> [options]

Commands:
  account             Show the current account
  update-account      Update the current account's name, balance and currency
  categories          List all transaction categories
  expenses            List the current month's expense transactions
  incomes             List the current month's income transactions
  history             List transactions for a date range
  add-transaction     Create a transaction
  get-transaction     Show a single transaction
  edit-transaction    Replace a transaction
  delete-transaction  Delete a transaction

Examples:
  finctl account
  finctl history --start=2025-07-01 --end=2025-07-31
  finctl add-transaction --account-id=1 --category-id=4 --amount=120.50 --date=2025-07-14
  finctl delete-transaction --id=42
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	repo, cleanup, err := buildRepository()
	if err != nil {
		fmt.Fprintf(os.Stderr, "finctl: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "account":
		showAccount(ctx, repo)
	case "update-account":
		updateAccount(ctx, repo, args)
	case "categories":
		listCategories(ctx, repo)
	case "expenses":
		listTransactions(repo.GetExpenseTransactions(ctx))
	case "incomes":
		listTransactions(repo.GetIncomeTransactions(ctx))
	case "history":
		showHistory(ctx, repo, args)
	case "add-transaction":
		addTransaction(ctx, repo, args)
	case "get-transaction":
		getTransaction(ctx, repo, args)
	case "edit-transaction":
		editTransaction(ctx, repo, args)
	case "delete-transaction":
		deleteTransaction(ctx, repo, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func buildRepository() (*repository.Repository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	httpClient := transport.DefaultClient(transport.Options{
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	})
	api := remote.NewClient(httpClient, cfg.API.BaseURL)

	return repository.New(api, logger), func() { logger.Sync() }, nil
}

func fatal(e *result.Error) {
	fmt.Fprintf(os.Stderr, "finctl: %s\n", e.Description())
	if e.Cause != nil {
		fmt.Fprintf(os.Stderr, "  cause: %v\n", e.Cause)
	}
	os.Exit(1)
}

func showAccount(ctx context.Context, repo *repository.Repository) {
	repo.GetMainAccount(ctx).Fold(printAccount, fatal)
}

func updateAccount(ctx context.Context, repo *repository.Repository, args []string) {
	fs := flag.NewFlagSet("update-account", flag.ExitOnError)
	name := fs.String("name", "", "Account name")
	balance := fs.String("balance", "", "Account balance, e.g. 1000.00")
	currency := fs.String("currency", "", "Currency code, e.g. RUB")
	fs.Parse(args)

	if *name == "" || *balance == "" || *currency == "" {
		fmt.Println("Error: --name, --balance and --currency are required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	repo.UpdateAccount(ctx, *name, *balance, *currency).Fold(printAccount, fatal)
}

func listCategories(ctx context.Context, repo *repository.Repository) {
	repo.GetAllCategories(ctx).Fold(func(categories []finance.Category) {
		for _, c := range categories {
			kind := "expense"
			if c.IsIncome {
				kind = "income"
			}
			fmt.Printf("%4d  %s %-24s %s\n", c.ID, c.Emoji, c.Name, kind)
		}
	}, fatal)
}

func showHistory(ctx context.Context, repo *repository.Repository, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD)")
	fs.Parse(args)

	if *start == "" || *end == "" {
		fmt.Println("Error: --start and --end are required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	listTransactions(repo.GetHistory(ctx, *start, *end))
}

func addTransaction(ctx context.Context, repo *repository.Repository, args []string) {
	fs := flag.NewFlagSet("add-transaction", flag.ExitOnError)
	req, ok := transactionRequestFlags(fs, args)
	if !ok {
		fs.PrintDefaults()
		os.Exit(1)
	}
	repo.AddTransaction(ctx, req).Fold(printTransaction, fatal)
}

func getTransaction(ctx context.Context, repo *repository.Repository, args []string) {
	fs := flag.NewFlagSet("get-transaction", flag.ExitOnError)
	id := fs.Int("id", 0, "Transaction ID")
	fs.Parse(args)

	if *id == 0 {
		fmt.Println("Error: --id is required")
		os.Exit(1)
	}
	repo.GetTransactionByID(ctx, *id).Fold(printTransaction, fatal)
}

func editTransaction(ctx context.Context, repo *repository.Repository, args []string) {
	fs := flag.NewFlagSet("edit-transaction", flag.ExitOnError)
	id := fs.Int("id", 0, "Transaction ID")
	req, ok := transactionRequestFlags(fs, args)
	if !ok || *id == 0 {
		fmt.Println("Error: --id and the transaction fields are required")
		fs.PrintDefaults()
		os.Exit(1)
	}
	repo.EditTransaction(ctx, *id, req).Fold(printTransaction, fatal)
}

func deleteTransaction(ctx context.Context, repo *repository.Repository, args []string) {
	fs := flag.NewFlagSet("delete-transaction", flag.ExitOnError)
	id := fs.Int("id", 0, "Transaction ID")
	fs.Parse(args)

	if *id == 0 {
		fmt.Println("Error: --id is required")
		os.Exit(1)
	}
	repo.DeleteTransaction(ctx, *id).Fold(func(struct{}) {
		fmt.Printf("Transaction %d deleted\n", *id)
	}, fatal)
}

// transactionRequestFlags registers the shared transaction flags on fs,
// parses args, and reports whether the required fields were provided.
func transactionRequestFlags(fs *flag.FlagSet, args []string) (finance.TransactionRequest, bool) {
	accountID := fs.Int("account-id", 0, "Account ID")
	categoryID := fs.Int("category-id", 0, "Category ID")
	amount := fs.String("amount", "", "Amount, e.g. 120.50")
	date := fs.String("date", "", "Transaction date (YYYY-MM-DD)")
	comment := fs.String("comment", "", "Optional comment")
	fs.Parse(args)

	if *accountID == 0 || *categoryID == 0 || *amount == "" || *date == "" {
		return finance.TransactionRequest{}, false
	}

	return finance.TransactionRequest{
		AccountID:       *accountID,
		CategoryID:      *categoryID,
		Amount:          *amount,
		TransactionDate: *date,
		Comment:         *comment,
	}, true
}

func printAccount(a finance.Account) {
	fmt.Printf("Account %d: %s\n", a.ID, a.Name)
	fmt.Printf("  Balance: %s %s\n", a.Balance, a.Currency)
}

func printTransaction(tx finance.Transaction) {
	fmt.Printf("Transaction %d: %s %s (%s %s)\n",
		tx.ID, tx.Category.Emoji, tx.Category.Name, tx.Amount, tx.Account.Currency)
	fmt.Printf("  Account: %s  Date: %s\n", tx.Account.Name, tx.TransactionDate)
	if tx.Comment != nil {
		fmt.Printf("  Comment: %s\n", *tx.Comment)
	}
}

func listTransactions(res result.Result[[]finance.Transaction]) {
	res.Fold(func(transactions []finance.Transaction) {
		if len(transactions) == 0 {
			fmt.Println("No transactions")
			return
		}
		for _, tx := range transactions {
			comment := ""
			if tx.Comment != nil {
				comment = *tx.Comment
			}
			fmt.Printf("%6d  %-12s %s %-20s %10s  %s\n",
				tx.ID, tx.TransactionDate, tx.Category.Emoji, tx.Category.Name, tx.Amount, comment)
		}
	}, fatal)
}
