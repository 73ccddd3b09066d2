package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"finbridge/internal/domain/finance"
)

// GetAccountByID fetches a single account.
func (c *Client) GetAccountByID(ctx context.Context, id int) (*finance.Account, error) {
	var account finance.Account
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", accountsPath, id), nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccounts fetches all accounts of the current user.
func (c *Client) GetAccounts(ctx context.Context) ([]finance.Account, error) {
	var accounts []finance.Account
	if err := c.do(ctx, http.MethodGet, accountsPath, nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetTransactionsForPeriod fetches the transactions of an account within
// [startDate, endDate], both inclusive ISO calendar dates.
func (c *Client) GetTransactionsForPeriod(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error) {
	query := url.Values{}
	query.Set("startDate", startDate)
	query.Set("endDate", endDate)

	var transactions []finance.Transaction
	path := fmt.Sprintf("%s/account/%d/period", transactionsPath, accountID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetAllCategories fetches all transaction categories.
func (c *Client) GetAllCategories(ctx context.Context) ([]finance.Category, error) {
	var categories []finance.Category
	if err := c.do(ctx, http.MethodGet, categoriesPath, nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateAccount replaces the account's name, balance and currency.
func (c *Client) UpdateAccount(ctx context.Context, id int, req finance.UpdateAccountRequest) (*finance.Account, error) {
	var account finance.Account
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", accountsPath, id), nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// AddTransaction creates a new transaction.
func (c *Client) AddTransaction(ctx context.Context, req finance.TransactionRequest) (*finance.Transaction, error) {
	var tx finance.Transaction
	if err := c.do(ctx, http.MethodPost, transactionsPath, nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactionByID fetches a single transaction.
func (c *Client) GetTransactionByID(ctx context.Context, id int) (*finance.Transaction, error) {
	var tx finance.Transaction
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", transactionsPath, id), nil, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// EditTransaction replaces an existing transaction.
func (c *Client) EditTransaction(ctx context.Context, id int, req finance.TransactionRequest) (*finance.Transaction, error) {
	var tx finance.Transaction
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", transactionsPath, id), nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTransaction removes a transaction. The API answers with an empty
// body on success.
func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", transactionsPath, id), nil, nil, nil)
}
