// Package finance holds the domain entities exchanged with the finance API.
package finance

import (
	"fmt"
	"strconv"
	"time"
)

// Account represents a user account.
// The API returns the balance as a decimal string.
type Account struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// ParseBalance returns the balance as a float64.
func (a *Account) ParseBalance() (float64, error) {
	if a.Balance == "" {
		return 0, nil
	}
	balance, err := strconv.ParseFloat(a.Balance, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse balance %q: %w", a.Balance, err)
	}
	return balance, nil
}

// Category classifies a transaction as a kind of expense or income.
// Categories are immutable once fetched.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	IsIncome bool   `json:"isIncome"`
}

// Transaction represents a single financial transaction with its embedding
// account and category. The API returns the amount as a decimal string.
type Transaction struct {
	ID              int      `json:"id"`
	Account         Account  `json:"account"`
	Category        Category `json:"category"`
	Amount          string   `json:"amount"`
	TransactionDate string   `json:"transactionDate"`
	Comment         *string  `json:"comment,omitempty"`
}

// ParseAmount returns the amount as a float64.
func (t *Transaction) ParseAmount() (float64, error) {
	if t.Amount == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(t.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount %q: %w", t.Amount, err)
	}
	return amount, nil
}

// ParseDate parses the transaction date. The API uses RFC 3339 timestamps
// and falls back to plain calendar dates.
func (t *Transaction) ParseDate() (*time.Time, error) {
	if t.TransactionDate == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, t.TransactionDate)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", t.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transactionDate %q: %w", t.TransactionDate, err)
		}
	}
	return &parsed, nil
}

// UpdateAccountRequest is the body of PUT /accounts/{id}.
type UpdateAccountRequest struct {
	Name     string `json:"name"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// TransactionRequest is the body of POST /transactions and
// PUT /transactions/{id}.
type TransactionRequest struct {
	AccountID       int    `json:"accountId"`
	CategoryID      int    `json:"categoryId"`
	Amount          string `json:"amount"`
	TransactionDate string `json:"transactionDate"`
	Comment         string `json:"comment"`
}
