package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"finbridge/internal/domain/finance"
	"finbridge/internal/remote"
	"finbridge/internal/result"
	"finbridge/internal/transport"
)

// MockClient is a mock implementation of remote.ClientInterface
type MockClient struct {
	GetAccountByIDFunc           func(ctx context.Context, id int) (*finance.Account, error)
	GetAccountsFunc              func(ctx context.Context) ([]finance.Account, error)
	GetTransactionsForPeriodFunc func(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error)
	GetAllCategoriesFunc         func(ctx context.Context) ([]finance.Category, error)
	UpdateAccountFunc            func(ctx context.Context, id int, req finance.UpdateAccountRequest) (*finance.Account, error)
	AddTransactionFunc           func(ctx context.Context, req finance.TransactionRequest) (*finance.Transaction, error)
	GetTransactionByIDFunc       func(ctx context.Context, id int) (*finance.Transaction, error)
	EditTransactionFunc          func(ctx context.Context, id int, req finance.TransactionRequest) (*finance.Transaction, error)
	DeleteTransactionFunc        func(ctx context.Context, id int) error

	getAccountsCalls atomic.Int32
}

var _ remote.ClientInterface = (*MockClient)(nil)

func (m *MockClient) GetAccountByID(ctx context.Context, id int) (*finance.Account, error) {
	if m.GetAccountByIDFunc != nil {
		return m.GetAccountByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockClient) GetAccounts(ctx context.Context) ([]finance.Account, error) {
	m.getAccountsCalls.Add(1)
	if m.GetAccountsFunc != nil {
		return m.GetAccountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) GetTransactionsForPeriod(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error) {
	if m.GetTransactionsForPeriodFunc != nil {
		return m.GetTransactionsForPeriodFunc(ctx, accountID, startDate, endDate)
	}
	return nil, nil
}

func (m *MockClient) GetAllCategories(ctx context.Context) ([]finance.Category, error) {
	if m.GetAllCategoriesFunc != nil {
		return m.GetAllCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) UpdateAccount(ctx context.Context, id int, req finance.UpdateAccountRequest) (*finance.Account, error) {
	if m.UpdateAccountFunc != nil {
		return m.UpdateAccountFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockClient) AddTransaction(ctx context.Context, req finance.TransactionRequest) (*finance.Transaction, error) {
	if m.AddTransactionFunc != nil {
		return m.AddTransactionFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockClient) GetTransactionByID(ctx context.Context, id int) (*finance.Transaction, error) {
	if m.GetTransactionByIDFunc != nil {
		return m.GetTransactionByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockClient) EditTransaction(ctx context.Context, id int, req finance.TransactionRequest) (*finance.Transaction, error) {
	if m.EditTransactionFunc != nil {
		return m.EditTransactionFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockClient) DeleteTransaction(ctx context.Context, id int) error {
	if m.DeleteTransactionFunc != nil {
		return m.DeleteTransactionFunc(ctx, id)
	}
	return nil
}

func newTestRepository(mock *MockClient) *Repository {
	repo := New(mock, zap.NewNop())
	// Pin "today" to 2025-07-14 so the current-month window is stable.
	repo.now = func() time.Time {
		return time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)
	}
	return repo
}

func singleAccountMock() *MockClient {
	return &MockClient{
		GetAccountsFunc: func(ctx context.Context) ([]finance.Account, error) {
			return []finance.Account{{ID: 7, Name: "Main", Balance: "100.00", Currency: "RUB"}}, nil
		},
	}
}

func TestGetMainAccount_PublishesIntoSharedSlot(t *testing.T) {
	mock := singleAccountMock()
	mock.GetAccountByIDFunc = func(ctx context.Context, id int) (*finance.Account, error) {
		if id != 7 {
			t.Errorf("GetAccountByID id = %d, want 7", id)
		}
		return &finance.Account{ID: 7, Name: "Main", Balance: "250.00", Currency: "RUB"}, nil
	}
	repo := newTestRepository(mock)

	res := repo.GetMainAccount(context.Background())
	if !res.IsOK() {
		t.Fatalf("GetMainAccount() error = %v", res.Err())
	}
	if res.Value().Balance != "250.00" {
		t.Errorf("balance = %q, want 250.00", res.Value().Balance)
	}

	current := repo.AccountWatch().Current()
	if current == nil || current.ID != 7 || current.Balance != "250.00" {
		t.Errorf("shared slot = %+v, want the fetched account", current)
	}
}

func TestGetMainAccount_NoAccounts(t *testing.T) {
	mock := &MockClient{
		GetAccountsFunc: func(ctx context.Context) ([]finance.Account, error) {
			return []finance.Account{}, nil
		},
	}
	repo := newTestRepository(mock)

	res := repo.GetMainAccount(context.Background())
	if res.IsOK() {
		t.Fatal("GetMainAccount() expected failure for empty account list")
	}
	if res.Err().Kind != result.KindNoAccount {
		t.Errorf("Kind = %v, want KindNoAccount", res.Err().Kind)
	}
	if !errors.Is(res.Err(), ErrNoAccounts) {
		t.Error("error does not wrap ErrNoAccounts")
	}
}

func TestGetHistory_UsesResolvedAccountID(t *testing.T) {
	mock := singleAccountMock()
	mock.GetTransactionsForPeriodFunc = func(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error) {
		if accountID != 7 {
			t.Errorf("accountID = %d, want 7", accountID)
		}
		if startDate != "2025-06-01" || endDate != "2025-06-30" {
			t.Errorf("period = [%s, %s], want [2025-06-01, 2025-06-30]", startDate, endDate)
		}
		return []finance.Transaction{{ID: 1}}, nil
	}
	repo := newTestRepository(mock)

	res := repo.GetHistory(context.Background(), "2025-06-01", "2025-06-30")
	if !res.IsOK() {
		t.Fatalf("GetHistory() error = %v", res.Err())
	}
	if len(res.Value()) != 1 {
		t.Errorf("GetHistory() returned %d transactions, want 1", len(res.Value()))
	}
}

func monthFixture() []finance.Transaction {
	account := finance.Account{ID: 7, Name: "Main", Balance: "100.00", Currency: "RUB"}
	return []finance.Transaction{
		{ID: 1, Account: account, Category: finance.Category{ID: 1, Name: "Salary", IsIncome: true}, Amount: "1000.00"},
		{ID: 2, Account: account, Category: finance.Category{ID: 2, Name: "Groceries", IsIncome: false}, Amount: "50.00"},
		{ID: 3, Account: account, Category: finance.Category{ID: 2, Name: "Groceries", IsIncome: false}, Amount: "30.00"},
	}
}

func TestGetExpenseTransactions_PartitionsAndPublishes(t *testing.T) {
	mock := singleAccountMock()
	mock.GetTransactionsForPeriodFunc = func(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error) {
		if startDate != "2025-07-01" || endDate != "2025-07-14" {
			t.Errorf("period = [%s, %s], want current month [2025-07-01, 2025-07-14]", startDate, endDate)
		}
		return monthFixture(), nil
	}
	repo := newTestRepository(mock)

	res := repo.GetExpenseTransactions(context.Background())
	if !res.IsOK() {
		t.Fatalf("GetExpenseTransactions() error = %v", res.Err())
	}
	expenses := res.Value()
	if len(expenses) != 2 {
		t.Fatalf("expenses = %d, want 2", len(expenses))
	}
	for _, tx := range expenses {
		if tx.Category.IsIncome {
			t.Errorf("transaction %d classified as expense but category is income", tx.ID)
		}
	}

	current := repo.AccountWatch().Current()
	if current == nil || current.ID != 7 {
		t.Errorf("shared slot = %+v, want the first expense's account", current)
	}
}

func TestGetExpenseTransactions_IncomeOnlyMonth(t *testing.T) {
	account := finance.Account{ID: 7}
	mock := singleAccountMock()
	mock.GetTransactionsForPeriodFunc = func(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error) {
		return []finance.Transaction{
			{ID: 1, Account: account, Category: finance.Category{IsIncome: true}},
		}, nil
	}
	repo := newTestRepository(mock)

	res := repo.GetExpenseTransactions(context.Background())
	if !res.IsOK() {
		t.Fatalf("GetExpenseTransactions() error = %v", res.Err())
	}
	if len(res.Value()) != 0 {
		t.Errorf("expenses = %d, want 0", len(res.Value()))
	}
	if repo.AccountWatch().Current() != nil {
		t.Error("shared slot was updated with no expense to source an account from")
	}
}

func TestGetIncomeTransactions(t *testing.T) {
	mock := singleAccountMock()
	mock.GetTransactionsForPeriodFunc = func(ctx context.Context, accountID int, startDate, endDate string) ([]finance.Transaction, error) {
		return monthFixture(), nil
	}
	repo := newTestRepository(mock)

	res := repo.GetIncomeTransactions(context.Background())
	if !res.IsOK() {
		t.Fatalf("GetIncomeTransactions() error = %v", res.Err())
	}
	if len(res.Value()) != 1 || !res.Value()[0].Category.IsIncome {
		t.Errorf("incomes = %+v, want the single salary transaction", res.Value())
	}
}

func TestUpdateAccount_PublishesUpdatedAccount(t *testing.T) {
	mock := singleAccountMock()
	mock.UpdateAccountFunc = func(ctx context.Context, id int, req finance.UpdateAccountRequest) (*finance.Account, error) {
		return &finance.Account{ID: id, Name: req.Name, Balance: req.Balance, Currency: req.Currency}, nil
	}
	repo := newTestRepository(mock)

	res := repo.UpdateAccount(context.Background(), "Savings", "500.00", "EUR")
	if !res.IsOK() {
		t.Fatalf("UpdateAccount() error = %v", res.Err())
	}

	current := repo.AccountWatch().Current()
	if current == nil || current.Name != "Savings" || current.Balance != "500.00" {
		t.Errorf("shared slot = %+v, want the updated account", current)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want result.Kind
	}{
		{
			name: "connectivity gate",
			err:  fmt.Errorf("Get \"https://x\": %w", transport.ErrNoConnection),
			want: result.KindNoConnection,
		},
		{
			name: "server error",
			err:  &remote.StatusError{Code: 503},
			want: result.KindServer,
		},
		{
			name: "client error",
			err:  &remote.StatusError{Code: 404},
			want: result.KindUnknown,
		},
		{
			name: "arbitrary failure",
			err:  errors.New("connection reset"),
			want: result.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockClient{
				GetAllCategoriesFunc: func(ctx context.Context) ([]finance.Category, error) {
					return nil, tt.err
				},
			}
			repo := newTestRepository(mock)

			res := repo.GetAllCategories(context.Background())
			if res.IsOK() {
				t.Fatal("GetAllCategories() expected failure")
			}
			if res.Err().Kind != tt.want {
				t.Errorf("Kind = %v, want %v", res.Err().Kind, tt.want)
			}
			if !errors.Is(res.Err(), tt.err) && res.Err().Cause == nil {
				t.Error("cause was not preserved")
			}
		})
	}
}

func TestGetAllCategories_Idempotent(t *testing.T) {
	fixture := []finance.Category{
		{ID: 1, Name: "Salary", Emoji: "\U0001F4B0", IsIncome: true},
		{ID: 2, Name: "Groceries", Emoji: "\U0001F6D2", IsIncome: false},
	}
	mock := &MockClient{
		GetAllCategoriesFunc: func(ctx context.Context) ([]finance.Category, error) {
			return fixture, nil
		},
	}
	repo := newTestRepository(mock)

	first := repo.GetAllCategories(context.Background())
	second := repo.GetAllCategories(context.Background())
	if !first.IsOK() || !second.IsOK() {
		t.Fatalf("GetAllCategories() errors: %v, %v", first.Err(), second.Err())
	}
	if len(first.Value()) != len(second.Value()) {
		t.Fatalf("result sizes differ: %d vs %d", len(first.Value()), len(second.Value()))
	}
	for i := range first.Value() {
		if first.Value()[i] != second.Value()[i] {
			t.Errorf("category %d differs between calls", i)
		}
	}
}

func TestTransactionPassThroughs(t *testing.T) {
	mock := singleAccountMock()
	mock.AddTransactionFunc = func(ctx context.Context, req finance.TransactionRequest) (*finance.Transaction, error) {
		return &finance.Transaction{ID: 99, Amount: req.Amount}, nil
	}
	mock.EditTransactionFunc = func(ctx context.Context, id int, req finance.TransactionRequest) (*finance.Transaction, error) {
		return &finance.Transaction{ID: id, Amount: req.Amount}, nil
	}
	mock.GetTransactionByIDFunc = func(ctx context.Context, id int) (*finance.Transaction, error) {
		return &finance.Transaction{ID: id}, nil
	}
	repo := newTestRepository(mock)
	ctx := context.Background()

	added := repo.AddTransaction(ctx, finance.TransactionRequest{AccountID: 7, CategoryID: 2, Amount: "10.00"})
	if !added.IsOK() || added.Value().ID != 99 {
		t.Errorf("AddTransaction() = %+v, err %v", added.Value(), added.Err())
	}

	edited := repo.EditTransaction(ctx, 99, finance.TransactionRequest{Amount: "12.00"})
	if !edited.IsOK() || edited.Value().Amount != "12.00" {
		t.Errorf("EditTransaction() = %+v, err %v", edited.Value(), edited.Err())
	}

	fetched := repo.GetTransactionByID(ctx, 99)
	if !fetched.IsOK() || fetched.Value().ID != 99 {
		t.Errorf("GetTransactionByID() = %+v, err %v", fetched.Value(), fetched.Err())
	}

	deleted := repo.DeleteTransaction(ctx, 99)
	if !deleted.IsOK() {
		t.Errorf("DeleteTransaction() error = %v", deleted.Err())
	}
}

func TestResolveCurrentAccountID_CoalescesConcurrentLookups(t *testing.T) {
	release := make(chan struct{})
	mock := &MockClient{
		GetAccountsFunc: func(ctx context.Context) ([]finance.Account, error) {
			<-release
			return []finance.Account{{ID: 7}}, nil
		},
	}
	mock.GetAccountByIDFunc = func(ctx context.Context, id int) (*finance.Account, error) {
		return &finance.Account{ID: id}, nil
	}
	repo := newTestRepository(mock)

	const callers = 4
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			res := repo.GetMainAccount(context.Background())
			if !res.IsOK() {
				t.Errorf("GetMainAccount() error = %v", res.Err())
			}
		}()
	}

	started.Wait()
	// All callers are now blocked in (or joining) the same lookup.
	time.Sleep(10 * time.Millisecond)
	close(release)
	done.Wait()

	if calls := mock.getAccountsCalls.Load(); calls != 1 {
		t.Errorf("GetAccounts calls = %d, want 1 (coalesced)", calls)
	}
}
