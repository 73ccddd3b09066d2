package finance

import (
	"testing"
	"time"
)

func TestAccount_ParseBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		want    float64
		wantErr bool
	}{
		{"plain", "1000.50", 1000.50, false},
		{"negative", "-25.00", -25.00, false},
		{"empty defaults to zero", "", 0, false},
		{"garbage", "ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Account{Balance: tt.balance}
			got, err := a.ParseBalance()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBalance() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBalance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransaction_ParseAmount(t *testing.T) {
	tx := Transaction{Amount: "199.99"}
	got, err := tx.ParseAmount()
	if err != nil {
		t.Fatalf("ParseAmount() error = %v", err)
	}
	if got != 199.99 {
		t.Errorf("ParseAmount() = %v, want 199.99", got)
	}

	bad := Transaction{Amount: "a lot"}
	if _, err := bad.ParseAmount(); err == nil {
		t.Error("ParseAmount() expected error for invalid amount")
	}
}

func TestTransaction_ParseDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{
			name: "rfc3339",
			date: "2025-07-14T10:30:00Z",
			want: time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "calendar date",
			date: "2025-07-14",
			want: time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", date: "", wantNil: true},
		{name: "garbage", date: "last tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{TransactionDate: tt.date}
			got, err := tx.ParseDate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("ParseDate() = %v, want nil", got)
				}
				return
			}
			if got == nil || !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
