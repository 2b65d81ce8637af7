package models

import "time"

// Transaction kinds. Amounts are stored as non-negative magnitudes;
// the direction of money flow is carried by the kind alone.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Transaction represents a financial transaction
type Transaction struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Kind      string     `json:"type"`
	Category  string     `json:"category"`
	Amount    float64    `json:"amount"`
	Date      *time.Time `json:"date"` // nil when the source date was missing or unparseable
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}
