package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// IncomeEntry represents a single income record owned by a user.
type IncomeEntry struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source"`
	Date   string          `json:"date"`
}

// ExpenseEntry represents a single expense record owned by a user.
type ExpenseEntry struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

// SavingsEntry represents a single savings record owned by a user.
type SavingsEntry struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// Goal represents a financial goal. Goals are create-only: there is no
// listing or deletion surface for them.
type Goal struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   string          `json:"target_date"`
}

// Summary holds the two aggregate totals the chart collaborator draws.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

// IncomeSources is the canonical list of income sources offered by the shell.
// It is advisory only; the store accepts any non-blank source string.
var IncomeSources = []string{
	"Salary/Wages",
	"Bonuses",
	"Freelance/Contract Work",
	"Investments",
	"Rental Income",
	"Interest/Dividends",
	"Gifts/Grants",
	"Other Income",
}

// ExpenseCategories is the canonical list of expense categories offered by
// the shell. Advisory only, like IncomeSources.
var ExpenseCategories = []string{
	"Housing",
	"Transportation",
	"Food",
	"Health",
	"Entertainment",
	"Education",
	"Personal Care",
	"Debt Payments",
	"Savings/Investments",
	"Miscellaneous",
}

// DateLayout is the storage format for all entry dates.
const DateLayout = "2006-01-02"

// CurrentDate returns today's date in the storage format. The shell uses it
// to pre-fill date fields.
func CurrentDate() string {
	return time.Now().Format(DateLayout)
}
