package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// Store owns the on-disk schema and all scoped CRUD for users, income,
// expenses, savings and goals.
type Store struct {
	conn   *sql.DB
	scheme auth.Scheme
}

// Open opens (or creates) the database at path, applies migrations and
// returns a ready Store. The credential scheme decides how passwords are
// stored and compared; see the auth package. Path ":memory:" is supported
// for tests.
func Open(path string, scheme auth.Scheme) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One logical writer at a time; a single pooled connection also keeps
	// in-memory databases from splitting across connections.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &Store{conn: conn, scheme: scheme}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// CreateUser registers a new user and returns its id. Returns
// ErrDuplicateUsername if the username is taken; the existing row is
// untouched in that case.
func (s *Store) CreateUser(ctx context.Context, username, password string) (int64, error) {
	if err := requireNonBlank("username", username); err != nil {
		return 0, err
	}
	if err := requireNonBlank("password", password); err != nil {
		return 0, err
	}

	stored, err := s.scheme.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, stored,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user created", "user_id", id, "username", username)
	return id, nil
}

// Authenticate checks a username and password pair and returns the matching
// user id. Unknown usernames and wrong passwords both yield
// ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (int64, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, password FROM users WHERE username = ?",
		username,
	)

	var id int64
	var stored string
	if err := row.Scan(&id, &stored); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("look up user: %w", err)
	}

	if !s.scheme.Verify(password, stored) {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, username, password FROM users WHERE username = ?",
		username,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password); err != nil {
		return nil, err
	}
	return &u, nil
}

// AddIncome inserts an income entry for the user and returns its id. All
// fields must be non-blank and the amount must parse as a decimal.
func (s *Store) AddIncome(ctx context.Context, userID int64, amount, source, date string) (int64, error) {
	amt, err := parseAmount("amount", amount)
	if err != nil {
		return 0, err
	}
	if err := requireNonBlank("source", source); err != nil {
		return 0, err
	}
	if err := requireNonBlank("date", date); err != nil {
		return 0, err
	}

	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO income (user_id, amount, source, date) VALUES (?, ?, ?, ?)",
		userID, amt.String(), source, date,
	)
	if err != nil {
		return 0, fmt.Errorf("add income: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add income: %w", err)
	}

	slog.InfoContext(ctx, "income added", "id", id, "user_id", userID, "amount", amt.String(), "source", source)
	return id, nil
}

// AddExpense inserts an expense entry for the user and returns its id.
func (s *Store) AddExpense(ctx context.Context, userID int64, amount, category, date string) (int64, error) {
	amt, err := parseAmount("amount", amount)
	if err != nil {
		return 0, err
	}
	if err := requireNonBlank("category", category); err != nil {
		return 0, err
	}
	if err := requireNonBlank("date", date); err != nil {
		return 0, err
	}

	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO expenses (user_id, amount, category, date) VALUES (?, ?, ?, ?)",
		userID, amt.String(), category, date,
	)
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}

	slog.InfoContext(ctx, "expense added", "id", id, "user_id", userID, "amount", amt.String(), "category", category)
	return id, nil
}

// AddSaving inserts a savings entry for the user and returns its id.
func (s *Store) AddSaving(ctx context.Context, userID int64, amount, date string) (int64, error) {
	amt, err := parseAmount("amount", amount)
	if err != nil {
		return 0, err
	}
	if err := requireNonBlank("date", date); err != nil {
		return 0, err
	}

	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO savings (user_id, amount, date) VALUES (?, ?, ?)",
		userID, amt.String(), date,
	)
	if err != nil {
		return 0, fmt.Errorf("add saving: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add saving: %w", err)
	}

	slog.InfoContext(ctx, "saving added", "id", id, "user_id", userID, "amount", amt.String())
	return id, nil
}

// AddGoal inserts a financial goal for the user and returns its id. Goals
// have no list or delete surface.
func (s *Store) AddGoal(ctx context.Context, userID int64, description, targetAmount, targetDate string) (int64, error) {
	if err := requireNonBlank("description", description); err != nil {
		return 0, err
	}
	amt, err := parseAmount("target amount", targetAmount)
	if err != nil {
		return 0, err
	}
	if err := requireNonBlank("target date", targetDate); err != nil {
		return 0, err
	}

	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO goals (user_id, description, target_amount, target_date) VALUES (?, ?, ?, ?)",
		userID, description, amt.String(), targetDate,
	)
	if err != nil {
		return 0, fmt.Errorf("add goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add goal: %w", err)
	}

	slog.InfoContext(ctx, "goal added", "id", id, "user_id", userID, "target_amount", amt.String())
	return id, nil
}

// DeleteIncome deletes an income entry by id. Deleting an id that does not
// exist is a no-op; the row's owner is not checked.
func (s *Store) DeleteIncome(ctx context.Context, id int64) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM income WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return nil
}

// DeleteExpense deletes an expense entry by id, with the same semantics as
// DeleteIncome.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// DeleteSaving deletes a savings entry by id, with the same semantics as
// DeleteIncome.
func (s *Store) DeleteSaving(ctx context.Context, id int64) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM savings WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete saving: %w", err)
	}
	return nil
}

// ListIncome returns the user's income entries in insertion order.
func (s *Store) ListIncome(ctx context.Context, userID int64) ([]models.IncomeEntry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, user_id, amount, source, date FROM income WHERE user_id = ? ORDER BY id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	var entries []models.IncomeEntry
	for rows.Next() {
		var e models.IncomeEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Source, &e.Date); err != nil {
			return nil, fmt.Errorf("list income: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ListExpenses returns the user's expense entries in insertion order.
func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]models.ExpenseEntry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, user_id, amount, category, date FROM expenses WHERE user_id = ? ORDER BY id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var entries []models.ExpenseEntry
	for rows.Next() {
		var e models.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Date); err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ListSavings returns the user's savings entries in insertion order.
func (s *Store) ListSavings(ctx context.Context, userID int64) ([]models.SavingsEntry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, user_id, amount, date FROM savings WHERE user_id = ? ORDER BY id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	defer rows.Close()

	var entries []models.SavingsEntry
	for rows.Next() {
		var e models.SavingsEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Date); err != nil {
			return nil, fmt.Errorf("list savings: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// SumIncome returns the total of the user's income amounts, zero when there
// are none. Amounts are summed as decimals, never as floats.
func (s *Store) SumIncome(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.sumAmounts(ctx, "SELECT amount FROM income WHERE user_id = ?", userID)
}

// SumExpenses returns the total of the user's expense amounts, zero when
// there are none.
func (s *Store) SumExpenses(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.sumAmounts(ctx, "SELECT amount FROM expenses WHERE user_id = ?", userID)
}

func (s *Store) sumAmounts(ctx context.Context, query string, userID int64) (decimal.Decimal, error) {
	rows, err := s.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum amounts: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amt decimal.Decimal
		if err := rows.Scan(&amt); err != nil {
			return decimal.Zero, fmt.Errorf("sum amounts: %w", err)
		}
		total = total.Add(amt)
	}

	return total, rows.Err()
}

// UserCount returns the number of registered users.
func (s *Store) UserCount(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
