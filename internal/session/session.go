// Package session bridges authentication state to store calls. A Session is
// an explicit value owned by its caller, never process-global, so several
// can exist side by side in tests.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
)

// ErrNotLoggedIn is returned by every entity operation invoked before a
// successful Login.
var ErrNotLoggedIn = errors.New("not logged in")

// Renderer receives refreshed data after mutations so an external UI can
// redraw. The core never renders anything itself.
type Renderer interface {
	RenderSummary(models.Summary)
	RenderIncome([]models.IncomeEntry)
	RenderExpenses([]models.ExpenseEntry)
	RenderSavings([]models.SavingsEntry)
}

// Session holds the identity of the currently authenticated user and scopes
// every store call to it. The zero state is logged out; Login moves it to
// logged in; Close moves it back.
type Session struct {
	store    *storage.Store
	renderer Renderer
	token    string
	userID   int64
}

// New returns a logged-out session over the store. renderer may be nil when
// nothing needs to redraw (tests, batch tools).
func New(store *storage.Store, renderer Renderer) *Session {
	return &Session{store: store, renderer: renderer}
}

// LoggedIn reports whether the session holds an authenticated user.
func (s *Session) LoggedIn() bool {
	return s.userID != 0
}

// UserID returns the authenticated user's id, or zero when logged out.
func (s *Session) UserID() int64 {
	return s.userID
}

// Token returns the opaque handle of the current login, empty when logged
// out.
func (s *Session) Token() string {
	return s.token
}

// Register creates a new user account. It is callable while logged out and
// does not log the new user in.
func (s *Session) Register(ctx context.Context, username, password string) error {
	_, err := s.store.CreateUser(ctx, username, password)
	return err
}

// Login authenticates the pair and, on success, binds the session to the
// matching user.
func (s *Session) Login(ctx context.Context, username, password string) error {
	id, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	s.userID = id
	s.token = auth.NewSessionToken()
	slog.InfoContext(ctx, "login", "user_id", id, "username", username)
	return nil
}

// Close ends the login, returning the session to the logged-out state.
func (s *Session) Close() {
	if s.userID != 0 {
		slog.Info("logout", "user_id", s.userID)
	}
	s.userID = 0
	s.token = ""
}

// AddIncome records an income entry for the session user, then pushes the
// refreshed income listing and chart summary to the renderer.
func (s *Session) AddIncome(ctx context.Context, amount, source, date string) (int64, error) {
	if !s.LoggedIn() {
		return 0, ErrNotLoggedIn
	}
	id, err := s.store.AddIncome(ctx, s.userID, amount, source, date)
	if err != nil {
		return 0, err
	}
	if err := s.refreshIncome(ctx); err != nil {
		return id, err
	}
	return id, s.refreshChart(ctx)
}

// DeleteIncome removes an income entry by id, then refreshes the income
// listing and chart. Unknown ids are a no-op.
func (s *Session) DeleteIncome(ctx context.Context, id int64) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return err
	}
	if err := s.refreshIncome(ctx); err != nil {
		return err
	}
	return s.refreshChart(ctx)
}

// AddExpense records an expense entry for the session user, then pushes the
// refreshed expense listing and chart summary to the renderer.
func (s *Session) AddExpense(ctx context.Context, amount, category, date string) (int64, error) {
	if !s.LoggedIn() {
		return 0, ErrNotLoggedIn
	}
	id, err := s.store.AddExpense(ctx, s.userID, amount, category, date)
	if err != nil {
		return 0, err
	}
	if err := s.refreshExpenses(ctx); err != nil {
		return id, err
	}
	return id, s.refreshChart(ctx)
}

// DeleteExpense removes an expense entry by id, then refreshes the expense
// listing and chart.
func (s *Session) DeleteExpense(ctx context.Context, id int64) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	if err := s.refreshExpenses(ctx); err != nil {
		return err
	}
	return s.refreshChart(ctx)
}

// AddSaving records a savings entry for the session user, then pushes the
// refreshed savings listing to the renderer. Savings do not feed the chart.
func (s *Session) AddSaving(ctx context.Context, amount, date string) (int64, error) {
	if !s.LoggedIn() {
		return 0, ErrNotLoggedIn
	}
	id, err := s.store.AddSaving(ctx, s.userID, amount, date)
	if err != nil {
		return 0, err
	}
	return id, s.refreshSavings(ctx)
}

// DeleteSaving removes a savings entry by id, then refreshes the savings
// listing.
func (s *Session) DeleteSaving(ctx context.Context, id int64) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	if err := s.store.DeleteSaving(ctx, id); err != nil {
		return err
	}
	return s.refreshSavings(ctx)
}

// AddGoal records a financial goal for the session user.
func (s *Session) AddGoal(ctx context.Context, description, targetAmount, targetDate string) (int64, error) {
	if !s.LoggedIn() {
		return 0, ErrNotLoggedIn
	}
	return s.store.AddGoal(ctx, s.userID, description, targetAmount, targetDate)
}

// Income returns the session user's income entries in insertion order.
func (s *Session) Income(ctx context.Context) ([]models.IncomeEntry, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return s.store.ListIncome(ctx, s.userID)
}

// Expenses returns the session user's expense entries in insertion order.
func (s *Session) Expenses(ctx context.Context) ([]models.ExpenseEntry, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return s.store.ListExpenses(ctx, s.userID)
}

// Savings returns the session user's savings entries in insertion order.
func (s *Session) Savings(ctx context.Context) ([]models.SavingsEntry, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return s.store.ListSavings(ctx, s.userID)
}

// Report returns the aggregate totals the chart collaborator draws.
func (s *Session) Report(ctx context.Context) (models.Summary, error) {
	if !s.LoggedIn() {
		return models.Summary{}, ErrNotLoggedIn
	}
	return s.summary(ctx)
}

func (s *Session) summary(ctx context.Context) (models.Summary, error) {
	income, err := s.store.SumIncome(ctx, s.userID)
	if err != nil {
		return models.Summary{}, fmt.Errorf("sum income: %w", err)
	}
	expense, err := s.store.SumExpenses(ctx, s.userID)
	if err != nil {
		return models.Summary{}, fmt.Errorf("sum expenses: %w", err)
	}
	return models.Summary{TotalIncome: income, TotalExpense: expense}, nil
}

func (s *Session) refreshChart(ctx context.Context) error {
	if s.renderer == nil {
		return nil
	}
	summary, err := s.summary(ctx)
	if err != nil {
		return err
	}
	s.renderer.RenderSummary(summary)
	return nil
}

func (s *Session) refreshIncome(ctx context.Context) error {
	if s.renderer == nil {
		return nil
	}
	entries, err := s.store.ListIncome(ctx, s.userID)
	if err != nil {
		return err
	}
	s.renderer.RenderIncome(entries)
	return nil
}

func (s *Session) refreshExpenses(ctx context.Context) error {
	if s.renderer == nil {
		return nil
	}
	entries, err := s.store.ListExpenses(ctx, s.userID)
	if err != nil {
		return err
	}
	s.renderer.RenderExpenses(entries)
	return nil
}

func (s *Session) refreshSavings(ctx context.Context) error {
	if s.renderer == nil {
		return nil
	}
	entries, err := s.store.ListSavings(ctx, s.userID)
	if err != nil {
		return err
	}
	s.renderer.RenderSavings(entries)
	return nil
}
