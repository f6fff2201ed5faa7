// Command financetrack is the interactive shell of the personal finance
// tracker. It drives the session façade from terminal prompts and renders
// listings and the income/expense summary as text.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/models"
	"finance-tracker/internal/session"
	"finance-tracker/internal/storage"

	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("financetrack", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := config.Load()
	dbPath := fs.String("db", cfg.DBPath, "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.DBPath = *dbPath
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	store, err := storage.Open(cfg.DBPath, auth.SchemeByName(cfg.CredentialScheme))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	fmt.Fprintln(stdout, "Personal Finance Management System")
	if count, err := store.UserCount(ctx); err == nil && count == 0 {
		fmt.Fprintln(stdout, "No accounts registered yet. Use 'register' to create one.")
	}

	sess := session.New(store, &termRenderer{out: stdout})
	shell := &shell{
		session: sess,
		in:      bufio.NewScanner(stdin),
		stdin:   stdin,
		out:     stdout,
	}
	return shell.loop(ctx)
}

// shell owns the prompt loop. All session errors are recoverable and shown
// as messages; only I/O exhaustion ends the loop.
type shell struct {
	session *session.Session
	in      *bufio.Scanner
	stdin   io.Reader
	out     io.Writer
}

func (sh *shell) loop(ctx context.Context) error {
	for {
		var err error
		var done bool
		if sh.session.LoggedIn() {
			done, err = sh.dashboard(ctx)
		} else {
			done, err = sh.loginMenu(ctx)
		}
		if done {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
	}
}

func (sh *shell) loginMenu(ctx context.Context) (done bool, err error) {
	cmd, ok := sh.prompt("\n[login, register, quit] > ")
	if !ok {
		return true, nil
	}

	switch cmd {
	case "login", "register":
		username, ok := sh.prompt("Username: ")
		if !ok {
			return true, nil
		}
		fmt.Fprint(sh.out, "Password: ")
		password, ok := sh.readPassword()
		fmt.Fprintln(sh.out)
		if !ok {
			return true, nil
		}
		if cmd == "register" {
			if err := sh.session.Register(ctx, username, password); err != nil {
				return false, err
			}
			fmt.Fprintln(sh.out, "Registration successful. You can now log in.")
			return false, nil
		}
		if err := sh.session.Login(ctx, username, password); err != nil {
			return false, err
		}
		fmt.Fprintln(sh.out, "Login successful.")
		return false, nil
	case "quit", "exit":
		return true, nil
	case "":
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
}

func (sh *shell) dashboard(ctx context.Context) (done bool, err error) {
	cmd, ok := sh.prompt("\n[add-income, del-income, income, add-expense, del-expense, expenses, add-saving, del-saving, savings, add-goal, report, logout, quit] > ")
	if !ok {
		return true, nil
	}

	switch cmd {
	case "add-income":
		amount, source, date, ok := sh.entryFields("Source", models.IncomeSources)
		if !ok {
			return true, nil
		}
		_, err = sh.session.AddIncome(ctx, amount, source, date)
	case "del-income":
		id, ok, perr := sh.promptID()
		if !ok {
			return true, nil
		}
		if perr != nil {
			return false, perr
		}
		err = sh.session.DeleteIncome(ctx, id)
	case "income":
		var entries []models.IncomeEntry
		if entries, err = sh.session.Income(ctx); err == nil {
			(&termRenderer{out: sh.out}).RenderIncome(entries)
		}
	case "add-expense":
		amount, category, date, ok := sh.entryFields("Category", models.ExpenseCategories)
		if !ok {
			return true, nil
		}
		_, err = sh.session.AddExpense(ctx, amount, category, date)
	case "del-expense":
		id, ok, perr := sh.promptID()
		if !ok {
			return true, nil
		}
		if perr != nil {
			return false, perr
		}
		err = sh.session.DeleteExpense(ctx, id)
	case "expenses":
		var entries []models.ExpenseEntry
		if entries, err = sh.session.Expenses(ctx); err == nil {
			(&termRenderer{out: sh.out}).RenderExpenses(entries)
		}
	case "add-saving":
		amount, ok := sh.prompt("Amount: ")
		if !ok {
			return true, nil
		}
		date, ok := sh.promptDate()
		if !ok {
			return true, nil
		}
		_, err = sh.session.AddSaving(ctx, amount, date)
	case "del-saving":
		id, ok, perr := sh.promptID()
		if !ok {
			return true, nil
		}
		if perr != nil {
			return false, perr
		}
		err = sh.session.DeleteSaving(ctx, id)
	case "savings":
		var entries []models.SavingsEntry
		if entries, err = sh.session.Savings(ctx); err == nil {
			(&termRenderer{out: sh.out}).RenderSavings(entries)
		}
	case "add-goal":
		description, ok := sh.prompt("Goal description: ")
		if !ok {
			return true, nil
		}
		target, ok := sh.prompt("Target amount: ")
		if !ok {
			return true, nil
		}
		date, ok := sh.promptDate()
		if !ok {
			return true, nil
		}
		if _, err = sh.session.AddGoal(ctx, description, target, date); err == nil {
			fmt.Fprintln(sh.out, "Your financial goal has been added.")
		}
	case "report":
		var summary models.Summary
		if summary, err = sh.session.Report(ctx); err == nil {
			(&termRenderer{out: sh.out}).RenderSummary(summary)
		}
	case "logout":
		sh.session.Close()
		fmt.Fprintln(sh.out, "Logged out.")
	case "quit", "exit":
		return true, nil
	case "":
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil && storage.IsValidation(err) {
		err = errors.New("please fill in all fields: " + err.Error())
	}
	return false, err
}

// entryFields prompts for the amount/label/date triple shared by income and
// expense entries.
func (sh *shell) entryFields(labelName string, options []string) (amount, label, date string, ok bool) {
	amount, ok = sh.prompt("Amount: ")
	if !ok {
		return "", "", "", false
	}
	fmt.Fprintf(sh.out, "%s options: %s\n", labelName, strings.Join(options, ", "))
	label, ok = sh.prompt(labelName + ": ")
	if !ok {
		return "", "", "", false
	}
	date, ok = sh.promptDate()
	if !ok {
		return "", "", "", false
	}
	return amount, label, date, true
}

func (sh *shell) promptDate() (string, bool) {
	date, ok := sh.prompt(fmt.Sprintf("Date [%s]: ", models.CurrentDate()))
	if !ok {
		return "", false
	}
	if date == "" {
		date = models.CurrentDate()
	}
	return date, true
}

func (sh *shell) promptID() (int64, bool, error) {
	raw, ok := sh.prompt("Entry ID: ")
	if !ok {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("invalid id %q", raw)
	}
	return id, true, nil
}

// prompt reads one trimmed line; ok is false once input is exhausted.
func (sh *shell) prompt(label string) (string, bool) {
	fmt.Fprint(sh.out, label)
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

// readPassword hides the echo on a real terminal and falls back to the
// shared line scanner for pipes and tests, where a second buffered reader
// would swallow input.
func (sh *shell) readPassword() (string, bool) {
	if f, ok := sh.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", false
		}
		return string(bytePassword), true
	}
	if !sh.in.Scan() {
		return "", false
	}
	return sh.in.Text(), true
}
