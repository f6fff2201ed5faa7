package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShell(t *testing.T, dbPath string, lines ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	stdout = new(bytes.Buffer)
	stderr = new(bytes.Buffer)
	stdin := bytes.NewBufferString(strings.Join(lines, "\n") + "\n")
	err = run([]string{"-db", dbPath}, stdin, stdout, stderr)
	return stdout, stderr, err
}

func TestRun_RegisterLoginAddReport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	stdout, _, err := runShell(t, dbPath,
		"register", "alice", "pw1",
		"login", "alice", "pw1",
		"add-income", "1000", "Salary/Wages", "2024-01-01",
		"add-expense", "250", "Food", "2024-01-02",
		"report",
		"quit",
	)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "Registration successful")
	assert.Contains(t, output, "Login successful")
	assert.Contains(t, output, "Salary/Wages")
	assert.Contains(t, output, "Income:   1000 (80.0%)")
	assert.Contains(t, output, "Expenses: 250 (20.0%)")
}

func TestRun_InvalidLoginShowsMessage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	stdout, _, err := runShell(t, dbPath,
		"register", "alice", "pw1",
		"login", "alice", "wrong",
		"quit",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "invalid username or password")
}

func TestRun_BlankAmountShowsValidationMessage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	stdout, _, err := runShell(t, dbPath,
		"register", "alice", "pw1",
		"login", "alice", "pw1",
		"add-income", "", "Salary/Wages", "2024-01-01",
		"income",
		"quit",
	)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "please fill in all fields")
	// Rejected input must not appear in the listing
	assert.NotContains(t, output, "2024-01-01")
}

func TestRun_DeleteUnknownIDIsNoop(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	stdout, _, err := runShell(t, dbPath,
		"register", "alice", "pw1",
		"login", "alice", "pw1",
		"del-income", "42",
		"quit",
	)
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "Error:")
}

func TestRun_LogoutReturnsToLoginMenu(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	stdout, _, err := runShell(t, dbPath,
		"register", "alice", "pw1",
		"login", "alice", "pw1",
		"logout",
		"quit",
	)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "Logged out.")
	// Back at the login menu after logout
	assert.Contains(t, output, "[login, register, quit]")
}

func TestRun_EmptyStoreSuggestsRegister(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	// Fresh database: the shell should point the user at registration
	stdout, _, err := runShell(t, dbPath,
		"register", "alice", "pw1",
		"quit",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No accounts registered yet")

	// With an account present the hint disappears
	stdout, _, err = runShell(t, dbPath, "quit")
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "No accounts registered yet")
}

func TestRun_AddGoal(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	stdout, _, err := runShell(t, dbPath,
		"register", "alice", "pw1",
		"login", "alice", "pw1",
		"add-goal", "Emergency fund", "5000", "2025-06-01",
		"quit",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Your financial goal has been added.")
}
