package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// termRenderer draws listings and the income/expense proportions as plain
// text. It satisfies session.Renderer.
type termRenderer struct {
	out io.Writer
}

// RenderSummary draws the income vs. expense proportions the pie chart
// would show.
func (r *termRenderer) RenderSummary(s models.Summary) {
	total := s.TotalIncome.Add(s.TotalExpense)
	fmt.Fprintf(r.out, "\nIncome vs. Expense\n")
	fmt.Fprintf(r.out, "  Income:   %s (%s%%)\n", s.TotalIncome, share(s.TotalIncome, total))
	fmt.Fprintf(r.out, "  Expenses: %s (%s%%)\n", s.TotalExpense, share(s.TotalExpense, total))
}

func share(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.0"
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1)
}

func (r *termRenderer) RenderIncome(entries []models.IncomeEntry) {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nID\tAMOUNT\tSOURCE\tDATE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Amount, e.Source, e.Date)
	}
	w.Flush()
}

func (r *termRenderer) RenderExpenses(entries []models.ExpenseEntry) {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nID\tAMOUNT\tCATEGORY\tDATE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Amount, e.Category, e.Date)
	}
	w.Flush()
}

func (r *termRenderer) RenderSavings(entries []models.SavingsEntry) {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nID\tAMOUNT\tDATE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Amount, e.Date)
	}
	w.Flush()
}
