package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatOptionalDate renders nil as a dash.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return FormatDate(*t)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func okStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}

// notice renders a standalone message such as a loading or result line.
func notice(s string) string {
	return lipgloss.NewStyle().Padding(2).Render(s)
}

func panel(s string) string {
	return lipgloss.NewStyle().Padding(1).Render(s)
}

// outcome renders a finished operation, red on error.
func outcome(msg string, err error) string {
	if err != nil {
		return notice(errorStyle(msg) + "\n\n(Esc to go back)")
	}

	return notice(okStyle(msg) + "\n\n(Esc to go back)")
}
