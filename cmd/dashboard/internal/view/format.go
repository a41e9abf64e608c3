package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a whole-toman amount with thousands separators.
func FormatAmount(v int64) string {
	return printer.Sprintf("%d Toman", v)
}

func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("2006-01-02")
}

func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func FormatBool(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func renderTable(t table.Model) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorText(err error) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", err))
}

func statusText(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}

func helpText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(s)
}
