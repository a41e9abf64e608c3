package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const scheduleLayout = "2006-01-02 15:04"

// formPanel frames a form so it can sit next to the table it edits.
func formPanel(title string, f *huh.Form) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(64).
		Render(title + "\n\n" + f.View())
}

// stepForm feeds msg to f and reports whether the user finished or left it.
func stepForm(f *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd, huh.FormState) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return f, nil, huh.StateAborted
	}

	next, cmd := f.Update(msg)
	if nf, ok := next.(*huh.Form); ok {
		f = nf
	}

	return f, cmd, f.State
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

func wholeNumber(what string) func(string) error {
	return func(s string) error {
		if _, err := parseWhole(s); err != nil {
			return fmt.Errorf("%s must be a whole number", what)
		}
		return nil
	}
}

func positiveNumber(what string) func(string) error {
	return func(s string) error {
		n, err := parseWhole(s)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be greater than zero", what)
		}
		return nil
	}
}

func validSchedule(s string) error {
	if _, err := parseSchedule(s, time.Local); err != nil {
		return fmt.Errorf("use the form %s", scheduleLayout)
	}
	return nil
}

// parseWhole reads a non-negative integer, tolerating thousands separators.
func parseWhole(s string) (int64, error) {
	s = strings.NewReplacer(",", "", " ", "", "_", "").Replace(strings.TrimSpace(s))

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, errors.New("negative")
	}

	return n, nil
}

func parseSchedule(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(scheduleLayout, strings.TrimSpace(s), loc)
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
