package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// StoreChangedMsg is delivered whenever the data store publishes a change,
// whether it came from this process or from another one sharing the medium.
type StoreChangedMsg struct {
	Kind entity.Kind
}

// StoreErrorMsg carries a failure from the background synchronizer.
type StoreErrorMsg struct {
	Err error
}

type LoggedInMsg struct {
	User entity.User
}

type LoggedOutMsg struct{}

// actionMsg reports the outcome of a mutation run off the update loop.
type actionMsg struct {
	done string
	err  error
}

func action(done string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{done: done, err: fn()}
	}
}

// affects reports whether a change to kind should refresh a view built from kinds.
func affects(kind entity.Kind, kinds ...entity.Kind) bool {
	if kind == datastore.KindAll {
		return true
	}

	for _, k := range kinds {
		if k == kind {
			return true
		}
	}

	return false
}
