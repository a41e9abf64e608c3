package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/mechanico/cmd/dashboard/internal/view"
	"github.com/MrJamesThe3rd/mechanico/internal/collection"
	"github.com/MrJamesThe3rd/mechanico/internal/config"
	"github.com/MrJamesThe3rd/mechanico/internal/crosstab"
	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/export"
	"github.com/MrJamesThe3rd/mechanico/internal/importer"
	"github.com/MrJamesThe3rd/mechanico/internal/logger"
	"github.com/MrJamesThe3rd/mechanico/internal/scheduler"
	"github.com/MrJamesThe3rd/mechanico/internal/session"
	"github.com/MrJamesThe3rd/mechanico/internal/storage"
	"github.com/MrJamesThe3rd/mechanico/internal/storage/file"
	"github.com/MrJamesThe3rd/mechanico/internal/storage/memory"
)

type services struct {
	appName       string
	store         *datastore.Store
	sessions      *session.Store
	importService *importer.Service
	exportService *export.Service
	log           zerolog.Logger
}

type model struct {
	svc *services

	currentView View
	active      view.View
	user        entity.User
	notice      string
	width       int
	height      int
}

type View int

const (
	ViewLogin      View = 0
	ViewMenu       View = 1
	ViewBookings   View = 2
	ViewInventory  View = 3
	ViewInvoices   View = 4
	ViewAccounting View = 5
	ViewUsers      View = 6
	ViewReset      View = 7
	ViewVehicles   View = 8
	ViewEmployees  View = 9
)

func initialModel(svc *services, initErr error) model {
	m := model{svc: svc}

	if initErr != nil {
		m.currentView = ViewReset
		m.active = view.NewResetModel(svc.store, initErr)

		return m
	}

	user, ok, err := svc.sessions.Current()
	if err != nil {
		svc.log.Error().Err(err).Msg("failed to restore session")
	}

	if !ok {
		m.currentView = ViewLogin
		m.active = view.NewLoginModel(svc.sessions, svc.appName)

		return m
	}

	m.user = user
	m.currentView = ViewMenu

	return m
}

func (m model) Init() tea.Cmd {
	if m.active != nil {
		return m.active.Init()
	}

	return nil
}

type sessionMsg struct {
	user entity.User
	ok   bool
	err  error
}

func (m model) checkSessionCmd() tea.Cmd {
	return func() tea.Msg {
		user, ok, err := m.svc.sessions.Current()
		return sessionMsg{user: user, ok: ok, err: err}
	}
}

type logoutMsg struct {
	err error
}

func (m model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return logoutMsg{err: m.svc.sessions.Logout()}
	}
}

func (m model) open(v View) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch v {
	case ViewBookings:
		m.active = view.NewBookingsModel(m.svc.store)
	case ViewInventory:
		m.active = view.NewInventoryModel(m.svc.store, m.svc.importService)
	case ViewInvoices:
		m.active = view.NewInvoiceModel(m.svc.store)
	case ViewAccounting:
		m.active = view.NewAccountingModel(m.svc.store, m.svc.exportService)
	case ViewUsers:
		if m.user.Role != entity.RoleAdmin {
			m.notice = "Only administrators can manage users."
			return m, nil
		}
		m.active = view.NewUsersModel(m.svc.store)
	case ViewVehicles:
		m.active = view.NewVehiclesModel(m.svc.store)
	case ViewEmployees:
		if m.user.Role != entity.RoleAdmin {
			m.notice = "Only administrators can manage employees."
			return m, nil
		}
		m.active = view.NewEmployeesModel(m.svc.store)
	case ViewReset:
		m.active = view.NewResetModel(m.svc.store, nil)
	default:
		return m, nil
	}

	m.currentView = v

	cmds := []tea.Cmd{m.active.Init()}
	if m.width > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return m, tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case view.StoreChangedMsg:
		if m.user.ID != "" && (msg.Kind == datastore.KindAll || msg.Kind == entity.KindUsers) {
			cmd := m.forward(msg)
			return m, tea.Batch(cmd, m.checkSessionCmd())
		}

	case view.StoreErrorMsg:
		if errors.Is(msg.Err, collection.ErrCorrupt) {
			m.currentView = ViewReset
			m.active = view.NewResetModel(m.svc.store, msg.Err)

			return m, m.active.Init()
		}

		m.notice = fmt.Sprintf("Sync failed: %v", msg.Err)

		return m, nil

	case sessionMsg:
		if msg.err != nil {
			m.svc.log.Error().Err(msg.err).Msg("failed to check session")
			return m, nil
		}

		if msg.ok {
			m.user = msg.user
			return m, nil
		}

		if m.user.ID == "" {
			return m, nil
		}

		return m.toLogin("Your session ended.")

	case view.LoggedInMsg:
		m.user = msg.User
		m.currentView = ViewMenu
		m.active = nil
		m.notice = ""

		return m, nil

	case view.LoggedOutMsg:
		return m.toLogin("")

	case logoutMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Logout failed: %v", msg.err)
			return m, nil
		}

		return m.toLogin("")

	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	cmd := m.forward(msg)

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m.open(ViewBookings)
	case "2":
		return m.open(ViewInventory)
	case "3":
		return m.open(ViewInvoices)
	case "4":
		return m.open(ViewAccounting)
	case "5":
		return m.open(ViewUsers)
	case "6":
		return m.open(ViewVehicles)
	case "7":
		return m.open(ViewEmployees)
	case "8":
		return m.open(ViewReset)
	case "l":
		return m, m.logoutCmd()
	}

	return m, nil
}

// forward hands msg to the active screen, if any.
func (m *model) forward(msg tea.Msg) tea.Cmd {
	if m.active == nil {
		return nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return cmd
}

func (m model) toLogin(notice string) (tea.Model, tea.Cmd) {
	m.user = entity.User{}
	m.currentView = ViewLogin
	m.active = view.NewLoginModel(m.svc.sessions, m.svc.appName)
	m.notice = notice

	return m, m.active.Init()
}

func (m model) View() string {
	var body string

	if m.currentView == ViewMenu {
		body = lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s\n%s (%s)\n\n", m.svc.appName, m.user.FullName, m.user.Role) +
				"1. Bookings\n" +
				"2. Inventory\n" +
				"3. Invoices\n" +
				"4. Accounting & Reports\n" +
				"5. Users\n" +
				"6. Vehicles\n" +
				"7. Employees\n" +
				"8. Reset Demo Data\n\n" +
				"l. Logout\n" +
				"q. Quit",
		)
	} else if m.active != nil {
		body = m.active.View()
	} else {
		body = "Unknown View"
	}

	if m.notice != "" {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).PaddingLeft(2).Render(m.notice) + "\n" + body
	}

	return body
}

// medium is what the dashboard needs from a storage backend.
type medium interface {
	storage.Store
	storage.Notifier
}

func openMedium(cfg *config.Config, log zerolog.Logger) (medium, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn().Msg("memory backend selected, data will not outlive this process")
		return memory.NewMedium(cfg.Storage.QuotaBytes).Open(), nil
	default:
		return file.Open(cfg.Storage.Dir,
			file.WithQuota(cfg.Storage.QuotaBytes),
			file.WithLogger(log.With().Str("component", "storage").Logger()),
		)
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Config{Env: "development"})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	logFile, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		boot := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level})
		boot.Fatal().Err(err).Str("path", cfg.Log.File).Msg("failed to open log file")
	}
	defer logFile.Close()

	log := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, Out: logFile})

	kv, err := openMedium(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	repo := collection.NewRepository(kv, cfg.StorageKeys())

	store := datastore.New(repo,
		datastore.WithLogger(log.With().Str("component", "datastore").Logger()),
		datastore.WithStrictTransitions(cfg.Booking.StrictTransitions),
	)

	initErr := store.Initialize()
	if initErr != nil && !errors.Is(initErr, collection.ErrCorrupt) {
		log.Fatal().Err(initErr).Msg("failed to initialize data")
	}

	svc := &services{
		appName:       cfg.App.Name,
		store:         store,
		sessions:      session.New(kv, repo.Keys().CurrentUser, repo.Users, log.With().Str("component", "session").Logger()),
		importService: importer.NewService(),
		exportService: export.NewService(store),
		log:           log,
	}

	p := tea.NewProgram(initialModel(svc, initErr), tea.WithAltScreen())

	// Send blocks until the program reads the message, and subscribers may
	// run on the update loop, so delivery happens on its own goroutine.
	unsubscribe := store.Subscribe(func(c datastore.Change) {
		go p.Send(view.StoreChangedMsg{Kind: c.Kind})
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(store, log.With().Str("component", "scheduler").Logger())
	if err := sched.Start(cfg.Invoice.OverdueSchedule); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	syncer := crosstab.New(kv, store,
		crosstab.WithLogger(log.With().Str("component", "crosstab").Logger()),
		crosstab.WithMinInterval(cfg.Sync.MinInterval),
		crosstab.WithErrorHandler(func(err error) {
			go p.Send(view.StoreErrorMsg{Err: err})
		}),
	)

	go func() {
		if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("synchronizer stopped")
		}
	}()

	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run TUI")
		cancel()
		os.Exit(1)
	}
}
