package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"zentask/internal/api"
	"zentask/internal/models"
	"zentask/internal/session"
	"zentask/internal/ui/styles"
	"zentask/internal/ui/views"
)

// App is the root model: it owns the active page, applies route guards
// and fans messages out to the current view.
type App struct {
	svc  api.Service
	sess *session.Session

	page    views.Page
	current tea.Model

	width  int
	height int

	// restorePending is true until the stored token has been resolved
	// (or rejected); guarded pages wait for it instead of redirecting.
	restorePending bool

	styles *styles.Styles
}

// SessionRestoredMsg carries the outcome of resolving a stored token at
// startup. User is nil when no valid session exists.
type SessionRestoredMsg struct {
	User *models.User
}

// NewApp creates the root application model
func NewApp(svc api.Service, sess *session.Session) *App {
	return &App{
		svc:            svc,
		sess:           sess,
		page:           views.PageHome,
		current:        views.NewHomeView(),
		restorePending: true,
		styles:         styles.NewStyles(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.current.Init(), a.restoreSession())
}

func (a *App) restoreSession() tea.Cmd {
	return func() tea.Msg {
		return SessionRestoredMsg{User: a.sess.Restore(context.Background())}
	}
}

// setPage swaps the active view and runs its Init
func (a *App) setPage(page views.Page) tea.Cmd {
	a.page = page
	switch page {
	case views.PageLogin:
		a.current = views.NewLoginView(a.svc)
	case views.PageSignup:
		a.current = views.NewSignupView(a.svc)
	case views.PageDashboard:
		user := a.sess.User()
		if user == nil {
			// Guard: never mount the dashboard without a session
			return a.setPage(views.PageLogin)
		}
		a.current = views.NewDashboardView(a.svc, *user)
	default:
		a.page = views.PageHome
		a.current = views.NewHomeView()
	}

	cmds := []tea.Cmd{a.current.Init()}
	if a.width > 0 {
		cmds = append(cmds, func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		})
	}
	return tea.Batch(cmds...)
}

// guardTarget applies the route guards: guests are pushed off the
// dashboard, authenticated users skip the auth pages.
func (a *App) guardTarget(to views.Page) views.Page {
	loggedIn := a.sess.User() != nil
	switch to {
	case views.PageDashboard:
		if !loggedIn {
			return views.PageLogin
		}
	case views.PageLogin, views.PageSignup, views.PageHome:
		if loggedIn {
			return views.PageDashboard
		}
	}
	return to
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Fall through to the current view below

	case SessionRestoredMsg:
		a.restorePending = false
		if msg.User != nil {
			return a, a.setPage(views.PageDashboard)
		}
		return a, nil

	case views.NavigateMsg:
		return a, a.setPage(a.guardTarget(msg.To))

	case views.LoggedInMsg:
		a.sess.Login(msg.User, msg.Token)
		return a, a.setPage(views.PageDashboard)

	case views.LoggedOutMsg:
		a.sess.Logout()
		return a, a.setPage(views.PageHome)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	a.current, cmd = a.current.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.restorePending {
		return styles.CenterView(
			a.styles.TitleMuted.Render("Checking session..."),
			a.width, a.height,
		)
	}
	return a.current.View()
}
