// Package views contains the per-screen bubbletea models: home, login,
// signup and dashboard. Views never touch the session or router directly;
// they emit messages the root app model acts on.
package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"zentask/internal/models"
)

// Page identifies a navigation target
type Page int

const (
	PageHome Page = iota
	PageLogin
	PageSignup
	PageDashboard
)

// NavigateMsg asks the app to switch pages. The app applies the route
// guards, so a navigation request may land on the dashboard instead when a
// user is already resolved.
type NavigateMsg struct {
	To Page
}

// LoggedInMsg reports a successful login; the app persists the session and
// routes to the dashboard.
type LoggedInMsg struct {
	User  models.User
	Token string
}

// LoggedOutMsg reports the user logged out from the dashboard.
type LoggedOutMsg struct{}

// navigate wraps a NavigateMsg in a command.
func navigate(to Page) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{To: to}
	}
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
