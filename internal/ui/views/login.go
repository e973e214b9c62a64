package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zentask/internal/api"
	"zentask/internal/models"
	"zentask/internal/ui/keys"
	"zentask/internal/ui/styles"
)

// LoginView is the credential form
type LoginView struct {
	svc    api.Service
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=login, 3=sign up link
	message  string
	loading  bool
}

type loginResultMsg struct {
	user  models.User
	token string
	err   error
}

// NewLoginView creates the login form
func NewLoginView(svc api.Service) *LoginView {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	return &LoginView{
		svc:      svc,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.message = "Email and password are required"
		return nil
	}

	v.loading = true
	v.message = ""
	return func() tea.Msg {
		user, token, err := v.svc.Login(context.Background(), email, password)
		return loginResultMsg{user: user, token: token, err: err}
	}
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginResultMsg:
		v.loading = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, api.ErrUnauthorized):
				if m := api.Message(msg.err); m != "" {
					v.message = m
				} else {
					v.message = "Invalid credentials"
				}
			case errors.Is(msg.err, api.ErrUnavailable):
				v.message = "Network error, please try again"
			default:
				v.message = "Login failed, please try again"
			}
			return v, nil
		}
		return v, func() tea.Msg {
			return LoggedInMsg{User: msg.user, Token: msg.token}
		}

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, navigate(PageHome)

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 4
			v.updateFocus()
			return v, textinput.Blink

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + 3) % 4
			v.updateFocus()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Enter):
			switch v.focusIdx {
			case 0, 1:
				v.focusIdx++
				v.updateFocus()
				return v, nil
			case 2:
				return v, v.submit()
			case 3:
				return v, navigate(PageSignup)
			}
			return v, nil
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case 0:
			v.email, cmd = v.email.Update(msg)
		case 1:
			v.password, cmd = v.password.Update(msg)
		}
		return v, cmd
	}

	return v, nil
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	emailStyle := s.Input
	passwordStyle := s.Input
	btnStyle := s.Button
	linkStyle := s.TitleMuted

	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passwordStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	case 3:
		linkStyle = s.Title
	}

	btnLabel := " Login "
	if v.loading {
		btnLabel = " Logging in... "
		btnStyle = s.ButtonDisabled
	}

	inputWidth := clamp(contentWidth-6, 20, 40)

	parts := []string{
		s.Title.Render("Login"),
		"",
	}
	if v.message != "" {
		parts = append(parts, s.ErrorText.Render(v.message), "")
	}
	parts = append(parts,
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		passwordStyle.Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(btnLabel),
		"",
		linkStyle.Render("Don't have an account? Sign up"),
		"",
		s.TitleMuted.Render("Tab: next • ↵: submit • Esc: back"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
