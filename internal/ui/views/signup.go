package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zentask/internal/api"
	"zentask/internal/ui/keys"
	"zentask/internal/ui/styles"
)

// signupStep is the signup state machine position. Transitions only move
// forward: details → otp on a sent code, otp → done on a verified one.
type signupStep int

const (
	stepDetails signupStep = iota
	stepOTP
	stepDone
)

const resendCooldown = 30 // seconds before the OTP can be resent

// SignupView is the multi-step signup form with OTP email verification
type SignupView struct {
	svc    api.Service
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	step     signupStep
	username textinput.Model
	email    textinput.Model
	password textinput.Model
	otp      textinput.Model
	focusIdx int
	message  string
	msgOK    bool
	loading  bool

	resendLeft int // seconds until resend unlocks
}

type otpSentMsg struct{ err error }
type otpVerifiedMsg struct{ err error }
type resendTickMsg struct{}
type signupDoneMsg struct{}

// NewSignupView creates the signup form at the details step
func NewSignupView(svc api.Service) *SignupView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 100
	username.Focus()

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	otp := textinput.New()
	otp.Placeholder = "Enter OTP"
	otp.CharLimit = 10

	return &SignupView{
		svc:      svc,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		username: username,
		email:    email,
		password: password,
		otp:      otp,
	}
}

func (v *SignupView) Init() tea.Cmd {
	return textinput.Blink
}

// Step exposes the current machine position (details=0, otp=1, done=2).
func (v *SignupView) Step() int { return int(v.step) }

func (v *SignupView) requestOTP() tea.Cmd {
	username := strings.TrimSpace(v.username.Value())
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if username == "" || email == "" || password == "" {
		v.message = "All fields are required"
		v.msgOK = false
		return nil
	}

	v.loading = true
	v.message = ""
	return func() tea.Msg {
		return otpSentMsg{err: v.svc.SendOTP(context.Background(), email)}
	}
}

func (v *SignupView) verifyOTP() tea.Cmd {
	code := strings.TrimSpace(v.otp.Value())
	if code == "" {
		v.message = "Enter the code from your email"
		v.msgOK = false
		return nil
	}

	user := api.SignupUser{
		Username: strings.TrimSpace(v.username.Value()),
		Email:    strings.TrimSpace(v.email.Value()),
		Password: v.password.Value(),
	}

	v.loading = true
	v.message = ""
	return func() tea.Msg {
		return otpVerifiedMsg{err: v.svc.VerifyOTP(context.Background(), user, code)}
	}
}

func resendTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return resendTickMsg{}
	})
}

func (v *SignupView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case otpSentMsg:
		v.loading = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, api.ErrConflict):
				v.message = "Email is already registered, log in instead"
			case errors.Is(msg.err, api.ErrUnavailable):
				v.message = "Network error, please try again"
			default:
				if m := api.Message(msg.err); m != "" {
					v.message = m
				} else {
					v.message = "Error sending OTP"
				}
			}
			v.msgOK = false
			return v, nil
		}
		v.step = stepOTP
		v.message = "OTP sent to " + strings.TrimSpace(v.email.Value())
		v.msgOK = true
		v.resendLeft = resendCooldown
		v.otp.Reset()
		v.otp.Focus()
		return v, tea.Batch(textinput.Blink, resendTick())

	case otpVerifiedMsg:
		v.loading = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, api.ErrConflict):
				v.message = "User already exists, please login"
			case errors.Is(msg.err, api.ErrUnauthorized):
				v.message = "Invalid OTP"
			case errors.Is(msg.err, api.ErrUnavailable):
				v.message = "Network error, please try again"
			default:
				v.message = "Verification failed, please try again"
			}
			v.msgOK = false
			return v, nil
		}
		v.step = stepDone
		v.message = "Signup successful!"
		v.msgOK = true
		return v, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return signupDoneMsg{}
		})

	case resendTickMsg:
		if v.resendLeft > 0 {
			v.resendLeft--
			if v.resendLeft > 0 {
				return v, resendTick()
			}
		}
		return v, nil

	case signupDoneMsg:
		return v, navigate(PageLogin)

	case tea.KeyMsg:
		if v.loading || v.step == stepDone {
			if msg.String() == "ctrl+c" {
				return v, tea.Quit
			}
			return v, nil
		}

		switch v.step {
		case stepDetails:
			return v.updateDetails(msg)
		case stepOTP:
			return v.updateOTP(msg)
		}
	}

	return v, nil
}

func (v *SignupView) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, navigate(PageHome)

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateDetailsFocus()
		return v, textinput.Blink

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateDetailsFocus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 3 {
			v.focusIdx++
			v.updateDetailsFocus()
			return v, nil
		}
		return v, v.requestOTP()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.username, cmd = v.username.Update(msg)
	case 1:
		v.email, cmd = v.email.Update(msg)
	case 2:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *SignupView) updateOTP(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		// Back to the details step; the entered account data stays
		v.step = stepDetails
		v.message = ""
		v.focusIdx = 0
		v.updateDetailsFocus()
		return v, textinput.Blink

	case msg.String() == "ctrl+r":
		if v.resendLeft > 0 {
			return v, nil
		}
		v.otp.Reset()
		return v, v.requestOTP()

	case key.Matches(msg, v.keys.Enter):
		return v, v.verifyOTP()
	}

	var cmd tea.Cmd
	v.otp, cmd = v.otp.Update(msg)
	return v, cmd
}

func (v *SignupView) updateDetailsFocus() {
	v.username.Blur()
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.username.Focus()
	case 1:
		v.email.Focus()
	case 2:
		v.password.Focus()
	}
}

// renderSteps shows the three-step indicator with the active step lit
func (v *SignupView) renderSteps() string {
	s := v.styles
	labels := []string{"1. Sign Up", "2. OTP", "3. Done"}
	var parts []string
	for i, label := range labels {
		if signupStep(i) <= v.step {
			parts = append(parts, s.Title.Render(label))
		} else {
			parts = append(parts, s.TitleMuted.Render(label))
		}
	}
	return strings.Join(parts, s.TitleMuted.Render("  ·  "))
}

func (v *SignupView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	parts := []string{v.renderSteps(), ""}
	if v.message != "" {
		msgStyle := s.ErrorText
		if v.msgOK {
			msgStyle = s.SuccessText
		}
		parts = append(parts, msgStyle.Render(v.message), "")
	}

	switch v.step {
	case stepDetails:
		usernameStyle := s.Input
		emailStyle := s.Input
		passwordStyle := s.Input
		btnStyle := s.Button
		switch v.focusIdx {
		case 0:
			usernameStyle = s.InputFocused
		case 1:
			emailStyle = s.InputFocused
		case 2:
			passwordStyle = s.InputFocused
		case 3:
			btnStyle = s.ButtonFocused
		}
		btnLabel := " Request OTP "
		if v.loading {
			btnLabel = " Sending OTP... "
			btnStyle = s.ButtonDisabled
		}
		parts = append(parts,
			"Username:",
			usernameStyle.Width(inputWidth).Render(v.username.View()),
			"",
			"Email:",
			emailStyle.Width(inputWidth).Render(v.email.View()),
			"",
			"Password:",
			passwordStyle.Width(inputWidth).Render(v.password.View()),
			"",
			btnStyle.Render(btnLabel),
			"",
			s.TitleMuted.Render("Tab: next • ↵: submit • Esc: back"),
		)

	case stepOTP:
		otpStyle := s.InputFocused
		resendHint := "Ctrl+R: resend OTP"
		if v.resendLeft > 0 {
			resendHint = fmt.Sprintf("Resend in %ds", v.resendLeft)
		}
		verifyLabel := " Verify OTP "
		if v.loading {
			verifyLabel = " Verifying... "
		}
		parts = append(parts,
			"One-time password:",
			otpStyle.Width(inputWidth).Render(v.otp.View()),
			"",
			s.ButtonPrimary.Render(verifyLabel),
			"",
			s.TitleMuted.Render("↵: verify • "+resendHint+" • Esc: edit details"),
		)

	case stepDone:
		parts = append(parts,
			s.SuccessText.Render("Signup Successful!"),
			s.TitleMuted.Render("Redirecting you to login..."),
		)
	}

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
