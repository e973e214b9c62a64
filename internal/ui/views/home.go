package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zentask/internal/ui/keys"
	"zentask/internal/ui/styles"
)

// HomeView is the landing screen shown while unauthenticated
type HomeView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
}

// NewHomeView creates the landing screen
func NewHomeView() *HomeView {
	return &HomeView{
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *HomeView) Init() tea.Cmd {
	return nil
}

func (v *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case msg.String() == "l":
			return v, navigate(PageLogin)
		case msg.String() == "s":
			return v, navigate(PageSignup)
		}
	}
	return v, nil
}

func (v *HomeView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("ZenTask"),
		"",
		s.TitleMuted.Render("Organize your day and manage priorities"),
		s.TitleMuted.Render("in one calm workspace."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" s: Sign Up "),
			"  ",
			s.Button.Render(" l: Log In "),
		),
		"",
		s.Help.Render(s.HelpKey.Render("q")+" quit"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
