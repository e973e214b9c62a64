package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zentask/internal/api"
	"zentask/internal/models"
	"zentask/internal/tasks"
	"zentask/internal/ui/keys"
	"zentask/internal/ui/styles"
)

// DashboardView shows the authenticated user's tasks grouped by due date
type DashboardView struct {
	svc    api.Service
	user   models.User
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	tasks  []models.Task
	loaded bool
	// loadGen guards against a stale list response overwriting a newer
	// one: only the latest generation is applied.
	loadGen int

	filter models.Status
	open   map[tasks.Bucket]bool
	cursor int

	// pending holds task ids with a mutation in flight; further mutations
	// on those tasks are ignored until the response lands, which keeps
	// per-task updates serialized.
	pending map[int64]bool

	errMsg string

	// Task creation/editing
	editing      bool
	editingNew   bool
	editTaskID   int64
	editStatus   models.Status
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editErr      string
	editFocusIdx int // 0=title, 1=desc, 2=due, 3=save

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
}

// NewDashboardView creates the dashboard for a resolved user
func NewDashboardView(svc api.Service, user models.User) *DashboardView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Add details or notes..."
	editDesc.CharLimit = 1000
	editDesc.SetWidth(40)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD (optional)"
	editDue.CharLimit = 10

	return &DashboardView{
		svc:    svc,
		user:   user,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		filter: models.StatusPending,
		open: map[tasks.Bucket]bool{
			tasks.Today:    true,
			tasks.Tomorrow: false,
			tasks.Later:    false,
		},
		pending:   make(map[int64]bool),
		editTitle: editTitle,
		editDesc:  editDesc,
		editDue:   editDue,
	}
}

type tasksLoadedMsg struct {
	gen  int
	list []models.Task
}

type loadFailedMsg struct {
	gen int
	err error
}

type taskSavedMsg struct {
	created bool
	task    models.Task
}

type taskStatusMsg struct {
	task models.Task
}

type taskDeletedMsg struct {
	id int64
}

type mutationFailedMsg struct {
	id  int64
	err error
}

func (v *DashboardView) Init() tea.Cmd {
	return v.loadTasks()
}

func (v *DashboardView) loadTasks() tea.Cmd {
	v.loadGen++
	gen := v.loadGen
	return func() tea.Msg {
		list, err := v.svc.ListTasks(context.Background(), v.user.ID)
		if err != nil {
			return loadFailedMsg{gen: gen, err: err}
		}
		return tasksLoadedMsg{gen: gen, list: list}
	}
}

// visibleTasks flattens the current filter and collapse state into the
// list the cursor moves over: open buckets in order for pending, the flat
// filtered list for completed.
func (v *DashboardView) visibleTasks() []models.Task {
	filtered := tasks.FilterByStatus(v.tasks, v.filter)
	if v.filter != models.StatusPending {
		return filtered
	}

	groups := tasks.GroupByDue(filtered, time.Now())
	var out []models.Task
	for _, b := range tasks.Buckets {
		if v.open[b] {
			out = append(out, groups.Get(b)...)
		}
	}
	return out
}

func (v *DashboardView) selectedTask() (models.Task, bool) {
	visible := v.visibleTasks()
	if len(visible) == 0 || v.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[v.cursor], true
}

func (v *DashboardView) clampCursor() {
	n := len(v.visibleTasks())
	if n == 0 {
		v.cursor = 0
		return
	}
	v.cursor = clamp(v.cursor, 0, n-1)
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tasksLoadedMsg:
		if msg.gen != v.loadGen {
			// A newer load is in flight; drop this one
			return v, nil
		}
		v.tasks = msg.list
		v.loaded = true
		v.errMsg = ""
		v.clampCursor()
		return v, nil

	case loadFailedMsg:
		if msg.gen != v.loadGen {
			return v, nil
		}
		v.loaded = true
		v.errMsg = loadErrorText(msg.err)
		return v, nil

	case taskSavedMsg:
		if msg.created {
			v.tasks = append(v.tasks, msg.task)
		} else {
			for i, t := range v.tasks {
				if t.ID == msg.task.ID {
					v.tasks[i] = msg.task
					break
				}
			}
		}
		delete(v.pending, msg.task.ID)
		v.errMsg = ""
		v.clampCursor()
		return v, nil

	case taskStatusMsg:
		for i, t := range v.tasks {
			if t.ID == msg.task.ID {
				v.tasks[i] = msg.task
				break
			}
		}
		delete(v.pending, msg.task.ID)
		v.errMsg = ""
		v.clampCursor()
		return v, nil

	case taskDeletedMsg:
		for i, t := range v.tasks {
			if t.ID == msg.id {
				v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
				break
			}
		}
		delete(v.pending, msg.id)
		v.errMsg = ""
		v.clampCursor()
		return v, nil

	case mutationFailedMsg:
		// Pessimistic updates: the local list is untouched on failure,
		// only the status line reports it.
		delete(v.pending, msg.id)
		v.errMsg = loadErrorText(msg.err)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *DashboardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Logout):
		return v, func() tea.Msg { return LoggedOutMsg{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visibleTasks())-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if task, ok := v.selectedTask(); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if task, ok := v.selectedTask(); ok {
			return v, v.toggleStatus(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selectedTask(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		if v.filter == models.StatusPending {
			v.filter = models.StatusCompleted
		} else {
			v.filter = models.StatusPending
		}
		v.cursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		v.loaded = false
		return v, v.loadTasks()

	case msg.String() == "1" || msg.String() == "2" || msg.String() == "3":
		if v.filter == models.StatusPending {
			b := tasks.Buckets[int(msg.String()[0]-'1')]
			v.open[b] = !v.open[b]
			v.clampCursor()
		}
		return v, nil
	}

	return v, nil
}

func (v *DashboardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		return v, v.deleteTask(v.deleteTargetID)
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *DashboardView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTaskID = 0
	v.editStatus = models.StatusPending
	v.editFocusIdx = 0
	v.editErr = ""
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.updateEditFocus()
}

func (v *DashboardView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTaskID = task.ID
	v.editStatus = task.Status
	v.editFocusIdx = 0
	v.editErr = ""
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editDue.SetValue(task.DueDate)
	v.updateEditFocus()
}

func (v *DashboardView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	case 2:
		v.editDue.Focus()
	}
}

func (v *DashboardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submitEdit()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 4
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 3) % 4
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter on title or due moves on; on the save button it submits.
		// The description textarea keeps enter for newlines.
		switch v.editFocusIdx {
		case 0, 2:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case 3:
			return v, v.submitEdit()
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 2:
		v.editDue, cmd = v.editDue.Update(msg)
		// Typing in the due field clears a stale validation error
		v.editErr = ""
	}
	return v, cmd
}

// editValid mirrors the live disabled state of the save control: blank
// titles and past or malformed due dates block submission.
func (v *DashboardView) editValid() bool {
	if strings.TrimSpace(v.editTitle.Value()) == "" {
		return false
	}
	due := strings.TrimSpace(v.editDue.Value())
	if due == "" {
		return true
	}
	if _, err := models.ParseDate(due); err != nil {
		return false
	}
	return !models.IsPastDate(due, time.Now())
}

// submitEdit validates late (the due date may have changed after the title
// was typed) and hands the merged task to the save call on success.
func (v *DashboardView) submitEdit() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		// Silently stay open, matching the disabled save control
		return nil
	}

	due := strings.TrimSpace(v.editDue.Value())
	if due != "" {
		if _, err := models.ParseDate(due); err != nil {
			v.editErr = "Use the YYYY-MM-DD date format."
			return nil
		}
		if models.IsPastDate(due, time.Now()) {
			v.editErr = "Due date cannot be in the past."
			return nil
		}
	}

	status := v.editStatus
	if status == "" {
		status = models.StatusPending
	}
	task := models.Task{
		ID:          v.editTaskID,
		Title:       title,
		Description: strings.TrimSpace(v.editDesc.Value()),
		DueDate:     due,
		Status:      status,
		UserID:      v.user.ID,
	}

	v.editing = false
	created := v.editingNew
	return func() tea.Msg {
		var saved models.Task
		var err error
		if created {
			saved, err = v.svc.CreateTask(context.Background(), task)
		} else {
			saved, err = v.svc.EditTask(context.Background(), task)
		}
		if err != nil {
			return mutationFailedMsg{id: task.ID, err: err}
		}
		return taskSavedMsg{created: created, task: saved}
	}
}

func (v *DashboardView) toggleStatus(task models.Task) tea.Cmd {
	if v.pending[task.ID] {
		return nil
	}
	v.pending[task.ID] = true
	next := task.Status.Toggle()
	return func() tea.Msg {
		updated, err := v.svc.SetStatus(context.Background(), task.ID, next)
		if err != nil {
			return mutationFailedMsg{id: task.ID, err: err}
		}
		return taskStatusMsg{task: updated}
	}
}

func (v *DashboardView) deleteTask(id int64) tea.Cmd {
	if v.pending[id] {
		return nil
	}
	v.pending[id] = true
	return func() tea.Msg {
		if err := v.svc.DeleteTask(context.Background(), id); err != nil {
			return mutationFailedMsg{id: id, err: err}
		}
		return taskDeletedMsg{id: id}
	}
}

func loadErrorText(err error) string {
	switch {
	case errors.Is(err, api.ErrUnavailable):
		return "Network error, please try again"
	case errors.Is(err, api.ErrNotFound):
		return "Task no longer exists"
	default:
		if m := api.Message(err); m != "" {
			return m
		}
		return "Request failed, please try again"
	}
}

// View renders the dashboard
func (v *DashboardView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading tasks...")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	if v.errMsg != "" {
		b.WriteString(v.styles.ErrorText.Render("! " + v.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DashboardView) renderHeader() string {
	s := v.styles

	title := "Pending Tasks"
	if v.filter == models.StatusCompleted {
		title = "Completed Tasks"
	}

	pendingCount := tasks.CountByStatus(v.tasks, models.StatusPending)
	who := fmt.Sprintf("%s <%s> • %d pending", v.user.Name, v.user.Email, pendingCount)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		s.TitleMuted.Render(who),
	)
}

func (v *DashboardView) renderTaskList() string {
	s := v.styles
	filtered := tasks.FilterByStatus(v.tasks, v.filter)

	if v.filter == models.StatusCompleted {
		if len(filtered) == 0 {
			return s.TitleMuted.Render("No completed tasks.")
		}
		return v.renderRows(filtered, 0)
	}

	groups := tasks.GroupByDue(filtered, time.Now())
	var sections []string
	offset := 0
	for i, bucket := range tasks.Buckets {
		list := groups.Get(bucket)

		marker := "▸"
		if v.open[bucket] {
			marker = "▾"
		}
		header := lipgloss.JoinHorizontal(lipgloss.Center,
			s.Section.Render(fmt.Sprintf("%s %s", marker, bucket)),
			" ",
			s.SectionCount.Render(fmt.Sprintf("%d", len(list))),
			"  ",
			s.TitleMuted.Render(fmt.Sprintf("[%d]", i+1)),
		)
		sections = append(sections, header)

		if v.open[bucket] {
			if len(list) == 0 {
				sections = append(sections, s.TitleMuted.Render("  no "+strings.ToLower(bucket.String())+" tasks"))
			} else {
				sections = append(sections, v.renderRows(list, offset))
			}
			offset += len(list)
		}
		sections = append(sections, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRows renders tasks as cursor-aware rows; offset is the index of
// the first row within the visible flattened list.
func (v *DashboardView) renderRows(list []models.Task, offset int) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := clamp(contentWidth-4, 20, styles.MaxWidth-4)

	var rows []string
	for i, task := range list {
		check := "[ ]"
		if task.Status == models.StatusCompleted {
			check = "[x]"
		}

		due := task.DueDate
		if due == "" {
			due = "Today"
		}

		line := fmt.Sprintf("%s %s  %s", check, task.Title, s.TitleMuted.Render(due))
		if v.pending[task.ID] {
			line += " " + s.TitleMuted.Render("…")
		}

		rowStyle := s.ListItem
		if offset+i == v.cursor {
			rowStyle = s.ListSelected
		} else if task.Status == models.StatusCompleted {
			rowStyle = s.ListDone
		}
		rows = append(rows, rowStyle.Width(width).Render(line))

		if task.Description != "" {
			rows = append(rows, s.TitleMuted.Render("      "+task.Description))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *DashboardView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "Add New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	dueStyle := s.Input
	btnStyle := s.Button
	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		dueStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	saveLabel := " Add Task "
	if !v.editingNew {
		saveLabel = " Save Changes "
	}
	if !v.editValid() {
		btnStyle = s.ButtonDisabled
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	parts := []string{
		s.Title.Render(formTitle),
		"",
		"Title *",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description (optional)",
		descStyle.Render(v.editDesc.View()),
		"",
		"Due date (optional)",
		dueStyle.Width(24).Render(v.editDue.View()),
		"",
	}
	if v.editErr != "" {
		parts = append(parts, s.ErrorText.Render(v.editErr), "")
	}
	parts = append(parts,
		btnStyle.Render(saveLabel),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DashboardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(v.deleteTargetName),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DashboardView) renderHelp() string {
	s := v.styles

	filterLabel := "completed"
	if v.filter == models.StatusCompleted {
		filterLabel = "pending"
	}

	return s.Help.Render(
		fmt.Sprintf("%s edit • %s new • %s del • %s done • %s %s • %s sections • %s reload • %s logout • %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("f"),
			filterLabel,
			s.HelpKey.Render("1-3"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("L"),
			s.HelpKey.Render("q"),
		),
	)
}
