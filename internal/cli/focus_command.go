package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"study-tracker/internal/api"
	"study-tracker/internal/domain"
)

// focusSavedMsg carries the outcome of recording a finished countdown
type focusSavedMsg struct {
	session *domain.Session
	err     error
}

// focusModel is the countdown shown by `st focus`. It records the session
// once, when the countdown reaches zero; quitting early records nothing.
type focusModel struct {
	subject string
	total   int
	timer   timer.Model

	paused   bool
	finished bool
	quitting bool

	save    func() tea.Msg
	session *domain.Session
	err     error
}

func newFocusModel(subject string, total time.Duration, save func(totalSeconds int) (*domain.Session, error)) focusModel {
	seconds := int(total / time.Second)
	return focusModel{
		subject: subject,
		total:   seconds,
		timer:   timer.NewWithInterval(total, time.Second),
		save: func() tea.Msg {
			session, err := save(seconds)
			return focusSavedMsg{session: session, err: err}
		},
	}
}

func (m focusModel) Init() tea.Cmd {
	return m.timer.Init()
}

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if msg.ID != m.timer.ID() || m.finished {
			return m, nil
		}
		m.finished = true
		return m, m.save
	case focusSavedMsg:
		m.session = msg.session
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if m.finished {
			return m, nil
		}
		switch msg.String() {
		case " ", "p":
			m.paused = !m.paused
			return m, m.timer.Toggle()
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m focusModel) remaining() int {
	if m.finished {
		return 0
	}
	return int(m.timer.Timeout.Round(time.Second) / time.Second)
}

func (m focusModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.subject) + "\n\n")
	b.WriteString(boxStyle.Render(domain.FormatClock(m.remaining())) + "\n\n")
	switch {
	case m.finished:
		b.WriteString(mutedStyle.Render("Saving session...") + "\n")
	case m.paused:
		b.WriteString(mutedStyle.Render("Paused  space resume  q quit") + "\n")
	default:
		b.WriteString(mutedStyle.Render("space pause  q quit") + "\n")
	}
	return b.String()
}

// FocusCommand runs the focus countdown
type FocusCommand struct {
	api api.StudyAPI
	app *App
	// run drives the model to completion; tests replace it
	run func(ctx context.Context, m tea.Model) (tea.Model, error)
}

// NewFocusCommand creates a new focus command handler
func NewFocusCommand(app *App) *FocusCommand {
	return &FocusCommand{api: app.api, app: app, run: runProgram}
}

func runProgram(ctx context.Context, m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithContext(ctx)).Run()
}

// ParseFocusDuration accepts a Go duration ("25m", "1h30m") or a bare
// number of minutes. An empty string yields fallback minutes.
func ParseFocusDuration(s string, fallback int) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = strconv.Itoa(fallback)
	}
	if minutes, err := strconv.Atoi(s); err == nil {
		s = fmt.Sprintf("%dm", minutes)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid focus duration %q", s)
	}
	if d < time.Second {
		return 0, fmt.Errorf("focus duration must be at least one second, got %s", d)
	}
	return d.Truncate(time.Second), nil
}

// Run counts down duration for subject. An empty subject picks the first
// subject flagged for the timer, then the configured default.
func (c *FocusCommand) Run(ctx context.Context, subject string, duration time.Duration) error {
	if subject == "" {
		var err error
		if subject, err = c.timerSubject(ctx); err != nil {
			return c.app.errors.Handle("start focus", err)
		}
	}

	// The countdown outlives the per-command timeout, the save does not.
	save := func(totalSeconds int) (*domain.Session, error) {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.app.config.Database.WriteTimeout)
		defer cancel()
		return c.api.CompleteFocus(saveCtx, subject, totalSeconds)
	}

	final, err := c.run(ctx, newFocusModel(subject, duration, save))
	if err != nil {
		return c.app.errors.Handle("focus", err)
	}

	m, ok := final.(focusModel)
	if !ok {
		return nil
	}
	switch {
	case m.err != nil:
		return c.app.errors.Handle("save focus session", m.err)
	case m.session != nil:
		minutes, seconds := domain.SplitSeconds(m.session.TotalSeconds())
		fmt.Fprintf(c.app.out, "Focus session completed! %dm %ds of %s\n", minutes, seconds, m.session.Subject)
	default:
		fmt.Fprintln(c.app.out, "Focus session stopped, nothing logged")
	}
	return nil
}

func (c *FocusCommand) timerSubject(ctx context.Context) (string, error) {
	subjects, err := c.api.ListSubjects(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range subjects {
		if s.UseForTimer {
			return s.Name, nil
		}
	}
	return c.app.config.Session.DefaultSubject, nil
}
