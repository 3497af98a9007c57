// Package tui renders export runs in the terminal.
//
// The run itself executes in a goroutine; its progress and result callbacks
// are forwarded to the bubbletea program as messages:
//
//	Processor callback -> Msg -> Update -> View -> Screen
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/lotexport/internal/core"
)

const maxBarWidth = 60

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// ProgressMsg carries a run percentage in [0, 100].
type ProgressMsg float64

// ResultMsg carries one onResult message from the processor.
type ResultMsg string

// DoneMsg is sent once when the run returns.
type DoneMsg struct {
	Summary *core.RunSummary
	Err     error
}

// Job runs an export, reporting through the given callbacks.
type Job func(ctx context.Context, onProgress core.ProgressFunc, onResult core.ResultFunc) (*core.RunSummary, error)

// Model is the bubbletea model for one export run.
type Model struct {
	title   string
	bar     progress.Model
	percent float64
	results []string
	summary *core.RunSummary
	err     error
	done    bool
	cancel  context.CancelFunc
}

// NewModel creates a model titled title. cancel is invoked when the user quits
// before the run finishes.
func NewModel(title string, cancel context.CancelFunc) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = maxBarWidth
	return Model{title: title, bar: bar, cancel: cancel}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(maxBarWidth, max(10, msg.Width-4))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.done {
				if m.cancel != nil {
					m.cancel()
				}
				m.err = context.Canceled
			}
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		if p := float64(msg); p > m.percent {
			m.percent = p
		}
		return m, nil

	case ResultMsg:
		m.results = append(m.results, string(msg))
		return m, nil

	case DoneMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.percent / 100))
	b.WriteString("\n\n")

	for _, r := range m.results {
		style := resultStyle
		if strings.Contains(r, "error") {
			style = errorStyle
		}
		b.WriteString(style.Render("• "+r) + "\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(core.FormatUserError(m.err)) + "\n")
	case m.done && m.summary != nil:
		b.WriteString(SummaryView(m.summary))
	default:
		b.WriteString(hintStyle.Render("ctrl+c to cancel") + "\n")
	}

	return b.String()
}

// Summary returns the run summary and error once the run has finished.
func (m Model) Summary() (*core.RunSummary, error) {
	return m.summary, m.err
}

// SummaryView renders one line per target and the warning log location.
func SummaryView(s *core.RunSummary) string {
	var b strings.Builder
	for _, t := range s.Targets {
		switch t.Status {
		case core.StatusExported:
			b.WriteString(successStyle.Render(fmt.Sprintf("✓ %s: %d rows → %s", t.TargetKey, t.Rows, t.Path)) + "\n")
		case core.StatusFailed:
			b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %s", t.TargetKey, t.Error)) + "\n")
		default:
			b.WriteString(hintStyle.Render(fmt.Sprintf("- %s: %s", t.TargetKey, t.Status)) + "\n")
		}
	}
	if s.WarningLog != "" {
		b.WriteString(resultStyle.Render(fmt.Sprintf("%d warnings → %s", s.Warnings, s.WarningLog)) + "\n")
	}
	return b.String()
}

// Run executes job under a bubbletea program and returns its result. When
// the user quits early the job is cancelled and Run still waits for it to
// return, so a file being written is finished or removed before the caller
// exits.
func Run(ctx context.Context, title string, job Job, opts ...tea.ProgramOption) (*core.RunSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title, cancel), opts...)
	result := make(chan DoneMsg, 1)

	go func() {
		summary, err := job(ctx,
			func(v float64) { p.Send(ProgressMsg(v)) },
			func(s string) { p.Send(ResultMsg(s)) },
		)
		done := DoneMsg{Summary: summary, Err: err}
		result <- done
		p.Send(done)
	}()

	_, uiErr := p.Run()
	if uiErr != nil {
		cancel()
	}
	done := <-result

	if uiErr != nil {
		return done.Summary, fmt.Errorf("run terminal ui: %w", uiErr)
	}
	return done.Summary, done.Err
}
