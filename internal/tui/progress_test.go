package tui

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/lotexport/internal/core"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return model, cmd
}

func TestModel_ProgressIsMonotonic(t *testing.T) {
	m := NewModel("Export", nil)

	m, _ = update(t, m, ProgressMsg(40))
	m, _ = update(t, m, ProgressMsg(20))

	assert.Equal(t, 40.0, m.percent)
	assert.Contains(t, m.View(), "40%")
}

func TestModel_ResultsAndDone(t *testing.T) {
	m := NewModel("Export", nil)

	m, _ = update(t, m, ResultMsg("LiveAuctioneers export error: missing required column 'StartBid'"))
	m, _ = update(t, m, ResultMsg("2 warnings generated; check log file"))

	summary := &core.RunSummary{
		Targets: []core.TargetResult{
			{TargetKey: "invaluable", Status: core.StatusExported, Rows: 3, Path: "/tmp/Invalu_Export_03_07_2024.csv"},
			{TargetKey: "liveauctioneers", Status: core.StatusFailed, Error: "missing required column 'StartBid'"},
		},
		Warnings:   2,
		WarningLog: "/tmp/Export_warnings_03_07_2024.txt",
	}
	m, cmd := update(t, m, DoneMsg{Summary: summary})
	require.NotNil(t, cmd, "DoneMsg should quit")

	view := m.View()
	assert.Contains(t, view, "2 warnings generated; check log file")
	assert.Contains(t, view, "invaluable: 3 rows")
	assert.Contains(t, view, "Export_warnings_03_07_2024.txt")

	got, err := m.Summary()
	assert.NoError(t, err)
	assert.Same(t, summary, got)
}

func TestModel_CtrlCCancelsRun(t *testing.T) {
	cancelled := false
	m := NewModel("Export", func() { cancelled = true })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.True(t, cancelled)
	_, err := m.Summary()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModel_ErrorView(t *testing.T) {
	m := NewModel("Export", nil)
	m, _ = update(t, m, DoneMsg{Err: core.ErrEmptySource})

	assert.Contains(t, m.View(), "FILE006")
}

func TestModel_WindowResize(t *testing.T) {
	m := NewModel("Export", nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 26, m.bar.Width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 10})
	assert.Equal(t, maxBarWidth, m.bar.Width)
}

func TestRenderPreview(t *testing.T) {
	rows := [][]string{
		{"101", "Blue vase", strings.Repeat("x", 40)},
		{"102", "Bowl"},
	}

	out := RenderPreview(rows, 3, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "#1")
	assert.Contains(t, lines[0], "#3")
	assert.Contains(t, lines[1], "Blue vase")
	assert.Contains(t, lines[1], "…")
	assert.NotContains(t, out, strings.Repeat("x", 40))
}

func TestRenderPreview_BoundHeaders(t *testing.T) {
	rows := [][]string{{"101", "Blue vase", "x"}}

	out := RenderPreview(rows, 3, []core.Field{core.FieldLotNum, core.FieldTitle, core.FieldIgnore})
	header := strings.SplitN(out, "\n", 2)[0]

	assert.Contains(t, header, "#1 LotNum")
	assert.Contains(t, header, "#2 Title")
	assert.Contains(t, header, "#3 [Ignore]")
}

func TestSummaryView_Skipped(t *testing.T) {
	out := SummaryView(&core.RunSummary{
		Targets: []core.TargetResult{{TargetKey: "liveauctioneers", Status: core.StatusSkipped}},
	})
	assert.Contains(t, out, "liveauctioneers: skipped")
}

func TestRun_WaitsForJobAfterQuit(t *testing.T) {
	var finished atomic.Bool
	job := func(ctx context.Context, _ core.ProgressFunc, _ core.ResultFunc) (*core.RunSummary, error) {
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		// Stands in for a target write that completes after cancellation.
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return &core.RunSummary{RunID: "r1"}, ctx.Err()
	}

	summary, err := Run(context.Background(), "Export", job,
		tea.WithInput(strings.NewReader("q")),
		tea.WithOutput(io.Discard),
	)

	assert.True(t, finished.Load(), "Run returned before the job finished")
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, "r1", summary.RunID)
}

func TestRun_ReturnsJobResult(t *testing.T) {
	want := &core.RunSummary{RunID: "r2", Records: 3}
	job := func(_ context.Context, onProgress core.ProgressFunc, onResult core.ResultFunc) (*core.RunSummary, error) {
		onProgress(50)
		onResult("1 warnings generated; check log file")
		return want, nil
	}

	summary, err := Run(context.Background(), "Export", job,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
	)

	require.NoError(t, err)
	assert.Same(t, want, summary)
}
