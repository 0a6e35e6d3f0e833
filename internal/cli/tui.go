package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pypeek/pypeek/pkg/pypi"
)

// downloadResultMsg reports one finished package of a download batch.
type downloadResultMsg struct {
	i, n int
	res  pypi.DownloadResult
}

// downloadDoneMsg reports batch completion.
type downloadDoneMsg struct {
	err error
}

type tickMsg struct{}

// downloadModel is the bubbletea model for the download progress view.
type downloadModel struct {
	total   int
	done    int
	stored  int
	skipped int
	failed  int
	current string
	frame   int
	frames  []string
	cancel  context.CancelFunc
}

func newDownloadModel(total int, cancel context.CancelFunc) downloadModel {
	return downloadModel{
		total:  total,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		cancel: cancel,
	}
}

func (m downloadModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case downloadResultMsg:
		m.done = msg.i
		m.current = msg.res.Name
		switch {
		case msg.res.Err != nil:
			m.failed++
		case msg.res.Skipped:
			m.skipped++
		default:
			m.stored++
		}
	case downloadDoneMsg:
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m downloadModel) View() string {
	var b strings.Builder

	frame := m.frames[m.frame%len(m.frames)]
	b.WriteString(styleIconSpinner.Render(frame))
	b.WriteString(fmt.Sprintf(" Downloading %d/%d", m.done, m.total))
	if m.current != "" {
		b.WriteString("  " + StyleValue.Render(m.current))
	}
	b.WriteString("\n")

	parts := []string{
		StyleSuccess.Render(fmt.Sprintf("%d stored", m.stored)),
		StyleDim.Render(fmt.Sprintf("%d skipped", m.skipped)),
	}
	if m.failed > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString("  " + strings.Join(parts, StyleDim.Render(" · ")))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  q to cancel"))
	b.WriteString("\n")

	return b.String()
}
