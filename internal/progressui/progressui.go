// Package progressui renders live scan telemetry behind --progress: a
// bubbletea program on a real terminal, or a progressbar/v3 spinner on
// stderr when stdout is not a TTY.
package progressui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/sflanaga/parascan/internal/queue"
)

// Snapshot is one tick's worth of queue telemetry, read from both queues'
// Snapshot() methods.
type Snapshot struct {
	Work queue.Stats
	Meta queue.Stats
}

// SnapshotFunc produces the current telemetry; called once per tick.
type SnapshotFunc func() Snapshot

// Run displays telemetry at the given interval until done is closed. It
// chooses bubbletea when stdout is a terminal, otherwise a progressbar/v3
// spinner on stderr.
func Run(interval time.Duration, snap SnapshotFunc, done <-chan struct{}) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		runBubbletea(interval, snap, done)
		return
	}
	runSpinner(interval, snap, done)
}

func runSpinner(interval time.Duration, snap SnapshotFunc, done <-chan struct{}) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(interval),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			bar.Finish()
			return
		case <-ticker.C:
			s := snap()
			bar.Describe(fmt.Sprintf("work=%d meta=%d blocked=%d", s.Work.Length, s.Meta.Length, s.Work.BlockedPoppers))
			bar.Add(1)
		}
	}
}

type tickMsg time.Time

type model struct {
	interval time.Duration
	snap     SnapshotFunc
	done     <-chan struct{}
	current  Snapshot
	finished bool
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func (m model) Init() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		select {
		case <-m.done:
			m.finished = true
			return m, tea.Quit
		default:
		}
		m.current = m.snap()
		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.finished {
		return ""
	}
	return fmt.Sprintf(
		"%s %d  %s %d  %s %d\n",
		labelStyle.Render("work queue:"), m.current.Work.Length,
		labelStyle.Render("blocked:"), m.current.Work.BlockedPoppers,
		labelStyle.Render("meta queue:"), m.current.Meta.Length,
	)
}

func runBubbletea(interval time.Duration, snap SnapshotFunc, done <-chan struct{}) {
	p := tea.NewProgram(model{interval: interval, snap: snap, done: done})
	go func() {
		<-done
		p.Quit()
	}()
	_, _ = p.Run()
}
