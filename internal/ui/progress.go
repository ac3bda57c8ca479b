// Package ui renders the interactive view of `dada check --progress`.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dada/internal/driver"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusColumns = 10
)

// defaultRows is how many file rows fit before the terminal size is known.
const defaultRows = 10

type fileState struct {
	path   string
	status driver.Status
	errors int
}

func (f fileState) finished() bool {
	return f.status == driver.StatusDone || f.status == driver.StatusCached
}

// visible: only files in flight and files with errors get a row.
func (f fileState) visible() bool {
	return f.status == driver.StatusChecking || (f.finished() && f.errors > 0)
}

func (f fileState) label() (string, lipgloss.Style) {
	switch {
	case f.finished() && f.errors > 0:
		return plural(f.errors, "error"), errorStyle
	case f.status == driver.StatusChecking:
		return "checking", activeStyle
	case f.status == driver.StatusCached:
		return "cached", okStyle
	case f.status == driver.StatusDone:
		return "ok", okStyle
	}
	return f.status.String(), mutedStyle
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model

	files  []fileState
	byPath map[string]int

	finished, cached, errors int

	width, rows int
	done        bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel follows the events of one CheckAll run over files.
// It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		files:   make([]fileState, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
		rows:    defaultRows,
	}
	for i, path := range files {
		m.files[i] = fileState{path: path, status: driver.StatusQueued}
		m.byPath[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next ждёт следующее событие драйвера; закрытый канал завершает модель.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		// заголовок, пустая строка, полоса и хвост "+N more"
		m.rows = max(msg.Height-5, 1)
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records one event; a file is counted once even if its final event repeats.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	f := &m.files[i]
	if f.finished() {
		return nil
	}
	f.status = ev.Status
	if !f.finished() {
		return nil
	}
	f.errors = ev.Errors
	m.finished++
	m.errors += ev.Errors
	if ev.Status == driver.StatusCached {
		m.cached++
	}
	return m.bar.SetPercent(float64(m.finished) / float64(len(m.files)))
}

func (m *progressModel) header() string {
	counts := fmt.Sprintf("%s (%d/%d", m.title, m.finished, len(m.files))
	if m.cached > 0 {
		counts += fmt.Sprintf(", %d cached", m.cached)
	}
	counts += ")"
	if m.done {
		return fmt.Sprintf("done: %s, %s", counts, plural(m.errors, "error"))
	}
	return m.spinner.View() + " " + counts
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumns-4, 20)
	shown, hidden := 0, 0
	for _, f := range m.files {
		if !f.visible() {
			continue
		}
		if shown == m.rows {
			hidden++
			continue
		}
		shown++
		label, style := f.label()
		fmt.Fprintf(&b, "  %s %s\n", style.Render(fmt.Sprintf("%*s", statusColumns, label)), truncate(f.path, nameWidth))
	}
	if hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  +%d more", hidden)))
		b.WriteString("\n")
	}
	if shown > 0 {
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// truncate shortens value to width terminal cells, ending with "..." when there is room.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
