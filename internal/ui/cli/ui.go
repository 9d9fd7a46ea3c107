package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"codeshape/internal/core/ports"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	tableBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#475569"))
)

// maxRecentRows caps the table; older files drop off the bottom.
const maxRecentRows = 200

// Column widths other than the file column, which takes the remaining width.
var fixedColumns = []table.Column{
	{Title: "Language", Width: 12},
	{Title: "Fn", Width: 4},
	{Title: "Cls", Width: 4},
	{Title: "Var", Width: 4},
	{Title: "Imp", Width: 4},
	{Title: "Exp", Width: 4},
	{Title: "Status", Width: 16},
}

const minFileWidth = 20

type watchRow struct {
	path   string
	cells  table.Row
	failed bool
}

type updateMsg struct {
	results []ports.FileResult
	at      time.Time
}

type watchErrMsg struct{ err error }

type watchModel struct {
	table   table.Model
	spinner spinner.Model
	paths   []string

	rows       []watchRow
	batches    int
	analyzed   int
	failed     int
	lastUpdate time.Time
	err        error
}

func newWatchModel(paths []string) watchModel {
	t := table.New(
		table.WithColumns(columnsFor(minFileWidth*2)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F8FAFC")).
		Background(lipgloss.Color("#1E40AF"))
	t.SetStyles(styles)

	return watchModel{
		table:   t,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		paths:   paths,
	}
}

func columnsFor(width int) []table.Column {
	fileWidth := width
	for _, c := range fixedColumns {
		fileWidth -= c.Width + 2
	}
	fileWidth = max(fileWidth, minFileWidth)
	return append([]table.Column{{Title: "File", Width: fileWidth}}, fixedColumns...)
}

func (m watchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h - tableBorder.GetHorizontalFrameSize()
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.table.SetColumns(columnsFor(width))
		m.table.SetWidth(width)
		m.table.SetHeight(height)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case updateMsg:
		m.apply(msg)
		return m, nil
	case watchErrMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// apply puts the batch at the top of the table, most recent first, replacing
// earlier rows for the same files.
func (m *watchModel) apply(msg updateMsg) {
	m.batches++
	m.lastUpdate = msg.at

	fresh := make([]watchRow, 0, len(msg.results))
	seen := make(map[string]bool, len(msg.results))
	for i := len(msg.results) - 1; i >= 0; i-- {
		res := msg.results[i]
		if seen[res.Path] {
			continue
		}
		seen[res.Path] = true
		row := rowFor(res)
		if row.failed {
			m.failed++
		} else if !res.Removed {
			m.analyzed++
		}
		fresh = append(fresh, row)
	}

	for _, r := range m.rows {
		if !seen[r.path] {
			fresh = append(fresh, r)
		}
	}
	m.rows = fresh
	if len(m.rows) > maxRecentRows {
		m.rows = m.rows[:maxRecentRows]
	}

	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		rows[i] = r.cells
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func rowFor(res ports.FileResult) watchRow {
	name := filepath.ToSlash(res.Path)
	switch {
	case res.Removed:
		return watchRow{path: res.Path, cells: table.Row{name, "", "", "", "", "", "", "removed"}}
	case res.Record == nil:
		msg := res.Error
		if msg == "" && res.Err != nil {
			msg = res.Err.Error()
		}
		return watchRow{path: res.Path, failed: true, cells: table.Row{name, "", "", "", "", "", "", "error: " + msg}}
	}

	rec := res.Record
	status := "ok"
	if rec.Partial {
		status = "partial"
	}
	return watchRow{path: res.Path, cells: table.Row{
		name,
		rec.Language,
		strconv.Itoa(len(rec.Functions)),
		strconv.Itoa(len(rec.Classes)),
		strconv.Itoa(len(rec.Variables)),
		strconv.Itoa(len(rec.Imports)),
		strconv.Itoa(len(rec.Exports)),
		status,
	}}
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle("codeshape watch"))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(strings.Join(m.paths, ", ")))
	b.WriteString("\n")

	last := "waiting for changes"
	if !m.lastUpdate.IsZero() {
		last = "last update " + m.lastUpdate.Format("15:04:05")
	}
	b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), statusStyle.Render(fmt.Sprintf(
		"%s | %d batches | %d analyzed | %d failed", last, m.batches, m.analyzed, m.failed))))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("watch failed: " + m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(tableBorder.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("↑/↓ scroll • q quit"))
	return docStyle.Render(b.String())
}
