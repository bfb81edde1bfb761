package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pipfolio/pipview/internal/pages"
	"github.com/pipfolio/pipview/internal/viewmodel"
)

// maxColumnWidth caps a column so long descriptions do not push the rest
// of the table off screen.
const maxColumnWidth = 40

// PageView renders one page as a navigable table.
type PageView struct {
	Page  pages.Page
	Table table.Model
}

// NewPageView creates a view for p with an empty table.
func NewPageView(p pages.Page) *PageView {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	v := &PageView{Page: p, Table: t}
	v.Sync()
	return v
}

// SetHeight sets the table height.
func (v *PageView) SetHeight(height int) {
	v.Table.SetHeight(height)
}

// Sync copies the page's current rows into the table.
func (v *PageView) Sync() {
	data := v.Page.Table()

	widths := make([]int, len(data.Headers))
	for i, h := range data.Headers {
		widths[i] = lipgloss.Width(h)
	}
	rows := make([]table.Row, 0, len(data.Rows))
	for _, r := range data.Rows {
		for i := range widths {
			if i < len(r) {
				widths[i] = max(widths[i], lipgloss.Width(r[i]))
			}
		}
		rows = append(rows, table.Row(r))
	}

	cols := make([]table.Column, len(data.Headers))
	for i, h := range data.Headers {
		cols[i] = table.Column{Title: h, Width: min(widths[i], maxColumnWidth)}
	}

	// columns first: rows are rendered against the current columns
	v.Table.SetRows(nil)
	v.Table.SetColumns(cols)
	v.Table.SetRows(rows)
	if v.Table.Cursor() >= len(rows) {
		v.Table.SetCursor(max(len(rows)-1, 0))
	}
}

// Update handles table navigation.
func (v *PageView) Update(msg tea.Msg) (*PageView, tea.Cmd) {
	var cmd tea.Cmd
	v.Table, cmd = v.Table.Update(msg)
	return v, cmd
}

// View renders the page.
func (v *PageView) View() string {
	var b strings.Builder
	p := v.Page
	data := p.Table()

	b.WriteString(TitleStyle.Render(p.Title()))
	if len(data.Rows) != data.Total {
		b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d of %d)", len(data.Rows), data.Total)))
	} else {
		b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", data.Total)))
	}
	if q := p.Query(); q != "" {
		b.WriteString(LabelStyle.Render("  search: "))
		b.WriteString(ValueStyle.Render(q))
	}
	b.WriteString("\n")

	switch p.State() {
	case viewmodel.Idle:
		b.WriteString("Loading...")
		return b.String()
	case viewmodel.Loading:
		if p.Updated().IsZero() {
			b.WriteString(fmt.Sprintf("Loading %s...", strings.ToLower(p.Title())))
			return b.String()
		}
		b.WriteString(WarningStyle.Render("Refreshing..."))
		b.WriteString("\n")
	case viewmodel.Failed:
		b.WriteString(ErrorStyle.Render("Error: " + p.Err()))
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Press 'r' to retry"))
		b.WriteString("\n")
		if p.Updated().IsZero() {
			return b.String()
		}
	}

	if summary := p.Summary(); len(summary) > 0 {
		b.WriteString(renderSummary(summary))
		b.WriteString("\n\n")
	}

	if len(data.Rows) == 0 {
		if data.Total == 0 {
			b.WriteString(LabelStyle.Render("Nothing to show"))
		} else {
			b.WriteString(LabelStyle.Render("No matches"))
		}
	} else {
		b.WriteString(v.Table.View())
	}

	if updated := p.Updated(); !updated.IsZero() {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Updated: " + updated.Format("15:04:05")))
	}
	return b.String()
}

func renderSummary(figures []pages.Figure) string {
	parts := make([]string, 0, len(figures))
	for _, f := range figures {
		parts = append(parts, LabelStyle.Render(f.Label+": ")+ClassStyle(f.Class).Render(f.Value))
	}
	return strings.Join(parts, "  ")
}
