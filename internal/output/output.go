package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pipfolio/pipview/internal/format"
	"github.com/pipfolio/pipview/internal/pages"
)

var (
	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Formatter handles output formatting (table or JSON).
type Formatter struct {
	Writer   io.Writer
	JSONMode bool
	// Color enables ANSI colours on summary lines. Table cells are never
	// coloured so tabwriter alignment holds.
	Color bool
}

// New creates a new Formatter with the specified writer and JSON mode.
// Colour is enabled when w is a terminal.
func New(w io.Writer, jsonMode bool) *Formatter {
	return &Formatter{
		Writer:   w,
		JSONMode: jsonMode,
		Color:    isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Table outputs data as a formatted table or JSON array depending on mode.
// Headers define column names, rows contain the data.
func (f *Formatter) Table(headers []string, rows [][]string) error {
	if f.JSONMode {
		return f.Print(tableObjects(headers, rows))
	}
	return f.tableAsText(headers, rows)
}

func (f *Formatter) tableAsText(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}

	separators := make([]string, len(headers))
	for i, h := range headers {
		separators[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(separators, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// tableObjects turns rows into objects keyed by header.
func tableObjects(headers []string, rows [][]string) []map[string]string {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				obj[header] = row[i]
			} else {
				obj[header] = ""
			}
		}
		result = append(result, obj)
	}
	return result
}

// Summary prints one "Label: Value" line per figure, coloured by class.
func (f *Formatter) Summary(figures []pages.Figure) error {
	if f.JSONMode {
		return f.Print(summaryObjects(figures))
	}
	for _, fig := range figures {
		if _, err := fmt.Fprintf(f.Writer, "%s %s\n", f.label(fig.Label+":"), f.value(fig)); err != nil {
			return err
		}
	}
	return nil
}

type figureJSON struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Class string `json:"class"`
}

func summaryObjects(figures []pages.Figure) []figureJSON {
	out := make([]figureJSON, 0, len(figures))
	for _, fig := range figures {
		out = append(out, figureJSON{Label: fig.Label, Value: fig.Value, Class: string(fig.Class)})
	}
	return out
}

func (f *Formatter) label(s string) string {
	if !f.Color {
		return s
	}
	return labelStyle.Render(s)
}

func (f *Formatter) value(fig pages.Figure) string {
	if !f.Color {
		return fig.Value
	}
	switch fig.Class {
	case format.Positive:
		return gainStyle.Render(fig.Value)
	case format.Negative:
		return lossStyle.Render(fig.Value)
	}
	return fig.Value
}

// pageJSON is the JSON rendering of a whole page.
type pageJSON struct {
	Page    string              `json:"page"`
	Account *string             `json:"account,omitempty"`
	Query   string              `json:"query,omitempty"`
	Total   int                 `json:"total"`
	Rows    []map[string]string `json:"rows"`
	Summary []figureJSON        `json:"summary,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Page renders a settled page: its table, a count line when a search hides
// rows, then the summary. In text mode a failed page shows the last rows it
// held and leaves the error message to the caller; JSON carries it in
// "error".
func (f *Formatter) Page(p pages.Page) error {
	table := p.Table()
	summary := p.Summary()

	if f.JSONMode {
		out := pageJSON{
			Page:    p.Name(),
			Query:   p.Query(),
			Total:   table.Total,
			Rows:    tableObjects(table.Headers, table.Rows),
			Summary: summaryObjects(summary),
			Error:   p.Err(),
		}
		if p.AccountFiltered() {
			account := p.Account()
			out.Account = &account
		}
		return f.Print(out)
	}

	if err := f.tableAsText(table.Headers, table.Rows); err != nil {
		return err
	}
	if len(table.Rows) != table.Total {
		if _, err := fmt.Fprintf(f.Writer, "\n%s\n", f.label(fmt.Sprintf("Showing %d of %d", len(table.Rows), table.Total))); err != nil {
			return err
		}
	}
	if len(summary) > 0 {
		if _, err := fmt.Fprintln(f.Writer); err != nil {
			return err
		}
		if err := f.Summary(summary); err != nil {
			return err
		}
	}
	return nil
}

// Print outputs data as formatted JSON (pretty-printed) or as a simple string representation.
func (f *Formatter) Print(data any) error {
	if f.JSONMode {
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	_, err := fmt.Fprintf(f.Writer, "%v\n", data)
	return err
}

// Lines prints one value per line, or a JSON array in JSON mode.
func (f *Formatter) Lines(values []string) error {
	if f.JSONMode {
		return f.Print(values)
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(f.Writer, v); err != nil {
			return err
		}
	}
	return nil
}
