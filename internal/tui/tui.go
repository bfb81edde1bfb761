package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pipfolio/pipview/internal/pages"
	"github.com/pipfolio/pipview/internal/selection"
	"github.com/pipfolio/pipview/internal/viewmodel"
)

// AccountNamesFunc lists the accounts offered by the account selector. It
// never fails; an unreachable backend yields an empty list.
type AccountNamesFunc func(ctx context.Context) []string

// Model is the main bubbletea model for the TUI.
type Model struct {
	ctx     context.Context
	set     *pages.Set
	views   []*PageView
	current int
	width   int
	height  int
	ready   bool

	search    textinput.Model
	searching bool

	accountNames AccountNamesFunc
	accounts     []string

	uiCfg           *UIConfig
	refreshInterval time.Duration
}

// New creates a new TUI model over set. The pages are expected to be
// initialized by the caller.
func New(ctx context.Context, set *pages.Set, names AccountNamesFunc, uiCfg *UIConfig) Model {
	if uiCfg == nil {
		uiCfg = &UIConfig{}
	}

	all := set.All()
	views := make([]*PageView, len(all))
	for i, p := range all {
		views[i] = NewPageView(p)
	}

	ti := textinput.New()
	ti.Placeholder = "name, ticker, ISIN, type..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30

	current := 0
	if uiCfg.StartTab >= 1 && uiCfg.StartTab <= len(views) {
		current = uiCfg.StartTab - 1
	}

	return Model{
		ctx:             ctx,
		set:             set,
		views:           views,
		current:         current,
		search:          ti,
		accountNames:    names,
		accounts:        []string{},
		uiCfg:           uiCfg,
		refreshInterval: time.Duration(uiCfg.RefreshSeconds) * time.Second,
	}
}

// Run initializes the pages, runs the program until the user quits and
// saves the last active tab to uiPath.
func Run(ctx context.Context, set *pages.Set, names AccountNamesFunc, uiCfg *UIConfig, uiPath string, opts ...tea.ProgramOption) error {
	set.Initialize(ctx)
	defer set.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(New(ctx, set, names, uiCfg), opts...).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && uiPath != "" {
		m.uiCfg.StartTab = m.current + 1
		if err := SaveConfig(uiPath, m.uiCfg); err != nil {
			return fmt.Errorf("failed to save ui config: %w", err)
		}
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.views)+2)
	for i, v := range m.views {
		cmds = append(cmds, listen(i, v.Page.Changes()))
	}
	if m.accountNames != nil {
		cmds = append(cmds, FetchAccountNames(m.ctx, m.accountNames))
	}
	if m.refreshInterval > 0 {
		cmds = append(cmds, m.tickCmd())
	}
	return tea.Batch(cmds...)
}

// listen waits for the next change signal of page i.
func listen(i int, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return PageChangedMsg{Index: i}
	}
}

// FetchAccountNames returns a command that loads the selector options.
func FetchAccountNames(ctx context.Context, names AccountNamesFunc) tea.Cmd {
	return func() tea.Msg {
		return AccountNamesMsg{Names: names(ctx)}
	}
}

// refresh returns a command running one fetch cycle of p. The result
// arrives through the page's change signal.
func (m Model) refresh(p pages.Page) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = p.Refresh(ctx)
		return nil
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) page() pages.Page {
	return m.views[m.current].Page
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1", "2", "3", "4", "5":
			m.switchTo(int(key[0] - '1'))
		case "tab":
			m.switchTo((m.current + 1) % len(m.views))
		case "shift+tab":
			m.switchTo((m.current + len(m.views) - 1) % len(m.views))
		case "/":
			m.searching = true
			m.search.SetValue(m.page().Query())
			m.search.CursorEnd()
			return m, m.search.Focus()
		case "a", "A":
			step := 1
			if key == "A" {
				step = -1
			}
			m.set.Store.Set(selection.Cycle(m.accounts, m.set.Store.Get(), step))
		case "s":
			if m.page() == pages.Page(m.set.Positions) {
				m.set.Positions.NextStatus()
			}
		case "r":
			cmds = append(cmds, m.refresh(m.page()))
		default:
			m.views[m.current], cmd = m.views[m.current].Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// header, footer, title, summary, updated line and padding
		tableHeight := max(m.height-12, 3)
		for _, v := range m.views {
			v.SetHeight(tableHeight)
		}

	case PageChangedMsg:
		if msg.Index >= 0 && msg.Index < len(m.views) {
			v := m.views[msg.Index]
			v.Sync()
			cmds = append(cmds, listen(msg.Index, v.Page.Changes()))
		}

	case AccountNamesMsg:
		m.accounts = msg.Names

	case TickMsg:
		if p := m.page(); p.State() != viewmodel.Loading {
			cmds = append(cmds, m.refresh(p))
		}
		cmds = append(cmds, m.tickCmd())
	}

	return m, tea.Batch(cmds...)
}

// updateSearch feeds keys to the search input while it has focus. Every
// edit is applied to the active page immediately.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch()
	return m, cmd
}

func (m *Model) applySearch() {
	v := m.views[m.current]
	v.Page.SetSearchQuery(m.search.Value())
	v.Sync()
}

func (m *Model) switchTo(i int) {
	if i < 0 || i >= len(m.views) {
		return
	}
	m.current = i
	m.views[i].Sync()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	content := m.renderContent()

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	lines := strings.Split(content, "\n")
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	if contentHeight > 0 && len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}

	return header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

func (m Model) accountLabel() string {
	if a := m.set.Store.Get(); a != selection.AllAccounts {
		return a
	}
	return "All accounts"
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(m.views))
	for i, v := range m.views {
		style := TabStyle
		if i == m.current {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d] %s", i+1, v.Page.Title())))
	}

	left := HeaderStyle.Render("pipview") + "  " + strings.Join(tabs, " ")
	right := LabelStyle.Render("Account: ") + ValueStyle.Render(m.accountLabel())
	if m.page() == pages.Page(m.set.Positions) {
		right += LabelStyle.Render("  Status: ") + ValueStyle.Render(m.set.Positions.Status())
	}

	return fill(left, right, m.width)
}

func (m Model) renderContent() string {
	var b strings.Builder
	if m.searching {
		b.WriteString(SearchStyle.Render(m.search.View()))
		b.WriteString("\n")
	}
	b.WriteString(m.views[m.current].View())
	return ContentStyle.Render(b.String())
}

func (m Model) renderFooter() string {
	type hint struct{ key, desc string }

	var keys []hint
	if m.searching {
		keys = []hint{{"enter", "keep"}, {"esc", "clear"}}
	} else {
		keys = []hint{
			{"1-5", "switch page"},
			{"↑/↓", "navigate"},
			{"/", "search"},
		}
		if m.page().AccountFiltered() {
			keys = append(keys, hint{"a/A", "account"})
		}
		if m.page() == pages.Page(m.set.Positions) {
			keys = append(keys, hint{"s", "status"})
		}
		keys = append(keys, hint{"r", "refresh"}, hint{"q", "quit"})
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, KeyStyle.Render(k.key)+" "+DescStyle.Render(k.desc))
	}
	return fill(strings.Join(parts, "  •  "), "", m.width)
}

// fill lays left and right out on one full-width bar.
func fill(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return BarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
