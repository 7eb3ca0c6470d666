package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/maison/internal/catalog"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/money"
	"github.com/felixgeelhaar/maison/internal/search"
	"github.com/felixgeelhaar/maison/internal/ui"
)

// resultMsg carries a debouncer result into the update loop.
type resultMsg search.Result

// resultsClosedMsg is sent once the debouncer has shut down.
type resultsClosedMsg struct{}

// SearchModel is the type-ahead search screen. Keystrokes feed a
// search.Debouncer; its results are shown as they arrive.
type SearchModel struct {
	input    textinput.Model
	debounce *search.Debouncer
	state    *ui.State
	styles   Styles

	gen      uint64
	loading  bool
	results  []domain.Product
	err      error
	cursor   int
	selected *domain.Product
	quitting bool
}

// NewSearchModel opens the search panel with query prefilled.
func NewSearchModel(d *search.Debouncer, state *ui.State, query string) SearchModel {
	in := textinput.New()
	in.Placeholder = "Search products..."
	in.Prompt = "🔍 "
	in.CharLimit = 100
	in.SetValue(query)
	in.Focus()

	state.OpenSearch()
	m := SearchModel{
		input:    in,
		debounce: d,
		state:    state,
		styles:   DefaultStyles(),
	}
	if query != "" {
		m.gen = d.Input(query)
		m.loading = searchable(query)
	}
	return m
}

// menuLinks are the storefront sections listed in the navigation menu.
var menuLinks = [][2]string{
	{"Shop", "maison products list"},
	{"Categories", "maison products categories"},
	{"Cart", "maison cart show"},
	{"Wishlist", "maison wishlist list"},
	{"Orders", "maison orders list"},
	{"Account", "maison auth me"},
}

func searchable(query string) bool {
	return len([]rune(strings.TrimSpace(query))) >= search.MinQueryLength
}

func waitForResult(ch <-chan search.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return resultsClosedMsg{}
		}
		return resultMsg(r)
	}
}

func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForResult(m.debounce.Results()))
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m.close(), tea.Quit
		case tea.KeyEsc:
			if m.state.MobileMenuOpen() {
				m.state.CloseMobileMenu()
				return m, nil
			}
			return m.close(), tea.Quit
		case tea.KeyCtrlO:
			m.state.ToggleMobileMenu()
			return m, nil
		case tea.KeyEnter:
			if len(m.results) > 0 {
				p := m.results[m.cursor]
				m.selected = &p
			}
			return m.close(), tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}

	case resultMsg:
		if msg.Generation < m.gen {
			return m, waitForResult(m.debounce.Results())
		}
		m.loading = false
		m.err = msg.Err
		m.results = msg.Products
		m.cursor = 0
		return m, waitForResult(m.debounce.Results())

	case resultsClosedMsg:
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.gen = m.debounce.Input(v)
		m.loading = searchable(v)
		if !m.loading {
			m.results = nil
			m.err = nil
		}
	}
	return m, cmd
}

func (m SearchModel) close() SearchModel {
	m.quitting = true
	m.state.CloseMobileMenu()
	m.state.CloseSearch()
	return m
}

func (m SearchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Search") + "\n\n")
	if m.state.MobileMenuOpen() {
		b.WriteString(m.menuView() + "\n")
	}
	b.WriteString(m.input.View() + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Search failed: "+m.err.Error()) + "\n")
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Searching...") + "\n")
	case !searchable(m.input.Value()):
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Type at least %d characters", search.MinQueryLength)) + "\n")
	case len(m.results) == 0:
		b.WriteString(m.styles.Muted.Render("No products match \""+m.input.Value()+"\"") + "\n")
	default:
		for i, p := range m.results {
			line := fmt.Sprintf("%s  %s", catalog.Truncate(p.Name, 40), money.Format(p.Price))
			if i == m.cursor {
				b.WriteString(m.styles.Highlighted.Render("> "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	b.WriteString("\n" + m.styles.Help.Render("↑/↓ select • enter open • ctrl+o menu • esc close"))
	return b.String()
}

func (m SearchModel) menuView() string {
	var b strings.Builder
	b.WriteString(m.styles.Highlighted.Render("Menu") + "\n")
	for _, link := range menuLinks {
		b.WriteString(fmt.Sprintf("  %-11s%s\n", link[0], m.styles.Muted.Render(link[1])))
	}
	return b.String()
}

// Selected returns the product chosen with enter, if any.
func (m SearchModel) Selected() (domain.Product, bool) {
	if m.selected == nil {
		return domain.Product{}, false
	}
	return *m.selected, true
}

// RunSearch runs the search screen until the user picks a product or leaves.
func RunSearch(ctx context.Context, d *search.Debouncer, state *ui.State, query string) (domain.Product, bool, error) {
	final, err := tea.NewProgram(NewSearchModel(d, state, query), tea.WithContext(ctx)).Run()
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("search screen failed: %w", err)
	}
	p, ok := final.(SearchModel).Selected()
	return p, ok, nil
}
