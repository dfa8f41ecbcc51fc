package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"vinylvault/internal/catalog"
	"vinylvault/internal/formatter"
	"vinylvault/internal/models"
)

// RecordSource provides the snapshot the browser works on.
type RecordSource interface {
	List(criteria map[string]any) ([]*models.Record, error)
}

// sortCycle is the order the o key walks through.
var sortCycle = []catalog.SortKey{
	catalog.SortArtistAsc,
	catalog.SortArtistDesc,
	catalog.SortYearAsc,
	catalog.SortYearDesc,
	catalog.SortRecent,
}

// keyMap defines the key bindings for the browser.
type keyMap struct {
	search  key.Binding
	favs    key.Binding
	special key.Binding
	sort    key.Binding
	format  key.Binding
	clear   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		favs: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorites"),
		),
		special: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "special"),
		),
		sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		format: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "format"),
		),
		clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.favs, k.special, k.sort, k.format, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.search, k.favs, k.special},
		{k.sort, k.format, k.clear},
		{k.quit},
	}
}

// recordItem wraps [models.Record] to implement list.Item.
type recordItem struct {
	record *models.Record
}

func (i recordItem) FilterValue() string { return i.record.Artist() + " " + i.record.Album() }
func (i recordItem) Title() string {
	return fmt.Sprintf("%s - %s", i.record.Artist(), i.record.Album())
}
func (i recordItem) Description() string {
	parts := []string{formatter.Year(i.record.Year())}
	if i.record.Format() != "" {
		parts = append(parts, i.record.Format())
	}
	if i.record.IsFavorite() {
		parts = append(parts, "♥")
	}
	if i.record.IsSpecial() {
		parts = append(parts, "★")
	}
	return strings.Join(parts, " • ")
}

type recordsLoadedMsg struct {
	records []*models.Record
	err     error
}

// Model represents the browser state.
type Model struct {
	source    RecordSource
	records   []*models.Record
	view      []*models.Record
	controls  catalog.Controls
	selection catalog.Selection
	formats   []string
	list      list.Model
	search    textinput.Model
	searching bool
	width     int
	height    int
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a browser over the given record source.
func NewModel(source RecordSource) *Model {
	search := textinput.New()
	search.Placeholder = "artist, album, year or notes"
	search.Prompt = "/ "

	return &Model{
		source:   source,
		controls: catalog.DefaultControls(),
		search:   search,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init loads the collection snapshot.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		records, err := m.source.List(map[string]any{})
		return recordsLoadedMsg{records: records, err: err}
	}
}

// Update handles incoming messages and updates the browser state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.list.Width() == 0 {
			m.list.SetSize(msg.Width/2, msg.Height-6)
		}
		return m, nil

	case recordsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.records = msg.records
		m.formats = distinctFormats(msg.records)
		m.list = list.New(nil, list.NewDefaultDelegate(), max(m.width/2, 40), max(m.height-6, 20))
		m.list.Title = "Collection"
		m.list.SetShowHelp(false)
		m.list.SetFilteringEnabled(false)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.controls.Query = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "f":
		m.controls.FavoritesOnly = !m.controls.FavoritesOnly
		m.refresh()
		return m, nil
	case "s":
		m.controls.SpecialOnly = !m.controls.SpecialOnly
		m.refresh()
		return m, nil
	case "o":
		m.controls.Sort = nextSort(m.controls.Sort)
		m.refresh()
		return m, nil
	case "F":
		m.controls.Format = nextFormat(m.formats, m.controls.Format)
		m.refresh()
		return m, nil
	case "esc":
		m.controls = catalog.DefaultControls()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	// Cursor movement is a selection change too.
	if item, ok := m.list.SelectedItem().(recordItem); ok {
		m.selection.Select(item.record)
	}
	return m, cmd
}

// refresh re-runs the pipeline and rebuilds the list, keeping the selection
// pinned when its record is still visible.
func (m *Model) refresh() {
	m.view = catalog.Apply(m.records, m.controls)
	selected := m.selection.Reselect(m.view)

	items := make([]list.Item, len(m.view))
	index := 0
	for i, rec := range m.view {
		items[i] = recordItem{record: rec}
		if selected != nil && rec.ID() == selected.ID() {
			index = i
		}
	}

	m.list.SetItems(items)
	m.list.Select(index)
}

// View renders the browser.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}
	if m.records == nil {
		return styles.help.Render("Loading collection...")
	}

	left := m.list.View()
	right := m.renderDetail()
	body := joinPanes(left, right)

	var search string
	if m.searching || m.search.Value() != "" {
		search = m.search.View() + "\n"
	}

	return fmt.Sprintf("%s%s\n%s\n%s", search, body, m.renderControls(), m.help.View(m.keys))
}

func (m *Model) renderDetail() string {
	rec := m.selection.Reselect(m.view)
	if rec == nil {
		return styles.detail.Render(styles.help.Render("No records match"))
	}

	lines := []string{
		styles.title.Render(rec.Album()),
		rec.Artist(),
		"Year:     " + formatter.Year(rec.Year()),
		fmt.Sprintf("Copies:   %d", rec.Quantity()),
	}
	if rec.Format() != "" {
		lines = append(lines, "Format:   "+rec.Format())
	}
	if rec.Genre() != "" {
		lines = append(lines, "Genre:    "+rec.Genre())
	}
	if rec.IsFavorite() {
		lines = append(lines, styles.ok.Render("♥ favorite"))
	}
	if rec.IsSpecial() {
		lines = append(lines, styles.warn.Render("★ special"))
	}
	if rec.Notes() != "" {
		lines = append(lines, "", rec.Notes())
	}

	return styles.detail.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderControls() string {
	parts := []string{fmt.Sprintf("sort: %s", m.controls.Sort)}
	if m.controls.Format != "" {
		parts = append(parts, "format: "+m.controls.Format)
	}
	if m.controls.FavoritesOnly {
		parts = append(parts, "favorites")
	}
	if m.controls.SpecialOnly {
		parts = append(parts, "special")
	}
	parts = append(parts, fmt.Sprintf("%d shown", len(m.view)))

	return styles.help.Render(strings.Join(parts, " | "))
}

func joinPanes(left, right string) string {
	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")

	var out strings.Builder
	for i := 0; i < max(len(leftLines), len(rightLines)); i++ {
		var l, r string
		if i < len(leftLines) {
			l = leftLines[i]
		}
		if i < len(rightLines) {
			r = rightLines[i]
		}
		fmt.Fprintf(&out, "%-50s %s\n", l, r)
	}
	return strings.TrimRight(out.String(), "\n")
}

func nextSort(current catalog.SortKey) catalog.SortKey {
	for i, key := range sortCycle {
		if key == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

// nextFormat cycles "" -> first -> ... -> last -> "".
func nextFormat(formats []string, current string) string {
	if len(formats) == 0 {
		return ""
	}
	if current == "" {
		return formats[0]
	}
	for i, format := range formats {
		if format == current {
			if i+1 < len(formats) {
				return formats[i+1]
			}
			return ""
		}
	}
	return ""
}

func distinctFormats(records []*models.Record) []string {
	seen := map[string]bool{}
	var formats []string
	for _, rec := range records {
		format := strings.TrimSpace(rec.Format())
		if format != "" && !seen[format] {
			seen[format] = true
			formats = append(formats, format)
		}
	}
	slices.Sort(formats)
	return formats
}
