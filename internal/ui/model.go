package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/content"
	"github.com/kyaoi/paperview/internal/nav"
)

const (
	headerHeight        = 1
	statusHeight        = 1
	minContentWidth     = 20
	minSidebarWidth     = 18
	defaultSidebarWidth = 28
	defaultNarrowWidth  = 80
	defaultStyle        = "tokyo-night"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#c0caf5")).
			Background(lipgloss.Color("#1f2335"))
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a9b1d6")).
			Background(lipgloss.Color("#1f2335"))
	statusActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true).
				Padding(0, 1)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	helpBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#283457")).
			Bold(true).
			Padding(0, 1)
	footerRuleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261"))
	footerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c0caf5"))
	footerTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#737aa2"))
	footerLinkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Underline(true)
)

// Model implements the Bubble Tea program for the paper analysis viewer.
type Model struct {
	contentVP    viewport.Model
	sidebarVP    viewport.Model
	renderer     *glamour.TermRenderer
	doc          *content.Document
	nav          *nav.Navigator
	log          *zap.Logger
	style        string
	sidebarWidth int
	narrowWidth  int
	exportDir    string
	cursor       int
	showHelp     bool
	pendingKey   string
	ready        bool
	width        int
	height       int
	err          error
	status       string

	renderedContent string
	regionLines     map[nav.SectionID]int
	navRows         []int

	scroll    smoothScroll
	scrollCmd tea.Cmd

	searchInput   textinput.Model
	searchActive  bool
	searchQuery   string
	searchMatches []int
	searchIndex   int

	watcher          *fsnotify.Watcher
	watchDir         string
	watchedFile      string
	watchChan        chan tea.Msg
	initialWatchPath string
}

// NewModel constructs the viewer model with the provided initial state.
func NewModel(state State) (*Model, error) {
	navigator, err := nav.New(state.Doc.Sections())
	if err != nil {
		return nil, err
	}

	contentVP := viewport.New(0, 0)
	contentVP.Style = lipgloss.NewStyle().Padding(0, 1)

	sidebarVP := viewport.New(0, 0)
	sidebarVP.Style = sidebarPanelStyle
	sidebarVP.MouseWheelEnabled = false

	logger := state.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		contentVP:    contentVP,
		sidebarVP:    sidebarVP,
		doc:          state.Doc,
		nav:          navigator,
		log:          logger,
		style:        state.Style,
		sidebarWidth: state.SidebarWidth,
		narrowWidth:  state.NarrowWidth,
		exportDir:    state.ExportDir,
		regionLines:  map[nav.SectionID]int{},
		scroll: smoothScroll{
			frames:   state.ScrollFrames,
			interval: state.FrameInterval,
		},
		searchIndex: -1,
	}
	if m.style == "" {
		m.style = defaultStyle
	}
	if m.sidebarWidth <= 0 {
		m.sidebarWidth = defaultSidebarWidth
	}
	if m.narrowWidth < 0 {
		m.narrowWidth = defaultNarrowWidth
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	if m.scroll.interval <= 0 {
		m.scroll.interval = 16 * time.Millisecond
	}

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.CharLimit = 256
	searchInput.Placeholder = "search"
	searchInput.CursorEnd()
	searchInput.Blur()
	m.searchInput = searchInput

	m.initialWatchPath = state.Doc.Path

	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.initialWatchPath != "" {
		path := m.initialWatchPath
		m.initialWatchPath = ""
		return m.startWatching(path)
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showHelp {
		helpOverlay := helpBoxStyle.Render(helpText)
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpOverlay)
		}
		return helpOverlay
	}

	body := m.contentVP.View()
	switch {
	case !m.narrow():
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarVP.View(), body)
	case m.nav.MenuOpen():
		body = overlayLeft(body, m.sidebarVP.View(), m.width)
	}

	parts := make([]string, 0, 3)
	if m.narrow() {
		parts = append(parts, m.headerView())
	}
	parts = append(parts, body, m.statusView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

const helpText = `Help (? or Esc to close)
1-9              : jump to a section
Tab / Shift+Tab  : move the sidebar cursor
Enter / click    : open the section under the cursor
m                : toggle the section menu (narrow terminals)
j / k            : scroll
Ctrl+d / Ctrl+u  : half page down / up
gg / G           : top / bottom
/                : search
n / N            : next / previous match
e                : export the analysis as HTML
y                : copy the paper link
q / Ctrl+c       : quit`

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scrollFrameMsg:
		return m, m.scroll.step(&m.contentVP, msg)
	case fileEventMsg:
		return m, m.handleFileEvent(msg)
	case fileWatchErrMsg:
		m.err = msg.err
		m.log.Warn("watch error", zap.Error(msg.err))
		return m, m.waitForFileEvent()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		if handled, cmd := m.handleMouse(msg); handled {
			return m, cmd
		}
		if tea.MouseEvent(msg).IsWheel() {
			m.scroll.cancel()
		}
		var cmd tea.Cmd
		m.contentVP, cmd = m.contentVP.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searchActive {
			switch msg.Type {
			case tea.KeyEnter:
				query := strings.TrimSpace(m.searchInput.Value())
				m.exitSearchMode()
				if query == "" {
					m.clearSearch()
					return m, nil
				}
				m.performSearch(query)
				return m, nil
			case tea.KeyEsc, tea.KeyCtrlC:
				m.exitSearchMode()
				return m, nil
			}
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}

		key := msg.String()
		if key != "g" {
			m.pendingKey = ""
		}
		m.status = ""

		if m.showHelp {
			m.pendingKey = ""
			switch key {
			case "q", "?", "esc":
				m.showHelp = false
			}
			return m, nil
		}

		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			m.pendingKey = ""
			return m, nil
		case "m":
			m.toggleMenu()
			return m, nil
		case "esc":
			if m.nav.MenuOpen() {
				m.toggleMenu()
			}
			return m, nil
		case "tab":
			m.moveCursor(1)
			return m, nil
		case "shift+tab":
			m.moveCursor(-1)
			return m, nil
		case "enter":
			return m, m.activateIndex(m.cursor)
		case "/":
			return m, m.enterSearchMode()
		case "n":
			if len(m.searchMatches) > 0 {
				m.stepSearchMatch(1)
				return m, nil
			}
		case "N":
			if len(m.searchMatches) > 0 {
				m.stepSearchMatch(-1)
				return m, nil
			}
		case "e":
			m.exportDocument()
			return m, nil
		case "y":
			m.copyPaperLink()
			return m, nil
		}

		if idx, ok := digitIndex(key); ok {
			return m, m.activateIndex(idx)
		}

		if m.handleContentKey(key) {
			return m, nil
		}

		m.scroll.cancel()
		var cmd tea.Cmd
		m.contentVP, cmd = m.contentVP.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.contentVP, cmd = m.contentVP.Update(msg)
	return m, cmd
}

// ScrollTo implements nav.Scroller. The viewport glides to the first line of
// the section's rendered region.
func (m *Model) ScrollTo(id nav.SectionID) bool {
	line, ok := m.regionLines[id]
	if !ok {
		return false
	}
	m.scrollCmd = m.scroll.start(&m.contentVP, id, line)
	return true
}

func (m *Model) activate(id nav.SectionID) tea.Cmd {
	m.scrollCmd = nil
	if !m.nav.Activate(id, m) {
		m.log.Debug("section not activated", zap.String("section", string(id)))
		return nil
	}
	if i := m.nav.Index(id); i >= 0 {
		m.cursor = i
	}
	m.log.Debug("section activated", zap.String("section", string(id)))
	m.updateSidebar()
	cmd := m.scrollCmd
	m.scrollCmd = nil
	return cmd
}

func (m *Model) activateIndex(idx int) tea.Cmd {
	if idx < 0 || idx >= len(m.doc.Nav) {
		return nil
	}
	return m.activate(m.doc.Nav[idx].ID)
}

func (m *Model) toggleMenu() {
	m.nav.ToggleMenu()
	m.log.Debug("menu toggled", zap.Bool("open", m.nav.MenuOpen()))
	m.updateSidebar()
}

func (m *Model) moveCursor(delta int) {
	if len(m.doc.Nav) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.doc.Nav)) % len(m.doc.Nav)
	m.updateSidebar()
}

func digitIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func (m *Model) handleContentKey(key string) bool {
	switch key {
	case "j", "down":
		m.scroll.cancel()
		m.contentVP.ScrollDown(1)
	case "k", "up":
		m.scroll.cancel()
		m.contentVP.ScrollUp(1)
	case "ctrl+d":
		m.scroll.cancel()
		m.contentVP.HalfPageDown()
	case "ctrl+u":
		m.scroll.cancel()
		m.contentVP.HalfPageUp()
	case "g":
		if m.pendingKey == "g" {
			m.scroll.cancel()
			m.contentVP.GotoTop()
			m.pendingKey = ""
		} else {
			m.pendingKey = "g"
		}
		return true
	case "G":
		m.pendingKey = ""
		m.scroll.cancel()
		m.contentVP.GotoBottom()
	default:
		return false
	}
	m.pendingKey = ""
	return true
}

func (m *Model) handleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false, nil
	}
	top := 0
	if m.narrow() {
		if msg.Y < headerHeight {
			if msg.X >= m.width-menuGlyphWidth-1 {
				m.toggleMenu()
			}
			return true, nil
		}
		if !m.nav.MenuOpen() {
			return false, nil
		}
		top = headerHeight
	}
	if msg.X >= m.sidebarVP.Width || msg.Y-top >= m.sidebarVP.Height {
		return false, nil
	}
	row := msg.Y - top + m.sidebarVP.YOffset
	for i, r := range m.navRows {
		if r == row {
			m.cursor = i
			return true, m.activate(m.doc.Nav[i].ID)
		}
	}
	return true, nil
}

// narrow reports whether the terminal is below the breakpoint where the
// sidebar collapses into the toggled menu.
func (m *Model) narrow() bool {
	return m.width > 0 && m.width < m.narrowWidth
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= statusHeight {
		return
	}

	m.width = width
	m.height = height
	m.ready = true

	bodyHeight := height - statusHeight
	if m.narrow() {
		bodyHeight -= headerHeight
	}
	bodyHeight = max(bodyHeight, 1)

	sidebarWidth := m.sidebarPanelWidth(width)
	contentWidth := width
	if !m.narrow() {
		contentWidth -= sidebarWidth
	}
	contentWidth = max(contentWidth, minContentWidth)

	m.contentVP.Width = contentWidth
	m.contentVP.Height = bodyHeight
	m.sidebarVP.Width = sidebarWidth
	m.sidebarVP.Height = bodyHeight

	wrapWidth := max(contentWidth-m.contentVP.Style.GetHorizontalFrameSize(), 0)
	renderer, err := newRenderer(m.style, wrapWidth)
	if err != nil {
		m.err = err
		m.log.Error("creating renderer", zap.Error(err))
		return
	}
	m.renderer = renderer

	offset := m.contentVP.YOffset
	m.renderDocument()
	m.contentVP.SetYOffset(offset)
	if line, ok := m.regionLines[m.scroll.section]; ok {
		m.scroll.retarget(&m.contentVP, line)
	}
	m.updateSidebar()
}

func (m *Model) sidebarPanelWidth(totalWidth int) int {
	if m.narrow() {
		return clamp(m.sidebarWidth, min(minSidebarWidth, totalWidth), totalWidth)
	}
	maxPanel := max(totalWidth/2, minSidebarWidth)
	width := clamp(m.sidebarWidth, minSidebarWidth, maxPanel)
	if totalWidth-width < minContentWidth {
		width = max(totalWidth-minContentWidth, 0)
	}
	return width
}

// renderDocument renders every chunk separately so the first line of each
// section's region is known.
func (m *Model) renderDocument() {
	if m.renderer == nil {
		return
	}
	var b strings.Builder
	lines := 0
	write := func(s string) {
		b.WriteString(s)
		lines += strings.Count(s, "\n")
	}

	regions := make(map[nav.SectionID]int, len(m.doc.Nav))
	if m.doc.Badge != "" {
		write("\n  " + badgeStyle.Render(strings.ToUpper(m.doc.Badge)) + "\n")
	}
	for _, chunk := range m.doc.Chunks() {
		rendered, err := m.renderer.Render(chunk.Markdown)
		if err != nil {
			m.err = err
			m.log.Error("rendering markdown", zap.String("section", string(chunk.ID)), zap.Error(err))
			return
		}
		if chunk.ID != "" {
			regions[chunk.ID] = lines
		}
		write(rendered)
	}
	write(m.footerView())

	m.err = nil
	m.renderedContent = b.String()
	m.regionLines = regions
	m.contentVP.SetContent(m.renderedContent)
	m.onContentChanged()
}

func (m *Model) footerView() string {
	width := max(m.contentVP.Width-m.contentVP.Style.GetHorizontalFrameSize()-4, 1)
	footer := m.doc.Footer
	lines := []string{
		"  " + footerRuleStyle.Render(strings.Repeat("─", width)),
		"",
	}
	if footer.Title != "" {
		lines = append(lines, "  "+footerTitleStyle.Render(footer.Title))
	}
	if footer.Note != "" {
		lines = append(lines, "  "+footerTextStyle.Render(footer.Note))
	}
	var links []string
	for _, l := range m.doc.Links {
		switch l.Kind {
		case content.LinkDownload:
			links = append(links, footerLinkStyle.Render(l.Label+" ↗")+footerTextStyle.Render(" (y)"))
		case content.LinkExport:
			links = append(links, footerLinkStyle.Render(l.Label+" ⤓")+footerTextStyle.Render(" (e)"))
		}
	}
	if len(links) > 0 {
		lines = append(lines, "", "  "+strings.Join(links, "   "))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *Model) headerView() string {
	glyph := menuClosedGlyph
	if m.nav.MenuOpen() {
		glyph = menuOpenGlyph
	}
	left := " " + m.doc.ShortTitle
	right := glyph + " "
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Render(ansi.Truncate(left+strings.Repeat(" ", gap)+right, m.width, ""))
}

func (m *Model) statusView() string {
	entry, _ := m.doc.Entry(m.nav.Active())
	left := statusActiveStyle.Render(navIcon(entry.Icon) + " " + entry.Label)

	var middle string
	switch {
	case m.searchActive:
		middle = m.searchInput.View()
	case m.err != nil:
		middle = errStyle.Render(m.err.Error())
	case m.status != "":
		middle = m.status
	case m.searchQuery != "":
		middle = m.searchStatusLine()
	}

	right := "? help "
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(middle)-lipgloss.Width(right)-1, 1)
	line := left + " " + middle + strings.Repeat(" ", gap) + right
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "")
	}
	return statusBarStyle.Render(line)
}

// overlayLeft draws panel over the left edge of base, line by line. The base
// columns under the panel are hidden.
func overlayLeft(base, panel string, width int) string {
	baseLines := strings.Split(base, "\n")
	panelLines := strings.Split(panel, "\n")
	panelWidth := lipgloss.Width(panel)
	out := make([]string, len(baseLines))
	for i, line := range baseLines {
		if i >= len(panelLines) {
			out[i] = line
			continue
		}
		out[i] = panelLines[i] + ansi.Cut(line, panelWidth, width)
	}
	return strings.Join(out, "\n")
}

func newRenderer(style string, width int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	} else {
		opts = append(opts, glamour.WithWordWrap(0))
	}
	return glamour.NewTermRenderer(opts...)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
