package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kyaoi/paperview/internal/content"
)

const (
	menuClosedGlyph = "≡"
	menuOpenGlyph   = "✕"
	menuGlyphWidth  = 1
)

var (
	sidebarBorderColor = lipgloss.Color("#3b4261")
	sidebarPanelStyle  = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderRight(true).
				BorderForeground(sidebarBorderColor).
				Background(lipgloss.Color("#16161e"))
	brandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#1d4ed8")).
			Bold(true).
			Padding(0, 1)
	sidebarTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c0caf5"))
	sidebarSubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#737aa2"))
	navItemStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	navActiveStyle       = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true)
	navCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5")).
			Background(lipgloss.Color("#283457"))
	sourceBoxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#737aa2")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(sidebarBorderColor).
			Padding(0, 1)
)

var navIcons = map[string]string{
	"book":     "¶",
	"database": "▦",
	"cpu":      "◎",
	"trend":    "↗",
	"code":     "λ",
	"file":     "▤",
	"check":    "✓",
}

func navIcon(name string) string {
	if icon, ok := navIcons[name]; ok {
		return icon
	}
	return "•"
}

// updateSidebar redraws the sidebar and records the row of every nav entry
// for mouse hit testing.
func (m *Model) updateSidebar() {
	width := m.sidebarVP.Width - m.sidebarVP.Style.GetHorizontalFrameSize()
	if width <= 0 {
		width = minSidebarWidth
	}

	var blocks []string
	row := 0
	add := func(block string) {
		blocks = append(blocks, block)
		row += lipgloss.Height(block)
	}

	add(brandStyle.Render(m.doc.Brand))
	add("")
	add(sidebarTitleStyle.Width(width).Render(m.doc.Title))
	if m.doc.Subtitle != "" {
		add(sidebarSubtitleStyle.Width(width).Render(strings.ToUpper(m.doc.Subtitle)))
	}
	add("")

	active := m.nav.Active()
	m.navRows = make([]int, len(m.doc.Nav))
	for i, entry := range m.doc.Nav {
		m.navRows[i] = row
		add(m.navItemView(entry, width, entry.ID == active, i == m.cursor))
	}

	if src := m.doc.Source; src.Title != "" {
		add("")
		lines := []string{"Source Paper:", "\"" + src.Title + "\""}
		if src.Authors != "" {
			lines = append(lines, src.Authors)
		}
		if src.Year > 0 {
			lines = append(lines, "("+strconv.Itoa(src.Year)+")")
		}
		add(sourceBoxStyle.Width(max(width-2, 1)).Render(strings.Join(lines, "\n")))
	}

	m.sidebarVP.SetContent(strings.Join(blocks, "\n"))
	m.ensureCursorVisible()
}

func (m *Model) navItemView(entry content.NavEntry, width int, active, cursor bool) string {
	marker := " "
	style := navItemStyle
	switch {
	case active:
		marker = "▌"
		style = navActiveStyle
	case cursor:
		style = navCursorStyle
	}
	label := ansi.Truncate(marker+navIcon(entry.Icon)+" "+entry.Label, width, "…")
	return style.Width(width).Render(label)
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < 0 || m.cursor >= len(m.navRows) || m.sidebarVP.Height == 0 {
		return
	}
	row := m.navRows[m.cursor]
	if row < m.sidebarVP.YOffset {
		m.sidebarVP.SetYOffset(row)
		return
	}
	bottom := m.sidebarVP.YOffset + m.sidebarVP.Height - 1
	if row > bottom {
		m.sidebarVP.SetYOffset(row - m.sidebarVP.Height + 1)
	}
}
