package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/kyaoi/paperview/internal/nav"
)

func (m *Model) enterSearchMode() tea.Cmd {
	m.searchActive = true
	m.pendingKey = ""
	m.searchInput.SetValue(m.searchQuery)
	m.searchInput.CursorEnd()
	return m.searchInput.Focus()
}

func (m *Model) exitSearchMode() {
	m.searchActive = false
	m.searchInput.Blur()
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchMatches = nil
	m.searchIndex = -1
	m.err = nil
}

// searchStatusLine shows the query, the match position and the section the
// current match falls in.
func (m *Model) searchStatusLine() string {
	if m.searchQuery == "" {
		return ""
	}
	if m.searchIndex < 0 || m.searchIndex >= len(m.searchMatches) {
		return fmt.Sprintf("/%s (0/0)", m.searchQuery)
	}
	line := fmt.Sprintf("/%s (%d/%d)", m.searchQuery, m.searchIndex+1, len(m.searchMatches))
	if id, ok := m.sectionAt(m.searchMatches[m.searchIndex]); ok {
		if entry, ok := m.doc.Entry(id); ok {
			line += " in " + entry.Label
		}
	}
	return line
}

// sectionAt returns the section whose rendered region holds line. Lines
// before the first region belong to none.
func (m *Model) sectionAt(line int) (nav.SectionID, bool) {
	var found nav.SectionID
	start := -1
	for id, l := range m.regionLines {
		if l <= line && l > start {
			found, start = id, l
		}
	}
	return found, start >= 0
}

func (m *Model) performSearch(query string) {
	m.searchQuery = strings.TrimSpace(query)
	if m.refreshMatches(-1) {
		m.gotoSearchMatch()
	}
}

// stepSearchMatch moves delta matches along, wrapping at both ends.
func (m *Model) stepSearchMatch(delta int) {
	n := len(m.searchMatches)
	if n == 0 {
		return
	}
	switch {
	case m.searchIndex < 0 && delta > 0:
		m.searchIndex = 0
	case m.searchIndex < 0:
		m.searchIndex = n - 1
	default:
		m.searchIndex = ((m.searchIndex+delta)%n + n) % n
	}
	m.err = nil
	m.gotoSearchMatch()
}

// refreshMatches recomputes the matches of the current query. With anchor >= 0
// the match nearest that line is selected, otherwise the first one.
func (m *Model) refreshMatches(anchor int) bool {
	m.searchMatches = findSearchMatches(m.renderedContent, m.searchQuery)
	if len(m.searchMatches) == 0 {
		m.searchIndex = -1
		m.err = fmt.Errorf("no match for %q", m.searchQuery)
		return false
	}
	m.searchIndex = 0
	if anchor >= 0 {
		m.searchIndex = closestMatchIndex(m.searchMatches, anchor)
	}
	m.err = nil
	return true
}

// gotoSearchMatch jumps without animation and leaves the active section alone.
func (m *Model) gotoSearchMatch() {
	if m.searchIndex < 0 || m.searchIndex >= len(m.searchMatches) {
		return
	}
	m.scroll.cancel()
	m.contentVP.SetYOffset(clamp(m.searchMatches[m.searchIndex], 0, maxYOffset(&m.contentVP)))
}

// onContentChanged re-runs the search after a re-render.
func (m *Model) onContentChanged() {
	if m.searchQuery == "" {
		return
	}
	anchor := -1
	if m.searchIndex >= 0 && m.searchIndex < len(m.searchMatches) {
		anchor = m.searchMatches[m.searchIndex]
	}
	m.refreshMatches(anchor)
}

// findSearchMatches returns one rendered line number per case-insensitive
// occurrence of query.
func findSearchMatches(rendered, query string) []int {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	var lines []int
	for i, line := range strings.Split(strings.ToLower(ansi.Strip(rendered)), "\n") {
		for range strings.Count(line, needle) {
			lines = append(lines, i)
		}
	}
	return lines
}

func closestMatchIndex(matches []int, line int) int {
	best := 0
	for i, l := range matches {
		if distance(l, line) < distance(matches[best], line) {
			best = i
		}
	}
	return best
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
