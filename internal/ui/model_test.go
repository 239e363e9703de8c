package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/paperview/internal/content"
	"github.com/kyaoi/paperview/internal/nav"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, doc *content.Document, frames int) *Model {
	t.Helper()
	if doc == nil {
		var err error
		doc, err = content.Default()
		require.NoError(t, err)
	}
	m, err := NewModel(State{
		Doc:          doc,
		Style:        "notty",
		SidebarWidth: 28,
		NarrowWidth:  80,
		ScrollFrames: frames,
		ExportDir:    t.TempDir(),
	})
	require.NoError(t, err)
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func resize(m *Model, w, h int) {
	m.Update(tea.WindowSizeMsg{Width: w, Height: h})
}

func targetOffset(m *Model, id nav.SectionID) int {
	return clamp(m.regionLines[id], 0, maxYOffset(&m.contentVP))
}

func TestNewModelInitialState(t *testing.T) {
	m := newTestModel(t, nil, 0)
	assert.Equal(t, nav.SectionID("abstract"), m.nav.Active())
	assert.False(t, m.nav.MenuOpen())
	assert.Equal(t, 0, m.cursor)
}

func TestRegionLinesFollowDocumentOrder(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)

	prev := -1
	for _, r := range m.doc.Regions() {
		line, ok := m.regionLines[r.ID]
		require.True(t, ok, "no rendered line for %s", r.ID)
		assert.Greater(t, line, prev, "section %s", r.ID)
		prev = line
	}
	_, ok := m.regionLines["conclusion"]
	assert.False(t, ok)
}

func TestDigitActivatesSection(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)

	press(m, "2")
	assert.Equal(t, nav.SectionID("data"), m.nav.Active())
	assert.False(t, m.nav.MenuOpen())
	assert.Greater(t, m.contentVP.YOffset, 0)
	assert.Equal(t, targetOffset(m, "data"), m.contentVP.YOffset)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.statusView(), "Data Set")
}

func TestSectionWithoutRegionIsIgnored(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)
	press(m, "3")
	offset := m.contentVP.YOffset

	m.toggleMenu()
	press(m, "6")
	assert.Equal(t, nav.SectionID("model"), m.nav.Active())
	assert.True(t, m.nav.MenuOpen())
	assert.Equal(t, offset, m.contentVP.YOffset)

	press(m, "9")
	assert.Equal(t, nav.SectionID("model"), m.nav.Active())
}

func TestCursorAndEnter(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)

	press(m, "tab", "tab", "tab")
	assert.Equal(t, 3, m.cursor)
	assert.Equal(t, nav.SectionID("abstract"), m.nav.Active())

	press(m, "enter")
	assert.Equal(t, nav.SectionID("visualization"), m.nav.Active())
	assert.Equal(t, targetOffset(m, "visualization"), m.contentVP.YOffset)

	press(m, "shift+tab", "shift+tab", "shift+tab", "shift+tab")
	assert.Equal(t, len(m.doc.Nav)-1, m.cursor)
}

func TestNarrowMenu(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 60, 30)
	require.True(t, m.narrow())

	view := m.View()
	assert.NotContains(t, view, "Source Paper:")
	assert.Contains(t, view, "NLTSMOM")
	assert.Contains(t, view, menuClosedGlyph)

	press(m, "m")
	require.True(t, m.nav.MenuOpen())
	view = m.View()
	assert.Contains(t, view, "Source Paper:")
	assert.Contains(t, view, menuOpenGlyph)

	panel := lipgloss.Width(m.sidebarVP.View())
	base := strings.Split(ansi.Strip(m.contentVP.View()), "\n")
	lines := strings.Split(ansi.Strip(view), "\n")
	require.GreaterOrEqual(t, len(lines), headerHeight+len(base))
	for i, line := range base {
		assert.Equal(t, ansi.Cut(line, panel, m.width), ansi.Cut(lines[headerHeight+i], panel, m.width), "row %d", i)
	}

	press(m, "2")
	assert.Equal(t, nav.SectionID("data"), m.nav.Active())
	assert.False(t, m.nav.MenuOpen())
	assert.NotContains(t, m.View(), "Source Paper:")
}

func TestOverlayLeftCoversContent(t *testing.T) {
	assert.Equal(t, "PPPPP56789ABCDEFGHIJ", overlayLeft("0123456789ABCDEFGHIJ", "PPPPP", 20))
	assert.Equal(t, "PPc\nPPc\n012", overlayLeft("abc\nabc\n012", "PP\nPP", 3))
}

func TestToggleTwiceRestoresMenu(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 60, 30)

	press(m, "m")
	assert.True(t, m.nav.MenuOpen())
	press(m, "m")
	assert.False(t, m.nav.MenuOpen())
	assert.Equal(t, nav.SectionID("abstract"), m.nav.Active())

	press(m, "m", "esc")
	assert.False(t, m.nav.MenuOpen())
}

func TestReactivatingCurrentSectionClosesMenu(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 60, 30)

	press(m, "m", "1")
	assert.Equal(t, nav.SectionID("abstract"), m.nav.Active())
	assert.False(t, m.nav.MenuOpen())
}

func TestSmoothScroll(t *testing.T) {
	m := newTestModel(t, nil, 4)
	resize(m, 120, 40)

	cmd := press(m, "7")
	require.NotNil(t, cmd)
	assert.Equal(t, nav.SectionID("application"), m.nav.Active())
	assert.Equal(t, 0, m.contentVP.YOffset)

	target := targetOffset(m, "application")
	require.Greater(t, target, 0)

	stale := scrollFrameMsg{seq: m.scroll.seq - 1}
	_, cmd = m.Update(stale)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.contentVP.YOffset)

	frame := scrollFrameMsg{seq: m.scroll.seq}
	prev := 0
	for i := 0; i < 3; i++ {
		_, cmd = m.Update(frame)
		require.NotNil(t, cmd)
		assert.GreaterOrEqual(t, m.contentVP.YOffset, prev)
		assert.LessOrEqual(t, m.contentVP.YOffset, target)
		prev = m.contentVP.YOffset
	}
	_, cmd = m.Update(frame)
	assert.Nil(t, cmd)
	assert.Equal(t, target, m.contentVP.YOffset)
}

func TestResizeDuringSmoothScrollKeepsSectionTarget(t *testing.T) {
	m := newTestModel(t, nil, 4)
	resize(m, 160, 40)

	press(m, "7")
	require.True(t, m.scroll.active)

	resize(m, 90, 40)
	target := targetOffset(m, "application")
	for i := 0; i < 4; i++ {
		m.Update(scrollFrameMsg{seq: m.scroll.seq})
	}
	assert.False(t, m.scroll.active)
	assert.Equal(t, target, m.contentVP.YOffset)
	assert.Equal(t, nav.SectionID("application"), m.nav.Active())
}

func TestManualScrollCancelsAnimation(t *testing.T) {
	m := newTestModel(t, nil, 4)
	resize(m, 120, 40)

	press(m, "7")
	seq := m.scroll.seq
	press(m, "j")
	assert.False(t, m.scroll.active)

	_, cmd := m.Update(scrollFrameMsg{seq: seq})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.contentVP.YOffset)
}

func TestMouseClickOnSidebar(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)
	require.Len(t, m.navRows, len(m.doc.Nav))

	click := tea.MouseMsg{X: 3, Y: m.navRows[2], Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.Update(click)
	assert.Equal(t, nav.SectionID("model"), m.nav.Active())
	assert.Equal(t, 2, m.cursor)
}

func TestMouseClickOnNarrowHeader(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 60, 30)

	glyph := tea.MouseMsg{X: 59, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.Update(glyph)
	require.True(t, m.nav.MenuOpen())

	item := tea.MouseMsg{X: 3, Y: headerHeight + m.navRows[1], Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.Update(item)
	assert.Equal(t, nav.SectionID("data"), m.nav.Active())
	assert.False(t, m.nav.MenuOpen())
}

func TestSearchDoesNotChangeActiveSection(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)

	press(m, "/")
	require.True(t, m.searchActive)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sharpe")})
	press(m, "enter")

	assert.False(t, m.searchActive)
	assert.NotEmpty(t, m.searchMatches)
	assert.Equal(t, 0, m.searchIndex)
	assert.Equal(t, nav.SectionID("abstract"), m.nav.Active())
	assert.Equal(t, clamp(m.searchMatches[0], 0, maxYOffset(&m.contentVP)), m.contentVP.YOffset)
	assert.Contains(t, m.searchStatusLine(), "in Implementation")

	press(m, "N")
	assert.Equal(t, len(m.searchMatches)-1, m.searchIndex)
	assert.Equal(t, nav.SectionID("abstract"), m.nav.Active())
}

func TestSectionAt(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)

	_, ok := m.sectionAt(0)
	assert.False(t, ok)

	id, ok := m.sectionAt(m.regionLines["data"])
	require.True(t, ok)
	assert.Equal(t, nav.SectionID("data"), id)

	id, ok = m.sectionAt(m.regionLines["model"] - 1)
	require.True(t, ok)
	assert.Equal(t, nav.SectionID("data"), id)
}

func TestFindSearchMatches(t *testing.T) {
	rendered := "alpha\nBeta beta\n\x1b[1mBETA\x1b[0m"
	assert.Equal(t, []int{1, 1, 2}, findSearchMatches(rendered, "beta"))
	assert.Nil(t, findSearchMatches(rendered, "  "))
	assert.Equal(t, 2, closestMatchIndex([]int{1, 5, 9}, 8))
}

func TestExportKey(t *testing.T) {
	m := newTestModel(t, nil, 0)
	resize(m, 120, 40)

	press(m, "e")
	require.NoError(t, m.err)
	path := filepath.Join(m.exportDir, "nonlinear-momentum.html")
	assert.FileExists(t, path)
	assert.Contains(t, m.status, path)
}

func TestCopyPaperLink(t *testing.T) {
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWrite = orig })

	m := newTestModel(t, nil, 0)
	press(m, "y")
	assert.Equal(t, "no paper link configured", m.status)
	assert.Empty(t, copied)

	doc, err := content.Parse([]byte("---\nsource:\n  url: https://example.org/p.pdf\n---\n## A {#a}\n"))
	require.NoError(t, err)
	m = newTestModel(t, doc, 0)
	press(m, "y")
	assert.Equal(t, "https://example.org/p.pdf", copied)
	assert.Equal(t, "paper link copied", m.status)
}

func TestReloadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.md")
	write := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("## One {#one}\n\nfirst\n\n## Two {#two}\n\nsecond\n")

	doc, err := content.Load(path)
	require.NoError(t, err)
	m := newTestModel(t, doc, 0)
	resize(m, 120, 40)
	press(m, "2")
	require.Equal(t, nav.SectionID("two"), m.nav.Active())

	m.watchedFile = filepath.Clean(path)
	write("## One {#one}\n\nfirst, edited\n\n## Two {#two}\n\nsecond\n")
	m.Update(fileEventMsg{path: path})
	assert.Equal(t, nav.SectionID("two"), m.nav.Active())
	assert.Contains(t, m.renderedContent, "edited")

	write("## Three {#three}\n\nthird\n")
	m.reloadDocument()
	assert.Equal(t, nav.SectionID("three"), m.nav.Active())
	assert.Equal(t, []nav.SectionID{"three"}, m.nav.Sections())
}
