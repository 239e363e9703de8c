package nav

import "errors"

// SectionID names one content region of the document.
type SectionID string

// DefaultSections is the section set of the bundled analysis, in sidebar order.
var DefaultSections = []SectionID{
	"abstract",
	"data",
	"model",
	"visualization",
	"implementation",
	"conclusion",
	"application",
}

var errNoSections = errors.New("navigator needs at least one section")

// Scroller brings a section's region into view. ScrollTo reports false when
// no region exists for the id.
type Scroller interface {
	ScrollTo(id SectionID) bool
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(id SectionID) bool

// ScrollTo implements Scroller.
func (f ScrollerFunc) ScrollTo(id SectionID) bool {
	return f(id)
}

// Navigator owns the active section and the narrow-screen menu flag. Only its
// own methods change either field.
type Navigator struct {
	sections []SectionID
	index    map[SectionID]int
	active   SectionID
	menuOpen bool
}

// New builds a navigator over a fixed section set. The first section starts
// active and the menu starts closed. Duplicate ids keep their first position.
func New(sections []SectionID) (*Navigator, error) {
	if len(sections) == 0 {
		return nil, errNoSections
	}
	n := &Navigator{index: make(map[SectionID]int, len(sections))}
	for _, id := range sections {
		if _, ok := n.index[id]; ok {
			continue
		}
		n.index[id] = len(n.sections)
		n.sections = append(n.sections, id)
	}
	n.active = n.sections[0]
	return n, nil
}

// Activate scrolls to id, marks it active and closes the menu. Unknown ids and
// ids without a region leave the navigator untouched and return false.
func (n *Navigator) Activate(id SectionID, scroller Scroller) bool {
	if !n.Contains(id) {
		return false
	}
	if scroller == nil || !scroller.ScrollTo(id) {
		return false
	}
	n.active = id
	n.menuOpen = false
	return true
}

// ToggleMenu flips the menu flag.
func (n *Navigator) ToggleMenu() {
	n.menuOpen = !n.menuOpen
}

// Active returns the active section.
func (n *Navigator) Active() SectionID {
	return n.active
}

// MenuOpen reports whether the narrow-screen menu is open.
func (n *Navigator) MenuOpen() bool {
	return n.menuOpen
}

// Sections returns a copy of the section set in declaration order.
func (n *Navigator) Sections() []SectionID {
	out := make([]SectionID, len(n.sections))
	copy(out, n.sections)
	return out
}

// Contains reports whether id belongs to the section set.
func (n *Navigator) Contains(id SectionID) bool {
	_, ok := n.index[id]
	return ok
}

// Index returns the position of id in the section set, or -1.
func (n *Navigator) Index(id SectionID) int {
	if i, ok := n.index[id]; ok {
		return i
	}
	return -1
}
