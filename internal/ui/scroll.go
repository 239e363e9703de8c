package ui

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyaoi/paperview/internal/nav"
)

type scrollFrameMsg struct {
	seq int
}

// smoothScroll eases a viewport toward a target line over a fixed number of
// frames. Starting a new scroll or cancelling bumps seq, so frames of an older
// animation are dropped when they arrive.
type smoothScroll struct {
	frames   int
	interval time.Duration

	seq     int
	section nav.SectionID
	from    int
	to      int
	frame   int
	active  bool
}

func (s *smoothScroll) start(vp *viewport.Model, section nav.SectionID, line int) tea.Cmd {
	s.seq++
	s.section = section
	target := clamp(line, 0, maxYOffset(vp))
	if s.frames <= 0 || target == vp.YOffset {
		s.active = false
		vp.SetYOffset(target)
		return nil
	}
	s.from = vp.YOffset
	s.to = target
	s.frame = 0
	s.active = true
	return s.tick()
}

func (s *smoothScroll) step(vp *viewport.Model, msg scrollFrameMsg) tea.Cmd {
	if !s.active || msg.seq != s.seq {
		return nil
	}
	s.frame++
	if s.frame >= s.frames {
		s.active = false
		vp.SetYOffset(s.to)
		return nil
	}
	t := float64(s.frame) / float64(s.frames)
	eased := 1 - math.Pow(1-t, 3)
	vp.SetYOffset(s.from + int(math.Round(float64(s.to-s.from)*eased)))
	return s.tick()
}

// retarget points a running animation at line, the new first line of its
// section after a re-render changed the layout.
func (s *smoothScroll) retarget(vp *viewport.Model, line int) {
	if !s.active {
		return
	}
	s.from = min(s.from, maxYOffset(vp))
	s.to = clamp(line, 0, maxYOffset(vp))
}

func (s *smoothScroll) cancel() {
	if s.active {
		s.seq++
		s.active = false
	}
}

func (s *smoothScroll) tick() tea.Cmd {
	seq := s.seq
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return scrollFrameMsg{seq: seq}
	})
}

func maxYOffset(vp *viewport.Model) int {
	return max(vp.TotalLineCount()-vp.Height+vp.Style.GetVerticalFrameSize(), 0)
}
