package ui

import (
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/content"
	"github.com/kyaoi/paperview/internal/nav"
)

type fileEventMsg struct {
	path string
	op   fsnotify.Op
}

type fileWatchErrMsg struct {
	err error
}

// startWatching watches the directory holding path, since editors often save
// by renaming a temporary file over the original.
func (m *Model) startWatching(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	path = filepath.Clean(path)
	if err := m.ensureWatcher(); err != nil {
		m.err = err
		m.log.Error("starting watcher", zap.Error(err))
		return nil
	}

	dir := filepath.Dir(path)
	if dir != m.watchDir {
		if m.watchDir != "" {
			_ = m.watcher.Remove(m.watchDir)
		}
		if err := m.watcher.Add(dir); err != nil {
			m.err = err
			m.log.Error("watching directory", zap.String("dir", dir), zap.Error(err))
			return nil
		}
		m.watchDir = dir
	}

	m.watchedFile = path
	m.log.Debug("watching document", zap.String("path", path))
	return m.waitForFileEvent()
}

func (m *Model) ensureWatcher() error {
	if m.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher
	m.watchChan = make(chan tea.Msg, 10)

	go m.watchLoop()
	return nil
}

func (m *Model) watchLoop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			m.watchChan <- fileEventMsg{path: event.Name, op: event.Op}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.watchChan <- fileWatchErrMsg{err: err}
		}
	}
}

func (m *Model) waitForFileEvent() tea.Cmd {
	if m.watchChan == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-m.watchChan
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) handleFileEvent(msg fileEventMsg) tea.Cmd {
	if m.watchedFile == "" || filepath.Clean(msg.path) != m.watchedFile {
		return m.waitForFileEvent()
	}
	if msg.op&fsnotify.Remove != 0 {
		return m.waitForFileEvent()
	}
	m.reloadDocument()
	return m.waitForFileEvent()
}

// reloadDocument re-reads the watched file. The navigator survives when the
// section set is unchanged; a different set starts a fresh one.
func (m *Model) reloadDocument() {
	if m.doc.Path == "" {
		return
	}
	doc, err := content.Load(m.doc.Path)
	if err != nil {
		m.err = err
		m.log.Warn("reloading document", zap.String("path", m.doc.Path), zap.Error(err))
		return
	}

	if !slices.Equal(doc.Sections(), m.doc.Sections()) {
		navigator, err := nav.New(doc.Sections())
		if err != nil {
			m.err = err
			return
		}
		m.nav = navigator
		m.cursor = 0
		m.log.Info("section set changed, navigation reset", zap.Int("sections", len(doc.Nav)))
	}

	offset := m.contentVP.YOffset
	m.doc = doc
	m.scroll.cancel()
	m.renderDocument()
	m.contentVP.SetYOffset(offset)
	m.updateSidebar()
	m.log.Debug("document reloaded", zap.String("path", doc.Path))
}
