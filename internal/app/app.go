package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/config"
	"github.com/kyaoi/paperview/internal/ui"
)

// Run executes the Bubble Tea program for the analysis viewer. target
// overrides the configured content path when non-empty.
func Run(cfg *config.Config, target string, logger *zap.Logger) error {
	state, err := LoadInitialState(cfg, target, logger)
	if err != nil {
		return err
	}
	return runProgram(state)
}

func runProgram(state ui.State) error {
	model, err := ui.NewModel(state)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	return err
}
