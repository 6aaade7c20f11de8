package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/engine"
	"github.com/desertthunder/cafecloud/internal/shared"
	"github.com/desertthunder/cafecloud/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	loopQueueSize   = 64
	updateQueueSize = 64
	defaultTUILog   = "./tmp/cafecloud-tui.log"
)

// TUI launches the interactive mixer and timer.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	path := r.config.Logging.File
	if path == "" {
		path = defaultTUILog
	}
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	loop := clock.NewLoop(loopQueueSize)
	defer loop.Close()

	updates := make(chan engine.Update, updateQueueSize)
	eng, release, err := r.buildEngine(loop, updates)
	if err != nil {
		return err
	}
	defer release()

	model := ui.NewModel(ctx, eng, loop, updates)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
