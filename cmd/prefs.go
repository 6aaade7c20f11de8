package main

import (
	"context"

	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/formatter"
	"github.com/urfave/cli/v3"
)

// PrefsShow prints the state a new session starts from: defaults merged with saved preferences.
func (r *Runner) PrefsShow(ctx context.Context, cmd *cli.Command) error {
	loop := clock.NewLoop(1)
	defer loop.Close()

	eng, release, err := r.buildEngine(loop, nil)
	if err != nil {
		return err
	}
	defer release()

	snap := eng.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Preferences")
	return r.writePlain("%s", formatter.PreferencesToText(snap))
}

// PrefsEnable turns preference saving on.
func (r *Runner) PrefsEnable(ctx context.Context, cmd *cli.Command) error {
	return r.setPersistence(true)
}

// PrefsDisable turns preference saving off and erases everything saved.
func (r *Runner) PrefsDisable(ctx context.Context, cmd *cli.Command) error {
	return r.setPersistence(false)
}

func (r *Runner) setPersistence(enabled bool) error {
	loop := clock.NewLoop(1)
	defer loop.Close()

	eng, release, err := r.buildEngine(loop, nil)
	if err != nil {
		return err
	}
	defer release()

	eng.SetPersistence(enabled)
	r.logger.Info("preference persistence updated", "enabled", enabled)
	if enabled {
		return r.writePlain("✓ Preferences will be saved\n")
	}
	return r.writePlain("✓ Preferences will not be saved; saved preferences erased\n")
}
