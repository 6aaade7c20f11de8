package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/engine"
	"github.com/desertthunder/cafecloud/internal/formatter"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/shared"
	"github.com/urfave/cli/v3"
)

// TimerRun runs the focus timer headless until the requested number of sessions has finished.
//
// Flags are applied the same way edits in the TUI are, so they are saved when persistence is on.
// Asking for more than one session turns auto-start on.
func (r *Runner) TimerRun(ctx context.Context, cmd *cli.Command) error {
	mode, err := models.ParseMode(cmd.String("mode"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	sessions := int(cmd.Int("sessions"))
	if sessions < 1 {
		return fmt.Errorf("%w: --sessions must be at least 1", shared.ErrInvalidFlag)
	}
	quiet := cmd.Bool("quiet")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	loop := clock.NewLoop(loopQueueSize)
	defer loop.Close()

	updates := make(chan engine.Update, updateQueueSize)
	eng, release, err := r.buildEngine(loop, updates)
	if err != nil {
		return err
	}
	defer release()

	eng.SetMode(mode)
	if cmd.IsSet("minutes") {
		eng.SetDuration(mode, int(cmd.Int("minutes")))
	}
	if cmd.IsSet("sessions-before-long") {
		eng.SetSessionsBeforeLongBreak(int(cmd.Int("sessions-before-long")))
	}
	if cmd.IsSet("auto-start") || sessions > 1 {
		eng.SetAutoStart(cmd.Bool("auto-start") || sessions > 1)
	}

	r.logger.Debug("starting timer", "mode", mode, "sessions", sessions)
	eng.StartTimer()

	finished := 0
	for {
		for drained := false; !drained; {
			select {
			case u := <-updates:
				if u.Kind == engine.SessionFinished {
					finished++
				}
				r.printTimerUpdate(u, quiet)
			default:
				drained = true
			}
		}

		if finished >= sessions {
			r.writePlainln("Completed %d session(s)", finished)
			return nil
		}

		fn, ok := loop.Next(ctx)
		if !ok {
			r.writePlainln("Stopped: %s", formatter.TimerLine(eng.Snapshot().Timer))
			return nil
		}
		fn()
	}
}

func (r *Runner) printTimerUpdate(u engine.Update, quiet bool) {
	switch u.Kind {
	case engine.TimerTick:
		if !quiet {
			r.writePlain("%s\n", formatter.TimerLine(u.Timer))
		}
	case engine.TimerChanged:
		r.writePlain("%s\n", formatter.TimerLine(u.Timer))
	case engine.SessionFinished:
		r.writePlain("✓ %s\n", u.Message)
	}
}
