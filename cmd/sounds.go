package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cafecloud/internal/formatter"
	"github.com/urfave/cli/v3"
)

// SoundsList prints the sound catalog as text, JSON or CSV.
func (r *Runner) SoundsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	useCSV := cmd.Bool("csv")
	pretty := cmd.Bool("pretty")

	if err := r.config.Validate(); err != nil {
		return err
	}
	sounds := r.catalog()

	switch {
	case useJSON:
		return r.writeJSON(sounds, pretty)
	case useCSV:
		data, err := formatter.SoundsToCSV(sounds)
		if err != nil {
			return fmt.Errorf("failed to format sounds: %w", err)
		}
		return r.writePlain("%s", data)
	default:
		r.writePlainHeader("Sounds")
		return r.writePlain("%s", formatter.SoundsToText(sounds))
	}
}
