// package formatter renders mixer, timer and preference snapshots as text, CSV and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/desertthunder/cafecloud/internal/engine"
	"github.com/desertthunder/cafecloud/internal/models"
	"github.com/desertthunder/cafecloud/internal/shared"
)

// Percent renders a [0,1] level as a whole percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(models.Clamp01(v)*100)))
}

// PanLabel renders a pan position as L<n>, C or R<n>, where n is the offset from center in percent.
func PanLabel(p float64) string {
	offset := int(math.Round((models.Clamp01(p) - 0.5) * 200))
	switch {
	case offset < 0:
		return fmt.Sprintf("L%d", -offset)
	case offset > 0:
		return fmt.Sprintf("R%d", offset)
	default:
		return "C"
	}
}

// SoundsToCSV converts the catalog to CSV with columns: Key, Label, Source
func SoundsToCSV(sounds []models.Sound) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Key", "Label", "Source"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range sounds {
		if err := writer.Write([]string{string(s.Key), s.Label, s.Source}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SoundsToText converts the catalog to a numbered list.
func SoundsToText(sounds []models.Sound) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Sounds: %d\n\n", len(sounds)))
	for i, s := range sounds {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) %s\n", i+1, s.Label, s.Key, s.Source))
	}
	return buf.Bytes()
}

// MixerToText renders the master level and every track.
func MixerToText(state models.MixerState) []byte {
	var buf bytes.Buffer

	master := Percent(state.MasterVolume)
	if state.Muted {
		master += " (muted)"
	}
	buf.WriteString(fmt.Sprintf("Master: %s\n\n", master))

	for _, t := range state.Tracks {
		marker := " "
		if t.Playing {
			marker = ">"
		}
		buf.WriteString(fmt.Sprintf("%s %-24s vol %4s  pan %-4s gain %s\n",
			marker, t.Label, Percent(t.Volume), PanLabel(t.Pan), Percent(state.EffectiveGain(t.Key))))
	}
	return buf.Bytes()
}

// TimerLine renders the timer as a single status line.
func TimerLine(state models.TimerState) string {
	return fmt.Sprintf("%s %s [%s] sessions %d/%d",
		state.Mode.Label(),
		shared.FormatClock(state.RemainingSeconds),
		state.Status,
		state.CompletedFocusSessions,
		state.Config.SessionsBeforeLongBreak,
	)
}

// TimerToText renders the timer state and configuration.
func TimerToText(state models.TimerState) []byte {
	var buf bytes.Buffer
	buf.WriteString(TimerLine(state) + "\n\n")
	buf.WriteString(ConfigToText(state.Config))
	return buf.Bytes()
}

// ConfigToText renders a timer configuration.
func ConfigToText(cfg models.TimerConfig) string {
	var buf bytes.Buffer
	for _, m := range models.Modes {
		buf.WriteString(fmt.Sprintf("%-12s %s min\n", m.Label()+":", strconv.Itoa(cfg.Minutes(m))))
	}
	buf.WriteString(fmt.Sprintf("%-12s %d\n", "Long after:", cfg.SessionsBeforeLongBreak))
	buf.WriteString(fmt.Sprintf("%-12s %s\n", "Auto start:", shared.EnabledString(cfg.AutoStart)))
	return buf.String()
}

// PreferencesToText renders what would be restored on the next launch.
func PreferencesToText(s engine.Snapshot) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Save preferences: %s\n", shared.EnabledString(s.PersistenceEnabled)))
	if !s.PersistenceEnabled {
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("Show pan controls: %s\n", shared.EnabledString(s.UI.ShowPan)))
	buf.WriteString(fmt.Sprintf("Timer mode: %s\n\n", s.Timer.Mode.Label()))
	buf.WriteString(ConfigToText(s.Timer.Config))
	buf.WriteString("\n")
	buf.Write(MixerToText(s.Mixer))
	return buf.Bytes()
}

// ToJSON renders any snapshot as indented JSON.
func ToJSON(v any) ([]byte, error) {
	return shared.MarshalJSON(v, true)
}
