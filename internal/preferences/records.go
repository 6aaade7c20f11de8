package preferences

import (
	"encoding/json"

	"github.com/desertthunder/cafecloud/internal/models"
)

// Codec converts a record value to and from its stored form.
type Codec[T any] interface {
	Encode(T) (string, error)
	Decode(string) (T, error)
}

// JSONCodec stores values as JSON.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSONCodec[T]) Decode(s string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(s), &v)
	return v, err
}

// Record is a named, typed preference.
type Record[T any] struct {
	Name  string
	Codec Codec[T]
}

// NewRecord creates a JSON encoded record.
func NewRecord[T any](name string) Record[T] {
	return Record[T]{Name: name, Codec: JSONCodec[T]{}}
}

var (
	MixerRecord = NewRecord[models.MixerPreferences]("mixer")
	TimerRecord = NewRecord[models.TimerConfig]("timer")
	ModeRecord  = NewRecord[models.Mode]("timer_mode")
	UIRecord    = NewRecord[models.UIPreferences]("ui")

	// FlagRecord holds the persistence flag. It is never erased.
	FlagRecord = NewRecord[bool]("save_preferences")
)

// Names lists the managed record names.
func Names() []string {
	return []string{MixerRecord.Name, TimerRecord.Name, ModeRecord.Name, UIRecord.Name}
}

// Write encodes v and stores it through g.
func Write[T any](g *Gate, r Record[T], v T) error {
	s, err := r.Codec.Encode(v)
	if err != nil {
		g.logger.Warn("failed to encode preference", "name", r.Name, "error", err)
		return err
	}
	return g.Write(r.Name, s)
}

// Read loads and decodes r. Malformed values are logged and reported absent.
func Read[T any](g *Gate, r Record[T]) (T, bool) {
	var zero T
	s, ok := g.Read(r.Name)
	if !ok {
		return zero, false
	}
	v, err := r.Codec.Decode(s)
	if err != nil {
		g.logger.Warn("ignoring malformed preference", "name", r.Name, "error", err)
		return zero, false
	}
	return v, true
}
