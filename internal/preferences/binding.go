package preferences

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/clock"
	"github.com/desertthunder/cafecloud/internal/models"
	"golang.org/x/time/rate"
)

// Binding saves and loads engine configuration through a [Gate].
//
// Writes are throttled. A write over the limit replaces any pending value for the same record
// and is stored by the next allowed write, [Binding.Flush] or [Binding.Sync]. With a scheduler,
// a deferred write is also stored as soon as the limiter allows, without waiting for another call.
type Binding struct {
	gate    *Gate
	limiter *rate.Limiter
	logger  *log.Logger
	clock   clock.Clock

	pending map[string]string
	order   []string

	flush       clock.Token
	reservation *rate.Reservation
}

// BindingOption configures a [Binding].
type BindingOption func(*Binding)

// WithScheduler schedules deferred writes on clk.
func WithScheduler(clk clock.Clock) BindingOption {
	return func(b *Binding) { b.clock = clk }
}

// NewBinding creates a binding allowing one write per interval with the given burst. A
// non-positive interval disables throttling.
func NewBinding(gate *Gate, logger *log.Logger, interval time.Duration, burst int, opts ...BindingOption) *Binding {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if burst < 1 {
		burst = 1
	}
	b := &Binding{
		gate:    gate,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		pending: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Gate returns the underlying gate.
func (b *Binding) Gate() *Gate {
	return b.gate
}

// SetEnabled toggles persistence. Pending writes are dropped when disabling.
func (b *Binding) SetEnabled(enabled bool) {
	if !enabled {
		b.drop()
	}
	b.gate.SetEnabled(enabled)
}

func (b *Binding) SaveMixer(p models.MixerPreferences) { save(b, MixerRecord, p) }
func (b *Binding) SaveTimer(c models.TimerConfig)      { save(b, TimerRecord, c) }
func (b *Binding) SaveMode(m models.Mode)              { save(b, ModeRecord, m) }
func (b *Binding) SaveUI(p models.UIPreferences)       { save(b, UIRecord, p) }

func (b *Binding) LoadMixer() (models.MixerPreferences, bool) { return Read(b.gate, MixerRecord) }
func (b *Binding) LoadTimer() (models.TimerConfig, bool)      { return Read(b.gate, TimerRecord) }
func (b *Binding) LoadMode() (models.Mode, bool)              { return Read(b.gate, ModeRecord) }
func (b *Binding) LoadUI() (models.UIPreferences, bool)       { return Read(b.gate, UIRecord) }

// Pending reports how many records are waiting to be written.
func (b *Binding) Pending() int {
	return len(b.pending)
}

// Flush writes pending records if the limiter allows it.
func (b *Binding) Flush() {
	if len(b.pending) == 0 || !b.limiter.Allow() {
		return
	}
	b.writePending()
}

// Sync writes every pending record immediately.
func (b *Binding) Sync() {
	b.writePending()
}

func save[T any](b *Binding, r Record[T], v T) {
	if !b.gate.Enabled() {
		return
	}

	s, err := r.Codec.Encode(v)
	if err != nil {
		b.logger.Warn("failed to encode preference", "name", r.Name, "error", err)
		return
	}

	if !b.limiter.Allow() {
		if _, ok := b.pending[r.Name]; !ok {
			b.order = append(b.order, r.Name)
		}
		b.pending[r.Name] = s
		b.logger.Debug("preference write deferred", "name", r.Name)
		b.schedule()
		return
	}

	b.forget(r.Name)
	_ = b.gate.Write(r.Name, s)
	b.writePending()
}

func (b *Binding) writePending() {
	if !b.gate.Enabled() {
		b.drop()
		return
	}
	for _, name := range b.order {
		_ = b.gate.Write(name, b.pending[name])
	}
	b.drop()
}

// schedule arranges one write of the pending records at the next moment the limiter allows.
func (b *Binding) schedule() {
	if b.clock == nil || b.flush != 0 {
		return
	}
	r := b.limiter.Reserve()
	if !r.OK() {
		return
	}
	b.reservation = r
	b.flush = b.clock.ScheduleOnce(r.Delay(), b.onFlush)
}

func (b *Binding) onFlush() {
	// the reserved token pays for this write
	b.flush = 0
	b.reservation = nil
	b.writePending()
}

func (b *Binding) unschedule() {
	if b.flush == 0 {
		return
	}
	b.clock.Cancel(b.flush)
	b.flush = 0
	if b.reservation != nil {
		b.reservation.Cancel()
		b.reservation = nil
	}
}

func (b *Binding) forget(name string) {
	if _, ok := b.pending[name]; !ok {
		return
	}
	delete(b.pending, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *Binding) drop() {
	b.unschedule()
	clear(b.pending)
	b.order = b.order[:0]
}
