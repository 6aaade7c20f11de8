package preferences

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cafecloud/internal/shared"
)

// Prefix namespaces every backend key written by the gate.
const Prefix = "cafecloud_"

// Backend is a synchronous durable key/value store.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Keyer is implemented by backends that can list stored keys.
type Keyer interface {
	Keys(prefix string) ([]string, error)
}

// Gate guards a [Backend] with the persistence flag.
type Gate struct {
	backend Backend
	logger  *log.Logger
	prefix  string
	enabled bool
	names   map[string]struct{}
}

// NewGate creates a gate over backend with the built-in record names registered and loads the
// stored flag. A missing or unreadable flag means disabled.
func NewGate(backend Backend, logger *log.Logger) *Gate {
	g := &Gate{
		backend: backend,
		logger:  logger,
		prefix:  Prefix,
		names:   make(map[string]struct{}),
	}
	for _, name := range Names() {
		g.Register(name)
	}

	raw, ok, err := backend.Get(g.key(FlagRecord.Name))
	switch {
	case err != nil:
		g.logger.Warn("failed to load persistence flag", "error", fmt.Errorf("%w: %v", shared.ErrPersistenceUnavailable, err))
	case ok:
		enabled, err := FlagRecord.Codec.Decode(raw)
		if err != nil {
			g.logger.Warn("ignoring malformed persistence flag", "value", raw, "error", err)
			break
		}
		g.enabled = enabled
	}
	return g
}

// Register adds a record name to the set erased on disable.
func (g *Gate) Register(name string) {
	if name == "" || name == FlagRecord.Name {
		return
	}
	g.names[name] = struct{}{}
}

// Enabled reports the persistence flag.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// SetEnabled stores the flag. Going from enabled to disabled erases every managed record.
// Enabling writes nothing but the flag.
func (g *Gate) SetEnabled(enabled bool) {
	was := g.enabled
	g.enabled = enabled

	raw, _ := FlagRecord.Codec.Encode(enabled)
	if err := g.backend.Set(g.key(FlagRecord.Name), raw); err != nil {
		g.logger.Warn("failed to store persistence flag", "error", fmt.Errorf("%w: %v", shared.ErrPersistenceUnavailable, err))
	}

	if was && !enabled {
		g.erase()
	}
	g.logger.Info("persistence toggled", "enabled", enabled)
}

// Write stores value under name. It is a no-op while disabled.
func (g *Gate) Write(name, value string) error {
	if !g.enabled {
		return nil
	}
	if err := g.backend.Set(g.key(name), value); err != nil {
		err = fmt.Errorf("%w: write %s: %v", shared.ErrPersistenceUnavailable, name, err)
		g.logger.Warn("preference write skipped", "name", name, "error", err)
		return err
	}
	return nil
}

// Read returns the stored value of name. It reports absent while disabled or when the backend fails.
func (g *Gate) Read(name string) (string, bool) {
	if !g.enabled {
		return "", false
	}
	v, ok, err := g.backend.Get(g.key(name))
	if err != nil {
		g.logger.Warn("preference read failed", "name", name, "error", fmt.Errorf("%w: %v", shared.ErrPersistenceUnavailable, err))
		return "", false
	}
	return v, ok
}

func (g *Gate) key(name string) string {
	return g.prefix + name
}

func (g *Gate) erase() {
	flag := g.key(FlagRecord.Name)
	keys := make(map[string]struct{}, len(g.names))
	for name := range g.names {
		keys[g.key(name)] = struct{}{}
	}

	if keyer, ok := g.backend.(Keyer); ok {
		stored, err := keyer.Keys(g.prefix)
		if err != nil {
			g.logger.Warn("failed to list stored preferences", "error", fmt.Errorf("%w: %v", shared.ErrPersistenceUnavailable, err))
		}
		for _, k := range stored {
			if strings.HasPrefix(k, g.prefix) {
				keys[k] = struct{}{}
			}
		}
	}
	delete(keys, flag)

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		if err := g.backend.Remove(k); err != nil {
			g.logger.Warn("failed to erase preference", "key", k, "error", fmt.Errorf("%w: %v", shared.ErrPersistenceUnavailable, err))
		}
	}
	g.logger.Debug("preferences erased", "count", len(sorted))
}
