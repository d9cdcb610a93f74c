package pagestate

import (
	"log/slog"
	"sync"
)

// Preference keys persisted by the controller.
const (
	PrefLanguage = "language"
	PrefTheme    = "theme"
)

// KV is a persistent string key-value backend. Get reports ok=false for a key
// that was never set.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Preferences reads and writes namespaced preference values. Backend errors
// are logged and never returned.
type Preferences struct {
	kv        KV
	namespace string
	logger    *slog.Logger
}

// NewPreferences wraps kv. A nil kv falls back to an in-memory store.
func NewPreferences(kv KV, namespace string, logger *slog.Logger) *Preferences {
	if kv == nil {
		kv = NewMemoryKV()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Preferences{kv: kv, namespace: namespace, logger: logger}
}

// Key returns the namespaced storage key for name.
func (p *Preferences) Key(name string) string {
	if p.namespace == "" {
		return name
	}
	return p.namespace + "_" + name
}

// Save persists value under name. Failures degrade to a no-op.
func (p *Preferences) Save(name, value string) {
	if err := p.kv.Set(p.Key(name), value); err != nil {
		p.logger.Warn("saving preference failed", "key", p.Key(name), "error", err)
	}
}

// Load returns the persisted value for name, or def when it is unset or the
// backend fails.
func (p *Preferences) Load(name, def string) string {
	v, ok, err := p.kv.Get(p.Key(name))
	if err != nil {
		p.logger.Warn("loading preference failed", "key", p.Key(name), "error", err)
		return def
	}
	if !ok {
		return def
	}
	return v
}

// MemoryKV is a process-local KV.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
