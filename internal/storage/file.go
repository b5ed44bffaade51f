package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileMedium persists the key-value map as a single JSON file. Every Get
// re-reads the file so that writes from another process are visible on the
// next read; Set is a read-modify-write with a temp-file rename so a crash
// mid-write never leaves a half-written file behind.
//
// A corrupt or unreadable file is treated as empty (logged once) rather than
// surfaced as an error. The next successful Set rewrites the file whole, so
// corruption self-heals.
type FileMedium struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger

	warnedCorrupt bool
}

// NewFileMedium creates a file-backed medium at path. The parent directory
// is created if missing; the file itself is created lazily on first Set.
func NewFileMedium(path string, logger *slog.Logger) (*FileMedium, error) {
	if path == "" {
		return nil, errors.New("storage: path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileMedium{path: path, logger: logger}, nil
}

// Path returns the backing file path, for callers that want to watch it.
func (m *FileMedium) Path() string {
	return m.path
}

func (m *FileMedium) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := m.load()
	v, ok := data[key]
	return v, ok
}

func (m *FileMedium) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := m.load()
	data[key] = value
	return m.flush(data)
}

func (m *FileMedium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := m.load()
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return m.flush(data)
}

func (m *FileMedium) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := m.load()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	return keys
}

// load reads the whole file. Missing file or bad JSON both yield an empty
// map; bad JSON is logged on first encounter only.
func (m *FileMedium) load() map[string]string {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.warnCorrupt("read failed", err)
		}
		return map[string]string{}
	}
	if len(raw) == 0 {
		return map[string]string{}
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		m.warnCorrupt("malformed storage file", err)
		return map[string]string{}
	}
	m.warnedCorrupt = false
	return data
}

func (m *FileMedium) flush(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}

func (m *FileMedium) warnCorrupt(msg string, err error) {
	if m.warnedCorrupt {
		return
	}
	m.warnedCorrupt = true
	m.logger.Warn("storage: treating file as empty", "path", m.path, "reason", msg, "err", err)
}
