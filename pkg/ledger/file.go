package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps one JSON file per namespace under a directory. Timestamps
// are serialized as RFC 3339 strings so the files stay hand-inspectable.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(namespace string) string {
	// Owner ids come from an external auth system; escape them so they are
	// always a single safe path element.
	return filepath.Join(f.dir, url.PathEscape(namespace)+".json")
}

func (f *FileStore) Get(namespace string) (map[string]time.Time, error) {
	data, err := os.ReadFile(f.path(namespace))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]time.Time{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode ledger file: %w", err)
	}

	entries := make(map[string]time.Time, len(raw))
	for key, ts := range raw {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			// Skip unreadable entries rather than failing the whole load.
			continue
		}
		entries[key] = t
	}
	return entries, nil
}

func (f *FileStore) Set(namespace string, entries map[string]time.Time) error {
	raw := make(map[string]string, len(entries))
	for key, t := range entries {
		raw[key] = t.Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode ledger file: %w", err)
	}

	tmp := f.path(namespace) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := os.Rename(tmp, f.path(namespace)); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
