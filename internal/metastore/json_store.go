package metastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"organizer/internal/logging"

	"go.uber.org/zap"
)

// JSONStore keeps the sidecar as an indented JSON file.
type JSONStore struct {
	path string
}

var _ Store = (*JSONStore)(nil)

// NewJSONStore creates a store at path. The file is created on first write.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the file location.
func (s *JSONStore) Path() string { return s.path }

// Read loads the document. A missing or unparseable file reads as empty.
func (s *JSONStore) Read(ctx context.Context) (*Sidecar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSidecar(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}

	sc := &Sidecar{}
	if err := json.Unmarshal(raw, sc); err != nil {
		logging.Get(logging.CategoryStore).Warn("sidecar is not valid JSON, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return NewSidecar(), nil
	}
	sc.normalize()
	return sc, nil
}

// Write replaces the file atomically via a temp file and rename.
func (s *JSONStore) Write(ctx context.Context, sc *Sidecar) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc.normalize()
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create sidecar dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".sidecar-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp sidecar: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close sidecar: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace sidecar: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *JSONStore) Close() error { return nil }
