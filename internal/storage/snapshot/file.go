package snapshot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultFile is where the json backend keeps the portfolio slot.
	DefaultFile = "./data/portfolio.json"

	dirPermissions  = 0o755
	filePermissions = 0o644
)

// FileStore keeps the snapshot as one JSON file.
type FileStore struct {
	path string
	l    *zap.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store, ensuring the parent directory exists.
func NewFileStore(path string, l *zap.Logger) (*FileStore, error) {
	if path == "" {
		path = DefaultFile
	}
	if l == nil {
		l = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, errors.Wrapf(err, "create snapshot dir for %s", path)
	}

	return &FileStore{path: path, l: l}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot from disk.
func (s *FileStore) Load(_ context.Context) (Snapshot, bool) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.l.Warn("failed to read portfolio snapshot", zap.String("path", s.path), zap.Error(err))
		}
		return nil, false
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, false
	}

	snap, err := Decode(payload)
	if err != nil {
		s.l.Warn("ignoring malformed portfolio snapshot", zap.String("path", s.path), zap.Error(err))
		return nil, false
	}

	return snap, true
}

// Save writes the snapshot atomically via temp file.
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	payload, err := Encode(snap)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, filePermissions); err != nil {
		return errors.Wrap(err, "write portfolio snapshot temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist portfolio snapshot")
	}

	return nil
}

// Clear deletes the snapshot file. A missing file is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove portfolio snapshot")
	}
	return nil
}
