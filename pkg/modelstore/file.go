package modelstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/zpam/sms-filter/pkg/classifier"
)

// FileStore keeps the model snapshot in a single msgpack file. Saves
// go through a temp file and rename, so a crash mid-write never leaves
// a truncated model behind.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Save(_ context.Context, snapshot *classifier.Snapshot) error {
	data, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode model: %v", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %v", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write model: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %v", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace model file: %v", err)
	}

	s.logger.Debug("Saved model snapshot",
		zap.String("path", s.path),
		zap.Int("bytes", len(data)),
		zap.Int("vocabulary", len(snapshot.Tokens)))

	return nil
}

func (s *FileStore) Load(_ context.Context) (*classifier.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read model file: %v", err)
	}

	var snapshot classifier.Snapshot
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode model: %v", err)
	}

	return &snapshot, nil
}

func (s *FileStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete model file: %v", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
