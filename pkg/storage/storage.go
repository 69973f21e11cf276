package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fakefrog/fakefrog/pkg/config"
)

// ErrNoFreeSlot means every numbered filename up to the configured maximum
// already exists. Treated as an initialization failure by the caller.
var ErrNoFreeSlot = errors.New("storage: no free file slot")

// Store owns the per-run log and data files. Prior runs' files are never
// touched: each run claims the next unused numbered slot.
type Store struct {
	LogFile  *os.File
	DataFile *os.File

	logPath  string
	dataPath string
}

// NextFileName returns the first unused path matching prefix_NNN.ext in dir,
// with NNN zero-padded, scanning at most max slots.
func NextFileName(dir, prefix, ext string, max int) (string, error) {
	for i := 0; i < max; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_%03d.%s", prefix, i, ext))
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: %s_*.%s in %s (max %d)", ErrNoFreeSlot, prefix, ext, dir, max)
}

// Open claims fresh log_NNN.txt and data_NNN.csv slots in the configured
// directory and opens both for appending.
func Open(cfg config.StorageConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	logPath, err := NextFileName(cfg.Dir, "log", "txt", cfg.MaxLogFiles)
	if err != nil {
		return nil, err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	dataPath, err := NextFileName(cfg.Dir, "data", "csv", cfg.MaxDataFiles)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	dataFile, err := os.OpenFile(dataPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("create data file: %w", err)
	}

	return &Store{
		LogFile:  logFile,
		DataFile: dataFile,
		logPath:  logPath,
		dataPath: dataPath,
	}, nil
}

func (s *Store) LogPath() string  { return s.logPath }
func (s *Store) DataPath() string { return s.dataPath }

func (s *Store) Close() error {
	var first error
	if s.DataFile != nil {
		if err := s.DataFile.Close(); err != nil {
			first = err
		}
	}
	if s.LogFile != nil {
		if err := s.LogFile.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
