package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sumonitor/go-sumonitor/internal/util"
)

// ErrDataDirNotFound is wrapped by ConfigurationError when the log root is
// missing or is not a directory.
var ErrDataDirNotFound = errors.New("data directory not found")

// ConfigurationError reports a log root that cannot be scanned. Callers are
// expected to retry on the next refresh.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// FileScanner scans files in the specified directory
type FileScanner struct {
	baseDir string
	ext     string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		ext:     ".jsonl",
	}
}

// BaseDir returns the scanned root
func (s *FileScanner) BaseDir() string {
	return s.baseDir
}

// Scan walks the root and returns every .jsonl file path in lexical order.
// Unreadable entries below the root are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == s.baseDir {
				return err
			}
			util.LogDebug(fmt.Sprintf("Skip entry (error): %s - %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if strings.EqualFold(filepath.Ext(path), s.ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &ConfigurationError{Path: s.baseDir, Err: err}
	}

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d JSONL files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, nil
}

func (s *FileScanner) checkRoot() error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConfigurationError{Path: s.baseDir, Err: ErrDataDirNotFound}
		}
		return &ConfigurationError{Path: s.baseDir, Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Path: s.baseDir, Err: fmt.Errorf("%w: not a directory", ErrDataDirNotFound)}
	}
	return nil
}
