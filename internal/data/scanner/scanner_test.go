package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileScanner(t *testing.T) {
	scanner := NewFileScanner("/tmp/test")

	assert.NotNil(t, scanner)
	assert.Equal(t, "/tmp/test", scanner.BaseDir())
	assert.Equal(t, ".jsonl", scanner.ext)
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files, "Empty directory should return no files")
}

func TestFileScannerScanMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	files, err := NewFileScanner(missing).Scan()

	require.Error(t, err)
	assert.Nil(t, files)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, missing, cfgErr.Path)
	assert.True(t, errors.Is(err, ErrDataDirNotFound))
}

func TestFileScannerScanRootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	_, err := NewFileScanner(path).Scan()

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, ErrDataDirNotFound))
	assert.Contains(t, err.Error(), "not a directory")
}

func TestFileScannerScanWithJSONLFiles(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := []struct {
		path    string
		isJSONL bool
	}{
		{"session1.jsonl", true},
		{"session2.jsonl", true},
		{"session3.JSONL", true},
		{"data.json", false},
		{"readme.txt", false},
		{"subdir/session4.jsonl", true},
		{"subdir/other.log", false},
		{"subdir/deep/nested/session5.jsonl", true},
		{"notes.jsonl.bak", false},
	}

	var expected []string
	for _, tf := range testFiles {
		full := filepath.Join(tempDir, tf.path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("{}\n"), 0644))
		if tf.isJSONL {
			expected = append(expected, full)
		}
	}

	files, err := NewFileScanner(tempDir).Scan()
	require.NoError(t, err)
	assert.ElementsMatch(t, expected, files)
}

func TestFileScannerScanOrderIsStable(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.jsonl", "c/a.jsonl"} {
		full := filepath.Join(tempDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, nil, 0644))
	}

	scanner := NewFileScanner(tempDir)
	first, err := scanner.Scan()
	require.NoError(t, err)
	second, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "a.jsonl"),
		filepath.Join(tempDir, "b.jsonl"),
		filepath.Join(tempDir, "c", "a.jsonl"),
	}, first)
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{Path: "/x", Err: ErrDataDirNotFound}
	assert.Equal(t, "configuration error: /x: data directory not found", err.Error())
	assert.Equal(t, ErrDataDirNotFound, errors.Unwrap(err))
}
