package pricing

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// TableStore reads and writes a pricing table as a JSON file so new models
// can be priced without a rebuild.
type TableStore struct {
	mu   sync.RWMutex
	path string
}

// tableFile is the on-disk layout of a pricing table
type tableFile struct {
	UpdatedAt time.Time `json:"updated_at"`
	Rules     []Rule    `json:"rules"`
}

// NewTableStore creates a store backed by path
func NewTableStore(path string) *TableStore {
	return &TableStore{path: path}
}

// Load reads and validates the table file
func (s *TableStore) Load() (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	util.LogDebug(fmt.Sprintf("Loading pricing table from %s", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing table %s: %w", s.path, err)
	}

	var file tableFile
	if err := sonic.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode pricing table %s: %w", s.path, err)
	}

	if err := validateRules(file.Rules); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	util.LogDebug(fmt.Sprintf("Loaded %d pricing rules from %s", len(file.Rules), s.path))
	return NewTable(file.Rules), nil
}

// Save writes the table atomically
func (s *TableStore) Save(table *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sonic.MarshalIndent(tableFile{UpdatedAt: time.Now().UTC(), Rules: table.Rules()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pricing table: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create pricing directory: %w", err)
	}

	// Write to temporary file first
	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write pricing table: %w", err)
	}

	if err := os.Rename(tmpFile, s.path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename pricing table: %w", err)
	}

	return nil
}

// LoadTable returns the table stored at path, or the compiled-in table when
// path is empty.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	return NewTableStore(path).Load()
}

func validateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidTable)
	}
	for i, rule := range rules {
		if rule.Match == "" {
			return fmt.Errorf("%w: rule %d has empty match", ErrInvalidTable, i)
		}
		if rule.Threshold < 0 {
			return fmt.Errorf("%w: rule %q has negative threshold", ErrInvalidTable, rule.Match)
		}
		for _, rates := range []Rates{rule.Input, rule.Output} {
			if rates.Base.IsNegative() || rates.Above.IsNegative() {
				return fmt.Errorf("%w: rule %q has negative rate", ErrInvalidTable, rule.Match)
			}
		}
	}
	return nil
}
