package layout

import (
	"os"

	"github.com/sumonitor/go-sumonitor/internal/util"
	"golang.org/x/term"
)

// Fallback dimensions when the output is not a terminal
const (
	DefaultColumns = 80
	DefaultRows    = 24
)

// SizeFunc reports terminal columns and rows
type SizeFunc func() (cols, rows int, err error)

// Sizer measures the terminal
type Sizer struct {
	size SizeFunc
}

// NewSizer measures the terminal attached to f
func NewSizer(f *os.File) *Sizer {
	fd := int(f.Fd())
	return &Sizer{size: func() (int, int, error) {
		return term.GetSize(fd)
	}}
}

// NewFixedSizer always reports the given size
func NewFixedSizer(cols, rows int) *Sizer {
	return &Sizer{size: func() (int, int, error) {
		return cols, rows, nil
	}}
}

// Size returns the terminal size, falling back to 80x24
func (s *Sizer) Size() (cols, rows int) {
	cols, rows, err := s.size()
	if err != nil || cols <= 0 || rows <= 0 {
		util.LogDebugf("Terminal size unavailable (%v), using %dx%d", err, DefaultColumns, DefaultRows)
		return DefaultColumns, DefaultRows
	}
	return cols, rows
}
