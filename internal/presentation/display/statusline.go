// Package display draws the usage overlay on the bottom row of the terminal
// while the assistant keeps the rest of the screen.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sumonitor/go-sumonitor/internal/application/monitor"
	"github.com/sumonitor/go-sumonitor/internal/core/pricing"
	"github.com/sumonitor/go-sumonitor/internal/presentation/layout"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// StatusLine renders snapshots as a single line pinned to the last row
type StatusLine struct {
	mu     sync.Mutex
	out    io.Writer
	sizer  *layout.Sizer
	plan   pricing.Plan
	planID string
	times  *util.TimeProvider
	color  bool
	last   string
}

// StatusLineOption configures a StatusLine
type StatusLineOption func(*StatusLine)

// WithColor enables ANSI colors for plan percentages
func WithColor(enabled bool) StatusLineOption {
	return func(s *StatusLine) {
		s.color = enabled
	}
}

// WithSizer replaces the terminal size source
func WithSizer(sizer *layout.Sizer) StatusLineOption {
	return func(s *StatusLine) {
		s.sizer = sizer
	}
}

// WithTimeProvider sets the timezone used for the reset time
func WithTimeProvider(tp *util.TimeProvider) StatusLineOption {
	return func(s *StatusLine) {
		s.times = tp
	}
}

// NewStatusLine creates a renderer writing to out for the given plan
func NewStatusLine(out io.Writer, planID string, opts ...StatusLineOption) *StatusLine {
	s := &StatusLine{
		out:    out,
		sizer:  layout.NewFixedSizer(layout.DefaultColumns, layout.DefaultRows),
		plan:   pricing.GetPlan(planID),
		planID: planID,
		times:  util.GetTimeProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Text builds the uncolored overlay text for a snapshot
func (s *StatusLine) Text(snap monitor.Snapshot) string {
	t := snap.Totals
	parts := []string{
		fmt.Sprintf("In: %s tokens, %s", util.FormatTokens(t.InputTokens), util.FormatCost(t.InputCost)),
		fmt.Sprintf("Out: %s tokens, %s", util.FormatTokens(t.OutputTokens), util.FormatCost(t.OutputCost)),
		fmt.Sprintf("Total: %s tokens, %s", util.FormatTokens(t.TotalTokens), util.FormatCost(t.TotalCost)),
	}

	usage := s.plan.Usage(t)
	parts = append(parts, fmt.Sprintf("%s: %s tokens, %s cost",
		s.planID, s.percent(usage.TokenPercent), s.percent(usage.CostPercent)))

	switch {
	case snap.Err != nil && !snap.Active:
		parts = append(parts, "waiting for logs")
	case snap.Active:
		parts = append(parts, fmt.Sprintf("Reset %s (%s left)",
			s.times.Format(snap.ResetTime, "15:04"), util.FormatDuration(snap.Remaining())))
	default:
		parts = append(parts, "no active session")
	}

	return strings.Join(parts, " | ")
}

func (s *StatusLine) percent(p float64) string {
	text := fmt.Sprintf("%.0f%%", p)
	if s.color {
		return util.PercentColor(p) + text + util.ColorReset
	}
	return text
}

// Render draws the snapshot on the last row, restoring the cursor after
func (s *StatusLine) Render(snap monitor.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, rows := s.sizer.Size()
	text := s.Text(snap)
	if !s.color {
		text = util.TruncateToWidth(text, cols)
	} else if util.GetDisplayWidth(stripANSI(text)) > cols {
		// colors and truncation do not mix; fall back to plain text
		s.color = false
		text = util.TruncateToWidth(s.Text(snap), cols)
		s.color = true
	}

	frame := util.SaveCursor + util.MoveCursor(rows, 1) + util.ClearLineFromCursor + text + util.RestoreCursor
	if frame == s.last {
		return nil
	}
	if _, err := io.WriteString(s.out, frame); err != nil {
		return err
	}
	s.last = frame
	return nil
}

// Clear erases the overlay row
func (s *StatusLine) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rows := s.sizer.Size()
	s.last = ""
	_, err := io.WriteString(s.out, util.SaveCursor+util.MoveCursor(rows, 1)+util.ClearLineFromCursor+util.RestoreCursor)
	return err
}

func stripANSI(text string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range text {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var _ monitor.Renderer = (*StatusLine)(nil)
