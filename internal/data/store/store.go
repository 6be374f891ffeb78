// Package store keeps the deduplicated, priced usage records found under a
// log root. Each Scan reads only what was appended since the previous one.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sumonitor/go-sumonitor/internal/core/constants"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/core/pricing"
	"github.com/sumonitor/go-sumonitor/internal/data/parser"
	"github.com/sumonitor/go-sumonitor/internal/data/scanner"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// Store is the usage record store. It is safe for concurrent use, although
// the monitor drives it from a single polling goroutine.
type Store struct {
	mu sync.Mutex

	scanner     *scanner.FileScanner
	parser      *parser.Parser
	pricer      pricing.Pricer
	lookback    time.Duration
	unbounded   bool
	clock       util.Clock
	concurrency int

	files   map[string]*fileState
	seen    map[string]time.Time
	records []model.UsageRecord
}

// fileState remembers how far a log file has been consumed
type fileState struct {
	offset  int64
	size    int64
	modTime int64
	inode   uint64
	head    string
	headLen int64
}

// ScanStats counts what a scan saw and why lines were dropped
type ScanStats struct {
	Files           int
	FilesParsed     int
	FileErrors      int
	Rewound         int
	Parse           parser.ParseStats
	NoUsage         int
	BadTimestamp    int
	Invalid         int
	OutsideLookback int
	Duplicates      int
}

// ScanResult is the outcome of one Scan
type ScanResult struct {
	Records []model.UsageRecord // every retained record, in discovery order
	Added   int
	Evicted int
	Stats   ScanStats
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock used for the lookback cutoff
func WithClock(clock util.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithConcurrency bounds the number of files parsed in parallel
func WithConcurrency(n int) Option {
	return func(s *Store) {
		s.concurrency = n
	}
}

// WithoutLookback keeps every record regardless of age
func WithoutLookback() Option {
	return func(s *Store) {
		s.unbounded = true
	}
}

// New creates a store over root. Records older than now-lookback are
// discarded; a zero lookback is taken literally.
func New(root string, lookback time.Duration, pricer pricing.Pricer, opts ...Option) *Store {
	s := &Store{
		scanner:     scanner.NewFileScanner(root),
		pricer:      pricer,
		lookback:    lookback,
		clock:       util.SystemClock,
		concurrency: constants.DefaultParseConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = parser.NewParser(s.concurrency)
	s.reset()
	return s
}

// Root returns the scanned log directory
func (s *Store) Root() string {
	return s.scanner.BaseDir()
}

func (s *Store) reset() {
	s.files = make(map[string]*fileState)
	s.seen = make(map[string]time.Time)
	s.records = nil
}

// Scan discovers log files, parses newly appended lines, and returns every
// retained record. Scanning unchanged files is idempotent. A missing or
// unreadable root yields a *scanner.ConfigurationError and leaves the
// store untouched.
func (s *Store) Scan() (*ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	now := s.clock().UTC()

	paths, err := s.scanner.Scan()
	if err != nil {
		return nil, err
	}

	result := &ScanResult{}
	result.Stats.Files = len(paths)

	requests, infos := s.plan(paths, &result.Stats)
	parsed := s.parser.ParseFiles(requests)

	for i, res := range parsed {
		if res.Error != nil {
			result.Stats.FileErrors++
			util.LogDebug(fmt.Sprintf("Skip file %s: %v", res.File, res.Error))
			continue
		}
		result.Stats.FilesParsed++
		result.Stats.Parse.Add(res.Stats)

		for _, line := range res.Lines {
			if s.ingest(res.File, line, now, &result.Stats) {
				result.Added++
			}
		}
		s.commit(res, infos[i])
	}

	result.Evicted = s.evict(now)
	s.forgetMissing(paths)

	result.Records = make([]model.UsageRecord, len(s.records))
	copy(result.Records, s.records)

	util.LogDebug("Usage scan completed",
		util.F("duration", time.Since(start)),
		util.F("files", result.Stats.Files),
		util.F("parsed", result.Stats.FilesParsed),
		util.F("added", result.Added),
		util.F("evicted", result.Evicted),
		util.F("records", len(result.Records)),
		util.F("duplicates", result.Stats.Duplicates),
		util.F("malformed", result.Stats.Parse.Malformed))

	return result, nil
}

// plan decides which files need parsing and from which offset
func (s *Store) plan(paths []string, stats *ScanStats) ([]parser.Request, []*util.FileInfo) {
	var requests []parser.Request
	var infos []*util.FileInfo

	for _, path := range paths {
		info, err := util.GetFileInfo(path)
		if err != nil {
			stats.FileErrors++
			util.LogDebug(fmt.Sprintf("Skip file (stat failed): %s - %v", path, err))
			continue
		}

		offset := int64(0)
		if state, ok := s.files[path]; ok {
			if state.inode == info.Inode && state.size == info.Size && state.modTime == info.ModTime {
				continue
			}
			if s.rewritten(path, state, info) {
				stats.Rewound++
				util.LogDebug(fmt.Sprintf("File %s was truncated or replaced, re-reading from start", path))
			} else {
				offset = state.offset
			}
		}

		requests = append(requests, parser.Request{File: path, Offset: offset})
		infos = append(infos, info)
	}

	return requests, infos
}

// rewritten reports whether the file no longer continues what was read
func (s *Store) rewritten(path string, state *fileState, info *util.FileInfo) bool {
	if info.Inode != state.inode || info.Size < state.offset {
		return true
	}
	if state.headLen == 0 {
		return false
	}
	head, err := util.FileHeadFingerprint(path, state.headLen)
	return err != nil || head != state.head
}

// ingest turns one parsed line into a record. It returns true when the
// record is new.
func (s *Store) ingest(path string, line parser.ParsedLine, now time.Time, stats *ScanStats) bool {
	entry := line.Log
	if !entry.HasUsage() {
		stats.NoUsage++
		return false
	}

	ts, ok := parseTimestamp(entry.Timestamp)
	if !ok {
		stats.BadTimestamp++
		util.LogDebug(fmt.Sprintf("Skip line %s@%d: bad timestamp %q", path, line.Offset, entry.Timestamp))
		return false
	}

	usage := entry.Message.Usage
	if usage.InputTokens < 0 || usage.OutputTokens < 0 {
		stats.Invalid++
		util.LogDebug(fmt.Sprintf("Skip line %s@%d: negative token count", path, line.Offset))
		return false
	}

	if !s.unbounded && ts.Before(now.Add(-s.lookback)) {
		stats.OutsideLookback++
		return false
	}

	msg := entry.Message
	rec := model.UsageRecord{
		Model:        msg.Model,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		Timestamp:    ts,
		MessageID:    msg.Id,
		RequestID:    entry.RequestId,
		SessionID:    entry.SessionId,
		SourceFile:   path,
		SourceOffset: line.Offset,
	}

	key := rec.Key()
	if _, dup := s.seen[key]; dup {
		stats.Duplicates++
		return false
	}

	s.seen[key] = ts
	s.price(&rec)
	s.records = append(s.records, rec)
	return true
}

// price fills in the cost and tier of both directions
func (s *Store) price(rec *model.UsageRecord) {
	rec.InputCost, rec.InputTier = s.pricer.Price(rec.Model, rec.InputTokens, model.DirectionInput)
	rec.OutputCost, rec.OutputTier = s.pricer.Price(rec.Model, rec.OutputTokens, model.DirectionOutput)
}

// commit records the new offset for a parsed file
func (s *Store) commit(res parser.ParseResult, info *util.FileInfo) {
	state := &fileState{
		offset:  res.NextOffset,
		size:    info.Size,
		modTime: info.ModTime,
		inode:   info.Inode,
	}
	// an unfinished trailing line means the file will change again
	if res.NextOffset < info.Size {
		state.size = -1
	}

	headLen := min(res.NextOffset, util.HeadFingerprintSize)
	if headLen > 0 {
		if head, err := util.FileHeadFingerprint(res.File, headLen); err == nil {
			state.head, state.headLen = head, headLen
		}
	}
	s.files[res.File] = state
}

// evict drops records and dedup keys that fell out of the lookback window
func (s *Store) evict(now time.Time) int {
	if s.unbounded {
		return 0
	}
	cutoff := now.Add(-s.lookback)

	before := len(s.records)
	s.records = lo.Filter(s.records, func(r model.UsageRecord, _ int) bool {
		return !r.Timestamp.Before(cutoff)
	})
	for key, ts := range s.seen {
		if ts.Before(cutoff) {
			delete(s.seen, key)
		}
	}
	return before - len(s.records)
}

// forgetMissing drops offsets of files that were deleted. Their records stay
// until they age out.
func (s *Store) forgetMissing(paths []string) {
	present := lo.SliceToMap(paths, func(p string) (string, struct{}) {
		return p, struct{}{}
	})
	for path := range s.files {
		if _, ok := present[path]; !ok {
			delete(s.files, path)
		}
	}
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
