package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sumonitor/go-sumonitor/internal/core/constants"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// Parser reads conversation log files incrementally.
type Parser struct {
	concurrency int
}

// Request asks for a file to be parsed starting at Offset.
type Request struct {
	File   string
	Offset int64
}

// ParsedLine is a decoded log line together with the byte offset it starts at.
type ParsedLine struct {
	Offset int64
	Log    model.ConversationLog
}

// ParseStats counts the lines of one pass that did not produce a log.
type ParseStats struct {
	Lines     int
	Skipped   int // blank
	Malformed int
}

// Add merges other into s
func (s *ParseStats) Add(other ParseStats) {
	s.Lines += other.Lines
	s.Skipped += other.Skipped
	s.Malformed += other.Malformed
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File       string
	Offset     int64
	NextOffset int64
	Lines      []ParsedLine
	Stats      ParseStats
	Error      error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency <= 0 {
		concurrency = constants.DefaultParseConcurrency
	}
	return &Parser{concurrency: concurrency}
}

// ParseFrom decodes every complete line of path starting at offset.
//
// A trailing line without a newline is only consumed when it decodes; an
// incomplete write is otherwise left in place and NextOffset stops before it,
// so the next pass sees the finished line.
func (p *Parser) ParseFrom(path string, offset int64) (*ParseResult, error) {
	result := &ParseResult{File: path, Offset: offset, NextOffset: offset}

	file, err := os.Open(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", path, err))
		return result, err
	}
	defer file.Close()

	if offset > 0 {
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			return result, fmt.Errorf("failed to seek %s to %d: %w", path, offset, err)
		}
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	pos := offset
	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return result, fmt.Errorf("failed to read %s: %w", path, readErr)
		}
		if len(line) == 0 {
			break
		}

		complete := line[len(line)-1] == '\n'
		trimmed := bytes.TrimSpace(line)

		switch {
		case len(trimmed) == 0:
			if complete {
				result.Stats.Skipped++
				pos += int64(len(line))
				result.NextOffset = pos
			}
		default:
			var entry model.ConversationLog
			decodeErr := sonic.Unmarshal(trimmed, &entry)
			if decodeErr != nil && !complete {
				util.LogDebug(fmt.Sprintf("Leaving partial line at %s@%d for next pass", path, pos))
				break
			}
			if decodeErr != nil {
				util.LogDebug(fmt.Sprintf("Skip invalid JSON line %s@%d - %v", path, pos, decodeErr))
				result.Stats.Malformed++
			} else {
				result.Lines = append(result.Lines, ParsedLine{Offset: pos, Log: entry})
				result.Stats.Lines++
			}
			pos += int64(len(line))
			result.NextOffset = pos
		}

		if readErr != nil {
			break
		}
	}

	return result, nil
}

// ParseFiles parses multiple files concurrently. Results are returned in
// request order.
func (p *Parser) ParseFiles(requests []Request) []ParseResult {
	start := time.Now()
	results := make([]ParseResult, len(requests))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(requests), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for i, req := range requests {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			res, err := p.ParseFrom(req.File, req.Offset)
			if err != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s, duration %v - %v", req.File, time.Since(fileStart), err))
				res.Error = err
			}
			results[i] = *res
		}(i, req)
	}

	wg.Wait()
	util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))

	return results
}
