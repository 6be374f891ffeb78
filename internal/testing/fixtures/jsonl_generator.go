package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// JSONLEntry is one line of a Claude Code project log
type JSONLEntry struct {
	Type      string   `json:"type"`
	SessionId string   `json:"sessionId,omitempty"`
	RequestId string   `json:"requestId,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Message   *Message `json:"message,omitempty"`
}

// Message represents the message structure in Claude Code logs
type Message struct {
	Id      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Model   string `json:"model,omitempty"`
	Content string `json:"content,omitempty"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Usage represents token usage in Claude Code logs
type Usage struct {
	InputTokens              int    `json:"input_tokens"`
	OutputTokens             int    `json:"output_tokens"`
	CacheCreationInputTokens int    `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int    `json:"cache_read_input_tokens"`
	ServiceTier              string `json:"service_tier,omitempty"`
}

// Timestamp formats t the way Claude Code writes it (UTC, millisecond precision)
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Assistant builds a billable assistant line
func Assistant(ts time.Time, model, messageID, requestID string, input, output int) JSONLEntry {
	return JSONLEntry{
		Type:      "assistant",
		SessionId: "session-1",
		RequestId: requestID,
		Timestamp: Timestamp(ts),
		Message: &Message{
			Id:    messageID,
			Role:  "assistant",
			Model: model,
			Usage: &Usage{
				InputTokens:  input,
				OutputTokens: output,
				ServiceTier:  "standard",
			},
		},
	}
}

// User builds a non-billable user line
func User(ts time.Time, content string) JSONLEntry {
	return JSONLEntry{
		Type:      "user",
		SessionId: "session-1",
		Timestamp: Timestamp(ts),
		Message:   &Message{Role: "user", Content: content},
	}
}

// TestDataGenerator writes JSONL fixtures below a base directory
type TestDataGenerator struct {
	baseDir string
	seq     int
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// GetBaseDir returns the base directory for test data
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// Path resolves a file name relative to the base directory
func (g *TestDataGenerator) Path(rel string) string {
	return filepath.Join(g.baseDir, rel)
}

// Next builds an assistant line with fresh message and request ids
func (g *TestDataGenerator) Next(ts time.Time, model string, input, output int) JSONLEntry {
	g.seq++
	return Assistant(ts, model, fmt.Sprintf("msg_%04d", g.seq), fmt.Sprintf("req_%04d", g.seq), input, output)
}

// GenerateSession writes count billable lines spaced step apart into
// project/session.jsonl and returns them.
func (g *TestDataGenerator) GenerateSession(project, model string, start time.Time, count int, step time.Duration) ([]JSONLEntry, error) {
	entries := make([]JSONLEntry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, g.Next(start.Add(time.Duration(i)*step), model, 100, 100))
	}
	return entries, g.WriteJSONL(filepath.Join(project, "session.jsonl"), entries)
}

// WriteJSONL replaces rel with entries, one per line
func (g *TestDataGenerator) WriteJSONL(rel string, entries []JSONLEntry) error {
	return g.write(rel, entries, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// AppendJSONL appends entries to rel, creating it if needed
func (g *TestDataGenerator) AppendJSONL(rel string, entries []JSONLEntry) error {
	return g.write(rel, entries, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

// AppendRaw appends raw bytes, e.g. a malformed or unterminated line
func (g *TestDataGenerator) AppendRaw(rel string, data string) error {
	path := g.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.WriteString(data)
	return err
}

// CreateEmptyProject creates a project directory holding an empty log file
func (g *TestDataGenerator) CreateEmptyProject(project string) error {
	return g.WriteJSONL(filepath.Join(project, "session.jsonl"), nil)
}

// Line encodes a single entry without the trailing newline
func Line(entry JSONLEntry) string {
	data, err := sonic.Marshal(entry)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func (g *TestDataGenerator) write(rel string, entries []JSONLEntry, flag int) error {
	path := g.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, entry := range entries {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}
