package model

// ConversationLog is one line of a Claude Code project log. Only the fields
// needed for usage accounting are decoded; everything else is ignored.
type ConversationLog struct {
	Type      string   `json:"type"`
	SessionId string   `json:"sessionId"`
	RequestId string   `json:"requestId,omitempty"`
	Timestamp string   `json:"timestamp"`
	Message   *Message `json:"message,omitempty"`
}

type Message struct {
	Id    string `json:"id,omitempty"`
	Model string `json:"model,omitempty"`
	Role  string `json:"role,omitempty"`
	Usage *Usage `json:"usage,omitempty"`
}

type Usage struct {
	CacheCreationInputTokens int    `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int    `json:"cache_read_input_tokens"`
	InputTokens              int    `json:"input_tokens"`
	OutputTokens             int    `json:"output_tokens"`
	ServiceTier              string `json:"service_tier,omitempty"`
}

// HasUsage reports whether the line carries a billable usage payload.
func (l *ConversationLog) HasUsage() bool {
	return l.Message != nil && l.Message.Usage != nil
}

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}
