package constants

const (
	// Where Claude Code writes per-project conversation logs
	DefaultDataDir = "~/.claude/projects"

	DefaultConfigFile = "~/.config/sumonitor/config.yaml"
	DefaultLogFile    = "~/.sumonitor/logs/app.log"
)
