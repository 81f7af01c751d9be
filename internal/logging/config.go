package logging

import (
	"io"
	"os"
)

// Config selects the level and destination of the process logger.
type Config struct {
	// Level is DEBUG, INFO, WARN or ERROR.
	Level string
	// Output is stdout, stderr or a file path opened for appending.
	Output string
}

// DefaultConfig logs INFO and above to stderr.
func DefaultConfig() *Config {
	return &Config{Level: "info", Output: "stderr"}
}

// NewLogger builds a logger from cfg. A nil cfg uses DefaultConfig.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	w, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return New(ParseLevel(cfg.Level), w), nil
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		return os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	}
}
