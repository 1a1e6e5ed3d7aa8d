package jobs

import (
	"fmt"
	"os"
)

// LogSink appends lines to a single append-only file. A failed write
// falls back to stderr; it never propagates, the jobs must survive.
type LogSink struct {
	path string
}

func NewLogSink(path string) *LogSink { return &LogSink{path: path} }

func (s *LogSink) Append(line string) {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", s.path, err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", s.path, err)
	}
}
