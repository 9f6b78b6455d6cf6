// Package debug writes diagnostic lines to a file when MDNOTE_DEBUG=1.
// A full-screen terminal UI owns stdout, so nothing is printed there.
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	enabled = os.Getenv("MDNOTE_DEBUG") == "1"
	file    = os.Getenv("MDNOTE_DEBUG_FILE")
	mu      sync.Mutex
)

// Enabled reports whether debug logging is on.
func Enabled() bool {
	return enabled
}

// Logf appends a timestamped line to the debug file.
func Logf(format string, args ...interface{}) {
	if !enabled {
		return
	}
	mu.Lock()
	defer mu.Unlock()

	path := file
	if path == "" {
		path = "mdnote-debug.log"
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	timestamp := time.Now().Format(time.RFC3339Nano)
	_, _ = fmt.Fprintf(f, "%s "+format+"\n", append([]interface{}{timestamp}, args...)...)
	_ = f.Close()
}
