package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput sets the writer for verbose logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func Debug(format string, args ...any) {
	write("[DEBUG] ", format, args)
}

func Info(format string, args ...any) {
	write("[INFO] ", format, args)
}

func Warn(format string, args ...any) {
	write("[WARN] ", format, args)
}

func write(prefix, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
