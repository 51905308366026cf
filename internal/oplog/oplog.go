// Package oplog records an audit trail of catalog and account operations:
// one line per operation with the acting user, the operation name, the
// affected subject, and the result. The log file rotates by size so the
// trail never grows without bound.
package oplog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	maxSize    = 1 << 20 // rotate after 1 MiB
	maxBackups = 5
)

// Guest is the user recorded for unauthenticated operations.
const Guest = "GUEST"

// Logger appends operation entries to a file, rotating it when it exceeds
// maxSize. Safe for concurrent use. A nil *Logger discards entries, so
// callers never need to guard their Record calls.
type Logger struct {
	mu   sync.Mutex
	path string
}

// New creates a Logger writing to path, creating the parent directory if
// needed.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &Logger{path: path}, nil
}

// Record appends one entry. The subject is whatever the operation acted on
// (a book title, a username, a URL); pass "" when there is none. Errors are
// returned but callers typically ignore them: a failed audit write must not
// fail the operation it describes.
func (l *Logger) Record(user, operation, subject, result string) error {
	if l == nil {
		return nil
	}
	if subject == "" {
		subject = "-"
	}
	line := fmt.Sprintf("%s INFO user=%s operation=%s subject=%q result=%q\n",
		time.Now().UTC().Format(time.RFC3339), user, operation, subject, result)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rotateIfNeeded(len(line)); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open oplog: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write oplog: %w", err)
	}
	return nil
}

// rotateIfNeeded shifts app.log -> app.log.1 -> ... -> app.log.5 when the
// next write would push the file past maxSize. Callers must hold l.mu.
func (l *Logger) rotateIfNeeded(next int) error {
	info, err := os.Stat(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size()+int64(next) <= maxSize {
		return nil
	}

	_ = os.Remove(fmt.Sprintf("%s.%d", l.path, maxBackups))
	for i := maxBackups - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", l.path, i), fmt.Sprintf("%s.%d", l.path, i+1))
	}
	return os.Rename(l.path, l.path+".1")
}
