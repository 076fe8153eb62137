// Package decisionlog appends resolved conflict records to a JSON Lines file.
package decisionlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inab/conflict-decisions/internal/conflict"
)

// DefaultPath is the log location relative to the repository checkout.
const DefaultPath = "human_annotations/human_conflicts_log.jsonl"

// Log is an append-only JSON Lines file. It assumes a single writer.
type Log struct {
	path string
}

// New returns a Log backed by path.
func New(path string) (*Log, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("decision log path is empty")
	}
	return &Log{path: path}, nil
}

// Path returns the file the log writes to.
func (l *Log) Path() string {
	return l.path
}

// Append writes record as a single line at the end of the file, creating the
// file and its parent directories when needed.
func (l *Log) Append(record conflict.Record) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", record.ConflictID, err)
	}
	line = append(line, '\n')

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open decision log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append to decision log: %w", err)
	}
	return f.Close()
}

// Records reads every record in the file. A missing file yields no records.
func (l *Log) Records() ([]conflict.Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open decision log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []conflict.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var record conflict.Record
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("parse decision log line %d: %w", lineNo, err)
		}
		out = append(out, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decision log: %w", err)
	}
	return out, nil
}
