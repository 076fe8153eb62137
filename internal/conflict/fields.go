// Package conflict holds the pure decision core: it extracts conflict fields
// from an issue body, scans comments for a JSON decision and assembles the
// record that is appended to the conflicts log.
package conflict

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrConflictIDNotFound is returned when the issue body has no "Conflict Id" line.
	ErrConflictIDNotFound = errors.New("Conflict Id not found in issue body")
	// ErrConflictURLNotFound is returned when the issue body has no "Conflict File" link.
	ErrConflictURLNotFound = errors.New("Conflict File URL not found in issue body")
)

var (
	conflictIDPattern = regexp.MustCompile(`(?m)^> Conflict Id:\s*(\S+)\s*$`)

	// > Conflict File: [<text>](<url>)
	conflictURLPattern = regexp.MustCompile(
		`(?m)^>\s*Conflict File:\s*\[([^\]]+)\]\(\s*([^)]+)\s*\)\s*$`,
	)
)

// Fields are the values recovered from the issue body.
type Fields struct {
	// ID is the opaque conflict batch identifier.
	ID string
	// URL points to the conflict artifact.
	URL string
}

// Name returns the human-readable conflict name: the part of the identifier
// after the last underscore, or the whole identifier when it has none.
func (f Fields) Name() string {
	if i := strings.LastIndex(f.ID, "_"); i >= 0 {
		return f.ID[i+1:]
	}
	return f.ID
}

// MatchConflictID returns the token following the first "> Conflict Id:" line.
func MatchConflictID(body string) (string, bool) {
	m := conflictIDPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchConflictURL returns the link target of the first "> Conflict File:" line.
// The link text is not compared with the target.
func MatchConflictURL(body string) (string, bool) {
	m := conflictURLPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	url := strings.TrimSpace(m[2])
	if url == "" {
		return "", false
	}
	return url, true
}

// ExtractFields parses the issue body. The identifier is checked first, so a
// body missing both lines reports ErrConflictIDNotFound.
func ExtractFields(body string) (Fields, error) {
	id, ok := MatchConflictID(body)
	if !ok {
		return Fields{}, ErrConflictIDNotFound
	}
	url, ok := MatchConflictURL(body)
	if !ok {
		return Fields{}, ErrConflictURLNotFound
	}
	return Fields{ID: id, URL: url}, nil
}
