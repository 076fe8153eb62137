package conflict

import (
	"maps"
	"time"
)

// DateLayout is the ISO-8601 layout of Record.Date, always with an explicit offset.
const DateLayout = "2006-01-02T15:04:05.000000-07:00"

// IssueURLKey is the decision key holding the URL of the review issue.
const IssueURLKey = "issue_url"

// Record is one line of the conflicts log.
type Record struct {
	ConflictID   string   `json:"conflict_id"`
	Date         string   `json:"date"`
	ConflictName string   `json:"conflict_name"`
	ConflictURL  string   `json:"conflict_url"`
	Decision     Decision `json:"decision"`
}

// NewRecord assembles the record for a resolved conflict. The decision is
// copied before issueURL is added, so the caller's map is left untouched.
func NewRecord(fields Fields, decision Decision, issueURL string, now time.Time) Record {
	d := make(Decision, len(decision)+1)
	maps.Copy(d, decision)
	d[IssueURLKey] = issueURL

	return Record{
		ConflictID:   fields.ID,
		Date:         now.UTC().Format(DateLayout),
		ConflictName: fields.Name(),
		ConflictURL:  fields.URL,
		Decision:     d,
	}
}
