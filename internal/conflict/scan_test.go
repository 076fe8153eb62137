package conflict

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fenced(payload string) string {
	return "Decision below.\n```json\n" + payload + "\n```\nthanks"
}

func TestScanDecisionSkipsCommentsWithoutBlock(t *testing.T) {
	comments := []string{
		fenced(`{"status": "merge"}`),
		"looks like the same tool to me",
		"@reviewer can you confirm?",
	}

	decision, err := ScanDecision(comments)
	require.NoError(t, err)
	assert.Equal(t, "merge", decision["status"])
}

func TestScanDecisionFallsBackPastMalformedBlock(t *testing.T) {
	comments := []string{
		fenced(`{"status": "separate"}`),
		fenced(`{"status": `),
	}

	decision, err := ScanDecision(comments)
	require.NoError(t, err)
	assert.Equal(t, "separate", decision["status"])
}

func TestScanDecisionPrefersNewest(t *testing.T) {
	comments := []string{
		fenced(`{"status": "old"}`),
		fenced(`{"status": "new"}`),
	}

	decision, err := ScanDecision(comments)
	require.NoError(t, err)
	assert.Equal(t, "new", decision["status"])
}

func TestScanDecisionOnlyFirstBlockPerComment(t *testing.T) {
	comments := []string{
		"```json\n{not json}\n```\n\n```json\n{\"status\": \"ignored\"}\n```",
	}

	_, err := ScanDecision(comments)
	var decErr *DecisionError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Message, "Error: ")
}

func TestScanDecisionNoBlock(t *testing.T) {
	tests := []struct {
		name     string
		comments []string
	}{
		{name: "no comments", comments: nil},
		{name: "prose only", comments: []string{"lgtm", "```\n{\"status\": \"x\"}\n```"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := ScanDecision(tt.comments)
			assert.Nil(t, decision)
			var decErr *DecisionError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, NoBlockMessage, decErr.Message)
		})
	}
}

func TestScanDecisionKeepsOldestError(t *testing.T) {
	comments := []string{
		fenced(`[1, 2]`),
		fenced(`{"status": `),
		"no block here",
	}

	_, err := ScanDecision(comments)
	var decErr *DecisionError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "Error: decision must be a JSON object", decErr.Message)
}

func TestAttemptsStopsAtFirstSuccess(t *testing.T) {
	comments := []string{
		fenced(`{"status": "oldest"}`),
		fenced(`{"status": "middle"}`),
		"prose",
		fenced(`oops`),
	}

	var seen []int
	for attempt := range Attempts(comments) {
		seen = append(seen, attempt.Index)
		if attempt.Err == nil {
			break
		}
	}
	assert.Equal(t, []int{3, 1}, seen)
}

func TestParseDecision(t *testing.T) {
	t.Run("preserves numbers", func(t *testing.T) {
		decision, err := ParseDecision(`{"score": 12345678901234567890, "ratio": 0.1}`)
		require.NoError(t, err)
		assert.Equal(t, json.Number("12345678901234567890"), decision["score"])
		assert.Equal(t, json.Number("0.1"), decision["ratio"])
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := ParseDecision(`{"a": 1} {"b": 2}`)
		require.Error(t, err)
	})

	t.Run("rejects non-object", func(t *testing.T) {
		for _, raw := range []string{`"text"`, `42`, `null`, `[]`} {
			_, err := ParseDecision(raw)
			require.Error(t, err, raw)
		}
	})

	t.Run("rejects empty block", func(t *testing.T) {
		_, err := ParseDecision("")
		require.Error(t, err)
	})
}

func TestBlockFenceTolerance(t *testing.T) {
	comments := []string{"```json   \r\n{\"status\": \"duplicate\"}\r\n```"}

	decision, err := ScanDecision(comments)
	require.NoError(t, err)
	assert.Equal(t, "duplicate", decision["status"])
}
