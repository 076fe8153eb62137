package conflict

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strings"
)

// NoBlockMessage is reported when no comment contains a ```json block.
const NoBlockMessage = "No JSON block found in any comment."

var jsonBlockPattern = regexp.MustCompile("(?s)```json\\s*\\n(.*?)```")

var errNotObject = errors.New("decision must be a JSON object")

// Decision is the reviewer's JSON object. Its schema is not enforced.
type Decision map[string]any

// DecisionError reports that no comment yielded a parseable decision.
// Message is the detail shown to the reviewer.
type DecisionError struct {
	Message string
}

func (e *DecisionError) Error() string {
	if e == nil {
		return NoBlockMessage
	}
	return e.Message
}

// Attempt is the outcome of parsing the first JSON block of one comment.
type Attempt struct {
	// Index is the position of the comment in chronological order.
	Index    int
	Decision Decision
	Err      error
}

// Attempts yields one parse attempt per comment that contains a ```json
// block, walking from the newest comment to the oldest. Comments without a
// block produce no attempt. Only the first block of a comment is tried.
func Attempts(comments []string) iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		for i := len(comments) - 1; i >= 0; i-- {
			m := jsonBlockPattern.FindStringSubmatch(comments[i])
			if m == nil {
				continue
			}
			decision, err := ParseDecision(m[1])
			if !yield(Attempt{Index: i, Decision: decision, Err: err}) {
				return
			}
		}
	}
}

// ScanDecision returns the decision of the newest comment whose first JSON
// block parses. Malformed blocks do not stop the scan; the error of the last
// one seen (the oldest) is kept and returned as a *DecisionError when nothing
// parses.
func ScanDecision(comments []string) (Decision, error) {
	message := NoBlockMessage
	for attempt := range Attempts(comments) {
		if attempt.Err == nil {
			return attempt.Decision, nil
		}
		message = fmt.Sprintf("Error: %v", attempt.Err)
	}
	return nil, &DecisionError{Message: message}
}

// ParseDecision decodes a JSON object, keeping numbers as json.Number so they
// are written back unchanged.
func ParseDecision(raw string) (Decision, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return Decision(obj), nil
}
