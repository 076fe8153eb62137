// Package resolve runs the decision pipeline for one review issue: it reads
// the issue, extracts the conflict fields and the reviewer decision, and
// either appends a record to the log or reports the problem on the issue.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/inab/conflict-decisions/internal/conflict"
	"github.com/inab/conflict-decisions/internal/ghoutput"
	"github.com/inab/conflict-decisions/internal/githubapi"
	"github.com/inab/conflict-decisions/internal/notify"
)

// NoDecisionMessage is printed on stdout when no comment holds a valid decision.
const NoDecisionMessage = "No valid decision found"

// Tracker is the issue tracker the pipeline reads from and reports to.
type Tracker interface {
	IssueBody(ctx context.Context) (string, error)
	Comments(ctx context.Context) ([]githubapi.Comment, error)
	PostComment(ctx context.Context, body string) error
	Reopen(ctx context.Context) error
}

// Appender persists completed records.
type Appender interface {
	Append(record conflict.Record) error
}

// RejectedError reports a validation failure that was handed back to the
// reviewers. Message is the text emitted as {"error": ...}.
type RejectedError struct {
	Message string
	Cause   error
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Unwrap() error {
	return e.Cause
}

// IsRejected reports whether err is a handled validation failure.
func IsRejected(err error) bool {
	var target *RejectedError
	return errors.As(err, &target)
}

// Config wires a Resolver.
type Config struct {
	Tracker Tracker
	Log     Appender
	// IssueURL is injected into every recorded decision.
	IssueURL string
	// Stdout receives the machine-readable failure object. Defaults to os.Stdout.
	Stdout io.Writer
	// OutputPath is the GITHUB_OUTPUT file; empty disables step outputs.
	OutputPath string
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Resolver processes a single issue.
type Resolver struct {
	tracker    Tracker
	log        Appender
	issueURL   string
	stdout     io.Writer
	outputPath string
	now        func() time.Time
	logger     *slog.Logger
}

// New validates cfg and returns a Resolver.
func New(cfg Config) (*Resolver, error) {
	if cfg.Tracker == nil {
		return nil, fmt.Errorf("resolver requires a tracker")
	}
	if cfg.Log == nil {
		return nil, fmt.Errorf("resolver requires a decision log")
	}
	r := &Resolver{
		tracker:    cfg.Tracker,
		log:        cfg.Log,
		issueURL:   cfg.IssueURL,
		stdout:     cfg.Stdout,
		outputPath: cfg.OutputPath,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Run executes the pipeline. It returns the appended record on success, a
// *RejectedError after the issue was commented on and reopened, or any other
// error when the tracker or the log could not be reached.
func (r *Resolver) Run(ctx context.Context) (conflict.Record, error) {
	body, err := r.tracker.IssueBody(ctx)
	if err != nil {
		return conflict.Record{}, err
	}

	fields, err := conflict.ExtractFields(body)
	if err != nil {
		return conflict.Record{}, r.reject(ctx, notify.KindFields, err.Error(), err.Error(), err)
	}
	r.logger.Info("conflict fields extracted", "conflict_id", fields.ID, "conflict_url", fields.URL)

	comments, err := r.tracker.Comments(ctx)
	if err != nil {
		return conflict.Record{}, err
	}
	bodies := make([]string, len(comments))
	for i, c := range comments {
		bodies[i] = c.Body
	}

	decision, err := conflict.ScanDecision(bodies)
	if err != nil {
		var decErr *conflict.DecisionError
		if !errors.As(err, &decErr) {
			return conflict.Record{}, err
		}
		return conflict.Record{}, r.reject(ctx, notify.KindDecision, decErr.Message, NoDecisionMessage, err)
	}

	record := conflict.NewRecord(fields, decision, r.issueURL, r.now())
	if err := r.log.Append(record); err != nil {
		return conflict.Record{}, err
	}
	r.logger.Info("decision recorded", "conflict_id", record.ConflictID, "comments", len(comments))

	r.writeOutputs(map[string]string{
		"status":      "recorded",
		"conflict_id": record.ConflictID,
	})
	return record, nil
}

// reject comments on the issue, reopens it and prints the failure object.
// detail goes to the reviewers, message to stdout.
func (r *Resolver) reject(ctx context.Context, kind notify.Kind, detail, message string, cause error) error {
	r.logger.Warn("decision rejected", "reason", detail)

	comment, err := notify.RenderFailure(kind, detail)
	if err != nil {
		return err
	}
	if err := r.tracker.PostComment(ctx, comment); err != nil {
		return err
	}
	if err := r.tracker.Reopen(ctx); err != nil {
		return err
	}

	quoted, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode failure message: %w", err)
	}
	if _, err := fmt.Fprintf(r.stdout, "{\"error\": %s}\n", quoted); err != nil {
		return fmt.Errorf("write failure message: %w", err)
	}

	r.writeOutputs(map[string]string{
		"status": "rejected",
		"error":  message,
	})
	return &RejectedError{Message: message, Cause: cause}
}

func (r *Resolver) writeOutputs(values map[string]string) {
	if err := ghoutput.Write(r.outputPath, values); err != nil {
		r.logger.Warn("failed to write GitHub step outputs", "path", r.outputPath, "error", err)
	}
}
