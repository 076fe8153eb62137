package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inab/conflict-decisions/internal/decisionlog"
	"github.com/inab/conflict-decisions/internal/githubapi"
	"github.com/inab/conflict-decisions/internal/resolve"
)

// runExtract resolves the issue addressing context and runs the pipeline.
func runExtract(cmd *cobra.Command, opts *Options, repo, issue string) error {
	logger := LoggerFromContext(cmd.Context())
	settings := opts.settings

	if strings.TrimSpace(settings.Token) == "" {
		return usageErrorf("Missing GITHUB_TOKEN env var")
	}

	ref, err := githubapi.NewIssueRef(repo, issue, settings.Token, settings.IssueNamespace)
	if err != nil {
		return &UsageError{err: err}
	}

	client, err := githubapi.NewClient(logger, ref, githubapi.Options{
		BaseURL: settings.APIURL,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return &UsageError{err: err}
	}

	log, err := decisionlog.New(settings.LogPath)
	if err != nil {
		return &UsageError{err: err}
	}

	resolver, err := resolve.New(resolve.Config{
		Tracker:    client,
		Log:        log,
		IssueURL:   ref.IssueURL(),
		Stdout:     cmd.OutOrStdout(),
		OutputPath: settings.OutputPath,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	logger.Info("processing conflict review issue", "issue", ref.String(), "log", log.Path())

	record, err := resolver.Run(cmd.Context())
	if err != nil {
		if resolve.IsRejected(err) {
			return err
		}
		return fmt.Errorf("process issue %s: %w", ref, err)
	}

	logger.Info("conflict resolved",
		"conflict_id", record.ConflictID,
		"conflict_name", record.ConflictName,
		"issue_url", ref.IssueURL(),
	)
	return nil
}
