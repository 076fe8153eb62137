package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inab/conflict-decisions/internal/decisionlog"
)

// newRecordsCommand creates "records", which prints logged decisions as JSON lines.
func newRecordsCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records [conflict-id]",
		Short: "Print recorded decisions, optionally only those of one conflict",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("expected at most one conflict id, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			log, err := decisionlog.New(opts.settings.LogPath)
			if err != nil {
				return &UsageError{err: err}
			}
			records, err := log.Records()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			printed := 0
			for _, record := range records {
				if len(args) == 1 && record.ConflictID != args[0] {
					continue
				}
				if err := enc.Encode(record); err != nil {
					return fmt.Errorf("write record: %w", err)
				}
				printed++
			}
			logger.Debug("listed decision records", "log", log.Path(), "total", len(records), "printed", printed)
			return nil
		},
	}
	return cmd
}
