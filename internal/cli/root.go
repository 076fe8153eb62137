// Package cli defines the command-line interface of extract-decision.
package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inab/conflict-decisions/internal/config"
	"github.com/inab/conflict-decisions/internal/logging"
)

// Options stores global CLI options shared between commands. Zero values
// leave the loaded settings untouched.
type Options struct {
	ConfigPath string
	EnvFiles   []string
	LogLevel   string
	LogPath    string
	Namespace  string
	APIURL     string
	Timeout    time.Duration

	settings config.Settings
}

// Execute runs the CLI with a background context.
func Execute(args []string, logger *slog.Logger) error {
	return ExecuteContext(context.Background(), args, logger)
}

// ExecuteContext builds the root command, runs it with the provided args and
// returns any error. Usage errors are printed with the command usage.
func ExecuteContext(ctx context.Context, args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootCmd := newRootCommand(&Options{}, logger)
	rootCmd.SetArgs(args)
	rootCmd.SetContext(ctx)

	return run(rootCmd)
}

func run(rootCmd *cobra.Command) error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil && IsUsageError(err) {
		cmd.PrintErrln("Error:", err.Error())
		cmd.PrintErr(cmd.UsageString())
	}
	return err
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-decision <owner/repo> <issue-number>",
		Short: "Record the reviewer decision of a metadata conflict issue",
		Long: "extract-decision reads a conflict review issue, takes the newest ```json decision block " +
			"from its comments and appends it to the conflicts log. When the issue or the decision is " +
			"malformed it explains the problem in a comment and reopens the issue.\n\n" +
			"The GitHub token is read from GITHUB_TOKEN.",
		Args:          issueArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(opts)
			if err != nil {
				return usageErrorf("%v", err)
			}
			opts.settings = settings

			level := logging.ParseLevel(settings.LogLevel)
			logger = logging.NewLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0], args[1])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{err: err}
	})

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML settings file")
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "Load variables from .env files (default .env when present)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.LogPath, "log-path", "", "Decision log file (default "+config.Defaults().LogPath+")")

	cmd.Flags().StringVar(&opts.Namespace, "issue-namespace", "", "owner/name used in issue links stored in records (default "+config.Defaults().IssueNamespace+")")
	cmd.Flags().StringVar(&opts.APIURL, "api-url", "", "GitHub REST API root (default "+config.Defaults().APIURL+")")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Timeout of each GitHub request (default "+config.Defaults().Timeout.String()+")")

	cmd.AddCommand(newRecordsCommand(opts))

	return cmd
}

// loadSettings reads the configured sources and applies flag overrides.
func loadSettings(opts *Options) (config.Settings, error) {
	settings, err := config.Load(config.LoadOptions{
		ConfigPath: opts.ConfigPath,
		EnvFiles:   opts.EnvFiles,
	})
	if err != nil {
		return config.Settings{}, err
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}
	if opts.LogPath != "" {
		settings.LogPath = opts.LogPath
	}
	if opts.Namespace != "" {
		settings.IssueNamespace = opts.Namespace
	}
	if opts.APIURL != "" {
		settings.APIURL = opts.APIURL
	}
	if opts.Timeout != 0 {
		settings.Timeout = opts.Timeout
	}
	return settings, settings.Validate()
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
