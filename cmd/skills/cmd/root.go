package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/logging"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// logLevelEnvVar sets the log level (debug, info, warn, error). --verbose
// takes precedence.
const logLevelEnvVar = "SKILLS_LOG_LEVEL"

var rootCmd = &cobra.Command{
	Use:   "skills",
	Short: "Keep AI assistant skills in sync across tools",
	Long: `skills keeps one canonical set of skill definitions in source directories
and synchronizes them into the skill directories of Claude Code, Codex and
Gemini CLI.

Each skill is rendered per tool before it is compared or written, so a
single SKILL.md can carry tool-specific sections. Use 'skills list' to see
where every skill stands, then push, pull or sync to reconcile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := logging.LevelFromString(os.Getenv(logLevelEnvVar))
		if verbose {
			level = slog.LevelDebug
		}
		logger := logging.New(os.Stderr, level)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skills %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $SKILLS_CONFIG or ~/.skills/config.json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr (see also $SKILLS_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Never prompt; apply the default answer to every question")
	rootCmd.PersistentFlags().Bool("batch", false, "Alias for --yes")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. An interrupt cancels the running command;
// writes already applied are kept.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
