package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tkc/slaguard/internal/config"
)

var (
	cfg     *config.Config
	cfgPath string
	verbose bool
	logger  *slog.Logger
)

// rootCmd はルートコマンド
var rootCmd = &cobra.Command{
	Use:   "slaguard",
	Short: "Block new BPMS requests until overdue correction tasks are cleared",
	Long: `slaguard watches a BPMS host for overdue correction tasks assigned to you.

It reuses your browser session, searches the host's assignment API for late
tasks matching correction keywords, and shows a blocking screen that cannot be
closed while any of those tasks remain pending.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)

		var err error
		cfg, err = config.LoadWithPrecedence(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute はCLIを実行する
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.slaguard/config.yaml)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}
