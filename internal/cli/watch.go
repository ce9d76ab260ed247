package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tkc/slaguard/internal/discovery"
	"github.com/tkc/slaguard/internal/domain"
	"github.com/tkc/slaguard/internal/metrics"
	"github.com/tkc/slaguard/internal/modal"
	"github.com/tkc/slaguard/internal/notify"
	"github.com/tkc/slaguard/internal/route"
	"github.com/tkc/slaguard/internal/tui"
)

var (
	watchInterval time.Duration
	watchPage     string
	watchHeadless bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Block until overdue correction tasks are cleared",
	Long: `Check the host for overdue correction tasks and, if any exist, show a
blocking screen that refreshes every interval and cannot be closed while
tasks remain pending.

Keys: r refresh, enter/esc/q close (refused while tasks are pending).

Examples:
  slaguard watch                 # Full-screen blocking modal
  slaguard watch --headless      # Log lines only; exits when cleared
  slaguard watch -i 1m           # Refresh every minute`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cmd.Flags().Changed("interval") {
			cfg.RefreshInterval = watchInterval
		}
		if watchPage != "" {
			cfg.PagePath = watchPage
		}

		out := cmd.OutOrStdout()

		if !route.ShouldActivate(cfg.PagePath) {
			fmt.Fprintf(out, "Page %s is not a service-request page; nothing to guard\n", cfg.PagePath)
			return nil
		}

		// シグナルハンドリング
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		m := metrics.New()
		serveMetrics(ctx, cfg.MetricsAddr, m)

		client, err := newHostClient(cfg)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "👀 Checking %s for overdue correction tasks...\n", client.Origin())

		token := readToken(ctx, client)
		svc := newDiscovery(client, m)
		report := svc.Discover(ctx, token)
		printReportWarnings(out, report)

		if len(report.Result) == 0 {
			fmt.Fprintln(out, "✅ No overdue correction tasks")
			return nil
		}

		fmt.Fprintf(out, "⛔ Found %d overdue correction task(s)\n", len(report.Result))
		_ = notify.SendPending(len(report.Result))

		bound := svc.Bind(discovery.StaticToken(token))
		opt := modal.Options{
			Interval: cfg.RefreshInterval,
			Logger:   logger,
			Metrics:  m,
		}

		if watchHeadless {
			return watchHeadlessMode(ctx, out, report.Result, bound, opt)
		}
		return watchInteractive(ctx, out, report.Result, bound, opt)
	},
}

func watchInteractive(ctx context.Context, out io.Writer, initial domain.DiscoveryResult, d modal.Discoverer, opt modal.Options) error {
	bridge := &tui.Bridge{}
	opt.Notifier = modal.NotifierFunc(func(w modal.Warning) {
		bridge.Warn(w)
		_ = notify.SendCloseRejected(w.Title, w.Message)
	})

	ctrl := modal.New(initial, d, bridge, opt)
	closed, err := tui.Run(ctx, ctrl, bridge, ctrl.State())
	if err != nil {
		return fmt.Errorf("failed to run modal: %w", err)
	}

	if closed {
		fmt.Fprintln(out, "✅ All correction tasks cleared")
	} else {
		fmt.Fprintln(out, "\n👋 Stopping watch...")
	}
	return nil
}

func watchHeadlessMode(ctx context.Context, out io.Writer, initial domain.DiscoveryResult, d modal.Discoverer, opt modal.Options) error {
	h := tui.NewHeadless(out)
	opt.Notifier = h

	ctrl := modal.New(initial, d, h, opt)
	h.OnClear(func() { ctrl.RequestClose() })

	fmt.Fprintf(out, "   Interval: %s\n", opt.Interval)
	fmt.Fprintln(out, "   Press Ctrl+C to stop")
	fmt.Fprintln(out)

	ctrl.Start(ctx)

	select {
	case <-ctrl.Done():
		fmt.Fprintln(out, "✅ All correction tasks cleared")
	case <-ctx.Done():
		fmt.Fprintln(out, "\n👋 Stopping watch...")
	}
	return nil
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", modal.DefaultInterval, "Refresh interval")
	watchCmd.Flags().StringVar(&watchPage, "page", "", "Host page holding the anti-forgery token (overrides config)")
	watchCmd.Flags().BoolVar(&watchHeadless, "headless", false, "Print status lines instead of the full-screen modal")
}
