package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tkc/slaguard/internal/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one discovery cycle and list overdue correction tasks",
	Long: `Run one discovery cycle and list overdue correction tasks.

Exits with a non-zero status when tasks are pending, so it can gate
shell scripts and hooks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		client, err := newHostClient(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if cmd.Context() != nil {
			ctx = cmd.Context()
		}

		// 1回だけの実行なのでメトリクスは記録しない
		svc := newDiscovery(client, nil)
		report := svc.Discover(ctx, readToken(ctx, client))

		out := cmd.OutOrStdout()
		printReportWarnings(out, report)

		if len(report.Result) == 0 {
			fmt.Fprintln(out, "✅ No overdue correction tasks")
			return nil
		}

		printTaskTable(out, report.Result)
		return fmt.Errorf("%d overdue correction task(s) pending", len(report.Result))
	},
}

func printTaskTable(out io.Writer, tasks domain.DiscoveryResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tDUE\tTITLE\tLINK")
	fmt.Fprintln(w, "----\t---\t-----\t----")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.TrackingCode, t.DueDisplay, truncate(t.Title, 50), t.Link)
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d pending\n", len(tasks))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
