package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tkc/slaguard/internal/config"
	"github.com/tkc/slaguard/internal/discovery"
	"github.com/tkc/slaguard/internal/host"
	"github.com/tkc/slaguard/internal/metrics"
)

func newHostClient(c *config.Config) (*host.Client, error) {
	return host.NewClient(host.Options{
		Origin:        c.Origin,
		PagePath:      c.PagePath,
		SessionCookie: c.SessionCookie,
		BearerToken:   c.BearerToken,
		Status:        c.Status,
		PageSize:      c.PageSize,
		Timeout:       c.RequestTimeout,
		Logger:        logger,
	})
}

// readToken treats every failure as a missing token: discovery then
// degrades to an empty result instead of aborting.
func readToken(ctx context.Context, client *host.Client) string {
	token, err := client.ReadToken(ctx)
	if err != nil {
		if errors.Is(err, host.ErrMissingToken) {
			logger.Warn("anti-forgery token not found on page", "origin", client.Origin())
		} else {
			logger.Warn("failed to read anti-forgery token", "error", err)
		}
		return ""
	}
	return token
}

func newDiscovery(client *host.Client, m *metrics.Metrics) *discovery.Service {
	return discovery.NewService(client, cfg.Keywords,
		discovery.WithLogger(logger),
		discovery.WithMetrics(m),
	)
}

func printReportWarnings(w io.Writer, report discovery.Report) {
	if report.Skipped {
		fmt.Fprintf(w, "⚠️  Anti-forgery token not found. Is the session cookie still valid? Run: slaguard auth status\n")
	}
	if report.Blind() {
		fmt.Fprintf(w, "⚠️  All %d keyword queries failed; overdue tasks may exist but could not be checked\n", report.Queried)
	}
}

// serveMetrics exposes m on addr until ctx ends. An empty addr disables it.
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
