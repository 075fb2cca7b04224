package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprep-cli/internal/observability"
	"github.com/KaramelBytes/dataprep-cli/internal/server"
)

const (
	serverIdleTimeout = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cleaning pipeline, reports and dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		pipe, _ := c.PipelineOptions()
		load, _ := c.LoaderOptions()

		logger := slog.Default()
		tracer, shutdownTracing := observability.InitTracing(c.TracingEnabled)
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("tracing shutdown failed", "error", err)
			}
		}()
		metrics, err := observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}

		cfgSrv := server.DefaultConfig()
		cfgSrv.MaxUploadBytes = c.MaxUploadBytes
		cfgSrv.Pipeline = pipe
		cfgSrv.Loader = load
		srv := &http.Server{
			Addr:         addr,
			Handler:      server.New(cfgSrv, logger, tracer, metrics).Handler(),
			ReadTimeout:  c.ReadTimeout(),
			WriteTimeout: c.WriteTimeout(),
			IdleTimeout:  serverIdleTimeout,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("dataprep server starting",
				"addr", addr,
				"strategy", string(pipe.Strategy),
				"max_upload", humanize.IBytes(uint64(c.MaxUploadBytes)))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
}
