package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/api"
	"github.com/ramonehamilton/forgebreaker/internal/assistant"
	"github.com/ramonehamilton/forgebreaker/internal/config"
	"github.com/ramonehamilton/forgebreaker/internal/version"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Long:  "Run the REST API server. When mcp.http_enabled is set, the assistant tools are served on mcp.path as well.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "API server port (overrides server.port)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	a.logger.Info("Starting forgebreaker",
		zap.String("version", version.GetVersion()),
		zap.String("config", config.Path(a.opts.ConfigPath)),
		zap.String("database", a.cfg.Database.Path),
		zap.String("cards", a.cfg.Cards.BulkDataPath),
		zap.Int("port", a.cfg.Server.Port),
		zap.Bool("mcp_http", a.cfg.MCP.HTTPEnabled))

	rt, err := a.build()
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			a.logger.Error("Error closing storage", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Cards.Watch && a.cfg.Cards.BulkDataPath != "" {
		go func() {
			if err := rt.provider.Watch(ctx); err != nil {
				a.logger.Warn("Card database watcher stopped", zap.Error(err))
			}
		}()
	}

	var opts []api.Option
	if a.cfg.MCP.HTTPEnabled {
		tools := assistant.NewServer(rt.svc, a.logger)
		opts = append(opts, api.WithMount(a.cfg.MCP.Path, tools.HTTPHandler()))
		a.logger.Info("MCP tools enabled over HTTP", zap.String("path", a.cfg.MCP.Path))
	}

	server := api.NewServer(&api.Config{
		Port:           a.cfg.Server.Port,
		ReadTimeout:    a.cfg.ReadTimeout(),
		WriteTimeout:   a.cfg.WriteTimeout(),
		RequestTimeout: a.cfg.RequestTimeout(),
		CORSOrigins:    a.cfg.Server.CORSOrigins,
	}, rt.svc, a.logger, opts...)

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	a.logger.Info("Server running, press Ctrl+C to stop", zap.Int("port", server.Port()))

	<-ctx.Done()
	a.logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	return nil
}
