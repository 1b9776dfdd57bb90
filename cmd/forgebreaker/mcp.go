package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/assistant"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assistant tools over MCP on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.build()
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					a.logger.Error("Error closing storage", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("Serving MCP tools on stdio")
			err = assistant.NewServer(rt.svc, a.logger).RunStdio(ctx)
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

