package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSyncMetaCommand(a *app) *cobra.Command {
	var (
		formats []string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "sync-meta",
		Short: "Download the current meta decks of each format",
		Example: "  forgebreaker sync-meta\n" +
			"  forgebreaker sync-meta --format standard --limit 10",
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

			if len(formats) == 0 {
				formats = a.cfg.Meta.Formats
			}
			results, err := rt.svc.SyncMeta(cmd.Context(), formats, limit)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			if err := printJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if failed == len(results) && failed > 0 {
				return fmt.Errorf("all %d formats failed to sync", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "formats to sync (default: meta.formats)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "decks per format (default: meta.limit)")
	return cmd
}
