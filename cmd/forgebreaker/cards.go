package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/cards/scryfall"
)

func newCardsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage the local card database",
	}
	cmd.AddCommand(newCardsDownloadCommand(a), newCardsInfoCommand(a))
	return cmd
}

func newCardsDownloadCommand(a *app) *cobra.Command {
	var bulkType string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download Scryfall bulk card data to cards.bulk_data_path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bulkType == "" {
				bulkType = a.cfg.Cards.BulkType
			}
			if bulkType == "" {
				bulkType = scryfall.DefaultCardsType
			}

			client := scryfall.NewClient(scryfall.Config{BaseURL: a.cfg.Cards.ScryfallURL})
			a.logger.Info("Downloading bulk card data",
				zap.String("type", bulkType),
				zap.String("path", a.cfg.Cards.BulkDataPath))

			result, err := client.Download(cmd.Context(), bulkType, a.cfg.Cards.BulkDataPath)
			if err != nil {
				return fmt.Errorf("failed to download card data: %w", err)
			}

			snap, err := carddb.LoadFile(result.Path)
			if err != nil {
				return fmt.Errorf("downloaded file is not usable: %w", err)
			}

			a.logger.Info("Card data downloaded",
				zap.String("path", result.Path),
				zap.Int64("bytes", result.Bytes),
				zap.Int("cards", snap.Len()),
				zap.Time("updated_at", result.UpdatedAt),
				zap.Duration("duration", result.Duration))
			return nil
		},
	}

	cmd.Flags().StringVarP(&bulkType, "type", "t", "", "Scryfall bulk type (default: cards.bulk_type)")
	return cmd
}

func newCardsInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show what the local card database holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := carddb.LoadFile(a.cfg.Cards.BulkDataPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"path":   a.cfg.Cards.BulkDataPath,
				"source": snap.Source(),
				"cards":  snap.Len(),
			})
		},
	}
}
