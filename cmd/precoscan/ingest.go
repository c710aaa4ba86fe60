package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"precoscan/internal/config"
	"precoscan/internal/ingest"
	"precoscan/internal/ingest/db"
	"precoscan/pkg/logger"
)

func ingestCmd() *cobra.Command {
	var (
		inPath string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Carrega o resultado da coleta no catálogo relacional",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if dbPath == "" {
				dbPath = cfg.DBPath
			}

			// the input may be a glob over several batch outputs
			paths, err := filepath.Glob(inPath)
			if err != nil || len(paths) == 0 {
				paths = []string{inPath}
			}

			sqldb, err := db.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer sqldb.Close()

			var stats ingest.Stats
			for _, p := range paths {
				rows, err := ingest.LoadRows(p)
				if err != nil {
					return err
				}
				s, err := ingest.Run(cmd.Context(), sqldb, rows)
				if err != nil {
					return err
				}
				stats.Vendors += s.Vendors
				stats.Sellers += s.Sellers
				stats.Products += s.Products
				stats.Listings += s.Listings
				stats.Skipped += s.Skipped
			}

			logger.Log.Info().
				Str("db", dbPath).
				Int("vendors", stats.Vendors).
				Int("sellers", stats.Sellers).
				Int("products", stats.Products).
				Int("listings", stats.Listings).
				Int("skipped", stats.Skipped).
				Msg("catalog updated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "input", "i", "resultado.xlsx", "resultado da coleta (.xlsx ou .csv), aceita glob")
	cmd.Flags().StringVar(&dbPath, "db", "", "caminho do banco sqlite (padrão DB_PATH)")
	return cmd
}
