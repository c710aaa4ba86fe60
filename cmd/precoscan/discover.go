package main

import (
	"github.com/spf13/cobra"

	"precoscan/internal/config"
	"precoscan/internal/discover"
	"precoscan/pkg/logger"
)

func discoverCmd() *cobra.Command {
	var (
		outPath  string
		pages    int
		headless bool
	)

	cmd := &cobra.Command{
		Use:   "discover <termo>",
		Short: "Busca um termo nas lojas conhecidas e lista os produtos encontrados",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := args[0]
			cfg := config.Load()
			cfg.Headless = headless

			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}
			fetcher, err := newFetcher(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer fetcher.Close()

			results, err := discover.Run(cmd.Context(), fetcher, registry, term, discover.Options{
				Pages:     pages,
				PageDelay: cfg.SearchPace,
			})
			if err != nil {
				return err
			}
			if err := discover.WriteCSV(outPath, results); err != nil {
				return err
			}

			logger.Log.Info().Str("termo", term).Int("results", len(results)).Str("output", outPath).Msg("discovery finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "descobertas.csv", "arquivo de saída (.csv)")
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "páginas de resultados por loja")
	cmd.Flags().BoolVar(&headless, "headless", config.Load().Headless, "executa o navegador sem janela")
	return cmd
}
