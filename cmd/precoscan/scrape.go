package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"precoscan/internal/config"
	"precoscan/internal/input"
	"precoscan/internal/output"
	"precoscan/internal/scrape"
	"precoscan/pkg/logger"
)

func scrapeCmd() *cobra.Command {
	var (
		inPath     string
		outPath    string
		outCSVPath string
		cep        string
		headless   bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Coleta preço, fornecedor, avaliação e frete de cada link da planilha",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			cfg.Headless = headless
			if cep == "" {
				cep = cfg.DefaultCEP
			}

			entries, err := input.Read(inPath)
			if err != nil {
				return err
			}
			tasks := make([]scrape.Task, len(entries))
			for i, e := range entries {
				tasks[i] = scrape.Task{Produto: e.Produto, URL: e.URL, FonteColuna: e.FonteColuna}
			}
			logger.Log.Info().Int("tasks", len(tasks)).Str("input", inPath).Msg("batch loaded")

			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}
			fetcher, err := newFetcher(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer fetcher.Close()

			worker := scrape.NewWorker(fetcher, registry, scrape.Options{
				CEP:        cep,
				PaceBase:   cfg.PaceBase,
				PaceJitter: cfg.PaceJitter,
				Retries:    cfg.FetchRetries,
			})

			records, err := worker.Run(cmd.Context(), tasks)
			if err != nil {
				return err
			}
			if err := output.WriteRecords(outPath, records); err != nil {
				return err
			}
			if outCSVPath != "" {
				if err := output.WriteRecords(outCSVPath, records); err != nil {
					return err
				}
			}

			okCount := 0
			for _, r := range records {
				if r.Status == "ok" {
					okCount++
				}
			}
			logger.Log.Info().Int("ok", okCount).Int("total", len(records)).Str("output", outPath).Msg("batch finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "input", "i", "produtos.xlsx", "planilha de entrada (.xlsx ou .csv)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "resultado.xlsx", "arquivo de saída (.xlsx ou .csv)")
	cmd.Flags().StringVar(&outCSVPath, "output-csv", "", "cópia adicional em .csv")
	cmd.Flags().StringVar(&cep, "cep", "", fmt.Sprintf("CEP para consulta de frete (padrão %s)", config.Load().DefaultCEP))
	cmd.Flags().BoolVar(&headless, "headless", config.Load().Headless, "executa o navegador sem janela")
	return cmd
}
