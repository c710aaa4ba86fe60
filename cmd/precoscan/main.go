package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"precoscan/internal/browser"
	"precoscan/internal/config"
	"precoscan/internal/scrape"
	"precoscan/internal/sites"
	"precoscan/pkg/logger"
)

var flagDev bool

func main() {
	root := &cobra.Command{
		Use:   "precoscan",
		Short: "Coleta e catálogo de preços de produtos em lojas brasileiras",
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.Init(flagDev || logger.IsDev())
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&flagDev, "dev", false, "human-readable logs (ou ENV=dev)")

	root.AddCommand(scrapeCmd(), ingestCmd(), discoverCmd())

	if err := root.ExecuteContext(signalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext cancels on Ctrl-C so a batch can stop between URLs instead of
// mid-fetch.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		logger.Log.Warn().Msg("interrupted, finishing current item")
		cancel()
	}()
	return ctx
}

// newFetcher builds the configured page fetcher: a Chrome session by
// default, plain HTTP when USE_BROWSER=false.
func newFetcher(ctx context.Context, cfg *config.Config) (scrape.Fetcher, error) {
	if !cfg.UseBrowser {
		return browser.HTTPFetcher{}, nil
	}
	return browser.NewSession(ctx, browser.Options{
		Headless:      cfg.Headless,
		PageLoadDelay: cfg.PageLoadDelay,
		FetchTimeout:  cfg.FetchTimeout,
	})
}

func loadRegistry(cfg *config.Config) (*sites.Registry, error) {
	registry, err := sites.Load(cfg.SitesFile)
	if err != nil {
		return nil, fmt.Errorf("load site profiles: %w", err)
	}
	return registry, nil
}
