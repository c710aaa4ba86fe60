package main

import "testing"

func TestScrapeFlagSurface(t *testing.T) {
	cmd := scrapeCmd()
	for _, name := range []string{"input", "output", "output-csv", "cep", "headless"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("scrape is missing the --%s flag", name)
		}
	}
}

func TestDiscoverFlagSurface(t *testing.T) {
	cmd := discoverCmd()
	for _, name := range []string{"output", "pages", "headless"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("discover is missing the --%s flag", name)
		}
	}
}

func TestHeadlessFlagDefaultsFromEnv(t *testing.T) {
	t.Setenv("HEADLESS", "false")

	if got := scrapeCmd().Flags().Lookup("headless").DefValue; got != "false" {
		t.Errorf("scrape --headless default = %q, want HEADLESS env honored", got)
	}
	if got := discoverCmd().Flags().Lookup("headless").DefValue; got != "false" {
		t.Errorf("discover --headless default = %q, want HEADLESS env honored", got)
	}
}
