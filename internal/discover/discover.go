// Package discover runs the search-results stage: one term across every site
// that defines a search template, producing candidate product links for a
// later scrape batch.
package discover

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"precoscan/internal/extract"
	"precoscan/internal/scrape"
	"precoscan/internal/sites"
	"precoscan/pkg/brl"
	"precoscan/pkg/logger"
)

// Options control one discovery run.
type Options struct {
	// Pages is how many result pages to request per site, at least 1.
	Pages int
	// PageDelay is the polite pause between search-page requests.
	PageDelay time.Duration
}

// Result is one discovered product card.
type Result struct {
	Site  string
	Termo string
	Nome  string
	Preco string
	Link  string
}

// Run searches the term on every searchable profile, pages 1..opts.Pages, and
// returns deduplicated results. A site that fails is logged and skipped; the
// other sites still contribute.
func Run(ctx context.Context, fetcher scrape.Fetcher, registry *sites.Registry, term string, opts Options) ([]Result, error) {
	profiles := registry.Searchable()
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no site profile defines a search template")
	}
	pages := opts.Pages
	if pages < 1 {
		pages = 1
	}

	var results []Result
	seen := map[string]bool{}

	first := true
	for _, p := range profiles {
		for page := 1; page <= pages; page++ {
			if !first && opts.PageDelay > 0 {
				select {
				case <-time.After(opts.PageDelay):
				case <-ctx.Done():
					return results, ctx.Err()
				}
			}
			first = false

			pageURL := p.Search.PageURL(term, page)
			html, err := fetcher.FetchPage(ctx, pageURL, "")
			if err != nil {
				logger.Log.Warn().Err(err).Str("site", p.Name).Str("url", pageURL).Msg("search page fetch failed")
				break
			}

			found, err := parseResults(html, pageURL, p, term)
			if err != nil {
				logger.Log.Warn().Err(err).Str("site", p.Name).Msg("search page parse failed")
				break
			}
			if len(found) == 0 {
				// past the last page; no point requesting further ones
				break
			}

			added := 0
			for _, r := range found {
				key := r.Nome + "|" + r.Preco + "|" + r.Link
				if seen[key] {
					continue
				}
				seen[key] = true
				results = append(results, r)
				added++
			}
			logger.Log.Info().Str("site", p.Name).Int("page", page).Int("results", added).Msg("search page processed")
		}
	}
	return results, nil
}

// parseResults extracts product cards from one results page, falling back to
// the page's ItemList structured data when the card selectors find nothing.
func parseResults(html, pageURL string, p sites.Profile, term string) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, cardSel := range p.Search.CardSelectors {
		doc.Find(cardSel).Each(func(_ int, card *goquery.Selection) {
			nome := firstText(card, p.Search.NameSelectors)
			if nome == "" {
				return
			}
			preco := brl.CurrencyString(firstText(card, p.Search.PriceSelectors))
			if preco == "" {
				// some stores render the price as loose card text
				preco = brl.CurrencyString(brl.CleanText(card.Text()))
			}
			link := firstHref(card, p.Search.LinkSelectors)
			if link == "" {
				return
			}
			results = append(results, Result{
				Site:  p.Name,
				Termo: term,
				Nome:  nome,
				Preco: preco,
				Link:  absolutize(base, link),
			})
		})
		if len(results) > 0 {
			break
		}
	}

	if len(results) == 0 {
		for _, item := range extract.ParseStructuredData(doc).Items {
			if item.URL == "" {
				continue
			}
			results = append(results, Result{
				Site:  p.Name,
				Termo: term,
				Nome:  item.Name,
				Preco: item.Price,
				Link:  absolutize(base, item.URL),
			})
		}
	}
	return results, nil
}

func firstText(card *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if txt := brl.CleanText(card.Find(sel).First().Text()); txt != "" {
			return txt
		}
	}
	return ""
}

func firstHref(card *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if href, ok := card.Find(sel).First().Attr("href"); ok && href != "" {
			return href
		}
	}
	// the card itself may be the anchor
	if href, ok := card.Attr("href"); ok {
		return href
	}
	return ""
}

func absolutize(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(u).String()
}

// WriteCSV saves discovery results in the scrape-ready layout.
func WriteCSV(path string, results []Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"site", "termo", "nome", "preco", "link"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write([]string{r.Site, r.Termo, r.Nome, r.Preco, r.Link}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
