// Package extract pulls the product facts (price, seller, rating, shipping)
// out of a rendered page. Each field tries its sources in confidence order:
// structured data, then profile-aware DOM selectors, then page-wide text
// patterns.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"precoscan/internal/rank"
	"precoscan/internal/sites"
)

// Extraction is the full set of facts read from one product page.
type Extraction struct {
	Price      string
	PriceNum   float64
	PriceNumOK bool

	Seller string

	Rating        string
	RatingCount   int64
	RatingCountOK bool

	ShippingPrice  string
	ShippingETA    string
	ShippingMethod string

	// Debug is the ranked price trail, winner first.
	Debug []string
	// Provenance names the strategy that produced the price.
	Provenance string
}

// Extract runs the whole field pipeline over a rendered page.
func Extract(rawHTML string, profile sites.Profile) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Extraction{}, err
	}

	var ex Extraction
	sd := ParseStructuredData(doc)

	cands := sd.PriceCandidates()
	cands = append(cands, CollectPriceCandidates(doc, profile)...)

	if v, n, ok, debug := rank.PickPrice(cands); ok {
		ex.Price, ex.PriceNum, ex.PriceNumOK = v, n, true
		ex.Debug = debug
		ex.Provenance = provenance(debug)
	} else if v, n, ok := rank.FallbackPrice(doc.Text()); ok {
		ex.Price, ex.PriceNum, ex.PriceNumOK = v, n, true
		ex.Debug = []string{v + " | fallback:regex-min"}
		ex.Provenance = "regex"
	}

	ex.Seller = ExtractSeller(doc, rawHTML, profile, sd)
	ex.Rating, ex.RatingCount, ex.RatingCountOK = ExtractRating(doc, profile, sd)
	ex.ShippingPrice, ex.ShippingETA, ex.ShippingMethod = ExtractShipping(doc, profile)

	return ex, nil
}

// provenance maps the winning debug entry's source back to a coarse label.
func provenance(debug []string) string {
	if len(debug) == 0 {
		return ""
	}
	switch {
	case strings.Contains(debug[0], "jsonld"):
		return "jsonld"
	default:
		return "dom"
	}
}
