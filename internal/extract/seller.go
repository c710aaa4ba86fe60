package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"precoscan/internal/sites"
	"precoscan/pkg/brl"
)

var soldByRe = regexp.MustCompile(`(?i)Vendido(?: e entregue)? por[: ]+([A-Za-z0-9\-\._\s]+)`)

// sellerJunk marks texts that are site chrome, not merchant names.
var sellerJunk = []string{
	"cadastre", "login", "entrar", "crie sua conta", "assine",
	"newsletter", "oferta exclusiva", "receba ofertas",
}

var sellerPrefixes = []string{
	"vendido e entregue por", "vendido por", "entregue por", "loja:",
}

// CleanSeller normalizes a raw merchant string: whitespace, junk filtering
// and "Vendido por"-style prefixes.
func CleanSeller(s string) string {
	s = brl.CleanText(s)
	if s == "" {
		return ""
	}
	low := strings.ToLower(s)
	for _, junk := range sellerJunk {
		if strings.Contains(low, junk) {
			return ""
		}
	}
	for _, prefix := range sellerPrefixes {
		if strings.HasPrefix(low, prefix) {
			s = strings.Trim(s[len(prefix):], " :.-")
			break
		}
	}
	return s
}

// ExtractSeller resolves the merchant name, trying sources in confidence
// order: structured data, profile selectors, the "Vendido por" phrase in raw
// HTML, then the profile's first-party fallback.
func ExtractSeller(doc *goquery.Document, rawHTML string, profile sites.Profile, sd StructuredData) string {
	for _, s := range sd.Sellers {
		if cleaned := CleanSeller(s); cleaned != "" {
			return cleaned
		}
	}

	for _, sel := range profile.SellerSelectors {
		found := ""
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if txt := brl.CleanText(s.Text()); txt != "" {
				found = txt
				return false
			}
			return true
		})
		if cleaned := CleanSeller(found); cleaned != "" {
			return cleaned
		}
	}

	if m := soldByRe.FindStringSubmatch(rawHTML); m != nil {
		if cleaned := CleanSeller(m[1]); cleaned != "" {
			return cleaned
		}
	}

	if profile.FallbackSeller != "" {
		marker := strings.ToLower(profile.FallbackMarker)
		if marker == "" || strings.Contains(strings.ToLower(rawHTML), marker) {
			return profile.FallbackSeller
		}
	}

	return ""
}
