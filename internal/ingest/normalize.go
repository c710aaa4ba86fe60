// Package ingest loads scrape output rows into the relational catalog:
// vendors, sellers, products and their append-only price listings.
package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"

	"precoscan/pkg/brl"
)

// brands are the vendors recognized in product names, matched as whole words,
// first hit wins.
var brands = []string{
	"Apple", "Samsung", "Motorola", "Xiaomi", "Nokia", "Asus", "Google",
	"Sony", "LG", "Realme", "OnePlus", "Huawei", "Infinix", "OPPO", "Vivo",
	"Lenovo",
}

var storageRe = regexp.MustCompile(`\b(\d{2,4}\s?GB)\b`)

// colorWords maps the color tokens found in listings to a canonical name.
var colorWords = []struct{ token, canonical string }{
	{"preto", "preto"}, {"black", "preto"},
	{"azul", "azul"}, {"blue", "azul"},
	{"verde", "verde"}, {"green", "verde"},
	{"branco", "branco"}, {"white", "branco"},
	{"cinza", "cinza"}, {"gray", "cinza"}, {"graphite", "cinza"},
	{"violeta", "violeta"}, {"violet", "violeta"},
	{"rosa", "rosa"}, {"pink", "rosa"},
}

var (
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9]+`)
	modelSplitRe = regexp.MustCompile(`[-|,(]`)
	ratingScale  = regexp.MustCompile(`(?i)(/\s*5|de\s*5)`)
	ratingNumRe  = regexp.MustCompile(`\d+[.,]?\d*`)
)

// Slugify lowercases, strips everything but letters and digits to hyphens,
// and caps the result at 100 runes.
func Slugify(s string) string {
	s = strings.ToLower(brl.CleanText(s))
	s = strings.Trim(nonSlugRe.ReplaceAllString(s, "-"), "-")
	if len(s) > 100 {
		s = strings.Trim(s[:100], "-")
	}
	return s
}

// ProductCode derives the stable product identifier from the normalized name.
func ProductCode(name string) string {
	norm := strings.ToLower(brl.CleanText(name))
	sum := sha1.Sum([]byte(norm))
	return "p_" + hex.EncodeToString(sum[:])[:20]
}

// ParseRating converts a rating cell ("4,7 de 5", "4.7") to a 0..5 float.
// Texts that merely mention reviews without a scale ("123 avaliações") are
// rejected rather than misread as a score.
func ParseRating(s string) (float64, bool) {
	s = brl.CleanText(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(strings.ToLower(s), "avaliaç") && !ratingScale.MatchString(s) {
		return 0, false
	}
	m := ratingNumRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, ok := parseDecimal(m)
	if !ok || v < 0 || v > 5 {
		return 0, false
	}
	return v, true
}

func parseDecimal(s string) (float64, bool) {
	return brl.ParsePrice(strings.ReplaceAll(s, ".", ","))
}

// VendorName identifies the marketplace a row was collected from: the URL's
// host, else the spreadsheet column the link came from.
func VendorName(rawURL, fonteColuna string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."); host != "" {
			return host
		}
	}
	if fc := brl.CleanText(fonteColuna); fc != "" {
		return fc
	}
	return "desconhecido"
}

// Fields are the catalog attributes mined out of a free-text product name.
type Fields struct {
	Brand   string
	Model   string
	Storage string
	Color   string
}

// Variant renders the storage/color pair as one catalog column.
func (f Fields) Variant() string {
	return brl.CleanText(f.Storage + " " + f.Color)
}

// ExtractFields pulls brand, model, storage and color from a listing title.
// Missing attributes stay empty; the title itself remains the product name.
func ExtractFields(name string) Fields {
	var f Fields
	clean := brl.CleanText(name)
	low := strings.ToLower(clean)

	for _, b := range brands {
		if containsWord(low, strings.ToLower(b)) {
			f.Brand = b
			break
		}
	}

	if m := storageRe.FindString(clean); m != "" {
		f.Storage = strings.ToUpper(strings.ReplaceAll(m, " ", ""))
	}

	for _, c := range colorWords {
		if containsWord(low, c.token) {
			f.Color = c.canonical
			break
		}
	}

	// The model is the head of the title before any separator, minus the
	// brand word.
	head := brl.CleanText(modelSplitRe.Split(clean, 2)[0])
	if f.Brand != "" {
		head = brl.CleanText(removeWord(head, f.Brand))
	}
	f.Model = head

	return f
}

func containsWord(haystack, word string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(haystack)
}

func removeWord(s, word string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	return re.ReplaceAllString(s, "")
}
