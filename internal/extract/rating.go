package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"precoscan/internal/sites"
	"precoscan/pkg/brl"
)

var commonRatingSelectors = []string{
	`[itemprop="ratingValue"]`,
	`[class*="rating"]`,
	`[aria-label*="avalia"]`,
}

var commonCountSelectors = []string{
	`[itemprop="reviewCount"]`,
	`[itemprop="ratingCount"]`,
	`[data-testid*="review-count"]`,
	`.review-count`,
	`.reviews-count`,
}

var (
	bareDecimalRe = regexp.MustCompile(`^\d+[.,]\d+$`)
	reviewWordRe  = regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d{3})*)\s+aval(?:iaç|iac)ões`)
)

// NormalizeRating renders a rating text as the canonical "N,N de 5" string.
// Bare decimals ("4.5") are accepted because callers only pass texts from
// rating-scoped sources; arbitrary text must carry an explicit "/5" or
// "de 5" scale to normalize.
func NormalizeRating(r string) string {
	r = brl.CleanText(r)
	if r == "" {
		return ""
	}
	if bareDecimalRe.MatchString(r) {
		return strings.ReplaceAll(r, ".", ",") + " de 5"
	}
	if m := brl.RatingRe.FindStringSubmatch(r); m != nil {
		return strings.ReplaceAll(m[1], ".", ",") + " de 5"
	}
	return r
}

// ExtractRating resolves the rating string and review count. Structured data
// wins; then profile and common selectors; the whole-page scale pattern is
// the last resort for the rating, the "N avaliações" phrase for the count.
func ExtractRating(doc *goquery.Document, profile sites.Profile, sd StructuredData) (rating string, count int64, countOK bool) {
	if sd.Rating != "" {
		rating = NormalizeRating(sd.Rating)
	}
	count, countOK = sd.Count, sd.CountOK

	if rating == "" {
		selectors := append(append([]string{}, profile.RatingSelectors...), commonRatingSelectors...)
		for _, sel := range selectors {
			found := ""
			doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if txt := brl.CleanText(s.Text()); txt != "" {
					found = txt
					return false
				}
				return true
			})
			if found == "" {
				continue
			}
			if norm := NormalizeRating(found); norm != found || brl.RatingRe.MatchString(found) {
				rating = norm
				break
			}
		}
	}

	if rating == "" {
		if m := brl.RatingRe.FindStringSubmatch(doc.Text()); m != nil {
			rating = strings.ReplaceAll(m[1], ".", ",") + " de 5"
		}
	}

	if !countOK {
		selectors := append(append([]string{}, profile.CountSelectors...), commonCountSelectors...)
		for _, sel := range selectors {
			doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if c, ok := brl.ParseCount(s.Text()); ok {
					count, countOK = c, true
					return false
				}
				return true
			})
			if countOK {
				break
			}
		}
	}

	if !countOK {
		if m := reviewWordRe.FindStringSubmatch(doc.Text()); m != nil {
			if c, ok := brl.ParseCount(m[1]); ok {
				count, countOK = c, true
			}
		}
	}

	return rating, count, countOK
}
