package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"precoscan/internal/rank"
	"precoscan/internal/sites"
	"precoscan/pkg/brl"
)

// commonPriceSelectors are tried on every site, after the profile-specific
// ones.
var commonPriceSelectors = []string{
	`[itemprop="price"]`,
	`[data-testid*="price"]`,
	`[class*="price"]`,
	`[aria-label*="preço"]`,
	`[aria-label*="preco"]`,
}

// oldPriceClasses mark struck-through pre-discount prices. Elements carrying
// any of these in their class attribute are never candidates.
var oldPriceClasses = []string{
	"old", "from", "risk", "strike", "line-through", "cross",
	"de-preco", "preco-de", "price-from",
}

// contextWordsRe matches the phrases that precede the actually-payable price
// in Brazilian retail copy.
var contextWordsRe = regexp.MustCompile(`(?i)(por|à vista|a vista|pix)`)

// CollectPriceCandidates scans the document for raw price candidates using
// the profile's selectors unioned with the common set, plus contextual free
// text nodes. No ranking happens here; candidates carry provenance and an
// intrinsic priority only.
func CollectPriceCandidates(doc *goquery.Document, profile sites.Profile) []rank.Candidate {
	var cands []rank.Candidate

	collect := func(selectors []string, priority int) {
		for _, sel := range selectors {
			doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
				txt := brl.CleanText(s.Text())
				if txt == "" {
					return
				}
				if hasStalePriceClass(s) {
					return
				}
				if !brl.CurrencyRe.MatchString(txt) && !brl.NumberRe.MatchString(txt) {
					return
				}
				cands = append(cands, rank.Candidate{
					Text:     txt,
					Source:   "selector:" + sel,
					Priority: priority,
				})
			})
		}
	}

	collect(profile.PriceSelectors, rank.PrioritySelector)
	collect(commonPriceSelectors, rank.PriorityCommon)

	// Free text nodes around "por"/"à vista"/"pix" are a fallback signal
	// source; the surrounding block usually contains the payable price.
	for _, node := range doc.Nodes {
		walkTextNodes(node, func(tn *html.Node) {
			if !contextWordsRe.MatchString(tn.Data) || tn.Parent == nil {
				return
			}
			block := brl.CleanText(nodeText(tn.Parent))
			if block == "" {
				return
			}
			if brl.CurrencyRe.MatchString(block) || brl.NumberRe.MatchString(block) {
				cands = append(cands, rank.Candidate{
					Text:     block,
					Source:   "context:por/avista",
					Priority: rank.PriorityContext,
				})
			}
		})
	}

	return cands
}

func hasStalePriceClass(s *goquery.Selection) bool {
	cls, _ := s.Attr("class")
	cls = strings.ToLower(cls)
	for _, k := range oldPriceClasses {
		if strings.Contains(cls, k) {
			return true
		}
	}
	return false
}

func walkTextNodes(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		fn(n)
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkTextNodes(c, fn)
	}
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walkTextNodes(n, func(tn *html.Node) {
		b.WriteString(tn.Data)
		b.WriteString(" ")
	})
	return b.String()
}
