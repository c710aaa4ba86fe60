package extract

import (
	"regexp"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"precoscan/internal/sites"
	"precoscan/pkg/brl"
)

var commonShippingSelectors = []string{
	`[data-testid*="shipping"]`,
	`.shipping-option`,
	`.frete-opcao`,
	`.modal [class*="frete"] li`,
	`.delivery-options li`,
	`.freight-options li`,
	`.frete li`,
}

var (
	shippingWordRe = regexp.MustCompile(`(?i)(frete|entrega|correios|transportadora)`)
	freeShippingRe = regexp.MustCompile(`(?i)grátis|gratis`)
	shippingEtaRe  = regexp.MustCompile(`(?i)(em até\s+\d+\s+dias? úteis?|chega\s+\S+|\d+\s+dias? úteis?)`)
	shippingWayRe  = regexp.MustCompile(`(?i)(express[oa]|econômic[ao]|econômico|correios|sedex|pac|retirada|loja|transportadora)`)
)

const maxShippingLines = 20

type shippingOption struct {
	Price  string
	Num    float64
	Method string
	ETA    string
}

// ExtractShipping parses the delivery options visible after a postal-code
// query: the cheapest option wins. Returns empty strings when the page shows
// no freight information at all.
func ExtractShipping(doc *goquery.Document, profile sites.Profile) (price, eta, method string) {
	lines := shippingLines(doc, profile)

	var options []shippingOption
	for i, txt := range lines {
		if i >= maxShippingLines {
			break
		}
		if txt == "" {
			continue
		}
		priceStr, num, ok := shippingPrice(txt)
		if !ok {
			continue
		}
		opt := shippingOption{Price: priceStr, Num: num}
		if m := shippingEtaRe.FindString(txt); m != "" {
			opt.ETA = brl.CleanText(m)
		}
		if m := shippingWayRe.FindString(txt); m != "" {
			opt.Method = brl.CleanText(m)
		}
		options = append(options, opt)
	}

	if len(options) == 0 {
		options = shippingPageFallback(doc)
	}
	if len(options) == 0 {
		return "", "", ""
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Num != options[j].Num {
			return options[i].Num < options[j].Num
		}
		if options[i].Method != options[j].Method {
			return options[i].Method < options[j].Method
		}
		return options[i].ETA < options[j].ETA
	})

	best := options[0]
	return best.Price, best.ETA, best.Method
}

// shippingLines gathers candidate option texts: selector hits first, then
// blocks around freight-related words when no selector matched.
func shippingLines(doc *goquery.Document, profile sites.Profile) []string {
	var lines []string
	selectors := append(append([]string{}, profile.ShippingSelectors...), commonShippingSelectors...)
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			lines = append(lines, brl.CleanText(s.Text()))
		})
	}
	if len(lines) > 0 {
		return lines
	}

	seen := map[*html.Node]bool{}
	for _, node := range doc.Nodes {
		walkTextNodes(node, func(tn *html.Node) {
			if !shippingWordRe.MatchString(tn.Data) {
				return
			}
			block := closestBlock(tn)
			if block == nil || seen[block] {
				return
			}
			seen[block] = true
			lines = append(lines, brl.CleanText(nodeText(block)))
		})
	}
	return lines
}

// closestBlock walks up to the nearest li/div/tr ancestor.
func closestBlock(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			switch p.Data {
			case "li", "div", "tr":
				return p
			}
		}
	}
	return nil
}

func shippingPrice(txt string) (string, float64, bool) {
	if m := brl.CurrencyRe.FindString(txt); m != "" {
		if n, ok := brl.ParseNumber(m); ok {
			return m, n, true
		}
	}
	if freeShippingRe.MatchString(txt) {
		return "R$ 0,00", 0, true
	}
	return "", 0, false
}

// shippingPageFallback scans the whole page for the minimum currency value,
// but only when the page mentions freight at all.
func shippingPageFallback(doc *goquery.Document) []shippingOption {
	all := doc.Text()
	if !shippingWordRe.MatchString(all) {
		return nil
	}
	var best *shippingOption
	for _, m := range brl.CurrencyRe.FindAllString(all, -1) {
		n, ok := brl.ParseNumber(m)
		if !ok {
			continue
		}
		if best == nil || n < best.Num {
			best = &shippingOption{Price: m, Num: n}
		}
	}
	if best == nil {
		return nil
	}
	return []shippingOption{*best}
}
