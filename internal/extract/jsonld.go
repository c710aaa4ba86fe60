package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"precoscan/internal/rank"
	"precoscan/pkg/brl"
)

// flexString decodes a JSON value that sites emit either as a string or as a
// number ("price": "1299.90" vs "price": 1299.9).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	// unexpected shape (object, array, bool): treat as absent
	*f = ""
	return nil
}

func (f flexString) String() string { return string(f) }

type ldSeller struct {
	Name flexString `json:"name"`
}

type ldOffer struct {
	Price     flexString `json:"price"`
	LowPrice  flexString `json:"lowPrice"`
	HighPrice flexString `json:"highPrice"`
	Seller    *ldSeller  `json:"seller"`
}

type ldAggregateRating struct {
	RatingValue flexString `json:"ratingValue"`
	ReviewCount flexString `json:"reviewCount"`
	RatingCount flexString `json:"ratingCount"`
}

type ldListItem struct {
	Item *ldNode `json:"item"`
}

// ldNode is one top-level (or nested) structured-data object.
type ldNode struct {
	Type            flexString         `json:"@type"`
	Name            flexString         `json:"name"`
	URL             flexString         `json:"url"`
	Offers          json.RawMessage    `json:"offers"`
	AggregateRating *ldAggregateRating `json:"aggregateRating"`
	ItemListElement []ldListItem       `json:"itemListElement"`
}

// NodeKind tags the shapes the matcher understands. Anything else is
// KindUnknown and contributes nothing, explicitly.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindOffer
	KindRating
	KindOfferAndRating
	KindItemList
)

func (n *ldNode) kind() NodeKind {
	hasOffer := len(n.Offers) > 0
	hasRating := n.AggregateRating != nil
	switch {
	case n.Type.String() == "ItemList" && len(n.ItemListElement) > 0:
		return KindItemList
	case hasOffer && hasRating:
		return KindOfferAndRating
	case hasOffer:
		return KindOffer
	case hasRating:
		return KindRating
	default:
		return KindUnknown
	}
}

// offers flattens the offers relation, which may be a single object or a
// list. Malformed payloads yield nil.
func (n *ldNode) offers() []ldOffer {
	if len(n.Offers) == 0 {
		return nil
	}
	var one ldOffer
	if err := json.Unmarshal(n.Offers, &one); err == nil {
		return []ldOffer{one}
	}
	var many []ldOffer
	if err := json.Unmarshal(n.Offers, &many); err == nil {
		return many
	}
	return nil
}

// ListItem is a product entry from an ItemList block, used by the discovery
// stage.
type ListItem struct {
	Name  string
	Price string
	URL   string
}

// StructuredData is everything the page's JSON-LD blocks said about the
// primary entity.
type StructuredData struct {
	// PriceTexts are the raw price/lowPrice/highPrice values across all
	// offers, normalized to BR currency strings.
	PriceTexts []string
	// Sellers holds offer seller names in document order.
	Sellers []string
	// Rating is the first non-empty ratingValue found (first-found policy).
	Rating string
	// Count is the first parseable review/rating count.
	Count   int64
	CountOK bool
	// Items are ItemList product entries (search-results pages).
	Items []ListItem
}

// ParseStructuredData scans every ld+json script block. Blocks that fail to
// parse are skipped silently; that is a recoverable condition, not an error.
func ParseStructuredData(doc *goquery.Document) StructuredData {
	var sd StructuredData

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		for _, node := range decodeNodes(raw) {
			sd.absorb(node)
		}
	})

	return sd
}

// decodeNodes parses a script body into nodes, flattening a top-level array.
func decodeNodes(raw string) []*ldNode {
	var one ldNode
	if err := json.Unmarshal([]byte(raw), &one); err == nil {
		return []*ldNode{&one}
	}
	var many []*ldNode
	if err := json.Unmarshal([]byte(raw), &many); err == nil {
		return many
	}
	return nil
}

func (sd *StructuredData) absorb(n *ldNode) {
	if n == nil {
		return
	}
	switch n.kind() {
	case KindItemList:
		for _, li := range n.ItemListElement {
			sd.absorbListItem(li.Item)
		}
	case KindOffer, KindRating, KindOfferAndRating:
		sd.absorbOffers(n)
		sd.absorbRating(n)
	case KindUnknown:
		// explicit no-op: unexpected shapes contribute nothing
	}
}

func (sd *StructuredData) absorbOffers(n *ldNode) {
	for _, o := range n.offers() {
		for _, v := range []flexString{o.Price, o.LowPrice, o.HighPrice} {
			if cs := brl.CurrencyFromAny(v.String()); cs != "" {
				sd.PriceTexts = append(sd.PriceTexts, cs)
			}
		}
		if o.Seller != nil && o.Seller.Name.String() != "" {
			sd.Sellers = append(sd.Sellers, o.Seller.Name.String())
		}
	}
}

func (sd *StructuredData) absorbRating(n *ldNode) {
	ar := n.AggregateRating
	if ar == nil {
		return
	}
	if sd.Rating == "" && ar.RatingValue.String() != "" {
		sd.Rating = ar.RatingValue.String()
	}
	if !sd.CountOK {
		for _, v := range []flexString{ar.ReviewCount, ar.RatingCount} {
			if v.String() == "" {
				continue
			}
			if c, ok := brl.ParseCount(v.String()); ok {
				sd.Count, sd.CountOK = c, true
				break
			}
		}
	}
}

func (sd *StructuredData) absorbListItem(item *ldNode) {
	if item == nil || item.Name.String() == "" {
		return
	}
	price := ""
	for _, o := range item.offers() {
		for _, v := range []flexString{o.Price, o.LowPrice, o.HighPrice} {
			if cs := brl.CurrencyFromAny(v.String()); cs != "" {
				price = cs
				break
			}
		}
		if price != "" {
			break
		}
	}
	if price == "" {
		return
	}
	sd.Items = append(sd.Items, ListItem{
		Name:  brl.CleanText(item.Name.String()),
		Price: price,
		URL:   item.URL.String(),
	})
}

// PriceCandidates exposes structured-data prices as ranked candidates. They
// carry the highest intrinsic priority so a same-valued DOM candidate can
// never outrank them.
func (sd StructuredData) PriceCandidates() []rank.Candidate {
	var out []rank.Candidate
	for _, p := range sd.PriceTexts {
		out = append(out, rank.Candidate{
			Text:     p,
			Source:   "jsonld",
			Priority: rank.PriorityJSONLD,
		})
	}
	return out
}
