package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

func TestParseStructuredDataProduct(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
	  "@type": "Product",
	  "name": "Smartphone X",
	  "offers": {"price": "1299.90", "seller": {"name": "Loja Oficial"}},
	  "aggregateRating": {"ratingValue": 4.7, "reviewCount": "1532"}
	}
	</script></head><body></body></html>`

	sd := ParseStructuredData(mustDoc(t, html))

	if len(sd.PriceTexts) != 1 || sd.PriceTexts[0] != "R$ 1.299,90" {
		t.Errorf("PriceTexts = %v, want [R$ 1.299,90]", sd.PriceTexts)
	}
	if len(sd.Sellers) != 1 || sd.Sellers[0] != "Loja Oficial" {
		t.Errorf("Sellers = %v, want [Loja Oficial]", sd.Sellers)
	}
	if sd.Rating != "4.7" {
		t.Errorf("Rating = %q, want 4.7", sd.Rating)
	}
	if !sd.CountOK || sd.Count != 1532 {
		t.Errorf("Count = (%d, %v), want (1532, true)", sd.Count, sd.CountOK)
	}
}

func TestParseStructuredDataOfferList(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": "Product", "offers": [{"lowPrice": 899.5}, {"price": "1.099,00"}]}
	</script>`

	sd := ParseStructuredData(mustDoc(t, html))

	want := []string{"R$ 899,50", "R$ 1.099,00"}
	if len(sd.PriceTexts) != len(want) {
		t.Fatalf("PriceTexts = %v, want %v", sd.PriceTexts, want)
	}
	for i := range want {
		if sd.PriceTexts[i] != want[i] {
			t.Errorf("PriceTexts[%d] = %q, want %q", i, sd.PriceTexts[i], want[i])
		}
	}
}

func TestParseStructuredDataMalformedSkipped(t *testing.T) {
	html := `
	<script type="application/ld+json">{broken json</script>
	<script type="application/ld+json">{"@type":"Product","offers":{"price":"50.00"}}</script>`

	sd := ParseStructuredData(mustDoc(t, html))

	if len(sd.PriceTexts) != 1 || sd.PriceTexts[0] != "R$ 50,00" {
		t.Errorf("PriceTexts = %v, want [R$ 50,00]", sd.PriceTexts)
	}
}

func TestParseStructuredDataItemList(t *testing.T) {
	html := `<script type="application/ld+json">
	{
	  "@type": "ItemList",
	  "itemListElement": [
	    {"item": {"name": "Produto A", "url": "https://x.com/a", "offers": {"price": "10.00"}}},
	    {"item": {"name": "Sem preço", "url": "https://x.com/b"}}
	  ]
	}
	</script>`

	sd := ParseStructuredData(mustDoc(t, html))

	if len(sd.Items) != 1 {
		t.Fatalf("Items = %v, want one entry", sd.Items)
	}
	it := sd.Items[0]
	if it.Name != "Produto A" || it.Price != "R$ 10,00" || it.URL != "https://x.com/a" {
		t.Errorf("Items[0] = %+v", it)
	}
}

func TestParseStructuredDataUnknownShape(t *testing.T) {
	html := `<script type="application/ld+json">{"@type":"BreadcrumbList","name":"nav"}</script>`

	sd := ParseStructuredData(mustDoc(t, html))

	if len(sd.PriceTexts) != 0 || sd.Rating != "" || len(sd.Items) != 0 {
		t.Errorf("unexpected absorption from unknown shape: %+v", sd)
	}
}
