package extract

import (
	"testing"

	"precoscan/internal/sites"
)

func TestCleanSeller(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Loja Oficial", "Loja Oficial"},
		{"prefix", "Vendido por: Loja X", "Loja X"},
		{"full prefix", "Vendido e entregue por Magalu", "Magalu"},
		{"junk", "Cadastre-se e receba ofertas", ""},
		{"whitespace", "  Loja\n Tech  ", "Loja Tech"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanSeller(tt.in); got != tt.want {
				t.Errorf("CleanSeller(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractSellerStructuredDataWins(t *testing.T) {
	html := `<div class="seller">Loja do DOM</div>`
	sd := StructuredData{Sellers: []string{"Loja Estruturada"}}
	profile := sites.Profile{SellerSelectors: []string{".seller"}}

	got := ExtractSeller(mustDoc(t, html), html, profile, sd)

	if got != "Loja Estruturada" {
		t.Errorf("seller = %q, want Loja Estruturada", got)
	}
}

func TestExtractSellerSoldByPhrase(t *testing.T) {
	html := `<div>Vendido e entregue por Loja Tech BR</div>`

	got := ExtractSeller(mustDoc(t, html), html, sites.Profile{}, StructuredData{})

	if got != "Loja Tech BR" {
		t.Errorf("seller = %q, want Loja Tech BR", got)
	}
}

func TestExtractSellerFallbackGatedByMarker(t *testing.T) {
	profile := sites.Profile{FallbackSeller: "Magalu", FallbackMarker: "magazineluiza"}

	withMarker := `<html><body>conteúdo magazineluiza aqui</body></html>`
	if got := ExtractSeller(mustDoc(t, withMarker), withMarker, profile, StructuredData{}); got != "Magalu" {
		t.Errorf("seller = %q, want Magalu", got)
	}

	without := `<html><body>outro site qualquer</body></html>`
	if got := ExtractSeller(mustDoc(t, without), without, profile, StructuredData{}); got != "" {
		t.Errorf("seller = %q, want empty", got)
	}
}
