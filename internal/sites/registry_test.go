package sites

import "testing"

func TestRegistryMatch(t *testing.T) {
	reg := Default()

	tests := []struct {
		name string
		host string
		want string
	}{
		{"magalu www", "www.magazineluiza.com.br", "magalu"},
		{"magalu short", "magalu.com", "magalu"},
		{"kabum", "www.kabum.com.br", "kabum"},
		{"mercadolivre subdomain", "produto.mercadolivre.com.br", "mercadolivre"},
		{"unknown", "www.lojadesconhecida.com.br", "generic"},
		{"empty", "", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.Match(tt.host); got.Name != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.host, got.Name, tt.want)
			}
		})
	}
}

func TestRegistryMatchURL(t *testing.T) {
	reg := Default()

	if got := reg.MatchURL("https://www.kabum.com.br/produto/1234"); got.Name != "kabum" {
		t.Errorf("MatchURL kabum = %q", got.Name)
	}
	if got := reg.MatchURL("::bad::"); got.Name != "generic" {
		t.Errorf("MatchURL bad = %q, want generic", got.Name)
	}
}

func TestCustomRegistryIsDataDriven(t *testing.T) {
	reg := NewRegistry([]Profile{
		{
			Name:           "lojinha",
			Domains:        []string{"lojinha.dev"},
			PriceSelectors: []string{".preco-final"},
		},
	})

	p := reg.Match("www.lojinha.dev")
	if p.Name != "lojinha" {
		t.Fatalf("Match = %q, want lojinha", p.Name)
	}
	if len(p.PriceSelectors) != 1 || p.PriceSelectors[0] != ".preco-final" {
		t.Errorf("unexpected selectors: %v", p.PriceSelectors)
	}
}

func TestSearchPageURL(t *testing.T) {
	tests := []struct {
		name   string
		search Search
		term   string
		page   int
		want   string
	}{
		{
			"query page 1",
			Search{URL: "https://x/busca/{term}/", Pagination: "query"},
			"tv 50", 1,
			"https://x/busca/tv+50/",
		},
		{
			"query page 2",
			Search{URL: "https://x/busca/{term}/", Pagination: "query"},
			"tv", 2,
			"https://x/busca/tv/?page=2",
		},
		{
			"query_number",
			Search{URL: "https://x/busca/{term}", Pagination: "query_number"},
			"tv", 3,
			"https://x/busca/tv?page_number=3",
		},
		{
			"offset50 page 1",
			Search{URL: "https://x/{term}", Pagination: "offset50"},
			"tv", 1,
			"https://x/tv",
		},
		{
			"offset50 page 3",
			Search{URL: "https://x/{term}", Pagination: "offset50"},
			"tv", 3,
			"https://x/tv_Desde_101",
		},
		{
			"query0 keeps existing query",
			Search{URL: "https://x/search?keyword={term}", Pagination: "query0"},
			"tv", 1,
			"https://x/search?keyword=tv&page=0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.search.PageURL(tt.term, tt.page); got != tt.want {
				t.Errorf("PageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchableProfiles(t *testing.T) {
	reg := Default()
	found := map[string]bool{}
	for _, p := range reg.Searchable() {
		found[p.Name] = true
	}
	for _, name := range []string{"magalu", "kabum", "amazon", "mercadolivre", "shopee"} {
		if !found[name] {
			t.Errorf("profile %s missing a search template", name)
		}
	}
}
