// Package sites holds the declarative per-site extraction profiles and the
// dispatcher that picks one for a URL. Profiles are data: adding a store
// means adding a YAML entry, never touching extraction or scoring code.
package sites

import (
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

// Search describes how to build and parse a site's search-results pages.
type Search struct {
	// URL is the results-page template; "{term}" is replaced with the
	// query-escaped search term.
	URL string `yaml:"url"`
	// Pagination selects how page numbers map onto the URL:
	// "query" appends ?page=N (N >= 2 only), "query0" appends
	// ?page=N-1 always, "offset50" appends _Desde_{(N-1)*50+1} (N >= 2),
	// "query_number" appends ?page_number=N always.
	Pagination string `yaml:"pagination"`

	CardSelectors  []string `yaml:"card_selectors"`
	NameSelectors  []string `yaml:"name_selectors"`
	PriceSelectors []string `yaml:"price_selectors"`
	LinkSelectors  []string `yaml:"link_selectors"`
}

// PageURL renders the results URL for a 1-based page number.
func (s Search) PageURL(term string, page int) string {
	base := strings.ReplaceAll(s.URL, "{term}", url.QueryEscape(term))
	switch s.Pagination {
	case "query":
		if page <= 1 {
			return base
		}
		return appendQuery(base, fmt.Sprintf("page=%d", page))
	case "query0":
		return appendQuery(base, fmt.Sprintf("page=%d", max(0, page-1)))
	case "query_number":
		return appendQuery(base, fmt.Sprintf("page_number=%d", page))
	case "offset50":
		if page <= 1 {
			return base
		}
		return base + fmt.Sprintf("_Desde_%d", (page-1)*50+1)
	default:
		return base
	}
}

func appendQuery(base, q string) string {
	if strings.Contains(base, "?") {
		return base + "&" + q
	}
	return base + "?" + q
}

// Profile is one site's extraction rule set. Selector lists are unioned with
// the generic set at extraction time, so profiles only list what is specific
// to the store.
type Profile struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`

	PriceSelectors    []string `yaml:"price_selectors"`
	SellerSelectors   []string `yaml:"seller_selectors"`
	RatingSelectors   []string `yaml:"rating_selectors"`
	CountSelectors    []string `yaml:"count_selectors"`
	ShippingSelectors []string `yaml:"shipping_selectors"`

	// FallbackSeller names the first-party merchant when nothing else on
	// the page does (e.g. "Magalu" on magazineluiza pages).
	FallbackSeller string `yaml:"fallback_seller"`
	// FallbackMarker gates FallbackSeller: it is used only when the raw
	// HTML contains this marker (case-insensitive).
	FallbackMarker string `yaml:"fallback_marker"`

	Search *Search `yaml:"search,omitempty"`
}

// Generic reports whether this is the catch-all profile.
func (p Profile) Generic() bool {
	return len(p.Domains) == 0
}

type profilesFile struct {
	Profiles []Profile `yaml:"profiles"`
}

func parseProfiles(data []byte) ([]Profile, error) {
	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse site profiles: %w", err)
	}
	for i, p := range f.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("site profile %d has no name", i)
		}
	}
	return f.Profiles, nil
}
