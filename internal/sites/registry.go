package sites

import (
	_ "embed"
	"net/url"
	"os"
	"strings"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// Registry is the immutable set of site profiles loaded at startup.
type Registry struct {
	profiles []Profile
	generic  Profile
}

// NewRegistry builds a registry from explicit profiles. A profile without
// domain patterns becomes the generic fallback.
func NewRegistry(profiles []Profile) *Registry {
	r := &Registry{generic: Profile{Name: "generic"}}
	for _, p := range profiles {
		if p.Generic() {
			r.generic = p
			continue
		}
		r.profiles = append(r.profiles, p)
	}
	return r
}

// Default returns the registry built from the embedded profile set.
func Default() *Registry {
	profiles, err := parseProfiles(defaultProfiles)
	if err != nil {
		// the embedded file is part of the build; failing to parse it is
		// a programming error
		panic(err)
	}
	return NewRegistry(profiles)
}

// Load reads profiles from a YAML file, falling back to the embedded set
// when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	profiles, err := parseProfiles(data)
	if err != nil {
		return nil, err
	}
	return NewRegistry(profiles), nil
}

// Match picks the profile for a host. The leading "www." is stripped and
// each known domain pattern is tested by substring containment, so
// "produto.mercadolivre.com.br" still lands on the mercadolivre profile.
func (r *Registry) Match(host string) Profile {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	for _, p := range r.profiles {
		for _, d := range p.Domains {
			if strings.Contains(host, d) {
				return p
			}
		}
	}
	return r.generic
}

// MatchURL is Match on the URL's host; unparseable URLs get the generic
// profile.
func (r *Registry) MatchURL(rawURL string) Profile {
	u, err := url.Parse(rawURL)
	if err != nil {
		return r.generic
	}
	return r.Match(u.Hostname())
}

// Searchable returns the profiles that define a search-results template,
// in declaration order.
func (r *Registry) Searchable() []Profile {
	var out []Profile
	for _, p := range r.profiles {
		if p.Search != nil && p.Search.URL != "" {
			out = append(out, p)
		}
	}
	return out
}
