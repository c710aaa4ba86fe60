// Package rank turns raw price candidates into a single chosen value. It is
// the only place scoring weights live; extractors attach provenance and an
// intrinsic priority, nothing else.
package rank

import (
	"sort"
	"strings"

	"precoscan/pkg/brl"
)

// Intrinsic priorities carried by candidates according to where they came
// from. Structured data outranks site-specific selectors, which outrank the
// generic catch-alls.
const (
	PriorityJSONLD   = 5
	PriorityContext  = 3
	PrioritySelector = 2
	PriorityCommon   = 0
)

// Candidate is one raw, unverified text extraction for the price field.
type Candidate struct {
	Text string
	// Source records which strategy produced the candidate, e.g. "jsonld",
	// "selector:span.finalPrice" or "context:por/avista".
	Source string
	// Priority is the structural bonus granted at collection time.
	Priority int
}

// Scored is a candidate that survived filtering, with its normalized value.
type Scored struct {
	Candidate
	Score int
	// Value is the normalized currency string; non-empty by construction.
	Value string
	// Num is the parsed numeric value of Value.
	Num float64
}

// installmentMarkers identify per-installment amounts ("3x de R$ 99,90");
// these are never the payable total and are discarded outright.
var installmentMarkers = []string{"x de r$", "x de ", "em até", "parcela", "parcelas"}

// goodHints typically sit next to the actually-payable price.
var goodHints = []string{"por ", "à vista", "a vista", "pix", "boleto", "preço", "price", "valor", "final", "agora"}

// badHints mark reference prices and financing noise.
var badHints = []string{
	"de ", "de:", "antes", "was", "de r$", "sem juros", "juros", "parcela",
	"parcelas", "em até", "cartão", "no cartão", "assinatura", "subscribe",
	"club", "prime",
}

// score computes the final score for a candidate, or reports discard=true
// for installment texts.
func score(c Candidate) (total int, discard bool) {
	low := strings.ToLower(c.Text)
	for _, m := range installmentMarkers {
		if strings.Contains(low, m) {
			return 0, true
		}
	}

	total = c.Priority
	if (strings.Contains(low, " de ") || strings.Contains(low, " de r$")) && !strings.Contains(low, " por ") {
		total -= 2
	}
	for _, h := range goodHints {
		if strings.Contains(low, h) {
			total += 2
			break
		}
	}
	for _, h := range badHints {
		if strings.Contains(low, h) {
			total -= 2
			break
		}
	}
	return total, false
}

// PickPrice filters, scores and ranks the candidates, returning the winner
// and a debug trail of up to six entries (winner plus five runners-up).
// ok is false when nothing survives filtering.
func PickPrice(cands []Candidate) (value string, num float64, ok bool, debug []string) {
	var scored []Scored
	for _, c := range cands {
		s, discard := score(c)
		if discard {
			continue
		}
		v := brl.CurrencyString(c.Text)
		if v == "" {
			continue
		}
		n, numOK := brl.ParseNumber(v)
		if !numOK {
			continue
		}
		scored = append(scored, Scored{Candidate: c, Score: s, Value: v, Num: n})
	}
	if len(scored) == 0 {
		return "", 0, false, nil
	}

	// Highest score wins; among equals the lower price is more likely the
	// payable one rather than an inflated reference price.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Num < scored[j].Num
	})

	limit := len(scored)
	if limit > 6 {
		limit = 6
	}
	for _, s := range scored[:limit] {
		debug = append(debug, brl.DebugEntry(s.Value, s.Num, s.Score, s.Source))
	}

	best := scored[0]
	return best.Value, best.Num, true, debug
}

// FallbackPrice is the last-resort scan: every currency pattern in the whole
// page text, minimum value wins. Used only when PickPrice comes back empty.
func FallbackPrice(pageText string) (value string, num float64, ok bool) {
	matches := brl.CurrencyRe.FindAllString(pageText, -1)
	if len(matches) == 0 {
		return "", 0, false
	}

	seen := map[string]bool{}
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		n, numOK := brl.ParseNumber(m)
		if !numOK {
			continue
		}
		if !ok || n < num {
			value, num, ok = brl.CurrencyString(m), n, true
		}
	}
	return value, num, ok
}
