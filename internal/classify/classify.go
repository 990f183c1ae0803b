// Package classify assigns signal types, sectors, and petroleum product
// matches to normalized leads using fixed keyword rule tables.
package classify

import (
	"sort"
	"strings"

	"github.com/furnacex/intel-cli/internal/model"
)

// Classifier applies the rule tables to leads. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct{}

// New returns a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// searchText concatenates the lead's free-text fields, lowercased, into the
// haystack all keyword rules match against. RawData values are appended in
// sorted key order: a multi-word keyword can straddle two adjacent values,
// so the concatenation order must be stable for identical input.
func searchText(lead *model.Lead) string {
	var b strings.Builder
	b.WriteString(lead.ProjectName)
	b.WriteByte(' ')
	b.WriteString(lead.Description)
	b.WriteByte(' ')
	b.WriteString(lead.CompanyName)
	keys := make([]string, 0, len(lead.RawData))
	for k := range lead.RawData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(lead.RawData[k])
	}
	return strings.ToLower(b.String())
}

// MatchKeywords returns the keyword audit map for a piece of text: category
// name to the trigger keywords found in it. Categories with no hits are
// omitted. Matching is case-insensitive substring matching.
func MatchKeywords(text string) map[string][]string {
	lower := strings.ToLower(text)
	matched := make(map[string][]string)
	for _, category := range keywordCategoryOrder {
		for _, kw := range keywordCategories[category] {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched[category] = append(matched[category], kw)
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return matched
}

// InferSector picks the sector whose indicator list scores the most hits
// against the text. Ties and zero hits resolve to the earlier entry in the
// indicator table and SectorOther respectively.
func InferSector(text string) model.Sector {
	lower := strings.ToLower(text)
	best := model.SectorOther
	bestHits := 0
	for _, si := range sectorIndicators {
		hits := 0
		for _, ind := range si.Indicators {
			if strings.Contains(lower, ind) {
				hits++
			}
		}
		if hits > bestHits {
			best = si.Sector
			bestHits = hits
		}
	}
	return best
}

// signalFor derives the signal type from the source system, with a keyword
// override for sources that aggregate multiple signal kinds: an expansion
// trigger in the text promotes parivesh and bse records to Capacity
// Expansion.
func signalFor(source model.SourceSystem, text string) model.SignalType {
	signal, ok := sourceSignals[source]
	if !ok {
		return model.SignalOther
	}
	if source == model.SourceParivesh || source == model.SourceBSE {
		for _, trigger := range expansionTriggers {
			if strings.Contains(text, trigger) {
				return model.SignalCapacityExpansion
			}
		}
	}
	return signal
}

// products assembles the product match: the sector's default products first,
// then specialties triggered by matched keywords, deduplicated in order.
func products(sector model.Sector, matched map[string][]string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range sectorDefaultProducts[sector] {
		add(p)
	}
	for _, category := range keywordCategoryOrder {
		for _, kw := range matched[category] {
			kwLower := strings.ToLower(kw)
			for _, sp := range specialtyProducts {
				if strings.Contains(kwLower, sp.Trigger) {
					add(sp.Product)
				}
			}
		}
	}
	return out
}

// Classify fills in SignalType, Sector, ProductMatch, and KeywordsMatched
// on the lead. A sector already set structurally by the normalizer is kept;
// keyword inference is the fallback. Purely deterministic, never errors:
// unmatched text yields SectorOther and no products.
func (c *Classifier) Classify(lead *model.Lead) {
	text := searchText(lead)

	lead.KeywordsMatched = MatchKeywords(text)
	lead.SignalType = signalFor(lead.SourceSystem, text)

	if lead.Sector == "" || lead.Sector == model.SectorOther {
		lead.Sector = InferSector(text)
	}

	lead.ProductMatch = products(lead.Sector, lead.KeywordsMatched)
}

// ClassifyAll classifies a batch in place.
func (c *Classifier) ClassifyAll(leads []*model.Lead) {
	for _, lead := range leads {
		c.Classify(lead)
	}
}
