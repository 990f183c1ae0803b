// Package normalize converts raw per-source rows into unified leads with
// stable ids, canonical field names, and one record per id.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/model"
)

// ErrUnsupportedSource aborts the batch: an unknown schema would silently
// produce garbage records.
var ErrUnsupportedSource = eris.New("normalize: unsupported source system")

// Result carries the normalized batch plus the per-run counts surfaced in
// the end-of-run summary.
type Result struct {
	Leads        []*model.Lead
	Skipped      int // records dropped with a processing error
	Deduplicated int // identical-id collapses, last write wins
	IDConflicts  int // synthesized-id collisions, a data-integrity signal
}

// Normalizer maps raw records to leads. It holds no cross-run state: the
// per-source sequence counters are scoped to one Normalize call, so id
// assignment is reproducible for a given input order.
type Normalizer struct{}

// New returns a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize processes the batch in input order. A record-level failure is
// skipped and logged, never aborting the batch; only an unknown source
// system is fatal.
func (n *Normalizer) Normalize(records []model.RawRecord) (*Result, error) {
	// Fail fast before touching any record.
	for _, rec := range records {
		if !rec.SourceSystem.IsKnown() {
			return nil, eris.Wrapf(ErrUnsupportedSource, "source %q", rec.SourceSystem)
		}
	}

	res := &Result{}
	counters := make(map[model.SourceSystem]int)
	byID := make(map[string]*model.Lead)
	synthesized := make(map[string]bool)
	var order []string

	for _, rec := range records {
		lead, synth, err := n.normalizeOne(rec, counters)
		if err != nil {
			res.Skipped++
			zap.L().Warn("record skipped",
				zap.String("source", string(rec.SourceSystem)),
				zap.String("native_id", rec.NativeID),
				zap.Error(err))
			continue
		}

		if prev, ok := byID[lead.ID]; ok {
			if synth && synthesized[lead.ID] {
				// Counter collisions cannot happen under correct sequencing;
				// treat one as a data-integrity signal, not a silent drop.
				res.IDConflicts++
				zap.L().Warn("duplicate synthesized id conflict",
					zap.String("id", lead.ID),
					zap.String("source", string(rec.SourceSystem)))
			}
			res.Deduplicated++
			if !lead.ScrapedAt.Before(prev.ScrapedAt) {
				byID[lead.ID] = lead
				synthesized[lead.ID] = synth
			}
			continue
		}

		byID[lead.ID] = lead
		synthesized[lead.ID] = synth
		order = append(order, lead.ID)
	}

	res.Leads = make([]*model.Lead, 0, len(order))
	for _, id := range order {
		res.Leads = append(res.Leads, byID[id])
	}

	zap.L().Info("normalization complete",
		zap.Int("input", len(records)),
		zap.Int("leads", len(res.Leads)),
		zap.Int("skipped", res.Skipped),
		zap.Int("deduplicated", res.Deduplicated),
		zap.Int("id_conflicts", res.IDConflicts))
	return res, nil
}

// normalizeOne maps a single record. The bool result reports whether the id
// was synthesized rather than taken from the source.
func (n *Normalizer) normalizeOne(rec model.RawRecord, counters map[model.SourceSystem]int) (*model.Lead, bool, error) {
	schema := sourceSchemas[rec.SourceSystem]

	// Project payload fields onto canonical attributes.
	attrs := make(map[string]string, len(schema.Fields))
	for field, attr := range schema.Fields {
		if v, ok := rec.Payload[field]; ok {
			attrs[attr] = strings.TrimSpace(v)
		}
	}

	lead := &model.Lead{
		SourceSystem:   rec.SourceSystem,
		CompanyName:    ResolveCompany(attrs[attrCompanyName]),
		ProjectName:    attrs[attrProjectName],
		Description:    attrs[attrDescription],
		Location:       attrs[attrLocation],
		State:          model.ParseState(attrs[attrState]),
		Category:       model.ParseCategory(attrs[attrCategory]),
		ProposalStatus: model.ParseProposalStatus(attrs[attrProposalStatus]),
		SubmissionDate: parseDate(attrs[attrSubmissionDate]),
		SourceURL:      attrs[attrSourceURL],
		Status:         model.LeadNew,
		RawData:        rec.Payload,
		ScrapedAt:      rec.ScrapedAt,
	}

	// Parivesh buries the sector in the "Other Details" blob.
	if details, ok := attrs[attrOtherDetails]; ok {
		if m := sectorPattern.FindStringSubmatch(details); m != nil {
			attrs[attrSector] = m[1]
		}
	}
	if sector, ok := attrs[attrSector]; ok {
		lead.Sector = parseSector(sector)
	}

	if lead.CompanyName == "" && lead.ProjectName == "" {
		return nil, false, eris.New("normalize: record has neither company nor project name")
	}

	// Native proposal numbers are used verbatim; everything else gets a
	// stable per-source sequence id.
	if schema.NativeID && rec.NativeID != "" {
		lead.ID = rec.NativeID
		return lead, false, nil
	}
	counters[rec.SourceSystem]++
	lead.ID = fmt.Sprintf("INT-%s-%d", strings.ToUpper(string(rec.SourceSystem)), counters[rec.SourceSystem])
	return lead, true, nil
}

// parseSector maps free-form sector hints onto the sector enum. Unknown
// hints fall through to Other so the classifier can try keywords instead.
func parseSector(s string) model.Sector {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mining", "coal", "mineral":
		return model.SectorMining
	case "infrastructure", "infra", "roads", "road", "highway":
		return model.SectorInfrastructure
	case "industrial", "industry", "manufacturing", "steel", "cement":
		return model.SectorIndustrial
	case "thermal", "power", "energy":
		return model.SectorThermal
	case "transport", "shipping", "ports":
		return model.SectorTransport
	default:
		return model.SectorOther
	}
}

// SortByID orders leads for stable artifact output.
func SortByID(leads []*model.Lead) {
	sort.Slice(leads, func(i, j int) bool { return leads[i].ID < leads[j].ID })
}
