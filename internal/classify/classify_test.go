package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnacex/intel-cli/internal/model"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category string
		want     []string
	}{
		{
			name:     "commodity match is case-insensitive",
			text:     "supply of BITUMEN vg-30 to site",
			category: "commodities",
			want:     []string{"Bitumen", "VG-30"},
		},
		{
			name:     "machinery match",
			text:     "installation of induction furnace and rolling mill",
			category: "industrial_machinery",
			want:     []string{"Induction Furnace", "Rolling Mill"},
		},
		{
			name:     "regulatory match",
			text:     "notice inviting tender for supply of furnace oil",
			category: "regulatory_events",
			want:     []string{"Notice Inviting Tender", "NIT", "Supply of"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := MatchKeywords(tt.text)
			require.NotNil(t, matched)
			assert.Equal(t, tt.want, matched[tt.category])
		})
	}
}

func TestMatchKeywordsNoHits(t *testing.T) {
	assert.Nil(t, MatchKeywords("quarterly board meeting minutes"))
}

func TestInferSector(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Sector
	}{
		{"mining text", "expansion of iron ore mining lease with excavators", model.SectorMining},
		{"road text", "four-laning of nh-44 highway, bitumen overlay", model.SectorInfrastructure},
		{"thermal text", "2x660 mw thermal power plant with captive power plant", model.SectorThermal},
		{"marine text", "bunker supply at the port for coastal vessels", model.SectorTransport},
		{"industrial text", "new ibr boiler for the textile plant", model.SectorIndustrial},
		{"no indicators", "annual general meeting notice", model.SectorOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSector(tt.text))
		})
	}
}

func TestClassifySignalFromSource(t *testing.T) {
	tests := []struct {
		name   string
		source model.SourceSystem
		desc   string
		want   model.SignalType
	}{
		{"parivesh default", model.SourceParivesh, "greenfield cement plant clearance", model.SignalEnvironmentalClearance},
		{"parivesh expansion override", model.SourceParivesh, "expansion of existing steel plant", model.SignalCapacityExpansion},
		{"cppp tender", model.SourceCPPP, "procurement of bitumen", model.SignalGovernmentTender},
		{"gem procurement", model.SourceGeM, "supply of hsd", model.SignalPSUProcurement},
		{"nhai road", model.SourceNHAI, "package 4 progress", model.SignalRoadProject},
		{"bse plain filing", model.SourceBSE, "outcome of board meeting", model.SignalFinancialAnnouncement},
		{"bse expansion filing", model.SourceBSE, "capacity enhancement at hot strip mill", model.SignalCapacityExpansion},
		{"mca registration", model.SourceMCA, "incorporation", model.SignalNewRegistration},
		{"unknown source", model.SourceSystem("rss-misc"), "anything", model.SignalOther},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := &model.Lead{SourceSystem: tt.source, Description: tt.desc}
			c.Classify(lead)
			assert.Equal(t, tt.want, lead.SignalType)
		})
	}
}

func TestClassifyProductMatch(t *testing.T) {
	c := New()

	t.Run("sector defaults come first", func(t *testing.T) {
		lead := &model.Lead{
			SourceSystem: model.SourceParivesh,
			Sector:       model.SectorMining,
			Description:  "opencast mining project",
		}
		c.Classify(lead)
		require.GreaterOrEqual(t, len(lead.ProductMatch), 2)
		assert.Equal(t, []string{"HSD", "Lubricants"}, lead.ProductMatch[:2])
	})

	t.Run("keyword specialty appends without removing defaults", func(t *testing.T) {
		lead := &model.Lead{
			SourceSystem: model.SourceNHAI,
			Sector:       model.SectorInfrastructure,
			Description:  "dense bituminous macadam and pmb overlay works",
		}
		c.Classify(lead)
		assert.Contains(t, lead.ProductMatch, "Bitumen")
		assert.Contains(t, lead.ProductMatch, "HSD")
		// Deduplicated: Bitumen is both a default and a specialty.
		assert.Equal(t, 1, countOf(lead.ProductMatch, "Bitumen"))
	})

	t.Run("specialty outside sector defaults", func(t *testing.T) {
		lead := &model.Lead{
			SourceSystem: model.SourceCPPP,
			Sector:       model.SectorIndustrial,
			Description:  "supply of hexane for solvent extraction plant",
		}
		c.Classify(lead)
		assert.Contains(t, lead.ProductMatch, "Furnace Oil")
		assert.Contains(t, lead.ProductMatch, "Hexane")
		assert.Contains(t, lead.ProductMatch, "Solvents")
	})

	t.Run("unmatched text yields no products", func(t *testing.T) {
		lead := &model.Lead{
			SourceSystem: model.SourceBSE,
			Description:  "record date for dividend",
		}
		c.Classify(lead)
		assert.Equal(t, model.SectorOther, lead.Sector)
		assert.Empty(t, lead.ProductMatch)
	})
}

func TestClassifyKeepsStructuralSector(t *testing.T) {
	c := New()
	lead := &model.Lead{
		SourceSystem: model.SourceParivesh,
		Sector:       model.SectorThermal,
		Description:  "bitumen road works near the plant", // would infer Infrastructure
	}
	c.Classify(lead)
	assert.Equal(t, model.SectorThermal, lead.Sector)
}

func TestClassifyDeterministic(t *testing.T) {
	c := New()
	mk := func() *model.Lead {
		return &model.Lead{
			SourceSystem: model.SourceParivesh,
			ProjectName:  "Integrated Steel Plant Expansion",
			Description:  "induction furnace, captive power plant, furnace oil storage",
			RawData:      map[string]string{"district": "Raigarh", "category": "A"},
		}
	}
	a, b := mk(), mk()
	c.Classify(a)
	c.Classify(b)
	assert.Equal(t, a.SignalType, b.SignalType)
	assert.Equal(t, a.Sector, b.Sector)
	assert.Equal(t, a.ProductMatch, b.ProductMatch)
	assert.Equal(t, a.KeywordsMatched, b.KeywordsMatched)

	// "furnace" + "oil storage tank" only form "furnace oil" when the two
	// RawData values land next to each other, so the result is stable only
	// if the values are concatenated in a fixed order.
	mkStraddle := func() *model.Lead {
		return &model.Lead{
			SourceSystem: model.SourceParivesh,
			ProjectName:  "Rolling Mill Modernization",
			RawData: map[string]string{
				"equipment": "reheating furnace",
				"storage":   "oil storage tank",
			},
		}
	}
	first := mkStraddle()
	c.Classify(first)
	for i := 0; i < 100; i++ {
		lead := mkStraddle()
		c.Classify(lead)
		assert.Equal(t, first.KeywordsMatched, lead.KeywordsMatched)
		assert.Equal(t, first.ProductMatch, lead.ProductMatch)
	}
}

func countOf(ss []string, want string) int {
	n := 0
	for _, s := range ss {
		if s == want {
			n++
		}
	}
	return n
}
