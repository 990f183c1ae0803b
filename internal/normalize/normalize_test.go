package normalize

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnacex/intel-cli/internal/model"
)

var scrapeTime = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func pariveshRecord(proposalNo string) model.RawRecord {
	return model.RawRecord{
		SourceSystem: model.SourceParivesh,
		NativeID:     proposalNo,
		ScrapedAt:    scrapeTime,
		Payload: map[string]string{
			"Project Proponent":   "JSW Steel Ltd",
			"Project Name":        "Integrated Steel Plant Expansion",
			"Project_Description": "Expansion of hot strip mill, District- Raigarh",
			"Location":            "Raigarh",
			"State":               "Maharashtra",
			"Category":            "A",
			"Proposal Status":     "Under Verification",
			"Submission Date":     "2025-04-15",
			"Other Details":       "Sector: Steel | Cost: 1200 Cr",
		},
	}
}

func cpppRecord(title string) model.RawRecord {
	return model.RawRecord{
		SourceSystem: model.SourceCPPP,
		ScrapedAt:    scrapeTime,
		Payload: map[string]string{
			"organisation":   "NTPC",
			"title":          title,
			"description":    "Supply of furnace oil to thermal station",
			"location":       "Sonbhadra",
			"state":          "Uttar Pradesh",
			"published_date": "02/05/2025",
			"tender_url":     "https://eprocure.gov.in/t/123",
		},
	}
}

func TestNormalizeParivesh(t *testing.T) {
	res, err := New().Normalize([]model.RawRecord{pariveshRecord("IA/MH/IND/12345/2025")})
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)

	lead := res.Leads[0]
	assert.Equal(t, "IA/MH/IND/12345/2025", lead.ID, "native proposal number used verbatim")
	assert.Equal(t, "JSW Steel Ltd", lead.CompanyName)
	assert.Equal(t, model.StateMaharashtra, lead.State)
	assert.Equal(t, model.CategoryA, lead.Category)
	assert.Equal(t, model.StatusUnderVerification, lead.ProposalStatus)
	assert.Equal(t, model.SectorIndustrial, lead.Sector, "sector extracted from Other Details")
	assert.Equal(t, model.LeadNew, lead.Status)
	require.NotNil(t, lead.SubmissionDate)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), *lead.SubmissionDate)
}

func TestNormalizeSynthesizedIDs(t *testing.T) {
	records := []model.RawRecord{
		cpppRecord("Tender A"),
		cpppRecord("Tender B"),
		{SourceSystem: model.SourceBSE, ScrapedAt: scrapeTime,
			Payload: map[string]string{"company": "Tata Steel", "subject": "Expansion"}},
		cpppRecord("Tender C"),
	}

	res, err := New().Normalize(records)
	require.NoError(t, err)
	require.Len(t, res.Leads, 4)

	assert.Equal(t, "INT-CPPP-1", res.Leads[0].ID)
	assert.Equal(t, "INT-CPPP-2", res.Leads[1].ID)
	assert.Equal(t, "INT-BSE-1", res.Leads[2].ID, "counters are per source")
	assert.Equal(t, "INT-CPPP-3", res.Leads[3].ID)
}

func TestNormalizeIDStability(t *testing.T) {
	records := []model.RawRecord{
		cpppRecord("Tender A"), cpppRecord("Tender B"), cpppRecord("Tender C"),
	}

	first, err := New().Normalize(records)
	require.NoError(t, err)
	second, err := New().Normalize(records)
	require.NoError(t, err)

	require.Equal(t, len(first.Leads), len(second.Leads))
	for i := range first.Leads {
		assert.Equal(t, first.Leads[i].ID, second.Leads[i].ID)
	}
}

func TestNormalizeDedup(t *testing.T) {
	older := pariveshRecord("IA/MH/IND/1/2025")
	older.ScrapedAt = scrapeTime.Add(-24 * time.Hour)
	older.Payload["Proposal Status"] = "Under Examination"

	newer := pariveshRecord("IA/MH/IND/1/2025")

	res, err := New().Normalize([]model.RawRecord{older, newer})
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, 1, res.Deduplicated)
	assert.Equal(t, 0, res.IDConflicts)
	assert.Equal(t, model.StatusUnderVerification, res.Leads[0].ProposalStatus,
		"most recently scraped record wins")
}

func TestNormalizeNativeOverwritesSynthesized(t *testing.T) {
	// A native id shaped like a synthesized one collides with it; the newer
	// native record must win and must not be treated as a synthesized
	// collision, even on later collisions against the replaced entry.
	synth := cpppRecord("Tender A")
	native := pariveshRecord("INT-CPPP-1")
	native.ScrapedAt = scrapeTime.Add(time.Hour)
	nativeAgain := pariveshRecord("INT-CPPP-1")
	nativeAgain.ScrapedAt = scrapeTime.Add(2 * time.Hour)

	res, err := New().Normalize([]model.RawRecord{synth, native, nativeAgain})
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, 2, res.Deduplicated)
	assert.Equal(t, 0, res.IDConflicts, "native ids never count as synthesized collisions")
	assert.Equal(t, model.SourceParivesh, res.Leads[0].SourceSystem, "newest record wins")
}

func TestNormalizeUnsupportedSource(t *testing.T) {
	records := []model.RawRecord{
		cpppRecord("Tender A"),
		{SourceSystem: "telegram", ScrapedAt: scrapeTime,
			Payload: map[string]string{"msg": "hot lead"}},
	}

	_, err := New().Normalize(records)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestNormalizeSkipsEmptyRecords(t *testing.T) {
	records := []model.RawRecord{
		cpppRecord("Tender A"),
		{SourceSystem: model.SourceCPPP, ScrapedAt: scrapeTime,
			Payload: map[string]string{"state": "Haryana"}},
	}

	res, err := New().Normalize(records)
	require.NoError(t, err)
	assert.Len(t, res.Leads, 1)
	assert.Equal(t, 1, res.Skipped)
}

func TestNormalizeMissingDate(t *testing.T) {
	rec := cpppRecord("Tender A")
	delete(rec.Payload, "published_date")

	res, err := New().Normalize([]model.RawRecord{rec})
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Nil(t, res.Leads[0].SubmissionDate)
}

func TestResolveCompany(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JSW", "JSW Steel Ltd"},
		{"Jindal Steel & Power Limited", "Jindal Steel & Power Ltd"},
		{"Reliance Industries Pvt Ltd", "Reliance Industries Ltd"},
		{"NHAI", "National Highways Authority of India"},
		{"Acme Castings Pvt Ltd", "Acme Castings Pvt Ltd"},
		{"  Tata Steel  ", "Tata Steel Ltd"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCompany(tt.in))
		})
	}
}
