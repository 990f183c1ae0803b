package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnacex/intel-cli/internal/model"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func TestValidateConfig(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, ValidateConfig(DefaultConfig()))
	})

	t.Run("weights must sum to 1", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RecencyWeight = 0.5
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sum to 1")
	})

	t.Run("stale must exceed fresh", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StaleDays = 30
		require.Error(t, ValidateConfig(cfg))
	})

	t.Run("tier2 cannot exceed tier1", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Tier2MinScore = 90
		require.Error(t, ValidateConfig(cfg))
	})
}

func TestRecency(t *testing.T) {
	s := New(DefaultConfig(), testNow)

	tests := []struct {
		name string
		date *time.Time
		want float64
	}{
		{"within fresh window", daysAgo(10), 1.0},
		{"at fresh boundary", daysAgo(30), 1.0},
		{"midpoint of decay", daysAgo(197), (365.0 - 197.0) / (365.0 - 30.0)},
		{"at stale boundary", daysAgo(365), 0},
		{"beyond stale", daysAgo(500), 0},
		{"absent date", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Recency(tt.date), 1e-9)
		})
	}
}

func TestRecencyMonotone(t *testing.T) {
	s := New(DefaultConfig(), testNow)
	prev := 1.1
	for d := 0; d <= 400; d += 7 {
		r := s.Recency(daysAgo(d))
		assert.LessOrEqual(t, r, prev, "recency must not increase with age (day %d)", d)
		prev = r
	}
}

func TestScoreWorkedExamples(t *testing.T) {
	s := New(DefaultConfig(), testNow)

	t.Run("fresh mining category A under verification scores 100", func(t *testing.T) {
		lead := &model.Lead{
			Sector:         model.SectorMining,
			Category:       model.CategoryA,
			ProposalStatus: model.StatusUnderVerification,
			SubmissionDate: daysAgo(10),
		}
		s.ScoreLead(lead)
		assert.InDelta(t, 100, lead.Score, 1e-9)
		assert.Equal(t, model.Tier1, lead.PriorityTier)
	})

	t.Run("missing submission date zeroes the recency term", func(t *testing.T) {
		lead := &model.Lead{
			Sector:         model.SectorMining,
			Category:       model.CategoryA,
			ProposalStatus: model.StatusUnderVerification,
		}
		s.ScoreLead(lead)
		// 100 * (0.25 + 0.25 + 0.20) with recency contributing nothing.
		assert.InDelta(t, 70, lead.Score, 1e-9)
	})

	t.Run("approved status blocks tier1 at high score", func(t *testing.T) {
		lead := &model.Lead{
			Sector:         model.SectorMining,
			Category:       model.CategoryA,
			ProposalStatus: model.StatusApproved,
			SubmissionDate: daysAgo(5),
		}
		s.ScoreLead(lead)
		assert.GreaterOrEqual(t, lead.Score, 75.0)
		assert.Equal(t, model.Tier2, lead.PriorityTier)
	})
}

func TestScoreBounds(t *testing.T) {
	s := New(DefaultConfig(), testNow)
	dates := []*time.Time{nil, daysAgo(0), daysAgo(100), daysAgo(1000)}
	categories := []model.Category{model.CategoryA, model.CategoryB1, model.CategoryB2, model.CategoryUnknown, "bogus"}
	sectors := []model.Sector{model.SectorMining, model.SectorInfrastructure, model.SectorOther, "bogus"}
	statuses := []model.ProposalStatus{model.StatusUnderVerification, model.StatusApproved, model.StatusOtherActive, "bogus"}

	for _, d := range dates {
		for _, c := range categories {
			for _, sec := range sectors {
				for _, st := range statuses {
					score := s.Score(&model.Lead{
						SubmissionDate: d, Category: c, Sector: sec, ProposalStatus: st,
					})
					require.GreaterOrEqual(t, score, 0.0)
					require.LessOrEqual(t, score, 100.0)
				}
			}
		}
	}
}

func TestTierGating(t *testing.T) {
	s := New(DefaultConfig(), testNow)

	tests := []struct {
		name   string
		score  float64
		status model.ProposalStatus
		want   model.PriorityTier
	}{
		{"high score, active pre-approval", 80, model.StatusUnderVerification, model.Tier1},
		{"high score, referred", 76, model.StatusReferredToSEIAA, model.Tier1},
		{"high score, approved", 90, model.StatusApproved, model.Tier2},
		{"mid score, active", 60, model.StatusUnderExamination, model.Tier2},
		{"boundary tier2", 50, model.StatusApproved, model.Tier2},
		{"low score, active", 40, model.StatusUnderVerification, model.Tier3},
		{"boundary tier1 exactly", 75, model.StatusUnderVerification, model.Tier1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Tier(tt.score, tt.status))
		})
	}
}

func TestUnknownEnumsDegradeToLowestBucket(t *testing.T) {
	s := New(DefaultConfig(), testNow)
	lead := &model.Lead{
		Category:       "Z",
		Sector:         "Aerospace",
		ProposalStatus: "Withdrawn by Ministry",
		SubmissionDate: daysAgo(1),
	}
	s.ScoreLead(lead)
	// recency 1.0, category 0, sector 0.33, status 0.33.
	assert.InDelta(t, 100*(0.30+0.25*0.33+0.20*0.33), lead.Score, 1e-9)
}
