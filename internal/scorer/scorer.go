package scorer

import (
	"time"

	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/config"
	"github.com/furnacex/intel-cli/internal/model"
)

// Sub-score tables. Every lookup has an explicit lowest-bucket default for
// unrecognized values; unknown input degrades, it never errors.
var categoryScores = map[model.Category]float64{
	model.CategoryA:       1.0,
	model.CategoryB1:      0.67,
	model.CategoryB2:      0.33,
	model.CategoryUnknown: 0,
}

var sectorScores = map[model.Sector]float64{
	model.SectorMining:         1.0,
	model.SectorInfrastructure: 0.83,
	model.SectorIndustrial:     0.67,
	model.SectorThermal:        0.5,
	model.SectorTransport:      0.33,
	model.SectorOther:          0.33,
}

var statusScores = map[model.ProposalStatus]float64{
	model.StatusUnderVerification: 1.0,
	model.StatusUnderExamination:  0.83,
	model.StatusReferredToSEAC:    0.67,
	model.StatusReferredToSEIAA:   0.67,
	model.StatusOtherActive:       0.5,
	model.StatusApproved:          0.33,
}

// Scorer is a pure scoring function over leads. Now is the reference time
// for recency; pinning it makes re-runs reproducible.
type Scorer struct {
	cfg config.ScorerConfig
	now time.Time
}

// New builds a Scorer. The config should be validated first.
func New(cfg config.ScorerConfig, now time.Time) *Scorer {
	return &Scorer{cfg: cfg, now: now}
}

// Recency maps a submission date to [0,1]: full credit within FreshDays,
// linear decay to zero at StaleDays, zero beyond or when the date is absent.
func (s *Scorer) Recency(submitted *time.Time) float64 {
	if submitted == nil {
		return 0
	}
	days := s.now.Sub(*submitted).Hours() / 24
	fresh, stale := float64(s.cfg.FreshDays), float64(s.cfg.StaleDays)
	switch {
	case days <= fresh:
		return 1
	case days >= stale:
		return 0
	default:
		return (stale - days) / (stale - fresh)
	}
}

func (s *Scorer) categoryScore(c model.Category) float64 {
	if v, ok := categoryScores[c]; ok {
		return v
	}
	zap.L().Warn("scorer: unrecognized category, scoring as lowest bucket",
		zap.String("category", string(c)))
	return 0
}

func (s *Scorer) sectorScore(sec model.Sector) float64 {
	if v, ok := sectorScores[sec]; ok {
		return v
	}
	zap.L().Warn("scorer: unrecognized sector, scoring as lowest bucket",
		zap.String("sector", string(sec)))
	return 0.33
}

func (s *Scorer) statusScore(st model.ProposalStatus) float64 {
	if v, ok := statusScores[st]; ok {
		return v
	}
	zap.L().Warn("scorer: unrecognized proposal status, scoring as lowest bucket",
		zap.String("proposal_status", string(st)))
	return 0.33
}

// Score computes the lead's composite score in [0,100].
func (s *Scorer) Score(lead *model.Lead) float64 {
	return 100 * (s.cfg.RecencyWeight*s.Recency(lead.SubmissionDate) +
		s.cfg.CategoryWeight*s.categoryScore(lead.Category) +
		s.cfg.SectorWeight*s.sectorScore(lead.Sector) +
		s.cfg.StatusWeight*s.statusScore(lead.ProposalStatus))
}

// Tier assigns the priority tier. Tier1 requires both the score threshold
// and an active pre-approval status: timing gates top priority even for a
// high raw score.
func (s *Scorer) Tier(score float64, status model.ProposalStatus) model.PriorityTier {
	if score >= s.cfg.Tier1MinScore && status.IsActivePreApproval() {
		return model.Tier1
	}
	if score >= s.cfg.Tier2MinScore {
		return model.Tier2
	}
	return model.Tier3
}

// ScoreLead fills Score and PriorityTier on the lead.
func (s *Scorer) ScoreLead(lead *model.Lead) {
	lead.Score = s.Score(lead)
	lead.PriorityTier = s.Tier(lead.Score, lead.ProposalStatus)
}
