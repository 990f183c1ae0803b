// Package scorer computes lead scores and priority tiers from normalized
// sub-scores for recency, category, sector demand, and proposal status.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/furnacex/intel-cli/internal/config"
)

// DefaultConfig returns a config.ScorerConfig with the canonical weighting.
// Weights apply to sub-scores in [0,1] and sum to 1.
func DefaultConfig() config.ScorerConfig {
	return config.ScorerConfig{
		RecencyWeight:  0.30,
		CategoryWeight: 0.25,
		SectorWeight:   0.25,
		StatusWeight:   0.20,

		FreshDays: 30,
		StaleDays: 365,

		Tier1MinScore: 75,
		Tier2MinScore: 50,
	}
}

// WeightSum returns the sum of the component weights.
func WeightSum(c config.ScorerConfig) float64 {
	return c.RecencyWeight + c.CategoryWeight + c.SectorWeight + c.StatusWeight
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	weights := map[string]float64{
		"recency_weight":  c.RecencyWeight,
		"category_weight": c.CategoryWeight,
		"sector_weight":   c.SectorWeight,
		"status_weight":   c.StatusWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	// Weights must sum to 1 (allow tolerance for floating-point).
	if sum := WeightSum(c); math.Abs(sum-1) > 0.001 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.3f", sum))
	}

	// Recency curve.
	if c.FreshDays < 0 {
		errs = append(errs, "fresh_days must be >= 0")
	}
	if c.StaleDays <= c.FreshDays {
		errs = append(errs, "stale_days must be > fresh_days")
	}

	// Tier thresholds.
	if c.Tier1MinScore < 0 || c.Tier1MinScore > 100 {
		errs = append(errs, "tier1_min_score must be between 0 and 100")
	}
	if c.Tier2MinScore < 0 || c.Tier2MinScore > c.Tier1MinScore {
		errs = append(errs, "tier2_min_score must be between 0 and tier1_min_score")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
