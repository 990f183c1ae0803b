// Package pipeline orchestrates the lead pipeline: normalize, classify,
// score, route. Each stage writes a CSV artifact so a run can restart from
// any stage, and every run is recorded in the store with its reference time,
// making re-runs reproducible.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/classify"
	"github.com/furnacex/intel-cli/internal/config"
	"github.com/furnacex/intel-cli/internal/export"
	"github.com/furnacex/intel-cli/internal/model"
	"github.com/furnacex/intel-cli/internal/normalize"
	"github.com/furnacex/intel-cli/internal/proximity"
	"github.com/furnacex/intel-cli/internal/scorer"
	"github.com/furnacex/intel-cli/internal/store"
)

// Pipeline wires the stage implementations together with the store and the
// artifact directory.
type Pipeline struct {
	cfg        *config.Config
	store      store.Store
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	scorer     *scorer.Scorer
	router     *proximity.Router
	reference  time.Time
	dataDir    string
}

// New creates a Pipeline. The reference time pins recency scoring: two runs
// over the same input with the same reference produce identical output.
// Scoring weights are validated here so a bad override can never reach a run.
func New(cfg *config.Config, st store.Store, router *proximity.Router, reference time.Time) (*Pipeline, error) {
	if err := scorer.ValidateConfig(cfg.Scorer); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		normalizer: normalize.New(),
		classifier: classify.New(),
		scorer:     scorer.New(cfg.Scorer, reference),
		router:     router,
		reference:  reference,
		dataDir:    cfg.Pipeline.DataDir,
	}, nil
}

// Run executes the full pipeline over a batch of raw records.
func (p *Pipeline) Run(ctx context.Context, records []model.RawRecord) (*model.RunSummary, error) {
	run, err := p.store.CreateRun(ctx, string(StageNormalize), p.reference)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	summary := &model.RunSummary{Input: len(records)}

	res, err := p.normalizer.Normalize(records)
	if err != nil {
		p.fail(ctx, run.ID, summary)
		return nil, eris.Wrap(err, "pipeline: normalize")
	}
	summary.Skipped = res.Skipped
	summary.Deduplicated = res.Deduplicated
	summary.IDConflicts = res.IDConflicts

	leads := res.Leads
	if err := p.writeArtifact(StageNormalize, leads); err != nil {
		p.fail(ctx, run.ID, summary)
		return nil, err
	}

	return p.runStages(ctx, run.ID, StageClassify, leads, summary)
}

// Resume restarts the pipeline at the given stage, reading the previous
// stage's artifact. Normalization cannot be resumed: it needs the raw
// records, so use Run.
func (p *Pipeline) Resume(ctx context.Context, from Stage) (*model.RunSummary, error) {
	idx := stageIndex(from)
	if idx <= 0 {
		return nil, eris.Errorf("pipeline: cannot resume from stage %q", from)
	}

	prev := stageOrder[idx-1]
	leads, err := export.ReadCSV(filepath.Join(p.dataDir, artifacts[prev]))
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read %s artifact", prev)
	}
	zap.L().Info("resuming pipeline",
		zap.String("stage", string(from)),
		zap.Int("leads", len(leads)))

	run, err := p.store.CreateRun(ctx, string(from), p.reference)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	summary := &model.RunSummary{Input: len(leads)}
	return p.runStages(ctx, run.ID, from, leads, summary)
}

// runStages executes every stage from `from` onward, persists the final
// leads, and completes the run record.
func (p *Pipeline) runStages(ctx context.Context, runID string, from Stage, leads []*model.Lead, summary *model.RunSummary) (*model.RunSummary, error) {
	for _, st := range stageOrder[stageIndex(from):] {
		start := time.Now()
		switch st {
		case StageClassify:
			p.classifier.ClassifyAll(leads)
		case StageScore:
			for _, lead := range leads {
				p.scorer.ScoreLead(lead)
			}
		case StageRoute:
			p.routeAll(ctx, leads, summary)
		}
		zap.L().Info("stage complete",
			zap.String("stage", string(st)),
			zap.Int("leads", len(leads)),
			zap.Duration("elapsed", time.Since(start)))

		if err := p.writeArtifact(st, leads); err != nil {
			p.fail(ctx, runID, summary)
			return nil, err
		}
	}

	summary.Leads = len(leads)
	for _, lead := range leads {
		switch lead.PriorityTier {
		case model.Tier1:
			summary.Tier1++
		case model.Tier2:
			summary.Tier2++
		case model.Tier3:
			summary.Tier3++
		}
	}

	if _, err := p.store.UpsertLeads(ctx, leads); err != nil {
		p.fail(ctx, runID, summary)
		return nil, eris.Wrap(err, "pipeline: persist leads")
	}

	if err := p.store.CompleteRun(ctx, runID, model.RunCompleted, summary); err != nil {
		return nil, eris.Wrap(err, "pipeline: complete run")
	}

	zap.L().Info("pipeline complete",
		zap.Int("leads", summary.Leads),
		zap.Int("skipped", summary.Skipped),
		zap.Int("deduplicated", summary.Deduplicated),
		zap.Int("unresolved", summary.Unresolved),
		zap.Int("record_errors", summary.RecordErrors),
		zap.Int("tier1", summary.Tier1),
		zap.Int("tier2", summary.Tier2),
		zap.Int("tier3", summary.Tier3))
	return summary, nil
}

// routeAll assigns officers and territories. Resolver failures are
// record-level: the lead stays unassigned and the run continues.
func (p *Pipeline) routeAll(ctx context.Context, leads []*model.Lead, summary *model.RunSummary) {
	for _, lead := range leads {
		if err := p.router.Route(ctx, lead); err != nil {
			recErr := &RecordError{LeadID: lead.ID, Stage: StageRoute, Err: err}
			zap.L().Warn("lead left unassigned", zap.Error(recErr))
			lead.Officer = nil
			lead.Territory = proximity.TerritoryUnassigned
			summary.RecordErrors++
		}
		if lead.Officer == nil {
			summary.Unresolved++
		}
	}
}

func (p *Pipeline) writeArtifact(st Stage, leads []*model.Lead) error {
	path := filepath.Join(p.dataDir, artifacts[st])
	if err := export.WriteCSV(path, leads); err != nil {
		return eris.Wrapf(err, "pipeline: write %s artifact", st)
	}
	return nil
}

// fail marks the run failed, best-effort.
func (p *Pipeline) fail(ctx context.Context, runID string, summary *model.RunSummary) {
	if err := p.store.CompleteRun(ctx, runID, model.RunFailed, summary); err != nil {
		zap.L().Warn("failed to mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
}
