package model

import "time"

// RunStatus tracks a pipeline run's lifecycle.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunSummary aggregates the recoverable-error counts and stage results of
// one pipeline run, surfaced to the operator at end of run.
type RunSummary struct {
	Input        int `json:"input"`
	Leads        int `json:"leads"`
	Skipped      int `json:"skipped"`
	Deduplicated int `json:"deduplicated"`
	IDConflicts  int `json:"id_conflicts"`
	Unresolved   int `json:"unresolved"`
	RecordErrors int `json:"record_errors"`

	Tier1 int `json:"tier1"`
	Tier2 int `json:"tier2"`
	Tier3 int `json:"tier3"`
}

// Run is one recorded pipeline execution.
type Run struct {
	ID            string      `json:"id"`
	Stage         string      `json:"stage"` // first stage executed
	Status        RunStatus   `json:"status"`
	ReferenceTime time.Time   `json:"reference_time"`
	Summary       *RunSummary `json:"summary,omitempty"`
	StartedAt     time.Time   `json:"started_at"`
	FinishedAt    *time.Time  `json:"finished_at,omitempty"`
}

// Stats is the dashboard aggregate view over the lead dataset.
type Stats struct {
	TotalLeads int            `json:"total_leads"`
	AvgScore   float64        `json:"avg_score"`
	ByTier     map[string]int `json:"by_tier"`
	ByStatus   map[string]int `json:"by_status"`
	BySource   map[string]int `json:"by_source"`
}
