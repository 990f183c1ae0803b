// Package store persists leads and run records. Two backends implement the
// same interface: SQLite for single-box deployments and Postgres for the
// shared dashboard.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/furnacex/intel-cli/internal/model"
)

// ErrNotFound reports that a lead or run id has no row. Callers branch on
// it with eris.Is to map persistence misses onto HTTP 404s.
var ErrNotFound = eris.New("store: not found")

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Product  string             `json:"product,omitempty"`
	Status   model.LeadStatus   `json:"status,omitempty"`
	Tier     model.PriorityTier `json:"tier,omitempty"`
	MinScore float64            `json:"min_score,omitempty"`
	Limit    int                `json:"limit,omitempty"`
	Offset   int                `json:"offset,omitempty"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the lead pipeline and
// dashboard. Lead status is dashboard-owned: UpsertLeads never overwrites
// it for existing rows.
type Store interface {
	// Leads
	UpsertLeads(ctx context.Context, leads []*model.Lead) (int, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error
	ListProducts(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*model.Stats, error)

	// Runs
	CreateRun(ctx context.Context, stage string, reference time.Time) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
