package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/furnacex/intel-cli/internal/db"
	"github.com/furnacex/intel-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	source_system    TEXT NOT NULL,
	company_name     TEXT NOT NULL DEFAULT '',
	project_name     TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	state            TEXT NOT NULL DEFAULT '',
	sector           TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	proposal_status  TEXT NOT NULL DEFAULT '',
	submission_date  TIMESTAMPTZ,
	source_url       TEXT NOT NULL DEFAULT '',
	signal_type      TEXT NOT NULL DEFAULT '',
	product_match    JSONB NOT NULL DEFAULT '[]',
	keywords_matched JSONB NOT NULL DEFAULT '{}',
	score            DOUBLE PRECISION NOT NULL DEFAULT 0,
	priority_tier    TEXT NOT NULL DEFAULT '',
	territory        TEXT NOT NULL DEFAULT '',
	officer          JSONB,
	status           TEXT NOT NULL DEFAULT 'NEW',
	raw_data         JSONB NOT NULL DEFAULT '{}',
	scraped_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	stage          TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	reference_time TIMESTAMPTZ NOT NULL,
	summary        JSONB,
	started_at     TIMESTAMPTZ NOT NULL,
	finished_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(score);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_tier ON leads(priority_tier);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// leadTableColumns is the insert column order for bulk upserts.
var leadTableColumns = []string{
	"id", "source_system", "company_name", "project_name", "description",
	"location", "state", "sector", "category", "proposal_status",
	"submission_date", "source_url", "signal_type", "product_match",
	"keywords_matched", "score", "priority_tier", "territory", "officer",
	"status", "raw_data", "scraped_at", "updated_at",
}

// leadUpdateColumns excludes id (conflict key) and status (dashboard-owned).
var leadUpdateColumns = func() []string {
	var cols []string
	for _, c := range leadTableColumns {
		if c == "id" || c == "status" {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}()

// UpsertLeads bulk-upserts via COPY into a temp table. Existing rows keep
// their status.
func (s *PostgresStore) UpsertLeads(ctx context.Context, leads []*model.Lead) (int, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(leads))
	for _, lead := range leads {
		fields, err := leadFields(lead)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: serialize lead %s", lead.ID)
		}
		rows = append(rows, append(fields, string(lead.Status), mustJSON(lead.RawData), lead.ScrapedAt.UTC(), now))
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "leads",
		Columns:      leadTableColumns,
		ConflictKeys: []string{"id"},
		UpdateCols:   leadUpdateColumns,
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert leads")
	}
	return int(n), nil
}

// pgLeadQuery builds the filtered list query with $n placeholders.
func pgLeadQuery(filter LeadFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Product != "" {
		conds = append(conds, "product_match::text LIKE "+arg(`%"`+filter.Product+`"%`))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}
	if filter.Tier != "" {
		conds = append(conds, "priority_tier = "+arg(string(filter.Tier)))
	}
	if filter.MinScore > 0 {
		conds = append(conds, "score >= "+arg(filter.MinScore))
	}

	q := "SELECT " + leadColumns + " FROM leads"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY score DESC, id"
	if filter.Limit > 0 {
		q += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		q += " OFFSET " + arg(filter.Offset)
	}
	return q, args
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	q, args := pgLeadQuery(filter)
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE id = $1", id)
	l, err := scanLead(row)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return l, nil
}

func (s *PostgresStore) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	if !model.ValidLeadStatus(status) {
		return eris.Errorf("store: invalid lead status %q", status)
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3",
		string(status), time.Now().UTC(), id)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	return nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT DISTINCT jsonb_array_elements_text(product_match) FROM leads")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list products")
	}
	defer rows.Close()

	var products []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate products")
	}
	sort.Strings(products)
	return products, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{
		ByTier:   make(map[string]int),
		ByStatus: make(map[string]int),
		BySource: make(map[string]int),
	}

	row := s.pool.QueryRow(ctx, "SELECT COUNT(*), COALESCE(AVG(score), 0) FROM leads")
	if err := row.Scan(&stats.TotalLeads, &stats.AvgScore); err != nil {
		return nil, eris.Wrap(err, "postgres: stats totals")
	}

	for _, agg := range []struct {
		col  string
		dest map[string]int
	}{
		{"priority_tier", stats.ByTier},
		{"status", stats.ByStatus},
		{"source_system", stats.BySource},
	} {
		rows, err := s.pool.Query(ctx,
			fmt.Sprintf("SELECT %s, COUNT(*) FROM leads GROUP BY %s", agg.col, agg.col))
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: stats by %s", agg.col)
		}
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				rows.Close()
				return nil, eris.Wrapf(err, "postgres: scan stats by %s", agg.col)
			}
			agg.dest[key] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, eris.Wrapf(err, "postgres: iterate stats by %s", agg.col)
		}
		rows.Close()
	}
	return stats, nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, stage string, reference time.Time) (*model.Run, error) {
	run := &model.Run{
		ID:            uuid.New().String(),
		Stage:         stage,
		Status:        model.RunRunning,
		ReferenceTime: reference.UTC(),
		StartedAt:     time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, stage, status, reference_time, started_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Stage, string(run.Status), run.ReferenceTime, run.StartedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error {
	var summaryJSON any
	if summary != nil {
		b, err := json.Marshal(summary)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal run summary")
		}
		summaryJSON = string(b)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, summary = $2, finished_at = $3 WHERE id = $4`,
		string(status), summaryJSON, time.Now().UTC(), runID)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, stage, status, reference_time, summary, started_at, finished_at
		 FROM runs WHERE id = $1`, runID)
	run, err := scanRun(row)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	q := `SELECT id, stage, status, reference_time, summary, started_at, finished_at FROM runs`
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		q += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	q += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
