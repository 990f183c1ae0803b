package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/furnacex/intel-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
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
	submission_date  DATETIME,
	source_url       TEXT NOT NULL DEFAULT '',
	signal_type      TEXT NOT NULL DEFAULT '',
	product_match    TEXT NOT NULL DEFAULT '[]',
	keywords_matched TEXT NOT NULL DEFAULT '{}',
	score            REAL NOT NULL DEFAULT 0,
	priority_tier    TEXT NOT NULL DEFAULT '',
	territory        TEXT NOT NULL DEFAULT '',
	officer          TEXT,
	status           TEXT NOT NULL DEFAULT 'NEW',
	raw_data         TEXT NOT NULL DEFAULT '{}',
	scraped_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	stage          TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	reference_time DATETIME NOT NULL,
	summary        TEXT,
	started_at     DATETIME NOT NULL,
	finished_at    DATETIME
);

CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(score);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_tier ON leads(priority_tier);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertLeads inserts or refreshes leads in one transaction. The status
// column is deliberately absent from the update set: once the dashboard
// claims a lead, pipeline re-runs never reset it.
func (s *SQLiteStore) UpsertLeads(ctx context.Context, leads []*model.Lead) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO leads (
			id, source_system, company_name, project_name, description,
			location, state, sector, category, proposal_status,
			submission_date, source_url, signal_type, product_match,
			keywords_matched, score, priority_tier, territory, officer,
			status, raw_data, scraped_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_system = excluded.source_system,
			company_name = excluded.company_name,
			project_name = excluded.project_name,
			description = excluded.description,
			location = excluded.location,
			state = excluded.state,
			sector = excluded.sector,
			category = excluded.category,
			proposal_status = excluded.proposal_status,
			submission_date = excluded.submission_date,
			source_url = excluded.source_url,
			signal_type = excluded.signal_type,
			product_match = excluded.product_match,
			keywords_matched = excluded.keywords_matched,
			score = excluded.score,
			priority_tier = excluded.priority_tier,
			territory = excluded.territory,
			officer = excluded.officer,
			raw_data = excluded.raw_data,
			scraped_at = excluded.scraped_at,
			updated_at = excluded.updated_at`

	now := time.Now().UTC()
	for _, lead := range leads {
		fields, err := leadFields(lead)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: serialize lead %s", lead.ID)
		}
		args := append(fields, string(lead.Status), mustJSON(lead.RawData), lead.ScrapedAt.UTC(), now)
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert lead %s", lead.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return len(leads), nil
}

// leadFields returns the columns common to insert statements up through
// officer, in schema order.
func leadFields(l *model.Lead) ([]any, error) {
	var officer any
	if l.Officer != nil {
		b, err := json.Marshal(l.Officer)
		if err != nil {
			return nil, err
		}
		officer = string(b)
	}

	var submitted any
	if l.SubmissionDate != nil {
		submitted = l.SubmissionDate.UTC()
	}

	return []any{
		l.ID, string(l.SourceSystem), l.CompanyName, l.ProjectName, l.Description,
		l.Location, string(l.State), string(l.Sector), string(l.Category), string(l.ProposalStatus),
		submitted, l.SourceURL, string(l.SignalType), mustJSON(l.ProductMatch),
		mustJSON(l.KeywordsMatched), l.Score, string(l.PriorityTier), l.Territory, officer,
	}, nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

const leadColumns = `id, source_system, company_name, project_name, description,
	location, state, sector, category, proposal_status, submission_date,
	source_url, signal_type, product_match, keywords_matched, score,
	priority_tier, territory, officer, status, raw_data, scraped_at`

// rowScanner is satisfied by *sql.Row, *sql.Rows, and pgx rows, letting both
// backends share one lead scanner.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*model.Lead, error) {
	var l model.Lead
	var submitted sql.NullTime
	var officer sql.NullString
	var products, keywords, raw string

	err := row.Scan(
		&l.ID, &l.SourceSystem, &l.CompanyName, &l.ProjectName, &l.Description,
		&l.Location, &l.State, &l.Sector, &l.Category, &l.ProposalStatus,
		&submitted, &l.SourceURL, &l.SignalType, &products, &keywords,
		&l.Score, &l.PriorityTier, &l.Territory, &officer, &l.Status,
		&raw, &l.ScrapedAt,
	)
	if err != nil {
		return nil, err
	}

	if submitted.Valid {
		t := submitted.Time.UTC()
		l.SubmissionDate = &t
	}
	if officer.Valid && officer.String != "" {
		var oa model.OfficerAssignment
		if err := json.Unmarshal([]byte(officer.String), &oa); err != nil {
			return nil, eris.Wrapf(err, "store: decode officer for lead %s", l.ID)
		}
		l.Officer = &oa
	}
	if err := json.Unmarshal([]byte(products), &l.ProductMatch); err != nil {
		return nil, eris.Wrapf(err, "store: decode products for lead %s", l.ID)
	}
	if err := json.Unmarshal([]byte(keywords), &l.KeywordsMatched); err != nil {
		return nil, eris.Wrapf(err, "store: decode keywords for lead %s", l.ID)
	}
	if err := json.Unmarshal([]byte(raw), &l.RawData); err != nil {
		return nil, eris.Wrapf(err, "store: decode raw data for lead %s", l.ID)
	}
	l.ScrapedAt = l.ScrapedAt.UTC()
	return &l, nil
}

// leadQuery builds the filtered list query with ?-style placeholders.
func leadQuery(filter LeadFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Product != "" {
		conds = append(conds, "product_match LIKE ?")
		args = append(args, `%"`+filter.Product+`"%`)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Tier != "" {
		conds = append(conds, "priority_tier = ?")
		args = append(args, string(filter.Tier))
	}
	if filter.MinScore > 0 {
		conds = append(conds, "score >= ?")
		args = append(args, filter.MinScore)
	}

	q := "SELECT " + leadColumns + " FROM leads"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY score DESC, id"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		q += " OFFSET ?"
		args = append(args, filter.Offset)
	}
	return q, args
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	q, args := leadQuery(filter)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE id = ?", id)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}
	return l, nil
}

func (s *SQLiteStore) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	if !model.ValidLeadStatus(status) {
		return eris.Errorf("store: invalid lead status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE leads SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().UTC(), id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead status %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

// ListProducts returns the distinct products matched across all leads,
// sorted. SQLite has no JSON array aggregation worth relying on here, so
// the rows are decoded in Go.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT product_match FROM leads")
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list products")
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan products")
		}
		var products []string
		if err := json.Unmarshal([]byte(blob), &products); err != nil {
			continue
		}
		for _, p := range products {
			set[p] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate products")
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{
		ByTier:   make(map[string]int),
		ByStatus: make(map[string]int),
		BySource: make(map[string]int),
	}

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(AVG(score), 0) FROM leads")
	if err := row.Scan(&stats.TotalLeads, &stats.AvgScore); err != nil {
		return nil, eris.Wrap(err, "sqlite: stats totals")
	}

	for col, dest := range map[string]map[string]int{
		"priority_tier": stats.ByTier,
		"status":        stats.ByStatus,
		"source_system": stats.BySource,
	} {
		rows, err := s.db.QueryContext(ctx,
			fmt.Sprintf("SELECT %s, COUNT(*) FROM leads GROUP BY %s", col, col))
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: stats by %s", col)
		}
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				rows.Close()
				return nil, eris.Wrapf(err, "sqlite: scan stats by %s", col)
			}
			dest[key] = n
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, eris.Wrapf(err, "sqlite: iterate stats by %s", col)
		}
		rows.Close()
	}
	return stats, nil
}

func (s *SQLiteStore) CreateRun(ctx context.Context, stage string, reference time.Time) (*model.Run, error) {
	run := &model.Run{
		ID:            uuid.New().String(),
		Stage:         stage,
		Status:        model.RunRunning,
		ReferenceTime: reference.UTC(),
		StartedAt:     time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, stage, status, reference_time, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Stage, string(run.Status), run.ReferenceTime, run.StartedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error {
	var summaryJSON any
	if summary != nil {
		b, err := json.Marshal(summary)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal run summary")
		}
		summaryJSON = string(b)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, summary = ?, finished_at = ? WHERE id = ?`,
		string(status), summaryJSON, time.Now().UTC(), runID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, stage, status, reference_time, summary, started_at, finished_at
		 FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	q := `SELECT id, stage, status, reference_time, summary, started_at, finished_at FROM runs`
	var args []any
	if filter.Status != "" {
		q += " WHERE status = ?"
		args = append(args, string(filter.Status))
	}
	q += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		q += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var summary sql.NullString
	var finished sql.NullTime

	if err := row.Scan(&run.ID, &run.Stage, &run.Status, &run.ReferenceTime,
		&summary, &run.StartedAt, &finished); err != nil {
		return nil, err
	}
	if summary.Valid && summary.String != "" {
		var s model.RunSummary
		if err := json.Unmarshal([]byte(summary.String), &s); err != nil {
			return nil, eris.Wrapf(err, "store: decode summary for run %s", run.ID)
		}
		run.Summary = &s
	}
	if finished.Valid {
		t := finished.Time.UTC()
		run.FinishedAt = &t
	}
	run.ReferenceTime = run.ReferenceTime.UTC()
	run.StartedAt = run.StartedAt.UTC()
	return &run, nil
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "store: rows affected for %s %s", kind, id)
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", kind, id)
	}
	return nil
}
