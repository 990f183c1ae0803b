package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnacex/intel-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetLead_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .* FROM leads WHERE id = \$1`).
		WithArgs("INT-CPPP-404").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLead(context.Background(), "INT-CPPP-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateLeadStatus(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	t.Run("updates row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE leads SET status = \$1`).
			WithArgs("CONTACTED", pgxmock.AnyArg(), "INT-CPPP-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := s.UpdateLeadStatus(context.Background(), "INT-CPPP-1", model.LeadContacted)
		require.NoError(t, err)
	})

	t.Run("missing lead", func(t *testing.T) {
		mock.ExpectExec(`UPDATE leads SET status = \$1`).
			WithArgs("CONTACTED", pgxmock.AnyArg(), "INT-CPPP-404").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := s.UpdateLeadStatus(context.Background(), "INT-CPPP-404", model.LeadContacted)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid status never hits the pool", func(t *testing.T) {
		err := s.UpdateLeadStatus(context.Background(), "INT-CPPP-1", model.LeadStatus("bogus"))
		assert.ErrorContains(t, err, "invalid lead status")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProducts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT DISTINCT jsonb_array_elements_text`).
		WillReturnRows(pgxmock.NewRows([]string{"product"}).
			AddRow("Lubricants").
			AddRow("Bitumen").
			AddRow("HSD"))

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bitumen", "HSD", "Lubricants"}, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Stats(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(AVG\(score\), 0\) FROM leads`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg"}).AddRow(3, 61.5))
	mock.ExpectQuery(`SELECT priority_tier, COUNT\(\*\) FROM leads GROUP BY priority_tier`).
		WillReturnRows(pgxmock.NewRows([]string{"priority_tier", "count"}).
			AddRow("Tier 1", 1).AddRow("Tier 2", 2))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM leads GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).AddRow("NEW", 3))
	mock.ExpectQuery(`SELECT source_system, COUNT\(\*\) FROM leads GROUP BY source_system`).
		WillReturnRows(pgxmock.NewRows([]string{"source_system", "count"}).
			AddRow("parivesh", 2).AddRow("cppp", 1))

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalLeads)
	assert.InDelta(t, 61.5, stats.AvgScore, 1e-9)
	assert.Equal(t, 1, stats.ByTier["Tier 1"])
	assert.Equal(t, 3, stats.ByStatus["NEW"])
	assert.Equal(t, 2, stats.BySource["parivesh"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RunLifecycle(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	reference := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "score", "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "score", reference)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunRunning, run.Status)

	mock.ExpectExec(`UPDATE runs SET status = \$1`).
		WithArgs("completed", pgxmock.AnyArg(), pgxmock.AnyArg(), run.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = s.CompleteRun(context.Background(), run.ID, model.RunCompleted, &model.RunSummary{Leads: 5})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGLeadQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   LeadFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "no filters",
			filter:   LeadFilter{},
			wantSQL:  "SELECT " + leadColumns + " FROM leads ORDER BY score DESC, id",
			wantArgs: nil,
		},
		{
			name:   "product and min score",
			filter: LeadFilter{Product: "Bitumen", MinScore: 40},
			wantSQL: "SELECT " + leadColumns + ` FROM leads WHERE product_match::text LIKE $1 AND score >= $2` +
				" ORDER BY score DESC, id",
			wantArgs: []any{`%"Bitumen"%`, 40.0},
		},
		{
			name:   "paged tier filter",
			filter: LeadFilter{Tier: model.Tier1, Limit: 25, Offset: 50},
			wantSQL: "SELECT " + leadColumns + ` FROM leads WHERE priority_tier = $1` +
				" ORDER BY score DESC, id LIMIT $2 OFFSET $3",
			wantArgs: []any{"Tier 1", 25, 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := pgLeadQuery(tt.filter)
			assert.Equal(t, tt.wantSQL, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
