package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"gouncertain/adapters/postgres"
	"gouncertain/app"
	"gouncertain/internal"
	"gouncertain/internal/errors"
	"gouncertain/internal/migration"
	"gouncertain/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyPage struct {
	Decisions []app.DecisionReport `json:"decisions"`
	Count     int                  `json:"count"`
}

func newLedgerServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())
	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	ledger := postgres.NewDecisionLedger(db)

	kit, err := testkit.NewTestKit()
	require.NoError(t, err)

	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	decisions := app.NewDecisionService(kit.Evaluator(), kit.RNGAdapter(), logger, 2).WithLedger(ledger)
	return NewServer(decisions, testSeed, logger).WithLedger(ledger)
}

func TestHistory_DecisionIsRetrievable(t *testing.T) {
	s := newLedgerServer(t)

	w := do(t, s, http.MethodPost, "/v1/decisions",
		`{"hypothesis_id":"sure-thing","target":0.4,"value":{"kind":"bernoulli","p":1}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode[app.DecisionReport](t, w)

	w = do(t, s, http.MethodGet, "/v1/decisions/"+report.Fingerprint.String(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := decode[app.DecisionReport](t, w)
	assert.Equal(t, report.Outcome, stored.Outcome)
	assert.Equal(t, report.RunID, stored.RunID)

	w = do(t, s, http.MethodGet, "/v1/runs/"+report.RunID.String()+"/decisions", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[historyPage](t, w).Count)
}

func TestHistory_ListsHypothesisDecisions(t *testing.T) {
	s := newLedgerServer(t)

	for _, seed := range []string{"1", "2", "3"} {
		w := do(t, s, http.MethodPost, "/v1/decisions",
			`{"hypothesis_id":"coin","target":0.4,"seed":`+seed+`,"value":{"kind":"bernoulli","p":1}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := do(t, s, http.MethodGet, "/v1/hypotheses/coin/decisions?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[historyPage](t, w)
	assert.Equal(t, 2, page.Count)
	for _, d := range page.Decisions {
		assert.Equal(t, "coin", d.HypothesisID.String())
	}

	w = do(t, s, http.MethodGet, "/v1/hypotheses/coin/decisions", "")
	assert.Equal(t, 3, decode[historyPage](t, w).Count)

	w = do(t, s, http.MethodGet, "/v1/hypotheses/coin/decisions?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistory_UnknownFingerprint(t *testing.T) {
	s := newLedgerServer(t)

	w := do(t, s, http.MethodGet, "/v1/decisions/deadbeef", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.CodeNotFound, decode[ErrorResponse](t, w).Code)
}

func TestHistory_RequiresLedger(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/v1/runs/anything/decisions", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, errors.CodeUnavailable, decode[ErrorResponse](t, w).Code)
}
