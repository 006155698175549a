package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pelestrom/mondjai-budget-manager/internal/server"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/budget"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/ledger"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/storage"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/tracker"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ledgerStore, err := ledger.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ev := budget.NewEvaluator(store, ledgerStore, 12*time.Hour, logger)
	tr := tracker.New(store, ev, logger)

	ts := httptest.NewServer(server.New(tr, "default", logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestTransactionEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount":   42.5,
		"type":     "expense",
		"category": "Food",
		"date":     time.Now().UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.Transaction
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "default", created.OwnerID)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var txs []model.Transaction
	decode(t, resp, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, 42.5, txs[0].Amount)

	resp = doJSON(t, ts, http.MethodDelete, "/api/v1/transactions/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodDelete, "/api/v1/transactions/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactionValidationError(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount": -5,
		"type":   "expense",
		"date":   "2025-06-15",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Exceeding the global budget through the API shows up in the
// notifications endpoint.
func TestBudgetFlowProducesNotification(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPut, "/api/v1/budgets/global", map[string]any{
		"amount": 100,
		"period": "monthly",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount": 150,
		"type":   "expense",
		"date":   time.Now().UTC().Format(time.RFC3339),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var notifs []model.Notification
	decode(t, resp, &notifs)
	require.Len(t, notifs, 1)
	assert.Equal(t, model.NotifError, notifs[0].Type)
	assert.Equal(t, "Global budget exceeded!", notifs[0].Title)

	// Mark it read, then clear.
	resp = doJSON(t, ts, http.MethodPost,
		fmt.Sprintf("/api/v1/notifications/%s/read", notifs[0].ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodDelete, "/api/v1/notifications", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/notifications", nil)
	decode(t, resp, &notifs)
	assert.Empty(t, notifs)
}

func TestListBudgetsShape(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPut, "/api/v1/budgets/global", map[string]any{
		"amount": 1000,
		"period": "monthly",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodPost, "/api/v1/budgets", map[string]any{
		"category_id": "cat-1",
		"amount":      200,
		"period":      "weekly",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/budgets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Global          *model.Budget  `json:"global"`
		CategoryBudgets []model.Budget `json:"category_budgets"`
	}
	decode(t, resp, &body)
	require.NotNil(t, body.Global)
	assert.Equal(t, 1000.0, body.Global.Amount)
	require.Len(t, body.CategoryBudgets, 1)
	assert.Equal(t, "cat-1", body.CategoryBudgets[0].CategoryID)
}

func TestOwnerHeaderScoping(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/categories",
		bytes.NewReader([]byte(`{"name":"Food"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", "alex")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Default owner does not see alex's category.
	resp = doJSON(t, ts, http.MethodGet, "/api/v1/categories", nil)
	var cats []model.Category
	decode(t, resp, &cats)
	assert.Empty(t, cats)
}

func TestSettingsRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st model.Settings
	decode(t, resp, &st)
	assert.True(t, st.NotificationsEnabled)

	st.NotificationsEnabled = false
	resp = doJSON(t, ts, http.MethodPut, "/api/v1/settings", st)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/settings", nil)
	decode(t, resp, &st)
	assert.False(t, st.NotificationsEnabled)
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Food"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount":   50,
		"type":     "expense",
		"category": "Food",
		"date":     time.Now().UTC().Format(time.RFC3339),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/stats?period=month", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum tracker.Summary
	decode(t, resp, &sum)
	assert.Equal(t, 50.0, sum.Expenses)
	require.Len(t, sum.ByCategory, 1)
	assert.Equal(t, "Food", sum.ByCategory[0].Name)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/stats?period=decade", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
