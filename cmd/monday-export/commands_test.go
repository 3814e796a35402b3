package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"monday-export/internal/config"
	"monday-export/internal/models"
	"monday-export/internal/store"
)

const boardFixture = `{"data":{"boards":[{
  "id":"42","name":"Q1 Plan","description":"Quarter plan","state":"active",
  "columns":[{"id":"date4","title":"Due","type":"date"}],
  "groups":[{"id":"topics","title":"Topics","color":"#579bfc"}]
}]}}`

const itemsFixture = `{"data":{"boards":[{"items_page":{"cursor":null,"items":[
  {"id":"1001","name":"Kickoff","group":{"id":"topics","title":"Topics"},
   "column_values":[{"id":"date4","text":"2024-01-15","type":"date","value":"{\"date\":\"2024-01-15\"}","column":{"title":"Due"}}]}
]}}]}}`

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if got := r.Header.Get("User-Agent"); got != "monday-export/"+version {
			t.Errorf("unexpected user agent %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(req.Query, "items_page") {
			_, _ = w.Write([]byte(itemsFixture))
			return
		}
		_, _ = w.Write([]byte(boardFixture))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	t.Setenv(logLevelEnvKey, "")
	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.APIToken = "secret-token"
	return &cfg
}

func runRoot(t *testing.T, cfg *config.Config, args ...string) error {
	t.Helper()
	cmd := newRootCmd(func() (*config.Config, error) { return cfg, nil })
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRootHelpSkipsConfigLoading(t *testing.T) {
	loadErr := &config.ConfigError{Field: "page_size", Reason: "MONDAY_PAGE_SIZE must be an integer"}
	cmd := newRootCmd(func() (*config.Config, error) { return nil, loadErr })
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"export", "--help"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	cmd = newRootCmd(func() (*config.Config, error) { return nil, loadErr })
	cmd.SetArgs([]string{"export", "-b", "42"})
	err := cmd.ExecuteContext(context.Background())
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "page_size", cfgErr.Field)
	assert.True(t, strings.HasPrefix(formatCLIError(err)[0], "Configuration error: "))
}

func TestExportCommandWritesWorkbookAndHistory(t *testing.T) {
	srv := newBoardServer(t)
	cfg := testConfig(t, srv.URL)
	dir := t.TempDir()
	output := filepath.Join(dir, "out", "plan.xlsx")
	historyDB := filepath.Join(dir, "history.db")

	err := runRoot(t, cfg, "export", "--board-id", "42", "--output", output, "--history-db", historyDB)
	require.NoError(t, err)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Q1 Plan", "Summary"}, f.GetSheetList())
	name, err := f.GetCellValue("Q1 Plan", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", name)

	st, err := store.Open(historyDB)
	require.NoError(t, err)
	defer st.Close()
	records, err := st.ListExports(context.Background(), store.ExportFilter{BoardID: "42"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Q1 Plan", records[0].BoardName)
	assert.Equal(t, 1, records[0].ItemCount)
	assert.Equal(t, "plan.xlsx", filepath.Base(records[0].Path))
}

func TestExportCommandRequiresBoardID(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	err := runRoot(t, cfg, "export")
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "board_id", cfgErr.Field)
	assert.True(t, strings.HasPrefix(formatCLIError(err)[0], "Configuration error: "))
}

func TestExportCommandRequiresToken(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.APIToken = ""

	err := runRoot(t, cfg, "export", "-b", "42")
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_token", cfgErr.Field)
}

func TestExportCommandRejectsPageSizeFlag(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	err := runRoot(t, cfg, "export", "-b", "42", "--page-size", "5000")
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "page_size", cfgErr.Field)
}

func TestExportCommandReportsRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Not Authenticated"}]}`))
	}))
	t.Cleanup(srv.Close)
	cfg := testConfig(t, srv.URL)

	err := runRoot(t, cfg, "export", "-b", "42", "-o", filepath.Join(t.TempDir(), "x.xlsx"))
	var fetchErr *fetchError
	require.True(t, errors.As(err, &fetchErr), "expected fetchError, got %v", err)

	lines := formatCLIError(err)
	assert.True(t, strings.HasPrefix(lines[0], "Failed to fetch board: "))
	assert.Contains(t, lines, "hint: verify MONDAY_API_TOKEN or --api-token; the token may be expired or lack board access.")
}

func TestSnapshotCommandWritesYAML(t *testing.T) {
	srv := newBoardServer(t)
	cfg := testConfig(t, srv.URL)
	output := filepath.Join(t.TempDir(), "board.yaml")

	err := runRoot(t, cfg, "snapshot", "-b", "42", "--format", "yaml", "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var board models.Board
	require.NoError(t, yaml.Unmarshal(data, &board))
	assert.Equal(t, "Q1 Plan", board.Name)
	require.Len(t, board.Items, 1)
	assert.Equal(t, "Kickoff", board.Items[0].Name)
}

func TestSnapshotCommandRejectsUnknownFormat(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	err := runRoot(t, cfg, "snapshot", "-b", "42", "--format", "csv")
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "format", cfgErr.Field)
}

func TestHistoryCommandRequiresDatabase(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	err := runRoot(t, cfg, "history")
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "history_db", cfgErr.Field)
}

func TestHistoryCommandListsExports(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	historyDB := filepath.Join(t.TempDir(), "history.db")

	st, err := store.Open(historyDB)
	require.NoError(t, err)
	require.NoError(t, st.RecordExport(context.Background(), &models.ExportRecord{
		BoardID: "42", BoardName: "Q1 Plan", ItemCount: 1200, Path: "/tmp/Q1_Plan.xlsx",
		ExportedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, st.Close())

	require.NoError(t, runRoot(t, cfg, "history", "--history-db", historyDB, "--board-id", "42"))
	require.NoError(t, runRoot(t, cfg, "history", "--history-db", historyDB, "--json"))
}

func TestHistoryMigrateCommand(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	historyDB := filepath.Join(t.TempDir(), "history.db")

	require.NoError(t, runRoot(t, cfg, "history", "migrate", "--dry-run", "--history-db", historyDB))
	plan, err := store.InspectMigrations(historyDB)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.CurrentVersion)
	assert.Len(t, plan.Pending, 2)

	require.NoError(t, runRoot(t, cfg, "history", "migrate", "--history-db", historyDB, "--json"))
	plan, err = store.InspectMigrations(historyDB)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.CurrentVersion)
	assert.Empty(t, plan.Pending)
}

func TestHistoryMigrateRequiresDatabase(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	err := runRoot(t, cfg, "history", "migrate", "--dry-run")
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "history_db", cfgErr.Field)
}

func TestExportSummaryLine(t *testing.T) {
	line := exportSummaryLine(exportResult{BoardName: "Q1 Plan", ItemCount: 1234, Path: "/tmp/Q1_Plan.xlsx"})
	assert.Equal(t, "Successfully exported board Q1 Plan (1,234 items) to /tmp/Q1_Plan.xlsx", line)
}

func TestFormatHistoryLine(t *testing.T) {
	line := formatHistoryLine(models.ExportRecord{
		BoardID:    "42",
		BoardName:  strings.Repeat("Roadmap ", 10),
		ItemCount:  1200,
		Path:       "/tmp/Roadmap.xlsx",
		ExportedAt: time.Now().Add(-2 * time.Hour),
	})
	assert.Contains(t, line, "…")
	assert.Contains(t, line, "1,200 items")
	assert.Contains(t, line, "2 hours ago")
}
