package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driving"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	run    *domain.SyncRun
	err    error
	tables []string
	calls  int
}

func (m *mockSyncOrchestrator) SyncAll(ctx context.Context) (*domain.SyncRun, error) {
	return m.SyncTables(ctx, nil)
}

func (m *mockSyncOrchestrator) SyncTables(_ context.Context, tables []string) (*domain.SyncRun, error) {
	m.calls++
	m.tables = tables
	return m.run, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

// mockStateService implements driving.StateService for testing.
type mockStateService struct {
	state    *domain.SyncState
	runs     []domain.SyncRun
	reset    []string
	resetAll bool
	imported []byte
	err      error
}

func (m *mockStateService) Show(_ context.Context) (*domain.SyncState, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.state == nil {
		return domain.NewSyncState(), nil
	}
	return m.state, nil
}

func (m *mockStateService) Reset(_ context.Context, table string) error {
	if m.err != nil {
		return m.err
	}
	m.reset = append(m.reset, table)
	return nil
}

func (m *mockStateService) ResetAll(_ context.Context) error {
	m.resetAll = true
	return m.err
}

func (m *mockStateService) Import(_ context.Context, data []byte) error {
	m.imported = data
	return m.err
}

func (m *mockStateService) Runs(_ context.Context, limit int) ([]domain.SyncRun, error) {
	if len(m.runs) > limit {
		return m.runs[:limit], m.err
	}
	return m.runs, m.err
}

// mockCatalogue implements driving.Catalogue for testing.
type mockCatalogue struct{}

func (mockCatalogue) Tables() domain.Registry {
	return domain.Registry{
		{Name: "cities", Path: "/api/v2/cities", Kind: domain.KindSnapshot, EnvelopeKey: "cities", PrimaryKey: []string{"id"}},
		{Name: "job_events", Path: "/api/v2/job_events", Kind: domain.KindJobEvents, PrimaryKey: []string{"event_id"}},
	}
}

func (mockCatalogue) Schema() []domain.TableSchema {
	return []domain.TableSchema{
		{Table: "cities", PrimaryKey: []string{"id"}, Columns: []domain.Column{
			{Name: "id", Type: domain.TypeLong},
			{Name: "name", Type: domain.TypeString},
		}},
		{Table: "job_events", PrimaryKey: []string{"event_id"}, Columns: []domain.Column{
			{Name: "event_id", Type: domain.TypeString},
			{Name: "created_at", Type: domain.TypeUTCDateTime},
		}},
	}
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	cfg         domain.Config
	validateErr error
	saved       bool
}

func (m *mockSettingsService) Path() string { return "/tmp/boltsync.toml" }

func (m *mockSettingsService) Get() (domain.Config, error) { return m.cfg, nil }

func (m *mockSettingsService) Redacted() (domain.Config, error) { return m.cfg.Redacted(), nil }

func (m *mockSettingsService) SetCredentials(baseURL, token string) error {
	if strings.TrimSpace(token) == "" {
		return domain.ErrConfig
	}
	m.cfg.BaseURL = baseURL
	m.cfg.APIToken = token
	m.saved = true
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

var errMock = errors.New("mock failure")

func sampleRun() *domain.SyncRun {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.SyncRun{
		ID:        "run-1",
		StartedAt: start,
		EndedAt:   start.Add(2 * time.Second),
		Tables: []domain.TableResult{
			{Table: "cities", Outcome: domain.OutcomeCompleted, Records: 3, Pages: 2},
			{Table: "job_events", Outcome: domain.OutcomeStalled, Records: 1, Pages: 1},
		},
	}
}

// setupServices installs mocks and restores the previous services on cleanup.
func setupServices(t *testing.T) (*mockSyncOrchestrator, *mockStateService, *mockSettingsService) {
	t.Helper()

	oldSettings, oldSync, oldDry := settingsService, syncOrchestrator, dryRunOrchestrator
	oldState, oldCatalogue := stateService, catalogue

	orch := &mockSyncOrchestrator{run: sampleRun()}
	state := &mockStateService{}
	settings := &mockSettingsService{cfg: domain.DefaultConfig()}

	settingsService = settings
	syncOrchestrator = orch
	dryRunOrchestrator = nil
	stateService = state
	catalogue = mockCatalogue{}

	syncTables = nil
	syncDryRun = false
	syncMetricsFile = ""
	schemaFormat = "table"
	runsLimit = 10
	stateResetAll = false
	configInitBaseURL = ""
	configInitToken = ""

	t.Cleanup(func() {
		settingsService, syncOrchestrator, dryRunOrchestrator = oldSettings, oldSync, oldDry
		stateService, catalogue = oldState, oldCatalogue
	})
	return orch, state, settings
}

// execute runs the root command with args and returns the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
