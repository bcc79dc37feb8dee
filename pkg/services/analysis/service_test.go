package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
	"github.com/de-tools/clarity/pkg/models/store"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/store/client"
	"github.com/de-tools/clarity/pkg/store/snapshot"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStatementClient struct {
	mock.Mock
}

func (m *mockStatementClient) GetStatement(
	ctx context.Context,
	kind domain.StatementKind,
	realmID string,
	period domain.Period,
) (raw.Report, error) {
	args := m.Called(ctx, kind, realmID, period)
	return args.Get(0).(raw.Report), args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) GetProfiles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockRegistry) GetCompany(ctx context.Context, name string) (config.Company, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(config.Company), args.Error(1)
}

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) Add(ctx context.Context, snap store.Snapshot) (store.Snapshot, error) {
	args := m.Called(ctx, snap)
	return args.Get(0).(store.Snapshot), args.Error(1)
}

func (m *mockSnapshotStore) Get(ctx context.Context, id string) (store.Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.Snapshot), args.Error(1)
}

func (m *mockSnapshotStore) List(ctx context.Context, company, kind string) ([]store.Snapshot, error) {
	args := m.Called(ctx, company, kind)
	return args.Get(0).([]store.Snapshot), args.Error(1)
}

const incomeStatement = `{"Header": {"ReportName": "ProfitAndLoss", "StartPeriod": "2024-01-01", "EndPeriod": "2024-03-31"},
  "Rows": {"Row": [
    {"group": "Income", "Header": {"ColData": [{"value": "Income"}]},
     "Rows": {"Row": [{"ColData": [{"value": "Services"}, {"value": "%s"}]}]},
     "Summary": {"ColData": [{"value": "Total Income"}, {"value": "%s"}]}},
    {"group": "NetIncome", "Summary": {"ColData": [{"value": "Net Income"}, {"value": "%s"}]}}
  ]}}`

func statement(t *testing.T, income, netIncome string) raw.Report {
	t.Helper()
	doc, err := raw.Decode([]byte(fmt.Sprintf(incomeStatement, income, income, netIncome)))
	require.NoError(t, err)
	return doc
}

func testContext(buf *bytes.Buffer) context.Context {
	logger := zerolog.New(buf)
	return logger.WithContext(context.Background())
}

func TestAnalyze(t *testing.T) {
	var logs bytes.Buffer
	svc := NewService(nil, nil)

	result := svc.Analyze(testContext(&logs), statement(t, "1000", "250"), domain.StatementUnknown)

	assert.Equal(t, domain.StatementProfitAndLoss, result.Report.Kind)
	assert.InDelta(t, 25, result.Report.Summary[domain.MetricNetMargin], 1e-9)
	require.NotNil(t, result.Health)
	assert.Equal(t, domain.Health{Score: 85, Label: domain.HealthExcellent}, *result.Health)
	require.NotEmpty(t, result.Insights)
	assert.Equal(t, "Positive Cash Flow", result.Insights[0].Title)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Focus on Top Revenue Drivers", result.Recommendations[0].Title)
	assert.Contains(t, logs.String(), `"message":"report analyzed"`)
}

func TestAnalyze_NoHealthForBalanceSheet(t *testing.T) {
	doc, err := raw.Decode([]byte(`{"Header": {"ReportName": "BalanceSheet"}}`))
	require.NoError(t, err)

	result := NewService(nil, nil).Analyze(context.Background(), doc, domain.StatementUnknown)

	assert.Nil(t, result.Health)
	assert.Empty(t, result.Insights)
	assert.Empty(t, result.Recommendations)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Start: "2024-01-01", End: "2024-03-31"}

	t.Run("fetches with the company realm", func(t *testing.T) {
		statements := new(mockStatementClient)
		registry := new(mockRegistry)
		registry.On("GetCompany", ctx, "acme").Return(config.Company{Name: "acme", RealmID: "42"}, nil)
		statements.On("GetStatement", ctx, domain.StatementProfitAndLoss, "42", period).
			Return(statement(t, "500", "-100"), nil)

		result, err := NewService(statements, registry).Fetch(ctx, "acme", domain.StatementProfitAndLoss, period)

		require.NoError(t, err)
		assert.InDelta(t, -20, result.Report.Summary[domain.MetricNetMargin], 1e-9)
		assert.Equal(t, "Negative Cash Flow", result.Insights[0].Title)
		statements.AssertExpectations(t)
		registry.AssertExpectations(t)
	})

	t.Run("unknown company", func(t *testing.T) {
		statements := new(mockStatementClient)
		registry := new(mockRegistry)
		registry.On("GetCompany", ctx, "initech").
			Return(config.Company{}, config.ErrCompanyNotFound)

		_, err := NewService(statements, registry).Fetch(ctx, "initech", domain.StatementProfitAndLoss, period)

		assert.True(t, errors.Is(err, config.ErrCompanyNotFound))
		statements.AssertNotCalled(t, "GetStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backend failure", func(t *testing.T) {
		statements := new(mockStatementClient)
		registry := new(mockRegistry)
		registry.On("GetCompany", ctx, "acme").Return(config.Company{Name: "acme", RealmID: "42"}, nil)
		statements.On("GetStatement", ctx, domain.StatementCashFlow, "42", period).
			Return(raw.Report{}, client.ErrAuthExpired)

		_, err := NewService(statements, registry).Fetch(ctx, "acme", domain.StatementCashFlow, period)

		assert.True(t, errors.Is(err, client.ErrAuthExpired))
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewService(nil, nil).Fetch(ctx, "acme", domain.StatementCashFlow, period)
		assert.Error(t, err)
	})
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	current := domain.Period{Start: "2024-04-01", End: "2024-06-30"}
	previous := domain.Period{Start: "2024-01-01", End: "2024-03-31"}

	statements := new(mockStatementClient)
	registry := new(mockRegistry)
	registry.On("GetCompany", ctx, "acme").Return(config.Company{Name: "acme", RealmID: "42"}, nil)
	statements.On("GetStatement", ctx, domain.StatementProfitAndLoss, "42", current).
		Return(statement(t, "1500", "300"), nil)
	statements.On("GetStatement", ctx, domain.StatementProfitAndLoss, "42", previous).
		Return(statement(t, "1000", "200"), nil)

	comparison, err := NewService(statements, registry).
		Compare(ctx, "acme", domain.StatementProfitAndLoss, current, previous)

	require.NoError(t, err)
	assert.Equal(t, domain.StatementProfitAndLoss, comparison.Kind)
	require.Len(t, comparison.Sections, 2)
	assert.InDelta(t, 50, comparison.Sections[0].Total.PercentChange, 1e-9)
	assert.Equal(t, "Services", comparison.Sections[0].Items[0].Name)
	statements.AssertExpectations(t)
}

func TestCompareReports_UsesCurrentKind(t *testing.T) {
	cur := statement(t, "10", "1")
	prev, err := raw.Decode([]byte(`{"Rows": {"Row": [{"group": "Income", "Header": {"ColData": [{"value": "Income"}]},
	  "Summary": {"ColData": [{"value": "Total"}, {"value": "5"}]}}]}}`))
	require.NoError(t, err)

	comparison := NewService(nil, nil).CompareReports(context.Background(), cur, prev, domain.StatementUnknown)

	assert.Equal(t, domain.StatementProfitAndLoss, comparison.Kind)
	var metricNames []string
	for _, m := range comparison.Metrics {
		metricNames = append(metricNames, m.Name)
	}
	assert.Contains(t, metricNames, domain.MetricTotalIncome)
}

func TestCompanies(t *testing.T) {
	ctx := context.Background()
	registry := new(mockRegistry)
	registry.On("GetProfiles", ctx).Return([]string{"acme", "broken"}, nil)
	registry.On("GetCompany", ctx, "acme").Return(config.Company{Name: "acme", RealmID: "42"}, nil)
	registry.On("GetCompany", ctx, "broken").Return(config.Company{}, errors.New("empty realm_id"))

	companies, err := NewService(nil, registry).Companies(ctx)

	require.NoError(t, err)
	assert.Equal(t, []config.Company{{Name: "acme", RealmID: "42"}}, companies)
}

func TestFetch_KeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Start: "2024-01-01", End: "2024-03-31"}

	statements := new(mockStatementClient)
	registry := new(mockRegistry)
	snapshots := new(mockSnapshotStore)
	registry.On("GetCompany", ctx, "acme").Return(config.Company{Name: "acme", RealmID: "42"}, nil)
	statements.On("GetStatement", ctx, domain.StatementProfitAndLoss, "42", period).
		Return(statement(t, "500", "100"), nil)
	snapshots.On("Add", ctx, mock.MatchedBy(func(snap store.Snapshot) bool {
		doc, err := raw.Decode(snap.Document)
		return err == nil &&
			snap.Company == "acme" &&
			snap.Kind == "ProfitAndLoss" &&
			snap.Start == "2024-01-01" &&
			snap.End == "2024-03-31" &&
			doc.HeaderOrEmpty().ReportName.String() == "ProfitAndLoss"
	})).Return(store.Snapshot{ID: "snap-1"}, nil)

	_, err := NewService(statements, registry, WithSnapshots(snapshots)).
		Fetch(ctx, "acme", domain.StatementProfitAndLoss, period)

	require.NoError(t, err)
	snapshots.AssertExpectations(t)
}

func TestFetch_KeepsBackendDocument(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{"Header": {"ReportName": "CashFlow"}, "Columns": {"Column": [{"ColType": "Money"}]}, "Rows": {}}`)
	doc, err := raw.Decode(body)
	require.NoError(t, err)
	doc.Source = body

	statements := new(mockStatementClient)
	registry := new(mockRegistry)
	snapshots := new(mockSnapshotStore)
	registry.On("GetCompany", ctx, "acme").Return(config.Company{Name: "acme", RealmID: "42"}, nil)
	statements.On("GetStatement", ctx, domain.StatementCashFlow, "42", domain.Period{}).Return(doc, nil)
	snapshots.On("Add", ctx, mock.MatchedBy(func(snap store.Snapshot) bool {
		return string(snap.Document) == string(body)
	})).Return(store.Snapshot{ID: "snap-1"}, nil)

	_, err = NewService(statements, registry, WithSnapshots(snapshots)).
		Fetch(ctx, "acme", domain.StatementCashFlow, domain.Period{})

	require.NoError(t, err)
	snapshots.AssertExpectations(t)
}

func TestFetch_SnapshotFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	statements := new(mockStatementClient)
	registry := new(mockRegistry)
	snapshots := new(mockSnapshotStore)
	registry.On("GetCompany", ctx, "acme").Return(config.Company{Name: "acme", RealmID: "42"}, nil)
	statements.On("GetStatement", ctx, domain.StatementProfitAndLoss, "42", domain.Period{}).
		Return(statement(t, "500", "100"), nil)
	snapshots.On("Add", ctx, mock.Anything).Return(store.Snapshot{}, errors.New("disk full"))

	result, err := NewService(statements, registry, WithSnapshots(snapshots)).
		Fetch(ctx, "acme", domain.StatementProfitAndLoss, domain.Period{})

	require.NoError(t, err)
	assert.Equal(t, domain.StatementProfitAndLoss, result.Report.Kind)
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		_, err := NewService(nil, nil).Snapshots(ctx, "acme", domain.StatementUnknown)
		assert.True(t, errors.Is(err, ErrSnapshotsDisabled))

		_, err = NewService(nil, nil).AnalyzeSnapshot(ctx, "snap-1")
		assert.True(t, errors.Is(err, ErrSnapshotsDisabled))
	})

	t.Run("unknown kind lists every kind", func(t *testing.T) {
		snapshots := new(mockSnapshotStore)
		snapshots.On("List", ctx, "acme", "").Return([]store.Snapshot{{ID: "snap-1"}}, nil)

		list, err := NewService(nil, nil, WithSnapshots(snapshots)).Snapshots(ctx, "acme", domain.StatementUnknown)

		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("analyze stored statement", func(t *testing.T) {
		snapshots := new(mockSnapshotStore)
		snapshots.On("Get", ctx, "snap-1").Return(store.Snapshot{
			ID:       "snap-1",
			Kind:     "ProfitAndLoss",
			Document: []byte(fmt.Sprintf(incomeStatement, "1000", "1000", "250")),
		}, nil)

		result, err := NewService(nil, nil, WithSnapshots(snapshots)).AnalyzeSnapshot(ctx, "snap-1")

		require.NoError(t, err)
		assert.InDelta(t, 25, result.Report.Summary[domain.MetricNetMargin], 1e-9)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		snapshots := new(mockSnapshotStore)
		snapshots.On("Get", ctx, "gone").Return(store.Snapshot{}, snapshot.ErrNotFound)

		_, err := NewService(nil, nil, WithSnapshots(snapshots)).AnalyzeSnapshot(ctx, "gone")

		assert.True(t, errors.Is(err, snapshot.ErrNotFound))
	})
}
