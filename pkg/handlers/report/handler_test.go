package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/clarity/pkg/models/api"
	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
	"github.com/de-tools/clarity/pkg/models/store"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/store/client"
	"github.com/de-tools/clarity/pkg/store/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalysis struct {
	mock.Mock
}

func (m *mockAnalysis) Analyze(ctx context.Context, doc raw.Report, hint domain.StatementKind) domain.Analysis {
	args := m.Called(ctx, doc, hint)
	return args.Get(0).(domain.Analysis)
}

func (m *mockAnalysis) CompareReports(
	ctx context.Context,
	current, previous raw.Report,
	hint domain.StatementKind,
) domain.Comparison {
	args := m.Called(ctx, current, previous, hint)
	return args.Get(0).(domain.Comparison)
}

func (m *mockAnalysis) Fetch(
	ctx context.Context,
	company string,
	kind domain.StatementKind,
	period domain.Period,
) (domain.Analysis, error) {
	args := m.Called(ctx, company, kind, period)
	return args.Get(0).(domain.Analysis), args.Error(1)
}

func (m *mockAnalysis) Compare(
	ctx context.Context,
	company string,
	kind domain.StatementKind,
	current, previous domain.Period,
) (domain.Comparison, error) {
	args := m.Called(ctx, company, kind, current, previous)
	return args.Get(0).(domain.Comparison), args.Error(1)
}

func (m *mockAnalysis) Companies(ctx context.Context) ([]config.Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]config.Company), args.Error(1)
}

func (m *mockAnalysis) Snapshots(
	ctx context.Context,
	company string,
	kind domain.StatementKind,
) ([]store.Snapshot, error) {
	args := m.Called(ctx, company, kind)
	return args.Get(0).([]store.Snapshot), args.Error(1)
}

func (m *mockAnalysis) AnalyzeSnapshot(ctx context.Context, id string) (domain.Analysis, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Analysis), args.Error(1)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	ctx := chi.NewRouteContext()
	for k, v := range params {
		ctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

var analyzed = domain.Analysis{
	Report: domain.Report{
		Kind:    domain.StatementProfitAndLoss,
		Summary: map[string]float64{domain.MetricNetIncome: 250},
	},
	Insights: []domain.Insight{{Kind: domain.InsightPositive, Title: "Positive Cash Flow", Description: "d"}},
	Health:   &domain.Health{Score: 85, Label: domain.HealthExcellent},
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		body           string
		setupMock      func(*mockAnalysis)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "kind from query",
			query: "?kind=profit-loss",
			body:  `{"Header": {"ReportName": "ProfitAndLoss"}}`,
			setupMock: func(m *mockAnalysis) {
				m.On("Analyze", mock.Anything, mock.Anything, domain.StatementProfitAndLoss).Return(analyzed)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "kind detected",
			body: `{}`,
			setupMock: func(m *mockAnalysis) {
				m.On("Analyze", mock.Anything, raw.Report{}, domain.StatementUnknown).Return(analyzed)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid kind",
			query:          "?kind=trial-balance",
			body:           `{}`,
			setupMock:      func(m *mockAnalysis) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid 'kind'. Expected one of: profit-loss, balance-sheet, cash-flow\n",
		},
		{
			name:           "not an object",
			body:           `[1, 2]`,
			setupMock:      func(m *mockAnalysis) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid report. Expected a JSON object\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAnalysis)
			tt.setupMock(svc)
			handler := NewHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/reports/analyze"+tt.query, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.Analyze(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
				svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
				return
			}

			var response api.Analysis
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, "ProfitAndLoss", response.Report.StatementKind)
			assert.Equal(t, &api.Health{Score: 85, Label: "excellent"}, response.Health)
			assert.Equal(t, "Positive Cash Flow", response.Insights[0].Title)
			svc.AssertExpectations(t)
		})
	}
}

func TestNormalize(t *testing.T) {
	svc := new(mockAnalysis)
	svc.On("Analyze", mock.Anything, mock.Anything, domain.StatementBalanceSheet).Return(domain.Analysis{
		Report: domain.Report{Kind: domain.StatementBalanceSheet, Summary: map[string]float64{}},
	})

	req := httptest.NewRequest(http.MethodPost, "/reports/normalize?kind=BalanceSheet", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	NewHandler(svc).Normalize(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var response api.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "BalanceSheet", response.StatementKind)
	assert.Empty(t, response.Sections)
	assert.Empty(t, response.Issues)
}

func TestNormalize_ReturnsIssues(t *testing.T) {
	svc := new(mockAnalysis)
	svc.On("Analyze", mock.Anything, mock.Anything, domain.StatementProfitAndLoss).Return(domain.Analysis{
		Report: domain.Report{
			Kind:    domain.StatementProfitAndLoss,
			Summary: map[string]float64{},
			Issues: []domain.Insight{{
				Kind:        domain.InsightError,
				Title:       "Processing Error",
				Description: "Error processing profit and loss data: boom",
			}},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/reports/normalize?kind=profit-loss", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	NewHandler(svc).Normalize(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response api.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response.Issues, 1)
	assert.Equal(t, "error", response.Issues[0].Kind)
	assert.Equal(t, "Processing Error", response.Issues[0].Title)
}

func TestCompareReports(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "both reports", body: `{"current": {}, "previous": {}}`, expectedStatus: http.StatusOK},
		{name: "missing previous", body: `{"current": {}}`, expectedStatus: http.StatusBadRequest},
		{name: "previous not an object", body: `{"current": {}, "previous": "x"}`, expectedStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"current":`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAnalysis)
			svc.On("CompareReports", mock.Anything, raw.Report{}, raw.Report{}, domain.StatementCashFlow).
				Return(domain.Comparison{Kind: domain.StatementCashFlow})

			req := httptest.NewRequest(http.MethodPost, "/reports/compare?kind=cash-flow", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			NewHandler(svc).CompareReports(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var response api.Comparison
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, "CashFlow", response.StatementKind)
				svc.AssertExpectations(t)
			}
		})
	}
}

func TestListCompanies(t *testing.T) {
	svc := new(mockAnalysis)
	svc.On("Companies", mock.Anything).Return([]config.Company{
		{Name: "acme", RealmID: "42", DisplayName: "Acme Corp"},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc).ListCompanies(rec, httptest.NewRequest(http.MethodGet, "/companies", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []api.Company
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, []api.Company{{Name: "acme", RealmID: "42", DisplayName: "Acme Corp"}}, response)
}

func TestGetStatement(t *testing.T) {
	period := domain.Period{Start: "2024-01-01", End: "2024-03-31"}

	tests := []struct {
		name           string
		kind           string
		query          string
		setupMock      func(*mockAnalysis)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "successful response",
			kind:  "profit-loss",
			query: "?from=2024-01-01&to=2024-03-31",
			setupMock: func(m *mockAnalysis) {
				m.On("Fetch", mock.Anything, "acme", domain.StatementProfitAndLoss, period).Return(analyzed, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "dates left to the backend",
			kind:  "balance-sheet",
			query: "",
			setupMock: func(m *mockAnalysis) {
				m.On("Fetch", mock.Anything, "acme", domain.StatementBalanceSheet, domain.Period{}).Return(analyzed, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid from date",
			kind:           "profit-loss",
			query:          "?from=01-01-2024",
			setupMock:      func(m *mockAnalysis) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid 'from' date format. Expected format: YYYY-MM-DD\n",
		},
		{
			name:           "invalid to date",
			kind:           "profit-loss",
			query:          "?to=tomorrow",
			setupMock:      func(m *mockAnalysis) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid 'to' date format. Expected format: YYYY-MM-DD\n",
		},
		{
			name:           "to before from",
			kind:           "cash-flow",
			query:          "?from=2024-03-31&to=2024-01-01",
			setupMock:      func(m *mockAnalysis) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "'to' must not be before 'from'\n",
		},
		{
			name:           "unknown kind",
			kind:           "unknown",
			setupMock:      func(m *mockAnalysis) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid statement kind. Expected one of: profit-loss, balance-sheet, cash-flow\n",
		},
		{
			name: "unknown company",
			kind: "profit-loss",
			setupMock: func(m *mockAnalysis) {
				m.On("Fetch", mock.Anything, "acme", domain.StatementProfitAndLoss, domain.Period{}).
					Return(domain.Analysis{}, fmt.Errorf("%w: acme", config.ErrCompanyNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "company not found: acme\n",
		},
		{
			name: "auth expired",
			kind: "profit-loss",
			setupMock: func(m *mockAnalysis) {
				m.On("Fetch", mock.Anything, "acme", domain.StatementProfitAndLoss, domain.Period{}).
					Return(domain.Analysis{}, fmt.Errorf("failed to fetch statement for acme: %w", client.ErrAuthExpired))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   client.ErrAuthExpired.Error() + "\n",
		},
		{
			name: "backend failure",
			kind: "profit-loss",
			setupMock: func(m *mockAnalysis) {
				m.On("Fetch", mock.Anything, "acme", domain.StatementProfitAndLoss, domain.Period{}).
					Return(domain.Analysis{}, errors.New("statements backend returned 500"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "failed to fetch statement from backend\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAnalysis)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/companies/acme/statements/"+tt.kind+tt.query, nil)
			req = withURLParams(req, map[string]string{"company": "acme", "kind": tt.kind})
			rec := httptest.NewRecorder()

			NewHandler(svc).GetStatement(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCompareStatement(t *testing.T) {
	tests := []struct {
		name             string
		query            string
		expectedPrevious domain.Period
		expectedStatus   int
	}{
		{
			name:             "previous period derived",
			query:            "?from=2024-04-01&to=2024-06-30",
			expectedPrevious: domain.Period{Start: "2024-01-01", End: "2024-03-31"},
			expectedStatus:   http.StatusOK,
		},
		{
			name:             "previous period given",
			query:            "?from=2024-04-01&to=2024-06-30&prev_from=2023-04-01&prev_to=2023-06-30",
			expectedPrevious: domain.Period{Start: "2023-04-01", End: "2023-06-30"},
			expectedStatus:   http.StatusOK,
		},
		{
			name:           "missing bounds",
			query:          "?from=2024-04-01",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid previous date",
			query:          "?from=2024-04-01&to=2024-06-30&prev_from=last-year",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAnalysis)
			svc.On("Compare", mock.Anything, "acme", domain.StatementProfitAndLoss,
				domain.Period{Start: "2024-04-01", End: "2024-06-30"}, tt.expectedPrevious).
				Return(domain.Comparison{Kind: domain.StatementProfitAndLoss}, nil)

			req := httptest.NewRequest(http.MethodGet, "/companies/acme/statements/profit-loss/compare"+tt.query, nil)
			req = withURLParams(req, map[string]string{"company": "acme", "kind": "profit-loss"})
			rec := httptest.NewRecorder()

			NewHandler(svc).CompareStatement(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestListSnapshots(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockAnalysis)
		expectedStatus int
		expectedBody   []api.Snapshot
	}{
		{
			name:  "filtered by kind",
			query: "?kind=balance-sheet",
			setupMock: func(m *mockAnalysis) {
				m.On("Snapshots", mock.Anything, "acme", domain.StatementBalanceSheet).
					Return([]store.Snapshot{{ID: "snap-1", Company: "acme", Kind: "BalanceSheet", End: "2024-03-31"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []api.Snapshot{{ID: "snap-1", Company: "acme", Kind: "BalanceSheet", End: "2024-03-31"}},
		},
		{
			name: "empty history",
			setupMock: func(m *mockAnalysis) {
				m.On("Snapshots", mock.Anything, "acme", domain.StatementUnknown).Return([]store.Snapshot{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []api.Snapshot{},
		},
		{
			name: "storage disabled",
			setupMock: func(m *mockAnalysis) {
				m.On("Snapshots", mock.Anything, "acme", domain.StatementUnknown).
					Return([]store.Snapshot(nil), analysis.ErrSnapshotsDisabled)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAnalysis)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/companies/acme/snapshots"+tt.query, nil)
			req = withURLParams(req, map[string]string{"company": "acme"})
			rec := httptest.NewRecorder()

			NewHandler(svc).ListSnapshots(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var response []api.Snapshot
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, tt.expectedBody, response)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGetSnapshot(t *testing.T) {
	t.Run("analysis of the stored statement", func(t *testing.T) {
		svc := new(mockAnalysis)
		svc.On("AnalyzeSnapshot", mock.Anything, "snap-1").Return(analyzed, nil)

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/snapshots/snap-1", nil),
			map[string]string{"snapshot": "snap-1"})
		rec := httptest.NewRecorder()
		NewHandler(svc).GetSnapshot(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response api.Analysis
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "ProfitAndLoss", response.Report.StatementKind)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockAnalysis)
		svc.On("AnalyzeSnapshot", mock.Anything, "gone").
			Return(domain.Analysis{}, fmt.Errorf("%w: gone", snapshot.ErrNotFound))

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/snapshots/gone", nil),
			map[string]string{"snapshot": "gone"})
		rec := httptest.NewRecorder()
		NewHandler(svc).GetSnapshot(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "snapshot not found: gone\n", rec.Body.String())
	})
}
