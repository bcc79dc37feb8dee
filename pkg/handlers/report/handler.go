package report

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/clarity/pkg/adapters"
	"github.com/de-tools/clarity/pkg/models/api"
	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/store/client"
	"github.com/de-tools/clarity/pkg/store/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 10 << 20

type Handler struct {
	analysis analysis.Service
	validate *validator.Validate
}

func NewHandler(analysis analysis.Service) *Handler {
	return &Handler{
		analysis: analysis,
		validate: validator.New(),
	}
}

func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(w, r)
	if !ok {
		return
	}
	doc, ok := readReport(w, r)
	if !ok {
		return
	}

	result := h.analysis.Analyze(r.Context(), doc, kind)
	writeJSON(w, r, adapters.MapReportDomainToApi(result.Report), "failed to encode report")
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(w, r)
	if !ok {
		return
	}
	doc, ok := readReport(w, r)
	if !ok {
		return
	}

	result := h.analysis.Analyze(r.Context(), doc, kind)
	writeJSON(w, r, adapters.MapAnalysisDomainToApi(result), "failed to encode analysis")
}

func (h *Handler) CompareReports(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(w, r)
	if !ok {
		return
	}

	var req api.CompareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid request body. Expected {\"current\": report, \"previous\": report}", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "both 'current' and 'previous' reports are required", http.StatusBadRequest)
		return
	}

	current, err := raw.Decode(req.Current)
	if err != nil {
		http.Error(w, "invalid 'current' report. Expected a JSON object", http.StatusBadRequest)
		return
	}
	previous, err := raw.Decode(req.Previous)
	if err != nil {
		http.Error(w, "invalid 'previous' report. Expected a JSON object", http.StatusBadRequest)
		return
	}

	comparison := h.analysis.CompareReports(r.Context(), current, previous, kind)
	writeJSON(w, r, adapters.MapComparisonDomainToApi(comparison), "failed to encode comparison")
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.analysis.Companies(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := make([]api.Company, 0, len(companies))
	for _, c := range companies {
		response = append(response, adapters.MapCompanyConfigToApi(c))
	}
	writeJSON(w, r, response, "failed to encode companies")
}

func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	period, ok := periodFromQuery(w, r)
	if !ok {
		return
	}

	result, err := h.analysis.Fetch(r.Context(), company, kind, period)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapAnalysisDomainToApi(result), "failed to encode analysis")
}

// CompareStatement compares the requested period with the one before it. The
// previous period defaults to a window of the same length ending the day
// before 'from'.
func (h *Handler) CompareStatement(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	current, ok := periodFromQuery(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	var previous domain.Period
	if query.Get("prev_from") != "" || query.Get("prev_to") != "" {
		prevFrom, err := parseDate(query.Get("prev_from"))
		if err != nil {
			http.Error(w, "invalid 'prev_from' date format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		prevTo, err := parseDate(query.Get("prev_to"))
		if err != nil {
			http.Error(w, "invalid 'prev_to' date format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		previous = domain.Period{Start: prevFrom.Format(domain.DateLayout), End: prevTo.Format(domain.DateLayout)}
	} else {
		var err error
		if previous, err = current.Previous(); err != nil {
			http.Error(w, "'from' and 'to' are required when the previous period is not given", http.StatusBadRequest)
			return
		}
	}

	comparison, err := h.analysis.Compare(r.Context(), company, kind, current, previous)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapComparisonDomainToApi(comparison), "failed to encode comparison")
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	kind, ok := kindFromQuery(w, r)
	if !ok {
		return
	}

	snapshots, err := h.analysis.Snapshots(r.Context(), company, kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := make([]api.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		response = append(response, adapters.MapSnapshotStoreToApi(s))
	}
	writeJSON(w, r, response, "failed to encode snapshots")
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "snapshot")

	result, err := h.analysis.AnalyzeSnapshot(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapAnalysisDomainToApi(result), "failed to encode analysis")
}

func kindFromQuery(w http.ResponseWriter, r *http.Request) (domain.StatementKind, bool) {
	kind, err := domain.ParseStatementKind(r.URL.Query().Get("kind"))
	if err != nil {
		http.Error(w, "invalid 'kind'. Expected one of: profit-loss, balance-sheet, cash-flow", http.StatusBadRequest)
		return domain.StatementUnknown, false
	}
	return kind, true
}

func kindFromPath(w http.ResponseWriter, r *http.Request) (domain.StatementKind, bool) {
	kind, err := domain.ParseStatementKind(chi.URLParam(r, "kind"))
	if err != nil || !kind.Known() {
		http.Error(w, "invalid statement kind. Expected one of: profit-loss, balance-sheet, cash-flow", http.StatusBadRequest)
		return domain.StatementUnknown, false
	}
	return kind, true
}

// periodFromQuery reads the optional from/to dates. Missing dates are left
// for the backend to default.
func periodFromQuery(w http.ResponseWriter, r *http.Request) (domain.Period, bool) {
	var period domain.Period
	var from, to time.Time
	var err error
	query := r.URL.Query()

	if value := query.Get("from"); value != "" {
		if from, err = parseDate(value); err != nil {
			http.Error(w, "invalid 'from' date format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
			return period, false
		}
		period.Start = from.Format(domain.DateLayout)
	}
	if value := query.Get("to"); value != "" {
		if to, err = parseDate(value); err != nil {
			http.Error(w, "invalid 'to' date format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
			return period, false
		}
		period.End = to.Format(domain.DateLayout)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		http.Error(w, "'to' must not be before 'from'", http.StatusBadRequest)
		return period, false
	}
	return period, true
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(domain.DateLayout, value)
}

func readReport(w http.ResponseWriter, r *http.Request) (raw.Report, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return raw.Report{}, false
	}
	doc, err := raw.Decode(body)
	if err != nil {
		http.Error(w, "invalid report. Expected a JSON object", http.StatusBadRequest)
		return raw.Report{}, false
	}
	return doc, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, config.ErrCompanyNotFound), errors.Is(err, snapshot.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, analysis.ErrNotConfigured), errors.Is(err, analysis.ErrSnapshotsDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, client.ErrAuthExpired):
		http.Error(w, client.ErrAuthExpired.Error(), http.StatusUnauthorized)
	default:
		logger.Error().Err(err).Msg("statements backend request failed")
		http.Error(w, "failed to fetch statement from backend", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any, failure string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg(failure)
	}
}
