package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/rs/zerolog"
)

var syncedKinds = []domain.StatementKind{
	domain.StatementProfitAndLoss,
	domain.StatementBalanceSheet,
	domain.StatementCashFlow,
}

type RunnerConfig struct {
	// RunTimeout bounds one pass over every statement kind.
	RunTimeout time.Duration
}

type RunnerProgress struct {
	Runs      int64
	Fetched   int64
	Failed    int64
	LastRunAt time.Time
	LastError string
}

// Runner fetches every statement kind for one company. Each fetch goes
// through the analysis service, which keeps the snapshot.
type Runner struct {
	company  string
	analysis analysis.Service
	config   RunnerConfig
	now      func() time.Time

	mu       sync.Mutex
	running  bool
	progress RunnerProgress
}

func NewRunner(company string, svc analysis.Service) *Runner {
	return &Runner{
		company:  company,
		analysis: svc,
		config: RunnerConfig{
			RunTimeout: 5 * time.Minute,
		},
		now: time.Now,
	}
}

func (r *Runner) Progress() RunnerProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// Run does one pass. A pass that starts while the previous one is still
// going is skipped.
func (r *Runner) Run(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	logger := zerolog.Ctx(ctx).With().Str("company", r.company).Logger()
	ctx, cancel := context.WithTimeout(ctx, r.config.RunTimeout)
	defer cancel()

	now := r.now()
	period := MonthToDate(now)

	var fetched, failed int64
	var lastErr string
	for _, kind := range syncedKinds {
		if ctx.Err() != nil {
			logger.Info().Msg("statement sync stopped")
			break
		}
		if _, err := r.analysis.Fetch(ctx, r.company, kind, period); err != nil {
			logger.Error().Err(err).Str("kind", kind.String()).Msg("failed to sync statement")
			failed++
			lastErr = err.Error()
			continue
		}
		fetched++
	}

	logger.Info().Int64("fetched", fetched).Int64("failed", failed).Msg("statement sync finished")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.progress.Runs++
	r.progress.Fetched += fetched
	r.progress.Failed += failed
	r.progress.LastRunAt = now
	r.progress.LastError = lastErr
}

// MonthToDate is the period from the first day of now's month through now.
func MonthToDate(now time.Time) domain.Period {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return domain.Period{
		Start: start.Format(domain.DateLayout),
		End:   now.Format(domain.DateLayout),
	}
}
