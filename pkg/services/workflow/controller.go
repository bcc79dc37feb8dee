// Package workflow refreshes company statements on a schedule so the snapshot
// history fills up without anyone asking for it.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var ErrNotRunning = errors.New("workflow not running")

type Controller interface {
	Start(ctx context.Context, company string) error
	Cancel(ctx context.Context, company string) error
	Status(ctx context.Context) map[string]RunnerProgress
}

var _ Controller = (*DefaultController)(nil)

type workflowDescriptor struct {
	entryID cron.EntryID
	runner  *Runner
}

type DefaultController struct {
	analysis analysis.Service
	schedule string
	cron     *cron.Cron

	mu        sync.Mutex
	workflows map[string]workflowDescriptor
}

// NewController validates schedule (standard cron syntax or descriptors like
// "@every 6h") and returns a stopped controller.
func NewController(svc analysis.Service, schedule string) (*DefaultController, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return &DefaultController{
		analysis:  svc,
		schedule:  schedule,
		cron:      cron.New(),
		workflows: make(map[string]workflowDescriptor),
	}, nil
}

// Init schedules every configured company and starts the scheduler.
func (ctrl *DefaultController) Init(ctx context.Context) error {
	companies, err := ctrl.analysis.Companies(ctx)
	if err != nil {
		return err
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	for _, company := range companies {
		if err := ctrl.scheduleCompany(ctx, company.Name); err != nil {
			return err
		}
	}

	ctrl.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running syncs.
func (ctrl *DefaultController) Stop() {
	<-ctrl.cron.Stop().Done()
}

// Start schedules a configured company. Starting a scheduled company is a
// no-op.
func (ctrl *DefaultController) Start(ctx context.Context, company string) error {
	companies, err := ctrl.analysis.Companies(ctx)
	if err != nil {
		return err
	}
	known := false
	for _, c := range companies {
		known = known || c.Name == company
	}
	if !known {
		return fmt.Errorf("%w: %s", config.ErrCompanyNotFound, company)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.scheduleCompany(ctx, company)
}

func (ctrl *DefaultController) scheduleCompany(ctx context.Context, company string) error {
	if _, ok := ctrl.workflows[company]; ok {
		return nil
	}

	// scheduled runs outlive the request that started them
	runCtx := context.WithoutCancel(ctx)
	runner := NewRunner(company, ctrl.analysis)
	entryID, err := ctrl.cron.AddFunc(ctrl.schedule, func() {
		runner.Run(runCtx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync for %s: %w", company, err)
	}

	ctrl.workflows[company] = workflowDescriptor{
		entryID: entryID,
		runner:  runner,
	}
	zerolog.Ctx(ctx).Info().Str("company", company).Str("schedule", ctrl.schedule).Msg("statement sync scheduled")
	return nil
}

func (ctrl *DefaultController) Cancel(ctx context.Context, company string) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.workflows[company]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, company)
	}
	ctrl.cron.Remove(desc.entryID)
	delete(ctrl.workflows, company)

	zerolog.Ctx(ctx).Info().Str("company", company).Msg("statement sync cancelled")
	return nil
}

func (ctrl *DefaultController) Status(_ context.Context) map[string]RunnerProgress {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	status := make(map[string]RunnerProgress, len(ctrl.workflows))
	for company, desc := range ctrl.workflows {
		status[company] = desc.runner.Progress()
	}
	return status
}
