package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/runtime/terminal/export"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/spf13/cobra"
)

const fetchTimeout = 60 * time.Second

// Connector builds a service backed by the statements backend named in the
// config file. The returned func releases what the service holds open.
type Connector func(ctx context.Context, configPath string) (analysis.Service, func(), error)

type FetchCmd struct {
	configPath string
	company    string
	kind       string
	from       string
	to         string
	compare    bool
	connect    Connector
	reporter   *export.Reporter
}

func NewFetchCmd(connect Connector, reporter *export.Reporter) *cobra.Command {
	fc := &FetchCmd{connect: connect, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a statement for a company and derive insights from it",
		RunE:  fc.run,
	}

	cmd.Flags().StringVarP(&fc.configPath, "config", "c", "", "Path to the clarity config file")
	cmd.Flags().StringVar(&fc.company, "company", "", "Company profile name from the companies file")
	cmd.Flags().StringVar(&fc.kind, "kind", "", "Statement kind (profit-loss, balance-sheet, cash-flow)")
	cmd.Flags().StringVar(&fc.from, "from", "", "Period start, YYYY-MM-DD")
	cmd.Flags().StringVar(&fc.to, "to", "", "Period end, YYYY-MM-DD")
	cmd.Flags().BoolVar(&fc.compare, "compare", false, "Compare with the previous period of the same length")

	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (fc *FetchCmd) run(cmd *cobra.Command, _ []string) error {
	kind, err := domain.ParseStatementKind(fc.kind)
	if err != nil {
		return err
	}
	if !kind.Known() {
		return errors.New("a statement kind is required to fetch")
	}
	period, err := parsePeriod(fc.from, fc.to)
	if err != nil {
		return err
	}

	var previous domain.Period
	if fc.compare {
		if previous, err = period.Previous(); err != nil {
			return fmt.Errorf("--compare needs --from and --to: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	svc, release, err := fc.connect(ctx, fc.configPath)
	if err != nil {
		return err
	}
	defer release()

	if fc.compare {
		comparison, err := svc.Compare(ctx, fc.company, kind, period, previous)
		if err != nil {
			return err
		}
		return fc.reporter.HandleComparison(comparison)
	}

	result, err := svc.Fetch(ctx, fc.company, kind, period)
	if err != nil {
		return err
	}
	return fc.reporter.HandleAnalysis(result)
}

func parsePeriod(from, to string) (domain.Period, error) {
	var period domain.Period
	var start, end time.Time
	var err error

	if from != "" {
		if start, err = time.Parse(domain.DateLayout, from); err != nil {
			return period, fmt.Errorf("invalid --from date %q. Expected format: YYYY-MM-DD", from)
		}
		period.Start = from
	}
	if to != "" {
		if end, err = time.Parse(domain.DateLayout, to); err != nil {
			return period, fmt.Errorf("invalid --to date %q. Expected format: YYYY-MM-DD", to)
		}
		period.End = to
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return period, errors.New("--to must not be before --from")
	}
	return period, nil
}
