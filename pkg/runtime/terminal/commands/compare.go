package commands

import (
	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/runtime/terminal/export"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/spf13/cobra"
)

type CompareCmd struct {
	current  string
	previous string
	kind     string
	reporter *export.Reporter
}

func NewCompareCmd(reporter *export.Reporter) *cobra.Command {
	cc := &CompareCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two saved reports of the same statement",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.current, "current", "", "Path to the current period report JSON")
	cmd.Flags().StringVar(&cc.previous, "previous", "", "Path to the previous period report JSON")
	cmd.Flags().StringVar(&cc.kind, "kind", "", "Statement kind; detected from the current report when empty")

	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("previous")

	return cmd
}

func (cc *CompareCmd) run(cmd *cobra.Command, _ []string) error {
	kind, err := domain.ParseStatementKind(cc.kind)
	if err != nil {
		return err
	}
	current, err := readReport(cmd.InOrStdin(), cc.current)
	if err != nil {
		return err
	}
	previous, err := readReport(cmd.InOrStdin(), cc.previous)
	if err != nil {
		return err
	}

	comparison := analysis.NewService(nil, nil).CompareReports(cmd.Context(), current, previous, kind)
	return cc.reporter.HandleComparison(comparison)
}
