package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
	"github.com/de-tools/clarity/pkg/runtime/terminal/export"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	file     string
	kind     string
	reporter *export.Reporter
}

func NewAnalyzeCmd(reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Normalize a saved report and derive insights from it",
		RunE:  ac.run,
	}

	cmd.Flags().StringVarP(&ac.file, "file", "f", "", "Path to the report JSON, or - for stdin")
	cmd.Flags().StringVar(&ac.kind, "kind", "", "Statement kind (profit-loss, balance-sheet, cash-flow); detected when empty")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	kind, err := domain.ParseStatementKind(ac.kind)
	if err != nil {
		return err
	}
	doc, err := readReport(cmd.InOrStdin(), ac.file)
	if err != nil {
		return err
	}

	result := analysis.NewService(nil, nil).Analyze(cmd.Context(), doc, kind)
	return ac.reporter.HandleAnalysis(result)
}

func readReport(stdin io.Reader, path string) (raw.Report, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return raw.Report{}, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	return raw.Decode(data)
}
