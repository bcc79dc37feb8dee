package commands

import (
	"errors"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type SnapshotsCmd struct {
	configPath string
	company    string
	kind       string
	id         string
	connect    Connector
	reporter   *export.Reporter
}

func NewSnapshotsCmd(connect Connector, reporter *export.Reporter) *cobra.Command {
	sc := &SnapshotsCmd{connect: connect, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored statements, or analyze one again with --id",
		RunE:  sc.run,
	}

	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "Path to the clarity config file")
	cmd.Flags().StringVar(&sc.company, "company", "", "Company profile name")
	cmd.Flags().StringVar(&sc.kind, "kind", "", "Only list this statement kind")
	cmd.Flags().StringVar(&sc.id, "id", "", "Snapshot to analyze")

	return cmd
}

func (sc *SnapshotsCmd) run(cmd *cobra.Command, _ []string) error {
	if sc.id == "" && sc.company == "" {
		return errors.New("either --company or --id is required")
	}
	kind, err := domain.ParseStatementKind(sc.kind)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, release, err := sc.connect(ctx, sc.configPath)
	if err != nil {
		return err
	}
	defer release()

	if sc.id != "" {
		result, err := svc.AnalyzeSnapshot(ctx, sc.id)
		if err != nil {
			return err
		}
		return sc.reporter.HandleAnalysis(result)
	}

	snapshots, err := svc.Snapshots(ctx, sc.company, kind)
	if err != nil {
		return err
	}
	return sc.reporter.HandleSnapshots(snapshots)
}
