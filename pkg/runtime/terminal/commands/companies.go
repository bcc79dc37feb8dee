package commands

import (
	"github.com/de-tools/clarity/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type CompaniesCmd struct {
	configPath string
	connect    Connector
	reporter   *export.Reporter
}

func NewCompaniesCmd(connect Connector, reporter *export.Reporter) *cobra.Command {
	cc := &CompaniesCmd{connect: connect, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List the company profiles in the companies file",
		RunE:  cc.run,
	}

	cmd.Flags().StringVarP(&cc.configPath, "config", "c", "", "Path to the clarity config file")

	return cmd
}

func (cc *CompaniesCmd) run(cmd *cobra.Command, _ []string) error {
	svc, release, err := cc.connect(cmd.Context(), cc.configPath)
	if err != nil {
		return err
	}
	defer release()
	companies, err := svc.Companies(cmd.Context())
	if err != nil {
		return err
	}
	return cc.reporter.HandleCompanies(companies)
}
