package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/clarity/pkg/runtime/terminal/commands"
	"github.com/de-tools/clarity/pkg/runtime/terminal/export"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/store/client"
	"github.com/de-tools/clarity/pkg/store/snapshot"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	connect  commands.Connector
	reporter *export.Reporter
	rootCmd  *cobra.Command
	logLevel string
	format   string
}

// Options contain configuration for the CLI
type Options struct {
	// Connect defaults to Connect.
	Connect commands.Connector
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Connect == nil {
		opts.Connect = Connect
	}

	cli := &CLI{
		connect:  opts.Connect,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "clarity",
		Short:             "Financial statement normalization and insights",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&cli.format, "output", "o", "text", "Output format (text, json)")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.reporter))
	cmd.AddCommand(commands.NewCompareCmd(cli.reporter))
	cmd.AddCommand(commands.NewFetchCmd(cli.connect, cli.reporter))
	cmd.AddCommand(commands.NewCompaniesCmd(cli.connect, cli.reporter))
	cmd.AddCommand(commands.NewSnapshotsCmd(cli.connect, cli.reporter))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(cli.format)
	if err != nil {
		return err
	}
	cli.reporter.SetFormat(format)

	level, err := zerolog.ParseLevel(cli.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cli.logLevel, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().
		Timestamp().
		Logger()

	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

// Connect loads the config file and wires the statements backend, the
// companies file and, when configured, the snapshot database into an
// analysis service.
func Connect(ctx context.Context, configPath string) (analysis.Service, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CompaniesFile == "" {
		return nil, nil, errors.New("companies_file is not set in the config")
	}

	registry, err := config.NewRegistry(cfg.CompaniesFile)
	if err != nil {
		return nil, nil, err
	}
	statements := client.NewStatementClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	if cfg.Storage.Path == "" {
		return analysis.NewService(statements, registry), func() {}, nil
	}

	db, err := snapshot.NewDB(snapshot.Settings{Path: cfg.Storage.Path})
	if err != nil {
		return nil, nil, err
	}
	snapshots, err := snapshot.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	release := func() {
		if err := db.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close snapshot database")
		}
	}
	return analysis.NewService(statements, registry, analysis.WithSnapshots(snapshots)), release, nil
}
