package main

import (
	"fmt"
	"os"
	"time"

	"github.com/de-tools/clarity/pkg/server"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/services/workflow"
	"github.com/de-tools/clarity/pkg/store/client"
	"github.com/de-tools/clarity/pkg/store/snapshot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Clarity",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the clarity config file (CLARITY_* environment variables apply on top)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	statements := client.NewStatementClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	var opts []analysis.Option
	if cfg.Storage.Path != "" {
		db, err := snapshot.NewDB(snapshot.Settings{Path: cfg.Storage.Path})
		if err != nil {
			return err
		}
		defer db.Close()

		snapshots, err := snapshot.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create snapshot store: %w", err)
		}
		opts = append(opts, analysis.WithSnapshots(snapshots))
		logger.Info().Str("path", cfg.Storage.Path).Msg("statement snapshots enabled")
	}

	var svc analysis.Service
	if cfg.CompaniesFile == "" {
		logger.Warn().Msg("companies_file is not set, statement fetching is disabled")
		svc = analysis.NewService(statements, nil, opts...)
	} else {
		registry, err := config.NewRegistry(cfg.CompaniesFile)
		if err != nil {
			return fmt.Errorf("failed to create companies registry: %w", err)
		}

		logger.Info().Msgf("Companies file found at `%s` successfully loaded.", cfg.CompaniesFile)
		profiles, _ := registry.GetProfiles(ctx)
		for _, profile := range profiles {
			logger.Info().Msgf("Company: `%s`", profile)
		}
		svc = analysis.NewService(statements, registry, opts...)
	}

	var workflowCtrl workflow.Controller
	if cfg.Sync.Schedule != "" {
		ctrl, err := workflow.NewController(svc, cfg.Sync.Schedule)
		if err != nil {
			return err
		}
		if cfg.Storage.Path == "" {
			logger.Warn().Msg("storage.path is not set, synced statements are not kept")
		}
		if err := ctrl.Init(ctx); err != nil {
			return fmt.Errorf("failed to start statement sync: %w", err)
		}
		defer ctrl.Stop()
		workflowCtrl = ctrl
	}

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Analysis: svc,
			Workflow: workflowCtrl,
			Logger:   logger,
		},
	})

	return api.Start()
}
