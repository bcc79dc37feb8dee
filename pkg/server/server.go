package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/clarity/pkg/handlers/report"
	workflowhandlers "github.com/de-tools/clarity/pkg/handlers/workflow"
	claritymiddleware "github.com/de-tools/clarity/pkg/server/middleware"
	"github.com/de-tools/clarity/pkg/services/analysis"
	"github.com/de-tools/clarity/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	config Config
}

type Dependencies struct {
	Analysis analysis.Service
	// Workflow is nil when scheduled syncs are off.
	Workflow workflow.Controller
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	handler := handlers.NewHandler(config.Dependencies.Analysis)
	logger := config.Dependencies.Logger

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(claritymiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Post("/normalize", handler.Normalize)
			r.Post("/analyze", handler.Analyze)
			r.Post("/compare", handler.CompareReports)
		})
		r.Get("/companies", handler.ListCompanies)
		r.Get("/companies/{company}/statements/{kind}", handler.GetStatement)
		r.Get("/companies/{company}/statements/{kind}/compare", handler.CompareStatement)
		r.Get("/companies/{company}/snapshots", handler.ListSnapshots)
		r.Get("/snapshots/{snapshot}", handler.GetSnapshot)

		if config.Dependencies.Workflow != nil {
			sync := workflowhandlers.NewHandler(config.Dependencies.Workflow)
			r.Get("/sync", sync.Status)
			r.Put("/companies/{company}/sync", sync.Start)
			r.Delete("/companies/{company}/sync", sync.Cancel)
		}
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	return &WebAPI{
		router: router,
		logger: &logger,
		config: config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		timeout := w.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
