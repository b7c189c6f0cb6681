package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "roster/internal/http"
	"roster/internal/platform/httpserver"
	"roster/internal/platform/logger"
	httpmetrics "roster/internal/platform/metrics"
	"roster/internal/records"
	recordmetrics "roster/internal/records/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and the browser front end",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cmd.ErrOrStderr(), cfg.Logging)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer, err := records.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := records.NewService(store, log, recordmetrics.New(reg), cfg.Store.AppendOnCreate)
	pages, err := records.NewWeb(svc, log)
	if err != nil {
		return err
	}
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        httpmetrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.Server.RequestTimeout,
		API:            records.NewHandler(svc, log),
		Web:            pages,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.InfoContext(context.Background(), "shutting down")
		return nil
	})

	log.InfoContext(ctx, "starting roster",
		"addr", cfg.Server.Addr,
		"backend", cfg.Store.Backend,
		"path", cfg.Store.Path,
	)
	return g.Wait()
}
