package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"lifelink.org/internal/config"
	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/httpapi"
	"lifelink.org/internal/obs"
	"lifelink.org/internal/session"
	"lifelink.org/internal/store/pg"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the optional gRPC health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := obs.NewLogger(obs.LogOptions{Level: cfg.Log.Level, Development: cfg.Log.Dev})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer obs.SetLogger(logger)()
	defer func() { _ = logger.Sync() }()

	obs.Init()
	obs.InitBuildInfo(obs.Version, obs.Commit)

	var (
		src   dashboard.Source
		probe httpapi.ReadyProbe
	)
	if cfg.Postgres.DSN != "" {
		cat, err := pg.Open(ctx, cfg.Postgres.DSN, pg.Options{
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			ConnectWait:  cfg.Postgres.ConnectWait,
		})
		if err != nil {
			return err
		}
		defer cat.Close()
		src = cat
		probe.DB = cat.DB()
		logger.Info("dashboards backed by postgres catalog")
	}

	if cfg.Session.Secret == "" {
		logger.Warn("no session secret configured, sessions will not survive a restart")
	}
	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return err
	}
	sessions := session.NewStore(
		session.WithIdleTTL(cfg.Session.IdleTTL),
		session.WithObserver(obs.SetSessionsActive),
	)
	defer sessions.Stop()

	api, err := httpapi.New(httpapi.Options{
		Version:      obs.Version,
		Ready:        probe,
		Sessions:     sessions,
		Codec:        codec,
		Source:       src,
		CookieSecure: cfg.Session.CookieSecure,
		RateBurst:    cfg.Rate.Burst,
		RatePerSec:   cfg.Rate.PerSecond,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	if err != nil {
		return err
	}
	defer api.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var grpcSrv *grpc.Server
	var grpcLis net.Listener
	if cfg.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		grpcSrv = grpc.NewServer()
		httpapi.NewGRPCServer(probe, obs.Version).Register(grpcSrv)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", srv.Addr), zap.String("version", obs.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	if grpcSrv != nil {
		g.Go(func() error {
			logger.Info("grpc listening", zap.String("addr", grpcLis.Addr().String()))
			if err := grpcSrv.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("stopped", zap.Error(err))
	return err
}
