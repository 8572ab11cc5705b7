package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/promise-case-service/internal/app/background"
	"github.com/LavaJover/promise-case-service/internal/app/setup"
	"github.com/LavaJover/promise-case-service/internal/config"
	"github.com/LavaJover/promise-case-service/internal/delivery/grpcapi"
	"github.com/LavaJover/promise-case-service/internal/delivery/http/handlers"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/logger"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zlog, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	defer func() { _ = zlog.Sync() }()

	deps, err := setup.InitializeDependencies(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer deps.Close()

	useCases, err := setup.InitializeUseCases(deps)
	if err != nil {
		zlog.Fatal("failed to initialize use cases", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP: case API and metrics
	router := mux.NewRouter()
	handlers.NewHTTPHandler(
		useCases.CaseUsecase,
		useCases.SettlementUsecase,
		useCases.PartnerUsecase,
		zlog,
	).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC: health
	grpcServer := grpc.NewServer()
	var pinger grpcapi.Pinger
	if deps.Ping != nil {
		pinger = grpcapi.StorePinger(deps.Ping)
	}
	healthHandler := grpcapi.NewHealthHandler(pinger, zlog)
	healthHandler.Register(grpcServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		zlog.Fatal("failed to listen", zap.Error(err))
	}

	tasks := background.NewBackgroundTasks(useCases.PartnerUsecase, cfg.Presence.ReconcileSchedule, zlog)
	if err := tasks.Start(ctx); err != nil {
		zlog.Fatal("failed to start background tasks", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zlog.Info("HTTP server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		zlog.Info("gRPC server started", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		healthHandler.Watch(gctx, 15*time.Second)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zlog.Error("service stopped with error", zap.Error(err))
	}
}
