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

	"github.com/LavaJover/shvark-commission-service/internal/app/background"
	"github.com/LavaJover/shvark-commission-service/internal/app/setup"
	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to init dependencies", zap.Error(err))
	}
	defer deps.Close()

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		zapLogger.Fatal("failed to init usecases", zap.Error(err))
	}

	// gRPC
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.LoggingInterceptor(zapLogger.Named("grpc"))))
	grpcapi.RegisterSettlementServiceServer(grpcServer, grpcapi.NewSettlementHandler(ucs.SettlementUsecase, ucs.Currency.SettlementCurrency()))

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		zapLogger.Fatal("failed to listen", zap.Error(err))
	}
	go func() {
		zapLogger.Info("gRPC server started", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			zapLogger.Error("gRPC server stopped", zap.Error(err))
			stop()
		}
	}()

	// HTTP
	h := handlers.NewHandler(ucs.AgentUsecase, ucs.OrderUsecase, ucs.SettlementUsecase, ucs.Currency.SettlementCurrency(), zapLogger.Named("http"))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           handlers.NewRouter(h, deps.Registry),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLogger.Info("HTTP server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	tasks := background.NewBackgroundTasks(
		ucs.OrderUsecase,
		cfg.Settlement.ExpirySweepInterval,
		cfg.Settlement.ReminderScanInterval,
		zapLogger,
	)
	tasks.StartAll(ctx)

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Warn("HTTP shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	tasks.Wait()
}
