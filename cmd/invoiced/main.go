package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/invoice-parser/internal/common"
	"github.com/joseph-ayodele/invoice-parser/internal/invoice"
	"github.com/joseph-ayodele/invoice-parser/internal/server"
)

func main() {
	cfg := common.LoadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: common.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(server.UnaryRequestID(logger)))

	engine := invoice.NewEngine(invoice.NewConfig(cfg.Engine), logger)
	server.Register(grpcServer, server.NewInvoiceServer(engine, server.NewConfig(cfg.Server), logger))
	healthServer := server.RegisterHealth(grpcServer)
	// Reflection for grpcurl
	reflection.Register(grpcServer)

	logger.Info("invoiced listening", "addr", cfg.Server.GRPCAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	logger.Info("invoiced stopped")
}
