package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/invoice-parser/internal/common"
)

const RequestIDHeader = "x-request-id"

// UnaryRequestID tags every call with a request ID, taken from the incoming
// metadata when the client sent one, and echoes it back as a header.
func UnaryRequestID(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(RequestIDHeader); len(vals) > 0 {
				requestID = vals[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		reqLogger := logger.With("request_id", requestID, "method", info.FullMethod)
		ctx = common.WithRequestID(ctx, requestID)
		ctx = common.WithLogger(ctx, reqLogger)

		resp, err := handler(ctx, req)
		reqLogger.Debug("grpc.request.done",
			"code", status.Code(err).String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

// RegisterHealth attaches a health server reporting SERVING overall and for
// the parser service.
func RegisterHealth(r grpc.ServiceRegistrar) *health.Server {
	hs := health.NewServer()
	healthpb.RegisterHealthServer(r, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return hs
}
