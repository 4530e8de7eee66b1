package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/invoice-parser/internal/invoice"
)

const sampleInvoice = "СЧЁТ № 36 от 04.11.2024\n" +
	"Итого: 13608.00\n" +
	"НДС 20%: 2721.60\n" +
	"Всего к доплате: 16329.60"

func startServer(t *testing.T, cfg Config) *grpc.ClientConn {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := invoice.NewEngine(invoice.DefaultConfig(), logger)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryRequestID(logger)))
	Register(srv, NewInvoiceServer(engine, cfg, logger))
	RegisterHealth(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return req
}

func TestParseInvoice(t *testing.T) {
	client := NewClient(startServer(t, Config{}))

	var header metadata.MD
	out, err := client.Parse(context.Background(), request(t, map[string]any{"text": sampleInvoice}), grpc.Header(&header))
	require.NoError(t, err)

	inv := out.GetFields()["invoice"].GetStructValue().GetFields()
	require.NotNil(t, inv)
	assert.Equal(t, "36", inv["number"].GetStringValue())
	assert.Equal(t, "2024-11-04", inv["date"].GetStringValue())
	assert.InDelta(t, 16329.60, inv["total_amount"].GetNumberValue(), 0.001)
	assert.True(t, inv["has_vat"].GetBoolValue())
	assert.NotContains(t, out.GetFields(), "trace")

	assert.NotEmpty(t, header.Get(RequestIDHeader))
}

func TestParseEchoesRequestID(t *testing.T) {
	client := NewClient(startServer(t, Config{}))
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-42")

	var header metadata.MD
	_, err := client.Parse(ctx, request(t, map[string]any{"text": sampleInvoice}), grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-42"}, header.Get(RequestIDHeader))
}

func TestParseWithTrace(t *testing.T) {
	client := NewClient(startServer(t, Config{}))

	out, err := client.Parse(context.Background(), request(t, map[string]any{"text": sampleInvoice, "trace": true}))
	require.NoError(t, err)
	trace := out.GetFields()["trace"].GetListValue().GetValues()
	assert.NotEmpty(t, trace)
}

func TestParseNonInvoiceIsPayload(t *testing.T) {
	client := NewClient(startServer(t, Config{}))

	out, err := client.Parse(context.Background(), request(t, map[string]any{"text": "Анкета участника"}))
	require.NoError(t, err)
	fields := out.GetFields()
	assert.Equal(t, "NOT_INVOICE", fields["code"].GetStringValue())
	assert.Equal(t, "unknown", fields["document_type"].GetStringValue())
	assert.NotContains(t, fields, "invoice")
}

func TestParseInvalidArgument(t *testing.T) {
	client := NewClient(startServer(t, Config{MaxTextBytes: 64}))

	tests := map[string]map[string]any{
		"missing":  {},
		"blank":    {"text": "   \n"},
		"oversize": {"text": strings.Repeat("счет ", 20)},
	}
	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := client.Parse(context.Background(), request(t, fields))
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestHealth(t *testing.T) {
	conn := startServer(t, Config{})
	hc := healthpb.NewHealthClient(conn)

	for _, svc := range []string{"", ServiceName} {
		resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{Service: svc})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}
