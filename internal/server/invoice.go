package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/invoice-parser/internal/common"
	"github.com/joseph-ayodele/invoice-parser/internal/invoice"
)

type Parser interface {
	Parse(text string) invoice.Result
}

type Config struct {
	MaxTextBytes int // 0 -> 2 MiB
}

func NewConfig(c common.ServerConfig) Config {
	return Config{MaxTextBytes: c.MaxTextBytes}
}

type InvoiceServer struct {
	engine Parser
	cfg    Config
	logger *slog.Logger
}

func NewInvoiceServer(engine Parser, cfg Config, logger *slog.Logger) *InvoiceServer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxTextBytes <= 0 {
		cfg.MaxTextBytes = 2 << 20
	}
	return &InvoiceServer{engine: engine, cfg: cfg, logger: logger}
}

// Parse takes {"text": "...", "trace": bool}. A text that is not an invoice
// is still a successful call; the rejection comes back in the payload.
func (s *InvoiceServer) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	start := time.Now()

	fields := req.GetFields()
	text := fields["text"].GetStringValue()
	withTrace := fields["trace"].GetBoolValue()

	v := common.NewValidator()
	v.Field("text", strings.TrimSpace(text), common.Required)
	v.Field("text", text, common.MaxBytes(s.cfg.MaxTextBytes))
	if v.HasErrors() {
		return nil, common.ToStatus(common.NewAppError("INVALID_TEXT", v.ErrorMessage(), common.ErrInvalidInput))
	}

	res := s.engine.Parse(text)

	var b []byte
	var err error
	if withTrace {
		b, err = invoice.MarshalResultWithTrace(res)
	} else {
		b, err = invoice.MarshalResult(res)
	}
	if err != nil {
		logger.Error("grpc.parse.marshal_failed", "error", err)
		return nil, common.InternalError("marshal result")
	}
	if err := invoice.ValidateResultJSON(b); err != nil {
		logger.Error("grpc.parse.schema_violation", "error", err)
		return nil, common.InternalError("result failed schema validation")
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		logger.Error("grpc.parse.struct_failed", "error", err)
		return nil, common.InternalErrorf("convert result: %v", err)
	}

	logger.Info("grpc.parse.ok",
		"status", res.Status(),
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
