package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Requests and responses are google.protobuf.Struct values carrying the
// JSON result shape, so no generated message types are needed.
const (
	ServiceName = "invoice.v1.InvoiceParser"
	ParseMethod = "/" + ServiceName + "/Parse"
)

// InvoiceParserServer is the server API for the invoice.v1.InvoiceParser service.
type InvoiceParserServer interface {
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var InvoiceParserServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InvoiceParserServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Parse",
			Handler:    parseHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "invoice/v1/parser.proto",
}

func parseHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InvoiceParserServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ParseMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InvoiceParserServer).Parse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Register attaches the parser service to r.
func Register(r grpc.ServiceRegistrar, srv InvoiceParserServer) {
	r.RegisterService(&InvoiceParserServiceDesc, srv)
}

// Client calls invoice.v1.InvoiceParser over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Parse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ParseMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
