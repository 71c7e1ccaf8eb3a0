package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "portfolio.v1.PortfolioService"

// Full method names, as seen by interceptors
const (
	EnsureAssetMethod     = "/" + ServiceName + "/EnsureAsset"
	AddAllocationMethod   = "/" + ServiceName + "/AddAllocation"
	ListAllocationsMethod = "/" + ServiceName + "/ListAllocations"
)

// PortfolioServiceServer is the server API for the portfolio service.
// Requests and responses are google.protobuf.Struct messages whose fields
// mirror the REST payloads.
type PortfolioServiceServer interface {
	EnsureAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddAllocation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAllocations(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&portfolioServiceDesc, srv)
}

var portfolioServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "EnsureAsset",
			Handler:    unaryHandler(EnsureAssetMethod, PortfolioServiceServer.EnsureAsset),
		},
		{
			MethodName: "AddAllocation",
			Handler:    unaryHandler(AddAllocationMethod, PortfolioServiceServer.AddAllocation),
		},
		{
			MethodName: "ListAllocations",
			Handler:    unaryHandler(ListAllocationsMethod, PortfolioServiceServer.ListAllocations),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portfolio/v1/portfolio.proto",
}

type unaryMethod func(PortfolioServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a typed method to grpc.MethodDesc, running the
// configured interceptor chain when present
func unaryHandler(fullMethod string, method unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(PortfolioServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(srv.(PortfolioServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PortfolioServiceClient is the client API for the portfolio service
type PortfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortfolioServiceClient creates a client bound to cc
func NewPortfolioServiceClient(cc grpc.ClientConnInterface) *PortfolioServiceClient {
	return &PortfolioServiceClient{cc: cc}
}

func (c *PortfolioServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureAsset calls PortfolioService.EnsureAsset
func (c *PortfolioServiceClient) EnsureAsset(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EnsureAssetMethod, in, opts...)
}

// AddAllocation calls PortfolioService.AddAllocation
func (c *PortfolioServiceClient) AddAllocation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AddAllocationMethod, in, opts...)
}

// ListAllocations calls PortfolioService.ListAllocations
func (c *PortfolioServiceClient) ListAllocations(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListAllocationsMethod, in, opts...)
}
