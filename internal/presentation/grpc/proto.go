package grpc

// proto.go defines the gRPC server interface for twinrisk.v1.RiskService.
// Messages are plain structs carried by the JSON codec in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "twinrisk.v1.RiskService"

	MethodPredictRisk  = "/" + ServiceName + "/PredictRisk"
	MethodGetModelInfo = "/" + ServiceName + "/GetModelInfo"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	PredictRisk(context.Context, *PredictRiskRequest) (*PredictRiskResponse, error)
	GetModelInfo(context.Context, *GetModelInfoRequest) (*GetModelInfoResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) PredictRisk(context.Context, *PredictRiskRequest) (*PredictRiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PredictRisk not implemented")
}
func (UnimplementedRiskServiceServer) GetModelInfo(context.Context, *GetModelInfoRequest) (*GetModelInfoResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetModelInfo not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "PredictRisk", Handler: _RiskService_PredictRisk_Handler},
		{MethodName: "GetModelInfo", Handler: _RiskService_GetModelInfo_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "twinrisk/v1/risk.proto",
}

func _RiskService_PredictRisk_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(PredictRiskRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).PredictRisk(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodPredictRisk}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskServiceServer).PredictRisk(ctx, req.(*PredictRiskRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _RiskService_GetModelInfo_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(GetModelInfoRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).GetModelInfo(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetModelInfo}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskServiceServer).GetModelInfo(ctx, req.(*GetModelInfoRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// RiskServiceClient is the client API for RiskService.
type RiskServiceClient interface {
	PredictRisk(ctx context.Context, in *PredictRiskRequest, opts ...grpclib.CallOption) (*PredictRiskResponse, error)
	GetModelInfo(ctx context.Context, in *GetModelInfoRequest, opts ...grpclib.CallOption) (*GetModelInfoResponse, error)
}

type riskServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewRiskServiceClient creates a client that sends JSON-encoded messages.
func NewRiskServiceClient(cc grpclib.ClientConnInterface) RiskServiceClient {
	return &riskServiceClient{cc: cc}
}

func (c *riskServiceClient) PredictRisk(ctx context.Context, in *PredictRiskRequest, opts ...grpclib.CallOption) (*PredictRiskResponse, error) {
	out := new(PredictRiskResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodPredictRisk, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskServiceClient) GetModelInfo(ctx context.Context, in *GetModelInfoRequest, opts ...grpclib.CallOption) (*GetModelInfoResponse, error) {
	out := new(GetModelInfoResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodGetModelInfo, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
