// Package katago describes the analysis microservice. Requests and responses
// travel as google.protobuf.Struct values holding the JSON documents of the
// KataGo analysis protocol, so the service needs no generated messages.
package katago

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"tsumego_lab/internal/domain"
)

const (
	ServiceName       = "katago.KatagoService"
	AnalyzeFullMethod = "/" + ServiceName + "/Analyze"
)

// KatagoServiceServer is the server API for KatagoService.
type KatagoServiceServer interface {
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedKatagoServiceServer can be embedded to have forward compatible implementations.
type UnimplementedKatagoServiceServer struct{}

func (UnimplementedKatagoServiceServer) Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Analyze not implemented")
}

func RegisterKatagoServiceServer(s grpc.ServiceRegistrar, srv KatagoServiceServer) {
	s.RegisterService(&KatagoService_ServiceDesc, srv)
}

func _KatagoService_Analyze_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KatagoServiceServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AnalyzeFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KatagoServiceServer).Analyze(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// KatagoService_ServiceDesc is the grpc.ServiceDesc for KatagoService.
var KatagoService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KatagoServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Analyze",
			Handler:    _KatagoService_Analyze_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "katago.proto",
}

// KatagoServiceClient is the client API for KatagoService.
type KatagoServiceClient interface {
	Analyze(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type katagoServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewKatagoServiceClient(cc grpc.ClientConnInterface) KatagoServiceClient {
	return &katagoServiceClient{cc}
}

func (c *katagoServiceClient) Analyze(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, AnalyzeFullMethod, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RequestToStruct converts a domain request into its wire form.
func RequestToStruct(req domain.AnalysisRequest) (*structpb.Struct, error) {
	return toStruct(req)
}

// StructToRequest is the inverse of RequestToStruct.
func StructToRequest(s *structpb.Struct) (domain.AnalysisRequest, error) {
	var req domain.AnalysisRequest
	err := fromStruct(s, &req)
	return req, err
}

// ResponseToStruct converts a domain response into its wire form.
func ResponseToStruct(resp domain.AnalysisResponse) (*structpb.Struct, error) {
	return toStruct(resp)
}

// StructToResponse is the inverse of ResponseToStruct.
func StructToResponse(s *structpb.Struct) (domain.AnalysisResponse, error) {
	var resp domain.AnalysisResponse
	err := fromStruct(s, &resp)
	return resp, err
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	s := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("failed to convert %T to struct: %w", v, err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v interface{}) error {
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to convert struct: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}
