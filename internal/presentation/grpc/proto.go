package grpc

// proto.go defines the gRPC server interface derived from vaultpay/fraud/v1/prediction.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/vaultpay/api/gen/go/vaultpay/fraud/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PredictionServiceServer is the server API for PredictionService.
type PredictionServiceServer interface {
	PredictTransaction(context.Context, *PredictTransactionRequest) (*PredictTransactionResponse, error)
	GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error)
	mustEmbedUnimplementedPredictionServiceServer()
}

// UnimplementedPredictionServiceServer provides forward-compatible default implementations.
type UnimplementedPredictionServiceServer struct{}

func (UnimplementedPredictionServiceServer) PredictTransaction(context.Context, *PredictTransactionRequest) (*PredictTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PredictTransaction not implemented")
}
func (UnimplementedPredictionServiceServer) GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPrediction not implemented")
}
func (UnimplementedPredictionServiceServer) mustEmbedUnimplementedPredictionServiceServer() {}

// RegisterPredictionServiceServer registers the PredictionServiceServer with the gRPC server.
func RegisterPredictionServiceServer(s *grpclib.Server, srv PredictionServiceServer) {
	s.RegisterService(&_PredictionService_serviceDesc, srv)
}

var _PredictionService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "vaultpay.fraud.v1.PredictionService",
	HandlerType: (*PredictionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "PredictTransaction", Handler: _PredictionService_PredictTransaction_Handler},
		{MethodName: "GetPrediction", Handler: _PredictionService_GetPrediction_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _PredictionService_PredictTransaction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(PredictionServiceServer).PredictTransaction(ctx, req)
}

func _PredictionService_GetPrediction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetPredictionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(PredictionServiceServer).GetPrediction(ctx, req)
}
