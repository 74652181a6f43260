package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service
// ServiceName is the fully qualified gRPC service name.
const ServiceName = "responder.v1.Responder"

const (
	methodOpenSession  = "OpenSession"
	methodCloseSession = "CloseSession"
	methodResolve      = "Resolve"
	methodTeach        = "Teach"
	methodReset        = "Reset"
)

// ResponderServer is the server API for the Responder service. Every message
// is a google.protobuf.Struct with the fields documented on Server.
type ResponderServer interface {
	OpenSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Teach(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the Responder service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResponderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodOpenSession, Handler: unaryHandler(methodOpenSession, ResponderServer.OpenSession)},
		{MethodName: methodCloseSession, Handler: unaryHandler(methodCloseSession, ResponderServer.CloseSession)},
		{MethodName: methodResolve, Handler: unaryHandler(methodResolve, ResponderServer.Resolve)},
		{MethodName: methodTeach, Handler: unaryHandler(methodTeach, ResponderServer.Teach)},
		{MethodName: methodReset, Handler: unaryHandler(methodReset, ResponderServer.Reset)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "responder/v1/responder.proto",
}

// RegisterResponderServer registers srv on s.
func RegisterResponderServer(s grpc.ServiceRegistrar, srv ResponderServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler(method string, call func(ResponderServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ResponderServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ResponderServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// #endregion service
