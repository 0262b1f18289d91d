package server

import (
	"context"
	"vision-pilot/infrastructure/grpc/wire"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceDesc is written by hand: every method takes and returns a Struct.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: wire.ServiceName,
	HandlerType: (*SpecialistService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: wire.MethodDetect, Handler: unaryHandler(wire.MethodDetect, SpecialistService.Detect)},
		{MethodName: wire.MethodMatch, Handler: unaryHandler(wire.MethodMatch, SpecialistService.Match)},
		{MethodName: wire.MethodExtract, Handler: unaryHandler(wire.MethodExtract, SpecialistService.Extract)},
		{MethodName: wire.MethodSegment, Handler: unaryHandler(wire.MethodSegment, SpecialistService.Segment)},
		{MethodName: wire.MethodHealth, Handler: unaryHandler(wire.MethodHealth, SpecialistService.Health)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "visionpilot/specialist.proto",
}

type unaryMethod func(SpecialistService, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		svc := srv.(SpecialistService)
		if interceptor == nil {
			return call(svc, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: wire.FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(svc, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
