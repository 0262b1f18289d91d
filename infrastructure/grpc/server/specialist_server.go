package server

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"vision-pilot/contract"
	"vision-pilot/infrastructure/grpc/wire"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SpecialistService is the server side of the specialist protocol.
type SpecialistService interface {
	Detect(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Match(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Segment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Health(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var _ SpecialistService = (*SpecialistServer)(nil)

// SpecialistServer exposes one local specialist over gRPC. Methods of the
// other kinds answer Unimplemented.
type SpecialistServer struct {
	name       string
	specialist contract.Specialist
	log        *slog.Logger
}

func NewSpecialistServer(log *slog.Logger, name string, specialist contract.Specialist) *SpecialistServer {
	return &SpecialistServer{name: name, specialist: specialist, log: log}
}

// Register attaches srv to s under the specialist service name.
func Register(s *grpc.Server, srv SpecialistService) {
	s.RegisterService(&ServiceDesc, srv)
}

func (s *SpecialistServer) Detect(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.specialist.Detector == nil {
		return nil, s.unimplemented(wire.MethodDetect)
	}
	var in wire.DetectRequest
	if err := wire.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	start := time.Now()
	objects, err := s.specialist.Detector.Detect(ctx, in.Image)
	if err != nil {
		return nil, s.failed(wire.MethodDetect, err)
	}
	s.log.Debug("Specialist called", "name", s.name, "method", wire.MethodDetect, "objects", len(objects), "took", time.Since(start))
	return encode(wire.DetectResponse{Objects: objects})
}

func (s *SpecialistServer) Match(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.specialist.Matcher == nil {
		return nil, s.unimplemented(wire.MethodMatch)
	}
	var in wire.MatchRequest
	if err := wire.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	matches, err := s.specialist.Matcher.Match(ctx, in.Text, in.Elements)
	if err != nil {
		return nil, s.failed(wire.MethodMatch, err)
	}
	s.log.Debug("Specialist called", "name", s.name, "method", wire.MethodMatch, "matches", len(matches))
	return encode(wire.MatchResponse{Matches: matches})
}

func (s *SpecialistServer) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.specialist.TextReader == nil {
		return nil, s.unimplemented(wire.MethodExtract)
	}
	var in wire.ExtractRequest
	if err := wire.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	text, err := s.specialist.TextReader.Extract(ctx, in.Image, in.Region)
	if err != nil {
		return nil, s.failed(wire.MethodExtract, err)
	}
	return encode(wire.ExtractResponse{Text: text})
}

func (s *SpecialistServer) Segment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.specialist.Segmenter == nil {
		return nil, s.unimplemented(wire.MethodSegment)
	}
	var in wire.SegmentRequest
	if err := wire.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	masks, err := s.specialist.Segmenter.Segment(ctx, in.Image, in.Prompts)
	if err != nil {
		return nil, s.failed(wire.MethodSegment, err)
	}
	return encode(wire.SegmentResponse{Masks: masks})
}

func (s *SpecialistServer) Health(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(wire.HealthResponse{Name: s.name, Kind: s.specialist.Kind(), Status: "SERVING"})
}

func (s *SpecialistServer) unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "specialist %s (%s) does not implement %s", s.name, s.specialist.Kind(), method)
}

func (s *SpecialistServer) failed(method string, err error) error {
	s.log.Warn("Specialist call failed", "name", s.name, "method", method, "error", err)
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

func encode(v any) (*structpb.Struct, error) {
	out, err := wire.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
