// Package wire defines the specialist gRPC protocol. Messages travel as
// google.protobuf.Struct so no generated code is needed on either side.
package wire

import (
	"encoding/json"
	"fmt"
	"vision-pilot/domain"

	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "visionpilot.Specialist"

const (
	MethodDetect  = "Detect"
	MethodMatch   = "Match"
	MethodExtract = "Extract"
	MethodSegment = "Segment"
	MethodHealth  = "Health"
)

// FullMethod is the path used by grpc.ClientConn.Invoke.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type DetectRequest struct {
	Image []byte `json:"image"`
}

type DetectResponse struct {
	Objects []domain.DetectedObject `json:"objects"`
}

type MatchRequest struct {
	Text     string                  `json:"text"`
	Elements []domain.DetectedObject `json:"elements"`
}

type MatchResponse struct {
	Matches []domain.MatchResult `json:"matches"`
}

type ExtractRequest struct {
	Image  []byte                `json:"image"`
	Region domain.DetectedObject `json:"region"`
}

type ExtractResponse struct {
	Text domain.ExtractedText `json:"text"`
}

type SegmentRequest struct {
	Image   []byte                  `json:"image"`
	Prompts []domain.DetectedObject `json:"prompts"`
}

type SegmentResponse struct {
	Masks []domain.Mask `json:"masks"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Name   string                `json:"name"`
	Kind   domain.SpecialistKind `json:"kind"`
	Status string                `json:"status"`
}

// Encode converts any JSON-serialisable message into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := s.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	return s, nil
}

// Decode fills v from s. A nil Struct leaves v untouched.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	raw, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decoding %T: %w", v, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %T: %w", v, err)
	}
	return nil
}
