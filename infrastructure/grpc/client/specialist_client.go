package client

import (
	"context"
	"fmt"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/errors"
	"vision-pilot/infrastructure/grpc/wire"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	_ contract.Detector   = (*RemoteSpecialist)(nil)
	_ contract.Matcher    = (*RemoteSpecialist)(nil)
	_ contract.TextReader = (*RemoteSpecialist)(nil)
	_ contract.Segmenter  = (*RemoteSpecialist)(nil)
)

// RemoteSpecialist calls a specialist sidecar. Calls are paced by a token
// bucket so a slow sidecar is not flooded by OCR fan-out.
type RemoteSpecialist struct {
	Name    string
	Address string
	conn    *grpc.ClientConn
	limiter *rate.Limiter
}

func NewRemoteSpecialist(name string, conn *grpc.ClientConn, limiter *rate.Limiter) *RemoteSpecialist {
	return &RemoteSpecialist{Name: name, Address: conn.Target(), conn: conn, limiter: limiter}
}

func (r *RemoteSpecialist) Detect(ctx context.Context, image []byte) ([]domain.DetectedObject, error) {
	var out wire.DetectResponse
	if err := r.call(ctx, wire.MethodDetect, wire.DetectRequest{Image: image}, &out); err != nil {
		return nil, err
	}
	return out.Objects, nil
}

func (r *RemoteSpecialist) Match(ctx context.Context, text string, elements []domain.DetectedObject) ([]domain.MatchResult, error) {
	var out wire.MatchResponse
	if err := r.call(ctx, wire.MethodMatch, wire.MatchRequest{Text: text, Elements: elements}, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

func (r *RemoteSpecialist) Extract(ctx context.Context, image []byte, region domain.DetectedObject) (domain.ExtractedText, error) {
	var out wire.ExtractResponse
	if err := r.call(ctx, wire.MethodExtract, wire.ExtractRequest{Image: image, Region: region}, &out); err != nil {
		return domain.ExtractedText{}, err
	}
	return out.Text, nil
}

func (r *RemoteSpecialist) Segment(ctx context.Context, image []byte, prompts []domain.DetectedObject) ([]domain.Mask, error) {
	var out wire.SegmentResponse
	if err := r.call(ctx, wire.MethodSegment, wire.SegmentRequest{Image: image, Prompts: prompts}, &out); err != nil {
		return nil, err
	}
	return out.Masks, nil
}

// Health asks the sidecar who it is. Used once after dialing to check the kind.
func (r *RemoteSpecialist) Health(ctx context.Context) (wire.HealthResponse, error) {
	var out wire.HealthResponse
	err := r.call(ctx, wire.MethodHealth, wire.HealthRequest{}, &out)
	return out, err
}

func (r *RemoteSpecialist) Close() error {
	return r.conn.Close()
}

func (r *RemoteSpecialist) call(ctx context.Context, method string, in, out any) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	req, err := wire.Encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := r.conn.Invoke(ctx, wire.FullMethod(method), req, resp); err != nil {
		return fmt.Errorf("%s.%s: %w", r.Name, method, err)
	}
	return wire.Decode(resp, out)
}

// Dial opens a connection and waits until it is READY or readyTimeout elapses.
// Extra options are appended, which lets tests plug a bufconn dialer.
func Dial(ctx context.Context, addr string, readyTimeout time.Duration, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  100 * time.Millisecond,
				Multiplier: 1.6,
				Jitter:     0.2,
				MaxDelay:   3 * time.Second,
			},
		}),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}

	readyCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return conn, nil
		}
		if !conn.WaitForStateChange(readyCtx, state) {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: %s is %s", errors.ErrSpecialistUnavailable, addr, state)
		}
	}
}
