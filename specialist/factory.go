package specialist

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/errors"
	"vision-pilot/infrastructure/grpc/client"
	"vision-pilot/internal"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

var _ contract.SpecialistFactory = (*Factory)(nil)

// Factory builds a sidecar client when the descriptor carries an address,
// and a built-in specialist otherwise.
type Factory struct {
	log          *slog.Logger
	rate         rate.Limit
	burst        int
	readyTimeout time.Duration
	detector     contract.Detector
	dialOptions  []grpc.DialOption
}

type FactoryOption func(*Factory)

// WithDialOptions adds gRPC options to every sidecar connection.
func WithDialOptions(opts ...grpc.DialOption) FactoryOption {
	return func(f *Factory) { f.dialOptions = append(f.dialOptions, opts...) }
}

// WithDetector replaces the built-in annotation detector.
func WithDetector(d contract.Detector) FactoryOption {
	return func(f *Factory) { f.detector = d }
}

func NewFactory(log *slog.Logger, config internal.Config, opts ...FactoryOption) (*Factory, error) {
	f := &Factory{
		log:          log,
		rate:         rate.Limit(config.RemoteRatePerSecond),
		burst:        config.RemoteBurst,
		readyTimeout: config.SidecarReadyTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.detector == nil {
		f.detector = NewAnnotationDetector(nil)
		if config.AnnotationsDir != "" {
			d, err := LoadAnnotations(config.AnnotationsDir)
			if err != nil {
				return nil, fmt.Errorf("loading annotations: %w", err)
			}
			f.detector = d
		}
	}
	return f, nil
}

func (f *Factory) Create(ctx context.Context, descriptor domain.SpecialistDescriptor) (contract.Specialist, error) {
	if descriptor.Address != "" {
		return f.remote(ctx, descriptor)
	}
	if descriptor.Device == domain.GPU {
		return contract.Specialist{}, fmt.Errorf("%w: built-in %s runs on CPU only", errors.ErrDeviceInitFailed, descriptor.Name)
	}
	switch descriptor.Kind {
	case domain.DETECTOR:
		return contract.DetectorSpecialist(f.detector), nil
	case domain.MATCHER:
		return contract.MatcherSpecialist(NewLexicalMatcher(descriptor.ConfidenceThreshold)), nil
	case domain.TEXT_READER:
		return contract.TextReaderSpecialist(LabelReader{}), nil
	case domain.SEGMENTER:
		return contract.SegmenterSpecialist(BoxSegmenter{}), nil
	default:
		return contract.Specialist{}, fmt.Errorf("%w: %q", errors.ErrSpecialistKind, descriptor.Kind)
	}
}

// remote dials the sidecar and checks it serves the expected kind before
// handing the client out.
func (f *Factory) remote(ctx context.Context, descriptor domain.SpecialistDescriptor) (contract.Specialist, error) {
	conn, err := client.Dial(ctx, descriptor.Address, f.readyTimeout, f.dialOptions...)
	if err != nil {
		return contract.Specialist{}, err
	}
	remote := client.NewRemoteSpecialist(descriptor.Name, conn, rate.NewLimiter(f.rate, f.burst))

	health, err := remote.Health(ctx)
	if err != nil {
		_ = remote.Close()
		return contract.Specialist{}, fmt.Errorf("%w: %v", errors.ErrSpecialistUnavailable, err)
	}
	if health.Kind != descriptor.Kind {
		_ = remote.Close()
		return contract.Specialist{}, fmt.Errorf("%w: %s serves %s, want %s", errors.ErrSpecialistKind, descriptor.Address, health.Kind, descriptor.Kind)
	}
	f.log.Info("Sidecar connected", "name", descriptor.Name, "address", descriptor.Address, "remote_name", health.Name)

	switch descriptor.Kind {
	case domain.DETECTOR:
		return contract.DetectorSpecialist(remote), nil
	case domain.MATCHER:
		return contract.MatcherSpecialist(remote), nil
	case domain.TEXT_READER:
		return contract.TextReaderSpecialist(remote), nil
	default:
		return contract.SegmenterSpecialist(remote), nil
	}
}

// Builtin returns the local implementation of kind, as served by the sidecar binary.
func (f *Factory) Builtin(kind domain.SpecialistKind, threshold float64) (contract.Specialist, error) {
	return f.Create(context.Background(), domain.SpecialistDescriptor{Name: string(kind), Kind: kind, ConfidenceThreshold: threshold, Device: domain.CPU})
}
