package client_test

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"
	"vision-pilot/auth"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/errors"
	"vision-pilot/infrastructure/grpc/client"
	"vision-pilot/infrastructure/grpc/server"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeDetector struct {
	objects []domain.DetectedObject
	err     error
}

func (f fakeDetector) Detect(_ context.Context, image []byte) ([]domain.DetectedObject, error) {
	if len(image) == 0 {
		return nil, errors.ErrInvalidImage
	}
	return f.objects, f.err
}

func dialSidecar(t *testing.T, name string, specialist contract.Specialist) *grpc.ClientConn {
	return dialSidecarWith(t, name, specialist, nil, nil)
}

func dialSidecarWith(t *testing.T, name string, specialist contract.Specialist, serverOpts []grpc.ServerOption, dialOpts []grpc.DialOption) *grpc.ClientConn {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer(serverOpts...)
	server.Register(s, server.NewSpecialistServer(log, name, specialist))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	dialOpts = append(dialOpts, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	conn, err := client.Dial(context.Background(), "passthrough:///bufnet", 2*time.Second, dialOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func startSidecar(t *testing.T, name string, specialist contract.Specialist) *client.RemoteSpecialist {
	return client.NewRemoteSpecialist(name, dialSidecar(t, name, specialist), rate.NewLimiter(rate.Inf, 1))
}

func TestRemoteSpecialist_DetectRoundTrip(t *testing.T) {
	req := require.New(t)
	button := domain.DetectedObject{
		ID:          "b1",
		Label:       "button",
		Text:        "Save",
		Confidence:  0.9,
		BBox:        domain.BoundingBox{X: 100, Y: 50, Width: 80, Height: 30},
		ElementType: domain.BUTTON,
	}
	remote := startSidecar(t, "florence", contract.DetectorSpecialist(fakeDetector{objects: []domain.DetectedObject{button}}))

	// When the sidecar is asked to detect
	objects, err := remote.Detect(context.Background(), []byte{0x89, 0x50})

	// Then the objects survive the wire unchanged
	req.NoError(err)
	req.Equal([]domain.DetectedObject{button}, objects)
}

func TestRemoteSpecialist_Health(t *testing.T) {
	req := require.New(t)
	remote := startSidecar(t, "florence", contract.DetectorSpecialist(fakeDetector{}))

	health, err := remote.Health(context.Background())

	req.NoError(err)
	req.Equal("florence", health.Name)
	req.Equal(domain.DETECTOR, health.Kind)
	req.Equal("SERVING", health.Status)
}

func TestRemoteSpecialist_WrongCapabilityIsUnimplemented(t *testing.T) {
	req := require.New(t)
	// Given a detector sidecar
	remote := startSidecar(t, "florence", contract.DetectorSpecialist(fakeDetector{}))

	// When it is asked to match
	_, err := remote.Match(context.Background(), "save", nil)

	// Then the server refuses the call
	req.Error(err)
	req.Equal(codes.Unimplemented, status.Code(err))
}

func TestRemoteSpecialist_SpecialistErrorIsInternal(t *testing.T) {
	req := require.New(t)
	remote := startSidecar(t, "florence", contract.DetectorSpecialist(fakeDetector{}))

	_, err := remote.Detect(context.Background(), nil)

	req.Error(err)
	req.Equal(codes.Internal, status.Code(err))
	req.Contains(err.Error(), "invalid image")
}

func TestRemoteSpecialist_RateLimiterHonoursContext(t *testing.T) {
	req := require.New(t)
	conn := dialSidecar(t, "florence", contract.DetectorSpecialist(fakeDetector{}))
	paced := client.NewRemoteSpecialist("florence", conn, rate.NewLimiter(rate.Every(time.Hour), 1))

	// Given the only token is spent
	_, err := paced.Detect(context.Background(), []byte{1})
	req.NoError(err)

	// When the next call cannot wait long enough
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = paced.Detect(ctx, []byte{1})

	// Then it fails without reaching the sidecar
	req.Error(err)
}

func TestDial_UnreachableAddress(t *testing.T) {
	req := require.New(t)

	lis := bufconn.Listen(1024)
	_ = lis.Close()
	_, err := client.Dial(context.Background(), "passthrough:///closed", 200*time.Millisecond,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))

	req.ErrorIs(err, errors.ErrSpecialistUnavailable)
}

func TestRemoteSpecialist_TokenAuth(t *testing.T) {
	req := require.New(t)
	key, err := auth.DeriveKey("correct-horse-battery-42")
	req.NoError(err)
	serverOpts := []grpc.ServerOption{grpc.UnaryInterceptor(auth.UnaryServerInterceptor(key))}
	detector := contract.DetectorSpecialist(fakeDetector{objects: []domain.DetectedObject{{ID: "b1", Label: "button"}}})

	// Given a sidecar requiring tokens and a client that does not send one
	anonymous := client.NewRemoteSpecialist("florence", dialSidecarWith(t, "florence", detector, serverOpts, nil), rate.NewLimiter(rate.Inf, 1))

	// Then health answers but detection is refused
	_, err = anonymous.Health(context.Background())
	req.NoError(err)
	_, err = anonymous.Detect(context.Background(), []byte{1})
	req.Equal(codes.Unauthenticated, status.Code(err))

	// When the client signs its calls with the shared key
	signed := client.NewRemoteSpecialist("florence", dialSidecarWith(t, "florence", detector, serverOpts,
		[]grpc.DialOption{grpc.WithPerRPCCredentials(auth.NewTokenCredentials(key, "pilot", time.Minute))}),
		rate.NewLimiter(rate.Inf, 1))
	objects, err := signed.Detect(context.Background(), []byte{1})

	// Then detection goes through
	req.NoError(err)
	req.Len(objects, 1)
}
