package e2e

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
	"vision-pilot/contract"
	"vision-pilot/infrastructure/grpc/server"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// Step prints a colorized header for a test step in logs
func (s *BaseGrpcSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// DebugInterceptor logs every sidecar call, with full JSON bodies when E2E_DEBUG_JSON is set
func (s *BaseGrpcSuite) DebugInterceptor(t *testing.T) grpc.UnaryClientInterceptor {
	marshaler := protojson.MarshalOptions{
		UseProtoNames:   true,
		Multiline:       true,
		EmitUnpopulated: true,
	}
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)

		logBuilder := strings.Builder{}
		fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

		if s.Config.DebugJSON {
			fmt.Fprintln(&logBuilder, "\nREQUEST:")
			fmt.Fprintln(&logBuilder, marshaler.Format(req.(proto.Message)))
			if err != nil {
				fmt.Fprintln(&logBuilder, "ERROR:", err)
			} else {
				fmt.Fprintln(&logBuilder, "RESPONSE:")
				fmt.Fprintln(&logBuilder, marshaler.Format(reply.(proto.Message)))
			}
		}
		t.Log(logBuilder.String())
		return err
	}
}

// StartSidecar serves specialist on a free local port until the test ends.
// The returned stop func lets a test kill the sidecar earlier.
func (s *BaseGrpcSuite) StartSidecar(name string, specialist contract.Specialist, opts ...grpc.ServerOption) (string, func()) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)

	srv := grpc.NewServer(opts...)
	server.Register(srv, server.NewSpecialistServer(logs.GetLoggerFromString(s.Config.LogLevel), name, specialist))
	go func() { _ = srv.Serve(lis) }()
	s.T().Cleanup(srv.Stop)

	s.T().Logf("Sidecar %s (%s) listening on %s", name, specialist.Kind(), lis.Addr())
	return lis.Addr().String(), srv.Stop
}
