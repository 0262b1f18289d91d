package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"vision-pilot/auth"
	"vision-pilot/domain"
	"vision-pilot/infrastructure/grpc/server"
	"vision-pilot/internal"
	"vision-pilot/specialist"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"google.golang.org/grpc"
)

func main() {
	// Flags passed by the pilot's StartSidecar
	name := flag.String("name", "unknown", "Specialist name")
	kind := flag.String("kind", string(domain.DETECTOR), "DETECTOR, MATCHER, TEXT_READER or SEGMENTER")
	port := flag.Int("port", 50051, "gRPC port")
	threshold := flag.Float64("threshold", 0.5, "Confidence threshold")
	level := flag.String("level", "INFO", "Log Level")
	annotations := flag.String("annotations", "", "Directory of screenshot annotations for the detector")
	flag.Parse()

	logger := logs.GetLoggerFromString(lo.FromPtr(level))

	config := internal.DefaultConfig()
	config.AnnotationsDir = *annotations
	factory, err := specialist.NewFactory(logger, config)
	if err != nil {
		log.Fatalf("failed to build specialist: %v", err)
	}
	instance, err := factory.Builtin(domain.SpecialistKind(*kind), *threshold)
	if err != nil {
		log.Fatalf("failed to build specialist: %v", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", *port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	var serverOpts []grpc.ServerOption
	if secret := os.Getenv(auth.SecretEnv); secret != "" {
		key, err := auth.DeriveKey(secret)
		if err != nil {
			log.Fatalf("invalid sidecar secret: %v", err)
		}
		serverOpts = append(serverOpts, grpc.UnaryInterceptor(auth.UnaryServerInterceptor(key)))
	}
	s := grpc.NewServer(serverOpts...)
	server.Register(s, server.NewSpecialistServer(logger, *name, instance))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		s.GracefulStop()
	}()

	slog.Info("Specialist starting", "name", *name, "kind", *kind, "port", *port)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
