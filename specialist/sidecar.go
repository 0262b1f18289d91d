package specialist

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"vision-pilot/domain"
	"vision-pilot/errors"
	"vision-pilot/infrastructure/grpc/client"
)

const sidecarHost = "127.0.0.1"

// SidecarConfig is what the pilot passes to a specialist binary.
type SidecarConfig struct {
	Bin            string
	Name           string
	Kind           domain.SpecialistKind
	Port           int
	Threshold      float64
	LogLevel       string
	AnnotationsDir string
	ReadyTimeout   time.Duration
}

func (c SidecarConfig) Addr() string {
	return net.JoinHostPort(sidecarHost, strconv.Itoa(c.Port))
}

// Sidecar is a running specialist process.
type Sidecar struct {
	Name    string
	Addr    string
	Process domain.Process
	cmd     *exec.Cmd
	done    chan struct{}
}

// StartSidecar runs the specialist binary as a child process tied to ctx and
// returns once its gRPC server accepts connections.
func StartSidecar(ctx context.Context, log *slog.Logger, cfg SidecarConfig) (*Sidecar, error) {
	if _, err := os.Stat(cfg.Bin); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrSpecialistNotFound, cfg.Bin)
	}

	args := []string{
		"-name", cfg.Name,
		"-kind", string(cfg.Kind),
		"-port", strconv.Itoa(cfg.Port),
		"-threshold", strconv.FormatFloat(cfg.Threshold, 'f', -1, 64),
		"-level", cfg.LogLevel,
	}
	if cfg.AnnotationsDir != "" {
		args = append(args, "-annotations", cfg.AnnotationsDir)
	}
	cmd := exec.CommandContext(ctx, cfg.Bin, args...)
	cmd.Stdout = &sidecarLogWriter{logger: log, name: cfg.Name}
	cmd.Stderr = &sidecarLogWriter{logger: log, name: cfg.Name, isError: true}
	setPlatformSpecificAttrs(cmd)

	log.Debug("Sidecar binary called", "cmd", cmd.String())
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSpecialistStartFailed, err)
	}
	sidecar := &Sidecar{
		Name:    cfg.Name,
		Addr:    cfg.Addr(),
		Process: domain.Process{PID: domain.PID(cmd.Process.Pid), Name: cfg.Name},
		cmd:     cmd,
		done:    make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(sidecar.done)
	}()

	conn, err := client.Dial(ctx, sidecar.Addr, cfg.ReadyTimeout)
	if err != nil {
		// no zombie when the handshake fails
		sidecar.Stop()
		return nil, fmt.Errorf("%w on %s: %v", errors.ErrSpecialistUnavailable, sidecar.Addr, err)
	}
	_ = conn.Close()

	log.Info("Sidecar is ready", "name", cfg.Name, "kind", cfg.Kind, "address", sidecar.Addr, "pid", sidecar.Process.PID)
	return sidecar, nil
}

// Stop kills the process and waits for it to be reaped.
func (s *Sidecar) Stop() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	<-s.done
}

// SidecarPort is one "name=port" entry of the SIDECARS setting.
type SidecarPort struct {
	Name string
	Port int
}

func ParseSidecars(entries []string) ([]SidecarPort, error) {
	out := make([]SidecarPort, 0, len(entries))
	for _, entry := range entries {
		name, rawPort, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid sidecar entry %q, want name=port", entry)
		}
		port, err := strconv.Atoi(strings.TrimSpace(rawPort))
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid sidecar port in %q", entry)
		}
		out = append(out, SidecarPort{Name: strings.TrimSpace(name), Port: port})
	}
	return out, nil
}
