package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"vision-pilot/auth"
	"vision-pilot/capture"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/errors"
	"vision-pilot/executor"
	"vision-pilot/infrastructure/storage"
	"vision-pilot/internal"
	"vision-pilot/runtime"
	"vision-pilot/runtime/workers"
	"vision-pilot/specialist"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or the calling script.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
	exitBlocked = 3
)

type options struct {
	image   string
	command string
	execute bool
	report  time.Duration
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pilot terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the engine, then either handles the -command once or reads
// commands from stdin until EOF, "quit" or a signal.
func run() (int, error) {
	var opts options
	flag.StringVar(&opts.image, "image", "", "Screenshot to analyse (PNG, JPEG or GIF)")
	flag.StringVar(&opts.command, "command", "", "Command to run once, stdin is read when empty")
	flag.BoolVar(&opts.execute, "execute", false, "Hand approved actions to the dry-run executor")
	flag.DurationVar(&opts.report, "report", 0, "Print a status line at this interval, 0 to disable")
	flag.Parse()

	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return exitConfig, fmt.Errorf("reading .env: %w", err)
	}
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	if opts.image == "" {
		return exitConfig, fmt.Errorf("-image is required")
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Audit store
	db, err := storage.OpenAuditDB(config.AuditDBPath)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing audit store...")
		_ = db.Close()
	}()
	index, err := storage.OpenAuditIndex(config.AuditIndexPath)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing audit index...")
		_ = index.Close()
	}()
	audit := storage.NewAuditRepository(db, logger, config.AuditRetention,
		storage.WithIndex(storage.NewAuditIndex(index, logger)))

	// 4. Specialists, sidecars first so the catalog knows their address
	catalog := specialist.DefaultCatalog(config)
	sidecars, err := startSidecars(ctx, logger, config, catalog)
	defer func() {
		for _, s := range sidecars {
			s.Stop()
		}
	}()
	if err != nil {
		return exitRuntime, err
	}
	var factoryOpts []specialist.FactoryOption
	if config.SidecarSecret != "" {
		key, err := auth.DeriveKey(config.SidecarSecret)
		if err != nil {
			return exitConfig, err
		}
		factoryOpts = append(factoryOpts, specialist.WithDialOptions(
			grpc.WithPerRPCCredentials(auth.NewTokenCredentials(key, "pilot", config.SidecarTokenTTL))))
	}
	factory, err := specialist.NewFactory(logger, config, factoryOpts...)
	if err != nil {
		return exitConfig, err
	}

	// 5. Engine
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var exec contract.InputExecutor
	if opts.execute {
		exec = executor.NewDryRunExecutor(logger, os.Stdout)
	}
	engine, err := runtime.NewEngine(logger, config, runtime.Deps{
		Catalog:    catalog,
		Factory:    factory,
		Executor:   exec,
		Audit:      audit,
		Prometheus: reg,
	})
	if err != nil {
		return exitConfig, err
	}

	var extra []contract.Worker
	if opts.report > 0 {
		extra = append(extra, workers.NewReporterWorker(os.Stderr, engine.Stats, engine.Ledger, opts.report))
	}
	engine.Start(ctx, extra...)
	defer engine.Shutdown()
	for _, s := range sidecars {
		engine.Track(s.Process)
	}

	if config.DebugPort > 0 {
		internal.StartDebugServer(ctx, logger, config.DebugPort, internal.NewDebugMux(audit, reg, func() map[string]any {
			return map[string]any{
				"pipeline": engine.Stats.Snapshot(),
				"memory":   engine.Ledger.Usage(),
				"safety":   engine.Safety.Stats(),
			}
		}))
	}

	// 6. Commands
	screen := capture.NewFileCapture(opts.image)
	input := bufio.NewScanner(os.Stdin)
	if opts.command != "" {
		allowed, err := handle(ctx, engine, screen, input, opts.command)
		if err != nil {
			return exitRuntime, err
		}
		if !allowed {
			return exitBlocked, nil
		}
		return exitOK, nil
	}

	fmt.Println("Type a command, \"stop\" for the emergency stop, \"resume\" to clear it, \"quit\" to leave.")
	for prompt(); input.Scan(); prompt() {
		line := strings.TrimSpace(input.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return exitOK, nil
		case "stop":
			engine.EmergencyStop("operator request")
			continue
		case "resume":
			engine.ClearEmergencyStop()
			continue
		}
		if _, err := handle(ctx, engine, screen, input, line); err != nil {
			color.Red.Println(err.Error())
		}
		if ctx.Err() != nil {
			break
		}
	}
	return exitOK, nil
}

func prompt() {
	fmt.Print("pilot> ")
}

func startSidecars(ctx context.Context, log *slog.Logger, config internal.Config, catalog *specialist.Catalog) ([]*specialist.Sidecar, error) {
	if config.SidecarBin == "" {
		return nil, nil
	}
	ports, err := specialist.ParseSidecars(config.SidecarList())
	if err != nil {
		return nil, err
	}
	var started []*specialist.Sidecar
	for _, p := range ports {
		descriptor, ok := catalog.Descriptor(p.Name)
		if !ok {
			return started, fmt.Errorf("sidecar %s is not a configured specialist", p.Name)
		}
		s, err := specialist.StartSidecar(ctx, log, specialist.SidecarConfig{
			Bin:            config.SidecarBin,
			Name:           p.Name,
			Kind:           descriptor.Kind,
			Port:           p.Port,
			Threshold:      descriptor.ConfidenceThreshold,
			LogLevel:       config.LogLevel,
			AnnotationsDir: config.AnnotationsDir,
			ReadyTimeout:   config.SidecarReadyTimeout,
		})
		if err != nil {
			return started, err
		}
		catalog.SetAddress(p.Name, s.Addr)
		started = append(started, s)
	}
	return started, nil
}

// handle runs one command end to end and reports whether the action was allowed.
func handle(ctx context.Context, engine *runtime.Engine, screen contract.ScreenCapture, input *bufio.Scanner, command string) (bool, error) {
	image, width, height, err := screen.Capture(ctx)
	if err != nil {
		return false, err
	}
	result, err := engine.Analyze(ctx, command, image, width, height)
	if err != nil {
		return false, err
	}
	printResult(os.Stdout, result)

	action, verdict := engine.Propose(result, command)
	if verdict.RequiresConfirmation {
		printVerdict(verdict)
		fmt.Printf("Confirm %s within %s? [y/N] ", action.Kind, verdict.ExpiresIn)
		approved := input.Scan() && strings.EqualFold(strings.TrimSpace(input.Text()), "y")
		verdict = engine.Confirm(verdict.ConfirmationID, approved)
	}
	printVerdict(verdict)
	if !verdict.Allowed {
		return false, nil
	}

	err = engine.Execute(ctx, action, verdict)
	if errors.Is(err, errors.ErrNoExecutor) {
		fmt.Println("Run with -execute to perform the action.")
		return true, nil
	}
	return true, err
}

func printResult(out io.Writer, result domain.AnalysisResult) {
	fmt.Fprintf(out, "\nMode %s, confidence %.2f, %d element(s), %s\n",
		strings.ToUpper(string(result.Mode)), result.Confidence, len(result.Objects), result.Timings[domain.StagePipeline].Round(time.Millisecond))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Point", "Confidence", "Type", "Text", "Reasoning"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for i, t := range result.Targets {
		table.Append([]string{
			fmt.Sprint(i + 1),
			fmt.Sprintf("(%d, %d)", t.Point.X, t.Point.Y),
			fmt.Sprintf("%.2f", t.Confidence),
			string(t.ElementType),
			t.Text,
			t.Reasoning,
		})
	}
	table.Render()
}

func printVerdict(verdict domain.SafetyResult) {
	line := fmt.Sprintf("%s [%s] %s", verdict.Status, verdict.Risk, verdict.Reason)
	switch verdict.Status {
	case domain.APPROVED:
		color.Green.Println(line)
	case domain.PENDING_CONFIRMATION:
		color.Yellow.Println(line)
	default:
		color.Red.Println(line)
	}
}
