package workers

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/domain/event"

	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
)

const bytesPerMB = 1024 * 1024

// HealthMonitoringWorker samples the pilot itself and every tracked
// specialist sidecar, and publishes one PerformanceSample per process.
type HealthMonitoringWorker struct {
	mu                 sync.Mutex
	log                *slog.Logger
	bus                contract.EventPublisher
	processTrackerChan chan domain.Process
	metricInterval     time.Duration
	processes          map[domain.PID]string
}

func NewHealthMonitoringWorker(log *slog.Logger, bus contract.EventPublisher, metricInterval time.Duration) *HealthMonitoringWorker {
	w := &HealthMonitoringWorker{
		log:                log,
		bus:                bus,
		processTrackerChan: make(chan domain.Process, 16),
		metricInterval:     metricInterval,
		processes:          make(map[domain.PID]string),
	}
	w.processes[domain.PID(os.Getpid())] = "pilot"
	return w
}

// Track asks the worker to follow proc. It never blocks.
func (w *HealthMonitoringWorker) Track(proc domain.Process) {
	select {
	case w.processTrackerChan <- proc:
	default:
		w.log.Debug("Process tracking request lost", "pid", proc.PID)
	}
}

func (w *HealthMonitoringWorker) Tracked() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.processes)
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			w.sample()
		case proc := <-w.processTrackerChan:
			w.mu.Lock()
			w.processes[proc.PID] = proc.Name
			w.mu.Unlock()
		}
	}
}

func (w *HealthMonitoringWorker) sample() {
	hostUsed := 0.0
	if vm, err := mem.VirtualMemory(); err == nil {
		hostUsed = vm.UsedPercent
	} else {
		w.log.Debug("Error while reading host memory", "err", err)
	}

	w.mu.Lock()
	tracked := make(map[domain.PID]string, len(w.processes))
	for pid, name := range w.processes {
		tracked[pid] = name
	}
	w.mu.Unlock()

	for pid, name := range tracked {
		sample, err := sampleProcess(pid, name)
		if err != nil {
			w.log.Debug("Specialist has left the party", "pid", pid, "name", name, "err", err)
			w.mu.Lock()
			delete(w.processes, pid)
			w.mu.Unlock()
			continue
		}
		sample.HostUsedPct = hostUsed
		w.bus.Publish(event.New(event.PerformanceSample, event.PERFORMANCE, event.LOW, sample))
	}
}

func sampleProcess(pid domain.PID, name string) (event.ProcessSample, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return event.ProcessSample{}, err
	}
	status, err := p.Status()
	if err != nil {
		return event.ProcessSample{}, err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return event.ProcessSample{}, err
	}
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return event.ProcessSample{}, err
	}
	return event.ProcessSample{
		PID:        pid,
		Name:       name,
		Status:     domain.ToStatus(status),
		CPUPercent: cpu,
		RSSMB:      memInfo.RSS / bytesPerMB,
	}, nil
}
