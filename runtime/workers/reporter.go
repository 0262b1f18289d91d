package workers

import (
	"context"
	"fmt"
	"io"
	"time"
	"vision-pilot/contract"
	"vision-pilot/observability"
)

type ReporterWorker struct {
	out      io.Writer
	stats    *observability.PipelineStats
	ledger   contract.IResourceLedger
	interval time.Duration
}

func NewReporterWorker(out io.Writer, stats *observability.PipelineStats, ledger contract.IResourceLedger, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{out: out, stats: stats, ledger: ledger, interval: interval}
}

// Run prints a one-line status until the context is cancelled, then a last one.
func (w *ReporterWorker) Run(ctx context.Context) error {
	startTime := time.Now()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.printStats(startTime)
			fmt.Fprintln(w.out, "\n🏁 Reporter stopped.")
			return nil
		case <-ticker.C:
			w.printStats(startTime)
		}
	}
}

func (w *ReporterWorker) printStats(startTime time.Time) {
	stats := w.stats.Snapshot()
	usage := w.ledger.Usage()
	duration := time.Since(startTime).Round(time.Second).String()

	fmt.Fprintf(w.out, "\r📊 [%s] Heap: %dMB | Ledger: %d/%dMB | Runs: %d (fallback %d, emergency %d) | Cache hits: %d | Avg: %s",
		duration,
		stats.AllocMemMb,
		usage.CurrentMB,
		usage.BudgetMB,
		stats.Total,
		stats.Fallback,
		stats.Emergency,
		stats.CacheHits,
		stats.AverageDuration.Round(time.Millisecond),
	)
}
