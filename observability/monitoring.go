package observability

import (
	"runtime"
	"sync/atomic"
	"time"
	"vision-pilot/domain"
)

// PipelineSnapshot aggregates the pipeline counters for reports.
type PipelineSnapshot struct {
	Total            uint64        `json:"total"`
	Successful       uint64        `json:"successful"`
	Failed           uint64        `json:"failed"`
	Fallback         uint64        `json:"fallback"`
	Emergency        uint64        `json:"emergency"`
	CacheHits        uint64        `json:"cache_hits"`
	ElementsDetected uint64        `json:"elements_detected"`
	AverageDuration  time.Duration `json:"average_duration"`
	AllocMemMb       uint64        `json:"alloc_mem_mb"`
	NumGC            uint32        `json:"num_gc"`
}

// PipelineStats counts pipeline runs, safe for concurrent use.
type PipelineStats struct {
	total            atomic.Uint64
	successful       atomic.Uint64
	failed           atomic.Uint64
	fallback         atomic.Uint64
	emergency        atomic.Uint64
	cacheHits        atomic.Uint64
	elementsDetected atomic.Uint64
	totalNanos       atomic.Int64
}

func NewPipelineStats() *PipelineStats {
	return &PipelineStats{}
}

// RecordRun counts a run that produced a result, whatever its mode.
func (s *PipelineStats) RecordRun(mode domain.Mode, duration time.Duration, elements int) {
	s.total.Add(1)
	s.totalNanos.Add(int64(duration))
	s.elementsDetected.Add(uint64(elements))
	switch mode {
	case domain.FULL:
		s.successful.Add(1)
	case domain.FALLBACK:
		s.fallback.Add(1)
	case domain.EMERGENCY:
		s.emergency.Add(1)
	}
}

func (s *PipelineStats) RecordFailure(duration time.Duration) {
	s.total.Add(1)
	s.failed.Add(1)
	s.totalNanos.Add(int64(duration))
}

func (s *PipelineStats) RecordCacheHit() {
	s.cacheHits.Add(1)
}

func (s *PipelineStats) Snapshot() PipelineSnapshot {
	total := s.total.Load()
	snapshot := PipelineSnapshot{
		Total:            total,
		Successful:       s.successful.Load(),
		Failed:           s.failed.Load(),
		Fallback:         s.fallback.Load(),
		Emergency:        s.emergency.Load(),
		CacheHits:        s.cacheHits.Load(),
		ElementsDetected: s.elementsDetected.Load(),
	}
	if total > 0 {
		snapshot.AverageDuration = time.Duration(s.totalNanos.Load() / int64(total))
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	snapshot.AllocMemMb = m.Alloc / 1024 / 1024
	snapshot.NumGC = m.NumGC
	return snapshot
}
