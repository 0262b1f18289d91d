package domain

import "time"

type AllocationID string

type MemoryAllocation struct {
	ID          AllocationID
	SizeMB      int64
	Owner       string
	AllocatedAt time.Time
}

type PressureLevel string

const (
	NORMAL            PressureLevel = "NORMAL"
	HIGH_PRESSURE     PressureLevel = "HIGH"
	CRITICAL_PRESSURE PressureLevel = "CRITICAL"
)

type MemoryUsage struct {
	CurrentMB   int64
	AvailableMB int64
	BudgetMB    int64
	PerOwner    map[string]int64
	Allocations int
}

func (u MemoryUsage) Ratio() float64 {
	if u.BudgetMB <= 0 {
		return 0
	}
	return float64(u.CurrentMB) / float64(u.BudgetMB)
}
