package event

import (
	"time"
	"vision-pilot/domain"
)

type SpecialistLifecycle struct {
	Name     string
	Kind     domain.SpecialistKind
	MemoryMB int64
	Reason   string
}

type MemoryPressureSample struct {
	Level     domain.PressureLevel
	Ratio     float64
	CurrentMB int64
	BudgetMB  int64
}

type AnalysisOutcome struct {
	ResultID   string
	Command    string
	Mode       domain.Mode
	Targets    int
	Confidence float64
	Duration   time.Duration
	CacheHit   bool
	Stage      domain.Stage
	Reason     string
}

type SafetyDecision struct {
	ActionID       string
	Command        string
	Status         domain.SafetyStatus
	Risk           domain.RiskLevel
	Reason         string
	ConfirmationID string
	ExpiresIn      time.Duration
}

type EmergencyStop struct {
	Reason      string
	ActivatedAt time.Time
	Cleared     int
}

type WorkerRestarted struct {
	WorkerName string
}

type ProcessSample struct {
	PID         domain.PID
	Name        string
	Status      domain.PIDStatus
	CPUPercent  float64
	RSSMB       uint64
	HostUsedPct float64
}

type ActionOutcome struct {
	ActionID string
	Kind     domain.ActionKind
	Point    domain.Point
	Err      string
}
