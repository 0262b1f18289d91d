package domain

// Process is a sidecar specialist process tracked by the health monitor.
type Process struct {
	PID  PID
	Name string
}

type PID int32
type PIDStatus string

const (
	RUNNING     PIDStatus = "RUNNING"
	SLEEP       PIDStatus = "SLEEP"
	STOP        PIDStatus = "STOP"
	IDLE        PIDStatus = "IDLE"
	ZOMBIE      PIDStatus = "ZOMBIE"
	WAIT        PIDStatus = "WAIT"
	LOCK        PIDStatus = "LOCK"
	UNKNOWN_PID PIDStatus = "UNKNOWN"
)

func ToStatus(status string) PIDStatus {
	switch status {
	case "R", "running":
		return RUNNING
	case "S", "sleep":
		return SLEEP
	case "T", "stop":
		return STOP
	case "I", "idle":
		return IDLE
	case "Z", "zombie":
		return ZOMBIE
	case "W", "wait":
		return WAIT
	case "L", "lock":
		return LOCK
	default:
		return UNKNOWN_PID
	}
}
