package domain

import "time"

type RiskLevel int

const (
	LOW RiskLevel = iota
	MEDIUM
	HIGH
	CRITICAL
)

func (r RiskLevel) String() string {
	switch r {
	case LOW:
		return "LOW"
	case MEDIUM:
		return "MEDIUM"
	case HIGH:
		return "HIGH"
	case CRITICAL:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

type SafetyStatus string

const (
	APPROVED             SafetyStatus = "APPROVED"
	BLOCKED              SafetyStatus = "BLOCKED"
	PENDING_CONFIRMATION SafetyStatus = "PENDING_CONFIRMATION"
)

type SafetyResult struct {
	Allowed              bool
	Status               SafetyStatus
	Risk                 RiskLevel
	Reason               string
	RequiresConfirmation bool
	ConfirmationID       string
	ExpiresIn            time.Duration
}

func Approved(risk RiskLevel, reason string) SafetyResult {
	return SafetyResult{Allowed: true, Status: APPROVED, Risk: risk, Reason: reason}
}

func Blocked(risk RiskLevel, reason string) SafetyResult {
	return SafetyResult{Allowed: false, Status: BLOCKED, Risk: risk, Reason: reason}
}

// PendingConfirmation lives between validation and the user's answer or its timeout.
type PendingConfirmation struct {
	ID        string
	Action    ActionRequest
	Risk      RiskLevel
	Reason    string
	CreatedAt time.Time
	Timeout   time.Duration
	Resolved  bool
}

func (p PendingConfirmation) ExpiresAt() time.Time {
	return p.CreatedAt.Add(p.Timeout)
}

func (p PendingConfirmation) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt())
}
