package safety

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/domain/event"
	"vision-pilot/errors"
	"vision-pilot/internal"
	"vision-pilot/observability"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const rateWindow = time.Minute

var _ contract.ISafetyValidator = (*Validator)(nil)

type StopState uint8

const (
	StopInactive StopState = iota
	StopActive
)

type Options struct {
	Enabled             bool
	RateLimitPerMinute  int
	ConfirmMediumRisk   bool
	ConfirmationTimeout time.Duration
	MaxTargetsPerAction int
	AllowedApps         []string
	DeniedApps          []string
	DangerousPatterns   []string
	BlockedKeywords     []string
}

func NewOptions(config internal.Config) Options {
	return Options{
		Enabled:             config.SafetyEnabled,
		RateLimitPerMinute:  config.RateLimitPerMinute,
		ConfirmMediumRisk:   config.ConfirmMediumRisk,
		ConfirmationTimeout: config.ConfirmationTimeout,
		MaxTargetsPerAction: config.MaxTargetsPerAction,
		AllowedApps:         config.AllowedAppList(),
		DeniedApps:          config.DeniedAppList(),
		DangerousPatterns:   config.DangerousPatternList(),
		BlockedKeywords:     config.BlockedKeywordList(),
	}
}

// Stats counts the decisions taken since startup.
type Stats struct {
	Approved      uint64
	Blocked       uint64
	Requested     uint64
	Expired       uint64
	ByRisk        map[domain.RiskLevel]uint64
	Pending       int
	EmergencyStop bool
}

// Validator gates every action before execution. Checks run in a fixed
// order and the first one that decides wins: emergency stop, rate limit,
// disabled safety, application lists, risk classification, confirmation.
type Validator struct {
	log        *slog.Logger
	bus        contract.EventPublisher
	metrics    *observability.Metrics
	opts       Options
	classifier *Classifier
	limiter    *SlidingWindow
	validate   *validator.Validate
	allowed    map[string]struct{}
	denied     map[string]struct{}
	now        func() time.Time

	mu         sync.RWMutex
	stop       StopState
	stopReason string
	stoppedAt  time.Time
	pending    map[string]*domain.PendingConfirmation

	hooksMu sync.Mutex
	hooks   []func(reason string)

	statsMu sync.Mutex
	stats   Stats
}

func NewValidator(log *slog.Logger, bus contract.EventPublisher, metrics *observability.Metrics, opts Options) (*Validator, error) {
	classifier, err := NewClassifier(opts.DangerousPatterns, opts.BlockedKeywords)
	if err != nil {
		return nil, err
	}
	return &Validator{
		log:        log,
		bus:        bus,
		metrics:    metrics,
		opts:       opts,
		classifier: classifier,
		limiter:    NewSlidingWindow(opts.RateLimitPerMinute, rateWindow),
		validate:   validator.New(),
		allowed:    appSet(opts.AllowedApps),
		denied:     appSet(opts.DeniedApps),
		now:        time.Now,
		pending:    make(map[string]*domain.PendingConfirmation),
		stats:      Stats{ByRisk: make(map[domain.RiskLevel]uint64)},
	}, nil
}

func appSet(apps []string) map[string]struct{} {
	return lo.SliceToMap(apps, func(a string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(a)), struct{}{}
	})
}

// OnEmergencyStop registers fn to run each time the stop is activated.
func (v *Validator) OnEmergencyStop(fn func(reason string)) {
	v.hooksMu.Lock()
	defer v.hooksMu.Unlock()
	v.hooks = append(v.hooks, fn)
}

func (v *Validator) Validate(action domain.ActionRequest) domain.SafetyResult {
	now := v.now()

	v.mu.RLock()
	stopped, reason := v.stop == StopActive, v.stopReason
	v.mu.RUnlock()
	if stopped {
		return v.decide(action, domain.Blocked(domain.CRITICAL, fmt.Sprintf("%s: %s", errors.ErrEmergencyStopActive, reason)))
	}

	if !v.limiter.Allow(now) {
		return v.decide(action, domain.Blocked(domain.MEDIUM, errors.ErrRateLimited.Error()))
	}

	if !v.opts.Enabled {
		return v.decide(action, domain.Approved(domain.LOW, "safety checks disabled"))
	}

	if res, blocked := v.checkApplication(action); blocked {
		return v.decide(action, res)
	}

	if err := v.validate.Struct(action); err != nil {
		return v.decide(action, domain.Blocked(domain.LOW, fmt.Sprintf("%s: %v", errors.ErrInvalidAction, err)))
	}
	if len(action.Targets) > v.opts.MaxTargetsPerAction {
		return v.decide(action, domain.Blocked(domain.HIGH,
			fmt.Sprintf("too many targets: %d (max %d)", len(action.Targets), v.opts.MaxTargetsPerAction)))
	}

	risk, why := v.classifier.Classify(action)
	if !v.requiresConfirmation(risk) {
		return v.decide(action, domain.Approved(risk, why))
	}
	return v.requestConfirmation(action, risk, why, now)
}

func (v *Validator) checkApplication(action domain.ActionRequest) (domain.SafetyResult, bool) {
	app := strings.ToLower(strings.TrimSpace(action.TargetApp))
	if app == "" {
		return domain.SafetyResult{}, false
	}
	if _, ok := v.denied[app]; ok {
		return domain.Blocked(domain.HIGH, fmt.Sprintf("application %q is denied", action.TargetApp)), true
	}
	if len(v.allowed) == 0 {
		return domain.SafetyResult{}, false
	}
	if _, ok := v.allowed[app]; !ok {
		return domain.Blocked(domain.MEDIUM, fmt.Sprintf("application %q is not in the allow list", action.TargetApp)), true
	}
	return domain.SafetyResult{}, false
}

func (v *Validator) requiresConfirmation(risk domain.RiskLevel) bool {
	switch risk {
	case domain.LOW:
		return false
	case domain.MEDIUM:
		return v.opts.ConfirmMediumRisk
	default:
		return true
	}
}

func (v *Validator) requestConfirmation(action domain.ActionRequest, risk domain.RiskLevel, reason string, now time.Time) domain.SafetyResult {
	p := &domain.PendingConfirmation{
		ID:        uuid.NewString(),
		Action:    action,
		Risk:      risk,
		Reason:    reason,
		CreatedAt: now,
		Timeout:   v.opts.ConfirmationTimeout,
	}

	v.mu.Lock()
	if v.stop == StopActive {
		v.mu.Unlock()
		return v.decide(action, domain.Blocked(domain.CRITICAL, errors.ErrEmergencyStopActive.Error()))
	}
	v.pending[p.ID] = p
	pending := len(v.pending)
	v.mu.Unlock()

	v.metrics.SetPendingConfirmations(pending)
	res := domain.SafetyResult{
		Allowed:              false,
		Status:               domain.PENDING_CONFIRMATION,
		Risk:                 risk,
		Reason:               reason,
		RequiresConfirmation: true,
		ConfirmationID:       p.ID,
		ExpiresIn:            p.Timeout,
	}
	return v.decide(action, res)
}

// ProcessConfirmation resolves a pending confirmation once. Unknown or
// already resolved ids are ignored and come back blocked.
func (v *Validator) ProcessConfirmation(id string, approved bool) domain.SafetyResult {
	now := v.now()

	v.mu.Lock()
	p, ok := v.pending[id]
	if ok {
		delete(v.pending, id)
		p.Resolved = true
	}
	pending := len(v.pending)
	v.mu.Unlock()

	if !ok {
		v.log.Warn("Confirmation ignored", "confirmation_id", id, "error", errors.ErrUnknownConfirmation)
		res := domain.Blocked(domain.LOW, errors.ErrUnknownConfirmation.Error())
		res.ConfirmationID = id
		return res
	}
	v.metrics.SetPendingConfirmations(pending)

	var res domain.SafetyResult
	kind := event.ConfirmationDenied
	switch {
	case p.Expired(now):
		kind = event.ConfirmationExpired
		res = domain.Blocked(p.Risk, "confirmation timed out")
		v.count(func(s *Stats) { s.Expired++ })
	case approved:
		kind = event.ConfirmationApproved
		res = domain.Approved(p.Risk, "confirmed by user: "+p.Reason)
	default:
		res = domain.Blocked(p.Risk, "denied by user: "+p.Reason)
	}
	res.ConfirmationID = id
	v.log.Info("Confirmation resolved", "confirmation_id", id, "approved", res.Allowed, "risk", p.Risk)
	v.publish(kind, p.Action, res)
	return res
}

// SweepExpired removes every confirmation whose timeout elapsed and
// returns how many were denied that way.
func (v *Validator) SweepExpired(now time.Time) int {
	v.mu.Lock()
	expired := make([]*domain.PendingConfirmation, 0)
	for id, p := range v.pending {
		if p.Expired(now) {
			p.Resolved = true
			expired = append(expired, p)
			delete(v.pending, id)
		}
	}
	pending := len(v.pending)
	v.mu.Unlock()

	if len(expired) == 0 {
		return 0
	}
	v.metrics.SetPendingConfirmations(pending)
	for _, p := range expired {
		v.count(func(s *Stats) { s.Expired++ })
		res := domain.Blocked(p.Risk, "confirmation timed out")
		res.ConfirmationID = p.ID
		v.publish(event.ConfirmationExpired, p.Action, res)
	}
	v.log.Debug("Expired confirmations swept", "count", len(expired))
	return len(expired)
}

// EmergencyStop blocks every validation until cleared and denies all
// pending confirmations. Calling it while active does nothing.
func (v *Validator) EmergencyStop(reason string) {
	v.mu.Lock()
	if v.stop == StopActive {
		v.mu.Unlock()
		return
	}
	v.stop = StopActive
	v.stopReason = reason
	v.stoppedAt = v.now()
	cleared := lo.Values(v.pending)
	v.pending = make(map[string]*domain.PendingConfirmation)
	activatedAt := v.stoppedAt
	v.mu.Unlock()

	v.log.Error("Emergency stop activated", "reason", reason, "cleared_confirmations", len(cleared))
	v.metrics.SetPendingConfirmations(0)
	v.bus.Publish(event.New(event.EmergencyStopActivated, event.SAFETY, event.CRITICAL, event.EmergencyStop{
		Reason:      reason,
		ActivatedAt: activatedAt,
		Cleared:     len(cleared),
	}))
	for _, p := range cleared {
		p.Resolved = true
		res := domain.Blocked(domain.CRITICAL, "emergency stop activated")
		res.ConfirmationID = p.ID
		v.publish(event.ConfirmationDenied, p.Action, res)
	}

	v.hooksMu.Lock()
	hooks := slices.Clone(v.hooks)
	v.hooksMu.Unlock()
	for _, hook := range hooks {
		hook(reason)
	}
}

func (v *Validator) ClearEmergencyStop() {
	v.mu.Lock()
	if v.stop == StopInactive {
		v.mu.Unlock()
		return
	}
	v.stop = StopInactive
	v.stopReason = ""
	v.stoppedAt = time.Time{}
	v.mu.Unlock()

	v.log.Warn("Emergency stop cleared")
	v.bus.Publish(event.New(event.EmergencyStopCleared, event.SAFETY, event.HIGH, event.EmergencyStop{}))
}

// EmergencyStopState returns the stop state and when it was activated.
func (v *Validator) EmergencyStopState() (StopState, time.Time) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stop, v.stoppedAt
}

func (v *Validator) Pending() []domain.PendingConfirmation {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return lo.MapToSlice(v.pending, func(_ string, p *domain.PendingConfirmation) domain.PendingConfirmation {
		return *p
	})
}

func (v *Validator) Stats() Stats {
	v.mu.RLock()
	pending, stopped := len(v.pending), v.stop == StopActive
	v.mu.RUnlock()

	v.statsMu.Lock()
	defer v.statsMu.Unlock()
	s := v.stats
	s.ByRisk = lo.Assign(v.stats.ByRisk)
	s.Pending = pending
	s.EmergencyStop = stopped
	return s
}

func (v *Validator) decide(action domain.ActionRequest, res domain.SafetyResult) domain.SafetyResult {
	v.count(func(s *Stats) {
		s.ByRisk[res.Risk]++
		switch res.Status {
		case domain.APPROVED:
			s.Approved++
		case domain.BLOCKED:
			s.Blocked++
		case domain.PENDING_CONFIRMATION:
			s.Requested++
		}
	})
	v.metrics.SafetyDecision(res.Status, res.Risk)

	switch res.Status {
	case domain.APPROVED:
		v.log.Debug("Action approved", "action_id", action.ID, "risk", res.Risk, "reason", res.Reason)
		v.publish(event.SafetyCheckPassed, action, res)
	case domain.BLOCKED:
		v.log.Warn("Action blocked", "action_id", action.ID, "risk", res.Risk, "reason", res.Reason)
		v.publish(event.SafetyCheckFailed, action, res)
	case domain.PENDING_CONFIRMATION:
		v.log.Info("Confirmation requested", "action_id", action.ID, "risk", res.Risk, "confirmation_id", res.ConfirmationID)
		v.publish(event.ConfirmationRequested, action, res)
	}
	return res
}

func (v *Validator) count(fn func(s *Stats)) {
	v.statsMu.Lock()
	defer v.statsMu.Unlock()
	fn(&v.stats)
}

func (v *Validator) publish(kind event.Kind, action domain.ActionRequest, res domain.SafetyResult) {
	priority := event.NORMAL
	switch {
	case res.Risk == domain.CRITICAL && !res.Allowed:
		priority = event.CRITICAL
	case kind == event.ConfirmationRequested || kind == event.SafetyCheckFailed:
		priority = event.HIGH
	case kind == event.SafetyCheckPassed:
		priority = event.LOW
	}
	v.bus.Publish(event.New(kind, event.SAFETY, priority, event.SafetyDecision{
		ActionID:       action.ID,
		Command:        action.Command,
		Status:         res.Status,
		Risk:           res.Risk,
		Reason:         res.Reason,
		ConfirmationID: res.ConfirmationID,
		ExpiresIn:      res.ExpiresIn,
	}).WithCorrelation(action.ID))
}
