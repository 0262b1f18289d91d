package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// listSeparator splits list-valued variables. go-env reserves the comma for tag options.
const listSeparator = ";"

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`

	MemoryBudgetMB             int64         `env:"MEMORY_BUDGET_MB,default=1024" validate:"gte=128"`
	PressureSoftThreshold      float64       `env:"PRESSURE_SOFT_THRESHOLD,default=0.75" validate:"gt=0,lte=1"`
	PressureEmergencyThreshold float64       `env:"PRESSURE_EMERGENCY_THRESHOLD,default=0.9" validate:"gtefield=PressureSoftThreshold,lte=1"`
	PressureInterval           time.Duration `env:"PRESSURE_INTERVAL,default=5s" validate:"gt=0"`
	EvictionIdleAge            time.Duration `env:"EVICTION_IDLE_AGE,default=10m" validate:"gt=0"`
	EvictionInterval           time.Duration `env:"EVICTION_INTERVAL,default=30s" validate:"gt=0"`

	DetectorName        string  `env:"DETECTOR_NAME,default=florence" validate:"required"`
	MatcherName         string  `env:"MATCHER_NAME,default=clip" validate:"required"`
	ReaderName          string  `env:"READER_NAME,default=trocr"`
	SegmenterName       string  `env:"SEGMENTER_NAME,default=sam"`
	DetectorConfidence  float64 `env:"DETECTOR_CONFIDENCE,default=0.5" validate:"gte=0.1,lte=1"`
	MatcherConfidence   float64 `env:"MATCHER_CONFIDENCE,default=0.3" validate:"gte=0.1,lte=1"`
	ReaderConfidence    float64 `env:"READER_CONFIDENCE,default=0.5" validate:"gte=0.1,lte=1"`
	SegmenterConfidence float64 `env:"SEGMENTER_CONFIDENCE,default=0.5" validate:"gte=0.1,lte=1"`
	DetectorAddr        string  `env:"DETECTOR_ADDR" validate:"omitempty,hostname_port"`
	MatcherAddr         string  `env:"MATCHER_ADDR" validate:"omitempty,hostname_port"`
	ReaderAddr          string  `env:"READER_ADDR" validate:"omitempty,hostname_port"`
	SegmenterAddr       string  `env:"SEGMENTER_ADDR" validate:"omitempty,hostname_port"`
	RemoteRatePerSecond float64 `env:"REMOTE_RATE_PER_SECOND,default=20" validate:"gt=0"`
	RemoteBurst         int     `env:"REMOTE_BURST,default=5" validate:"gte=1"`
	AnnotationsDir      string  `env:"ANNOTATIONS_DIR"`
	SpecialistDevice    string  `env:"SPECIALIST_DEVICE,default=CPU" validate:"oneof=CPU GPU AUTO"`

	SidecarBin          string        `env:"SIDECAR_BIN"`
	Sidecars            string        `env:"SIDECARS"`
	SidecarReadyTimeout time.Duration `env:"SIDECAR_READY_TIMEOUT,default=5s" validate:"gt=0"`
	SidecarSecret       string        `env:"SIDECAR_SECRET" validate:"omitempty,min=16"`
	SidecarTokenTTL     time.Duration `env:"SIDECAR_TOKEN_TTL,default=1m" validate:"gt=0"`

	PipelineTimeout    time.Duration `env:"PIPELINE_TIMEOUT,default=5s" validate:"gt=0"`
	StageTimeout       time.Duration `env:"STAGE_TIMEOUT,default=2s" validate:"gt=0"`
	MaxCandidates      int           `env:"MAX_CANDIDATES,default=5" validate:"gte=1"`
	RefineTopK         int           `env:"REFINE_TOP_K,default=3" validate:"gte=1"`
	OCRParallelism     int           `env:"OCR_PARALLELISM,default=4" validate:"gte=1"`
	EnableSegmentation bool          `env:"ENABLE_SEGMENTATION,default=true"`
	EnableFallbacks    bool          `env:"ENABLE_FALLBACKS,default=true"`
	CacheTTL           time.Duration `env:"CACHE_TTL,default=5m" validate:"gt=0"`
	CacheSize          int           `env:"CACHE_SIZE,default=5" validate:"gte=1"`
	CacheJanitorPeriod time.Duration `env:"CACHE_JANITOR_PERIOD,default=1m" validate:"gt=0"`

	SafetyEnabled       bool          `env:"SAFETY_ENABLED,default=true"`
	RateLimitPerMinute  int           `env:"RATE_LIMIT_PER_MINUTE,default=60" validate:"gte=1"`
	ConfirmMediumRisk   bool          `env:"CONFIRM_MEDIUM_RISK,default=false"`
	ConfirmationTimeout time.Duration `env:"CONFIRMATION_TIMEOUT,default=3s" validate:"gt=0"`
	SweepInterval       time.Duration `env:"SWEEP_INTERVAL,default=1s" validate:"gt=0"`
	MaxTargetsPerAction int           `env:"MAX_TARGETS_PER_ACTION,default=10" validate:"gte=1"`
	AllowedApps         string        `env:"ALLOWED_APPS"`
	DeniedApps          string        `env:"DENIED_APPS"`
	BlockedKeywords     string        `env:"BLOCKED_KEYWORDS,default=delete;format;shutdown;restart;registry;system32"`
	DangerousPatterns   string        `env:"DANGEROUS_PATTERNS"`
	EmergencyCleanup    string        `env:"EMERGENCY_CLEANUP,default=unload_specialists;purge_cache"`

	BusBuffer      int           `env:"BUS_BUFFER,default=64" validate:"gte=1"`
	HistorySize    int           `env:"EVENT_HISTORY_SIZE,default=256" validate:"gte=0"`
	HealthInterval time.Duration `env:"HEALTH_INTERVAL,default=10s" validate:"gt=0"`
	AuditDBPath    string        `env:"AUDIT_DB_PATH"`
	AuditRetention time.Duration `env:"AUDIT_RETENTION,default=168h" validate:"gte=0"`
	AuditIndexPath string        `env:"AUDIT_INDEX_PATH"`
	DebugPort      int           `env:"DEBUG_PORT,default=0" validate:"gte=0,lte=65535"`
}

var validate = validator.New()

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) AllowedAppList() []string {
	return SplitList(c.AllowedApps)
}

func (c Config) DeniedAppList() []string {
	return SplitList(c.DeniedApps)
}

func (c Config) BlockedKeywordList() []string {
	return SplitList(c.BlockedKeywords)
}

func (c Config) DangerousPatternList() []string {
	return SplitList(c.DangerousPatterns)
}

// SidecarList reads SIDECARS, "florence=50051;trocr=50052".
func (c Config) SidecarList() []string {
	return SplitList(c.Sidecars)
}

func (c Config) EmergencyCleanupList() []string {
	return SplitList(c.EmergencyCleanup)
}

// SplitList trims and drops empty items of a ';' separated value.
func SplitList(raw string) []string {
	items := lo.Map(strings.Split(raw, listSeparator), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(items)
}

// DefaultConfig mirrors the env defaults, for tests and embedding.
func DefaultConfig() Config {
	return Config{
		LogLevel:                   "INFO",
		MemoryBudgetMB:             1024,
		PressureSoftThreshold:      0.75,
		PressureEmergencyThreshold: 0.9,
		PressureInterval:           5 * time.Second,
		EvictionIdleAge:            10 * time.Minute,
		EvictionInterval:           30 * time.Second,
		DetectorName:               "florence",
		MatcherName:                "clip",
		ReaderName:                 "trocr",
		SegmenterName:              "sam",
		DetectorConfidence:         0.5,
		MatcherConfidence:          0.3,
		ReaderConfidence:           0.5,
		SegmenterConfidence:        0.5,
		RemoteRatePerSecond:        20,
		RemoteBurst:                5,
		SpecialistDevice:           "CPU",
		SidecarReadyTimeout:        5 * time.Second,
		SidecarTokenTTL:            time.Minute,
		PipelineTimeout:            5 * time.Second,
		StageTimeout:               2 * time.Second,
		MaxCandidates:              5,
		RefineTopK:                 3,
		OCRParallelism:             4,
		EnableSegmentation:         true,
		EnableFallbacks:            true,
		CacheTTL:                   5 * time.Minute,
		CacheSize:                  5,
		CacheJanitorPeriod:         time.Minute,
		SafetyEnabled:              true,
		RateLimitPerMinute:         60,
		ConfirmationTimeout:        3 * time.Second,
		SweepInterval:              time.Second,
		MaxTargetsPerAction:        10,
		BlockedKeywords:            "delete;format;shutdown;restart;registry;system32",
		EmergencyCleanup:           "unload_specialists;purge_cache",
		BusBuffer:                  64,
		HistorySize:                256,
		HealthInterval:             10 * time.Second,
		AuditRetention:             7 * 24 * time.Hour,
	}
}
