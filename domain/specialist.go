package domain

type SpecialistKind string

const (
	DETECTOR    SpecialistKind = "DETECTOR"
	MATCHER     SpecialistKind = "MATCHER"
	TEXT_READER SpecialistKind = "TEXT_READER"
	SEGMENTER   SpecialistKind = "SEGMENTER"
)

type Device string

const (
	CPU  Device = "CPU"
	GPU  Device = "GPU"
	AUTO Device = "AUTO"
)

// SpecialistDescriptor identifies a specialist and how it should be loaded.
// Address is optional: when set, the specialist is reached over gRPC.
type SpecialistDescriptor struct {
	Name                string         `validate:"required"`
	Kind                SpecialistKind `validate:"required,oneof=DETECTOR MATCHER TEXT_READER SEGMENTER"`
	ConfidenceThreshold float64        `validate:"gte=0.1,lte=1"`
	MemoryMB            int64          `validate:"gt=0"`
	Device              Device         `validate:"omitempty,oneof=CPU GPU AUTO"`
	Address             string         `validate:"omitempty,hostname_port"`
}

type SpecialistUsage struct {
	Name        string
	Kind        SpecialistKind
	Device      Device
	MemoryMB    int64
	Invocations uint64
	LoadedAt    int64
	LastUsedAt  int64
}
