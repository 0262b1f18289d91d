package specialist

import (
	"sort"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/internal"

	"github.com/samber/lo"
)

var _ contract.SpecialistCatalog = (*Catalog)(nil)

// Default footprints, in MB, of the specialists the pilot knows about.
const (
	ClipMemoryMB     = 150
	FlorenceMemoryMB = 280
	TrocrMemoryMB    = 120
	SamMemoryMB      = 200
)

// Catalog maps a specialist name to the descriptor used to load it.
type Catalog struct {
	descriptors map[string]domain.SpecialistDescriptor
}

func NewCatalog(descriptors ...domain.SpecialistDescriptor) *Catalog {
	return &Catalog{descriptors: lo.SliceToMap(descriptors, func(d domain.SpecialistDescriptor) (string, domain.SpecialistDescriptor) {
		return d.Name, d
	})}
}

// DefaultCatalog describes the four configured specialists. A name left
// empty in the config is not registered.
func DefaultCatalog(config internal.Config) *Catalog {
	device := domain.Device(config.SpecialistDevice)
	all := []domain.SpecialistDescriptor{
		{Name: config.DetectorName, Kind: domain.DETECTOR, ConfidenceThreshold: config.DetectorConfidence, MemoryMB: FlorenceMemoryMB, Device: device, Address: config.DetectorAddr},
		{Name: config.MatcherName, Kind: domain.MATCHER, ConfidenceThreshold: config.MatcherConfidence, MemoryMB: ClipMemoryMB, Device: device, Address: config.MatcherAddr},
		{Name: config.ReaderName, Kind: domain.TEXT_READER, ConfidenceThreshold: config.ReaderConfidence, MemoryMB: TrocrMemoryMB, Device: device, Address: config.ReaderAddr},
		{Name: config.SegmenterName, Kind: domain.SEGMENTER, ConfidenceThreshold: config.SegmenterConfidence, MemoryMB: SamMemoryMB, Device: device, Address: config.SegmenterAddr},
	}
	return NewCatalog(lo.Filter(all, func(d domain.SpecialistDescriptor, _ int) bool {
		return d.Name != ""
	})...)
}

func (c *Catalog) Descriptor(name string) (domain.SpecialistDescriptor, bool) {
	d, ok := c.descriptors[name]
	return d, ok
}

// SetAddress points name at a sidecar. It reports false for an unknown name.
func (c *Catalog) SetAddress(name, addr string) bool {
	d, ok := c.descriptors[name]
	if !ok {
		return false
	}
	d.Address = addr
	c.descriptors[name] = d
	return true
}

func (c *Catalog) Names() []string {
	names := lo.Keys(c.descriptors)
	sort.Strings(names)
	return names
}
