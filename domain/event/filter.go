package event

// Filter selects the events a subscriber receives. Empty slices match everything.
type Filter struct {
	Sources     []Source
	Kinds       []Kind
	MinPriority Priority
}

func (f Filter) Match(e Event) bool {
	if e.Priority < f.MinPriority {
		return false
	}
	if len(f.Sources) > 0 && !contains(f.Sources, e.Source) {
		return false
	}
	if len(f.Kinds) > 0 && !contains(f.Kinds, e.Kind) {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
