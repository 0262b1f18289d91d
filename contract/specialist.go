package contract

import (
	"io"
	"vision-pilot/domain"
)

// Specialist is a closed union: exactly one capability field is set.
type Specialist struct {
	Detector   Detector
	Matcher    Matcher
	TextReader TextReader
	Segmenter  Segmenter
	impl       any
}

func DetectorSpecialist(d Detector) Specialist {
	return Specialist{Detector: d, impl: d}
}

func MatcherSpecialist(m Matcher) Specialist {
	return Specialist{Matcher: m, impl: m}
}

func TextReaderSpecialist(r TextReader) Specialist {
	return Specialist{TextReader: r, impl: r}
}

func SegmenterSpecialist(s Segmenter) Specialist {
	return Specialist{Segmenter: s, impl: s}
}

func (s Specialist) Kind() domain.SpecialistKind {
	switch {
	case s.Detector != nil:
		return domain.DETECTOR
	case s.Matcher != nil:
		return domain.MATCHER
	case s.TextReader != nil:
		return domain.TEXT_READER
	case s.Segmenter != nil:
		return domain.SEGMENTER
	default:
		return ""
	}
}

func (s Specialist) IsZero() bool {
	return s.impl == nil
}

// Close releases the underlying instance when it holds resources.
func (s Specialist) Close() error {
	if c, ok := s.impl.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
