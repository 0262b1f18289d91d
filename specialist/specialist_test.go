package specialist

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain"
	"vision-pilot/errors"
	"vision-pilot/infrastructure/grpc/server"
	"vision-pilot/internal"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

var saveButton = domain.DetectedObject{
	ID:          "save",
	Label:       "button",
	Text:        "Save",
	ElementType: domain.BUTTON,
	BBox:        domain.BoundingBox{X: 100, Y: 50, Width: 80, Height: 30},
	Confidence:  0.9,
}

func TestDefaultCatalog(t *testing.T) {
	req := require.New(t)
	config := internal.DefaultConfig()
	config.SegmenterName = ""
	config.MatcherAddr = "localhost:50061"

	catalog := DefaultCatalog(config)

	req.Equal([]string{"clip", "florence", "trocr"}, catalog.Names())
	clip, ok := catalog.Descriptor("clip")
	req.True(ok)
	req.Equal(domain.MATCHER, clip.Kind)
	req.Equal(int64(ClipMemoryMB), clip.MemoryMB)
	req.Equal("localhost:50061", clip.Address)

	florence, _ := catalog.Descriptor("florence")
	req.Equal(int64(FlorenceMemoryMB), florence.MemoryMB)
	req.Empty(florence.Address)

	// When a sidecar is started for trocr
	req.True(catalog.SetAddress("trocr", "127.0.0.1:50052"))
	req.False(catalog.SetAddress("sam", "127.0.0.1:50053"))

	trocr, _ := catalog.Descriptor("trocr")
	req.Equal("127.0.0.1:50052", trocr.Address)
}

func TestDefaultCatalog_FitsDefaultBudget(t *testing.T) {
	req := require.New(t)
	config := internal.DefaultConfig()
	catalog := DefaultCatalog(config)

	// Given every default specialist loaded at once
	var total int64
	for _, name := range catalog.Names() {
		d, _ := catalog.Descriptor(name)
		total += d.MemoryMB
	}

	// Then memory pressure never evicts one of them
	req.Len(catalog.Names(), 4)
	req.Less(float64(total)/float64(config.MemoryBudgetMB), config.PressureSoftThreshold)
}

func TestLexicalMatcher(t *testing.T) {
	req := require.New(t)
	cancel := domain.DetectedObject{ID: "cancel", Text: "Cancel", ElementType: domain.BUTTON, Confidence: 0.9}

	matches, err := NewLexicalMatcher(0.3).Match(context.Background(), "click the save button", []domain.DetectedObject{cancel, saveButton})

	req.NoError(err)
	req.NotEmpty(matches)
	req.Equal("save", matches[0].ObjectID)
	req.Equal("lexical match", matches[0].Reason)
}

func TestLabelReader(t *testing.T) {
	req := require.New(t)
	reader := LabelReader{}

	text, err := reader.Extract(context.Background(), nil, saveButton)
	req.NoError(err)
	req.Equal("Save", text.Text)
	req.Equal(saveButton.BBox, text.BBox)

	// Given a region without any text
	_, err = reader.Extract(context.Background(), nil, domain.DetectedObject{ID: "blank"})
	req.Error(err)
}

func TestBoxSegmenter(t *testing.T) {
	req := require.New(t)

	masks, err := BoxSegmenter{}.Segment(context.Background(), nil, []domain.DetectedObject{saveButton})

	req.NoError(err)
	req.Len(masks, 1)
	req.Equal(domain.Point{X: 140, Y: 65}, masks[0].Centroid)
	req.Equal(2400, masks[0].Area)
}

func TestAnnotationDetector(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	screen := pngBytes(t, 800, 600)
	req.NoError(os.WriteFile(filepath.Join(dir, "save.png"), screen, 0o600))
	req.NoError(os.WriteFile(filepath.Join(dir, "save.json"), []byte(`{
		"image": "save.png",
		"objects": [{"id": "save", "label": "button", "text": "Save", "element_type": "button",
			"bbox": {"x": 100, "y": 50, "width": 80, "height": 30}, "confidence": 0.9}]
	}`), 0o600))

	detector, err := LoadAnnotations(dir)
	req.NoError(err)

	// When the annotated screenshot is detected
	objects, err := detector.Detect(context.Background(), screen)
	req.NoError(err)
	req.Equal([]domain.DetectedObject{saveButton}, objects)

	// Then another image yields nothing and text is refused
	objects, err = detector.Detect(context.Background(), pngBytes(t, 10, 10))
	req.NoError(err)
	req.Empty(objects)

	_, err = detector.Detect(context.Background(), []byte("click the save button"))
	req.ErrorIs(err, errors.ErrInvalidImage)
}

func TestFactory_Builtins(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	factory, err := NewFactory(log, internal.DefaultConfig())
	req.NoError(err)

	for _, kind := range []domain.SpecialistKind{domain.DETECTOR, domain.MATCHER, domain.TEXT_READER, domain.SEGMENTER} {
		s, err := factory.Create(context.Background(), domain.SpecialistDescriptor{Name: string(kind), Kind: kind, ConfidenceThreshold: 0.3, MemoryMB: 1})
		req.NoError(err)
		req.Equal(kind, s.Kind())
	}

	// Given a descriptor asking for a GPU
	_, err = factory.Create(context.Background(), domain.SpecialistDescriptor{Name: "sam", Kind: domain.SEGMENTER, Device: domain.GPU})
	req.ErrorIs(err, errors.ErrDeviceInitFailed)
}

func TestFactory_Remote(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a matcher sidecar served in memory
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	server.Register(s, server.NewSpecialistServer(log, "clip", contract.MatcherSpecialist(NewLexicalMatcher(0.3))))
	go func() { _ = s.Serve(lis) }()
	defer s.Stop()

	config := internal.DefaultConfig()
	config.SidecarReadyTimeout = 2 * time.Second
	factory, err := NewFactory(log, config, WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})))
	req.NoError(err)

	// When the factory creates it by address
	matcher, err := factory.Create(context.Background(), domain.SpecialistDescriptor{
		Name: "clip", Kind: domain.MATCHER, ConfidenceThreshold: 0.3, MemoryMB: ClipMemoryMB, Address: "passthrough:///bufnet",
	})
	req.NoError(err)
	defer func() { _ = matcher.Close() }()

	// Then calls go through the wire
	req.Equal(domain.MATCHER, matcher.Kind())
	matches, err := matcher.Matcher.Match(context.Background(), "click the save button", []domain.DetectedObject{saveButton})
	req.NoError(err)
	req.Len(matches, 1)
	req.Equal("save", matches[0].ObjectID)

	// And a sidecar of the wrong kind is refused
	_, err = factory.Create(context.Background(), domain.SpecialistDescriptor{
		Name: "florence", Kind: domain.DETECTOR, ConfidenceThreshold: 0.5, MemoryMB: FlorenceMemoryMB, Address: "passthrough:///bufnet",
	})
	req.ErrorIs(err, errors.ErrSpecialistKind)
}

func TestParseSidecars(t *testing.T) {
	req := require.New(t)

	ports, err := ParseSidecars([]string{"florence=50051", " trocr = 50052 "})
	req.NoError(err)
	req.Equal([]SidecarPort{{Name: "florence", Port: 50051}, {Name: "trocr", Port: 50052}}, ports)

	for _, bad := range []string{"florence", "=50051", "florence=http", "florence=70000"} {
		_, err := ParseSidecars([]string{bad})
		req.Error(err, bad)
	}
}

func TestStartSidecar_MissingBinary(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	_, err := StartSidecar(context.Background(), log, SidecarConfig{Bin: filepath.Join(t.TempDir(), "nope"), Name: "florence"})

	req.ErrorIs(err, errors.ErrSpecialistNotFound)
}

func TestSidecarLogWriter_SplitsLines(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	w := &sidecarLogWriter{logger: log, name: "florence"}

	n, err := w.Write([]byte("first\nsecond\n"))

	req.NoError(err)
	req.Equal(13, n)
	req.Equal(2, bytes.Count(buf.Bytes(), []byte("sidecar=florence")))
}
