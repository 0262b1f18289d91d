package specialist

import (
	"log/slog"
	"strings"
)

// sidecarLogWriter forwards a sidecar's output to the pilot logger, one
// entry per line, tagged with the sidecar name.
type sidecarLogWriter struct {
	logger  *slog.Logger
	name    string
	isError bool
}

func (w *sidecarLogWriter) Write(p []byte) (n int, err error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		if w.isError {
			w.logger.Error(line, "sidecar", w.name)
		} else {
			w.logger.Info(line, "sidecar", w.name)
		}
	}
	return len(p), nil
}
