// Package capture reads screenshots from disk for the CLI.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"vision-pilot/contract"
	"vision-pilot/errors"

	"github.com/gabriel-vasile/mimetype"
)

var _ contract.ScreenCapture = (*FileCapture)(nil)

var supported = []string{"image/png", "image/jpeg", "image/gif"}

// FileCapture serves the screenshot stored at path, read again on every call.
type FileCapture struct {
	path string
}

func NewFileCapture(path string) *FileCapture {
	return &FileCapture{path: path}
}

func (c *FileCapture) Capture(ctx context.Context) ([]byte, int, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, 0, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reading screenshot: %w", err)
	}
	width, height, err := Dimensions(data)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%s: %w", c.path, err)
	}
	return data, width, height, nil
}

// Dimensions checks data is a PNG, JPEG or GIF and returns its size.
func Dimensions(data []byte) (int, int, error) {
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), supported...) {
		return 0, 0, fmt.Errorf("%w: unsupported format %s", errors.ErrInvalidImage, mtype.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errors.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: empty image", errors.ErrInvalidImage)
	}
	return cfg.Width, cfg.Height, nil
}
