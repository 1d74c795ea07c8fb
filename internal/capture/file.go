package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes bounds the size of a selected image.
const MaxImageBytes = 10 << 20

// FileSelector reads an image file chosen by path.
type FileSelector struct {
	Path string
}

var _ Capability = (*FileSelector)(nil)

// Start reads the file and reports it through done.
func (f *FileSelector) Start(ctx context.Context, done func(Result)) error {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return fmt.Errorf("capture: no file selected")
	}
	go func() {
		done(readImage(ctx, path))
	}()
	return nil
}

// Stop does nothing; file reads are not interruptible.
func (f *FileSelector) Stop() error { return nil }

func readImage(ctx context.Context, path string) Result {
	res := Result{Name: filepath.Base(path)}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = fmt.Errorf("capture: %w", err)
		return res
	}
	if info.Size() > MaxImageBytes {
		res.Err = fmt.Errorf("capture: %s is larger than %d bytes", res.Name, MaxImageBytes)
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("capture: %w", err)
		return res
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		res.Err = fmt.Errorf("capture: %s is %s, not an image", res.Name, mime.String())
		return res
	}

	res.Data = data
	res.MIMEType = mime.String()
	return res
}
