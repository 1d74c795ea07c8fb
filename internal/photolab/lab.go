// Package photolab edits hero photos with an image model.
package photolab

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/grammarstudio/internal/llm"
	"github.com/abhisek/grammarstudio/internal/logging"
)

// Alert is shown when an edit fails.
const Alert = "POW! Something went wrong with the photo lab processing!"

// ErrNothingToEdit is returned for an empty image or a blank
// instruction. Callers treat it as a no-op.
var ErrNothingToEdit = errors.New("photolab: nothing to edit")

// EditedImage is the picture returned by the image model.
type EditedImage struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// DataURI returns the image as a data URI.
func (e *EditedImage) DataURI() string {
	return DataURI(e.MIMEType, e.Data)
}

// Lab sends images to an image-capable provider and keeps the outcome
// of the latest edit.
type Lab struct {
	provider llm.Provider
	log      *logging.Logger

	mu     sync.Mutex
	result *EditedImage
	alert  string
	busy   bool
}

// NewLab creates a photo lab. A nil log discards output.
func NewLab(provider llm.Provider, log *logging.Logger) *Lab {
	if log == nil {
		log = logging.Nop()
	}
	return &Lab{provider: provider, log: log}
}

// Edit asks the model to edit image following instruction. An empty
// mimeType is sniffed from the image bytes.
func (l *Lab) Edit(ctx context.Context, image []byte, mimeType, instruction string) (*EditedImage, error) {
	if len(image) == 0 || strings.TrimSpace(instruction) == "" {
		return nil, ErrNothingToEdit
	}
	if l.provider == nil {
		return nil, llm.ErrImageUnsupported
	}
	if mimeType == "" {
		mimeType = DetectMIME(image)
	}

	ctx = llm.WithPurpose(ctx, "photolab")
	img, err := llm.EditImage(ctx, l.provider, llm.ImageRequest{
		Image:    image,
		MIMEType: mimeType,
		Prompt:   buildPrompt(instruction),
	})
	if err != nil {
		return nil, fmt.Errorf("edit image: %w", err)
	}
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("edit image: %w", llm.ErrNoImage)
	}

	out := &EditedImage{MIMEType: img.MIMEType, Data: img.Data}
	if out.MIMEType == "" {
		out.MIMEType = DetectMIME(img.Data)
	}
	return out, nil
}

// Process runs Edit and records the result, or the alert on failure. It
// reports whether an edit was attempted; a request made while another
// edit is running is dropped. A new edit clears the previous alert but
// keeps the previous result until it succeeds.
func (l *Lab) Process(ctx context.Context, image []byte, mimeType, instruction string) bool {
	if len(image) == 0 || strings.TrimSpace(instruction) == "" {
		return false
	}

	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return false
	}
	l.busy = true
	l.alert = ""
	l.mu.Unlock()

	out, err := l.Edit(ctx, image, mimeType, instruction)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = false
	if err != nil {
		l.log.Error("photo lab edit failed", "error", err, "kind", llm.Kind(err))
		l.alert = Alert
		return true
	}
	l.result = out
	return true
}

// State returns the latest result, the current alert and whether an
// edit is running.
func (l *Lab) State() (*EditedImage, string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result, l.alert, l.busy
}

func buildPrompt(instruction string) string {
	return fmt.Sprintf("You are a comic book image artist. Edit this image based on the following instruction: \"%s\". Return the resulting image.", instruction)
}
