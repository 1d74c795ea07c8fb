package spelling

import (
	"context"
	"strings"
	"sync"

	"github.com/abhisek/grammarstudio/internal/logging"
)

// Desk holds the latest spell check result. A failed check leaves the
// previous result in place. One scan runs at a time.
type Desk struct {
	checker Checker
	log     *logging.Logger

	mu       sync.Mutex
	scanning bool
	text     string
	result   *Result
}

// NewDesk creates an empty desk. A nil log discards output.
func NewDesk(checker Checker, log *logging.Logger) *Desk {
	if log == nil {
		log = logging.Nop()
	}
	return &Desk{checker: checker, log: log}
}

// Scan checks text and stores the result. It reports whether a new
// result was stored. Blank text is ignored, and so is a scan requested
// while another is still running.
func (d *Desk) Scan(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if d.checker == nil {
		d.log.Warn("spell check skipped, no checker configured")
		return false
	}

	d.mu.Lock()
	if d.scanning {
		d.mu.Unlock()
		d.log.Debug("spell check skipped, scan in progress")
		return false
	}
	d.scanning = true
	d.mu.Unlock()

	res, err := d.checker.Check(ctx, text)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.scanning = false
	if err != nil {
		d.log.Error("spell check failed", "error", err, "chars", len(text))
		return false
	}
	d.text = text
	d.result = res
	return true
}

// Scanning reports whether a scan is running.
func (d *Desk) Scanning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scanning
}

// Result returns the latest result and the text it was computed for.
func (d *Desk) Result() (*Result, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.result == nil {
		return nil, "", false
	}
	r := *d.result
	return &r, d.text, true
}
