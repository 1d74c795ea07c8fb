// Package studio is the top-level session: which view is showing and the
// controllers behind each tool.
package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/chat"
	"github.com/abhisek/grammarstudio/internal/lessons"
	"github.com/abhisek/grammarstudio/internal/llm"
	"github.com/abhisek/grammarstudio/internal/logging"
	"github.com/abhisek/grammarstudio/internal/mission"
	"github.com/abhisek/grammarstudio/internal/photolab"
	"github.com/abhisek/grammarstudio/internal/spelling"
)

// ErrInvalidTransition is returned for an operation the current view
// does not allow.
var ErrInvalidTransition = errors.New("studio: invalid transition")

// ErrInactive is returned when a controller is used outside the view that
// owns it.
var ErrInactive = errors.New("studio: not available in this view")

// FX words flashed as acknowledgments.
const (
	FXReady  = "READY!"  // unlock
	FXZap    = "ZAP!"    // mission selected
	FXHome   = "HOME!"   // back to the dashboard
	FXBam    = "BAM!"    // chat message sent
	FXScan   = "SCAN!"   // spelling scan started
	FXListen = "LISTEN!" // dictation started
	FXError  = "ERROR!"  // dictation failed
)

// ViewMode is the view on screen.
type ViewMode int

const (
	ModeLocked ViewMode = iota
	ModeDashboard
	ModeMission
)

func (m ViewMode) String() string {
	switch m {
	case ModeLocked:
		return "locked"
	case ModeDashboard:
		return "dashboard"
	case ModeMission:
		return "mission"
	default:
		return "unknown"
	}
}

// Op is a view operation.
type Op string

const (
	OpUnlock        Op = "unlock"
	OpLock          Op = "lock"
	OpSelectMission Op = "selectMission"
	OpGoHome        Op = "goHome"
)

// transitions lists every allowed move. Missing entries are rejected.
var transitions = map[ViewMode]map[Op]ViewMode{
	ModeLocked: {
		OpUnlock: ModeDashboard,
		OpLock:   ModeLocked,
	},
	ModeDashboard: {
		OpLock:          ModeLocked,
		OpSelectMission: ModeMission,
		OpGoHome:        ModeDashboard,
	},
	ModeMission: {
		OpLock:          ModeLocked,
		OpSelectMission: ModeMission,
		OpGoHome:        ModeDashboard,
	},
}

// Next returns the mode op leads to from m.
func Next(m ViewMode, op Op) (ViewMode, error) {
	to, ok := transitions[m][op]
	if !ok {
		return m, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, m)
	}
	return to, nil
}

// Deps are the collaborators a studio is built from. Nil collaborators
// leave the matching tool inert.
type Deps struct {
	Catalog   *catalog.Catalog
	Lessons   lessons.Generator
	Responder chat.Responder
	Checker   spelling.Checker
	Images    llm.Provider
	Log       *logging.Logger
}

// Studio is one learner's session.
type Studio struct {
	Catalog  *catalog.Catalog
	Mission  *mission.Controller
	Chat     *chat.Log
	Spelling *spelling.Desk
	Photo    *photolab.Lab

	log *logging.Logger

	mu   sync.Mutex
	mode ViewMode
}

// New creates a locked studio.
func New(d Deps) *Studio {
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	cat := d.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	return &Studio{
		Catalog:  cat,
		Mission:  mission.NewController(cat, d.Lessons, log.With("component", "mission")),
		Chat:     chat.NewLog(d.Responder, log.With("component", "chat")),
		Spelling: spelling.NewDesk(d.Checker, log.With("component", "spelling")),
		Photo:    photolab.NewLab(d.Images, log.With("component", "photolab")),
		log:      log,
		mode:     ModeLocked,
	}
}

// Mode returns the current view.
func (s *Studio) Mode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Unlock leaves the lock screen for the dashboard and returns the
// acknowledgment word.
func (s *Studio) Unlock() (string, error) {
	if err := s.apply(OpUnlock); err != nil {
		return "", err
	}
	return FXReady, nil
}

// Lock returns to the lock screen. The mission is kept.
func (s *Studio) Lock() error {
	return s.apply(OpLock)
}

// GoHome returns to the dashboard. The mission is kept.
func (s *Studio) GoHome() error {
	return s.apply(OpGoHome)
}

// SelectMission opens the mission view for topic and issues the lesson
// fetch ticket. Pass the ticket to Load and then Complete.
func (s *Studio) SelectMission(topic catalog.Topic) (mission.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	to, err := Next(s.mode, OpSelectMission)
	if err != nil {
		return mission.Request{}, err
	}
	req, err := s.Mission.Start(topic)
	if err != nil {
		return mission.Request{}, err
	}
	s.mode = to
	return req, nil
}

// Load fetches the lesson for a ticket. It does not change any state.
func (s *Studio) Load(ctx context.Context, req mission.Request) mission.Result {
	return s.Mission.Load(ctx, req)
}

// Complete commits a fetch result. When it makes the mission ready, the
// hero announces the lesson in the chat. It reports whether the result
// was current.
func (s *Studio) Complete(res mission.Result) bool {
	if !s.Mission.Commit(res) {
		return false
	}
	if res.Err == nil && res.Lesson != nil {
		s.Chat.AppendHero(ReadyLine(res.Topic))
	}
	return true
}

// Launch selects, loads and completes a mission in one call.
func (s *Studio) Launch(ctx context.Context, topic catalog.Topic) (mission.Result, error) {
	req, err := s.SelectMission(topic)
	if err != nil {
		return mission.Result{}, err
	}
	res := s.Load(ctx, req)
	s.Complete(res)
	return res, nil
}

// InMission runs fn with the mission controller while the mission view is
// showing. The view cannot change while fn runs.
func (s *Studio) InMission(fn func(*mission.Controller)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeMission {
		return fmt.Errorf("%w: mission from %s", ErrInactive, s.mode)
	}
	fn(s.Mission)
	return nil
}

// RequireUnlocked fails with ErrInactive while the studio is locked. The
// chat, spelling and photo lab tools are live on every other view.
func (s *Studio) RequireUnlocked() error {
	if mode := s.Mode(); mode == ModeLocked {
		return fmt.Errorf("%w: tools from %s", ErrInactive, mode)
	}
	return nil
}

// ReadyLine is the hero's announcement of a loaded lesson.
func ReadyLine(t catalog.Topic) string {
	return fmt.Sprintf("WHAM! Let's master %s for %s missions!", t.Title, t.Subject)
}

func (s *Studio) apply(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	to, err := Next(s.mode, op)
	if err != nil {
		s.log.Debug("transition rejected", "op", op, "mode", s.mode)
		return err
	}
	s.mode = to
	return nil
}
