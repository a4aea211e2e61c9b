// Package tamper implements a best-effort deterrent against copying or
// inspecting quiz content during an attempt. It is not a security boundary.
//
// A Monitor only produces verdicts and warnings. It has no access to the
// learner's answers and cannot block answering.
package tamper

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// EventKind identifies an intercepted input event.
type EventKind int

const (
	// ContextMenu is a context-menu request (right click in the terminal).
	ContextMenu EventKind = iota
	// Copy is a copy request.
	Copy
	// Shortcut is any other key combination.
	Shortcut
	// VisibilityLost means the attempt is no longer in front of the learner
	// (the terminal lost focus).
	VisibilityLost
	// Inspection is raised by the dimension poll.
	Inspection
)

func (k EventKind) String() string {
	switch k {
	case ContextMenu:
		return "context-menu"
	case Copy:
		return "copy"
	case Shortcut:
		return "shortcut"
	case VisibilityLost:
		return "visibility-lost"
	case Inspection:
		return "inspection"
	default:
		return "unknown"
	}
}

// Event is an input event offered to the monitor. Key is only set for
// Copy and Shortcut events.
type Event struct {
	Kind EventKind
	Key  string
}

// Warning is an advisory message to show the learner.
type Warning struct {
	Kind    EventKind
	Message string
}

// Verdict is the monitor's decision about one event. Suppress asks the
// caller to swallow the event. A nil Warning means nothing to show.
type Verdict struct {
	Suppress bool
	Warning  *Warning
}

// Size is a width and height in terminal cells.
type Size struct {
	Width  int
	Height int
}

// Probe reports the outer and inner dimensions compared by the poll.
type Probe interface {
	Dimensions() (outer, inner Size)
}

// Config controls which shortcuts are suppressed and how sensitive the
// dimension heuristic is.
type Config struct {
	// CopyKeys are treated as copy requests.
	CopyKeys []string
	// Shortcuts are suppressed view-source, devtools, print and save keys.
	Shortcuts []string
	// Threshold is the number of cells the inner size may fall below the
	// outer size, on either axis, before a warning is raised.
	Threshold int
	// PollInterval is the period of the dimension check.
	PollInterval time.Duration
}

// DefaultConfig returns the default monitor configuration.
func DefaultConfig() Config {
	return Config{
		CopyKeys:     []string{"ctrl+shift+c", "ctrl+insert", "super+c"},
		Shortcuts:    []string{"ctrl+u", "ctrl+shift+i", "ctrl+shift+j", "f12", "ctrl+p", "ctrl+s"},
		Threshold:    20,
		PollInterval: time.Second,
	}
}

const (
	msgContextMenu = "Right-click is disabled during the quiz."
	msgCopy        = "Copying quiz content is not allowed."
	msgShortcut    = "That shortcut is disabled during the quiz."
	msgVisibility  = "You left the quiz window. Please stay on the quiz until you submit."
	msgInspection  = "A docked panel or resized window was detected. Please close it to continue the quiz."
)

// Monitor intercepts tamper-prone events while active.
type Monitor struct {
	cfg   Config
	probe Probe

	mu       sync.Mutex
	active   bool
	cancel   context.CancelFunc
	done     chan struct{}
	warnings chan Warning
}

// New creates an inactive Monitor. probe may be nil, in which case no
// dimension polling is done.
func New(cfg Config, probe Probe) *Monitor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Monitor{cfg: cfg, probe: probe}
}

// Activate starts intercepting and polling. It returns the channel that
// receives poll warnings; the channel is closed by Deactivate. Activating
// an already active monitor returns the existing channel.
func (m *Monitor) Activate(ctx context.Context) <-chan Warning {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return m.warnings
	}

	ctx, cancel := context.WithCancel(ctx)
	m.active = true
	m.cancel = cancel
	m.done = make(chan struct{})
	m.warnings = make(chan Warning, 1)

	go m.poll(ctx, m.warnings, m.done)
	return m.warnings
}

// Deactivate stops polling, waits for the poll goroutine to exit and closes
// the warnings channel. It is safe to call on an inactive monitor.
func (m *Monitor) Deactivate() {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.active = false
	cancel, done, warnings := m.cancel, m.done, m.warnings
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	cancel()
	<-done
	close(warnings)
}

// Active reports whether the monitor is intercepting events.
func (m *Monitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Handle returns the verdict for ev. An inactive monitor always returns the
// zero Verdict.
func (m *Monitor) Handle(ev Event) Verdict {
	if !m.Active() {
		return Verdict{}
	}

	switch ev.Kind {
	case ContextMenu:
		return Verdict{Suppress: true, Warning: &Warning{Kind: ContextMenu, Message: msgContextMenu}}
	case Copy:
		return Verdict{Suppress: true, Warning: &Warning{Kind: Copy, Message: msgCopy}}
	case VisibilityLost:
		return Verdict{Warning: &Warning{Kind: VisibilityLost, Message: msgVisibility}}
	case Shortcut:
		return m.handleKey(ev.Key)
	}
	return Verdict{}
}

// HandleKey classifies a raw key string and returns its verdict.
func (m *Monitor) HandleKey(key string) Verdict {
	if !m.Active() {
		return Verdict{}
	}
	return m.handleKey(key)
}

func (m *Monitor) handleKey(key string) Verdict {
	key = strings.ToLower(key)
	if slices.Contains(m.cfg.CopyKeys, key) {
		return Verdict{Suppress: true, Warning: &Warning{Kind: Copy, Message: msgCopy}}
	}
	if slices.Contains(m.cfg.Shortcuts, key) {
		return Verdict{Suppress: true, Warning: &Warning{Kind: Shortcut, Message: msgShortcut}}
	}
	return Verdict{}
}

// poll checks the probe every interval and sends a warning each time the
// dimensions cross into the suspicious range.
func (m *Monitor) poll(ctx context.Context, out chan<- Warning, done chan<- struct{}) {
	defer close(done)
	if m.probe == nil {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	flagged := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			outer, inner := m.probe.Dimensions()
			suspicious := Exceeds(outer, inner, m.cfg.Threshold)
			if suspicious && !flagged {
				select {
				case out <- Warning{Kind: Inspection, Message: msgInspection}:
				default:
				}
			}
			flagged = suspicious
		}
	}
}

// Exceeds reports whether inner is smaller than outer by more than
// threshold cells on either axis.
func Exceeds(outer, inner Size, threshold int) bool {
	return outer.Width-inner.Width > threshold || outer.Height-inner.Height > threshold
}
