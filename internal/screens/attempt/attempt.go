package attempt

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	att "github.com/abhisek/quizdeck/internal/attempt"
	"github.com/abhisek/quizdeck/internal/history"
	"github.com/abhisek/quizdeck/internal/progression"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/router"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/screens/results"
	"github.com/abhisek/quizdeck/internal/service"
	"github.com/abhisek/quizdeck/internal/tamper"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// warningDuration is how long a tamper warning stays on screen.
const warningDuration = 4 * time.Second

// Deps are the collaborators shared by the attempt and results screens.
type Deps struct {
	Service  service.Service
	Resolver *progression.Resolver
	Tamper   tamper.Config
}

// AttemptScreen runs one timed quiz attempt.
type AttemptScreen struct {
	deps  Deps
	coord *att.Coordinator

	current int
	mc      components.MultiChoice
	spinner spinner.Model

	confirm    components.ButtonRow
	abandoning bool
	abandon    components.ButtonRow

	probe    *tamper.SizeProbe
	monitor  *tamper.Monitor
	warnings <-chan tamper.Warning
	warning  string
	warnSeq  int

	notice string
	tickGen int

	ctx    context.Context
	cancel context.CancelFunc
}

var _ screen.Screen = (*AttemptScreen)(nil)
var _ screen.KeyHintProvider = (*AttemptScreen)(nil)
var _ screen.EscapeHandler = (*AttemptScreen)(nil)
var _ screen.Closer = (*AttemptScreen)(nil)

// New creates an attempt screen for quizID.
func New(deps Deps, quizID string) *AttemptScreen {
	ctx, cancel := context.WithCancel(context.Background())
	probe := &tamper.SizeProbe{}
	return &AttemptScreen{
		deps:    deps,
		coord:   att.New(quizID),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
		probe:   probe,
		monitor: tamper.New(deps.Tamper, probe),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *AttemptScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.loadPreview())
}

func (s *AttemptScreen) Title() string {
	if p := s.coord.Preview(); p != nil {
		return p.Title
	}
	return "Quiz"
}

// HandlesEscape keeps Esc on this screen while an attempt can still be
// submitted, so it opens the leave dialog instead of discarding answers.
func (s *AttemptScreen) HandlesEscape() bool {
	phase := s.coord.Phase()
	return phase == att.PhaseInProgress || phase == att.PhaseSubmitting
}

// Close stops the timer and tamper monitor when the screen leaves the stack.
func (s *AttemptScreen) Close() {
	s.monitor.Deactivate()
	s.cancel()
	if s.coord.Phase() != att.PhaseCompleted {
		s.coord.Abandon()
	}
}

func (s *AttemptScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.abandoning:
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
		}
	case s.coord.Confirming():
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Keep answering"},
		}
	}

	switch s.coord.Phase() {
	case att.PhaseInProgress:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Option"},
			{Key: "1-9/Space", Description: "Select"},
			{Key: "←→", Description: "Question"},
			{Key: "S", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	case att.PhaseError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "any key", Description: "Back"},
		}
	case att.PhaseCompleted:
		return []layout.KeyHint{
			{Key: "any key", Description: "Back"},
		}
	}
	return nil
}

func (s *AttemptScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case previewLoadedMsg:
		return s.handleLoaded(msg)

	case tickMsg:
		return s.handleTick(msg)

	case submittedMsg:
		return s.handleSubmitted(msg)

	case warningMsg:
		return s, tea.Batch(s.showWarning(msg.Warning.Message), s.waitForWarning())

	case warningExpiredMsg:
		if msg.Seq == s.warnSeq {
			s.warning = ""
		}
		return s, nil

	case components.OptionToggledMsg:
		return s.handleToggle(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.WindowSizeMsg:
		s.probe.Observe(msg.Width, msg.Height)
		return s, nil

	case tea.BlurMsg:
		return s, s.applyVerdict(s.monitor.Handle(tamper.Event{Kind: tamper.VisibilityLost}))

	case tea.MouseClickMsg:
		if msg.Mouse().Button == tea.MouseRight {
			return s, s.applyVerdict(s.monitor.Handle(tamper.Event{Kind: tamper.ContextMenu}))
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *AttemptScreen) loadPreview() tea.Cmd {
	svc, ctx, quizID := s.deps.Service, s.ctx, s.coord.QuizID()
	return func() tea.Msg {
		p, err := svc.Preview(ctx, quizID)
		return previewLoadedMsg{Preview: p, Err: err}
	}
}

// reload starts over with a fresh coordinator after a failed load.
func (s *AttemptScreen) reload() tea.Cmd {
	s.coord = att.New(s.coord.QuizID())
	s.notice = ""
	return tea.Batch(s.spinner.Tick, s.loadPreview())
}

func (s *AttemptScreen) handleLoaded(msg previewLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.coord.LoadFailed(msg.Err)
		return s, nil
	}
	if err := s.coord.Loaded(msg.Preview); err != nil {
		return s, nil
	}
	if len(msg.Preview.Questions) == 0 {
		s.notice = "This quiz has no questions. You can still submit it."
	}

	s.showQuestion(0)
	// Sizes seen while loading are the baseline for the attempt.
	s.probe.Reset()
	s.warnings = s.monitor.Activate(s.ctx)

	cmds := []tea.Cmd{s.waitForWarning()}
	if s.coord.Timer().Timed() {
		cmds = append(cmds, s.restartTick())
	}
	return s, tea.Batch(cmds...)
}

func (s *AttemptScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.tickGen {
		return s, nil
	}
	if sub, ok := s.coord.Tick(); ok {
		s.closeDialogs()
		s.notice = "Time is up. Submitting your answers..."
		return s, s.submit(sub)
	}
	if s.coord.Phase() == att.PhaseInProgress && s.coord.Timer().Running() {
		return s, s.tick()
	}
	return s, nil
}

func (s *AttemptScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return s, nil
		}
		s.coord.Fail(msg.Err)
		s.notice = ""
		s.warnings = s.monitor.Activate(s.ctx)
		cmds := []tea.Cmd{s.waitForWarning()}
		if s.coord.Timer().Running() {
			cmds = append(cmds, s.restartTick())
		}
		return s, tea.Batch(cmds...)
	}

	var prior history.History
	if msg.Results != nil {
		prior = msg.Results.History
	}
	if err := s.coord.Complete(msg.Attempt, prior); err != nil {
		return s, nil
	}
	s.monitor.Deactivate()

	a, h := s.coord.Result()
	p := s.coord.Preview()
	deps, quizID := s.deps, s.coord.QuizID()
	rdeps := results.Deps{Service: deps.Service, Resolver: deps.Resolver}
	retake := func() screen.Screen { return New(deps, quizID) }

	var next screen.Screen
	if msg.Results != nil {
		next = results.New(rdeps, *p, a, h, retake)
	} else {
		// The attempt is recorded but the history fetch failed; let the
		// results screen load it rather than show this attempt alone.
		next = results.NewPending(rdeps, *p, a, retake)
	}
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *AttemptScreen) handleToggle(msg components.OptionToggledMsg) (screen.Screen, tea.Cmd) {
	if _, err := s.coord.Select(msg.QuestionID, msg.OptionID); err != nil {
		if errors.Is(err, att.ErrTimeExpired) {
			s.notice = "Time is up. Your answers can no longer be changed."
		}
	}
	return s, nil
}

func (s *AttemptScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.coord.Phase() {
	case att.PhaseLoading, att.PhaseSubmitting:
		return s, nil
	case att.PhaseError:
		if key == "r" || key == "R" {
			return s, s.reload()
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case att.PhaseCompleted:
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if v := s.monitor.HandleKey(key); v.Suppress {
		return s, s.applyVerdict(v)
	}

	if s.abandoning {
		if key == "esc" {
			s.abandoning = false
			return s, nil
		}
		var cmd tea.Cmd
		s.abandon, cmd = s.abandon.Update(msg)
		return s, cmd
	}

	if s.coord.Confirming() {
		if key == "esc" {
			s.coord.CancelConfirm()
			return s, nil
		}
		var cmd tea.Cmd
		s.confirm, cmd = s.confirm.Update(msg)
		return s, cmd
	}

	switch key {
	case "esc":
		s.openAbandon()
		return s, nil
	case "s", "S":
		return s.requestSubmit()
	case "left", "h", "shift+tab":
		s.showQuestion(s.current - 1)
		return s, nil
	case "right", "l", "tab":
		s.showQuestion(s.current + 1)
		return s, nil
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	return s, cmd
}

func (s *AttemptScreen) requestSubmit() (screen.Screen, tea.Cmd) {
	d, err := s.coord.RequestSubmit()
	if err != nil {
		return s, nil
	}
	if d.NeedsConfirm {
		s.confirm = components.NewButtonRow(
			components.NewButton("Keep answering", false, func() tea.Cmd {
				s.coord.CancelConfirm()
				return nil
			}),
			components.NewButton("Submit anyway", false, func() tea.Cmd {
				if sub, ok := s.coord.ConfirmSubmit(); ok {
					return s.submit(sub)
				}
				return nil
			}),
		)
		return s, nil
	}

	sub, ok := s.coord.BeginSubmit(att.TriggerManual)
	if !ok {
		return s, nil
	}
	return s, s.submit(sub)
}

func (s *AttemptScreen) openAbandon() {
	s.abandoning = true
	s.abandon = components.NewButtonRow(
		components.NewButton("Stay", false, func() tea.Cmd {
			s.abandoning = false
			return nil
		}),
		components.NewButton("Leave without submitting", false, func() tea.Cmd {
			s.abandoning = false
			return func() tea.Msg { return router.PopScreenMsg{} }
		}),
	)
}

func (s *AttemptScreen) closeDialogs() {
	s.abandoning = false
	s.coord.CancelConfirm()
}

// submit sends sub and fetches the updated history. Answers stay in the
// coordinator until the outcome arrives. The tamper monitor is paused while
// the submission is in flight.
func (s *AttemptScreen) submit(sub quiz.Submission) tea.Cmd {
	s.monitor.Deactivate()
	svc, ctx := s.deps.Service, s.ctx
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		a, err := svc.Submit(ctx, sub)
		if err != nil {
			return submittedMsg{Err: err}
		}
		res, err := svc.Results(ctx, sub.QuizID)
		if err != nil {
			return submittedMsg{Attempt: a}
		}
		return submittedMsg{Attempt: a, Results: res}
	})
}

func (s *AttemptScreen) showQuestion(i int) {
	p := s.coord.Preview()
	if p == nil || len(p.Questions) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(p.Questions) {
		i = len(p.Questions) - 1
	}
	s.current = i
	s.mc = components.NewMultiChoice(&p.Questions[i], i+1)
	s.mc.Locked = s.coord.Timer().Expired()
}

func (s *AttemptScreen) applyVerdict(v tamper.Verdict) tea.Cmd {
	if v.Warning == nil {
		return nil
	}
	return s.showWarning(v.Warning.Message)
}

func (s *AttemptScreen) showWarning(text string) tea.Cmd {
	s.warnSeq++
	s.warning = text
	seq := s.warnSeq
	return tea.Tick(warningDuration, func(time.Time) tea.Msg {
		return warningExpiredMsg{Seq: seq}
	})
}

func (s *AttemptScreen) waitForWarning() tea.Cmd {
	ch := s.warnings
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		w, ok := <-ch
		if !ok {
			return nil
		}
		return warningMsg{Warning: w}
	}
}

// restartTick invalidates pending ticks and schedules a fresh one.
func (s *AttemptScreen) restartTick() tea.Cmd {
	s.tickGen++
	return s.tick()
}

func (s *AttemptScreen) tick() tea.Cmd {
	gen := s.tickGen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{Gen: gen}
	})
}
