// Package attempt runs one timed quiz attempt from loading to a graded result.
//
// The Coordinator owns the learner's answers and the countdown. Answers are
// only written through Select; timer ticks can start a submission but never
// touch answers.
package attempt

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/abhisek/quizdeck/internal/answers"
	"github.com/abhisek/quizdeck/internal/countdown"
	"github.com/abhisek/quizdeck/internal/history"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// Phase is the attempt's lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseInProgress
	PhaseSubmitting
	PhaseCompleted
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in-progress"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCompleted:
		return "completed"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Trigger says what started a submission.
type Trigger int

const (
	TriggerManual Trigger = iota
	TriggerExpired
)

// Decision is the result of a submit request.
type Decision struct {
	// NeedsConfirm is set when questions are unanswered. The caller must ask
	// the learner and then call ConfirmSubmit or CancelConfirm.
	NeedsConfirm bool
	Unanswered   int
}

// Coordinator is the attempt state machine.
type Coordinator struct {
	quizID string

	mu         sync.Mutex
	phase      Phase
	preview    *quiz.Preview
	answers    *answers.Store
	timer      *countdown.Controller
	token      string
	confirming bool
	attempt    *quiz.Attempt
	history    history.History
	err        error

	// inFlight is the single submission guard. It is set by the one caller
	// that wins the compare-and-swap and cleared only by Fail.
	inFlight atomic.Bool
}

// New creates a coordinator in the Loading phase.
func New(quizID string) *Coordinator {
	return &Coordinator{
		quizID:  quizID,
		phase:   PhaseLoading,
		answers: answers.New(),
		timer:   countdown.New(nil),
	}
}

// Loaded moves Loading to InProgress, starts the countdown and mints the
// submission token.
func (c *Coordinator) Loaded(p *quiz.Preview) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseLoading {
		return fmt.Errorf("loaded in phase %s", c.phase)
	}
	c.preview = p
	c.answers = answers.New()
	c.timer = countdown.New(p.TimeLimitMinutes)
	c.token = uuid.NewString()
	c.phase = PhaseInProgress
	return nil
}

// LoadFailed moves Loading to Error.
func (c *Coordinator) LoadFailed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseLoading {
		return
	}
	c.err = &LoadError{QuizID: c.quizID, Err: err}
	c.phase = PhaseError
}

// Select records the learner's choice of optionID on questionID and returns
// the full answer map.
func (c *Coordinator) Select(questionID, optionID string) (map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseInProgress {
		return nil, ErrNotInProgress
	}
	if c.timer.Expired() {
		return nil, ErrTimeExpired
	}
	question := c.preview.Question(questionID)
	if question == nil {
		return nil, fmt.Errorf("unknown question %q: %w", questionID, quiz.ErrInvalidAnswer)
	}
	if !hasOption(question, optionID) {
		return nil, fmt.Errorf("question %q has no option %q: %w", questionID, optionID, quiz.ErrInvalidAnswer)
	}
	return c.answers.Set(questionID, optionID, question.Type), nil
}

// RequestSubmit is the learner asking to hand in. With unanswered
// questions it opens a confirmation instead of submitting.
func (c *Coordinator) RequestSubmit() (Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseInProgress {
		return Decision{}, ErrNotInProgress
	}
	if c.timer.Expired() {
		// Time is up; a retry after a failed timed-out submission does not ask.
		return Decision{}, nil
	}
	unanswered := len(c.answers.Unanswered(c.preview.QuestionIDs()))
	if unanswered > 0 {
		c.confirming = true
		return Decision{NeedsConfirm: true, Unanswered: unanswered}, nil
	}
	return Decision{}, nil
}

// ConfirmSubmit accepts the confirmation and starts a manual submission.
func (c *Coordinator) ConfirmSubmit() (quiz.Submission, bool) {
	c.mu.Lock()
	confirming := c.confirming
	c.confirming = false
	c.mu.Unlock()

	if !confirming {
		return quiz.Submission{}, false
	}
	return c.BeginSubmit(TriggerManual)
}

// CancelConfirm dismisses the confirmation; the attempt continues.
func (c *Coordinator) CancelConfirm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirming = false
}

// Confirming reports whether a submit confirmation is open.
func (c *Coordinator) Confirming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirming
}

// Tick advances the countdown by one second. When the time runs out it
// starts a submission without confirmation and returns it with ok set.
func (c *Coordinator) Tick() (sub quiz.Submission, ok bool) {
	c.mu.Lock()
	if c.phase != PhaseInProgress {
		c.mu.Unlock()
		return quiz.Submission{}, false
	}
	expired := c.timer.Tick()
	c.mu.Unlock()

	if !expired {
		return quiz.Submission{}, false
	}
	return c.BeginSubmit(TriggerExpired)
}

// BeginSubmit moves InProgress to Submitting and returns the payload to
// send. Only one caller can win; every other concurrent or later call
// returns false until Fail re-opens the attempt.
func (c *Coordinator) BeginSubmit(trigger Trigger) (quiz.Submission, bool) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return quiz.Submission{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseInProgress {
		c.inFlight.Store(false)
		return quiz.Submission{}, false
	}

	c.timer.Stop()
	c.confirming = false
	c.phase = PhaseSubmitting
	c.err = nil

	return quiz.Submission{
		QuizID:   c.preview.ID,
		Revision: c.preview.Revision,
		Token:    c.token,
		Answers:  c.answers.Snapshot(c.preview.QuestionIDs()),
	}, true
}

// Complete records the graded attempt, appends it to prior and discards
// the answers. prior may already contain the attempt, for example after a
// resubmitted token; it is not appended twice.
func (c *Coordinator) Complete(a *quiz.Attempt, prior history.History) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseSubmitting {
		return fmt.Errorf("complete in phase %s", c.phase)
	}
	if prior.QuizID == "" {
		prior.QuizID, prior.UserID = a.QuizID, a.UserID
	}
	if !prior.Contains(a.Token) {
		prior = history.Append(prior, *a)
	}

	c.attempt = a
	c.history = prior
	c.answers.Reset()
	c.phase = PhaseCompleted
	return nil
}

// Fail moves Submitting back to InProgress, keeping answers and token.
func (c *Coordinator) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseSubmitting {
		return
	}
	c.err = &SubmissionError{QuizID: c.quizID, Token: c.token, Err: err}
	c.phase = PhaseInProgress
	c.timer.Resume()
	c.inFlight.Store(false)
}

// Abandon stops the attempt without submitting. Answers are discarded and
// nothing is recorded.
func (c *Coordinator) Abandon() {
	c.inFlight.Store(true)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer.Stop()
	c.answers.Reset()
	c.confirming = false
}

// QuizID returns the quiz being attempted.
func (c *Coordinator) QuizID() string { return c.quizID }

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Preview returns the loaded quiz, or nil while loading.
func (c *Coordinator) Preview() *quiz.Preview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Timer returns the countdown.
func (c *Coordinator) Timer() *countdown.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer
}

// Token returns the submission token of this attempt.
func (c *Coordinator) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Err returns the last load or submission error.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// IsSelected reports whether optionID is selected for questionID.
func (c *Coordinator) IsSelected(questionID, optionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.IsSelected(questionID, optionID)
}

// Answered reports whether questionID has a selection.
func (c *Coordinator) Answered(questionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Answered(questionID)
}

// AnsweredCount returns the number of answered questions.
func (c *Coordinator) AnsweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Count()
}

// Answers returns a copy of the current answer map.
func (c *Coordinator) Answers() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.All()
}

// Result returns the graded attempt and updated history once Completed.
func (c *Coordinator) Result() (*quiz.Attempt, history.History) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempt, c.history
}

func hasOption(q *quiz.QuestionPreview, id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}
