package attempt

import (
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/service"
	"github.com/abhisek/quizdeck/internal/tamper"
)

// previewLoadedMsg is sent when the quiz preview has been fetched.
type previewLoadedMsg struct {
	Preview *quiz.Preview
	Err     error
}

// tickMsg is the one-second countdown tick. Gen discards ticks scheduled
// before the timer was last restarted.
type tickMsg struct {
	Gen int
}

// submittedMsg carries the outcome of a submission. Results is the learner's
// history after grading; it is nil if it could not be fetched.
type submittedMsg struct {
	Attempt *quiz.Attempt
	Results *service.Results
	Err     error
}

// warningMsg is a tamper warning raised by the dimension poll.
type warningMsg struct {
	Warning tamper.Warning
}

// warningExpiredMsg hides the warning banner if it has not been replaced.
type warningExpiredMsg struct {
	Seq int
}
