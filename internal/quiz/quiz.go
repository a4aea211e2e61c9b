package quiz

import "time"

// QuestionType selects how a question's options may be chosen.
type QuestionType string

const (
	TypeSingle    QuestionType = "SINGLE"
	TypeMultiple  QuestionType = "MULTIPLE"
	TypeTrueFalse QuestionType = "TRUEFALSE"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeSingle, TypeMultiple, TypeTrueFalse:
		return true
	}
	return false
}

// SingleChoice reports whether at most one option may be selected.
func (t QuestionType) SingleChoice() bool {
	return t == TypeSingle || t == TypeTrueFalse
}

// Quiz is the server-side quiz definition, including correct answers.
// It is never sent to a learner; see Preview for the learner shape.
type Quiz struct {
	ID                  string     `json:"id" validate:"required"`
	CourseID            string     `json:"course_id"`
	ModuleID            string     `json:"module_id"`
	Title               string     `json:"title" validate:"required"`
	Description         string     `json:"description,omitempty"`
	TimeLimitMinutes    *int       `json:"time_limit_minutes,omitempty" validate:"omitempty,gt=0"`
	PassingScorePercent int        `json:"passing_score_percent" validate:"gte=0,lte=100"`
	Questions           []Question `json:"questions" validate:"dive"`
}

// Question is a single scored question.
type Question struct {
	ID       string         `json:"id" validate:"required"`
	Text     string         `json:"text" validate:"required"`
	Type     QuestionType   `json:"type" validate:"oneof=SINGLE MULTIPLE TRUEFALSE"`
	Weight   int            `json:"weight" validate:"gt=0"`
	ImageURL string         `json:"image_url,omitempty" validate:"omitempty,url"`
	Options  []AnswerOption `json:"options" validate:"dive"`
}

// AnswerOption is one selectable option. IsCorrect only exists in the
// definition shape.
type AnswerOption struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// TotalPoints is the sum of question weights.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Weight
	}
	return total
}

// Question returns the question with the given ID, or nil.
func (q *Quiz) Question(id string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// QuestionIDs returns question IDs in quiz order.
func (q *Quiz) QuestionIDs() []string {
	ids := make([]string, len(q.Questions))
	for i, question := range q.Questions {
		ids[i] = question.ID
	}
	return ids
}

// HasOption reports whether the question offers an option with the given ID.
func (q *Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// CorrectOptionIDs returns the IDs of options marked correct.
func (q *Question) CorrectOptionIDs() []string {
	var ids []string
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Answer is a learner's selection for one question.
type Answer struct {
	QuestionID        string   `json:"question_id" validate:"required"`
	SelectedOptionIDs []string `json:"selected_option_ids" validate:"dive,required"`
}

// Submission is what the client sends when an attempt is handed in.
// Token identifies the attempt across retries; Revision pins the quiz
// definition the learner saw.
type Submission struct {
	QuizID   string   `json:"quiz_id" validate:"required"`
	Revision string   `json:"revision" validate:"required"`
	Token    string   `json:"token" validate:"required,uuid"`
	Answers  []Answer `json:"answers" validate:"dive"`
}

// Attempt is one graded submission. Attempts are created by grading and
// never change afterwards.
type Attempt struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	QuizID      string    `json:"quiz_id"`
	UserID      string    `json:"user_id"`
	Revision    string    `json:"revision"`
	Answers     []Answer  `json:"answers"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
	Percentage  int       `json:"percentage"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}
