package quiz

// Preview is the learner-facing shape of a quiz. It has no correctness
// field anywhere, so it cannot leak answers when serialized.
type Preview struct {
	ID                  string            `json:"id"`
	CourseID            string            `json:"course_id"`
	ModuleID            string            `json:"module_id"`
	Title               string            `json:"title"`
	Description         string            `json:"description,omitempty"`
	TimeLimitMinutes    *int              `json:"time_limit_minutes,omitempty"`
	PassingScorePercent int               `json:"passing_score_percent"`
	TotalPoints         int               `json:"total_points"`
	Revision            string            `json:"revision"`
	Questions           []QuestionPreview `json:"questions"`
}

// QuestionPreview is a question without answer data.
type QuestionPreview struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Type     QuestionType    `json:"type"`
	Weight   int             `json:"weight"`
	ImageURL string          `json:"image_url,omitempty"`
	Options  []OptionPreview `json:"options"`
}

// OptionPreview exposes only an option's ID and text.
type OptionPreview struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewPreview strips correctness from q.
func NewPreview(q *Quiz, revision string) *Preview {
	questions := make([]QuestionPreview, len(q.Questions))
	for i, question := range q.Questions {
		options := make([]OptionPreview, len(question.Options))
		for j, o := range question.Options {
			options[j] = OptionPreview{ID: o.ID, Text: o.Text}
		}
		questions[i] = QuestionPreview{
			ID:       question.ID,
			Text:     question.Text,
			Type:     question.Type,
			Weight:   question.Weight,
			ImageURL: question.ImageURL,
			Options:  options,
		}
	}

	var limit *int
	if q.TimeLimitMinutes != nil {
		v := *q.TimeLimitMinutes
		limit = &v
	}

	return &Preview{
		ID:                  q.ID,
		CourseID:            q.CourseID,
		ModuleID:            q.ModuleID,
		Title:               q.Title,
		Description:         q.Description,
		TimeLimitMinutes:    limit,
		PassingScorePercent: q.PassingScorePercent,
		TotalPoints:         q.TotalPoints(),
		Revision:            revision,
		Questions:           questions,
	}
}

// QuestionIDs returns question IDs in display order.
func (p *Preview) QuestionIDs() []string {
	ids := make([]string, len(p.Questions))
	for i, q := range p.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Question returns the previewed question with the given ID, or nil.
func (p *Preview) Question(id string) *QuestionPreview {
	for i := range p.Questions {
		if p.Questions[i].ID == id {
			return &p.Questions[i]
		}
	}
	return nil
}
