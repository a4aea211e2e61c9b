package course

import "sort"

// Course is the top-level container of modules.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Module is an ordered unit of a course.
type Module struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// Lesson is an ordered unit of a module.
type Lesson struct {
	ID       string `json:"id"`
	ModuleID string `json:"module_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// QuizRef names a quiz owned by a module.
type QuizRef struct {
	ID       string `json:"id"`
	ModuleID string `json:"module_id"`
	Title    string `json:"title"`
}

// Outline is a course with its modules and quizzes, used for navigation.
type Outline struct {
	Course  Course    `json:"course"`
	Modules []Module  `json:"modules"`
	Quizzes []QuizRef `json:"quizzes"`
}

// ModuleTitle returns the title of the module with the given ID.
func (o Outline) ModuleTitle(id string) string {
	for _, m := range o.Modules {
		if m.ID == id {
			return m.Title
		}
	}
	return ""
}

// SortModules returns a copy of modules ordered by Order. Ties keep their
// input order.
func SortModules(modules []Module) []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// SortLessons returns a copy of lessons ordered by Order. Ties keep their
// input order.
func SortLessons(lessons []Lesson) []Lesson {
	out := make([]Lesson, len(lessons))
	copy(out, lessons)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
