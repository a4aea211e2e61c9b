// Package progression decides where a learner goes after finishing a quiz.
package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizdeck/internal/course"
)

// Kind tags a Target.
type Kind int

const (
	// KindEndOfCourse means there is nothing further to navigate to.
	KindEndOfCourse Kind = iota
	// KindLesson points at the first lesson of the next module.
	KindLesson
)

func (k Kind) String() string {
	switch k {
	case KindLesson:
		return "lesson"
	default:
		return "end-of-course"
	}
}

// Target is the navigation destination after a quiz. ModuleID, LessonID and
// ModuleTitle are only set when Kind is KindLesson.
type Target struct {
	Kind        Kind
	ModuleID    string
	LessonID    string
	ModuleTitle string
	LessonTitle string
}

// EndOfCourse is the fallback target.
var EndOfCourse = Target{Kind: KindEndOfCourse}

// Catalog is the read-only course structure the resolver needs.
type Catalog interface {
	Modules(ctx context.Context, courseID string) ([]course.Module, error)
	Lessons(ctx context.Context, moduleID string) ([]course.Lesson, error)
}

// Reasons a resolution ended at EndOfCourse.
var (
	ErrModuleNotFound  = errors.New("current module not found in course")
	ErrLastModule      = errors.New("current module is the last module")
	ErrNextModuleEmpty = errors.New("next module has no lessons")
)

// Resolver maps a finished quiz's module to the next lesson.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the first lesson of the module following moduleID, or
// EndOfCourse. It never fails.
func (r *Resolver) Resolve(ctx context.Context, courseID, moduleID string) Target {
	t, _ := r.ResolveDetailed(ctx, courseID, moduleID)
	return t
}

// ResolveDetailed is Resolve plus the reason a degraded EndOfCourse was
// returned. The error is for diagnostics only; the Target is always usable.
func (r *Resolver) ResolveDetailed(ctx context.Context, courseID, moduleID string) (Target, error) {
	modules, err := r.catalog.Modules(ctx, courseID)
	if err != nil {
		return EndOfCourse, fmt.Errorf("list modules of course %s: %w", courseID, err)
	}
	modules = course.SortModules(modules)

	idx := -1
	for i, m := range modules {
		if m.ID == moduleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return EndOfCourse, fmt.Errorf("module %s: %w", moduleID, ErrModuleNotFound)
	}
	if idx == len(modules)-1 {
		return EndOfCourse, ErrLastModule
	}

	next := modules[idx+1]
	lessons, err := r.catalog.Lessons(ctx, next.ID)
	if err != nil {
		return EndOfCourse, fmt.Errorf("list lessons of module %s: %w", next.ID, err)
	}
	if len(lessons) == 0 {
		return EndOfCourse, fmt.Errorf("module %s: %w", next.ID, ErrNextModuleEmpty)
	}
	first := course.SortLessons(lessons)[0]

	return Target{
		Kind:        KindLesson,
		ModuleID:    next.ID,
		LessonID:    first.ID,
		ModuleTitle: next.Title,
		LessonTitle: first.Title,
	}, nil
}
