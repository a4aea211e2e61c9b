package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/service"
)

// userService returns the service scoped to the requesting user, or writes
// an error response and returns nil.
func (qs *QuizServer) userService(w http.ResponseWriter, r *http.Request) *service.Local {
	userID := r.Header.Get(UserHeader)
	if err := qs.validate.Var(userID, "required,max=128,printascii"); err != nil {
		ReturnHTTPMessage(w, http.StatusUnauthorized, TypeUnauthorized, "missing or invalid "+UserHeader+" header")
		return nil
	}
	return qs.svc.ForUser(userID)
}

func (qs *QuizServer) ListCoursesFunc(w http.ResponseWriter, r *http.Request) {
	svc := qs.userService(w, r)
	if svc == nil {
		return
	}

	outlines, err := svc.Catalog(r.Context())
	if err != nil {
		returnError(w, err, "error listing courses")
		return
	}
	returnJSON(w, http.StatusOK, outlines)
	glog.V(2).Infof("listed %d courses", len(outlines))
}

func (qs *QuizServer) ListModulesFunc(w http.ResponseWriter, r *http.Request) {
	svc := qs.userService(w, r)
	if svc == nil {
		return
	}

	courseID := mux.Vars(r)["course_id"]
	modules, err := svc.Modules(r.Context(), courseID)
	if err != nil {
		returnError(w, err, "error listing modules")
		return
	}
	returnJSON(w, http.StatusOK, modules)
}

func (qs *QuizServer) ListLessonsFunc(w http.ResponseWriter, r *http.Request) {
	svc := qs.userService(w, r)
	if svc == nil {
		return
	}

	moduleID := mux.Vars(r)["module_id"]
	lessons, err := svc.Lessons(r.Context(), moduleID)
	if err != nil {
		returnError(w, err, "error listing lessons")
		return
	}
	returnJSON(w, http.StatusOK, lessons)
}

func (qs *QuizServer) GetQuizFunc(w http.ResponseWriter, r *http.Request) {
	svc := qs.userService(w, r)
	if svc == nil {
		return
	}

	quizID := mux.Vars(r)["id"]
	preview, err := svc.Preview(r.Context(), quizID)
	if err != nil {
		returnError(w, err, "error retrieving quiz")
		return
	}
	returnJSON(w, http.StatusOK, preview)
	glog.V(2).Infof("retrieved quiz %s revision %s", quizID, preview.Revision)
}

func (qs *QuizServer) CreateEvaluationFunc(w http.ResponseWriter, r *http.Request) {
	svc := qs.userService(w, r)
	if svc == nil {
		return
	}

	var sub quiz.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sub); err != nil {
		ReturnHTTPMessage(w, http.StatusBadRequest, TypeBadRequest, "invalid json body")
		return
	}

	attempt, replayed, err := svc.SubmitAttempt(r.Context(), sub)
	if err != nil {
		returnError(w, err, "error creating quiz evaluation")
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	returnJSON(w, status, attempt)
	glog.V(2).Infof("evaluated quiz %s for %s: %d%% (replay=%t)", attempt.QuizID, attempt.UserID, attempt.Percentage, replayed)
}

func (qs *QuizServer) GetEvaluationFunc(w http.ResponseWriter, r *http.Request) {
	svc := qs.userService(w, r)
	if svc == nil {
		return
	}

	quizID := mux.Vars(r)["quiz_id"]
	results, err := svc.Results(r.Context(), quizID)
	if err != nil {
		returnError(w, err, "error retrieving quiz evaluation")
		return
	}
	returnJSON(w, http.StatusOK, results)
}

func returnJSON(w http.ResponseWriter, status int, v any) {
	content, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("error marshalling response: %v", err)
		ReturnHTTPMessage(w, http.StatusInternalServerError, TypeError, "error encoding response")
		return
	}
	ReturnHTTPContent(w, status, TypeSuccess, content)
}

// returnError maps service errors to status codes.
func returnError(w http.ResponseWriter, err error, msg string) {
	var verr *service.ValidationError
	var conflict *service.ConflictError

	switch {
	case errors.Is(err, service.ErrNotFound):
		ReturnHTTPMessage(w, http.StatusNotFound, TypeNotFound, err.Error())
	case errors.As(err, &conflict):
		ReturnHTTPMessage(w, http.StatusConflict, TypeConflict, err.Error())
	case errors.Is(err, quiz.ErrInvalidAnswer):
		ReturnHTTPMessage(w, http.StatusUnprocessableEntity, TypeUnprocessable, err.Error())
	case errors.As(err, &verr):
		ReturnHTTPMessage(w, http.StatusBadRequest, TypeBadRequest, err.Error())
	default:
		glog.Errorf("%s: %v", msg, err)
		ReturnHTTPMessage(w, http.StatusInternalServerError, TypeError, msg)
	}
}
