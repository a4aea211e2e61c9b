// Package server exposes the quiz service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/abhisek/quizdeck/internal/service"
)

// UserHeader carries the authenticated user ID. Authentication itself is
// done by a proxy in front of this server.
const UserHeader = "X-User-ID"

var (
	corsAllowedHeaders = handlers.AllowedHeaders([]string{"Content-Type", UserHeader})
	corsAllowedMethods = handlers.AllowedMethods([]string{"GET", "POST", "HEAD", "OPTIONS"})
)

// Options configures the HTTP server.
type Options struct {
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// DefaultOptions returns the default server options.
func DefaultOptions() Options {
	return Options{
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: 5 * time.Second,
	}
}

// QuizServer serves the quiz API on top of the authoritative service.
type QuizServer struct {
	svc      *service.Local
	opts     Options
	validate *validator.Validate
}

// NewQuizServer creates a QuizServer. svc is re-scoped to the requesting
// user on every request.
func NewQuizServer(svc *service.Local, opts Options) *QuizServer {
	return &QuizServer{
		svc:      svc,
		opts:     opts,
		validate: validator.New(),
	}
}

// SetupRoutes registers the API routes on r.
func (qs *QuizServer) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/courses", qs.ListCoursesFunc).Methods("GET")
	r.HandleFunc("/courses/{course_id}/modules", qs.ListModulesFunc).Methods("GET")
	r.HandleFunc("/modules/{module_id}/lessons", qs.ListLessonsFunc).Methods("GET")
	r.HandleFunc("/quiz/evaluation/create", qs.CreateEvaluationFunc).Methods("POST")
	r.HandleFunc("/quiz/evaluation/{quiz_id}", qs.GetEvaluationFunc).Methods("GET")
	r.HandleFunc("/quiz/{id}", qs.GetQuizFunc).Methods("GET")
	glog.V(2).Infof("set up routes for quiz server")
}

// Handler returns the routed, CORS-wrapped handler.
func (qs *QuizServer) Handler() http.Handler {
	r := mux.NewRouter()
	qs.SetupRoutes(r)
	r.Use(logRequests)

	origins := handlers.AllowedOrigins(qs.opts.AllowedOrigins)
	return handlers.CORS(corsAllowedHeaders, corsAllowedMethods, origins)(r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (qs *QuizServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           qs.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		glog.Infof("quiz server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	glog.Infof("shutting down quiz server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), qs.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// logRequests logs every request at verbosity 2.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		glog.V(2).Infof("%s %s user=%q took %s", r.Method, r.URL.Path, r.Header.Get(UserHeader), time.Since(start))
	})
}
