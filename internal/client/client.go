// Package client is the HTTP implementation of service.Service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/server"
	"github.com/abhisek/quizdeck/internal/service"
)

// Client talks to a quiz server on behalf of one user.
type Client struct {
	http *resty.Client
}

var _ service.Service = (*Client)(nil)

// New creates a Client for baseURL. userID is sent with every request.
func New(baseURL, userID string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader(server.UserHeader, userID)
	return &Client{http: c}
}

func (c *Client) Catalog(ctx context.Context) ([]course.Outline, error) {
	var out []course.Outline
	if err := c.get(ctx, "/courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Preview(ctx context.Context, quizID string) (*quiz.Preview, error) {
	var out quiz.Preview
	if err := c.get(ctx, "/quiz/{id}", map[string]string{"id": quizID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Submit(ctx context.Context, sub quiz.Submission) (*quiz.Attempt, error) {
	var env server.Envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sub).
		SetResult(&env).
		SetError(&env).
		Post("/quiz/evaluation/create")
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), env, sub.Token)
	}

	var out quiz.Attempt
	if err := decode(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Results(ctx context.Context, quizID string) (*service.Results, error) {
	var out service.Results
	if err := c.get(ctx, "/quiz/evaluation/{quiz_id}", map[string]string{"quiz_id": quizID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Modules(ctx context.Context, courseID string) ([]course.Module, error) {
	var out []course.Module
	if err := c.get(ctx, "/courses/{course_id}/modules", map[string]string{"course_id": courseID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Lessons(ctx context.Context, moduleID string) ([]course.Lesson, error) {
	var out []course.Lesson
	if err := c.get(ctx, "/modules/{module_id}/lessons", map[string]string{"module_id": moduleID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	var env server.Envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(params).
		SetResult(&env).
		SetError(&env).
		Get(path)
	if err != nil {
		return transportError(ctx, err)
	}
	if resp.IsError() {
		return statusError(resp.StatusCode(), env, "")
	}
	return decode(env, out)
}

func decode(env server.Envelope, out any) error {
	if err := json.Unmarshal(env.Content, out); err != nil {
		return fmt.Errorf("decode response content: %w", err)
	}
	return nil
}

// transportError classifies a failure to get any response.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &service.UnavailableError{Err: err}
}

// statusError maps an error response back to a service error.
func statusError(status int, env server.Envelope, token string) error {
	msg := env.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	cause := errors.New(msg)

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", service.ErrNotFound, msg)
	case status == http.StatusConflict:
		return &service.ConflictError{Token: token}
	case status == http.StatusUnprocessableEntity:
		return &service.ValidationError{Err: fmt.Errorf("%s: %w", msg, quiz.ErrInvalidAnswer)}
	case status == http.StatusBadRequest:
		return &service.ValidationError{Err: cause}
	case status >= 500, status == http.StatusTooManyRequests:
		return &service.UnavailableError{Err: cause}
	}
	return fmt.Errorf("quiz server returned %d: %s", status, msg)
}
