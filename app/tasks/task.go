package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/folio/app/pages"
)

type TaskType string

const (
	TaskTypeRenderPage TaskType = "render_page"
	TaskTypeBuildFeed  TaskType = "build_feed"
)

const (
	DefaultMaxRetries = 3
)

// ErrPermanent marks a failure that a retry cannot fix, such as a malformed
// document body.
var ErrPermanent = errors.New("permanent task failure")

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetTarget() string
	GetKind() string
	GetRetryCount() int
	GetMaxRetries() int
	GetLastError() error
	IncrementRetryCount()
	ShouldRetry(err error) bool
	RetryDelay(base, limit time.Duration) time.Duration
	Start()
	GetDuration() time.Duration
}

// Task is the shared state of a cache-filling task. Target is the site path
// the task writes; Kind is derived from it and labels logs and metrics.
type Task struct {
	ID         string
	Type       TaskType
	Target     string
	Kind       string
	RetryCount int
	MaxRetries int
	LastError  error
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetTarget() string {
	return t.Target
}

func (t *Task) GetKind() string {
	return t.Kind
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) GetLastError() error {
	return t.LastError
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

// ShouldRetry records err as the last failure and reports whether another
// attempt can help. Permanent failures never retry.
func (t *Task) ShouldRetry(err error) bool {
	t.LastError = err
	if errors.Is(err, ErrPermanent) {
		return false
	}
	return t.CanRetry()
}

// RetryDelay is the backoff before the current retry: base doubled per
// retry already taken, capped at limit.
func (t *Task) RetryDelay(base, limit time.Duration) time.Duration {
	delay := base
	for i := 1; i < t.RetryCount && delay < limit; i++ {
		delay *= 2
	}
	return min(delay, limit)
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, target string) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		Target:     target,
		Kind:       PageKind(target),
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}

// PageKind labels a path for logs and metrics.
func PageKind(path string) string {
	switch {
	case path == pages.HomePath:
		return "home"
	case path == pages.AboutPath:
		return "about"
	case strings.HasPrefix(path, pages.ProjectsPath):
		return "project"
	case strings.HasSuffix(path, ".xml"):
		return "feed"
	default:
		return "other"
	}
}
