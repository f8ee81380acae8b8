package task

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/josephgoksu/tasktrack/internal/logging"
	"github.com/josephgoksu/tasktrack/models"
)

var (
	// ErrTaskNotFound is returned when no task matches the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrStorageUnread is returned by mutations after a failed Load, so that
	// tasks which could not be read are never overwritten.
	ErrStorageUnread = errors.New("task storage was not read")
)

// Repository defines the data access methods required by the Task Service.
// This interface allows the service to be decoupled from the concrete storage backend.
type Repository interface {
	LoadTasks() ([]models.Task, error)
	SaveTasks(tasks []models.Task) error
}

// Policy controls which tasks a session may modify.
type Policy struct {
	// EnforceOwnership limits Delete, Complete and Find to the session owner's
	// tasks. When false any task id may be modified.
	EnforceOwnership bool
}

// Summary counts the session owner's tasks by state.
type Summary struct {
	Open      int
	Completed int
}

// Total returns the number of tasks counted.
func (s Summary) Total() int {
	return s.Open + s.Completed
}

// Service owns the in-memory task list for one program run and is the sole
// writer of task storage. Every mutation rewrites storage immediately.
type Service struct {
	repo   Repository
	owner  string
	policy Policy
	now    func() time.Time
	logger *log.Logger
	tasks  []models.Task

	// loadErr is the error from the last Load, if it failed.
	loadErr error
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the access policy.
func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock overrides the clock used for completion dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service for the given session owner.
// Call Load before using it.
func NewService(repo Repository, owner string, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		owner:  owner,
		now:    time.Now,
		logger: logging.Discard(),
		tasks:  []models.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Owner returns the session username.
func (s *Service) Owner() string {
	return s.owner
}

// Load reads every user's tasks from storage. On failure the list is left
// empty, the error is returned, and mutations fail with ErrStorageUnread
// until a later Load succeeds.
func (s *Service) Load() error {
	tasks, err := s.repo.LoadTasks()
	if err != nil {
		s.tasks = []models.Task{}
		s.loadErr = err
		return fmt.Errorf("load tasks: %w", err)
	}
	s.tasks = tasks
	s.loadErr = nil
	s.logger.Debug("loaded tasks", "count", len(tasks), "owner", s.owner)
	return nil
}

// Add appends a new open task owned by the session user and persists.
// The id is one more than the largest id across all loaded tasks.
// If the save fails the task stays in memory and the error is returned.
func (s *Service) Add(description, deadline string) (models.Task, error) {
	if err := s.writable(); err != nil {
		return models.Task{}, err
	}
	t := models.NewTask(s.nextID(), s.owner, description, deadline)
	s.tasks = append(s.tasks, t)
	s.logger.Debug("added task", "id", t.ID)
	return t, s.persist()
}

// Delete removes the first task with the given id and persists.
func (s *Service) Delete(id int) error {
	if err := s.writable(); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.logger.Debug("deleted task", "id", id)
	return s.persist()
}

// Complete marks the first task with the given id completed today and
// persists. Completing an already completed task resets its date to today.
func (s *Service) Complete(id int) (models.Task, error) {
	if err := s.writable(); err != nil {
		return models.Task{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	s.tasks[i].MarkCompleted(s.now().Format(models.DateLayout))
	s.logger.Debug("completed task", "id", id, "date", s.tasks[i].CompletionDate)
	return s.tasks[i], s.persist()
}

// Find returns the first task with the given id, subject to the policy.
func (s *Service) Find(id int) (models.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// All returns a copy of every loaded task, regardless of owner.
func (s *Service) All() []models.Task {
	return slices.Clone(s.tasks)
}

// Owned returns the session owner's tasks in storage order.
func (s *Service) Owned() []models.Task {
	owned := []models.Task{}
	for _, t := range s.tasks {
		if t.IsOwnedBy(s.owner) {
			owned = append(owned, t)
		}
	}
	return owned
}

// Stats counts the session owner's open and completed tasks.
func (s *Service) Stats() Summary {
	var sum Summary
	for _, t := range s.Owned() {
		if t.Completed {
			sum.Completed++
		} else {
			sum.Open++
		}
	}
	return sum
}

func (s *Service) nextID() int {
	maxID := 0
	for _, t := range s.tasks {
		maxID = max(maxID, t.ID)
	}
	return maxID + 1
}

func (s *Service) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool {
		if t.ID != id {
			return false
		}
		return !s.policy.EnforceOwnership || t.IsOwnedBy(s.owner)
	})
}

func (s *Service) writable() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnread, s.loadErr)
	}
	return nil
}

func (s *Service) persist() error {
	if err := s.repo.SaveTasks(s.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
