package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the format used for completion dates.
const DateLayout = "2006-01-02"

// Task represents a single owned to-do item.
// A task moves one way from open to completed; CompletionDate is set exactly
// when Completed is.
type Task struct {
	ID             int    `json:"id" yaml:"id" toml:"id" validate:"min=1"`
	Owner          string `json:"owner" yaml:"owner" toml:"owner" validate:"required"`
	Description    string `json:"description" yaml:"description" toml:"description"`
	Deadline       string `json:"deadline" yaml:"deadline" toml:"deadline"`
	Completed      bool   `json:"completed" yaml:"completed" toml:"completed"`
	CompletionDate string `json:"completionDate,omitempty" yaml:"completionDate,omitempty" toml:"completionDate,omitempty"`
}

// TaskList represents a collection of tasks as stored in document formats.
type TaskList struct {
	Tasks []Task `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
}

// NewTask returns an open task.
func NewTask(id int, owner, description, deadline string) Task {
	return Task{
		ID:          id,
		Owner:       owner,
		Description: description,
		Deadline:    deadline,
	}
}

// MarkCompleted sets the task completed on the given date.
// Calling it again overwrites the date.
func (t *Task) MarkCompleted(date string) {
	t.Completed = true
	t.CompletionDate = date
}

// IsOwnedBy reports whether username owns the task (exact match).
func (t Task) IsOwnedBy(username string) bool {
	return t.Owner == username
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
