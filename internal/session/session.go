// Package session runs the interactive login gate and task menu.
package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/josephgoksu/tasktrack/internal/account"
	"github.com/josephgoksu/tasktrack/internal/logging"
	"github.com/josephgoksu/tasktrack/internal/task"
)

// Menu choices.
const (
	choiceLogin    = 1
	choiceRegister = 2

	choiceAdd      = 1
	choiceDelete   = 2
	choiceComplete = 3
	choiceDisplay  = 4
	choiceClose    = 5
)

// User-facing messages.
const (
	msgLoginOK        = "Login successful."
	msgLoginFailed    = "Login failed. Invalid username or password."
	msgUsernameTaken  = "Username already exists. Please choose a different username."
	msgRegistered     = "Registration successful. Please login."
	msgInvalidChoice  = "Invalid choice."
	msgInvalidTaskID  = "Invalid task ID."
	msgTaskNotFound   = "Task not found."
	msgClosing        = "Closing program."
	msgUserFileError  = "Unable to open user file."
	msgTaskFileError  = "Unable to open task file."
	msgTaskWriteError = "Unable to open file for writing."
)

// TaskServiceFactory builds the task service for the logged-in user.
type TaskServiceFactory func(owner string) *task.Service

// Session drives one interactive run: authenticate, then manage tasks.
type Session struct {
	accounts *account.Registry
	newTasks TaskServiceFactory
	prompt   Prompter
	out      io.Writer
	errOut   io.Writer
	verbose  bool
	logger   *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithVerbose prints technical errors instead of friendly messages.
func WithVerbose(v bool) Option {
	return func(s *Session) { s.verbose = v }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a Session. Output goes to out, error reports to errOut.
func New(accounts *account.Registry, newTasks TaskServiceFactory, prompt Prompter, out, errOut io.Writer, opts ...Option) *Session {
	s := &Session{
		accounts: accounts,
		newTasks: newTasks,
		prompt:   prompt,
		out:      out,
		errOut:   errOut,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the session until the user closes it or input ends.
// Accounts are saved on the way out. Storage problems are reported and never
// end the session early; only unexpected prompt failures are returned.
func (s *Session) Run() error {
	if err := s.accounts.Load(); err != nil {
		s.report(msgUserFileError, err)
	}

	username, err := s.authenticate()
	if err == nil {
		err = s.manageTasks(username)
	}

	if saveErr := s.accounts.Save(); saveErr != nil {
		s.report(msgUserFileError, saveErr)
	}

	if errors.Is(err, io.EOF) {
		s.logger.Debug("input ended")
		return nil
	}
	return err
}

// authenticate loops over the login/register menu until a login succeeds.
func (s *Session) authenticate() (string, error) {
	for {
		choice, err := s.choice("1. Login\n2. Register\nEnter your choice: ")
		if err != nil {
			return "", err
		}

		switch choice {
		case choiceLogin:
			username, err := s.prompt.Token("Enter username: ")
			if err != nil {
				return "", err
			}
			password, err := s.prompt.Secret("Enter password: ")
			if err != nil {
				return "", err
			}
			if s.accounts.Authenticate(username, password) {
				fmt.Fprintln(s.out, msgLoginOK)
				return username, nil
			}
			fmt.Fprintln(s.out, msgLoginFailed)

		case choiceRegister:
			username, err := s.prompt.Token("Enter username: ")
			if err != nil {
				return "", err
			}
			if s.accounts.Exists(username) {
				fmt.Fprintln(s.out, msgUsernameTaken)
				continue
			}
			password, err := s.prompt.Secret("Enter password: ")
			if err != nil {
				return "", err
			}
			s.accounts.Register(username, password)
			fmt.Fprintln(s.out, msgRegistered)

		default:
			fmt.Fprintln(s.out, msgInvalidChoice)
		}
	}
}

func (s *Session) manageTasks(username string) error {
	tasks := s.newTasks(username)
	if err := tasks.Load(); err != nil {
		s.report(msgTaskFileError, err)
	}

	heading := lipgloss.NewRenderer(s.out).NewStyle().Bold(true)
	for {
		sum := tasks.Stats()
		fmt.Fprintf(s.out, "\n%s\n", heading.Render(fmt.Sprintf("Task Manager (%s: %d open, %d completed)", username, sum.Open, sum.Completed)))
		choice, err := s.choice("1. Add Task\n2. Delete Task\n3. Complete Task\n4. Display Tasks\n5. Close Program\nEnter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case choiceAdd:
			description, err := s.prompt.Line("Enter task description: ")
			if err != nil {
				return err
			}
			deadline, err := s.prompt.Token("Enter task deadline (YYYY-MM-DD): ")
			if err != nil {
				return err
			}
			t, err := tasks.Add(description, deadline)
			if err != nil {
				s.reportTaskError(err)
				continue
			}
			fmt.Fprintf(s.out, "Task %d added.\n", t.ID)

		case choiceDelete:
			id, ok, err := s.taskID("Enter task ID to delete: ")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := tasks.Delete(id); err != nil {
				s.reportTaskError(err)
				continue
			}
			fmt.Fprintf(s.out, "Task %d deleted.\n", id)

		case choiceComplete:
			id, ok, err := s.taskID("Enter task ID to mark as completed: ")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if _, err := tasks.Complete(id); err != nil {
				s.reportTaskError(err)
				continue
			}
			fmt.Fprintf(s.out, "Task %d marked as completed.\n", id)

		case choiceDisplay:
			tasks.Display(s.out)

		case choiceClose:
			fmt.Fprintln(s.out, msgClosing)
			return nil

		default:
			fmt.Fprintln(s.out, msgInvalidChoice)
		}
	}
}

// choice reads a menu selection. Non-numeric input yields 0, which no menu uses.
func (s *Session) choice(label string) (int, error) {
	answer, err := s.prompt.Token(label)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil {
		return 0, nil
	}
	return n, nil
}

func (s *Session) taskID(label string) (int, bool, error) {
	answer, err := s.prompt.Token(label)
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.Atoi(answer)
	if convErr != nil {
		fmt.Fprintln(s.out, msgInvalidTaskID)
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Session) reportTaskError(err error) {
	if errors.Is(err, task.ErrTaskNotFound) {
		s.report(msgTaskNotFound, err)
		return
	}
	if errors.Is(err, task.ErrStorageUnread) {
		s.report(msgTaskFileError, err)
		return
	}
	s.report(msgTaskWriteError, err)
}

// report prints a friendly message, or the technical error in verbose mode.
func (s *Session) report(userMsg string, err error) {
	s.logger.Debug(userMsg, "err", err)
	if s.verbose && err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.errOut, userMsg)
}
