package task

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/tasktrack/models"
)

// NoTasksMessage is printed when the session owner has no tasks, even if
// other users do.
const NoTasksMessage = "No tasks to display."

// FormatTask renders one task as a single display line.
func FormatTask(t models.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %d, Description: %s, Deadline: %s", t.ID, t.Description, t.Deadline)
	if t.Completed {
		fmt.Fprintf(&sb, ", Completed: Yes, Completion Date: %s", t.CompletionDate)
	} else {
		sb.WriteString(", Completed: No")
	}
	return sb.String()
}

// Display writes the session owner's tasks to w in storage order.
// Styling is applied only when w is a terminal.
func (s *Service) Display(w io.Writer) {
	owned := s.Owned()
	if len(owned) == 0 {
		fmt.Fprintln(w, NoTasksMessage)
		return
	}

	header := lipgloss.NewRenderer(w).NewStyle().Bold(true)
	fmt.Fprintln(w, header.Render("Tasks:"))
	for _, t := range owned {
		fmt.Fprintln(w, FormatTask(t))
	}
}
