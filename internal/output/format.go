// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/service"
)

const (
	// SectionSeparator is the separator line under section headers.
	SectionSeparator = "------------"
)

// Styles collapse to plain text when stdout is not a terminal.
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// FormatTask formats one task line.
// Format: "[x] {ID}  {TITLE}\n"; open tasks show "[ ]".
func FormatTask(w io.Writer, task service.Task) {
	title := normalizeTitle(task.Title)
	box := "[ ]"
	if task.Completed {
		box = "[x]"
		title = doneStyle.Render(title)
	}
	fmt.Fprintf(w, "%s %s  %s\n", box, idStyle.Render(task.ID), title)
}

// FormatTasks formats tasks one per line.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// FormatSection formats a header followed by its tasks.
// Empty sections are printed with "(none)" so both views stay visible.
func FormatSection(w io.Writer, title string, tasks []service.Task) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
	fmt.Fprintln(w, SectionSeparator)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	FormatTasks(w, tasks)
}

// FormatError formats an error line for stderr.
func FormatError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, errorStyle.Render("error: "+fmt.Sprintf(format, args...)))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
