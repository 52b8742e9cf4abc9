package output_test

import (
	"bytes"
	"testing"

	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/testutil"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		task service.Task
		want string
	}{
		{"open", service.Task{ID: "1", Title: "buy milk"}, "[ ] 1  buy milk\n"},
		{"completed", service.Task{ID: "2", Title: "pay rent", Completed: true}, "[x] 2  pay rent\n"},
		{"empty title", service.Task{ID: "3", Title: "  "}, "[ ] 3  (untitled)\n"},
		{"newlines", service.Task{ID: "4", Title: "line one\nline two"}, "[ ] 4  line one line two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatTask(&buf, tt.task)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestFormatSection(t *testing.T) {
	var buf bytes.Buffer
	output.FormatSection(&buf, "Active", []service.Task{
		{ID: "1", Title: "buy milk"},
		{ID: "3", Title: "call mom"},
	})
	output.FormatSection(&buf, "Completed", nil)

	testutil.Golden(t, "sections", buf.Bytes())
}

func TestFormatError(t *testing.T) {
	var buf bytes.Buffer
	output.FormatError(&buf, "task not found: %s", "7")
	if buf.String() != "error: task not found: 7\n" {
		t.Errorf("unexpected error line %q", buf.String())
	}
}
