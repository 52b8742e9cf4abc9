// Package export writes task collections as JSON, CSV or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"todo/internal/service"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// ErrUnknownFormat is returned for a format other than json, csv or pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Supported reports whether format is one Write accepts.
func Supported(format string) bool {
	switch strings.ToLower(format) {
	case FormatJSON, FormatCSV, FormatPDF:
		return true
	}
	return false
}

// Write encodes tasks to w in the given format.
func Write(w io.Writer, format string, tasks []service.Task) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, tasks)
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, tasks []service.Task) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

func writeCSV(w io.Writer, tasks []service.Task) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "title", "completed"})
	for _, t := range tasks {
		_ = cw.Write([]string{t.ID, t.Title, strconv.FormatBool(t.Completed)})
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []service.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s", box, t.ID, tr(t.Title))
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	return pdf.Output(w)
}
