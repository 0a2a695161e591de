package preflight

import (
	"encoding/json"
	"fmt"
	"io"
)

// Format represents the output format for preflight reports.
type Format int

const (
	// FormatText outputs issues as human-readable text.
	FormatText Format = iota
	// FormatJSON outputs issues as structured JSON.
	FormatJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name into a Format. Unknown names fall back
// to text.
func ParseFormat(name string) Format {
	if name == "json" {
		return FormatJSON
	}
	return FormatText
}

// Reporter formats and outputs preflight summaries.
type Reporter struct {
	writer io.Writer
	format Format
}

// NewReporter creates a new reporter with the specified writer and format.
func NewReporter(writer io.Writer, format Format) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report outputs the summary in the configured format.
func (r *Reporter) Report(summary *Summary) error {
	switch r.format {
	case FormatJSON:
		return r.reportJSON(summary)
	case FormatText:
		return r.reportText(summary)
	default:
		return fmt.Errorf("unsupported format: %v", r.format)
	}
}

// reportText outputs issues one per line, followed by a verdict.
func (r *Reporter) reportText(summary *Summary) error {
	for _, issue := range summary.Issues {
		if _, err := fmt.Fprintln(r.writer, issue.String()); err != nil {
			return fmt.Errorf("failed to write issue: %w", err)
		}
	}

	verdict := fmt.Sprintf("%d checks passed", summary.Checks)
	if !summary.OK() {
		verdict = fmt.Sprintf("%d checks, %d issues", summary.Checks, len(summary.Issues))
	}
	if _, err := fmt.Fprintln(r.writer, verdict); err != nil {
		return fmt.Errorf("failed to write verdict: %w", err)
	}

	return nil
}

// reportJSON outputs the whole summary as JSON.
func (r *Reporter) reportJSON(summary *Summary) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
