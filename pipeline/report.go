package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-release/domain"
	"github.com/input-output-hk/catalyst-forge-release/errors"
	"github.com/input-output-hk/catalyst-forge-release/fs"
)

// WriteReport serializes the run report as indented JSON at path, creating
// parent directories as needed.
func WriteReport(fsys fs.WriteFS, path string, report *domain.RunReport) error {
	if path == "" {
		return errors.New(errors.CodeInvalidInput, "report path cannot be empty")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding run report")
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := fsys.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(errors.CodeInternal, err, "creating report directory %s", dir)
		}
	}
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.CodeInternal, err, "writing run report to %s", path)
	}
	return nil
}

// Summarize renders a human-readable run summary: one line per step and a
// final verdict.
func Summarize(report *domain.RunReport) string {
	var b strings.Builder

	for _, step := range report.Steps {
		fmt.Fprintf(&b, "%-16s %s", step.Name, step.Status)
		if d, ok := stepDuration(step); ok {
			fmt.Fprintf(&b, " (%s)", d.Round(time.Millisecond))
		}
		if step.Error != "" {
			fmt.Fprintf(&b, ": %s", step.Error)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "run %s", report.Status)
	switch {
	case report.ReleaseURL != "":
		fmt.Fprintf(&b, ": %s at %s", report.TagName, report.ReleaseURL)
	case report.TagName != "":
		fmt.Fprintf(&b, ": %s", report.TagName)
	}
	b.WriteByte('\n')
	return b.String()
}

// stepDuration returns the step's wall time when both timestamps exist.
func stepDuration(step domain.StepRecord) (time.Duration, bool) {
	if step.StartedAt == nil || step.CompletedAt == nil {
		return 0, false
	}
	return step.CompletedAt.Sub(*step.StartedAt), true
}
