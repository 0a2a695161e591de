package preflight

import (
	"io"
	"log/slog"
	"sort"
)

// Summary aggregates the issues found by a check run.
type Summary struct {
	// Issues holds every finding, sorted by severity then check name.
	Issues []Issue `json:"issues"`

	// Checks is the number of checks that ran.
	Checks int `json:"checks"`
}

// HasErrors reports whether any issue carries error severity.
func (s *Summary) HasErrors() bool {
	return s.count(SeverityError) > 0
}

// HasWarnings reports whether any issue carries warning severity.
func (s *Summary) HasWarnings() bool {
	return s.count(SeverityWarning) > 0
}

// OK reports whether the run produced no issues at all.
func (s *Summary) OK() bool {
	return len(s.Issues) == 0
}

func (s *Summary) count(severity Severity) int {
	n := 0
	for _, issue := range s.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Runner executes a fixed list of checks against a context.
type Runner struct {
	checks []Check
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for the runner.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner over the given checks. Check order is
// preserved for execution; reported issues are sorted afterwards.
func NewRunner(checks []Check, opts ...RunnerOption) *Runner {
	r := &Runner{
		checks: checks,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every check and returns the aggregated summary. Checks do
// not abort the run; a summary always covers the full list.
func (r *Runner) Run(ctx *Context) *Summary {
	summary := &Summary{Checks: len(r.checks)}

	for _, check := range r.checks {
		issues := check.Check(ctx)
		r.logger.Debug("preflight check completed",
			"check", check.Name(),
			"issues", len(issues))
		summary.Issues = append(summary.Issues, issues...)
	}

	sort.Slice(summary.Issues, func(i, j int) bool {
		if summary.Issues[i].Severity != summary.Issues[j].Severity {
			return summary.Issues[i].Severity < summary.Issues[j].Severity
		}
		return summary.Issues[i].Check < summary.Issues[j].Check
	})

	return summary
}
