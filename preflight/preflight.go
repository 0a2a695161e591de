// Package preflight provides a rule-based readiness framework for release
// runs. It enables operators to verify credentials, configuration, and the
// project tree before a run touches the hosting platform, through composable
// checks.
package preflight

import (
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-forge-release/fs"
)

// Severity represents the severity level of a preflight issue.
type Severity int

const (
	// SeverityError indicates a condition that will make the run fail.
	SeverityError Severity = iota
	// SeverityWarning indicates a condition worth attention that does not
	// block a run. An empty artifact set is the canonical example.
	SeverityWarning
	// SeverityInfo indicates a suggestion or informational finding.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Context carries the ambient handles checks examine: the project tree and
// the process environment. Check-specific parameters are bound at check
// construction instead.
type Context struct {
	// FS is the filesystem holding the project tree.
	FS fs.ReadFS

	// WorkDir is the project directory paths are resolved against.
	WorkDir string

	// LookupEnv reads a process environment variable. Nil falls back to
	// os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Env reads an environment variable through the context's lookup.
func (c *Context) Env(key string) (string, bool) {
	if c.LookupEnv != nil {
		return c.LookupEnv(key)
	}
	return os.LookupEnv(key)
}

// Issue represents a single finding from a preflight check.
type Issue struct {
	// Check is the identifier of the check that found this issue.
	Check string `json:"check"`

	// Severity indicates the importance level of the issue.
	Severity Severity `json:"severity"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// Context provides additional metadata about the issue.
	Context map[string]string `json:"context,omitempty"`
}

// String returns a formatted string representation of the issue.
func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Check, i.Message)
}

// NewIssue creates a new Issue with the given parameters.
func NewIssue(check string, severity Severity, message string) Issue {
	return Issue{
		Check:    check,
		Severity: severity,
		Message:  message,
	}
}

// WithContext adds context metadata to an issue and returns the modified
// issue.
func (i Issue) WithContext(key, value string) Issue {
	if i.Context == nil {
		i.Context = make(map[string]string)
	}
	i.Context[key] = value
	return i
}

// Check defines the interface all preflight checks implement. Checks are the
// building blocks of the framework, each responsible for one readiness
// condition.
type Check interface {
	// Name returns a unique identifier for the check, a kebab-case string
	// like "token-present".
	Name() string

	// Description returns a human-readable description of what the check
	// verifies.
	Description() string

	// Check examines the context and returns any issues found.
	Check(ctx *Context) []Issue
}

// CheckFunc represents a function that performs checking on a context.
// It returns the issues found, or nil when the condition is satisfied.
type CheckFunc func(ctx *Context) []Issue

// RequirementFunc represents a function that reports whether a requirement
// is satisfied.
type RequirementFunc func(ctx *Context) bool

// SimpleCheck creates a check from a bare check function. This is the most
// basic builder, for checks that report their own issues.
//
//nolint:ireturn // Builder functions should return interfaces
func SimpleCheck(name, description string, check CheckFunc) Check {
	return &simpleCheck{
		name:        name,
		description: description,
		check:       check,
	}
}

type simpleCheck struct {
	name        string
	description string
	check       CheckFunc
}

func (c *simpleCheck) Name() string        { return c.name }
func (c *simpleCheck) Description() string { return c.description }

func (c *simpleCheck) Check(ctx *Context) []Issue {
	return c.check(ctx)
}

// RequireCheck creates a check that raises an error-severity issue when the
// requirement is not satisfied.
//
//nolint:ireturn // Builder functions should return interfaces
func RequireCheck(name, description string, requirement RequirementFunc) Check {
	return &requirementCheck{
		name:        name,
		description: description,
		severity:    SeverityError,
		requirement: requirement,
	}
}

// AdviseCheck creates a check that raises a warning-severity issue when the
// requirement is not satisfied. Advisory findings never block a run.
//
//nolint:ireturn // Builder functions should return interfaces
func AdviseCheck(name, description string, requirement RequirementFunc) Check {
	return &requirementCheck{
		name:        name,
		description: description,
		severity:    SeverityWarning,
		requirement: requirement,
	}
}

type requirementCheck struct {
	name        string
	description string
	severity    Severity
	requirement RequirementFunc
}

func (c *requirementCheck) Name() string        { return c.name }
func (c *requirementCheck) Description() string { return c.description }

func (c *requirementCheck) Check(ctx *Context) []Issue {
	if !c.requirement(ctx) {
		return []Issue{NewIssue(c.name, c.severity, c.description)}
	}
	return nil
}
