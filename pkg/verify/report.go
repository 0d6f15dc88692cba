package verify

import (
	"fmt"
)

// Severity grades a verification issue.
type Severity int

const (
	// SeverityWarning issues are reported but do not fail the run.
	SeverityWarning Severity = iota
	// SeverityError issues mean the installation will not work.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one finding about an installed file.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

// Report collects the findings of a check. Failed is set by the first
// error-severity issue.
type Report struct {
	Issues []Issue
	Failed bool
}

func (r *Report) add(sev Severity, path, format string, args ...interface{}) Issue {
	issue := Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)}
	r.Issues = append(r.Issues, issue)
	if sev == SeverityError {
		r.Failed = true
	}
	return issue
}

// Clean reports whether the check found nothing at all.
func (r Report) Clean() bool {
	return len(r.Issues) == 0
}

// Merge appends the findings of other.
func (r *Report) Merge(other Report) {
	r.Issues = append(r.Issues, other.Issues...)
	r.Failed = r.Failed || other.Failed
}

// Lines renders one line per issue.
func (r Report) Lines() []string {
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Severity, issue.Message))
	}
	return lines
}
