// Package sqllint checks raw SQL text against the conventions the query
// canvas surfaces in its editor gutter. Checks are heuristic and keyword
// driven: the statement is classified by its leading keyword and scanned
// for clause words, so linting stays cheap and accepts any input.
package sqllint

import (
	"fmt"
	"strings"

	"querycanvas/internal/queryir"
	"querycanvas/internal/sqlparse"
)

// Severity levels for lint violations.
type Severity string

// Severity constants.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// sevRank maps severity to a numeric rank for comparison.
var sevRank = map[Severity]int{SeverityWarning: 1, SeverityError: 2}

// Violation represents a single lint finding.
type Violation struct {
	RuleID   string
	Severity Severity
	Message  string
}

// String formats a violation in golangci-lint style.
func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.RuleID, v.Severity, v.Message)
}

// Linter holds one trimmed statement and runs every rule against it.
type Linter struct {
	sql  string
	kind queryir.StatementKind
}

// New trims and classifies the statement. Any input is accepted; rules
// that do not apply to the statement kind skip themselves.
func New(sql string) *Linter {
	trimmed := strings.TrimSpace(sql)
	return &Linter{sql: trimmed, kind: sqlparse.Classify(trimmed)}
}

// Run executes all rules in registration order.
func (l *Linter) Run() []Violation {
	checks := []func() []Violation{
		l.checkEmptyStatement,
		l.checkSelectHasFrom,
		l.checkInsertHasSource,
		l.checkSelectStar,
		l.checkSelectBounded,
		l.checkMutationHasWhere,
		l.checkCommentSequences,
		l.checkSingleStatement,
	}
	var vs []Violation
	for _, check := range checks {
		vs = append(vs, check()...)
	}
	return vs
}

// HasErrors returns true if any violation has error severity.
func HasErrors(vs []Violation) bool {
	for _, v := range vs {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Filter returns violations at or above the given severity.
func Filter(vs []Violation, minSev Severity) []Violation {
	minRank := sevRank[minSev]
	var out []Violation
	for _, v := range vs {
		if sevRank[v.Severity] >= minRank {
			out = append(out, v)
		}
	}
	return out
}

// Result is the lint outcome handed to API and CLI callers. Warnings do
// not affect IsValid.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateSQL lints one statement and partitions the findings.
func ValidateSQL(sql string) Result {
	vs := New(sql).Run()
	res := Result{IsValid: !HasErrors(vs), Errors: []string{}, Warnings: []string{}}
	for _, v := range vs {
		if v.Severity == SeverityError {
			res.Errors = append(res.Errors, v.Message)
		} else {
			res.Warnings = append(res.Warnings, v.Message)
		}
	}
	return res
}

func (l *Linter) violation(ruleID string, sev Severity, msg string) Violation {
	return Violation{RuleID: ruleID, Severity: sev, Message: msg}
}
