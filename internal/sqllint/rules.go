package sqllint

import (
	"fmt"
	"regexp"
	"strings"

	"querycanvas/internal/queryir"
)

var (
	fromWordRE   = regexp.MustCompile(`(?i)\bFROM\b`)
	whereWordRE  = regexp.MustCompile(`(?i)\bWHERE\b`)
	limitWordRE  = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)
	fetchWordRE  = regexp.MustCompile(`(?i)\bFETCH\s+(?:NEXT|FIRST)\b`)
	valuesWordRE = regexp.MustCompile(`(?i)\bVALUES\b`)
	selectWordRE = regexp.MustCompile(`(?i)\bSELECT\b`)
	selectStarRE = regexp.MustCompile(`(?i)\bSELECT\s+(?:DISTINCT\s+)?\*`)
)

// SQL001: a statement must contain something to lint.
func (l *Linter) checkEmptyStatement() []Violation {
	if l.sql != "" {
		return nil
	}
	return []Violation{l.violation("SQL001", SeverityError, "statement is empty")}
}

// SQL002: SELECT must read from somewhere.
func (l *Linter) checkSelectHasFrom() []Violation {
	if l.kind != queryir.KindSelect || fromWordRE.MatchString(l.sql) {
		return nil
	}
	return []Violation{l.violation("SQL002", SeverityError,
		"SELECT statement has no FROM clause")}
}

// SQL003: INSERT needs a VALUES list or a SELECT source.
func (l *Linter) checkInsertHasSource() []Violation {
	if l.kind != queryir.KindInsert {
		return nil
	}
	if valuesWordRE.MatchString(l.sql) || selectWordRE.MatchString(l.sql) {
		return nil
	}
	return []Violation{l.violation("SQL003", SeverityError,
		"INSERT statement has neither a VALUES list nor a SELECT source")}
}

// SQL004: SELECT * hides column intent and widens result sets.
func (l *Linter) checkSelectStar() []Violation {
	if l.kind != queryir.KindSelect || !selectStarRE.MatchString(l.sql) {
		return nil
	}
	return []Violation{l.violation("SQL004", SeverityWarning,
		"SELECT * fetches every column; prefer an explicit column list")}
}

// SQL005: unbounded SELECTs return whole tables. FETCH NEXT/FIRST counts
// as a bound for the offset-fetch dialects.
func (l *Linter) checkSelectBounded() []Violation {
	if l.kind != queryir.KindSelect {
		return nil
	}
	if limitWordRE.MatchString(l.sql) || fetchWordRE.MatchString(l.sql) {
		return nil
	}
	return []Violation{l.violation("SQL005", SeverityWarning,
		"query has no LIMIT; large tables will return every row")}
}

// SQL006: UPDATE and DELETE without WHERE touch every row.
func (l *Linter) checkMutationHasWhere() []Violation {
	if l.kind != queryir.KindUpdate && l.kind != queryir.KindDelete {
		return nil
	}
	if whereWordRE.MatchString(l.sql) {
		return nil
	}
	return []Violation{l.violation("SQL006", SeverityWarning,
		fmt.Sprintf("%s without WHERE affects every row in the table", l.kind))}
}

// SQL007: comment sequences inside a submitted statement are a common
// injection artifact.
func (l *Linter) checkCommentSequences() []Violation {
	if !strings.Contains(l.sql, "--") && !strings.Contains(l.sql, "/*") {
		return nil
	}
	return []Violation{l.violation("SQL007", SeverityWarning,
		"statement contains a comment sequence (-- or /*)")}
}

// SQL008: one statement per submission; anything after a top-level
// semicolon is never executed.
func (l *Linter) checkSingleStatement() []Violation {
	inQuote := false
	for i := 0; i < len(l.sql); i++ {
		switch {
		case l.sql[i] == '\'':
			inQuote = !inQuote
		case inQuote:
		case l.sql[i] == ';':
			if strings.TrimSpace(l.sql[i+1:]) != "" {
				return []Violation{l.violation("SQL008", SeverityWarning,
					"multiple statements in one submission; only the first is honored")}
			}
		}
	}
	return nil
}
