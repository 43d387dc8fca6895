package sqlparse

import (
	"regexp"
	"strings"

	"querycanvas/internal/queryir"
)

var (
	insertRE = regexp.MustCompile(`(?is)^INSERT\s+INTO\s+([A-Za-z_][\w.]*)`)
	updateRE = regexp.MustCompile(`(?is)^UPDATE\s+([A-Za-z_][\w.]*)\s+SET\s+(.+?)(?:\s+WHERE\s+(.+))?$`)
	deleteRE = regexp.MustCompile(`(?is)^DELETE\s+FROM\s+([A-Za-z_][\w.]*)(?:\s+WHERE\s+(.+))?$`)

	createRE   = regexp.MustCompile(`(?i)^CREATE\s+(?:OR\s+REPLACE\s+)?(?:TEMP(?:ORARY)?\s+)?(?:TABLE|VIEW|INDEX|SCHEMA|DATABASE)\s+(?:IF\s+NOT\s+EXISTS\s+)?([A-Za-z_][\w.]*)`)
	alterRE    = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(?:IF\s+EXISTS\s+)?([A-Za-z_][\w.]*)`)
	dropRE     = regexp.MustCompile(`(?i)^DROP\s+(?:TABLE|VIEW|INDEX|SCHEMA|DATABASE)\s+(?:IF\s+EXISTS\s+)?([A-Za-z_][\w.]*)`)
	truncateRE = regexp.MustCompile(`(?i)^TRUNCATE\s+(?:TABLE\s+)?([A-Za-z_][\w.]*)`)
)

// parseInsert extracts the target table, the optional column list, and the
// first VALUES tuple. INSERT ... SELECT leaves Values empty.
func (p *Parser) parseInsert(text string) *queryir.Query {
	q := &queryir.Query{Kind: queryir.KindInsert}
	m := insertRE.FindStringSubmatchIndex(text)
	if m == nil {
		return q
	}
	table := text[m[2]:m[3]]
	q.Tables = append(q.Tables, queryir.TableRef{ID: p.newID(), Name: table})
	raw := &queryir.RawStatement{Table: table}
	q.Raw = raw

	rest := m[1]
	if i := skipSpace(text, rest); i < len(text) && text[i] == '(' {
		if j := matchParen(text, i); j > i {
			raw.Columns = trimFields(splitTopLevel(text[i+1:j], ','))
			rest = j + 1
		}
	}
	if vi := indexTopLevelWord(text, rest, "VALUES"); vi >= 0 {
		if open := skipSpace(text, vi+len("VALUES")); open < len(text) && text[open] == '(' {
			if close := matchParen(text, open); close > open {
				raw.Values = trimFields(splitTopLevel(text[open+1:close], ','))
			}
		}
	}
	return q
}

func (p *Parser) parseUpdate(text string) *queryir.Query {
	q := &queryir.Query{Kind: queryir.KindUpdate}
	m := updateRE.FindStringSubmatch(text)
	if m == nil {
		return q
	}
	q.Tables = append(q.Tables, queryir.TableRef{ID: p.newID(), Name: m[1]})
	q.Raw = &queryir.RawStatement{
		Table:       m[1],
		Assignments: trimFields(splitTopLevel(m[2], ',')),
		Where:       strings.TrimSpace(m[3]),
	}
	return q
}

func (p *Parser) parseDelete(text string) *queryir.Query {
	q := &queryir.Query{Kind: queryir.KindDelete}
	m := deleteRE.FindStringSubmatch(text)
	if m == nil {
		return q
	}
	q.Tables = append(q.Tables, queryir.TableRef{ID: p.newID(), Name: m[1]})
	q.Raw = &queryir.RawStatement{Table: m[1], Where: strings.TrimSpace(m[2])}
	return q
}

// parseDDL captures the object name and, for CREATE statements with a
// parenthesized body, the raw column definitions.
func (p *Parser) parseDDL(kind queryir.StatementKind, text string) *queryir.Query {
	q := &queryir.Query{Kind: kind}

	var re *regexp.Regexp
	switch kind {
	case queryir.KindCreate:
		re = createRE
	case queryir.KindAlter:
		re = alterRE
	case queryir.KindDrop:
		re = dropRE
	case queryir.KindTruncate:
		re = truncateRE
	default:
		return q
	}

	m := re.FindStringSubmatchIndex(text)
	if m == nil {
		return q
	}
	name := text[m[2]:m[3]]
	q.Tables = append(q.Tables, queryir.TableRef{ID: p.newID(), Name: name})
	raw := &queryir.RawStatement{Table: name}
	q.Raw = raw

	if kind == queryir.KindCreate {
		if i := skipSpace(text, m[1]); i < len(text) && text[i] == '(' {
			if j := matchParen(text, i); j > i {
				raw.Columns = trimFields(splitTopLevel(text[i+1:j], ','))
			}
		}
	}
	return q
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}
