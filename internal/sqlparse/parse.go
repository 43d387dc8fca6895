// Package sqlparse reconstructs visual-builder IR from raw SQL text.
//
// The parser is a heuristic, regex-driven extractor, not a grammar: it
// handles one statement at a time, rebuilds a full Query only for SELECT,
// reconstructs at most two levels of boolean nesting in WHERE, and has no
// comment or quoted-identifier awareness. These bounds are deliberate; the
// extractor favors always producing something over exact fidelity, and it
// is total: any input, however malformed, yields a Query and never an
// error. Statement kinds other than SELECT are classified by their leading
// keyword and produce the target table plus raw fragments.
package sqlparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"querycanvas/internal/queryir"
)

// IDSource produces synthetic ids for tables reconstructed from text. Ids
// must never collide across independent calls unless the caller wants them
// to (a sequential source is handy in tests and diffs).
type IDSource func() string

// UUIDSource returns an IDSource backed by random UUIDs, the default.
func UUIDSource() IDSource {
	return uuid.NewString
}

// SequentialSource returns a deterministic source: prefix1, prefix2, ...
func SequentialSource(prefix string) IDSource {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

// Parser reconstructs queries from SQL text. The zero value is not usable;
// construct with New.
type Parser struct {
	newID IDSource
}

// Option configures a Parser.
type Option func(*Parser)

// WithIDSource overrides the synthetic table id source.
func WithIDSource(src IDSource) Option {
	return func(p *Parser) { p.newID = src }
}

// New builds a Parser. Without options, table ids are random UUIDs.
func New(opts ...Option) *Parser {
	p := &Parser{newID: UUIDSource()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reconstructs a best-effort Query from sql using a UUID id source.
func Parse(sql string) *queryir.Query {
	return New().Parse(sql)
}

var leadingKeywordRE = regexp.MustCompile(`(?i)^\s*([A-Za-z]+)`)

// Classify reports the statement kind from the leading keyword. A WITH
// prefix classifies as SELECT.
func Classify(sql string) queryir.StatementKind {
	m := leadingKeywordRE.FindStringSubmatch(sql)
	if m == nil {
		return queryir.KindUnknown
	}
	switch strings.ToUpper(m[1]) {
	case "SELECT", "WITH":
		return queryir.KindSelect
	case "INSERT":
		return queryir.KindInsert
	case "UPDATE":
		return queryir.KindUpdate
	case "DELETE":
		return queryir.KindDelete
	case "CREATE":
		return queryir.KindCreate
	case "ALTER":
		return queryir.KindAlter
	case "DROP":
		return queryir.KindDrop
	case "TRUNCATE":
		return queryir.KindTruncate
	default:
		return queryir.KindUnknown
	}
}

// Parse reconstructs a best-effort Query from sql. It never returns an
// error: unmatched fragments leave the corresponding IR fields empty.
func (p *Parser) Parse(sql string) *queryir.Query {
	text := strings.TrimSpace(sql)
	kind := Classify(text)
	switch kind {
	case queryir.KindSelect:
		return p.parseSelect(text)
	case queryir.KindInsert:
		return p.parseInsert(text)
	case queryir.KindUpdate:
		return p.parseUpdate(text)
	case queryir.KindDelete:
		return p.parseDelete(text)
	case queryir.KindCreate, queryir.KindAlter, queryir.KindDrop, queryir.KindTruncate:
		return p.parseDDL(kind, text)
	default:
		return &queryir.Query{Kind: queryir.KindUnknown}
	}
}
