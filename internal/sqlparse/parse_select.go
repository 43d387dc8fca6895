package sqlparse

import (
	"regexp"
	"strings"

	"querycanvas/internal/queryir"
)

var (
	cteHeadRE = regexp.MustCompile(`(?i)^\s*WITH\s+(?:RECURSIVE\s+)?`)
	cteDefRE  = regexp.MustCompile(`(?i)^\s*([A-Za-z_]\w*)\s+AS\s*\(`)

	fromRE = regexp.MustCompile(`(?i)\bFROM\s+([A-Za-z_][\w.]*)(?:\s+(?:AS\s+)?([A-Za-z_]\w*))?`)
	joinRE = regexp.MustCompile(`(?i)\b(?:((?:LEFT|RIGHT|FULL)(?:\s+OUTER)?|(?:LEFT|RIGHT)\s+(?:ANTI|SEMI)|INNER|CROSS|SELF|NATURAL)\s+)?JOIN\s+([A-Za-z_][\w.]*)(?:\s+(?:AS\s+)?([A-Za-z_]\w*))?`)

	onFirstCondRE = regexp.MustCompile(`(?i)^\s*ON\s+([\w.]+)\s*(=|!=|<>|<=|>=|<|>)\s*([\w.]+)`)
	onAndCondRE   = regexp.MustCompile(`(?i)^\s+AND\s+([\w.]+)\s*(=|!=|<>|<=|>=|<|>)\s*([\w.]+)`)

	selectListRE    = regexp.MustCompile(`(?is)^\s*SELECT\s+(DISTINCT\s+)?(.+?)(?:\s+FROM\b.*)?$`)
	aggItemRE       = regexp.MustCompile(`(?i)^(\w+)\s*\(\s*(DISTINCT\s+)?([\w.*]+)\s*\)(?:\s+(?:AS\s+)?([A-Za-z_]\w*))?$`)
	qualifiedItemRE = regexp.MustCompile(`(?i)^([A-Za-z_]\w*)\.([A-Za-z_]\w*|\*)(?:\s+(?:AS\s+)?([A-Za-z_]\w*))?$`)
	bareItemRE      = regexp.MustCompile(`(?i)^([A-Za-z_]\w*)(?:\s+(?:AS\s+)?([A-Za-z_]\w*))?$`)
)

// reservedAlias guards the optional alias captures: these words following a
// table name are clauses, not aliases.
var reservedAlias = map[string]struct{}{
	"on": {}, "where": {}, "join": {}, "inner": {}, "left": {}, "right": {},
	"full": {}, "cross": {}, "natural": {}, "self": {}, "group": {},
	"order": {}, "having": {}, "limit": {}, "offset": {}, "fetch": {},
	"union": {}, "intersect": {}, "except": {}, "and": {}, "or": {},
	"as": {}, "set": {}, "values": {},
}

func isReservedAlias(alias string) bool {
	_, ok := reservedAlias[strings.ToLower(alias)]
	return ok
}

func (p *Parser) parseSelect(text string) *queryir.Query {
	ctes, rest := p.extractCTEs(text)
	segments := splitSetOps(rest)

	q := p.parseSelectCore(segments[0].text)
	q.CTEs = ctes
	for _, seg := range segments[1:] {
		sub := p.parseSelectCore(seg.text)
		q.Unions = append(q.Unions, queryir.Union{Kind: seg.kind, Query: sub})
	}
	return q
}

// extractCTEs slices leading WITH definitions off the text by balanced-paren
// scan and parses each body recursively. A malformed WITH clause leaves the
// text untouched.
func (p *Parser) extractCTEs(text string) ([]queryir.CTE, string) {
	head := cteHeadRE.FindString(text)
	if head == "" {
		return nil, text
	}
	var ctes []queryir.CTE
	pos := len(head)
	for {
		m := cteDefRE.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			return nil, text
		}
		name := text[pos+m[2] : pos+m[3]]
		open := pos + m[1] - 1
		closing := matchParen(text, open)
		if closing < 0 {
			return nil, text
		}
		ctes = append(ctes, queryir.CTE{Name: name, Query: p.Parse(text[open+1 : closing])})

		rest := strings.TrimLeft(text[closing+1:], " \t\r\n")
		if strings.HasPrefix(rest, ",") {
			pos = len(text) - len(rest) + 1
			continue
		}
		return ctes, rest
	}
}

type setOpSegment struct {
	kind queryir.SetOpKind
	text string
}

var setOpWords = []struct {
	word string
	kind queryir.SetOpKind
}{
	{"UNION ALL", queryir.SetOpUnionAll},
	{"UNION", queryir.SetOpUnion},
	{"INTERSECT", queryir.SetOpIntersect},
	{"EXCEPT", queryir.SetOpExcept},
}

// splitSetOps cuts the text at top-level set-operation keywords. The first
// segment is the main query and carries an empty kind.
func splitSetOps(s string) []setOpSegment {
	var segs []setOpSegment
	depth, inQuote, start := 0, false, 0
	kind := queryir.SetOpKind("")
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth != 0 {
				continue
			}
			for _, op := range setOpWords {
				if wordAt(s, i, op.word) {
					segs = append(segs, setOpSegment{kind: kind, text: s[start:i]})
					kind = op.kind
					i += len(op.word) - 1
					start = i + 1
					break
				}
			}
		}
	}
	return append(segs, setOpSegment{kind: kind, text: s[start:]})
}

// parseSelectCore runs the extraction steps in their required order: FROM
// first to seed the lookup, joins next so later steps see every table, then
// the SELECT list, WHERE, and the trailing clauses.
func (p *Parser) parseSelectCore(text string) *queryir.Query {
	q := &queryir.Query{Kind: queryir.KindSelect}
	lookup := map[string]string{}

	p.parseFrom(text, q, lookup)
	p.parseJoins(text, q, lookup)
	p.parseSelectList(text, q, lookup)
	p.parseWhere(text, q, lookup)
	p.parseGroupBy(text, q, lookup)
	p.parseOrderBy(text, q, lookup)
	parsePagination(text, q)
	return q
}

func registerTable(lookup map[string]string, id, name, alias string) {
	if name != "" {
		lookup[strings.ToLower(name)] = id
		if i := strings.LastIndex(name, "."); i >= 0 {
			lookup[strings.ToLower(name[i+1:])] = id
		}
	}
	if alias != "" {
		lookup[strings.ToLower(alias)] = id
	}
}

func (p *Parser) parseFrom(text string, q *queryir.Query, lookup map[string]string) {
	m := fromRE.FindStringSubmatch(text)
	if m == nil {
		return
	}
	name, alias := m[1], m[2]
	if isReservedAlias(alias) {
		alias = ""
	}
	id := p.newID()
	q.Tables = append(q.Tables, queryir.TableRef{ID: id, Name: name, Alias: alias})
	registerTable(lookup, id, name, alias)
}

func (p *Parser) parseJoins(text string, q *queryir.Query, lookup map[string]string) {
	fromFallback := anchorID(q)

	for _, m := range joinRE.FindAllStringSubmatchIndex(text, -1) {
		joinType := queryir.JoinInner
		if m[2] >= 0 {
			joinType = queryir.ParseJoinType(text[m[2]:m[3]])
		}
		name := text[m[4]:m[5]]
		alias := ""
		scanFrom := m[1]
		if m[6] >= 0 {
			alias = text[m[6]:m[7]]
			if isReservedAlias(alias) {
				// the capture ate a clause keyword such as ON; rescan from it
				alias = ""
				scanFrom = m[6]
			}
		}

		id := p.newID()
		q.Tables = append(q.Tables, queryir.TableRef{ID: id, Name: name, Alias: alias})
		registerTable(lookup, id, name, alias)

		join := queryir.Join{ID: p.newID(), FromTableID: fromFallback, ToTableID: id, Type: joinType}

		rest := text[scanFrom:]
		if mi := onFirstCondRE.FindStringSubmatchIndex(rest); mi != nil {
			leftQual, _ := splitQualified(rest[mi[2]:mi[3]])
			if leftQual != "" {
				if fromID, ok := lookup[strings.ToLower(leftQual)]; ok {
					join.FromTableID = fromID
				}
			}
			join.Conditions = append(join.Conditions, joinCondition(rest, mi))
			rest = rest[mi[1]:]
			for {
				mi = onAndCondRE.FindStringSubmatchIndex(rest)
				if mi == nil {
					break
				}
				join.Conditions = append(join.Conditions, joinCondition(rest, mi))
				rest = rest[mi[1]:]
			}
		}
		q.Joins = append(q.Joins, join)
	}
}

func joinCondition(s string, mi []int) queryir.JoinCondition {
	_, fromCol := splitQualified(s[mi[2]:mi[3]])
	_, toCol := splitQualified(s[mi[6]:mi[7]])
	return queryir.JoinCondition{FromColumn: fromCol, ToColumn: toCol, Operator: s[mi[4]:mi[5]]}
}

func (p *Parser) parseSelectList(text string, q *queryir.Query, lookup map[string]string) {
	m := selectListRE.FindStringSubmatch(text)
	if m == nil {
		return
	}
	q.Distinct = m[1] != ""
	for _, item := range trimFields(splitTopLevel(m[2], ',')) {
		if item == "*" {
			// SELECT *: every table fully selected, selectedColumns stays empty
			continue
		}
		q.SelectedColumns = append(q.SelectedColumns, p.selectItem(item, q, lookup))
	}
}

func (p *Parser) selectItem(item string, q *queryir.Query, lookup map[string]string) queryir.SelectedColumn {
	if m := aggItemRE.FindStringSubmatch(item); m != nil {
		if agg, ok := aggregateFor(m[1], m[2] != ""); ok {
			col := queryir.SelectedColumn{Aggregate: agg, Alias: m[4]}
			inner := m[3]
			if inner == "*" {
				col.Column = "*"
				return col
			}
			qual, name := splitQualified(inner)
			if qual == "" {
				col.TableID, col.Column = anchorID(q), name
				return col
			}
			if id, ok := lookup[strings.ToLower(qual)]; ok {
				col.TableID, col.Column = id, name
				return col
			}
			return queryir.SelectedColumn{Expression: item}
		}
		return queryir.SelectedColumn{Expression: item}
	}

	if m := qualifiedItemRE.FindStringSubmatch(item); m != nil {
		if id, ok := lookup[strings.ToLower(m[1])]; ok && m[2] != "*" {
			return queryir.SelectedColumn{TableID: id, Column: m[2], Alias: m[3]}
		}
		return queryir.SelectedColumn{Expression: item}
	}

	if m := bareItemRE.FindStringSubmatch(item); m != nil {
		return queryir.SelectedColumn{TableID: anchorID(q), Column: m[1], Alias: m[2]}
	}

	// anything the item regexes cannot shape survives verbatim
	return queryir.SelectedColumn{Expression: item}
}

func anchorID(q *queryir.Query) string {
	if anchor, ok := q.Anchor(); ok {
		return anchor.ID
	}
	return ""
}

func aggregateFor(name string, distinct bool) (queryir.AggregateFunc, bool) {
	switch strings.ToUpper(name) {
	case "COUNT":
		if distinct {
			return queryir.AggCountDistinct, true
		}
		return queryir.AggCount, true
	case "SUM", "AVG", "MIN", "MAX":
		if distinct {
			return "", false
		}
		return queryir.AggregateFunc(strings.ToUpper(name)), true
	default:
		return "", false
	}
}
