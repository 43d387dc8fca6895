package sqlparse

import (
	"regexp"
	"strconv"
	"strings"

	"querycanvas/internal/queryir"
)

var (
	whereRE   = regexp.MustCompile(`(?is)\bWHERE\s+(.+?)(?:\s+(?:GROUP\s+BY|HAVING|ORDER\s+BY|LIMIT|OFFSET|FETCH)\b.*)?$`)
	groupByRE = regexp.MustCompile(`(?is)\bGROUP\s+BY\s+(.+?)(?:\s+(?:HAVING|ORDER\s+BY|LIMIT|OFFSET|FETCH)\b.*)?$`)
	havingRE  = regexp.MustCompile(`(?is)\bHAVING\s+(.+?)(?:\s+(?:ORDER\s+BY|LIMIT|OFFSET|FETCH)\b.*)?$`)
	orderByRE = regexp.MustCompile(`(?is)\bORDER\s+BY\s+(.+?)(?:\s+(?:LIMIT|OFFSET|FETCH)\b.*)?$`)

	limitRE  = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)`)
	offsetRE = regexp.MustCompile(`(?i)\bOFFSET\s+(\d+)`)
	fetchRE  = regexp.MustCompile(`(?i)\bFETCH\s+(?:NEXT|FIRST)\s+(\d+)\s+ROWS?\s+ONLY`)

	// one regex covers the whole operator vocabulary; multi-word and
	// NOT-prefixed forms come first so they win over their prefixes. The
	// column group admits a single call wrapper for HAVING aggregates.
	condRE = regexp.MustCompile(`(?is)^([\w.]+(?:\([\w.*\s,]*\))?)\s*(IS\s+NOT\s+NULL|IS\s+NULL|NOT\s+BETWEEN\b|BETWEEN\b|NOT\s+IN\b|IN\b|NOT\s+LIKE\b|LIKE\b|NOT\s+EXISTS\b|EXISTS\b|!=|<>|<=|>=|=|<|>)\s*(.*)$`)

	betweenPairRE = regexp.MustCompile(`(?is)^(.+?)\s+AND\s+(.+)$`)
	orderKeyRE    = regexp.MustCompile(`(?is)^([\w.]+)(?:\s+(ASC|DESC))?$`)
)

func (p *Parser) parseWhere(text string, q *queryir.Query, lookup map[string]string) {
	m := whereRE.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if root := p.parseBooleanTree(m[1], q, lookup); root != nil {
		q.Filters = root
	}
}

// parseBooleanTree splits on top-level OR, then each branch on AND,
// yielding at most two levels: a single OR branch collapses to a root AND
// group, multiple branches form an OR root whose multi-condition branches
// become AND groups. Deeper parenthesized nesting is not reconstructed.
func (p *Parser) parseBooleanTree(body string, q *queryir.Query, lookup map[string]string) *queryir.Group {
	orParts := trimFields(splitTopLevelWord(body, "OR"))
	if len(orParts) <= 1 {
		conds := p.parseConditionList(body, q, lookup)
		if len(conds) == 0 {
			return nil
		}
		return &queryir.Group{Op: queryir.BoolAnd, Children: conds}
	}

	root := &queryir.Group{Op: queryir.BoolOr}
	for _, part := range orParts {
		conds := p.parseConditionList(part, q, lookup)
		switch len(conds) {
		case 0:
		case 1:
			root.Children = append(root.Children, conds[0])
		default:
			root.Children = append(root.Children, &queryir.Group{Op: queryir.BoolAnd, Children: conds})
		}
	}
	if len(root.Children) == 0 {
		return nil
	}
	return root
}

func (p *Parser) parseConditionList(part string, q *queryir.Query, lookup map[string]string) []queryir.FilterNode {
	frags := trimFields(splitTopLevelWord(stripOuterParens(part), "AND"))
	var out []queryir.FilterNode
	for i := 0; i < len(frags); i++ {
		frag := frags[i]
		// the AND split severs BETWEEN pairs; stitch the upper bound back on
		if indexTopLevelWord(frag, 0, "BETWEEN") >= 0 && i+1 < len(frags) {
			i++
			frag = frag + " AND " + frags[i]
		}
		if c := p.parseCondition(frag, q, lookup); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// parseCondition matches one comparison fragment. Unmatched fragments are
// dropped, never reported.
func (p *Parser) parseCondition(frag string, q *queryir.Query, lookup map[string]string) *queryir.Condition {
	m := condRE.FindStringSubmatch(stripOuterParens(frag))
	if m == nil {
		return nil
	}

	tableID, column := resolveColumn(m[1], q, lookup)
	op := queryir.Operator(strings.Join(strings.Fields(strings.ToUpper(m[2])), " "))
	cond := &queryir.Condition{TableID: tableID, Column: column, Operator: op}

	rest := strings.TrimSpace(m[3])
	switch op {
	case queryir.OpIsNull, queryir.OpIsNotNull:
	case queryir.OpBetween, queryir.OpNotBetween:
		if bm := betweenPairRE.FindStringSubmatch(rest); bm != nil {
			cond.Value = literalValue(strings.TrimSpace(bm[1]))
			cond.Value2 = literalValue(strings.TrimSpace(bm[2]))
		} else {
			cond.Value = literalValue(rest)
		}
	case queryir.OpIn, queryir.OpNotIn:
		cond.Value = stripListParens(rest)
	case queryir.OpExists, queryir.OpNotExists:
		cond.Value = rest
	default:
		cond.Value = literalValue(rest)
	}
	return cond
}

// resolveColumn maps a possibly qualified token onto (tableId, column).
// Unqualified tokens fall back to the anchor table; unknown qualifiers and
// call expressions keep the token verbatim with no table id so they
// re-render unchanged.
func resolveColumn(token string, q *queryir.Query, lookup map[string]string) (string, string) {
	if strings.ContainsAny(token, "()") {
		return "", token
	}
	qual, col := splitQualified(token)
	if qual == "" {
		return anchorID(q), col
	}
	if id, ok := lookup[strings.ToLower(qual)]; ok {
		return id, col
	}
	return "", token
}

// literalValue applies light typing to a scalar literal: quoted strings are
// unquoted and undoubled, integers and floats become numbers, TRUE/FALSE
// become booleans, NULL becomes nil. Everything else stays raw text.
func literalValue(s string) any {
	if s == "" {
		return nil
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	case "NULL":
		return nil
	}
	return s
}

// stripListParens unwraps an IN list to its raw inner text. The list is
// not split into typed elements.
func stripListParens(s string) string {
	if len(s) >= 2 && s[0] == '(' && matchParen(s, 0) == len(s)-1 {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func (p *Parser) parseGroupBy(text string, q *queryir.Query, lookup map[string]string) {
	var gb *queryir.GroupByClause
	if m := groupByRE.FindStringSubmatch(text); m != nil {
		gb = &queryir.GroupByClause{}
		for _, item := range trimFields(splitTopLevel(m[1], ',')) {
			tableID, column := "", item
			if !strings.ContainsAny(item, " ()") {
				tableID, column = resolveColumn(item, q, lookup)
			}
			gb.Columns = append(gb.Columns, queryir.GroupByColumn{TableID: tableID, Column: column})
		}
	}
	if m := havingRE.FindStringSubmatch(text); m != nil {
		if tree := p.parseBooleanTree(m[1], q, lookup); tree != nil {
			if gb == nil {
				gb = &queryir.GroupByClause{}
			}
			gb.Having = tree
		}
	}
	if gb != nil {
		q.GroupBy = gb
	}
}

func (p *Parser) parseOrderBy(text string, q *queryir.Query, lookup map[string]string) {
	m := orderByRE.FindStringSubmatch(text)
	if m == nil {
		return
	}
	for _, item := range trimFields(splitTopLevel(m[1], ',')) {
		km := orderKeyRE.FindStringSubmatch(item)
		if km == nil {
			continue
		}
		tableID, column := resolveColumn(km[1], q, lookup)
		dir := queryir.SortAsc
		if strings.EqualFold(km[2], "DESC") {
			dir = queryir.SortDesc
		}
		q.OrderBy = append(q.OrderBy, queryir.OrderByClause{TableID: tableID, Column: column, Direction: dir})
	}
}

func parsePagination(text string, q *queryir.Query) {
	if m := limitRE.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.Limit = &n
		}
	} else if m := fetchRE.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.Limit = &n
		}
	}
	if m := offsetRE.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.Offset = &n
		}
	}
}
