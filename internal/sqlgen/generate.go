// Package sqlgen renders the visual-builder IR to SQL text.
//
// Generation is deterministic and pure: clause order is fixed (CTEs, SELECT,
// FROM, JOINs, WHERE, GROUP BY with HAVING, set operations, ORDER BY,
// pagination), clauses are joined by newlines, and only the pagination
// clause varies by dialect. Malformed input degrades instead of failing:
// unresolved table references drop the affected fragment, and the single
// fatal case is a query with no tables at all.
package sqlgen

import (
	"strings"

	"querycanvas/internal/domain"
	"querycanvas/internal/queryir"
)

// Generate renders q to SQL for the given dialect. It returns a
// *domain.ValidationError when the query names no tables; every other
// defect degrades to a best-effort rendering. The input is never mutated.
func Generate(q *queryir.Query, dialect Dialect) (string, error) {
	if q == nil || len(q.Tables) == 0 {
		return "", domain.ErrValidation("no tables to generate FROM clause")
	}
	g := &generator{q: q, dialect: dialect, limits: limitStrategyFor(dialect)}
	return g.render(), nil
}

type generator struct {
	q       *queryir.Query
	dialect Dialect
	limits  limitStrategy
}

func (g *generator) render() string {
	var clauses []string
	if cte := g.cteClause(); cte != "" {
		clauses = append(clauses, cte)
	}
	clauses = append(clauses, g.selectClause(), g.fromClause())
	clauses = append(clauses, g.joinClauses()...)
	if where := g.whereClause(); where != "" {
		clauses = append(clauses, where)
	}
	if groupBy := g.groupByClause(); groupBy != "" {
		clauses = append(clauses, groupBy)
		if having := g.havingClause(); having != "" {
			clauses = append(clauses, having)
		}
	}
	clauses = append(clauses, g.unionClauses()...)
	if orderBy := g.orderByClause(); orderBy != "" {
		clauses = append(clauses, orderBy)
	}
	if page := g.limits.render(g.q.Limit, g.q.Offset); page != "" {
		clauses = append(clauses, page)
	}
	return strings.Join(clauses, "\n")
}

func (g *generator) cteClause() string {
	var parts []string
	for _, cte := range g.q.CTEs {
		if cte.Name == "" || cte.Query == nil {
			continue
		}
		sub, err := Generate(cte.Query, g.dialect)
		if err != nil {
			continue
		}
		parts = append(parts, cte.Name+" AS ("+sub+")")
	}
	if len(parts) == 0 {
		return ""
	}
	return "WITH " + strings.Join(parts, ", ")
}

func (g *generator) selectClause() string {
	sb := strings.Builder{}
	sb.WriteString("SELECT ")
	if g.q.Distinct {
		sb.WriteString("DISTINCT ")
	}

	var items []string
	for _, col := range g.q.SelectedColumns {
		if item, ok := g.selectItem(col); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(items, ", "))
	}
	return sb.String()
}

func (g *generator) selectItem(col queryir.SelectedColumn) (string, bool) {
	var item string
	switch {
	case col.Expression != "":
		item = col.Expression
	default:
		ref := col.Column
		if col.TableID != "" {
			t, ok := g.q.TableByID(col.TableID)
			if !ok {
				return "", false
			}
			ref = t.SQLRef() + "." + col.Column
		}
		switch {
		case col.Aggregate == queryir.AggCountDistinct:
			item = "COUNT(DISTINCT " + ref + ")"
		case col.Aggregate != "":
			item = string(col.Aggregate) + "(" + ref + ")"
		default:
			item = ref
		}
	}
	if col.Alias != "" {
		item += " AS " + col.Alias
	}
	return item, true
}

// fromClause names only the anchor table; every other table arrives via an
// explicit join.
func (g *generator) fromClause() string {
	anchor := g.q.Tables[0]
	clause := "FROM " + anchor.Name
	if anchor.Alias != "" {
		clause += " AS " + anchor.Alias
	}
	return clause
}

func (g *generator) joinClauses() []string {
	var clauses []string
	for _, join := range g.q.Joins {
		from, ok := g.q.TableByID(join.FromTableID)
		if !ok {
			continue
		}
		to, ok := g.q.TableByID(join.ToTableID)
		if !ok {
			continue
		}

		joinType := join.Type
		if joinType == "" {
			joinType = queryir.JoinInner
		}
		sb := strings.Builder{}
		sb.WriteString(string(joinType))
		sb.WriteString(" JOIN ")
		sb.WriteString(to.Name)
		if to.Alias != "" {
			sb.WriteString(" AS " + to.Alias)
		}

		var conds []string
		for _, c := range join.Conditions {
			op := c.Operator
			if op == "" {
				op = "="
			}
			conds = append(conds, from.SQLRef()+"."+c.FromColumn+" "+op+" "+to.SQLRef()+"."+c.ToColumn)
		}
		if len(conds) > 0 {
			sb.WriteString(" ON " + strings.Join(conds, " AND "))
		}
		clauses = append(clauses, sb.String())
	}
	return clauses
}

func (g *generator) whereClause() string {
	if g.q.Filters == nil || len(g.q.Filters.Children) == 0 {
		return ""
	}
	rendered := g.renderFilter(g.q.Filters)
	if rendered == "" {
		return ""
	}
	return "WHERE " + rendered
}

// renderFilter walks the tree: nested groups parenthesize, siblings join
// with the group operator, and unrenderable nodes drop out silently.
func (g *generator) renderFilter(node queryir.FilterNode) string {
	switch n := node.(type) {
	case *queryir.Group:
		var parts []string
		for _, child := range n.Children {
			rendered := g.renderFilter(child)
			if rendered == "" {
				continue
			}
			if _, nested := child.(*queryir.Group); nested {
				rendered = "(" + rendered + ")"
			}
			parts = append(parts, rendered)
		}
		op := n.Op
		if op == "" {
			op = queryir.BoolAnd
		}
		return strings.Join(parts, " "+string(op)+" ")
	case *queryir.Condition:
		return g.renderCondition(n)
	default:
		return ""
	}
}

func (g *generator) renderCondition(c *queryir.Condition) string {
	col := c.Column
	if c.TableID != "" {
		t, ok := g.q.TableByID(c.TableID)
		if !ok {
			return ""
		}
		col = t.SQLRef() + "." + c.Column
	}
	op := c.Operator
	if op == "" {
		op = queryir.OpEq
	}
	switch op {
	case queryir.OpIsNull, queryir.OpIsNotNull:
		return col + " " + string(op)
	case queryir.OpBetween, queryir.OpNotBetween:
		return col + " " + string(op) + " " + formatValue(c.Value) + " AND " + formatValue(c.Value2)
	case queryir.OpIn, queryir.OpNotIn:
		return col + " " + string(op) + " (" + formatInList(c.Value) + ")"
	default:
		return col + " " + string(op) + " " + formatValue(c.Value)
	}
}

func (g *generator) groupByClause() string {
	if g.q.GroupBy == nil || len(g.q.GroupBy.Columns) == 0 {
		return ""
	}
	var cols []string
	for _, col := range g.q.GroupBy.Columns {
		ref := col.Column
		if col.TableID != "" {
			t, ok := g.q.TableByID(col.TableID)
			if !ok {
				continue
			}
			ref = t.SQLRef() + "." + col.Column
		}
		cols = append(cols, ref)
	}
	if len(cols) == 0 {
		return ""
	}
	return "GROUP BY " + strings.Join(cols, ", ")
}

func (g *generator) havingClause() string {
	if g.q.GroupBy == nil || g.q.GroupBy.Having == nil {
		return ""
	}
	rendered := g.renderFilter(g.q.GroupBy.Having)
	if rendered == "" {
		return ""
	}
	return "HAVING " + rendered
}

func (g *generator) unionClauses() []string {
	var clauses []string
	for _, u := range g.q.Unions {
		if u.Query == nil {
			continue
		}
		sub, err := Generate(u.Query, g.dialect)
		if err != nil {
			continue
		}
		kind := u.Kind
		if kind == "" {
			kind = queryir.SetOpUnion
		}
		clauses = append(clauses, string(kind), sub)
	}
	return clauses
}

func (g *generator) orderByClause() string {
	var keys []string
	for _, o := range g.q.OrderBy {
		ref := o.Column
		if o.TableID != "" {
			t, ok := g.q.TableByID(o.TableID)
			if !ok {
				continue
			}
			ref = t.SQLRef() + "." + o.Column
		}
		dir := o.Direction
		if dir == "" {
			dir = queryir.SortAsc
		}
		keys = append(keys, ref+" "+string(dir))
	}
	if len(keys) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(keys, ", ")
}
