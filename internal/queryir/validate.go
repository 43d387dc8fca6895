package queryir

import "fmt"

// Result is the outcome of Validate. Errors holds one string per finding.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks a query's structural sanity: at least one table, joins
// whose table ids resolve and carry at least one condition, a non-empty
// column list on any GROUP BY, and table references that resolve wherever
// the generator would otherwise degrade silently. An empty selected-column
// list is not an error (it renders as SELECT *). Validate never panics and
// never mutates its input.
func Validate(q *Query) Result {
	var errs []string
	if q == nil {
		return Result{Valid: false, Errors: []string{"query must include at least one table"}}
	}
	if len(q.Tables) == 0 {
		errs = append(errs, "query must include at least one table")
	}

	for i, j := range q.Joins {
		label := j.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if _, ok := q.TableByID(j.FromTableID); !ok {
			errs = append(errs, fmt.Sprintf("join %s: from table id %q does not resolve", label, j.FromTableID))
		}
		if _, ok := q.TableByID(j.ToTableID); !ok {
			errs = append(errs, fmt.Sprintf("join %s: to table id %q does not resolve", label, j.ToTableID))
		}
		if len(j.Conditions) == 0 {
			errs = append(errs, fmt.Sprintf("join %s: at least one join condition is required", label))
		}
	}

	for _, c := range q.SelectedColumns {
		if c.Expression != "" {
			continue
		}
		if c.TableID != "" {
			if _, ok := q.TableByID(c.TableID); !ok {
				errs = append(errs, fmt.Sprintf("selected column %q: table id %q does not resolve", c.Column, c.TableID))
			}
		}
	}

	if q.Filters != nil {
		errs = append(errs, validateFilterTree(q, q.Filters, "filter")...)
	}

	if q.GroupBy != nil {
		if len(q.GroupBy.Columns) == 0 {
			errs = append(errs, "group by requires at least one column")
		}
		for _, c := range q.GroupBy.Columns {
			if c.TableID == "" {
				continue
			}
			if _, ok := q.TableByID(c.TableID); !ok {
				errs = append(errs, fmt.Sprintf("group by column %q: table id %q does not resolve", c.Column, c.TableID))
			}
		}
		if q.GroupBy.Having != nil {
			errs = append(errs, validateFilterTree(q, q.GroupBy.Having, "having")...)
		}
	}

	for _, o := range q.OrderBy {
		if o.TableID == "" {
			continue
		}
		if _, ok := q.TableByID(o.TableID); !ok {
			errs = append(errs, fmt.Sprintf("order by column %q: table id %q does not resolve", o.Column, o.TableID))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func validateFilterTree(q *Query, node FilterNode, clause string) []string {
	var errs []string
	switch n := node.(type) {
	case *Condition:
		if n.TableID != "" {
			if _, ok := q.TableByID(n.TableID); !ok {
				errs = append(errs, fmt.Sprintf("%s condition on %q: table id %q does not resolve", clause, n.Column, n.TableID))
			}
		}
		if (n.Operator == OpBetween || n.Operator == OpNotBetween) && (n.Value == nil || n.Value2 == nil) {
			errs = append(errs, fmt.Sprintf("%s condition on %q: BETWEEN requires both value and value2", clause, n.Column))
		}
	case *Group:
		for _, child := range n.Children {
			errs = append(errs, validateFilterTree(q, child, clause)...)
		}
	}
	return errs
}
