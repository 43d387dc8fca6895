// Package queryir defines the intermediate representation a visual query
// builder exchanges with the SQL generator and parser.
//
// The IR is pure data: tables, joins, selected columns, a recursive boolean
// filter tree, grouping, ordering, pagination, CTEs, and set operations.
// Every cross-reference between entities is by caller-assigned table id, so
// the structure survives serialization unchanged. Nothing in this package
// mutates a Query; the generator, parser, and validator all treat it as
// read-only input.
package queryir

// StatementKind classifies the statement a Query was reconstructed from.
type StatementKind string

// KindSelect and friends classify SQL statements by their leading keyword.
const (
	KindSelect   StatementKind = "SELECT"
	KindInsert   StatementKind = "INSERT"
	KindUpdate   StatementKind = "UPDATE"
	KindDelete   StatementKind = "DELETE"
	KindCreate   StatementKind = "CREATE"
	KindAlter    StatementKind = "ALTER"
	KindDrop     StatementKind = "DROP"
	KindTruncate StatementKind = "TRUNCATE"
	KindUnknown  StatementKind = "UNKNOWN"
)

// TableRef identifies one table participating in a query. The id is
// caller-assigned, opaque, and unique within the query; joins, columns, and
// filters reference tables only by id.
type TableRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
}

// SQLRef returns the token other clauses use to qualify this table's
// columns: the alias when set, the table name otherwise.
func (t TableRef) SQLRef() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// AggregateFunc names an aggregate applied to a selected column.
type AggregateFunc string

// AggCount and friends are the aggregate functions the builder offers.
// AggCountDistinct is the two-token COUNT(DISTINCT col) form.
const (
	AggCount         AggregateFunc = "COUNT"
	AggCountDistinct AggregateFunc = "COUNT_DISTINCT"
	AggSum           AggregateFunc = "SUM"
	AggAvg           AggregateFunc = "AVG"
	AggMin           AggregateFunc = "MIN"
	AggMax           AggregateFunc = "MAX"
)

// SelectedColumn is one entry of the SELECT list. Expression, when set,
// overrides normal column formatting and is emitted verbatim.
type SelectedColumn struct {
	TableID    string        `json:"tableId,omitempty"`
	Column     string        `json:"columnName,omitempty"`
	Alias      string        `json:"alias,omitempty"`
	Aggregate  AggregateFunc `json:"aggregateFunction,omitempty"`
	Expression string        `json:"expression,omitempty"`
}

// GroupByColumn is one grouping key.
type GroupByColumn struct {
	TableID string `json:"tableId,omitempty"`
	Column  string `json:"columnName"`
}

// GroupByClause carries the grouping keys and an optional HAVING tree.
type GroupByClause struct {
	Columns []GroupByColumn `json:"columns"`
	Having  FilterNode      `json:"having,omitempty"`
}

// SortDirection is ASC or DESC.
type SortDirection string

// SortAsc and SortDesc are the two sort directions.
const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// OrderByClause is one ORDER BY key.
type OrderByClause struct {
	TableID   string        `json:"tableId,omitempty"`
	Column    string        `json:"columnName"`
	Direction SortDirection `json:"direction,omitempty"`
}

// CTE is a named sub-query rendered into the WITH clause.
type CTE struct {
	Name  string `json:"name"`
	Query *Query `json:"query"`
}

// SetOpKind names a set operation combining two queries.
type SetOpKind string

// SetOpUnion and friends are the supported set operations.
const (
	SetOpUnion     SetOpKind = "UNION"
	SetOpUnionAll  SetOpKind = "UNION ALL"
	SetOpIntersect SetOpKind = "INTERSECT"
	SetOpExcept    SetOpKind = "EXCEPT"
)

// Union attaches a further query to the root via a set operation.
type Union struct {
	Kind  SetOpKind `json:"kind"`
	Query *Query    `json:"query"`
}

// RawStatement holds the coarse fragments the parser extracts from
// non-SELECT statements. Fragments are raw text, not reconstructed IR.
type RawStatement struct {
	Table       string   `json:"table,omitempty"`
	Columns     []string `json:"columns,omitempty"`
	Values      []string `json:"values,omitempty"`
	Assignments []string `json:"assignments,omitempty"`
	Where       string   `json:"where,omitempty"`
}

// Query is the aggregate root of the IR. CTEs and Unions embed further
// Queries, making the structure recursive. A zero Kind means SELECT.
type Query struct {
	Kind            StatementKind    `json:"kind,omitempty"`
	Tables          []TableRef       `json:"tables"`
	Joins           []Join           `json:"joins,omitempty"`
	SelectedColumns []SelectedColumn `json:"selectedColumns,omitempty"`
	Filters         *Group           `json:"filters,omitempty"`
	GroupBy         *GroupByClause   `json:"groupBy,omitempty"`
	OrderBy         []OrderByClause  `json:"orderBy,omitempty"`
	Limit           *int             `json:"limit,omitempty"`
	Offset          *int             `json:"offset,omitempty"`
	Distinct        bool             `json:"distinct,omitempty"`
	CTEs            []CTE            `json:"ctes,omitempty"`
	Unions          []Union          `json:"unions,omitempty"`
	Raw             *RawStatement    `json:"raw,omitempty"`
}

// TableByID resolves a table id against the query's table list.
func (q *Query) TableByID(id string) (TableRef, bool) {
	for _, t := range q.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return TableRef{}, false
}

// Anchor returns the first table, the only one eligible for a bare FROM
// reference.
func (q *Query) Anchor() (TableRef, bool) {
	if len(q.Tables) == 0 {
		return TableRef{}, false
	}
	return q.Tables[0], true
}
