package sqlparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querycanvas/internal/queryir"
	"querycanvas/internal/sqlgen"
)

func newTestParser() *Parser {
	return New(WithIDSource(SequentialSource("t")))
}

// === Classification ===

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want queryir.StatementKind
	}{
		{"select", "SELECT * FROM t", queryir.KindSelect},
		{"with_prefix", "WITH x AS (SELECT 1) SELECT * FROM x", queryir.KindSelect},
		{"insert", "INSERT INTO t VALUES (1)", queryir.KindInsert},
		{"update_lowercase", "update t set a = 1", queryir.KindUpdate},
		{"delete", "DELETE FROM t", queryir.KindDelete},
		{"create", "CREATE TABLE t (id INT)", queryir.KindCreate},
		{"alter", "ALTER TABLE t ADD COLUMN x INT", queryir.KindAlter},
		{"drop", "DROP TABLE t", queryir.KindDrop},
		{"truncate", "TRUNCATE t", queryir.KindTruncate},
		{"leading_whitespace", "  \n\tSELECT 1", queryir.KindSelect},
		{"garbage", "hello world", queryir.KindUnknown},
		{"empty", "", queryir.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sql))
		})
	}
}

// === Tables and joins ===

func TestParse_SingleTableWithAlias(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM users u")

	require.Len(t, q.Tables, 1)
	assert.Equal(t, queryir.TableRef{ID: "t1", Name: "users", Alias: "u"}, q.Tables[0])
	assert.Empty(t, q.SelectedColumns)
	assert.Equal(t, queryir.KindSelect, q.Kind)
}

func TestParse_AliasWithASKeyword(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM users AS u")

	require.Len(t, q.Tables, 1)
	assert.Equal(t, "u", q.Tables[0].Alias)
}

func TestParse_ClauseKeywordNotTakenAsAlias(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM users WHERE users.id = 1")

	require.Len(t, q.Tables, 1)
	assert.Equal(t, "", q.Tables[0].Alias)
}

func TestParse_QualifiedTableName(t *testing.T) {
	q := newTestParser().Parse("SELECT e.kind FROM analytics.events e WHERE events.kind = 'click'")

	require.Len(t, q.Tables, 1)
	assert.Equal(t, "analytics.events", q.Tables[0].Name)

	// both the alias and the last name segment resolve to the table
	require.Len(t, q.SelectedColumns, 1)
	assert.Equal(t, "t1", q.SelectedColumns[0].TableID)
	cond := singleCondition(t, q)
	assert.Equal(t, "t1", cond.TableID)
	assert.Equal(t, "kind", cond.Column)
}

func TestParse_TwoTableJoin(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM orders o JOIN customers c ON o.customer_id = c.id")

	require.Len(t, q.Tables, 2)
	assert.Equal(t, queryir.TableRef{ID: "t1", Name: "orders", Alias: "o"}, q.Tables[0])
	assert.Equal(t, queryir.TableRef{ID: "t2", Name: "customers", Alias: "c"}, q.Tables[1])

	require.Len(t, q.Joins, 1)
	join := q.Joins[0]
	assert.Equal(t, queryir.JoinInner, join.Type)
	assert.Equal(t, "t1", join.FromTableID)
	assert.Equal(t, "t2", join.ToTableID)
	require.Len(t, join.Conditions, 1)
	assert.Equal(t, queryir.JoinCondition{FromColumn: "customer_id", ToColumn: "id", Operator: "="}, join.Conditions[0])

	assert.Empty(t, q.SelectedColumns)
}

func TestParse_JoinKeywords(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    queryir.JoinType
	}{
		{"bare", "", queryir.JoinInner},
		{"inner", "INNER ", queryir.JoinInner},
		{"left", "LEFT ", queryir.JoinLeft},
		{"left_outer", "LEFT OUTER ", queryir.JoinLeftOuter},
		{"right", "RIGHT ", queryir.JoinRight},
		{"right_outer", "RIGHT OUTER ", queryir.JoinRightOuter},
		{"full", "FULL ", queryir.JoinFull},
		{"full_outer", "FULL OUTER ", queryir.JoinFullOuter},
		{"cross", "CROSS ", queryir.JoinCross},
		{"self", "SELF ", queryir.JoinSelf},
		{"natural", "NATURAL ", queryir.JoinNatural},
		{"left_anti", "LEFT ANTI ", queryir.JoinLeftAnti},
		{"right_anti", "RIGHT ANTI ", queryir.JoinRightAnti},
		{"left_semi", "LEFT SEMI ", queryir.JoinLeftSemi},
		{"right_semi", "RIGHT SEMI ", queryir.JoinRightSemi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := "SELECT * FROM a " + tt.keyword + "JOIN b ON a.x = b.x"
			q := newTestParser().Parse(sql)

			require.Len(t, q.Joins, 1)
			assert.Equal(t, tt.want, q.Joins[0].Type)
		})
	}
}

func TestParse_ChainedJoinsFollowOnClause(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM a JOIN b ON a.id = b.ak LEFT JOIN c ON b.id = c.bk")

	require.Len(t, q.Tables, 3)
	require.Len(t, q.Joins, 2)

	// the second join hangs off b, not the anchor, because its ON clause
	// names b on the left side
	assert.Equal(t, q.Tables[0].ID, q.Joins[0].FromTableID)
	assert.Equal(t, q.Tables[1].ID, q.Joins[0].ToTableID)
	assert.Equal(t, q.Tables[1].ID, q.Joins[1].FromTableID)
	assert.Equal(t, q.Tables[2].ID, q.Joins[1].ToTableID)
	assert.Equal(t, queryir.JoinLeft, q.Joins[1].Type)
}

func TestParse_JoinWithoutOnClause(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM a CROSS JOIN b")

	require.Len(t, q.Joins, 1)
	assert.Equal(t, queryir.JoinCross, q.Joins[0].Type)
	assert.Empty(t, q.Joins[0].Conditions)
	assert.Equal(t, "t1", q.Joins[0].FromTableID)
	assert.Equal(t, "t2", q.Joins[0].ToTableID)
}

func TestParse_JoinMultipleOnConditions(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM a JOIN b ON a.x = b.x AND a.y != b.y")

	require.Len(t, q.Joins, 1)
	require.Len(t, q.Joins[0].Conditions, 2)
	assert.Equal(t, queryir.JoinCondition{FromColumn: "x", ToColumn: "x", Operator: "="}, q.Joins[0].Conditions[0])
	assert.Equal(t, queryir.JoinCondition{FromColumn: "y", ToColumn: "y", Operator: "!="}, q.Joins[0].Conditions[1])
}

// === Select list ===

func TestParse_SelectList(t *testing.T) {
	tests := []struct {
		name         string
		sql          string
		wantDistinct bool
		want         []queryir.SelectedColumn
	}{
		{
			name: "star_leaves_columns_empty",
			sql:  "SELECT * FROM users",
		},
		{
			name:         "distinct_single_column",
			sql:          "SELECT DISTINCT u.role FROM users u",
			wantDistinct: true,
			want:         []queryir.SelectedColumn{{TableID: "t1", Column: "role"}},
		},
		{
			name: "qualified_with_alias",
			sql:  "SELECT u.name AS display_name FROM users u",
			want: []queryir.SelectedColumn{{TableID: "t1", Column: "name", Alias: "display_name"}},
		},
		{
			name: "bare_column_binds_to_anchor",
			sql:  "SELECT name FROM users",
			want: []queryir.SelectedColumn{{TableID: "t1", Column: "name"}},
		},
		{
			name: "count_star",
			sql:  "SELECT COUNT(*) FROM users",
			want: []queryir.SelectedColumn{{Column: "*", Aggregate: queryir.AggCount}},
		},
		{
			name: "count_distinct_with_alias",
			sql:  "SELECT COUNT(DISTINCT u.id) AS n FROM users u",
			want: []queryir.SelectedColumn{{TableID: "t1", Column: "id", Aggregate: queryir.AggCountDistinct, Alias: "n"}},
		},
		{
			name: "sum",
			sql:  "SELECT SUM(o.total) FROM orders o",
			want: []queryir.SelectedColumn{{TableID: "t1", Column: "total", Aggregate: queryir.AggSum}},
		},
		{
			name: "unknown_qualifier_kept_as_expression",
			sql:  "SELECT x.name FROM users u",
			want: []queryir.SelectedColumn{{Expression: "x.name"}},
		},
		{
			name: "arithmetic_kept_as_expression",
			sql:  "SELECT price * quantity AS line_total FROM items",
			want: []queryir.SelectedColumn{{Expression: "price * quantity AS line_total"}},
		},
		{
			name: "multiple_items",
			sql:  "SELECT u.id, u.name FROM users u",
			want: []queryir.SelectedColumn{
				{TableID: "t1", Column: "id"},
				{TableID: "t1", Column: "name"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestParser().Parse(tt.sql)
			assert.Equal(t, tt.wantDistinct, q.Distinct)
			assert.Equal(t, tt.want, q.SelectedColumns)
		})
	}
}

// === CTEs and set operations ===

func TestParse_CTE(t *testing.T) {
	q := newTestParser().Parse("WITH recent AS (SELECT id FROM orders WHERE created_at > '2024-01-01') SELECT recent.id FROM recent")

	require.Len(t, q.CTEs, 1)
	cte := q.CTEs[0]
	assert.Equal(t, "recent", cte.Name)
	require.NotNil(t, cte.Query)
	require.Len(t, cte.Query.Tables, 1)
	assert.Equal(t, "orders", cte.Query.Tables[0].Name)
	require.NotNil(t, cte.Query.Filters)

	require.Len(t, q.Tables, 1)
	assert.Equal(t, "recent", q.Tables[0].Name)
	require.Len(t, q.SelectedColumns, 1)
	assert.Equal(t, q.Tables[0].ID, q.SelectedColumns[0].TableID)
}

func TestParse_CTEMultipleDefinitions(t *testing.T) {
	q := newTestParser().Parse("WITH a AS (SELECT x FROM t1), b AS (SELECT y FROM t2) SELECT * FROM a JOIN b ON a.x = b.y")

	require.Len(t, q.CTEs, 2)
	assert.Equal(t, "a", q.CTEs[0].Name)
	assert.Equal(t, "b", q.CTEs[1].Name)
	require.Len(t, q.Tables, 2)
	require.Len(t, q.Joins, 1)
}

func TestParse_CTERecursiveKeyword(t *testing.T) {
	q := newTestParser().Parse("WITH RECURSIVE tree AS (SELECT id FROM nodes) SELECT * FROM tree")

	require.Len(t, q.CTEs, 1)
	assert.Equal(t, "tree", q.CTEs[0].Name)
}

func TestParse_MalformedCTEFallsThrough(t *testing.T) {
	q := newTestParser().Parse("WITH broken AS (SELECT id FROM t")

	assert.Empty(t, q.CTEs)
	require.Len(t, q.Tables, 1)
	assert.Equal(t, "t", q.Tables[0].Name)
}

func TestParse_SetOperations(t *testing.T) {
	tests := []struct {
		name string
		op   string
		want queryir.SetOpKind
	}{
		{"union", "UNION", queryir.SetOpUnion},
		{"union_all", "UNION ALL", queryir.SetOpUnionAll},
		{"intersect", "INTERSECT", queryir.SetOpIntersect},
		{"except", "EXCEPT", queryir.SetOpExcept},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := "SELECT id FROM current_orders " + tt.op + " SELECT id FROM archived_orders"
			q := newTestParser().Parse(sql)

			require.Len(t, q.Tables, 1)
			assert.Equal(t, "current_orders", q.Tables[0].Name)
			require.Len(t, q.Unions, 1)
			assert.Equal(t, tt.want, q.Unions[0].Kind)
			require.NotNil(t, q.Unions[0].Query)
			require.Len(t, q.Unions[0].Query.Tables, 1)
			assert.Equal(t, "archived_orders", q.Unions[0].Query.Tables[0].Name)
		})
	}
}

func TestParse_SetOpKeywordInsideStringLiteral(t *testing.T) {
	q := newTestParser().Parse("SELECT * FROM t WHERE name = 'UNION ALL'")

	assert.Empty(t, q.Unions)
	cond := singleCondition(t, q)
	assert.Equal(t, "UNION ALL", cond.Value)
}

// === Round trip ===

func TestParse_RoundTripGeneratedSQL(t *testing.T) {
	limit := 10
	built := &queryir.Query{
		Tables:          []queryir.TableRef{{ID: "u1", Name: "users"}},
		SelectedColumns: []queryir.SelectedColumn{{TableID: "u1", Column: "id"}},
		Filters: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
			&queryir.Condition{TableID: "u1", Column: "status", Operator: queryir.OpEq, Value: "active"},
		}},
		Limit: &limit,
	}
	sql, err := sqlgen.Generate(built, sqlgen.DialectPostgres)
	require.NoError(t, err)
	require.Equal(t, "SELECT users.id\nFROM users\nWHERE users.status = 'active'\nLIMIT 10", sql)

	q := newTestParser().Parse(sql)

	require.Len(t, q.Tables, 1)
	assert.Equal(t, "users", q.Tables[0].Name)
	require.Len(t, q.SelectedColumns, 1)
	assert.Equal(t, "id", q.SelectedColumns[0].Column)
	assert.Equal(t, q.Tables[0].ID, q.SelectedColumns[0].TableID)

	cond := singleCondition(t, q)
	assert.Equal(t, "status", cond.Column)
	assert.Equal(t, queryir.OpEq, cond.Operator)
	assert.Equal(t, "active", cond.Value)

	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, *q.Limit)
	assert.Nil(t, q.Offset)
}

// === Totality ===

func TestParse_NeverErrorsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"garbage in, garbage out",
		"SELECT",
		"SELECT FROM WHERE",
		"SELECT * FROM",
		"JOIN JOIN JOIN",
		"WITH cte AS (SELECT",
		"select * from t where ((('",
		"SELECT 'unterminated FROM t",
		strings.Repeat("(", 500),
		"SELECT * FROM t; DROP TABLE u",
	}
	for _, in := range inputs {
		q := Parse(in)
		require.NotNil(t, q, "input %q", in)
	}
}
