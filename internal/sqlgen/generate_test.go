package sqlgen

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querycanvas/internal/domain"
	"querycanvas/internal/queryir"
)

func intPtr(n int) *int { return &n }

func twoTableQuery(joinType queryir.JoinType) *queryir.Query {
	return &queryir.Query{
		Tables: []queryir.TableRef{
			{ID: "t1", Name: "orders", Alias: "o"},
			{ID: "t2", Name: "customers", Alias: "c"},
		},
		Joins: []queryir.Join{{
			ID: "j1", FromTableID: "t1", ToTableID: "t2", Type: joinType,
			Conditions: []queryir.JoinCondition{{FromColumn: "customer_id", ToColumn: "id"}},
		}},
	}
}

func TestGenerate_AllJoinTypes(t *testing.T) {
	for _, jt := range queryir.JoinTypes() {
		t.Run(string(jt), func(t *testing.T) {
			sql, err := Generate(twoTableQuery(jt), DialectPostgres)
			require.NoError(t, err)
			assert.Contains(t, sql, string(jt)+" JOIN")
		})
	}
}

func TestGenerate_EmptyTables(t *testing.T) {
	_, err := Generate(&queryir.Query{}, DialectPostgres)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table")

	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = Generate(nil, DialectPostgres)
	require.Error(t, err)
}

func TestGenerate_EndToEnd(t *testing.T) {
	q := &queryir.Query{
		Tables:          []queryir.TableRef{{ID: "t1", Name: "users"}},
		SelectedColumns: []queryir.SelectedColumn{{TableID: "t1", Column: "id"}},
		Filters: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
			&queryir.Condition{TableID: "t1", Column: "status", Operator: queryir.OpEq, Value: "active"},
		}},
		Limit: intPtr(10),
	}

	sql, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT users.id\nFROM users\nWHERE users.status = 'active'\nLIMIT 10", sql)
}

func TestGenerate_SelectClause(t *testing.T) {
	tests := []struct {
		name string
		q    *queryir.Query
		want string
	}{
		{
			name: "empty_columns_renders_star",
			q:    &queryir.Query{Tables: []queryir.TableRef{{ID: "t1", Name: "users"}}},
			want: "SELECT *",
		},
		{
			name: "distinct",
			q: &queryir.Query{
				Tables:          []queryir.TableRef{{ID: "t1", Name: "users"}},
				SelectedColumns: []queryir.SelectedColumn{{TableID: "t1", Column: "email"}},
				Distinct:        true,
			},
			want: "SELECT DISTINCT users.email",
		},
		{
			name: "count_distinct",
			q: &queryir.Query{
				Tables: []queryir.TableRef{{ID: "t1", Name: "orders"}},
				SelectedColumns: []queryir.SelectedColumn{
					{TableID: "t1", Column: "customer_id", Aggregate: queryir.AggCountDistinct, Alias: "buyers"},
				},
			},
			want: "SELECT COUNT(DISTINCT orders.customer_id) AS buyers",
		},
		{
			name: "aggregate_and_alias",
			q: &queryir.Query{
				Tables: []queryir.TableRef{{ID: "t1", Name: "orders", Alias: "o"}},
				SelectedColumns: []queryir.SelectedColumn{
					{TableID: "t1", Column: "total", Aggregate: queryir.AggSum, Alias: "revenue"},
				},
			},
			want: "SELECT SUM(o.total) AS revenue",
		},
		{
			name: "raw_expression_wins",
			q: &queryir.Query{
				Tables: []queryir.TableRef{{ID: "t1", Name: "orders"}},
				SelectedColumns: []queryir.SelectedColumn{
					{TableID: "t1", Column: "ignored", Expression: "price * quantity", Alias: "line_total"},
				},
			},
			want: "SELECT price * quantity AS line_total",
		},
		{
			name: "unresolved_table_id_drops_column",
			q: &queryir.Query{
				Tables: []queryir.TableRef{{ID: "t1", Name: "users"}},
				SelectedColumns: []queryir.SelectedColumn{
					{TableID: "ghost", Column: "id"},
				},
			},
			want: "SELECT *",
		},
		{
			name: "bare_column_without_table_id",
			q: &queryir.Query{
				Tables:          []queryir.TableRef{{ID: "t1", Name: "users"}},
				SelectedColumns: []queryir.SelectedColumn{{Column: "id"}},
			},
			want: "SELECT id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, err := Generate(tc.q, DialectPostgres)
			require.NoError(t, err)
			assert.Equal(t, tc.want, strings.Split(sql, "\n")[0])
		})
	}
}

func TestGenerate_FilterRendering(t *testing.T) {
	base := []queryir.TableRef{{ID: "t1", Name: "users", Alias: "u"}}

	tests := []struct {
		name   string
		filter *queryir.Group
		want   string
	}{
		{
			name: "or_of_two_and_groups_parenthesizes",
			filter: &queryir.Group{Op: queryir.BoolOr, Children: []queryir.FilterNode{
				&queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
					&queryir.Condition{TableID: "t1", Column: "status", Operator: queryir.OpEq, Value: "active"},
					&queryir.Condition{TableID: "t1", Column: "age", Operator: queryir.OpGreaterEq, Value: 18},
				}},
				&queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
					&queryir.Condition{TableID: "t1", Column: "role", Operator: queryir.OpEq, Value: "admin"},
					&queryir.Condition{TableID: "t1", Column: "active", Operator: queryir.OpEq, Value: true},
				}},
			}},
			want: "WHERE (u.status = 'active' AND u.age >= 18) OR (u.role = 'admin' AND u.active = TRUE)",
		},
		{
			name: "between_renders_verbatim",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Condition{Column: "age", Operator: queryir.OpBetween, Value: 10, Value2: 20},
			}},
			want: "WHERE age BETWEEN 10 AND 20",
		},
		{
			name: "quote_doubling",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Condition{TableID: "t1", Column: "last_name", Operator: queryir.OpEq, Value: "O'Brien"},
			}},
			want: "WHERE u.last_name = 'O''Brien'",
		},
		{
			name: "is_null_ignores_value",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Condition{TableID: "t1", Column: "deleted_at", Operator: queryir.OpIsNull, Value: "ignored"},
			}},
			want: "WHERE u.deleted_at IS NULL",
		},
		{
			name: "in_with_array",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Condition{TableID: "t1", Column: "status", Operator: queryir.OpIn, Value: []any{"new", "open", 3}},
			}},
			want: "WHERE u.status IN ('new', 'open', 3)",
		},
		{
			name: "in_with_raw_scalar",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Condition{TableID: "t1", Column: "id", Operator: queryir.OpNotIn, Value: "1, 2, 3"},
			}},
			want: "WHERE u.id NOT IN (1, 2, 3)",
		},
		{
			name: "null_value_renders_null",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Condition{TableID: "t1", Column: "manager_id", Operator: queryir.OpEq, Value: nil},
			}},
			want: "WHERE u.manager_id = NULL",
		},
		{
			name: "unresolved_condition_drops_silently",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Condition{TableID: "ghost", Column: "x", Operator: queryir.OpEq, Value: 1},
				&queryir.Condition{TableID: "t1", Column: "status", Operator: queryir.OpEq, Value: "active"},
			}},
			want: "WHERE u.status = 'active'",
		},
		{
			name: "empty_nested_group_skipped",
			filter: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
				&queryir.Group{Op: queryir.BoolOr},
				&queryir.Condition{TableID: "t1", Column: "status", Operator: queryir.OpEq, Value: "active"},
			}},
			want: "WHERE u.status = 'active'",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &queryir.Query{Tables: base, Filters: tc.filter}
			sql, err := Generate(q, DialectPostgres)
			require.NoError(t, err)

			lines := strings.Split(sql, "\n")
			require.Len(t, lines, 3, "expected SELECT, FROM, WHERE: %s", sql)
			assert.Equal(t, tc.want, lines[2])
		})
	}
}

func TestGenerate_EmptyFilterGroupOmitsWhere(t *testing.T) {
	q := &queryir.Query{
		Tables:  []queryir.TableRef{{ID: "t1", Name: "users"}},
		Filters: &queryir.Group{Op: queryir.BoolAnd},
	}
	sql, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
}

func TestGenerate_Pagination(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		limit   *int
		offset  *int
		want    string
	}{
		{"standard_limit_offset", DialectPostgres, intPtr(5), intPtr(10), "LIMIT 5 OFFSET 10"},
		{"standard_zero_offset_omitted", DialectMySQL, intPtr(5), intPtr(0), "LIMIT 5"},
		{"standard_no_offset", DialectSQLite, intPtr(5), nil, "LIMIT 5"},
		{"offset_fetch", DialectSQLServer, intPtr(5), intPtr(10), "OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY"},
		{"offset_fetch_defaults_offset", DialectOracle, intPtr(7), nil, "OFFSET 0 ROWS FETCH NEXT 7 ROWS ONLY"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &queryir.Query{
				Tables: []queryir.TableRef{{ID: "t1", Name: "users"}},
				Limit:  tc.limit,
				Offset: tc.offset,
			}
			sql, err := Generate(q, tc.dialect)
			require.NoError(t, err)

			lines := strings.Split(sql, "\n")
			assert.Equal(t, tc.want, lines[len(lines)-1])
		})
	}
}

func TestGenerate_OffsetWithoutLimitDegrades(t *testing.T) {
	q := &queryir.Query{
		Tables: []queryir.TableRef{{ID: "t1", Name: "users"}},
		Offset: intPtr(10),
	}
	for _, d := range Dialects() {
		sql, err := Generate(q, d)
		require.NoError(t, err)
		assert.NotContains(t, sql, "OFFSET")
	}
}

func TestGenerate_GroupByHaving(t *testing.T) {
	q := &queryir.Query{
		Tables: []queryir.TableRef{{ID: "t1", Name: "orders", Alias: "o"}},
		SelectedColumns: []queryir.SelectedColumn{
			{TableID: "t1", Column: "region"},
			{TableID: "t1", Column: "total", Aggregate: queryir.AggSum, Alias: "revenue"},
		},
		GroupBy: &queryir.GroupByClause{
			Columns: []queryir.GroupByColumn{{TableID: "t1", Column: "region"}},
			Having:  &queryir.Condition{Column: "SUM(o.total)", Operator: queryir.OpGreater, Value: 1000},
		},
	}
	sql, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	assert.Contains(t, sql, "GROUP BY o.region\nHAVING SUM(o.total) > 1000")
}

func TestGenerate_GroupByEmptyColumnsOmitted(t *testing.T) {
	q := &queryir.Query{
		Tables:  []queryir.TableRef{{ID: "t1", Name: "orders"}},
		GroupBy: &queryir.GroupByClause{Having: &queryir.Condition{Column: "x", Operator: queryir.OpEq, Value: 1}},
	}
	sql, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	assert.NotContains(t, sql, "GROUP BY")
	assert.NotContains(t, sql, "HAVING")
}

func TestGenerate_OrderBy(t *testing.T) {
	q := &queryir.Query{
		Tables: []queryir.TableRef{{ID: "t1", Name: "users", Alias: "u"}},
		OrderBy: []queryir.OrderByClause{
			{TableID: "t1", Column: "created_at", Direction: queryir.SortDesc},
			{TableID: "t1", Column: "id"},
		},
	}
	sql, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY u.created_at DESC, u.id ASC")
}

func TestGenerate_JoinEdgeCases(t *testing.T) {
	t.Run("unresolved_join_skipped", func(t *testing.T) {
		q := &queryir.Query{
			Tables: []queryir.TableRef{{ID: "t1", Name: "orders"}},
			Joins: []queryir.Join{{
				FromTableID: "t1", ToTableID: "ghost", Type: queryir.JoinLeft,
				Conditions: []queryir.JoinCondition{{FromColumn: "a", ToColumn: "b"}},
			}},
		}
		sql, err := Generate(q, DialectPostgres)
		require.NoError(t, err)
		assert.NotContains(t, sql, "JOIN")
	})

	t.Run("no_conditions_omits_on", func(t *testing.T) {
		q := twoTableQuery(queryir.JoinCross)
		q.Joins[0].Conditions = nil
		sql, err := Generate(q, DialectPostgres)
		require.NoError(t, err)
		assert.Contains(t, sql, "CROSS JOIN customers AS c")
		assert.NotContains(t, sql, " ON ")
	})

	t.Run("default_join_type_is_inner", func(t *testing.T) {
		q := twoTableQuery("")
		sql, err := Generate(q, DialectPostgres)
		require.NoError(t, err)
		assert.Contains(t, sql, "INNER JOIN customers AS c ON o.customer_id = c.id")
	})

	t.Run("multiple_conditions_joined_by_and", func(t *testing.T) {
		q := twoTableQuery(queryir.JoinInner)
		q.Joins[0].Conditions = append(q.Joins[0].Conditions,
			queryir.JoinCondition{FromColumn: "region", ToColumn: "region", Operator: "!="})
		sql, err := Generate(q, DialectPostgres)
		require.NoError(t, err)
		assert.Contains(t, sql, "ON o.customer_id = c.id AND o.region != c.region")
	})
}

func TestGenerate_TimeValue(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	q := &queryir.Query{
		Tables: []queryir.TableRef{{ID: "t1", Name: "events"}},
		Filters: &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
			&queryir.Condition{TableID: "t1", Column: "created_at", Operator: queryir.OpGreaterEq, Value: ts},
		}},
	}
	sql, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	assert.Contains(t, sql, "events.created_at >= '2024-03-15T09:30:00Z'")
}

func TestGenerate_InputNotMutated(t *testing.T) {
	q := twoTableQuery(queryir.JoinLeft)
	q.Filters = &queryir.Group{Op: queryir.BoolAnd, Children: []queryir.FilterNode{
		&queryir.Condition{TableID: "t1", Column: "status", Operator: queryir.OpEq, Value: "open"},
	}}

	before, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	after, err := Generate(q, DialectPostgres)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, q.Tables, 2)
	assert.Len(t, q.Joins, 1)
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"postgres", DialectPostgres, false},
		{"postgresql", DialectPostgres, false},
		{"", DialectPostgres, false},
		{"mysql", DialectMySQL, false},
		{"mssql", DialectSQLServer, false},
		{"sqlite3", DialectSQLite, false},
		{"duckdb", DialectDuckDB, false},
		{"oracle", DialectOracle, false},
		{"cassandra", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDialect(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
