package sqlgen

import (
	"fmt"
	"strconv"
)

// Dialect names a SQL variant. In this package a dialect affects only the
// pagination clause; everything else renders identically.
type Dialect string

// DialectPostgres and friends are the supported dialects.
const (
	DialectPostgres  Dialect = "postgres"
	DialectMySQL     Dialect = "mysql"
	DialectSQLite    Dialect = "sqlite"
	DialectDuckDB    Dialect = "duckdb"
	DialectSQLServer Dialect = "sqlserver"
	DialectOracle    Dialect = "oracle"
)

// Dialects lists the supported dialects in a stable order.
func Dialects() []Dialect {
	return []Dialect{
		DialectPostgres, DialectMySQL, DialectSQLite,
		DialectDuckDB, DialectSQLServer, DialectOracle,
	}
}

// ParseDialect maps common dialect spellings onto the constants. The empty
// string selects postgres.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "", "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "duckdb":
		return DialectDuckDB, nil
	case "sqlserver", "mssql", "tsql":
		return DialectSQLServer, nil
	case "oracle":
		return DialectOracle, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", s)
	}
}

// limitStrategy renders the pagination clause for one dialect family. The
// clause is empty when no limit is set; a lone offset degrades silently.
type limitStrategy interface {
	render(limit, offset *int) string
}

// limitOffsetStyle is the LIMIT n [OFFSET m] family (postgres, mysql,
// sqlite, duckdb). OFFSET is emitted only when m > 0.
type limitOffsetStyle struct{}

func (limitOffsetStyle) render(limit, offset *int) string {
	if limit == nil {
		return ""
	}
	clause := "LIMIT " + strconv.Itoa(*limit)
	if offset != nil && *offset > 0 {
		clause += " OFFSET " + strconv.Itoa(*offset)
	}
	return clause
}

// offsetFetchStyle is the OFFSET m ROWS FETCH NEXT n ROWS ONLY family
// (sqlserver, oracle). The offset defaults to 0 when absent.
type offsetFetchStyle struct{}

func (offsetFetchStyle) render(limit, offset *int) string {
	if limit == nil {
		return ""
	}
	off := 0
	if offset != nil {
		off = *offset
	}
	return fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", off, *limit)
}

func limitStrategyFor(d Dialect) limitStrategy {
	switch d {
	case DialectSQLServer, DialectOracle:
		return offsetFetchStyle{}
	default:
		return limitOffsetStyle{}
	}
}
