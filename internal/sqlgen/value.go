package sqlgen

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// formatValue renders one literal: NULL for nil, single-quoted strings with
// embedded quotes doubled, TRUE/FALSE booleans, quoted RFC 3339 timestamps,
// and numeric values verbatim.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteString(val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return "'" + val.Format(time.RFC3339) + "'"
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// formatInList renders the parenthesized body of an IN predicate. Array
// values format element-wise; a scalar passes through raw, which is how a
// parsed raw list re-enters the generator unchanged.
func formatInList(v any) string {
	switch vals := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(vals))
		for _, item := range vals {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		parts := make([]string, 0, len(vals))
		for _, item := range vals {
			parts = append(parts, quoteString(item))
		}
		return strings.Join(parts, ", ")
	case string:
		return vals
	case json.Number:
		return vals.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, formatValue(rv.Index(i).Interface()))
		}
		return strings.Join(parts, ", ")
	}
	return formatValue(v)
}
