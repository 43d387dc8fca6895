package queryir

import "strings"

// JoinType is the join keyword rendered between FROM entries. Values hold
// the SQL keyword form so compound types render verbatim.
type JoinType string

// JoinInner and friends are the closed set of supported join types.
const (
	JoinInner      JoinType = "INNER"
	JoinLeft       JoinType = "LEFT"
	JoinLeftOuter  JoinType = "LEFT OUTER"
	JoinRight      JoinType = "RIGHT"
	JoinRightOuter JoinType = "RIGHT OUTER"
	JoinFull       JoinType = "FULL"
	JoinFullOuter  JoinType = "FULL OUTER"
	JoinCross      JoinType = "CROSS"
	JoinSelf       JoinType = "SELF"
	JoinNatural    JoinType = "NATURAL"
	JoinLeftAnti   JoinType = "LEFT ANTI"
	JoinRightAnti  JoinType = "RIGHT ANTI"
	JoinLeftSemi   JoinType = "LEFT SEMI"
	JoinRightSemi  JoinType = "RIGHT SEMI"
)

// JoinTypes lists every supported join type in a stable order.
func JoinTypes() []JoinType {
	return []JoinType{
		JoinInner, JoinLeft, JoinLeftOuter, JoinRight, JoinRightOuter,
		JoinFull, JoinFullOuter, JoinCross, JoinSelf, JoinNatural,
		JoinLeftAnti, JoinRightAnti, JoinLeftSemi, JoinRightSemi,
	}
}

// ParseJoinType maps lenient wire forms ("left-outer", "Left Outer") onto
// the keyword constants. Unrecognized input defaults to INNER.
func ParseJoinType(s string) JoinType {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.Join(strings.Fields(strings.ReplaceAll(norm, "-", " ")), " ")
	for _, jt := range JoinTypes() {
		if norm == string(jt) {
			return jt
		}
	}
	return JoinInner
}

// JoinCondition is one ON predicate. Operator defaults to "=" when empty.
type JoinCondition struct {
	FromColumn string `json:"fromColumn"`
	ToColumn   string `json:"toColumn"`
	Operator   string `json:"operator,omitempty"`
}

// Join connects two tables by id. Both ids must resolve within the same
// query; a join with no conditions renders without an ON clause.
type Join struct {
	ID          string          `json:"id,omitempty"`
	FromTableID string          `json:"fromTableId"`
	ToTableID   string          `json:"toTableId"`
	Type        JoinType        `json:"joinType,omitempty"`
	Conditions  []JoinCondition `json:"conditions,omitempty"`
}
