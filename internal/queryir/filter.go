package queryir

import (
	"encoding/json"
	"fmt"
)

// BoolOp combines the children of a filter Group.
type BoolOp string

// BoolAnd and BoolOr are the boolean group operators.
const (
	BoolAnd BoolOp = "AND"
	BoolOr  BoolOp = "OR"
)

// Operator is the comparison vocabulary of a filter Condition.
type Operator string

// OpEq and friends are the supported condition operators.
const (
	OpEq         Operator = "="
	OpNotEq      Operator = "!="
	OpNotEqAlt   Operator = "<>"
	OpLess       Operator = "<"
	OpGreater    Operator = ">"
	OpLessEq     Operator = "<="
	OpGreaterEq  Operator = ">="
	OpLike       Operator = "LIKE"
	OpNotLike    Operator = "NOT LIKE"
	OpIn         Operator = "IN"
	OpNotIn      Operator = "NOT IN"
	OpIsNull     Operator = "IS NULL"
	OpIsNotNull  Operator = "IS NOT NULL"
	OpExists     Operator = "EXISTS"
	OpNotExists  Operator = "NOT EXISTS"
	OpBetween    Operator = "BETWEEN"
	OpNotBetween Operator = "NOT BETWEEN"
)

// FilterNode is the tagged union underlying WHERE and HAVING trees: a node
// is either a *Condition leaf or a *Group of further nodes. Consumers
// dispatch with a type switch so a new variant breaks every switch loudly.
type FilterNode interface {
	filterNode()
}

// Condition is a single column comparison. Value2 is populated only for
// BETWEEN / NOT BETWEEN. Value may be a scalar or, for IN, a slice.
type Condition struct {
	TableID  string   `json:"tableId,omitempty"`
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
	Value2   any      `json:"value2,omitempty"`
}

func (*Condition) filterNode() {}

// Group applies one boolean operator uniformly to its children. Mixed
// AND/OR at a single level is not representable; nest Groups instead.
type Group struct {
	Op       BoolOp       `json:"operator"`
	Children []FilterNode `json:"children"`
}

func (*Group) filterNode() {}

// The union crosses the wire in a discriminated form: every node carries a
// "type" field of "condition" or "group".

// MarshalJSON emits the condition with its discriminant.
func (c *Condition) MarshalJSON() ([]byte, error) {
	type plain Condition
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{Type: "condition", plain: (*plain)(c)})
}

// MarshalJSON emits the group with its discriminant.
func (g *Group) MarshalJSON() ([]byte, error) {
	type plain Group
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{Type: "group", plain: (*plain)(g)})
}

// UnmarshalJSON decodes a group and its children from discriminated form.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw struct {
		Op       BoolOp            `json:"operator"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Op = raw.Op
	g.Children = nil
	for _, rm := range raw.Children {
		child, err := UnmarshalFilterNode(rm)
		if err != nil {
			return err
		}
		g.Children = append(g.Children, child)
	}
	return nil
}

// UnmarshalFilterNode decodes one filter tree node from its discriminated
// JSON form. Nodes without a "type" field are inferred from their shape so
// hand-written payloads stay accepted.
func UnmarshalFilterNode(data []byte) (FilterNode, error) {
	var head struct {
		Type     string          `json:"type"`
		Children json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	kind := head.Type
	if kind == "" {
		if len(head.Children) > 0 {
			kind = "group"
		} else {
			kind = "condition"
		}
	}
	switch kind {
	case "condition":
		var c Condition
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case "group":
		var g Group
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, err
		}
		return &g, nil
	default:
		return nil, fmt.Errorf("unknown filter node type %q", head.Type)
	}
}

// UnmarshalJSON decodes the grouping clause, dispatching the HAVING tree
// through the filter union decoder.
func (gb *GroupByClause) UnmarshalJSON(data []byte) error {
	var raw struct {
		Columns []GroupByColumn `json:"columns"`
		Having  json.RawMessage `json:"having"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	gb.Columns = raw.Columns
	gb.Having = nil
	if len(raw.Having) > 0 && string(raw.Having) != "null" {
		having, err := UnmarshalFilterNode(raw.Having)
		if err != nil {
			return err
		}
		gb.Having = having
	}
	return nil
}
