package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sqltrace/sqltrace/internal/model"
)

// Keys promoted to first-class PlanNode attributes. Everything else a node
// carries is preserved verbatim in Extra.
var promotedKeys = map[string]struct{}{
	"Node Type":           {},
	"Relation Name":       {},
	"Alias":               {},
	"Startup Cost":        {},
	"Total Cost":          {},
	"Actual Startup Time": {},
	"Actual Total Time":   {},
	"Actual Rows":         {},
	"Actual Loops":        {},
	"Plans":               {},
}

// ParseJSON reads a PostgreSQL EXPLAIN (ANALYZE, FORMAT JSON) document and
// produces an ExecutionPlan. Three observed shapes are accepted: the usual
// single-element array, a bare object with the same keys, and a direct
// {"Plan": ...} object.
func ParseJSON(r io.Reader) (*model.ExecutionPlan, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, parseErrorf(err, "decode")
	}
	return Parse(payload)
}

// ParseBytes is a convenience wrapper over ParseJSON.
func ParseBytes(data []byte) (*model.ExecutionPlan, error) {
	return ParseJSON(bytes.NewReader(data))
}

// Parse builds an ExecutionPlan from an already-decoded JSON value.
func Parse(payload any) (*model.ExecutionPlan, error) {
	if msg, found := findErrorField(payload); found {
		return nil, &DatabaseError{Message: msg}
	}

	entry, err := pickFirstEntry(payload)
	if err != nil {
		return nil, err
	}

	planVal, ok := entry["Plan"]
	if !ok {
		return nil, &ParseError{Msg: "missing Plan root"}
	}
	planMap, ok := planVal.(map[string]any)
	if !ok {
		return nil, parseErrorf(nil, "Plan is %T, expected object", planVal)
	}

	root, err := parsePlanNode(planMap)
	if err != nil {
		return nil, err
	}

	planningTime, err := floatField(entry, "Planning Time")
	if err != nil {
		return nil, err
	}
	executionTime, err := floatField(entry, "Execution Time")
	if err != nil {
		return nil, err
	}

	return &model.ExecutionPlan{
		Root:          root,
		PlanningTime:  planningTime,
		ExecutionTime: executionTime,
	}, nil
}

func pickFirstEntry(payload any) (map[string]any, error) {
	switch v := payload.(type) {
	case []any:
		if len(v) == 0 {
			return nil, &ParseError{Msg: "empty payload"}
		}
		obj, ok := v[0].(map[string]any)
		if !ok {
			return nil, parseErrorf(nil, "entry is %T, expected object", v[0])
		}
		return obj, nil
	case map[string]any:
		return v, nil
	default:
		return nil, parseErrorf(nil, "unexpected top-level type %T", payload)
	}
}

func parsePlanNode(data map[string]any) (*model.PlanNode, error) {
	node := &model.PlanNode{
		NodeType:     asString(data["Node Type"]),
		RelationName: asString(data["Relation Name"]),
		Alias:        asString(data["Alias"]),
		Extra:        map[string]any{},
	}

	var err error
	if node.StartupCost, err = floatField(data, "Startup Cost"); err != nil {
		return nil, err
	}
	if node.TotalCost, err = floatField(data, "Total Cost"); err != nil {
		return nil, err
	}
	if node.ActualTotalTime, err = floatField(data, "Actual Total Time"); err != nil {
		return nil, err
	}
	if node.ActualRows, err = uintField(data, "Actual Rows"); err != nil {
		return nil, err
	}
	if node.ActualLoops, err = uintField(data, "Actual Loops"); err != nil {
		return nil, err
	}
	// EXPLAIN without ANALYZE reports no loop counts; the model requires at
	// least one.
	if node.ActualLoops == 0 {
		node.ActualLoops = 1
	}

	if raw, ok := data["Actual Startup Time"]; ok {
		startup, err := asFloat(raw)
		if err != nil {
			return nil, parseErrorf(err, "field %q", "Actual Startup Time")
		}
		node.ActualStartupTime = &startup
	}

	if rawChildren, ok := data["Plans"]; ok {
		children, ok := rawChildren.([]any)
		if !ok {
			return nil, parseErrorf(nil, "Plans is %T, expected array", rawChildren)
		}
		for i, childVal := range children {
			childMap, ok := childVal.(map[string]any)
			if !ok {
				return nil, parseErrorf(nil, "child plan %d is %T, expected object", i, childVal)
			}
			child, err := parsePlanNode(childMap)
			if err != nil {
				return nil, err
			}
			node.Plans = append(node.Plans, child)
		}
	}

	for k, v := range data {
		if _, ok := promotedKeys[k]; ok {
			continue
		}
		node.Extra[k] = v
	}

	return node, nil
}

// findErrorField walks a decoded payload looking for an explicit "error"
// entry anywhere in the document.
func findErrorField(payload any) (string, bool) {
	switch v := payload.(type) {
	case map[string]any:
		if raw, ok := v["error"]; ok {
			return asString(raw), true
		}
		for _, val := range v {
			if msg, found := findErrorField(val); found {
				return msg, true
			}
		}
	case []any:
		for _, item := range v {
			if msg, found := findErrorField(item); found {
				return msg, true
			}
		}
	}
	return "", false
}

func floatField(data map[string]any, key string) (float64, error) {
	raw, ok := data[key]
	if !ok {
		return 0, nil
	}
	f, err := asFloat(raw)
	if err != nil {
		return 0, parseErrorf(err, "field %q", key)
	}
	return f, nil
}

func uintField(data map[string]any, key string) (uint64, error) {
	f, err := floatField(data, key)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, parseErrorf(nil, "field %q: negative count %v", key, f)
	}
	return uint64(f), nil
}

func asString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func asFloat(val any) (float64, error) {
	switch v := val.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		if v == "" {
			return 0, nil
		}
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot coerce %T to number", val)
	}
}
