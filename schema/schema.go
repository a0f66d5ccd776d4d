// Package schema validates decoded JSON documents against a JSON Schema
// subset. It guards the restore path: a backup is checked record by record
// before anything is decoded into typed values or written to a store.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Validate checks a decoded JSON value against a schema (draft-07 subset).
// A nil schema accepts everything.
//
// Supported keywords:
//   - type (a name or a list of names)
//   - properties, required, additionalProperties (bool or schema), propertyNames
//   - items, minItems, maxItems
//   - minimum, maximum
//   - minLength, pattern, format (date, date-time)
//   - enum
func Validate(schema map[string]any, doc any) error {
	if schema == nil {
		return nil
	}
	return validateValue(schema, doc, "$")
}

func validateValue(schema map[string]any, value any, path string) error {
	if t, ok := schema["type"]; ok {
		if err := checkType(t, value, path); err != nil {
			return err
		}
	}
	if enumList, ok := schema["enum"].([]any); ok {
		if err := checkEnum(enumList, value, path); err != nil {
			return err
		}
	}

	switch v := value.(type) {
	case map[string]any:
		return validateObject(schema, v, path)
	case []any:
		return validateArray(schema, v, path)
	case string:
		return validateString(schema, v, path)
	case float64:
		return validateNumber(schema, v, path)
	case json.Number:
		f, _ := v.Float64()
		return validateNumber(schema, f, path)
	}
	return nil
}

func checkType(t any, value any, path string) error {
	var allowed []string
	switch tv := t.(type) {
	case string:
		allowed = []string{tv}
	case []any:
		for _, x := range tv {
			if s, ok := x.(string); ok {
				allowed = append(allowed, s)
			}
		}
	case []string:
		allowed = tv
	default:
		return nil
	}
	actual := jsonType(value)
	for _, want := range allowed {
		if typeMatches(want, actual, value) {
			return nil
		}
	}
	return fmt.Errorf("%s: expected type %s, got %q", path, strings.Join(allowed, " or "), actual)
}

func typeMatches(want, actual string, value any) bool {
	switch want {
	case actual:
		return true
	case "number":
		return actual == "integer"
	case "integer":
		switch n := value.(type) {
		case float64:
			return n == float64(int64(n))
		case json.Number:
			_, err := n.Int64()
			return err == nil
		}
	}
	return false
}

func jsonType(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case int, int64:
		return "integer"
	default:
		return reflect.TypeOf(v).String()
	}
}

func checkEnum(allowed []any, value any, path string) error {
	for _, a := range allowed {
		if reflect.DeepEqual(a, value) {
			return nil
		}
	}
	return fmt.Errorf("%s: value not in enum %v", path, allowed)
}

func validateObject(schema map[string]any, obj map[string]any, path string) error {
	if reqList, ok := schema["required"].([]any); ok {
		for _, r := range reqList {
			if field, ok := r.(string); ok {
				if _, exists := obj[field]; !exists {
					return fmt.Errorf("%s: missing required field %q", path, field)
				}
			}
		}
	}

	props, _ := schema["properties"].(map[string]any)

	// Walk keys in order so the first reported error is deterministic.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names, _ := schema["propertyNames"].(map[string]any)
	for _, field := range keys {
		if names != nil {
			if err := validateValue(names, field, path+"."+field); err != nil {
				return fmt.Errorf("%s: invalid property name %q", path, field)
			}
		}
		if ps, ok := props[field].(map[string]any); ok {
			if err := validateValue(ps, obj[field], path+"."+field); err != nil {
				return err
			}
			continue
		}
		if _, defined := props[field]; defined {
			continue
		}
		switch ap := schema["additionalProperties"].(type) {
		case bool:
			if !ap {
				return fmt.Errorf("%s: additional property %q not allowed", path, field)
			}
		case map[string]any:
			if err := validateValue(ap, obj[field], path+"."+field); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateArray(schema map[string]any, arr []any, path string) error {
	if v, ok := toFloat(schema["minItems"]); ok && float64(len(arr)) < v {
		return fmt.Errorf("%s: array length %d is less than minItems %v", path, len(arr), v)
	}
	if v, ok := toFloat(schema["maxItems"]); ok && float64(len(arr)) > v {
		return fmt.Errorf("%s: array length %d is greater than maxItems %v", path, len(arr), v)
	}
	if itemSchema, ok := schema["items"].(map[string]any); ok {
		for i, elem := range arr {
			if err := validateValue(itemSchema, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateString(schema map[string]any, s string, path string) error {
	if v, ok := toFloat(schema["minLength"]); ok && float64(len(s)) < v {
		return fmt.Errorf("%s: string length %d is less than minLength %v", path, len(s), v)
	}
	if p, ok := schema["pattern"].(string); ok {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("%s: bad pattern %q: %v", path, p, err)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("%s: %q does not match %s", path, s, p)
		}
	}
	switch schema["format"] {
	case "date-time":
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("%s: %q is not an RFC 3339 date-time", path, s)
		}
	case "date":
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("%s: %q is not a date", path, s)
		}
	}
	return nil
}

func validateNumber(schema map[string]any, n float64, path string) error {
	if v, ok := toFloat(schema["minimum"]); ok && n < v {
		return fmt.Errorf("%s: %v is less than minimum %v", path, n, v)
	}
	if v, ok := toFloat(schema["maximum"]); ok && n > v {
		return fmt.Errorf("%s: %v is greater than maximum %v", path, n, v)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
