// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

// This file holds the attribute value variant and the one place type
// coercion rules live.  Every representation converts raw wire values
// through Coerce so that a number is a number whichever format the
// client picked.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPattern matches plain decimal number literals.
var decimalPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// parseDecimal parses a finite decimal number literal.
func parseDecimal(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// ValueType is the tag of a Value.
type ValueType int

const (
	// StringValue holds text.
	StringValue ValueType = iota

	// NumberValue holds a float64.
	NumberValue

	// BooleanValue holds a bool.
	BooleanValue
)

// Value is a single typed attribute value.  The zero Value is the
// empty string.
type Value struct {
	Type ValueType
	Str  string
	Num  float64
	Bool bool
}

// String creates a string Value.
func String(s string) Value {
	return Value{Type: StringValue, Str: s}
}

// Number creates a numeric Value.
func Number(n float64) Value {
	return Value{Type: NumberValue, Num: n}
}

// Boolean creates a boolean Value.
func Boolean(b bool) Value {
	return Value{Type: BooleanValue, Bool: b}
}

// Text renders the value without any quoting: numbers in their
// shortest form ("2", "0.5"), booleans as "true" or "false".
func (v Value) Text() string {
	switch v.Type {
	case NumberValue:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1e15 {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case BooleanValue:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Interface returns the value as a plain Go value (string, float64 or
// bool) suitable for a generic encoder.  Integral numbers come back as
// int64 so they encode without a fractional part.
func (v Value) Interface() interface{} {
	switch v.Type {
	case NumberValue:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1e15 {
			return int64(v.Num)
		}
		return v.Num
	case BooleanValue:
		return v.Bool
	default:
		return v.Str
	}
}

func (v Value) String() string {
	if v.Type == StringValue {
		return strconv.Quote(v.Str)
	}
	return v.Text()
}

// SchemaType maps a declared attribute type name to the coarse JSON
// schema type used in interface renderings: "number", "array",
// "boolean", or "string".
func SchemaType(typeName string) string {
	t := strings.ToLower(typeName)
	if idx := strings.LastIndexAny(t, "#:."); idx >= 0 && idx < len(t)-1 {
		t = t[idx+1:]
	}
	switch t {
	case "int", "integer", "long", "short", "byte", "biginteger",
		"float", "double", "decimal", "bigdecimal", "number",
		"unsignedint", "unsignedlong", "unsignedshort", "positiveinteger":
		return "number"
	case "bool", "boolean":
		return "boolean"
	case "array", "list", "set", "collection", "eelist", "arraylist":
		return "array"
	}
	if strings.HasSuffix(t, "[]") || strings.HasPrefix(t, "list<") || strings.HasPrefix(t, "set<") {
		return "array"
	}
	return "string"
}

// Coerce converts a raw wire value to a Value, guided by the declared
// attribute type name.  raw may be a string, bool, or any Go numeric
// type.  An empty typeName means the type is unknown, in which case
// raw keeps its own type.  A string for a numeric or boolean attribute
// is parsed; anything that cannot be converted is an error.
func Coerce(typeName string, raw interface{}) (Value, error) {
	var v Value
	switch r := raw.(type) {
	case Value:
		v = r
	case string:
		v = String(r)
	case bool:
		v = Boolean(r)
	case float64:
		v = Number(r)
	case float32:
		v = Number(float64(r))
	case int:
		v = Number(float64(r))
	case int8:
		v = Number(float64(r))
	case int16:
		v = Number(float64(r))
	case int32:
		v = Number(float64(r))
	case int64:
		v = Number(float64(r))
	case uint:
		v = Number(float64(r))
	case uint8:
		v = Number(float64(r))
	case uint16:
		v = Number(float64(r))
	case uint32:
		v = Number(float64(r))
	case uint64:
		v = Number(float64(r))
	default:
		return Value{}, fmt.Errorf("unsupported attribute value %v (%T)", raw, raw)
	}
	if v.Type == NumberValue && (math.IsInf(v.Num, 0) || math.IsNaN(v.Num)) {
		return Value{}, fmt.Errorf("%v is not a finite number", v.Num)
	}
	if typeName == "" {
		return v, nil
	}
	switch SchemaType(typeName) {
	case "number":
		switch v.Type {
		case NumberValue:
			return v, nil
		case StringValue:
			n, ok := parseDecimal(strings.TrimSpace(v.Str))
			if !ok {
				return Value{}, fmt.Errorf("%q is not a number", v.Str)
			}
			return Number(n), nil
		}
		return Value{}, fmt.Errorf("%v is not a number", v)
	case "boolean":
		switch v.Type {
		case BooleanValue:
			return v, nil
		case StringValue:
			b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
			if err != nil {
				return Value{}, fmt.Errorf("%q is not a boolean", v.Str)
			}
			return Boolean(b), nil
		}
		return Value{}, fmt.Errorf("%v is not a boolean", v)
	default:
		if v.Type == StringValue {
			return v, nil
		}
		return String(v.Text()), nil
	}
}

// ParseLiteral converts an unquoted textual literal, as found in a
// header attribute, to a Value: "true" and "false" become booleans,
// finite decimal numbers become numbers, and everything else,
// including "inf", "NaN", and hex forms, stays a string.
func ParseLiteral(s string) Value {
	switch s {
	case "true":
		return Boolean(true)
	case "false":
		return Boolean(false)
	}
	if n, ok := parseDecimal(s); ok {
		return Number(n)
	}
	return String(s)
}
