package scorecard

import (
	"strconv"
	"strings"
)

// Type is the semantic type of a dataset column. It fully determines how raw
// text is coerced into typed cells.
type Type int

const (
	// Text is the default type; raw values pass through unchanged.
	Text Type = iota
	// Float64 covers both the "float" and "integer" source type tokens, since
	// integer columns can hold missing values.
	Float64
	// Boolean covers the "boolean" source type token.
	Boolean
)

func (t Type) String() string {
	switch t {
	case Float64:
		return "float64"
	case Boolean:
		return "boolean"
	default:
		return "text"
	}
}

// ParseType maps a source type token from the data dictionary to a Type.
// Unrecognized or absent tokens degrade to Text rather than failing.
func ParseType(token string) Type {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "float", "integer":
		return Float64
	case "boolean":
		return Boolean
	default:
		return Text
	}
}

// Parser represents a single method for parsing a string field to a value.
type Parser interface {
	Parse(string) (interface{}, error)
}

// FloatParser is a parser for float types.
type FloatParser struct{}

// Parse parses a float string to a float64 value.
func (p FloatParser) Parse(field string) (interface{}, error) {
	return strconv.ParseFloat(field, 64)
}

// BoolParser is a parser for boolean types.
type BoolParser struct{}

// Parse parses a boolean string to a bool value.
func (p BoolParser) Parse(field string) (interface{}, error) {
	return strconv.ParseBool(field)
}

// TextParser is an identity parser for strings.
type TextParser struct{}

// Parse returns the field unchanged.
func (p TextParser) Parse(field string) (interface{}, error) {
	return field, nil
}

// Parser returns the Parser which coerces raw text into cells of type t.
func (t Type) Parser() Parser {
	switch t {
	case Float64:
		return FloatParser{}
	case Boolean:
		return BoolParser{}
	default:
		return TextParser{}
	}
}
