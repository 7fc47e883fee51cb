package semantic

import (
	"strings"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// ValueKind classifies a constant value.
type ValueKind uint8

const (
	BoolValue ValueKind = iota
	IntValue
	FloatValue
	StringValue
	TupleValue
)

// Value is the result of constant evaluation: a literal, a negated numeric
// literal or a tuple of those. Fields and function properties are values.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int64
	Float  float64
	String string
	Items  []Value
	Span   syntax.Span
}

// TypeName returns the value's type as written in messages, e.g. "int" or
// "tuple(int, float)".
func (v Value) TypeName() string {
	switch v.Kind {
	case BoolValue:
		return "bool"
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case StringValue:
		return "string"
	case TupleValue:
		names := make([]string, len(v.Items))
		for i, it := range v.Items {
			names[i] = it.TypeName()
		}
		return "tuple(" + strings.Join(names, ", ") + ")"
	}
	return "unknown"
}

// Evaluate folds e into a constant value. Anything that is not a literal,
// a tuple of literals or a negated numeric literal is rejected.
func Evaluate(e syntax.Expr) (Value, error) {
	span := e.Pos()
	switch e := e.(type) {
	case *syntax.BoolLit:
		return Value{Kind: BoolValue, Bool: e.Value, Span: span}, nil
	case *syntax.IntLit:
		return Value{Kind: IntValue, Int: e.Value, Span: span}, nil
	case *syntax.FloatLit:
		return Value{Kind: FloatValue, Float: e.Value, Span: span}, nil
	case *syntax.StringLit:
		return Value{Kind: StringValue, String: e.Value, Span: span}, nil
	case *syntax.Tuple:
		items := make([]Value, 0, len(e.Items))
		for _, it := range e.Items {
			v, err := Evaluate(it)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{Kind: TupleValue, Items: items, Span: span}, nil
	case *syntax.Unary:
		if e.Op == syntax.Neg {
			v, err := Evaluate(e.Operand)
			if err != nil {
				return Value{}, err
			}
			switch v.Kind {
			case IntValue:
				return Value{Kind: IntValue, Int: -v.Int, Span: span}, nil
			case FloatValue:
				return Value{Kind: FloatValue, Float: -v.Float, Span: span}, nil
			}
			return Value{}, incompatibleType(span, v.TypeName(), "int", "float")
		}
	}
	return Value{}, diag(span, errors.ErrCodeLiteralExpected, "Literal value expected")
}

// IntRanged returns the integer value if it lies in lo..hi inclusive.
func (v Value) IntRanged(lo, hi int64) (int64, error) {
	if v.Kind != IntValue {
		return 0, incompatibleType(v.Span, v.TypeName(), "int")
	}
	if v.Int < lo || v.Int > hi {
		return 0, diag(v.Span, errors.ErrCodeOutOfBounds, "Only accepts value between %d and %d", lo, hi)
	}
	return v.Int, nil
}

// IntPair returns the two integers of a 2-tuple whose items lie in lo..hi.
func (v Value) IntPair(lo, hi int64) (int64, int64, error) {
	if v.Kind != TupleValue || len(v.Items) != 2 {
		return 0, 0, incompatibleType(v.Span, v.TypeName(), "tuple(int, int)")
	}
	a, err := v.Items[0].IntRanged(lo, hi)
	if err != nil {
		return 0, 0, err
	}
	b, err := v.Items[1].IntRanged(lo, hi)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// AsString returns the string value.
func (v Value) AsString() (string, error) {
	if v.Kind != StringValue {
		return "", incompatibleType(v.Span, v.TypeName(), "string")
	}
	return v.String, nil
}

// AsNumber returns an int or float value as float64.
func (v Value) AsNumber() (float64, error) {
	switch v.Kind {
	case IntValue:
		return float64(v.Int), nil
	case FloatValue:
		return v.Float, nil
	}
	return 0, incompatibleType(v.Span, v.TypeName(), "int", "float")
}

// incompatibleType reports a value of type found where one of expected was
// required.
func incompatibleType(span syntax.Span, found string, expected ...string) error {
	return diag(span, errors.ErrCodeIncompatibleType, "Type %s expected, `%s` found", formatAlternatives(expected), found)
}

// formatAlternatives renders ["a", "b", "c"] as "`a`, `b` or `c`".
func formatAlternatives(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}
