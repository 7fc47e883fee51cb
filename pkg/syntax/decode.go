package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/mcl/pkg/errors"
)

// rawNode is the JSON shape shared by every node kind. Which fields are
// meaningful depends on Kind.
type rawNode struct {
	Kind     string          `json:"kind"`
	Span     [2]int          `json:"span"`
	Name     string          `json:"name,omitempty"`
	NameSpan *[2]int         `json:"name_span,omitempty"`
	Type     string          `json:"type,omitempty"`
	TypeSpan *[2]int         `json:"type_span,omitempty"`
	Op       string          `json:"op,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`

	Target  *rawNode `json:"target,omitempty"`
	Object  *rawNode `json:"object,omitempty"`
	Left    *rawNode `json:"left,omitempty"`
	Right   *rawNode `json:"right,omitempty"`
	Operand *rawNode `json:"operand,omitempty"`
	Tail    *rawNode `json:"tail,omitempty"`
	Assign  *rawNode `json:"assign,omitempty"`

	Items            []*rawNode `json:"items,omitempty"`
	Args             []*rawNode `json:"args,omitempty"`
	Props            []*rawNode `json:"props,omitempty"`
	Statements       []*rawNode `json:"statements,omitempty"`
	Elements         []*rawNode `json:"elements,omitempty"`
	Pins             []*rawNode `json:"pins,omitempty"`
	Fields           []*rawNode `json:"fields,omitempty"`
	Microcontrollers []*rawNode `json:"microcontrollers,omitempty"`
}

// ReadFile loads a syntax tree from a JSON file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseJSON(data)
}

// DecodeFile reads a JSON-encoded syntax tree from r.
func DecodeFile(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes a JSON-encoded syntax tree.
//
// The document is a file node with a "microcontrollers" array. Every node
// carries a "kind" discriminator and a "span" pair of byte offsets. Decoding
// fails with an INVALID_FORMAT error naming the offending node path when a
// kind is unknown, a required child is missing, or an identifier is invalid.
func ParseJSON(data []byte) (*File, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var raw rawNode
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode syntax tree")
	}
	if raw.Kind != "" && raw.Kind != "file" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "root: expected kind \"file\", found %q", raw.Kind)
	}
	return decodeFile(&raw)
}

func decodeFile(raw *rawNode) (*File, error) {
	span, err := decodeSpan("root", raw.Span)
	if err != nil {
		return nil, err
	}
	f := &File{Span: span}
	for i, m := range raw.Microcontrollers {
		mc, err := decodeMicrocontroller(fmt.Sprintf("microcontrollers[%d]", i), m)
		if err != nil {
			return nil, err
		}
		f.Microcontrollers = append(f.Microcontrollers, mc)
	}
	return f, nil
}

func decodeMicrocontroller(path string, raw *rawNode) (*Microcontroller, error) {
	if err := expectKind(path, raw, "microcontroller"); err != nil {
		return nil, err
	}
	span, err := decodeSpan(path, raw.Span)
	if err != nil {
		return nil, err
	}
	if err := checkIdent(path, raw.Name); err != nil {
		return nil, err
	}
	mc := &Microcontroller{Span: span, Name: raw.Name}
	for i, e := range raw.Elements {
		el, err := decodeElement(fmt.Sprintf("%s.elements[%d]", path, i), e)
		if err != nil {
			return nil, err
		}
		mc.Elements = append(mc.Elements, el)
	}
	return mc, nil
}

func decodeElement(path string, raw *rawNode) (Element, error) {
	if raw == nil {
		return nil, missing(path)
	}
	span, err := decodeSpan(path, raw.Span)
	if err != nil {
		return nil, err
	}
	switch raw.Kind {
	case "field":
		a, err := decodeStmt(path+".assign", raw.Assign)
		if err != nil {
			return nil, err
		}
		assign, ok := a.(*AssignStmt)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s.assign: expected kind \"assign\"", path)
		}
		return &FieldElement{Span: span, Assign: assign}, nil
	case "inputs", "outputs":
		mode := Inputs
		if raw.Kind == "outputs" {
			mode = Outputs
		}
		el := &InterfaceElement{Span: span, Mode: mode}
		for i, p := range raw.Pins {
			pin, err := decodePin(fmt.Sprintf("%s.pins[%d]", path, i), p)
			if err != nil {
				return nil, err
			}
			el.Pins = append(el.Pins, pin)
		}
		return el, nil
	case "logic":
		stmts, err := decodeStmts(path+".statements", raw.Statements)
		if err != nil {
			return nil, err
		}
		return &LogicElement{Span: span, Statements: stmts}, nil
	default:
		return nil, unknownKind(path, raw.Kind)
	}
}

func decodePin(path string, raw *rawNode) (*PinDecl, error) {
	if err := expectKind(path, raw, "pin"); err != nil {
		return nil, err
	}
	span, err := decodeSpan(path, raw.Span)
	if err != nil {
		return nil, err
	}
	if err := checkIdent(path, raw.Name); err != nil {
		return nil, err
	}
	if raw.Type == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: missing pin type", path)
	}
	typeSpan := span
	if raw.TypeSpan != nil {
		if typeSpan, err = decodeSpan(path+".type_span", *raw.TypeSpan); err != nil {
			return nil, err
		}
	}
	pin := &PinDecl{Span: span, Name: raw.Name, TypeName: raw.Type, TypeSpan: typeSpan}
	for i, f := range raw.Fields {
		fpath := fmt.Sprintf("%s.fields[%d]", path, i)
		s, err := decodeStmt(fpath, f)
		if err != nil {
			return nil, err
		}
		assign, ok := s.(*AssignStmt)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected kind \"assign\"", fpath)
		}
		pin.Fields = append(pin.Fields, assign)
	}
	return pin, nil
}

func decodeStmts(path string, raws []*rawNode) ([]Stmt, error) {
	stmts := make([]Stmt, 0, len(raws))
	for i, r := range raws {
		s, err := decodeStmt(fmt.Sprintf("%s[%d]", path, i), r)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func decodeStmt(path string, raw *rawNode) (Stmt, error) {
	if raw == nil {
		return nil, missing(path)
	}
	span, err := decodeSpan(path, raw.Span)
	if err != nil {
		return nil, err
	}
	switch raw.Kind {
	case "let":
		if err := checkIdent(path, raw.Name); err != nil {
			return nil, err
		}
		nameSpan := span
		if raw.NameSpan != nil {
			if nameSpan, err = decodeSpan(path+".name_span", *raw.NameSpan); err != nil {
				return nil, err
			}
		}
		value, err := decodeValueExpr(path+".value", raw.Value)
		if err != nil {
			return nil, err
		}
		return &LetStmt{Span: span, Name: raw.Name, NameSpan: nameSpan, Value: value}, nil
	case "assign":
		target, err := decodeExpr(path+".target", raw.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeValueExpr(path+".value", raw.Value)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Span: span, Target: target, Value: value}, nil
	default:
		return nil, unknownKind(path, raw.Kind)
	}
}

// decodeValueExpr decodes the "value" member of a statement, which holds a
// nested expression node rather than a literal.
func decodeValueExpr(path string, data json.RawMessage) (Expr, error) {
	if len(data) == 0 {
		return nil, missing(path)
	}
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", path)
	}
	return decodeExpr(path, &raw)
}

func decodeExprs(path string, raws []*rawNode) ([]Expr, error) {
	exprs := make([]Expr, 0, len(raws))
	for i, r := range raws {
		e, err := decodeExpr(fmt.Sprintf("%s[%d]", path, i), r)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func decodeExpr(path string, raw *rawNode) (Expr, error) {
	if raw == nil {
		return nil, missing(path)
	}
	span, err := decodeSpan(path, raw.Span)
	if err != nil {
		return nil, err
	}
	switch raw.Kind {
	case "null":
		return &NullLit{Span: span}, nil
	case "bool":
		var v bool
		if err := unmarshalLiteral(path, raw.Value, &v); err != nil {
			return nil, err
		}
		return &BoolLit{Span: span, Value: v}, nil
	case "int":
		v, err := strconv.ParseInt(string(bytes.TrimSpace(raw.Value)), 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: invalid int literal", path)
		}
		return &IntLit{Span: span, Value: v}, nil
	case "float":
		var v float64
		if err := unmarshalLiteral(path, raw.Value, &v); err != nil {
			return nil, err
		}
		return &FloatLit{Span: span, Value: v}, nil
	case "string":
		var v string
		if err := unmarshalLiteral(path, raw.Value, &v); err != nil {
			return nil, err
		}
		return &StringLit{Span: span, Value: v}, nil
	case "ident":
		if err := checkIdent(path, raw.Name); err != nil {
			return nil, err
		}
		return &Ident{Span: span, Name: raw.Name}, nil
	case "inputs":
		return &InputsRef{Span: span}, nil
	case "outputs":
		return &OutputsRef{Span: span}, nil
	case "tuple":
		items, err := decodeExprs(path+".items", raw.Items)
		if err != nil {
			return nil, err
		}
		return &Tuple{Span: span, Items: items}, nil
	case "member":
		obj, err := decodeExpr(path+".object", raw.Object)
		if err != nil {
			return nil, err
		}
		if !isMemberName(raw.Name) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: invalid member name %q", path, raw.Name)
		}
		nameSpan := span
		if raw.NameSpan != nil {
			if nameSpan, err = decodeSpan(path+".name_span", *raw.NameSpan); err != nil {
				return nil, err
			}
		}
		return &Member{Span: span, Object: obj, Name: raw.Name, NameSpan: nameSpan}, nil
	case "binary":
		op, ok := binaryOps[raw.Op]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown binary operator %q", path, raw.Op)
		}
		left, err := decodeExpr(path+".left", raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(path+".right", raw.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Span: span, Op: op, Left: left, Right: right}, nil
	case "unary":
		if raw.Op != "-" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown unary operator %q", path, raw.Op)
		}
		operand, err := decodeExpr(path+".operand", raw.Operand)
		if err != nil {
			return nil, err
		}
		return &Unary{Span: span, Op: Neg, Operand: operand}, nil
	case "block":
		stmts, err := decodeStmts(path+".statements", raw.Statements)
		if err != nil {
			return nil, err
		}
		b := &Block{Span: span, Statements: stmts}
		if raw.Tail != nil {
			if b.Tail, err = decodeExpr(path+".tail", raw.Tail); err != nil {
				return nil, err
			}
		}
		return b, nil
	case "call":
		if err := checkIdent(path, raw.Name); err != nil {
			return nil, err
		}
		nameSpan := span
		if raw.NameSpan != nil {
			if nameSpan, err = decodeSpan(path+".name_span", *raw.NameSpan); err != nil {
				return nil, err
			}
		}
		args, err := decodeExprs(path+".args", raw.Args)
		if err != nil {
			return nil, err
		}
		props, err := decodeExprs(path+".props", raw.Props)
		if err != nil {
			return nil, err
		}
		return &Call{Span: span, Name: raw.Name, NameSpan: nameSpan, Args: args, Props: props}, nil
	default:
		return nil, unknownKind(path, raw.Kind)
	}
}

var binaryOps = map[string]BinaryOp{"+": Add, "-": Sub, "*": Mul, "/": Div}

// =============================================================================
// Helpers
// =============================================================================

func decodeSpan(path string, s [2]int) (Span, error) {
	if s[0] < 0 || s[1] < s[0] {
		return Span{}, errors.New(errors.ErrCodeInvalidFormat, "%s: invalid span [%d, %d]", path, s[0], s[1])
	}
	return Span{Start: s[0], End: s[1]}, nil
}

func expectKind(path string, raw *rawNode, kind string) error {
	if raw == nil {
		return missing(path)
	}
	if raw.Kind != kind {
		return errors.New(errors.ErrCodeInvalidFormat, "%s: expected kind %q, found %q", path, kind, raw.Kind)
	}
	return nil
}

func checkIdent(path, name string) error {
	if err := errors.ValidateIdentifier(name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", path)
	}
	return nil
}

// isMemberName accepts identifiers and decimal output indices.
func isMemberName(name string) bool {
	if errors.ValidateIdentifier(name) == nil {
		return true
	}
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func unmarshalLiteral(path string, data json.RawMessage, v any) error {
	if len(data) == 0 {
		return missing(path + ".value")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: invalid literal", path)
	}
	return nil
}

func missing(path string) error {
	return errors.New(errors.ErrCodeInvalidFormat, "%s: missing node", path)
}

func unknownKind(path, kind string) error {
	return errors.New(errors.ErrCodeInvalidFormat, "%s: unknown kind %q", path, kind)
}
