package syntax

import "fmt"

// Span is a half-open byte range [Start, End) into the source text.
// The compiler never reads source text; spans are echoed into diagnostics.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String returns the span as "start..end".
func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Node is implemented by every element of the tree.
type Node interface {
	Pos() Span
}

// =============================================================================
// File & Microcontroller
// =============================================================================

// File is the root of a parsed source file.
type File struct {
	Span             Span
	Microcontrollers []*Microcontroller
}

// Pos implements [Node].
func (f *File) Pos() Span { return f.Span }

// Microcontroller is a `microcontroller Name { ... }` declaration.
type Microcontroller struct {
	Span     Span
	Name     string
	Elements []Element
}

// Pos implements [Node].
func (m *Microcontroller) Pos() Span { return m.Span }

// Element is one entry of a microcontroller body: a field assignment, an
// interface section, or a logic block.
type Element interface {
	Node
	element()
}

// FieldElement is a microcontroller-level field assignment such as
// `name = "Adder"` or `size = (2, 2)`.
type FieldElement struct {
	Span   Span
	Assign *AssignStmt
}

// InterfaceMode distinguishes `inputs { ... }` from `outputs { ... }`.
type InterfaceMode int

const (
	Inputs InterfaceMode = iota
	Outputs
)

// String returns the keyword for the mode.
func (m InterfaceMode) String() string {
	if m == Outputs {
		return "outputs"
	}
	return "inputs"
}

// InterfaceElement is an `inputs { ... }` or `outputs { ... }` section.
type InterfaceElement struct {
	Span Span
	Mode InterfaceMode
	Pins []*PinDecl
}

// LogicElement is a `logic { ... }` block.
type LogicElement struct {
	Span       Span
	Statements []Stmt
}

func (e *FieldElement) Pos() Span     { return e.Span }
func (e *InterfaceElement) Pos() Span { return e.Span }
func (e *LogicElement) Pos() Span     { return e.Span }

func (*FieldElement) element()     {}
func (*InterfaceElement) element() {}
func (*LogicElement) element()     {}

// PinDecl declares one pin: `name: type { field = value, ... }`.
type PinDecl struct {
	Span     Span
	Name     string
	TypeName string
	TypeSpan Span
	Fields   []*AssignStmt
}

// Pos implements [Node].
func (p *PinDecl) Pos() Span { return p.Span }

// =============================================================================
// Statements
// =============================================================================

// Stmt is a statement inside a logic block or a block expression.
type Stmt interface {
	Node
	stmt()
}

// LetStmt binds a scoped variable: `let name = value`.
type LetStmt struct {
	Span     Span
	Name     string
	NameSpan Span
	Value    Expr
}

// AssignStmt is `target = value`. Targets are expression-shaped; the
// analyzer decides which shapes are assignable.
type AssignStmt struct {
	Span   Span
	Target Expr
	Value  Expr
}

func (s *LetStmt) Pos() Span    { return s.Span }
func (s *AssignStmt) Pos() Span { return s.Span }

func (*LetStmt) stmt()    {}
func (*AssignStmt) stmt() {}

// =============================================================================
// Expressions
// =============================================================================

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

type (
	// NullLit is the `null` literal.
	NullLit struct{ Span Span }

	// BoolLit is `true` or `false`.
	BoolLit struct {
		Span  Span
		Value bool
	}

	// IntLit is an integer literal.
	IntLit struct {
		Span  Span
		Value int64
	}

	// FloatLit is a floating point literal.
	FloatLit struct {
		Span  Span
		Value float64
	}

	// StringLit is a string literal.
	StringLit struct {
		Span  Span
		Value string
	}

	// Ident is a bare identifier.
	Ident struct {
		Span Span
		Name string
	}

	// InputsRef is the `inputs` keyword.
	InputsRef struct{ Span Span }

	// OutputsRef is the `outputs` keyword.
	OutputsRef struct{ Span Span }

	// Tuple is `(a, b, ...)`.
	Tuple struct {
		Span  Span
		Items []Expr
	}

	// Member is `object.name`.
	Member struct {
		Span     Span
		Object   Expr
		Name     string
		NameSpan Span
	}

	// Binary is `left op right`.
	Binary struct {
		Span  Span
		Op    BinaryOp
		Left  Expr
		Right Expr
	}

	// Unary is `op operand`.
	Unary struct {
		Span    Span
		Op      UnaryOp
		Operand Expr
	}

	// Block is `{ stmt; ...; tail }`. Tail may be nil.
	Block struct {
		Span       Span
		Statements []Stmt
		Tail       Expr
	}

	// Call is `name(args...){props...}`. Props are constant expressions.
	Call struct {
		Span     Span
		Name     string
		NameSpan Span
		Args     []Expr
		Props    []Expr
	}
)

func (e *NullLit) Pos() Span    { return e.Span }
func (e *BoolLit) Pos() Span    { return e.Span }
func (e *IntLit) Pos() Span     { return e.Span }
func (e *FloatLit) Pos() Span   { return e.Span }
func (e *StringLit) Pos() Span  { return e.Span }
func (e *Ident) Pos() Span      { return e.Span }
func (e *InputsRef) Pos() Span  { return e.Span }
func (e *OutputsRef) Pos() Span { return e.Span }
func (e *Tuple) Pos() Span      { return e.Span }
func (e *Member) Pos() Span     { return e.Span }
func (e *Binary) Pos() Span     { return e.Span }
func (e *Unary) Pos() Span      { return e.Span }
func (e *Block) Pos() Span      { return e.Span }
func (e *Call) Pos() Span       { return e.Span }

func (*NullLit) expr()    {}
func (*BoolLit) expr()    {}
func (*IntLit) expr()     {}
func (*FloatLit) expr()   {}
func (*StringLit) expr()  {}
func (*Ident) expr()      {}
func (*InputsRef) expr()  {}
func (*OutputsRef) expr() {}
func (*Tuple) expr()      {}
func (*Member) expr()     {}
func (*Binary) expr()     {}
func (*Unary) expr()      {}
func (*Block) expr()      {}
func (*Call) expr()       {}

// BinaryOp is an arithmetic binary operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

var binaryOpSymbols = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/"}

// String returns the operator symbol.
func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryOpSymbols) {
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
	return binaryOpSymbols[op]
}

// UnaryOp is a unary operator. Negation is the only one.
type UnaryOp int

const (
	Neg UnaryOp = iota
)

// String returns the operator symbol.
func (op UnaryOp) String() string {
	if op == Neg {
		return "-"
	}
	return fmt.Sprintf("UnaryOp(%d)", int(op))
}
