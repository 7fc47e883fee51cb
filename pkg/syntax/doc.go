// Package syntax defines the span-annotated syntax tree consumed by the
// compiler.
//
// Tokenizing and parsing happen outside mcl. An external parser hands the
// compiler a tree of declarations, statements and expressions, each carrying
// the byte [Span] it was parsed from so diagnostics can point back at source.
//
// # Tree Shape
//
//   - [File]: one or more [Microcontroller] declarations
//   - [Element]: [FieldElement], [InterfaceElement] (inputs/outputs), [LogicElement]
//   - [Stmt]: [LetStmt], [AssignStmt]
//   - [Expr]: literals, [Ident], [InputsRef], [OutputsRef], [Tuple], [Member],
//     [Binary], [Unary], [Block], [Call]
//
// Element, Stmt and Expr are closed: only the types in this package
// implement them, so a type switch over them is exhaustive.
//
// # JSON Encoding
//
// Parsers exchange trees as JSON. Every node is an object with a "kind"
// discriminator and a "span" pair:
//
//	{
//	  "kind": "assign", "span": [40, 72],
//	  "target": {"kind": "member", "span": [40, 51], "name": "sum",
//	             "object": {"kind": "outputs", "span": [40, 47]}},
//	  "value": {"kind": "binary", "span": [54, 72], "op": "+", "left": ..., "right": ...}
//	}
//
// Use [ReadFile], [DecodeFile] or [ParseJSON] to load a tree. Malformed
// documents fail with an INVALID_FORMAT error naming the node path.
package syntax
