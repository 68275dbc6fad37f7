// Package ast defines the expression AST the parser core builds by
// delegating to the expression sub-parser (spec §6.2) and then walks
// itself (the binding-element visitor, the enum-value classifier).
// Nodes are tagged variants over a flat struct, per SPEC_FULL.md's
// design notes: no interface hierarchy, no virtual dispatch, dispatch
// is an exhaustive switch over Kind. The arena allocation strategy is
// grounded on the teacher's pkg/parser/arena.go, generalized from one
// pool per concrete Go struct type to one pool of the single flat
// Expression type (since every node here shares a layout).
package ast

import (
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// Kind tags which variant an Expression represents (spec §3).
type Kind int

const (
	Variable Kind = iota
	Literal
	Assignment
	CompoundAssignment
	Call
	Array
	Object
	Spread
	Paren
	ParenEmpty
	ArrowFunction
	Function
	NamedFunction
	Class
	New
	Delete
	Typeof
	Await
	YieldOne
	YieldMany
	YieldNone
	Dot
	Index
	PrivateVariable
	Conditional
	ConditionalAssignment
	UnaryOperator
	BinaryOperator
	RWUnaryPrefix
	RWUnarySuffix
	TrailingComma
	NonNullAssertion
	TypeAnnotated
	TaggedTemplateLiteral
	Template
	JSXElement
	Missing
	Invalid
)

// Property is one entry of an Object expression: `key: value`,
// `...spread`, or a shorthand `{key}` (Value == nil).
type Property struct {
	Key       *Expression
	Value     *Expression
	Computed  bool
	Shorthand bool
	IsSpread  bool
}

// Expression is the single tagged-variant node type. Which fields are
// meaningful depends on Kind:
//
//	Variable, PrivateVariable       -> Name
//	Literal                         -> Name (literal text), TypeText (number|bigint|string|regexp|boolean|null)
//	Assignment, CompoundAssignment,
//	ConditionalAssignment           -> Children[0]=lhs, Children[1]=rhs, Operator
//	BinaryOperator                  -> Children[0], Children[1], Operator
//	UnaryOperator, RWUnaryPrefix,
//	RWUnarySuffix, Delete, Typeof,
//	Await, YieldOne, NonNullAssertion -> Children[0], Operator
//	YieldMany                       -> Children[0] (the iterable)
//	Call, New                       -> Children[0]=callee, Children[1:]=args
//	Array                           -> Children (elements; a Spread wraps a rest element)
//	Object                          -> Properties
//	Spread, Paren, TrailingComma    -> Children[0]
//	ArrowFunction, Function,
//	NamedFunction                   -> Children=params, TypeText=
//	                                   "async"|"generator"|"async-generator"|""
//	                                   for modifiers. A braced body
//	                                   (HasBody) was already parsed and
//	                                   visited into BufferedBody, to be
//	                                   replayed once the caller's walk
//	                                   reaches visit_enter_function_scope_body
//	                                   (spec §5's buffering-visitor-stack
//	                                   mechanism, reused here to resolve the
//	                                   ordering hazard between a function
//	                                   expression's parameters, which are
//	                                   only visited on this node's *later*
//	                                   walk, and its body, which is parsed
//	                                   and visited eagerly). A brace-less
//	                                   ArrowFunction instead carries its
//	                                   body as ConciseBody.
//	Dot                             -> Children[0]=object, Name=property
//	Index                           -> Children[0]=object, Children[1]=index
//	Conditional                     -> Children[0]=test,[1]=consequent,[2]=alternate
//	TypeAnnotated                   -> Children[0]=value, TypeText
//	Template                        -> Children=substitutions
//	TaggedTemplateLiteral           -> Children[0]=tag, Children[1:]=substitutions
type Expression struct {
	Kind       Kind
	Span       source.Span
	Name       string
	TypeText   string
	Operator   token.Type
	Children   []*Expression
	Properties []Property
	HasBody    bool // true when a function-shaped node carries a statement body

	// ConciseBody is the body of a brace-less ArrowFunction.
	ConciseBody *Expression

	// BufferedBody holds the already-visited events of a braced
	// function/arrow/class body, replayed by the caller once it
	// reaches the right point in this node's own visit. Nil unless
	// HasBody is true and a statement-level collaborator parsed it.
	BufferedBody *visitor.Buffering
}

// ASTArena provides arena-style allocation for Expression nodes,
// avoiding one heap allocation per AST node during a parse. Call
// Reset between parses to reuse the arena's backing memory, matching
// the teacher's ASTArena.Reset.
type ASTArena struct {
	pool []Expression
}

// NewASTArena creates a new arena with pre-allocated capacity, sized
// the same way the teacher pre-sizes its per-kind pools.
func NewASTArena() *ASTArena {
	return &ASTArena{pool: make([]Expression, 0, 512)}
}

// Reset clears the arena for reuse, keeping backing memory allocated.
func (a *ASTArena) Reset() {
	a.pool = a.pool[:0]
}

// New allocates a zeroed Expression of the given kind from the arena.
func (a *ASTArena) New(kind Kind, span source.Span) *Expression {
	a.pool = append(a.pool, Expression{Kind: kind, Span: span})
	return &a.pool[len(a.pool)-1]
}
