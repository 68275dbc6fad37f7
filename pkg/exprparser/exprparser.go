// Package exprparser is the expression sub-parser described as the
// statement-level parser's external collaborator: every statement
// construct that embeds an expression (an initializer, a condition, a
// for-loop head, a call argument list) hands the cursor to this
// package and gets back an *ast.Expression plus a finished lexer
// position. It never consumes a trailing semicolon and never decides
// ASI; that remains the statement dispatcher's job.
//
// Grounded on the teacher's pkg/parser/parser.go Pratt-parser design:
// a precedence table plus per-token prefix/infix parse functions,
// generalized from the teacher's own Statement/Expression interface
// hierarchy to the ast.Expression tagged-variant arena.
package exprparser

import (
	"github.com/adrperez5/lintparse/pkg/ast"
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/lexer"
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// Context carries the grammatical parameters an expression parse
// needs from its caller, mirroring the contextual parameters threaded
// through the teacher's recursive-descent methods (inGenerator,
// inAsyncFunction) but expressed as an explicit value instead of
// parser-wide counters, since exprparser has no scope stack of its
// own.
type Context struct {
	// AllowIn is false inside a for-loop head, where a bare `in`
	// token must end the expression instead of being parsed as the
	// relational operator (spec §6's for-statement disambiguation).
	AllowIn bool
	InAsync bool
	InGenerator bool

	// ParseBlock is supplied by the statement-level parser so that a
	// function or arrow body encountered mid-expression is parsed by
	// the statement dispatcher (which owns scoping and visitor
	// emission for statement lists) rather than re-implemented here.
	// It must consume the body's `{ ... }`, return its span, and
	// return the Buffering its statements were visited into (see
	// ast.Expression.BufferedBody).
	ParseBlock func() (source.Span, *visitor.Buffering)
}

// Parser parses a single expression from a shared lexer cursor. It
// holds no state across calls other than the arena it allocates into.
type Parser struct {
	l          *lexer.Lexer
	arena      *ast.ASTArena
	reporter   diag.Reporter
	src        *source.SourceFile
	typeScript bool
}

// New creates an expression parser sharing l's cursor with whatever
// statement-level parser owns it. typeScript controls whether a
// trailing `: type` after a parenthesized parameter/argument is
// consumed as a TypeScript type annotation (spec §4.2.1).
func New(l *lexer.Lexer, arena *ast.ASTArena, reporter diag.Reporter, src *source.SourceFile, typeScript bool) *Parser {
	return &Parser{l: l, arena: arena, reporter: reporter, src: src, typeScript: typeScript}
}

// Parse parses one expression, including the comma operator, at the
// lowest precedence. This is what a for-loop init/update clause uses.
func (p *Parser) Parse(ctx Context) *ast.Expression {
	return p.parseExpr(ctx, Lowest)
}

// ParseAssignment parses one AssignmentExpression: anything above the
// comma operator. This is what a variable initializer, a call
// argument, and an array/object element use.
func (p *Parser) ParseAssignment(ctx Context) *ast.Expression {
	return p.parseExpr(ctx, Comma)
}

func (p *Parser) errorExpected(tok token.Token, what string) {
	p.reporter.Report(diag.Diagnostic{
		Code:     diag.UnexpectedToken,
		Severity: diag.SeverityError,
		Message:  "expected " + what + ", got " + tok.Type.Name(),
		Spans:    []source.Span{tok.Span},
		Source:   p.src,
	})
}

func (p *Parser) expect(t token.Type, what string) token.Token {
	tok := p.l.Peek()
	if tok.Type != t {
		p.errorExpected(tok, what)
		return tok
	}
	p.l.Skip()
	return tok
}

// missing produces an Invalid node spanning the offending token, so
// that callers can keep walking the tree instead of aborting the
// parse outright.
func (p *Parser) missing(tok token.Token) *ast.Expression {
	return p.arena.New(ast.Invalid, tok.Span)
}

// parseExpr is the Pratt-parser climb: parse one prefix operand, then
// repeatedly fold in infix/postfix operators whose precedence exceeds
// minPrec.
func (p *Parser) parseExpr(ctx Context, minPrec int) *ast.Expression {
	left := p.parsePrefix(ctx)
	for {
		tok := p.l.Peek()
		if !ctx.AllowIn && tok.Type == token.KwIn {
			return left
		}
		prec := precedenceOf(tok.Type)
		if prec <= minPrec {
			return left
		}
		next := p.parseInfix(ctx, tok, left)
		if next == left {
			return left
		}
		left = next
	}
}

// VisitExpression walks a parsed expression tree and drives v with
// the use/assignment/declaration events spec §3 describes, the way
// the statement-level parser replays a buffering visitor after the
// fact. Call sites that need the events in evaluation order rather
// than AST order should route v through a visitor.Buffering first.
func VisitExpression(e *ast.Expression, v visitor.Visitor) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.Variable:
		v.VisitVariableUse(e.Name, e.Span)
	case ast.PrivateVariable, ast.Literal, ast.Missing, ast.Invalid:
		// no binding or use to report
	case ast.Assignment, ast.CompoundAssignment, ast.ConditionalAssignment:
		if token.IsCompoundAssignment(e.Operator) || token.IsConditionalAssignment(e.Operator) {
			VisitExpression(e.Children[0], v)
		}
		visitAssignmentTarget(e.Children[0], v)
		VisitExpression(e.Children[1], v)
	case ast.BinaryOperator:
		VisitExpression(e.Children[0], v)
		VisitExpression(e.Children[1], v)
	case ast.UnaryOperator, ast.Delete, ast.Typeof, ast.Await, ast.YieldOne,
		ast.NonNullAssertion, ast.Spread, ast.Paren, ast.TrailingComma, ast.TypeAnnotated:
		if len(e.Children) > 0 {
			VisitExpression(e.Children[0], v)
		}
	case ast.RWUnaryPrefix, ast.RWUnarySuffix:
		VisitExpression(e.Children[0], v)
		visitAssignmentTarget(e.Children[0], v)
	case ast.YieldMany:
		if len(e.Children) > 0 {
			VisitExpression(e.Children[0], v)
		}
	case ast.Call, ast.New, ast.Array, ast.Template, ast.TaggedTemplateLiteral:
		for _, c := range e.Children {
			VisitExpression(c, v)
		}
	case ast.Object:
		for _, prop := range e.Properties {
			if prop.Computed {
				VisitExpression(prop.Key, v)
			}
			if prop.Value != nil {
				VisitExpression(prop.Value, v)
			} else {
				VisitExpression(prop.Key, v)
			}
		}
	case ast.Dot:
		VisitExpression(e.Children[0], v)
	case ast.Index:
		VisitExpression(e.Children[0], v)
		VisitExpression(e.Children[1], v)
	case ast.Conditional:
		for _, c := range e.Children {
			VisitExpression(c, v)
		}
	case ast.ArrowFunction, ast.Function, ast.NamedFunction:
		visitFunctionLike(e, v)
	case ast.Class:
		v.VisitEnterScope(visitor.ScopeClass)
		if len(e.Children) > 0 {
			VisitExpression(e.Children[0], v) // heritage clause, if present
		}
		v.VisitExitScope(visitor.ScopeClass)
	}
}

func visitFunctionLike(e *ast.Expression, v visitor.Visitor) {
	v.VisitEnterScope(visitor.ScopeFunction)
	for _, param := range e.Children {
		visitBindingTarget(param, v, visitor.KindParameter)
	}
	if e.HasBody {
		v.VisitEnterFunctionScopeBody()
		if e.BufferedBody != nil {
			e.BufferedBody.MoveInto(v)
		}
	} else if e.ConciseBody != nil {
		v.VisitEnterFunctionScopeBody()
		VisitExpression(e.ConciseBody, v)
	}
	v.VisitExitScope(visitor.ScopeFunction)
}

// visitAssignmentTarget reports the use/assignment events for the
// left-hand side of `=`, a compound assignment, `++x`, or `x++`,
// recursing into array/object destructuring targets.
func visitAssignmentTarget(target *ast.Expression, v visitor.Visitor) {
	if target == nil {
		return
	}
	switch target.Kind {
	case ast.Variable:
		v.VisitVariableAssignment(target.Name, target.Span)
	case ast.Array:
		for _, c := range target.Children {
			visitAssignmentTarget(c, v)
		}
	case ast.Object:
		for _, prop := range target.Properties {
			if prop.Computed {
				VisitExpression(prop.Key, v)
			}
			if prop.Value != nil {
				visitAssignmentTarget(prop.Value, v)
			} else {
				visitAssignmentTarget(prop.Key, v)
			}
		}
	case ast.Spread:
		if len(target.Children) > 0 {
			visitAssignmentTarget(target.Children[0], v)
		}
	case ast.Assignment:
		// destructuring default: `{ x = 1 }`
		visitAssignmentTarget(target.Children[0], v)
		VisitExpression(target.Children[1], v)
	case ast.Dot, ast.Index:
		VisitExpression(target, v)
	default:
		VisitExpression(target, v)
	}
}

// visitBindingTarget reports a declaration event for a parameter (or
// nested destructuring element within one) instead of a use. This is
// a reduced-scope sibling of the statement-level binding-element
// visitor: it only ever sees parameter lists, never var/let/const
// declarators or catch clauses, so it never needs a VariableKind
// other than the one its caller passes in.
func visitBindingTarget(target *ast.Expression, v visitor.Visitor, kind visitor.VariableKind) {
	if target == nil {
		return
	}
	switch target.Kind {
	case ast.Variable:
		v.VisitVariableDeclaration(target.Name, target.Span, kind, visitor.Normal)
	case ast.Array:
		for _, c := range target.Children {
			visitBindingTarget(c, v, kind)
		}
	case ast.Object:
		for _, prop := range target.Properties {
			if prop.Computed {
				VisitExpression(prop.Key, v)
			}
			if prop.Value != nil {
				visitBindingTarget(prop.Value, v, kind)
			} else {
				visitBindingTarget(prop.Key, v, kind)
			}
		}
	case ast.Spread:
		if len(target.Children) > 0 {
			visitBindingTarget(target.Children[0], v, kind)
		}
	case ast.Assignment:
		visitBindingTarget(target.Children[0], v, kind)
		VisitExpression(target.Children[1], v)
	case ast.TypeAnnotated:
		if len(target.Children) > 0 {
			visitBindingTarget(target.Children[0], v, kind)
		}
	}
}
