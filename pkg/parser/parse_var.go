package parser

import (
	"github.com/adrperez5/lintparse/pkg/ast"
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/exprparser"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// letBindingFlags carries the three parameters spec §4.2.1 threads
// into a variable-declaration parse: whether a bare `in` should end an
// initializer expression, whether a `const` binding may omit its
// initializer (set for `var` statements and for the declaration after
// `export default`), and whether this
// declaration is itself a for-loop initializer (which relaxes the
// same-line comma/semicolon expectations a standalone declaration has).
type letBindingFlags struct {
	allowIn                      bool
	allowConstWithoutInitializer bool
	isInForInitializer           bool
}

func variableKindOf(t token.Type) visitor.VariableKind {
	switch t {
	case token.KwLet:
		return visitor.KindLet
	case token.KwConst:
		return visitor.KindConst
	default:
		return visitor.KindVar
	}
}

func canStartBinding(t token.Type) bool {
	switch t {
	case token.LeftSquare, token.LeftCurly:
		return true
	default:
		return token.IsIdentifierShaped(t)
	}
}

// parseLetBindings parses the comma-separated binding list of a
// var/let/const declaration (spec §4.2.1) and emits its declaration
// events via visitBindingElement. declTok is the already-consumed
// declaring keyword.
func (p *Parser) parseLetBindings(v visitor.Visitor, declTok token.Token, flags letBindingFlags) {
	kind := variableKindOf(declTok.Type)
	count := 0
	for {
		tok := p.l.Peek()
		if !canStartBinding(tok.Type) {
			if count == 0 {
				p.report(diag.LetWithNoBindings, "variable declaration has no bindings", declTok.Span)
			} else {
				p.report(diag.StrayCommaInLetStatement, "stray comma in variable declaration", tok.Span)
			}
			break
		}

		target := p.expr.ParseAssignment(p.exprContext(flags.allowIn))
		count++

		if tok.Type == token.Number || tok.Type == token.String || target.Kind == ast.Literal {
			p.report(diag.UnexpectedTokenInVariableDeclaration, "unexpected token in variable declaration", target.Span)
			if target.Kind != ast.Assignment {
				p.l.InsertSemicolon()
				break
			}
		}

		hasInitializer := target.Kind == ast.Assignment && target.Operator == token.Equal
		if kind == visitor.KindConst && !hasInitializer && !flags.allowConstWithoutInitializer && !flags.isInForInitializer {
			p.report(diag.MissingInitializerInConstDeclaration, "const declaration must have an initializer", target.Span)
		}

		initKind := visitor.Normal
		if hasInitializer {
			initKind = visitor.InitializedWithEquals
		}
		p.visitBindingElement(v, target, kind, initKind)

		next := p.l.Peek()
		if next.Type == token.Comma {
			p.l.Skip()
			continue
		}
		if !flags.isInForInitializer && !next.HasLeadingNewline && canStartBinding(next.Type) {
			p.report(diag.MissingCommaBetweenVariableDeclarations, "missing comma between variable declarations", next.Span)
			continue
		}
		break
	}
}

// visitBindingElement is the binding-element visitor of spec §4.2.2: it
// walks a parsed expression tree representing a (possibly nested,
// possibly malformed) binding target, emitting declaration/use events
// and reporting the shape-specific diagnostic from the table for
// anything that cannot legally appear there.
func (p *Parser) visitBindingElement(v visitor.Visitor, e *ast.Expression, kind visitor.VariableKind, init visitor.InitKind) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.Variable:
		if token.IsStrictKeywordName(e.Name) {
			p.report(diag.CannotDeclareVariableWithKeywordName, "cannot declare a variable named '"+e.Name+"'", e.Span)
		}
		if e.Name == "let" && (kind == visitor.KindLet || kind == visitor.KindConst) {
			p.report(diag.CannotDeclareVariableNamedLetWithLet, "cannot declare a variable named 'let' with 'let' or 'const'", e.Span)
		}
		v.VisitVariableDeclaration(e.Name, e.Span, kind, init)
	case ast.Array:
		for _, c := range e.Children {
			p.visitBindingElement(v, c, kind, visitor.Normal)
		}
	case ast.Object:
		for _, prop := range e.Properties {
			if prop.Computed {
				exprparser.VisitExpression(prop.Key, v)
			}
			if prop.Value != nil {
				p.visitBindingElement(v, prop.Value, kind, visitor.Normal)
			} else {
				p.visitBindingElement(v, prop.Key, kind, visitor.Normal)
			}
		}
	case ast.Spread:
		if len(e.Children) > 0 {
			p.visitBindingElement(v, e.Children[0], kind, visitor.Normal)
		}
	case ast.Assignment:
		exprparser.VisitExpression(e.Children[1], v)
		p.visitBindingElement(v, e.Children[0], kind, visitor.InitializedWithEquals)
	case ast.CompoundAssignment:
		if kind == visitor.KindParameter {
			p.report(diag.InvalidParameter, "invalid parameter", e.Span)
		} else {
			p.report(diag.CannotUpdateVariableDuringDeclaration, "cannot update a variable during its own declaration", e.Span)
		}
		p.visitBindingElement(v, e.Children[0], kind, init)
	case ast.Await:
		p.report(diag.CannotDeclareAwaitDuringDeclaration, "cannot declare a variable named 'await' here", e.Span)
		v.VisitVariableDeclaration("await", e.Span, kind, init)
	case ast.YieldNone:
		p.report(diag.CannotDeclareYieldDuringDeclaration, "cannot declare a variable named 'yield' here", e.Span)
		v.VisitVariableDeclaration("yield", e.Span, kind, init)
	case ast.NonNullAssertion:
		p.report(diag.NonNullAssertionNotAllowedInParameter, "non-null assertion not allowed here", e.Span)
		if len(e.Children) > 0 {
			p.visitBindingElement(v, e.Children[0], kind, init)
		}
	case ast.TrailingComma:
		p.report(diag.StrayCommaInParameter, "stray comma", e.Span)
		if len(e.Children) > 0 {
			p.visitBindingElement(v, e.Children[0], kind, init)
		}
	case ast.Paren:
		if len(e.Children) > 0 {
			p.visitBindingElement(v, e.Children[0], kind, init)
		}
	case ast.TypeAnnotated:
		if len(e.Children) > 0 {
			p.visitBindingElement(v, e.Children[0], kind, init)
		}
	case ast.Literal:
		p.report(diag.UnexpectedLiteralInParameterList, "unexpected literal in binding", e.Span)
	default:
		p.report(diag.InvalidParameter, "invalid binding target", e.Span)
	}
}
