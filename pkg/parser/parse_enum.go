package parser

import (
	"github.com/adrperez5/lintparse/pkg/ast"
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/exprparser"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// enumValueKind is the result of the enum-value classifier (spec
// §4.2.5): how "safe" an enum member's initializer is for a
// declared-const enum to accept.
type enumValueKind int

const (
	enumConstant enumValueKind = iota
	enumComputed
	enumUnknown
)

// worstOf returns whichever of a, b is furthest from enumConstant,
// matching the classifier's unknown > computed > constant ordering.
func worstOf(a, b enumValueKind) enumValueKind {
	if a > b {
		return a
	}
	return b
}

// classifyEnumValue recursively classifies an enum member initializer
// expression, per spec §4.2.5's enum-value classifier: a literal is
// constant, a call is computed, a binary operator or parenthesized
// expression inherits the worst of its children, everything else is
// unknown.
func classifyEnumValue(e *ast.Expression) enumValueKind {
	if e == nil {
		return enumUnknown
	}
	switch e.Kind {
	case ast.Literal:
		return enumConstant
	case ast.Call:
		return enumComputed
	case ast.BinaryOperator, ast.Paren:
		kind := enumConstant
		for _, c := range e.Children {
			kind = worstOf(kind, classifyEnumValue(c))
		}
		return kind
	default:
		return enumUnknown
	}
}

// parseEnumDeclaration parses `enum E { member [= expr], ... }` (spec
// §4.2.5). flavor distinguishes the four declare/const combinations
// the ambiguous-head handlers have already resolved.
func (p *Parser) parseEnumDeclaration(v visitor.Visitor, flavor EnumKind) {
	enumTok := p.l.Peek()
	p.l.Skip() // 'enum'
	if !p.opts.TypeScript {
		p.report(diag.TypeScriptEnumNotAllowedInJavaScript, "TypeScript enums are not allowed in JavaScript", enumTok.Span)
	}

	var name string
	if token.IsIdentifierShaped(p.l.Peek().Type) {
		nameTok := p.l.Peek()
		name = identifierTextOf(nameTok, p)
		p.l.Skip()
		v.VisitVariableDeclaration(name, nameTok.Span, visitor.KindEnum, visitor.Normal)
	} else {
		p.report(diag.UnexpectedToken, "missing name in enum statement", p.l.Peek().Span)
	}

	v.VisitEnterScope(visitor.ScopeEnum)
	if p.l.Peek().Type == token.LeftCurly {
		p.parseEnumBody(v, flavor)
	} else {
		p.report(diag.UnexpectedToken, "expected '{' to begin enum body", p.l.Peek().Span)
	}
	v.VisitExitScope(visitor.ScopeEnum)
}

func (p *Parser) parseEnumBody(v visitor.Visitor, flavor EnumKind) {
	begin := p.l.Peek().Span
	p.l.Skip() // '{'
	isConstEnum := flavor == EnumDeclareConst || flavor == EnumConst
	prevWasComputed := false

	for p.l.Peek().Type != token.RightCurly {
		tok := p.l.Peek()
		if tok.Type == token.EndOfFile {
			p.report(diag.UnclosedCodeBlock, "unclosed code block", begin)
			break
		}

		memberSpan := tok.Span
		switch tok.Type {
		case token.LeftSquare:
			p.l.Skip()
			key := p.expr.ParseAssignment(p.exprContext(true))
			exprparser.VisitExpression(key, v)
			p.expect(token.RightSquare, "']'")
		case token.Number:
			p.report(diag.UnexpectedToken, "numeric enum member names are not allowed", tok.Span)
			p.l.Skip()
		case token.String:
			p.l.Skip()
		default:
			if !token.IsIdentifierShaped(tok.Type) {
				p.report(diag.UnexpectedToken, "expected enum member name", tok.Span)
				p.l.Skip()
				break
			}
			p.l.Skip()
		}

		hasValue := p.l.Peek().Type == token.Equal
		if hasValue {
			p.l.Skip()
			value := p.expr.ParseAssignment(p.exprContext(true))
			exprparser.VisitExpression(value, v)
			kind := classifyEnumValue(value)
			if isConstEnum && kind != enumConstant {
				p.report(diag.TypeScriptEnumValueMustBeConstant, "a const enum member's value must be a constant expression", memberSpan)
			}
			prevWasComputed = kind == enumComputed
		} else {
			if prevWasComputed && !isConstEnum {
				p.report(diag.TypeScriptEnumAutoMemberNeedsInitializerAfterComputed, "an auto-valued enum member cannot follow a computed member without its own initializer", memberSpan)
			}
			prevWasComputed = false
		}

		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
			continue
		}
		break
	}
	if p.l.Peek().Type == token.RightCurly {
		p.l.Skip()
	} else {
		p.report(diag.UnclosedCodeBlock, "unclosed code block", begin)
	}
}

// parseTypeAliasDeclaration parses `type Name [<T>] = <type-expr> ;`
// (spec §4.2.5), the continuation after the ambiguous-head handler has
// already consumed the `type` keyword.
func (p *Parser) parseTypeAliasDeclaration(v visitor.Visitor) {
	nameTok := p.l.Peek()
	name := identifierTextOf(nameTok, p)
	p.l.Skip()
	v.VisitVariableDeclaration(name, nameTok.Span, visitor.KindTypeAlias, visitor.Normal)

	v.VisitEnterScope(visitor.ScopeTypeAlias)
	p.parseOptionalGenericParameters(v)
	if p.l.Peek().Type == token.Equal {
		p.l.Skip()
		p.parseTypeAnnotationStub()
	} else {
		p.report(diag.UnexpectedToken, "expected '=' in type alias", p.l.Peek().Span)
	}
	v.VisitExitScope(visitor.ScopeTypeAlias)
	p.consumeSemicolonAfterStatement()
}

// parseInterfaceDeclaration parses `interface Name [<T>] [extends ...] { members }`
// (spec §4.2.5, §4.2.3's scope-sequence note). Interface method bodies
// are accepted syntactically and reported, matching a class's
// recovery-friendly posture elsewhere in the grammar.
func (p *Parser) parseInterfaceDeclaration(v visitor.Visitor) {
	ifaceTok := p.l.Peek()
	p.l.Skip() // 'interface'
	if !p.opts.TypeScript {
		p.report(diag.TypeScriptInterfaceNotAllowedInJavaScript, "TypeScript interfaces are not allowed in JavaScript", ifaceTok.Span)
	}

	if token.IsIdentifierShaped(p.l.Peek().Type) {
		nameTok := p.l.Peek()
		v.VisitVariableDeclaration(identifierTextOf(nameTok, p), nameTok.Span, visitor.KindInterface, visitor.Normal)
		p.l.Skip()
	} else {
		p.report(diag.UnexpectedToken, "missing name in interface statement", p.l.Peek().Span)
	}

	v.VisitEnterScope(visitor.ScopeInterface)
	p.parseOptionalGenericParameters(v)
	if p.l.Peek().Type == token.KwExtends {
		p.l.Skip()
		for {
			p.parseTypeAnnotationStub()
			if p.l.Peek().Type == token.Comma {
				p.l.Skip()
				continue
			}
			break
		}
	}
	p.parseInterfaceBody(v)
	v.VisitExitScope(visitor.ScopeInterface)
}

func (p *Parser) parseInterfaceBody(v visitor.Visitor) {
	begin := p.l.Peek().Span
	if p.l.Peek().Type != token.LeftCurly {
		p.report(diag.UnexpectedToken, "expected '{' to begin interface body", p.l.Peek().Span)
		return
	}
	p.l.Skip() // '{'
	for p.l.Peek().Type != token.RightCurly {
		tok := p.l.Peek()
		if tok.Type == token.EndOfFile {
			p.report(diag.UnclosedCodeBlock, "unclosed code block", begin)
			break
		}
		if tok.Type == token.Semicolon || tok.Type == token.Comma {
			p.l.Skip()
			continue
		}
		p.parseInterfaceMember(v)
	}
	if p.l.Peek().Type == token.RightCurly {
		p.l.Skip()
	}
}

// parseInterfaceMember parses one method signature, property
// signature, or (minimally) index signature, reusing the class
// member-name lookahead machinery.
func (p *Parser) parseInterfaceMember(v visitor.Visitor) {
	if p.l.Peek().Type == token.LeftSquare {
		tx := p.l.BeginTransaction()
		p.l.Skip()
		looksLikeIndexSignature := token.IsIdentifierShaped(p.l.Peek().Type)
		if looksLikeIndexSignature {
			p.l.Skip()
			looksLikeIndexSignature = p.l.Peek().Type == token.Colon
		}
		p.l.RollBackTransaction(tx)
		if looksLikeIndexSignature {
			p.parseIndexSignature(v)
			return
		}
	}

	_, computed, keyExpr := p.parseClassMemberName()
	if computed {
		exprparser.VisitExpression(keyExpr, v)
	}
	if p.l.Peek().Type == token.Question {
		p.l.Skip()
	}

	if p.l.Peek().Type == token.LeftParen || p.l.Peek().Type == token.Less {
		v.VisitEnterScope(visitor.ScopeFunction)
		p.parseOptionalGenericParameters(v)
		p.parseParameterList(v)
		if p.l.Peek().Type == token.Colon {
			p.l.Skip()
			p.parseTypeAnnotationStub()
		}
		if p.l.Peek().Type == token.LeftCurly {
			p.report(diag.InterfaceMethodsCannotContainBodies, "interface methods cannot contain bodies", p.l.Peek().Span)
			p.parseFunctionBodyStatements(v)
		} else {
			p.consumeSemicolonAfterStatement()
		}
		v.VisitExitScope(visitor.ScopeFunction)
		return
	}

	if p.l.Peek().Type == token.Colon {
		p.l.Skip()
		p.parseTypeAnnotationStub()
	}
	p.consumeSemicolonAfterStatement()
}

// parseIndexSignature parses `[key: string]: T`, a TypeScript-only
// member shape distinct enough from a computed property name to need
// its own scope kind (spec §3's scope-kind list).
func (p *Parser) parseIndexSignature(v visitor.Visitor) {
	v.VisitEnterScope(visitor.ScopeIndexSignature)
	p.l.Skip() // '['
	keyTok := p.l.Peek()
	p.l.Skip()
	v.VisitVariableDeclaration(identifierTextOf(keyTok, p), keyTok.Span, visitor.KindParameter, visitor.Normal)
	p.expect(token.Colon, "':'")
	p.parseTypeAnnotationStub()
	p.expect(token.RightSquare, "']'")
	v.VisitExitScope(visitor.ScopeIndexSignature)
	if p.l.Peek().Type == token.Colon {
		p.l.Skip()
		p.parseTypeAnnotationStub()
	}
	p.consumeSemicolonAfterStatement()
}

// parseNamespaceDeclaration parses `namespace|module Name { body }`
// (spec §4.2.5 names the declaration but not its scope kind; spec §3's
// scope-kind list has no dedicated namespace scope, so its body uses
// the same block-scope shape as any other curly-braced statement list).
func (p *Parser) parseNamespaceDeclaration(v visitor.Visitor) {
	nameTok := p.l.Peek()
	name := identifierTextOf(nameTok, p)
	p.l.Skip()
	v.VisitVariableDeclaration(name, nameTok.Span, visitor.KindNamespace, visitor.Normal)

	for p.l.Peek().Type == token.Dot {
		p.l.Skip()
		if token.IsIdentifierShaped(p.l.Peek().Type) {
			p.l.Skip()
		}
	}

	v.VisitEnterScope(visitor.ScopeBlock)
	if p.l.Peek().Type == token.LeftCurly {
		p.l.Skip()
		begin := nameTok.Span
		for p.l.Peek().Type != token.RightCurly {
			if p.l.Peek().Type == token.EndOfFile {
				p.report(diag.UnclosedCodeBlock, "unclosed code block", begin)
				break
			}
			p.ParseAndVisitStatement(v, AnyStatementInBlock)
		}
		if p.l.Peek().Type == token.RightCurly {
			p.l.Skip()
		}
	} else {
		p.report(diag.UnexpectedToken, "expected '{' to begin namespace body", p.l.Peek().Span)
	}
	v.VisitExitScope(visitor.ScopeBlock)
}
