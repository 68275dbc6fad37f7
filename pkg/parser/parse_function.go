package parser

import (
	"github.com/adrperez5/lintparse/pkg/ast"
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// nameRequirement governs which diagnostic (if any) a nameless
// function/class declaration gets, per spec §4.2.3.
type nameRequirement int

const (
	requiredForStatement nameRequirement = iota
	requiredForExport
	optionalName
)

func identifierTextOf(tok token.Token, p *Parser) string {
	if tok.IdentifierName != "" {
		return tok.IdentifierName
	}
	return p.src.Content[tok.Span.Begin:tok.Span.End]
}

// parseFunctionDeclaration parses `function [*] [name] [<T>] (params) [:T] { body }`
// (spec §4.2.3) from the `function` keyword.
func (p *Parser) parseFunctionDeclaration(v visitor.Visitor, req nameRequirement, isAsync bool) {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // 'function'
	isGenerator := false
	if p.l.Peek().Type == token.Star {
		p.l.Skip()
		isGenerator = true
	}
	p.parseFunctionDeclarationBody(v, req, isAsync, isGenerator, begin)
}

// parseFunctionDeclarationGenerator is the continuation used by
// tryParseFunctionWithLeadingStar: the caller has already committed a
// transaction that consumed a leading `*`, so the generator flag is
// already known and only the `function` keyword remains to be skipped.
func (p *Parser) parseFunctionDeclarationGenerator(v visitor.Visitor, req nameRequirement, isAsync, leadingStar bool) {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // 'function'
	p.parseFunctionDeclarationBody(v, req, isAsync, leadingStar, begin)
}

func (p *Parser) parseFunctionDeclarationBody(v visitor.Visitor, req nameRequirement, isAsync, isGenerator bool, begin int) {
	var name string
	var nameSpan source.Span
	hasName := false
	if token.IsIdentifierShaped(p.l.Peek().Type) {
		nameTok := p.l.Peek()
		name = identifierTextOf(nameTok, p)
		nameSpan = nameTok.Span
		hasName = true
		p.l.Skip()
	}
	if p.l.Peek().Type == token.Star {
		p.report(diag.GeneratorFunctionStarBelongsBeforeName, "the '*' of a generator function belongs before the name", p.l.Peek().Span)
		p.l.Skip()
		isGenerator = true
	}
	if !hasName && req != optionalName {
		p.report(diag.MissingNameInFunctionStatement, "missing name in function statement", p.l.Peek().Span)
	}

	p.parseOptionalGenericParameters(v)

	if p.l.Peek().Type != token.LeftParen {
		if p.l.Peek().Type == token.LeftCurly {
			p.report(diag.MissingFunctionParameterList, "missing function parameter list", p.l.Peek().Span)
		} else {
			p.report(diag.UnexpectedToken, "expected '(' to begin parameter list", p.l.Peek().Span)
		}
	}

	restoreAsync := p.withAsync(isAsync)
	defer restoreAsync()
	restoreGen := p.withGenerator(isGenerator)
	defer restoreGen()

	if hasName {
		v.VisitVariableDeclaration(name, nameSpan, visitor.KindFunction, visitor.Normal)
	}

	v.VisitEnterScope(visitor.ScopeFunction)
	p.parseParameterList(v)

	if p.opts.TypeScript && p.l.Peek().Type == token.Colon {
		p.l.Skip()
		p.parseTypeAnnotationStub()
	}
	if p.l.Peek().Type == token.Arrow {
		p.report(diag.FunctionsOrMethodsShouldNotHaveArrowOperator, "functions and methods should not have an arrow operator", p.l.Peek().Span)
		p.l.Skip()
	}
	if p.l.Peek().Type == token.LeftCurly {
		v.VisitEnterFunctionScopeBody()
		p.parseFunctionBodyStatements(v)
	} else {
		p.report(diag.UnexpectedToken, "expected function body", p.l.Peek().Span)
	}
	v.VisitExitScope(visitor.ScopeFunction)
	_ = begin
}

// parseParameterList parses `( params )`, walking each parameter
// through the shared binding-element visitor with kind _parameter
// (spec §4.2.2, §4.2.3).
func (p *Parser) parseParameterList(v visitor.Visitor) {
	if p.l.Peek().Type != token.LeftParen {
		return
	}
	p.l.Skip() // '('
	sawSpread := false
	for p.l.Peek().Type != token.RightParen {
		if p.l.Peek().Type == token.EndOfFile {
			p.report(diag.UnexpectedToken, "unterminated parameter list", p.l.Peek().Span)
			break
		}
		target := p.expr.ParseAssignment(p.exprContext(true))
		sawSpread = target.Kind == ast.Spread
		if p.opts.TypeScript && p.l.Peek().Type == token.Colon {
			target = p.wrapWithTypeAnnotation(target)
		}
		init := visitor.Normal
		if target.Kind == ast.Assignment && target.Operator == token.Equal {
			init = visitor.InitializedWithEquals
		}
		p.visitBindingElement(v, target, visitor.KindParameter, init)
		if p.l.Peek().Type == token.Comma {
			commaTok := p.l.Peek()
			p.l.Skip()
			if sawSpread {
				p.report(diag.CommaNotAllowedAfterSpreadParameter, "a comma is not allowed after a rest parameter", commaTok.Span)
			}
			continue
		}
		break
	}
	if p.l.Peek().Type == token.RightParen {
		p.l.Skip()
	} else {
		p.report(diag.UnexpectedToken, "expected ')' to end parameter list", p.l.Peek().Span)
	}
}

// parseFunctionBodyStatements parses the `{ ... }` of a function whose
// surrounding scope events the caller has already emitted.
func (p *Parser) parseFunctionBodyStatements(v visitor.Visitor) {
	begin := p.l.Peek().Span
	p.l.Skip() // '{'
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
}

// parseOptionalGenericParameters parses a TypeScript `<T, U extends V>`
// generic parameter list, if present, emitting each parameter as a
// _generic_parameter declaration (spec §4.2.3). Non-TypeScript `<` is
// left untouched for the expression grammar to treat as `less-than`.
func (p *Parser) parseOptionalGenericParameters(v visitor.Visitor) {
	if !p.opts.TypeScript || p.l.Peek().Type != token.Less {
		return
	}
	p.l.Skip() // '<'
	if p.l.Peek().Type == token.Greater {
		p.report(diag.TypeScriptGenericParameterListIsEmpty, "TypeScript generic parameter list is empty", p.l.Peek().Span)
		p.l.Skip()
		return
	}
	if p.l.Peek().Type == token.Comma {
		p.report(diag.TypeScriptGenericParameterListLeadingComma, "TypeScript generic parameter list has a leading comma", p.l.Peek().Span)
		p.l.Skip()
	}
	for p.l.Peek().Type != token.Greater {
		tok := p.l.Peek()
		if !token.IsIdentifierShaped(tok.Type) {
			p.report(diag.UnexpectedToken, "expected generic parameter name", tok.Span)
			break
		}
		p.l.Skip()
		v.VisitVariableDeclaration(identifierTextOf(tok, p), tok.Span, visitor.KindGenericParameter, visitor.Normal)
		if p.l.Peek().Type == token.KwExtends {
			p.l.Skip()
			p.parseTypeAnnotationStub()
		}
		if p.l.Peek().Type == token.Equal {
			p.l.Skip()
			p.parseTypeAnnotationStub()
		}
		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
			continue
		}
		break
	}
	if p.l.Peek().Type == token.Greater {
		p.l.Skip()
	} else {
		p.report(diag.UnexpectedToken, "expected '>' to end generic parameter list", p.l.Peek().Span)
	}
}

// wrapWithTypeAnnotation consumes a TypeScript `: type` following a
// binding target (spec §4.2.1's `binding [':' type] ['=' expr]`) and
// wraps it in an ast.TypeAnnotated node, then consumes an optional
// trailing `= default` that the type annotation hid from the earlier
// assignment-expression parse. The caller has already parsed target
// and left the cursor on ':'.
func (p *Parser) wrapWithTypeAnnotation(target *ast.Expression) *ast.Expression {
	p.l.Skip() // ':'
	typeBegin := p.l.Peek().Span.Begin
	p.parseTypeAnnotationStub()
	typeEnd := typeBegin
	if typeBegin < p.l.Peek().Span.Begin {
		typeEnd = p.l.Peek().Span.Begin
	}
	wrapped := p.arena.New(ast.TypeAnnotated, source.Span{Begin: target.Span.Begin, End: typeEnd})
	wrapped.TypeText = p.src.Content[typeBegin:typeEnd]
	wrapped.Children = []*ast.Expression{target}
	if p.l.Peek().Type == token.Equal {
		p.l.Skip()
		defaultVal := p.expr.ParseAssignment(p.exprContext(true))
		assign := p.arena.New(ast.Assignment, source.Span{Begin: wrapped.Span.Begin, End: defaultVal.Span.End})
		assign.Operator = token.Equal
		assign.Children = []*ast.Expression{wrapped, defaultVal}
		return assign
	}
	return wrapped
}

// parseTypeAnnotationStub consumes one TypeScript type expression
// without interpreting it, per spec §1's single delegation point:
// internals of type-expression parsing are out of scope. It tracks
// paren/bracket/angle-bracket nesting so a nested `Map<string, T[]>`
// does not stop early at its internal commas. A top-level `{` that
// follows a complete type (as in `(): number { ... }` or `implements I
// { ... }`) ends the annotation; at the start of the type or after
// `|`, `&`, `extends`, `:` or `?` it opens an object type literal.
func (p *Parser) parseTypeAnnotationStub() {
	depth := 0
	prev := token.Invalid
	for {
		tok := p.l.Peek()
		switch tok.Type {
		case token.EndOfFile:
			return
		case token.LeftCurly:
			if depth == 0 && prev != token.Invalid && prev != token.Pipe && prev != token.Amp &&
				prev != token.KwExtends && prev != token.Colon && prev != token.Question {
				return
			}
			depth++
		case token.LeftParen, token.LeftSquare, token.Less:
			depth++
		case token.RightParen, token.RightSquare, token.RightCurly, token.Greater:
			if depth == 0 {
				return
			}
			depth--
		case token.Comma, token.Semicolon, token.Equal, token.Arrow:
			if depth == 0 {
				return
			}
		}
		prev = tok.Type
		p.l.Skip()
	}
}
