package parser

import (
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/exprparser"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// parseImportOrExpressionStatement distinguishes a statement-head
// `import` declaration from the two expression-shaped uses of the
// same keyword, `import(...)` and `import.meta` (spec §4.2.4), which
// fall through to ordinary expression-statement parsing.
func (p *Parser) parseImportOrExpressionStatement(v visitor.Visitor) bool {
	tx := p.l.BeginTransaction()
	p.l.Skip() // 'import'
	next := p.l.Peek()
	p.l.RollBackTransaction(tx)
	if next.Type == token.LeftParen || next.Type == token.Dot {
		return p.parseExpressionStatement(v, AnyStatementInBlock)
	}
	p.l.Skip() // 'import'
	p.parseImportDeclaration(v)
	return true
}

// parseImportDeclaration parses the declaration-shaped forms of
// `import` (spec §4.2.4), having already consumed the keyword.
func (p *Parser) parseImportDeclaration(v visitor.Visitor) {
	isTypeOnly := false
	if p.l.Peek().Type == token.KwType {
		tx := p.l.BeginTransaction()
		p.l.Skip()
		next := p.l.Peek()
		// `import type {a} from "m"` / `import type X from "m"`, but not
		// `import type from "m"` where `type` is itself the default name.
		looksTypeOnly := next.Type == token.LeftCurly || next.Type == token.Star ||
			(token.IsIdentifierShaped(next.Type) && next.Type != token.KwFrom)
		p.l.RollBackTransaction(tx)
		if looksTypeOnly {
			p.l.Skip()
			isTypeOnly = true
			if !p.opts.TypeScript {
				p.report(diag.TypeScriptInlineTypeImportNotAllowedInTypeOnlyImport, "TypeScript type-only imports are not allowed in JavaScript", p.l.Peek().Span)
			}
		}
	}

	if p.l.Peek().Type == token.String {
		p.l.Skip() // bare `import "mod";`
		p.consumeSemicolonAfterStatement()
		return
	}

	importKind := visitor.KindImport
	if isTypeOnly {
		importKind = visitor.KindImportType
	}

	sawBinding := false
	if token.IsIdentifierShaped(p.l.Peek().Type) {
		p.visitImportBinding(v, importKind)
		sawBinding = true
		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
		}
	}

	if p.l.Peek().Type == token.Star {
		p.l.Skip()
		p.expect(token.KwAs, "'as'")
		p.visitImportBinding(v, importKind)
		sawBinding = true
	} else if p.l.Peek().Type == token.LeftCurly {
		p.parseNamedImportList(v, importKind)
		sawBinding = true
	}

	if sawBinding {
		p.expect(token.KwFrom, "'from'")
	}
	if p.l.Peek().Type == token.String {
		p.l.Skip()
	} else {
		p.report(diag.UnexpectedToken, "expected a module specifier string", p.l.Peek().Span)
	}
	p.consumeSemicolonAfterStatement()
}

// visitImportBinding emits the declaration event for one imported
// name, applying the keyword/`let` restrictions spec §4.2.4 names.
func (p *Parser) visitImportBinding(v visitor.Visitor, kind visitor.VariableKind) {
	tok := p.l.Peek()
	name := identifierTextOf(tok, p)
	p.l.Skip()
	if token.IsStrictKeywordName(name) {
		p.report(diag.CannotImportVariableNamedKeyword, "cannot import a variable named '"+name+"'", tok.Span)
	}
	if name == "let" {
		p.report(diag.CannotImportLet, "cannot import a variable named 'let'", tok.Span)
	}
	v.VisitVariableDeclaration(name, tok.Span, kind, visitor.Normal)
}

// parseNamedImportList parses `{ a as b, type X, "str" as y, ... }`,
// handling the inline `type` modifier and its interaction with an
// outer `import type` (spec §4.2.4).
func (p *Parser) parseNamedImportList(v visitor.Visitor, outerKind visitor.VariableKind) {
	p.l.Skip() // '{'
	for p.l.Peek().Type != token.RightCurly {
		if p.l.Peek().Type == token.EndOfFile {
			p.report(diag.UnclosedCodeBlock, "unclosed code block", p.l.Peek().Span)
			break
		}

		kind := outerKind
		if p.l.Peek().Type == token.KwType {
			tx := p.l.BeginTransaction()
			p.l.Skip()
			next := p.l.Peek()
			isInlineType := next.Type != token.KwAs && next.Type != token.RightCurly && next.Type != token.Comma
			p.l.RollBackTransaction(tx)
			if isInlineType {
				p.l.Skip()
				if outerKind == visitor.KindImportType {
					p.report(diag.TypeScriptInlineTypeImportNotAllowedInTypeOnlyImport, "an inline 'type' modifier is redundant on a type-only import", p.l.Peek().Span)
				}
				kind = visitor.KindImportType
			}
		}

		if p.l.Peek().Type == token.String {
			// `"string" as localName` imports an export whose name is
			// not a valid JS identifier; only the local binding after
			// `as` matters here.
			p.l.Skip()
			p.expect(token.KwAs, "'as'")
			p.visitImportBinding(v, kind)
		} else {
			importedTok := p.l.Peek()
			p.l.Skip()
			if p.l.Peek().Type == token.KwAs {
				p.l.Skip()
				p.visitImportBinding(v, kind)
			} else {
				name := identifierTextOf(importedTok, p)
				if token.IsStrictKeywordName(name) {
					p.report(diag.CannotImportVariableNamedKeyword, "cannot import a variable named '"+name+"'", importedTok.Span)
				}
				if name == "let" {
					p.report(diag.CannotImportLet, "cannot import a variable named 'let'", importedTok.Span)
				}
				v.VisitVariableDeclaration(name, importedTok.Span, kind, visitor.Normal)
			}
		}

		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
			continue
		}
		break
	}
	if p.l.Peek().Type == token.RightCurly {
		p.l.Skip()
	}
}

// parseExportStatement parses every `export` form spec §4.2.4 names,
// including the named re-export ordering hazard: `export {a,b} from
// "m"` buffers and discards the identifier visits (they name the
// other module's bindings, not this one's), while a bare `export
// {a,b}` (no `from`) flushes them as export-use events on the local
// bindings they reference.
func (p *Parser) parseExportStatement(v visitor.Visitor) {
	p.l.Skip() // 'export'

	switch p.l.Peek().Type {
	case token.KwDefault:
		p.parseExportDefault(v)
		return
	case token.KwFunction:
		p.parseFunctionDeclaration(v, requiredForExport, false)
		return
	case token.KwAsync:
		tx := p.l.BeginTransaction()
		p.l.Skip()
		isAsyncFunction := p.l.Peek().Type == token.KwFunction
		p.l.RollBackTransaction(tx)
		if isAsyncFunction {
			p.l.Skip()
			p.parseFunctionDeclaration(v, requiredForExport, true)
			return
		}
	case token.KwClass:
		p.parseClassDeclaration(v)
		return
	case token.KwVar, token.KwLet, token.KwConst:
		declTok := p.l.Peek()
		p.l.Skip()
		p.parseLetBindings(v, declTok, letBindingFlags{allowIn: true, allowConstWithoutInitializer: declTok.Type == token.KwVar})
		p.consumeSemicolonAfterStatement()
		return
	case token.KwInterface:
		p.parseInterfaceDeclaration(v)
		return
	case token.KwEnum:
		p.parseEnumDeclaration(v, EnumNormal)
		return
	case token.KwType:
		p.l.Skip()
		p.parseTypeAliasDeclaration(v)
		return
	case token.Star:
		p.parseExportStar(v)
		return
	case token.LeftCurly:
		p.parseExportNamedList(v)
		return
	}

	tok := p.l.Peek()
	if token.IsIdentifierShaped(tok.Type) {
		p.report(diag.ExportingRequiresCurlies, "exporting a name requires curly braces, e.g. 'export { "+identifierTextOf(tok, p)+" }'", tok.Span)
		e := p.expr.Parse(p.exprContext(true))
		exprparser.VisitExpression(e, v)
		p.consumeSemicolonAfterStatement()
		return
	}
	if canStartExpression(tok.Type) {
		p.report(diag.ExportingRequiresDefault, "exporting a bare expression requires 'default'", tok.Span)
		e := p.expr.Parse(p.exprContext(true))
		exprparser.VisitExpression(e, v)
		p.consumeSemicolonAfterStatement()
		return
	}
	p.report(diag.UnexpectedToken, "unexpected token after 'export'", tok.Span)
}

// parseExportDefault parses `export default <expr|class|function|async function>`.
func (p *Parser) parseExportDefault(v visitor.Visitor) {
	p.l.Skip() // 'default'
	switch p.l.Peek().Type {
	case token.KwFunction:
		p.parseFunctionDeclaration(v, optionalName, false)
		return
	case token.KwClass:
		p.parseClassDeclaration(v)
		return
	case token.KwAsync:
		tx := p.l.BeginTransaction()
		p.l.Skip()
		isAsyncFunction := p.l.Peek().Type == token.KwFunction
		p.l.RollBackTransaction(tx)
		if isAsyncFunction {
			p.l.Skip()
			p.parseFunctionDeclaration(v, optionalName, true)
			return
		}
	case token.KwLet, token.KwVar, token.KwConst:
		p.report(diag.CannotExportDefaultVariable, "cannot use 'export default' with a variable declaration", p.l.Peek().Span)
		declTok := p.l.Peek()
		p.l.Skip()
		p.parseLetBindings(v, declTok, letBindingFlags{allowIn: true, allowConstWithoutInitializer: true})
		p.consumeSemicolonAfterStatement()
		return
	}
	e := p.expr.ParseAssignment(p.exprContext(true))
	exprparser.VisitExpression(e, v)
	p.consumeSemicolonAfterStatement()
}

// parseExportStar parses `export * from "m"` and `export * as x from "m"`.
func (p *Parser) parseExportStar(v visitor.Visitor) {
	p.l.Skip() // '*'
	if p.l.Peek().Type == token.KwAs {
		p.l.Skip()
		if token.IsIdentifierShaped(p.l.Peek().Type) {
			p.l.Skip()
		}
	}
	p.expect(token.KwFrom, "'from'")
	if p.l.Peek().Type == token.String {
		p.l.Skip()
	} else {
		p.report(diag.UnexpectedToken, "expected a module specifier string", p.l.Peek().Span)
	}
	p.consumeSemicolonAfterStatement()
}

// parseExportNamedList parses `export {a, b as c}` and `export {a, b}
// from "m"`, applying the evaluation-ordering hazard documented on
// parseExportStatement: names are always parsed into a buffering
// visitor first, then either discarded (re-export) or flushed as
// export-use events (local export).
func (p *Parser) parseExportNamedList(v visitor.Visitor) {
	p.l.Skip() // '{'
	buf := visitor.NewBuffering()
	for p.l.Peek().Type != token.RightCurly {
		if p.l.Peek().Type == token.EndOfFile {
			p.report(diag.UnclosedCodeBlock, "unclosed code block", p.l.Peek().Span)
			break
		}
		localTok := p.l.Peek()
		if !token.IsIdentifierShaped(localTok.Type) {
			p.report(diag.UnexpectedToken, "expected a binding name", localTok.Span)
			p.l.Skip()
		} else {
			p.l.Skip()
			buf.VisitVariableExportUse(identifierTextOf(localTok, p), localTok.Span)
			if p.l.Peek().Type == token.KwAs {
				p.l.Skip()
				if token.IsIdentifierShaped(p.l.Peek().Type) || p.l.Peek().Type == token.String {
					p.l.Skip()
				}
			}
		}
		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
			continue
		}
		break
	}
	if p.l.Peek().Type == token.RightCurly {
		p.l.Skip()
	}

	if p.l.Peek().Type == token.KwFrom {
		p.l.Skip()
		if p.l.Peek().Type == token.String {
			p.l.Skip()
		} else {
			p.report(diag.UnexpectedToken, "expected a module specifier string", p.l.Peek().Span)
		}
		// re-export: the named identifiers refer to the other module's
		// bindings, not this module's; discard the buffered visits.
	} else {
		buf.MoveInto(v)
	}
	p.consumeSemicolonAfterStatement()
}
