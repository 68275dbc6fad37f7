package parser

import (
	"github.com/adrperez5/lintparse/pkg/ast"
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/exprparser"
	"github.com/adrperez5/lintparse/pkg/token"
	"github.com/adrperez5/lintparse/pkg/visitor"
)

// parseIfStatement parses `if (expr) stmt [else stmt]` (spec §4.3.2).
func (p *Parser) parseIfStatement(v visitor.Visitor) {
	p.l.Skip() // 'if'
	p.expect(token.LeftParen, "'('")
	cond := p.expr.Parse(p.exprContext(true))
	exprparser.VisitExpression(cond, v)
	p.expect(token.RightParen, "')'")
	p.parseStatementBody(v)
	if p.l.Peek().Type == token.KwElse {
		p.l.Skip()
		if p.l.Peek().Type == token.LeftParen {
			// `else (cond) {...}` without `if` is a common typo.
			p.report(diag.MissingIfAfterElse, "missing 'if' after 'else'", p.l.Peek().Span)
			p.expect(token.LeftParen, "'('")
			extra := p.expr.Parse(p.exprContext(true))
			exprparser.VisitExpression(extra, v)
			p.expect(token.RightParen, "')'")
			p.parseStatementBody(v)
			return
		}
		p.parseStatementBody(v)
	}
}

// parseWhileStatement parses `while (expr) stmt` (spec §4.3.2).
func (p *Parser) parseWhileStatement(v visitor.Visitor) {
	p.l.Skip() // 'while'
	p.expect(token.LeftParen, "'('")
	cond := p.expr.Parse(p.exprContext(true))
	exprparser.VisitExpression(cond, v)
	p.expect(token.RightParen, "')'")
	restore := p.withLoop(true)
	defer restore()
	p.parseStatementBody(v)
}

// parseDoWhileStatement parses `do stmt while (expr) ;` (spec §4.3.2).
func (p *Parser) parseDoWhileStatement(v visitor.Visitor) {
	p.l.Skip() // 'do'
	restore := p.withLoop(true)
	p.parseStatementBody(v)
	restore()
	if p.l.Peek().Type != token.KwWhile {
		p.report(diag.MissingWhileAndConditionForDoWhileStatement, "missing 'while' and condition for do-while statement", p.l.Peek().Span)
		return
	}
	p.l.Skip() // 'while'
	p.expect(token.LeftParen, "'('")
	cond := p.expr.Parse(p.exprContext(true))
	exprparser.VisitExpression(cond, v)
	p.expect(token.RightParen, "')'")
	p.consumeSemicolonAfterStatement()
}

// parseWithStatement parses `with (expr) stmt`.
func (p *Parser) parseWithStatement(v visitor.Visitor) {
	p.l.Skip() // 'with'
	p.expect(token.LeftParen, "'('")
	obj := p.expr.Parse(p.exprContext(true))
	exprparser.VisitExpression(obj, v)
	p.expect(token.RightParen, "')'")
	v.VisitEnterScope(visitor.ScopeWith)
	p.parseStatementBody(v)
	v.VisitExitScope(visitor.ScopeWith)
}

// parseReturnStatement implements the restricted-production ASI rule
// of spec §4.1.2.
func (p *Parser) parseReturnStatement(v visitor.Visitor) {
	retTok := p.l.Peek()
	p.l.Skip() // 'return'
	next := p.l.Peek()
	if next.Type == token.Semicolon || next.Type == token.RightCurly || next.Type == token.EndOfFile {
		p.consumeSemicolonAfterStatement()
		return
	}
	if next.HasLeadingNewline {
		p.report(diag.ReturnStatementReturnsNothing, "return statement returns nothing (the expression is on the next line)", retTok.Span)
		return
	}
	e := p.expr.Parse(p.exprContext(true))
	exprparser.VisitExpression(e, v)
	p.consumeSemicolonAfterStatement()
}

// parseThrowStatement implements the restricted-production ASI rule
// for `throw`, which (unlike `return`) must always have an operand.
func (p *Parser) parseThrowStatement(v visitor.Visitor) {
	throwTok := p.l.Peek()
	p.l.Skip() // 'throw'
	if p.l.Peek().HasLeadingNewline {
		p.report(diag.ExpectedExpressionBeforeNewline, "expected expression before newline", throwTok.Span)
		p.l.InsertSemicolon()
		p.consumeSemicolonAfterStatement()
		return
	}
	e := p.expr.Parse(p.exprContext(true))
	exprparser.VisitExpression(e, v)
	p.consumeSemicolonAfterStatement()
}

// parseBreakStatement and parseContinueStatement share the label-on-
// same-line ASI rule and the "only valid inside a loop/switch" check
// (spec §4.1.2, §4.3.3).
func (p *Parser) parseBreakStatement(v visitor.Visitor) {
	tok := p.l.Peek()
	p.l.Skip() // 'break'
	if !p.inLoopStatement && !p.inSwitchStatement {
		p.report(diag.InvalidBreak, "'break' outside a loop or switch", tok.Span)
	}
	p.consumeOptionalLabel(v)
	p.consumeSemicolonAfterStatement()
}

func (p *Parser) parseContinueStatement(v visitor.Visitor) {
	tok := p.l.Peek()
	p.l.Skip() // 'continue'
	if !p.inLoopStatement {
		p.report(diag.InvalidContinue, "'continue' outside a loop", tok.Span)
	}
	p.consumeOptionalLabel(v)
	p.consumeSemicolonAfterStatement()
}

func (p *Parser) consumeOptionalLabel(v visitor.Visitor) {
	next := p.l.Peek()
	if !next.HasLeadingNewline && token.IsIdentifierShaped(next.Type) {
		p.l.Skip()
	}
}

// parseSwitchStatement parses `switch (expr) { case ...: ...; default: ... }`
// (spec §4.3.2), tracking the is_before_first_switch_case invariant.
func (p *Parser) parseSwitchStatement(v visitor.Visitor) {
	p.l.Skip() // 'switch'
	p.expect(token.LeftParen, "'('")
	discriminant := p.expr.Parse(p.exprContext(true))
	exprparser.VisitExpression(discriminant, v)
	p.expect(token.RightParen, "')'")
	p.expect(token.LeftCurly, "'{'")

	restore := p.withSwitch(true)
	defer restore()

	beforeFirstCase := true
	for p.l.Peek().Type != token.RightCurly {
		tok := p.l.Peek()
		if tok.Type == token.EndOfFile {
			p.report(diag.UnclosedCodeBlock, "unclosed code block", tok.Span)
			break
		}
		switch tok.Type {
		case token.KwCase:
			beforeFirstCase = false
			p.l.Skip()
			test := p.expr.Parse(p.exprContext(true))
			exprparser.VisitExpression(test, v)
			p.expect(token.Colon, "':'")
		case token.KwDefault:
			beforeFirstCase = false
			p.l.Skip()
			p.expect(token.Colon, "':'")
		default:
			if beforeFirstCase {
				p.report(diag.StatementBeforeFirstSwitchCase, "statement before first switch case", tok.Span)
			}
			p.ParseAndVisitStatement(v, AnyStatementInBlock)
		}
	}
	if p.l.Peek().Type == token.RightCurly {
		p.l.Skip()
	}
}

// parseTryStatement parses `try {} [catch [(binding)] {}] [finally {}]`
// (spec §4.3.2).
func (p *Parser) parseTryStatement(v visitor.Visitor) {
	tryTok := p.l.Peek()
	p.l.Skip() // 'try'
	p.parseBlockStatement(v)

	sawCatch, sawFinally := false, false
	if p.l.Peek().Type == token.KwCatch {
		sawCatch = true
		p.l.Skip()
		p.parseCatchClause(v)
	}
	if p.l.Peek().Type == token.KwFinally {
		sawFinally = true
		p.l.Skip()
		p.parseBlockStatement(v)
	}
	if !sawCatch && !sawFinally {
		p.report(diag.MissingCatchOrFinallyForTryStatement, "missing catch or finally for try statement", tryTok.Span)
	}
}

// parseCatchClause parses the `catch [(binding)] { ... }` clause,
// shared between a well-formed try statement and the catch-without-try
// recovery path.
func (p *Parser) parseCatchClause(v visitor.Visitor) {
	v.VisitEnterScope(visitor.ScopeBlock)
	if p.l.Peek().Type == token.LeftParen {
		p.l.Skip()
		tok := p.l.Peek()
		if tok.Type == token.String {
			p.report(diag.ExpectedVariableNameForCatch, "expected a variable name for the catch binding", tok.Span)
			p.l.Skip()
		} else if canStartBinding(tok.Type) {
			binding := p.expr.ParseAssignment(p.exprContext(true))
			if p.opts.TypeScript && p.l.Peek().Type == token.Colon {
				p.l.Skip()
				typeTok := p.l.Peek()
				isAnyOrUnknown := typeTok.Type == token.KwAny || typeTok.Type == token.KwUnknown || typeTok.Type == token.Star
				if !isAnyOrUnknown {
					p.report(diag.TypeScriptCatchTypeAnnotationMustBeAny, "a catch variable's type annotation must be 'any' or 'unknown'", typeTok.Span)
				}
				p.parseTypeAnnotationStub()
			}
			p.visitBindingElement(v, binding, visitor.KindCatch, visitor.Normal)
		} else {
			p.report(diag.ExpectedVariableNameForCatch, "expected a variable name for the catch binding", tok.Span)
		}
		p.expect(token.RightParen, "')'")
	}
	for p.l.Peek().Type != token.RightCurly {
		if p.l.Peek().Type == token.EndOfFile {
			break
		}
		if p.l.Peek().Type != token.LeftCurly {
			break
		}
		p.l.Skip()
		break
	}
	// the catch body itself is an ordinary block, already opened above
	// as ScopeBlock for the binding's lexical scope; reuse its
	// statement loop rather than opening a second nested block.
	for p.l.Peek().Type != token.RightCurly {
		if p.l.Peek().Type == token.EndOfFile {
			p.report(diag.UnclosedCodeBlock, "unclosed code block", p.l.Peek().Span)
			break
		}
		p.ParseAndVisitStatement(v, AnyStatementInBlock)
	}
	if p.l.Peek().Type == token.RightCurly {
		p.l.Skip()
	}
	v.VisitExitScope(visitor.ScopeBlock)
}

// parseForStatement dispatches between the three `for` forms (spec
// §4.3.1) once it has seen what follows the initializer.
func (p *Parser) parseForStatement(v visitor.Visitor) {
	p.l.Skip() // 'for'
	if p.l.Peek().Type == token.KwAwait {
		p.l.Skip() // `await for (...)` — accepted by skipping the keyword
	}
	p.expect(token.LeftParen, "'('")

	restore := p.withLoop(true)
	defer restore()

	if p.l.Peek().Type == token.Semicolon {
		p.parseForCStyleRest(v)
		return
	}

	if p.l.Peek().Type == token.KwVar || p.l.Peek().Type == token.KwLet || p.l.Peek().Type == token.KwConst {
		declTok := p.l.Peek()
		p.l.Skip()
		p.parseForWithDeclaration(v, declTok)
		return
	}

	// bare-expression initializer; parse with AllowIn=false so a bare
	// `in` ends the expression instead of being consumed as the
	// relational operator, letting us classify the form below.
	lhs := p.expr.Parse(p.exprContext(false))
	switch p.l.Peek().Type {
	case token.KwIn:
		p.l.Skip()
		rhs := p.expr.Parse(p.exprContext(true))
		exprparser.VisitExpression(rhs, v)
		p.maybeVisitAssignment(lhs, v)
		p.expect(token.RightParen, "')'")
		p.parseForBody(v)
	case token.KwOf:
		// `for (async of things)` is never an arrow function (that
		// already consumed the trailing `=>` inside the expression
		// parser); it is `async` used, invalidly, as the loop variable.
		if lhs.Kind == ast.Variable && lhs.Name == "async" {
			p.report(diag.CannotAssignToVariableNamedAsyncInForOfLoop, "cannot assign to a variable named 'async' in a for-of loop", lhs.Span)
		}
		if lhs.Kind == ast.Assignment && lhs.Operator == token.Equal {
			p.report(diag.CannotAssignToLoopVariableInForOfOrInLoop, "cannot assign to loop variable in a for-of loop", lhs.Span)
		}
		p.l.Skip()
		rhs := p.expr.ParseAssignment(p.exprContext(true))
		p.maybeVisitAssignment(lhs, v)
		exprparser.VisitExpression(rhs, v)
		p.expect(token.RightParen, "')'")
		p.parseForBody(v)
	default:
		exprparser.VisitExpression(lhs, v)
		p.parseForCStyleRest(v)
	}
}

// maybeVisitAssignment visits the LHS of a for-in/for-of loop as an
// assignment target when it is assignment-shaped (e.g. `for (x.y of
// xs)` or `for ([a,b] of xs)`), and as a plain use otherwise (spec
// §4.3.1's variable_context::lhs / maybe_visit_assignment).
func (p *Parser) maybeVisitAssignment(lhs *ast.Expression, v visitor.Visitor) {
	if lhs == nil {
		return
	}
	switch lhs.Kind {
	case ast.Array, ast.Object:
		p.visitBindingElement(v, lhs, visitor.KindLet, visitor.Normal)
	default:
		exprparser.VisitExpression(lhs, v)
	}
}

// parseForWithDeclaration handles `for (var|let|const ...)` once the
// declaring keyword is consumed, resolving the C-style/for-in/for-of
// ambiguity by parsing one binding target and inspecting what follows.
func (p *Parser) parseForWithDeclaration(v visitor.Visitor, declTok token.Token) {
	kind := variableKindOf(declTok.Type)
	scoped := kind == visitor.KindLet || kind == visitor.KindConst
	if !canStartBinding(p.l.Peek().Type) {
		p.report(diag.LetWithNoBindings, "variable declaration has no bindings", declTok.Span)
	}
	target := p.expr.ParseAssignment(p.exprContext(false))

	switch p.l.Peek().Type {
	case token.KwIn:
		p.l.Skip()
		rhs := p.expr.Parse(p.exprContext(true))
		if scoped {
			v.VisitEnterScope(visitor.ScopeFor)
		}
		if declTok.Type == token.KwVar && target.Kind == ast.Assignment && target.Operator == token.Equal {
			// legacy `for (var x = init in rhs)`: evaluate the
			// initializer before the binding, per spec §8's ordering law.
			exprparser.VisitExpression(target.Children[1], v)
			p.visitBindingElement(v, target.Children[0], kind, visitor.InitializedWithEquals)
			exprparser.VisitExpression(rhs, v)
		} else {
			if target.Kind == ast.Assignment && target.Operator == token.Equal {
				p.report(diag.CannotAssignToLoopVariableInForOfOrInLoop, "cannot assign to loop variable in a for-in loop", target.Span)
			}
			exprparser.VisitExpression(rhs, v)
			p.visitBindingElement(v, target, kind, visitor.Normal)
		}
		p.expect(token.RightParen, "')'")
		p.parseForBody(v)
		if scoped {
			v.VisitExitScope(visitor.ScopeFor)
		}
	case token.KwOf:
		p.l.Skip()
		if target.Kind == ast.Assignment && target.Operator == token.Equal {
			p.report(diag.CannotAssignToLoopVariableInForOfOrInLoop, "cannot assign to loop variable in a for-of loop", target.Span)
		}
		rhs := p.expr.ParseAssignment(p.exprContext(true))
		if scoped {
			v.VisitEnterScope(visitor.ScopeFor)
		}
		p.visitBindingElement(v, target, kind, visitor.Normal)
		exprparser.VisitExpression(rhs, v)
		p.expect(token.RightParen, "')'")
		p.parseForBody(v)
		if scoped {
			v.VisitExitScope(visitor.ScopeFor)
		}
	default:
		hasInitializer := target.Kind == ast.Assignment && target.Operator == token.Equal
		if kind == visitor.KindConst && !hasInitializer {
			p.report(diag.MissingInitializerInConstDeclaration, "const declaration must have an initializer", target.Span)
		}
		if scoped {
			v.VisitEnterScope(visitor.ScopeFor)
		}
		initKind := visitor.Normal
		if hasInitializer {
			initKind = visitor.InitializedWithEquals
		}
		p.visitBindingElement(v, target, kind, initKind)
		p.continueForBindingList(v, declTok, kind)
		p.parseForCStyleRest(v)
		if scoped {
			v.VisitExitScope(visitor.ScopeFor)
		}
	}
}

// continueForBindingList parses any remaining comma-separated bindings
// of a C-style for-loop's declaration initializer.
func (p *Parser) continueForBindingList(v visitor.Visitor, declTok token.Token, kind visitor.VariableKind) {
	for p.l.Peek().Type == token.Comma {
		p.l.Skip()
		if !canStartBinding(p.l.Peek().Type) {
			p.report(diag.StrayCommaInLetStatement, "stray comma in variable declaration", p.l.Peek().Span)
			return
		}
		target := p.expr.ParseAssignment(p.exprContext(true))
		hasInitializer := target.Kind == ast.Assignment && target.Operator == token.Equal
		if kind == visitor.KindConst && !hasInitializer {
			p.report(diag.MissingInitializerInConstDeclaration, "const declaration must have an initializer", target.Span)
		}
		initKind := visitor.Normal
		if hasInitializer {
			initKind = visitor.InitializedWithEquals
		}
		p.visitBindingElement(v, target, kind, initKind)
	}
}

// parseForCStyleRest consumes the remaining `; cond? ; update? )` of a
// C-style for loop, having already visited the initializer (if any).
func (p *Parser) parseForCStyleRest(v visitor.Visitor) {
	if p.l.Peek().Type != token.Semicolon {
		p.report(diag.UnexpectedToken, "expected ';' after for-loop initializer", p.l.Peek().Span)
		p.l.InsertSemicolon()
	}
	p.l.Skip() // ';'
	if p.l.Peek().Type != token.Semicolon {
		cond := p.expr.Parse(p.exprContext(true))
		exprparser.VisitExpression(cond, v)
	}
	if p.l.Peek().Type != token.Semicolon {
		p.report(diag.UnexpectedToken, "expected ';' after for-loop condition", p.l.Peek().Span)
		p.l.InsertSemicolon()
	}
	p.l.Skip() // ';'
	if p.l.Peek().Type != token.RightParen {
		update := p.expr.Parse(p.exprContext(true))
		exprparser.VisitExpression(update, v)
	}
	// extra trailing semicolons are accepted after reporting, per
	// spec §9's open question (a); tighten this if ever desired.
	for p.l.Peek().Type == token.Semicolon {
		p.report(diag.UnexpectedSemicolonInForOfLoop, "unexpected extra semicolon in for-loop head", p.l.Peek().Span)
		p.l.Skip()
	}
	p.expect(token.RightParen, "')'")
	p.parseForBody(v)
}

// parseForBody parses a for loop's body in no_declarations mode,
// reporting a lexical declaration used there directly (spec §4.3.1).
func (p *Parser) parseForBody(v visitor.Visitor) {
	if p.l.Peek().Type == token.KwLet || p.l.Peek().Type == token.KwConst {
		p.report(diag.LexicalDeclarationNotAllowedInBodyOfForLoop, "lexical declaration not allowed in the body of a for loop", p.l.Peek().Span)
	}
	p.parseStatementBody(v)
}
