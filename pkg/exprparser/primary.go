package exprparser

import (
	"github.com/adrperez5/lintparse/pkg/ast"
	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/token"
)

// parsePrefix dispatches on the token that begins an expression,
// grounded on the teacher's registerPrefix table but expressed as a
// single switch, per SPEC_FULL.md's tagged-variant design (no
// per-token function-pointer indirection is needed without a
// user-extensible grammar).
func (p *Parser) parsePrefix(ctx Context) *ast.Expression {
	tok := p.l.Peek()
	switch {
	case tok.Type == token.KwAsync:
		return p.parseAsyncExpression(ctx)
	case tok.Type == token.KwAwait && ctx.InAsync:
		p.l.Skip()
		operand := p.parseExpr(ctx, Prefix)
		n := p.arena.New(ast.Await, tok.Span)
		n.Children = []*ast.Expression{operand}
		n.Span.End = operand.Span.End
		return n
	case tok.Type == token.KwYield && ctx.InGenerator:
		return p.parseYieldExpression(ctx, tok)
	case tok.Type == token.Identifier || token.IsContextualKeyword(tok.Type) || tok.Type == token.ReservedKeywordWithEscapeSequence:
		return p.parseIdentifierOrArrow(ctx, tok)
	case tok.Type == token.Number:
		p.l.Skip()
		n := p.arena.New(ast.Literal, tok.Span)
		n.Name = tok.LiteralText
		n.TypeText = "number"
		return n
	case tok.Type == token.BigInt:
		p.l.Skip()
		n := p.arena.New(ast.Literal, tok.Span)
		n.Name = tok.LiteralText
		n.TypeText = "bigint"
		return n
	case tok.Type == token.String:
		p.l.Skip()
		n := p.arena.New(ast.Literal, tok.Span)
		n.Name = tok.LiteralText
		n.TypeText = "string"
		return n
	case tok.Type == token.RegExpLiteral:
		p.l.Skip()
		n := p.arena.New(ast.Literal, tok.Span)
		n.Name = tok.LiteralText
		n.TypeText = "regexp"
		return n
	case tok.Type == token.KwTrue || tok.Type == token.KwFalse:
		p.l.Skip()
		n := p.arena.New(ast.Literal, tok.Span)
		n.Name = tok.Type.Name()
		n.TypeText = "boolean"
		return n
	case tok.Type == token.KwNull:
		p.l.Skip()
		n := p.arena.New(ast.Literal, tok.Span)
		n.TypeText = "null"
		return n
	case tok.Type == token.TemplateComplete || tok.Type == token.TemplateIncomplete:
		return p.parseTemplateLiteral(ctx)
	case tok.Type == token.KwThis:
		p.l.Skip()
		n := p.arena.New(ast.Variable, tok.Span)
		n.Name = "this"
		return n
	case tok.Type == token.KwSuper:
		p.l.Skip()
		n := p.arena.New(ast.Variable, tok.Span)
		n.Name = "super"
		return n
	case tok.Type == token.PrivateIdentifier:
		p.l.Skip()
		n := p.arena.New(ast.PrivateVariable, tok.Span)
		n.Name = tok.IdentifierName
		return n
	case tok.Type == token.LeftSquare:
		return p.parseArrayLiteral(ctx)
	case tok.Type == token.LeftCurly:
		return p.parseObjectLiteral(ctx)
	case tok.Type == token.LeftParen:
		return p.parseParenOrArrow(ctx)
	case tok.Type == token.KwFunction:
		return p.parseFunctionExpression(ctx, false)
	case tok.Type == token.KwClass:
		return p.parseClassExpression(ctx)
	case tok.Type == token.KwNew:
		return p.parseNewExpression(ctx)
	case tok.Type == token.KwImport:
		return p.parseImportExpression(ctx)
	case tok.Type == token.KwDelete:
		return p.parseSimpleUnary(ctx, tok, ast.Delete)
	case tok.Type == token.KwTypeof:
		return p.parseSimpleUnary(ctx, tok, ast.Typeof)
	case tok.Type == token.KwVoid || tok.Type == token.Bang || tok.Type == token.Tilde ||
		tok.Type == token.Plus || tok.Type == token.Minus:
		return p.parseSimpleUnary(ctx, tok, ast.UnaryOperator)
	case tok.Type == token.PlusPlus || tok.Type == token.MinusMinus:
		p.l.Skip()
		operand := p.parseExpr(ctx, Prefix)
		n := p.arena.New(ast.RWUnaryPrefix, tok.Span)
		n.Operator = tok.Type
		n.Children = []*ast.Expression{operand}
		n.Span.End = operand.Span.End
		return n
	case tok.Type == token.DotDotDot:
		p.l.Skip()
		operand := p.parseExpr(ctx, Comma)
		n := p.arena.New(ast.Spread, tok.Span)
		n.Children = []*ast.Expression{operand}
		n.Span.End = operand.Span.End
		return n
	default:
		p.errorExpected(tok, "expression")
		if tok.Type != token.EndOfFile {
			p.l.Skip()
		}
		return p.missing(tok)
	}
}

func (p *Parser) parseSimpleUnary(ctx Context, tok token.Token, kind ast.Kind) *ast.Expression {
	p.l.Skip()
	operand := p.parseExpr(ctx, Prefix)
	n := p.arena.New(kind, tok.Span)
	n.Operator = tok.Type
	n.Children = []*ast.Expression{operand}
	n.Span.End = operand.Span.End
	if operand.Kind == ast.Invalid {
		p.reporter.Report(diag.Diagnostic{
			Code:     diag.MissingOperandForOperator,
			Severity: diag.SeverityError,
			Message:  "missing operand for operator " + tok.Type.Name(),
			Spans:    []source.Span{tok.Span},
			Source:   p.src,
		})
	}
	return n
}

// parseIdentifierOrArrow handles the single-bare-identifier arrow
// disambiguation (`x => x + 1`) inline, since it needs no lexer
// transaction: an identifier immediately followed by `=>` can only be
// an arrow-function parameter list of one.
func (p *Parser) parseIdentifierOrArrow(ctx Context, tok token.Token) *ast.Expression {
	p.l.Skip()
	v := p.arena.New(ast.Variable, tok.Span)
	v.Name = identifierText(tok, p.src)
	if p.l.Peek().Type == token.Arrow {
		p.l.Skip()
		return p.finishArrowFunction(ctx, tok.Span.Begin, []*ast.Expression{v}, false)
	}
	return v
}

func identifierText(tok token.Token, src *source.SourceFile) string {
	if tok.IdentifierName != "" {
		return tok.IdentifierName
	}
	return src.Content[tok.Span.Begin:tok.Span.End]
}

func (p *Parser) parseAsyncExpression(ctx Context) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // 'async'
	if p.l.Peek().Type == token.KwFunction {
		fn := p.parseFunctionExpression(ctx, true)
		fn.Span.Begin = begin
		return fn
	}
	// async arrow: either `async x => ...` or `async (params) => ...`
	tx := p.l.BeginTransaction()
	if params, ok := p.tryParenParamList(); ok && p.l.Peek().Type == token.Arrow {
		p.l.CommitTransaction(tx)
		p.l.Skip() // '=>'
		return p.finishArrowFunction(ctx, begin, params, true)
	}
	p.l.RollBackTransaction(tx)
	if token.IsIdentifierShaped(p.l.Peek().Type) {
		nameTx := p.l.BeginTransaction()
		nameTok := p.l.Peek()
		p.l.Skip()
		if p.l.Peek().Type == token.Arrow {
			p.l.CommitTransaction(nameTx)
			p.l.Skip()
			param := p.arena.New(ast.Variable, nameTok.Span)
			param.Name = identifierText(nameTok, p.src)
			return p.finishArrowFunction(ctx, begin, []*ast.Expression{param}, true)
		}
		// `async` used as a plain identifier, followed by something
		// else entirely: roll back so the peeked identifier is left
		// for the caller (e.g. a bare `async of things` for-of head,
		// spec §4.3.1) and treat `async` itself as the identifier.
		p.l.RollBackTransaction(nameTx)
		n := p.arena.New(ast.Variable, source.Span{Begin: begin, End: begin + len("async")})
		n.Name = "async"
		return n
	}
	n := p.arena.New(ast.Variable, source.Span{Begin: begin, End: begin + len("async")})
	n.Name = "async"
	return n
}

func (p *Parser) parseYieldExpression(ctx Context, tok token.Token) *ast.Expression {
	p.l.Skip()
	if p.l.Peek().Type == token.Star {
		p.l.Skip()
		operand := p.parseExpr(ctx, Comma)
		n := p.arena.New(ast.YieldMany, tok.Span)
		n.Children = []*ast.Expression{operand}
		n.Span.End = operand.Span.End
		return n
	}
	if canStartExpressionOnSameLine(p.l.Peek()) {
		operand := p.parseExpr(ctx, Comma)
		n := p.arena.New(ast.YieldOne, tok.Span)
		n.Children = []*ast.Expression{operand}
		n.Span.End = operand.Span.End
		return n
	}
	return p.arena.New(ast.YieldNone, tok.Span)
}

// canStartExpressionOnSameLine reports whether tok both begins an
// expression and was not preceded by a line terminator, the ASI rule
// that makes `yield\nx` parse as two statements rather than
// `yield x`.
func canStartExpressionOnSameLine(tok token.Token) bool {
	if tok.HasLeadingNewline {
		return false
	}
	switch tok.Type {
	case token.Semicolon, token.RightCurly, token.RightParen, token.RightSquare,
		token.Comma, token.Colon, token.EndOfFile:
		return false
	default:
		return true
	}
}

func (p *Parser) parseNewExpression(ctx Context) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // 'new'
	if p.l.Peek().Type == token.Dot {
		// new.target
		p.l.Skip()
		nameTok := p.expect(token.Identifier, "'target'")
		n := p.arena.New(ast.Variable, source.Span{Begin: begin, End: nameTok.Span.End})
		n.Name = "new.target"
		return n
	}
	callee := p.parseExpr(ctx, Member)
	n := p.arena.New(ast.New, source.Span{Begin: begin})
	n.Children = append(n.Children, callee)
	if p.l.Peek().Type == token.LeftParen {
		args, _ := p.tryParenParamList()
		n.Children = append(n.Children, args...)
	}
	if len(n.Children) > 0 {
		n.Span.End = n.Children[len(n.Children)-1].Span.End
	} else {
		n.Span.End = callee.Span.End
	}
	return n
}

// parseImportExpression handles the two expression-shaped uses of
// `import` outside a declaration: dynamic `import(specifier)` and
// `import.meta`, both of which look statement-like (they begin with a
// bare keyword) but are ordinary expressions wherever they appear.
func (p *Parser) parseImportExpression(ctx Context) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // 'import'
	if p.l.Peek().Type == token.Dot {
		p.l.Skip()
		metaTok := p.expect(token.Identifier, "'meta'")
		n := p.arena.New(ast.Dot, source.Span{Begin: begin, End: metaTok.Span.End})
		callee := p.arena.New(ast.Variable, source.Span{Begin: begin, End: begin + len("import")})
		callee.Name = "import"
		n.Children = []*ast.Expression{callee}
		n.Name = "meta"
		return n
	}
	callee := p.arena.New(ast.Variable, source.Span{Begin: begin, End: begin + len("import")})
	callee.Name = "import"
	n := p.arena.New(ast.Call, source.Span{Begin: begin})
	n.Children = append(n.Children, callee)
	if args, ok := p.tryParenParamList(); ok {
		n.Children = append(n.Children, args...)
		n.Span.End = p.l.EndOfPreviousToken()
	} else {
		p.errorExpected(p.l.Peek(), "'('")
		n.Span.End = callee.Span.End
	}
	return n
}

func (p *Parser) parseArrayLiteral(ctx Context) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // '['
	n := p.arena.New(ast.Array, source.Span{Begin: begin})
	for p.l.Peek().Type != token.RightSquare {
		tok := p.l.Peek()
		if tok.Type == token.EndOfFile {
			p.errorExpected(tok, "']'")
			break
		}
		if tok.Type == token.Comma {
			// elision: `[, , x]`
			p.l.Skip()
			continue
		}
		elem := p.ParseAssignment(withAllowIn(ctx, true))
		n.Children = append(n.Children, elem)
		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
			continue
		}
		break
	}
	end := p.expect(token.RightSquare, "']'")
	n.Span.End = end.Span.End
	return n
}

func (p *Parser) parseObjectLiteral(ctx Context) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // '{'
	n := p.arena.New(ast.Object, source.Span{Begin: begin})
	for p.l.Peek().Type != token.RightCurly {
		tok := p.l.Peek()
		if tok.Type == token.EndOfFile {
			p.errorExpected(tok, "'}'")
			break
		}
		if tok.Type == token.DotDotDot {
			p.l.Skip()
			val := p.ParseAssignment(withAllowIn(ctx, true))
			n.Properties = append(n.Properties, ast.Property{Key: val, IsSpread: true})
		} else {
			n.Properties = append(n.Properties, p.parseObjectProperty(ctx))
		}
		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
			continue
		}
		break
	}
	end := p.expect(token.RightCurly, "'}'")
	n.Span.End = end.Span.End
	return n
}

func (p *Parser) parseObjectProperty(ctx Context) ast.Property {
	tok := p.l.Peek()
	if tok.Type == token.LeftSquare {
		p.l.Skip()
		key := p.ParseAssignment(withAllowIn(ctx, true))
		p.expect(token.RightSquare, "']'")
		p.expect(token.Colon, "':'")
		val := p.ParseAssignment(withAllowIn(ctx, true))
		return ast.Property{Key: key, Value: val, Computed: true}
	}
	var key *ast.Expression
	switch tok.Type {
	case token.String, token.Number:
		p.l.Skip()
		key = p.arena.New(ast.Literal, tok.Span)
		key.Name = tok.LiteralText
	default:
		p.l.Skip()
		key = p.arena.New(ast.Variable, tok.Span)
		key.Name = identifierText(tok, p.src)
	}
	switch p.l.Peek().Type {
	case token.Colon:
		p.l.Skip()
		val := p.ParseAssignment(withAllowIn(ctx, true))
		return ast.Property{Key: key, Value: val}
	case token.Equal:
		// shorthand-with-default, only valid in a destructuring target;
		// accepted here unconditionally per this package's pattern/
		// literal unification (see parseParenOrArrow).
		p.l.Skip()
		def := p.ParseAssignment(withAllowIn(ctx, true))
		assign := p.arena.New(ast.Assignment, key.Span)
		assign.Operator = token.Equal
		assign.Children = []*ast.Expression{key, def}
		assign.Span.End = def.Span.End
		return ast.Property{Key: key, Value: assign, Shorthand: true}
	case token.LeftParen:
		// method shorthand `{ f() {...} }`: parse as a function value
		params, _ := p.tryParenParamList()
		fn := p.arena.New(ast.Function, key.Span)
		fn.Children = params
		if p.l.Peek().Type == token.LeftCurly {
			fn.HasBody = true
			fn.Span.End = p.skipBalancedBraces()
		}
		return ast.Property{Key: key, Value: fn}
	default:
		return ast.Property{Key: key, Shorthand: true}
	}
}

func (p *Parser) parseTemplateLiteral(ctx Context) *ast.Expression {
	tok := p.l.Peek()
	node := p.arena.New(ast.Template, tok.Span)
	p.l.Skip()
	for tok.Type == token.TemplateIncomplete {
		sub := p.parseExpr(withAllowIn(ctx, true), Lowest)
		node.Children = append(node.Children, sub)
		tok = p.l.Peek()
		if tok.Type != token.TemplateIncomplete && tok.Type != token.TemplateComplete {
			p.errorExpected(tok, "template continuation")
			break
		}
		p.l.Skip()
	}
	node.Span.End = tok.Span.End
	return node
}

// tryParenParamList parses a parenthesized, comma-separated list of
// AssignmentExpressions (params, call arguments, or `new` arguments
// all share this grammar; rest elements and destructuring defaults
// fall out of the ordinary expression grammar, see parseParenOrArrow).
func (p *Parser) tryParenParamList() ([]*ast.Expression, bool) {
	if p.l.Peek().Type != token.LeftParen {
		return nil, false
	}
	p.l.Skip()
	var items []*ast.Expression
	for p.l.Peek().Type != token.RightParen {
		if p.l.Peek().Type == token.EndOfFile {
			return items, false
		}
		item := p.ParseAssignment(Context{AllowIn: true})
		if p.typeScript && p.l.Peek().Type == token.Colon {
			item = p.wrapWithTypeAnnotation(item)
		}
		items = append(items, item)
		if p.l.Peek().Type == token.Comma {
			p.l.Skip()
			continue
		}
		break
	}
	if p.l.Peek().Type != token.RightParen {
		return items, false
	}
	p.l.Skip()
	return items, true
}

// wrapWithTypeAnnotation consumes a TypeScript `: type` following a
// parenthesized parameter (spec §4.2.1's `binding [':' type] ['='
// expr]`), wraps item in an ast.TypeAnnotated node, and then consumes
// an optional trailing `= default` that the type annotation hid from
// the earlier assignment-expression parse.
func (p *Parser) wrapWithTypeAnnotation(item *ast.Expression) *ast.Expression {
	p.l.Skip() // ':'
	typeBegin := p.l.Peek().Span.Begin
	p.skipTypeAnnotation()
	typeEnd := typeBegin
	if typeBegin < p.l.Peek().Span.Begin {
		typeEnd = p.l.Peek().Span.Begin
	}
	wrapped := p.arena.New(ast.TypeAnnotated, source.Span{Begin: item.Span.Begin, End: typeEnd})
	wrapped.TypeText = p.src.Content[typeBegin:typeEnd]
	wrapped.Children = []*ast.Expression{item}
	if p.l.Peek().Type == token.Equal {
		p.l.Skip()
		defaultVal := p.ParseAssignment(Context{AllowIn: true})
		assign := p.arena.New(ast.Assignment, source.Span{Begin: wrapped.Span.Begin, End: defaultVal.Span.End})
		assign.Operator = token.Equal
		assign.Children = []*ast.Expression{wrapped, defaultVal}
		return assign
	}
	return wrapped
}

// skipTypeAnnotation consumes one TypeScript type expression without
// interpreting it, mirroring the statement-level parser's
// parseTypeAnnotationStub: internals of type-expression parsing are
// out of scope (spec §1), but the tokens still need to be skipped so
// the cursor lands back on the parameter list's delimiter.
func (p *Parser) skipTypeAnnotation() {
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

func (p *Parser) parseFunctionExpression(ctx Context, isAsync bool) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // 'function'
	isGenerator := false
	if p.l.Peek().Type == token.Star {
		p.l.Skip()
		isGenerator = true
	}
	kind := ast.Function
	var name string
	if token.IsIdentifierShaped(p.l.Peek().Type) {
		name = identifierText(p.l.Peek(), p.src)
		p.l.Skip()
		kind = ast.NamedFunction
	}
	params, ok := p.tryParenParamList()
	if !ok {
		p.errorExpected(p.l.Peek(), "')'")
	}
	node := p.arena.New(kind, source.Span{Begin: begin})
	node.Name = name
	node.Children = params
	node.TypeText = functionFlags(isAsync, isGenerator)
	if p.l.Peek().Type == token.LeftCurly {
		node.HasBody = true
		if ctx.ParseBlock != nil {
			span, buf := ctx.ParseBlock()
			node.Span.End = span.End
			node.BufferedBody = buf
		} else {
			node.Span.End = p.skipBalancedBraces()
		}
	} else {
		node.Span.End = p.l.EndOfPreviousToken()
	}
	return node
}

func (p *Parser) parseClassExpression(ctx Context) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	p.l.Skip() // 'class'
	node := p.arena.New(ast.Class, source.Span{Begin: begin})
	if token.IsIdentifierShaped(p.l.Peek().Type) {
		node.Name = identifierText(p.l.Peek(), p.src)
		p.l.Skip()
	}
	if p.l.Peek().Type == token.KwExtends {
		p.l.Skip()
		heritage := p.parseExpr(ctx, Call)
		node.Children = append(node.Children, heritage)
	}
	if p.l.Peek().Type == token.LeftCurly {
		node.HasBody = true
		node.Span.End = p.skipBalancedBraces()
	} else {
		p.errorExpected(p.l.Peek(), "'{'")
	}
	return node
}

// skipBalancedBraces consumes tokens starting at a `{` the caller has
// peeked but not skipped, returning the offset just past its matching
// `}`. Used when no statement-level collaborator is available to
// parse the body properly (e.g. a speculative or test-only parse).
func (p *Parser) skipBalancedBraces() int {
	depth := 0
	for {
		tok := p.l.Peek()
		if tok.Type == token.EndOfFile {
			return tok.Span.End
		}
		switch tok.Type {
		case token.LeftCurly:
			depth++
		case token.RightCurly:
			depth--
			if depth == 0 {
				p.l.Skip()
				return tok.Span.End
			}
		}
		p.l.Skip()
	}
}

// functionFlags packs the async/generator modifiers of a function or
// arrow node into TypeText, since Operator is already spoken for by
// binary/unary node kinds and a function can be async AND a
// generator at once.
func functionFlags(isAsync, isGenerator bool) string {
	switch {
	case isAsync && isGenerator:
		return "async-generator"
	case isAsync:
		return "async"
	case isGenerator:
		return "generator"
	default:
		return ""
	}
}

func (p *Parser) finishArrowFunction(ctx Context, begin int, params []*ast.Expression, isAsync bool) *ast.Expression {
	node := p.arena.New(ast.ArrowFunction, source.Span{Begin: begin})
	node.Children = params
	node.TypeText = functionFlags(isAsync, false)
	if p.l.Peek().Type == token.LeftCurly {
		node.HasBody = true
		if ctx.ParseBlock != nil {
			span, buf := ctx.ParseBlock()
			node.Span.End = span.End
			node.BufferedBody = buf
		} else {
			node.Span.End = p.skipBalancedBraces()
		}
	} else {
		body := p.ParseAssignment(ctx)
		node.ConciseBody = body
		node.Span.End = body.Span.End
	}
	return node
}

func (p *Parser) parseParenOrArrow(ctx Context) *ast.Expression {
	begin := p.l.Peek().Span.Begin
	tx := p.l.BeginTransaction()
	params, listOK := p.tryParenParamList()
	isArrow := listOK && p.l.Peek().Type == token.Arrow
	p.l.RollBackTransaction(tx)
	if isArrow {
		params, _ = p.tryParenParamList()
		p.l.Skip() // '=>'
		return p.finishArrowFunction(ctx, begin, params, false)
	}
	return p.parseGrouped(ctx, begin)
}

func (p *Parser) parseGrouped(ctx Context, begin int) *ast.Expression {
	p.l.Skip() // '('
	if p.l.Peek().Type == token.RightParen {
		end := p.l.Peek().Span.End
		p.l.Skip()
		p.errorExpected(token.Token{Type: token.RightParen, Span: source.Span{Begin: begin, End: end}}, "expression")
		return p.arena.New(ast.ParenEmpty, source.Span{Begin: begin, End: end})
	}
	inner := p.parseExpr(withAllowIn(ctx, true), Lowest)
	end := p.expect(token.RightParen, "')'")
	n := p.arena.New(ast.Paren, source.Span{Begin: begin, End: end.Span.End})
	n.Children = []*ast.Expression{inner}
	return n
}
