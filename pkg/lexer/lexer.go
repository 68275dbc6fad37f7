// Package lexer is the tokenizer consumed by the parser core (spec
// §6.1). The parser treats it as an external collaborator that
// provides a token stream with one-token lookahead and a transaction
// facility; this package supplies a concrete, reference
// implementation grounded on the teacher's pkg/lexer/lexer.go
// character-scanning style (byte cursor, explicit switch over the
// current character, readChar/peekChar), generalized to the full
// token taxonomy in pkg/token, with contextual-keyword retagging,
// template literals, regexp literals, and a LIFO transaction stack
// (absent from the teacher, grounded on JeremiasRy-go_js's Context
// stack and on original_source's lexer_transaction semantics).
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/rangetable"

	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/token"
)

// idStartSet and idContinueSet classify identifier characters per the
// Unicode ID_Start/ID_Continue properties (ES2015 §11.6). The merged
// range tables come from golang.org/x/text/unicode/rangetable the same
// way the teacher's dependency tree pulls in x/text for Unicode table
// work, rather than the coarser unicode.IsLetter the teacher's own
// lexer uses; runes.In turns each merged table into a reusable
// runes.Set so membership reads as a method call at every call site
// instead of a repeated unicode.Is(table, r).
var idStartTable = rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl)
var idContinueTable = rangetable.Merge(idStartTable, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)

var idStartSet = runes.In(idStartTable)
var idContinueSet = runes.In(idContinueTable)

func isIdentifierStart(r rune) bool {
	return r == '$' || r == '_' || idStartSet.Contains(r)
}

func isIdentifierContinue(r rune) bool {
	return r == '$' || r == '_' || r == 0x200C || r == 0x200D || idContinueSet.Contains(r)
}

var keywords = map[string]token.Type{
	"var": token.KwVar, "let": token.KwLet, "const": token.KwConst,
	"if": token.KwIf, "else": token.KwElse, "class": token.KwClass,
	"function": token.KwFunction, "return": token.KwReturn, "for": token.KwFor,
	"while": token.KwWhile, "do": token.KwDo, "switch": token.KwSwitch,
	"case": token.KwCase, "default": token.KwDefault, "break": token.KwBreak,
	"continue": token.KwContinue, "try": token.KwTry, "catch": token.KwCatch,
	"finally": token.KwFinally, "throw": token.KwThrow, "new": token.KwNew,
	"delete": token.KwDelete, "typeof": token.KwTypeof, "void": token.KwVoid,
	"in": token.KwIn, "instanceof": token.KwInstanceof, "this": token.KwThis,
	"super": token.KwSuper, "null": token.KwNull, "true": token.KwTrue,
	"false": token.KwFalse, "import": token.KwImport, "export": token.KwExport,
	"extends": token.KwExtends, "with": token.KwWith, "debugger": token.KwDebugger,
	"yield": token.KwYield, "await": token.KwAwait,

	"as": token.KwAs, "from": token.KwFrom, "of": token.KwOf,
	"async": token.KwAsync, "get": token.KwGet, "set": token.KwSet,
	"static": token.KwStatic, "type": token.KwType,
	"constructor": token.KwConstructor, "any": token.KwAny,
	"assert": token.KwAssert, "asserts": token.KwAsserts,
	"bigint": token.KwBigint, "boolean": token.KwBoolean,
	"global": token.KwGlobal, "intrinsic": token.KwIntrinsic, "is": token.KwIs,
	"abstract": token.KwAbstract, "declare": token.KwDeclare,
	"readonly": token.KwReadonly, "namespace": token.KwNamespace,
	"interface": token.KwInterface, "module": token.KwModule,
	"keyof": token.KwKeyof, "infer": token.KwInfer, "unknown": token.KwUnknown,
	"never": token.KwNever, "object": token.KwObjectKw, "string": token.KwString,
	"number": token.KwNumberKw, "symbol": token.KwSymbol, "enum": token.KwEnum,
	"implements": token.KwImplements, "package": token.KwPackage,
	"private": token.KwPrivate, "protected": token.KwProtected,
	"public": token.KwPublic, "override": token.KwOverride, "out": token.KwOut,
	"satisfies": token.KwSatisfies, "undefined": token.KwUndefinedKw,
}

// LookupIdent resolves an identifier's spelling to a keyword Type, or
// to token.Identifier if it is not a reserved or contextual keyword.
func LookupIdent(ident string) token.Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return token.Identifier
}

// templateState tracks whether the lexer is inside a `${ ... }`
// substitution so that a bare `}` can resume template-literal scanning
// instead of being read as RightCurly.
type templateState struct {
	braceDepth int // curly braces opened since the substitution began
}

// Lexer is the stateful cursor over a source buffer.
type Lexer struct {
	src    *source.SourceFile
	input  string
	pos    int // byte offset of l.ch
	rdPos  int // byte offset after l.ch
	ch     rune
	chSize int

	pendingNewline  bool // a newline was skipped since the last token
	prevSignificant token.Type
	templateStack   []templateState
	lastTokenEnd    int

	// synthetic, when non-nil, is a token pushed back by
	// InsertSemicolon that the next Peek/Skip must return before any
	// further real scanning happens.
	synthetic *token.Token

	// cache memoizes the result of the most recent Peek so that a
	// following Skip need not rescan (which would, for a regexp
	// literal, run the regexp2 validator and report its diagnostic a
	// second time).
	cache *peekCache

	reporter diag.Reporter

	// txDepth is a debug counter verifying the LIFO discipline that
	// BeginTransaction/CommitTransaction/RollBackTransaction must obey.
	txDepth int
}

type peekCache struct {
	tok   token.Token
	after cursorState
}

// cursorState snapshots every field a transaction rollback or a
// deferred Skip must be able to restore.
type cursorState struct {
	pos, rdPos        int
	ch                rune
	chSize            int
	pendingNewline    bool
	prevSignificant   token.Type
	templateStackLen  int
	lastTokenEnd      int
	synthetic         *token.Token
	cache             *peekCache
}

// New constructs a Lexer over src, reporting lexical diagnostics (e.g.
// invalid regexp literals) to reporter.
func New(src *source.SourceFile, reporter diag.Reporter) *Lexer {
	l := &Lexer{src: src, input: src.Content, reporter: reporter, prevSignificant: token.Invalid}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.rdPos >= len(l.input) {
		l.ch = 0
		l.chSize = 0
		l.pos = len(l.input)
		l.rdPos = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.rdPos:])
	l.pos = l.rdPos
	l.ch = r
	l.chSize = size
	l.rdPos += size
}

func (l *Lexer) peekRuneAfterCurrent() rune {
	if l.rdPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.rdPos:])
	return r
}

func (l *Lexer) advance() {
	l.pos = l.rdPos
	l.readChar()
}

// skipTrivia consumes whitespace and comments, recording whether a
// line terminator was crossed (for has_leading_newline / ASI).
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.ch == '\n':
			l.pendingNewline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\v' || l.ch == '\f':
			l.readChar()
		case l.ch == '/' && l.peekRuneAfterCurrent() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekRuneAfterCurrent() == '*':
			l.readChar()
			l.readChar()
			for {
				if l.ch == 0 {
					return
				}
				if l.ch == '\n' {
					l.pendingNewline = true
				}
				if l.ch == '*' && l.peekRuneAfterCurrent() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) make(typ token.Type, begin int) token.Token {
	t := token.Token{
		Type:              typ,
		Span:              source.Span{Begin: begin, End: l.pos},
		HasLeadingNewline: l.pendingNewline,
	}
	l.pendingNewline = false
	l.prevSignificant = typ
	return t
}

func (l *Lexer) makeIdent(typ token.Type, begin int, name string) token.Token {
	t := l.make(typ, begin)
	t.IdentifierName = name
	return t
}

// canPrecedeRegexLiteral reports whether a `/` immediately following
// prev can only start a regexp literal (as opposed to a division
// operator), using the standard "previous token cannot end an
// expression" heuristic.
func canPrecedeRegexLiteral(prev token.Type) bool {
	switch prev {
	case token.Identifier, token.Number, token.BigInt, token.String,
		token.RightParen, token.RightSquare, token.RightCurly,
		token.KwThis, token.KwSuper, token.KwTrue, token.KwFalse, token.KwNull,
		token.PlusPlus, token.MinusMinus, token.TemplateComplete,
		token.PrivateIdentifier:
		return false
	default:
		return true
	}
}

func (l *Lexer) snapshot() cursorState {
	return cursorState{pos: l.pos, rdPos: l.rdPos, ch: l.ch, chSize: l.chSize,
		pendingNewline: l.pendingNewline, prevSignificant: l.prevSignificant,
		templateStackLen: len(l.templateStack), lastTokenEnd: l.lastTokenEnd,
		synthetic: l.synthetic, cache: l.cache}
}

func (l *Lexer) restore(s cursorState) {
	l.pos, l.rdPos, l.ch, l.chSize = s.pos, s.rdPos, s.ch, s.chSize
	l.pendingNewline, l.prevSignificant = s.pendingNewline, s.prevSignificant
	l.templateStack = l.templateStack[:s.templateStackLen]
	l.lastTokenEnd = s.lastTokenEnd
	l.synthetic = s.synthetic
	l.cache = s.cache
}

// Peek returns the current token without consuming it. Idempotent:
// calling it repeatedly (including across a regexp literal, which
// would otherwise re-run regexp2 validation and double-report) always
// returns the same token and reports each diagnostic at most once.
func (l *Lexer) Peek() token.Token {
	if l.synthetic != nil {
		return *l.synthetic
	}
	if l.cache != nil {
		return l.cache.tok
	}
	before := l.snapshot()
	tok := l.scan()
	after := l.snapshot()
	l.restore(before)
	l.cache = &peekCache{tok: tok, after: after}
	return tok
}

// Skip advances past the current token, consuming either the pending
// synthetic token, the cached peek, or (if neither is present) a
// freshly scanned one.
func (l *Lexer) Skip() {
	if l.synthetic != nil {
		l.lastTokenEnd = l.synthetic.Span.End
		l.synthetic = nil
		return
	}
	if l.cache != nil {
		c := l.cache
		l.cache = nil
		l.pos, l.rdPos, l.ch, l.chSize = c.after.pos, c.after.rdPos, c.after.ch, c.after.chSize
		l.pendingNewline, l.prevSignificant = c.after.pendingNewline, c.after.prevSignificant
		l.templateStack = l.templateStack[:c.after.templateStackLen]
		l.lastTokenEnd = c.tok.Span.End
		return
	}
	tok := l.scan()
	l.lastTokenEnd = tok.Span.End
}

// InsertSemicolon pushes back a synthetic `;` token at the current
// cursor position, for ASI and for statement-parser error recovery
// (spec §6.1). The synthetic token occupies a zero-width span at the
// end of the previous token and is returned by the next Peek/Skip
// ahead of anything already cached.
func (l *Lexer) InsertSemicolon() {
	pos := l.EndOfPreviousToken()
	l.synthetic = &token.Token{Type: token.Semicolon, Span: source.Span{Begin: pos, End: pos}}
}

// EndOfPreviousToken returns the byte offset just after the most
// recently consumed token, used to anchor zero-width diagnostic spans
// (spec §6.1).
func (l *Lexer) EndOfPreviousToken() int {
	return l.lastTokenEnd
}

// Transaction is an opaque handle returned by BeginTransaction.
type Transaction struct {
	snap cursorState
}

// BeginTransaction snapshots the cursor so a caller can speculatively
// consume tokens and later commit or roll back (spec §5, §6.1).
// Transactions must nest LIFO, matching the parser's own buffering
// and guard stacks; txDepth is a debug counter that verifies this.
func (l *Lexer) BeginTransaction() Transaction {
	l.txDepth++
	return Transaction{snap: l.snapshot()}
}

// CommitTransaction discards the snapshot; consumed tokens stay consumed.
func (l *Lexer) CommitTransaction(tx Transaction) {
	if l.txDepth == 0 {
		panic("lexer: commit without matching begin")
	}
	l.txDepth--
}

// RollBackTransaction restores the cursor to where it was when the
// transaction began; tokens consumed since then reappear.
func (l *Lexer) RollBackTransaction(tx Transaction) {
	if l.txDepth == 0 {
		panic("lexer: rollback without matching begin")
	}
	l.txDepth--
	l.restore(tx.snap)
}

// scan performs the actual tokenization step, mutating the cursor.
// Callers that need non-destructive lookahead go through Peek, which
// wraps this in a snapshot/restore pair.
func (l *Lexer) scan() token.Token {

	l.skipTrivia()
	begin := l.pos

	if l.ch == 0 {
		return l.make(token.EndOfFile, begin)
	}

	if isIdentifierStart(l.ch) {
		return l.scanIdentifier(begin)
	}
	if l.ch >= '0' && l.ch <= '9' {
		return l.scanNumber(begin)
	}
	if l.ch == '.' && l.peekRuneAfterCurrent() >= '0' && l.peekRuneAfterCurrent() <= '9' {
		return l.scanNumber(begin)
	}

	switch l.ch {
	case '"', '\'':
		return l.scanString(begin, l.ch)
	case '`':
		return l.scanTemplate(begin, true)
	case '}':
		if len(l.templateStack) > 0 && l.templateStack[len(l.templateStack)-1].braceDepth == 0 {
			l.templateStack = l.templateStack[:len(l.templateStack)-1]
			return l.scanTemplate(begin, false)
		}
		if len(l.templateStack) > 0 {
			l.templateStack[len(l.templateStack)-1].braceDepth--
		}
		l.advance()
		return l.make(token.RightCurly, begin)
	case '{':
		if len(l.templateStack) > 0 {
			l.templateStack[len(l.templateStack)-1].braceDepth++
		}
		l.advance()
		return l.make(token.LeftCurly, begin)
	case '/':
		if canPrecedeRegexLiteral(l.prevSignificant) {
			return l.scanRegexLiteral(begin)
		}
		return l.scanOperatorStartingWithSlash(begin)
	case '#':
		l.advance()
		if isIdentifierStart(l.ch) {
			name := l.scanIdentifierName()
			return l.makeIdent(token.PrivateIdentifier, begin, name)
		}
		return l.make(token.Invalid, begin)
	}

	return l.scanPunctuation(begin)
}

func (l *Lexer) scanIdentifierName() string {
	var b strings.Builder
	for isIdentifierContinue(l.ch) {
		b.WriteRune(l.ch)
		l.advance()
	}
	return b.String()
}

func (l *Lexer) scanIdentifier(begin int) token.Token {
	hadEscape := false
	if l.ch == '\\' {
		hadEscape = true
	}
	name := l.scanIdentifierName()
	typ := LookupIdent(name)
	if hadEscape && typ != token.Identifier {
		typ = token.ReservedKeywordWithEscapeSequence
	}
	return l.makeIdent(typ, begin, name)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isDigitOrSeparator(r rune) bool {
	return (r >= '0' && r <= '9') || r == '_'
}

// scanNumber scans decimal, hex (0x), octal (0o), and binary (0b)
// numeric literals, an optional fractional part, an optional
// exponent, and an optional trailing BigInt `n` suffix.
func (l *Lexer) scanNumber(begin int) token.Token {
	if l.ch == '0' && (l.peekRuneAfterCurrent() == 'x' || l.peekRuneAfterCurrent() == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.advance()
		}
	} else if l.ch == '0' && (l.peekRuneAfterCurrent() == 'o' || l.peekRuneAfterCurrent() == 'O' ||
		l.peekRuneAfterCurrent() == 'b' || l.peekRuneAfterCurrent() == 'B') {
		l.advance()
		l.advance()
		for isDigitOrSeparator(l.ch) {
			l.advance()
		}
	} else {
		for isDigitOrSeparator(l.ch) {
			l.advance()
		}
		if l.ch == '.' {
			l.advance()
			for isDigitOrSeparator(l.ch) {
				l.advance()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.advance()
			if l.ch == '+' || l.ch == '-' {
				l.advance()
			}
			for isDigitOrSeparator(l.ch) {
				l.advance()
			}
		}
	}
	if l.ch == 'n' {
		l.advance()
		t := l.make(token.BigInt, begin)
		t.LiteralText = l.input[begin:l.pos]
		return t
	}
	t := l.make(token.Number, begin)
	t.LiteralText = l.input[begin:l.pos]
	return t
}

func (l *Lexer) scanString(begin int, quote rune) token.Token {
	l.advance() // consume opening quote
	var b strings.Builder
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			t := l.make(token.Invalid, begin)
			t.LiteralText = b.String()
			return t
		}
		if l.ch == '\\' {
			b.WriteRune(l.ch)
			l.advance()
			if l.ch != 0 {
				b.WriteRune(l.ch)
				l.advance()
			}
			continue
		}
		b.WriteRune(l.ch)
		l.advance()
	}
	l.advance() // consume closing quote
	t := l.make(token.String, begin)
	t.LiteralText = b.String()
	return t
}

// scanTemplate scans either a full `...` template (start=true, may
// close with a backtick or open a substitution with `${`) or the
// continuation after a substitution's closing `}`.
func (l *Lexer) scanTemplate(begin int, start bool) token.Token {
	if start {
		l.advance() // consume opening backtick
	}
	var b strings.Builder
	for {
		switch l.ch {
		case 0:
			t := l.make(token.Invalid, begin)
			t.LiteralText = b.String()
			return t
		case '`':
			l.advance()
			t := l.make(token.TemplateComplete, begin)
			t.LiteralText = b.String()
			return t
		case '$':
			if l.peekRuneAfterCurrent() == '{' {
				l.advance()
				l.advance()
				l.templateStack = append(l.templateStack, templateState{})
				t := l.make(token.TemplateIncomplete, begin)
				t.LiteralText = b.String()
				return t
			}
			b.WriteRune(l.ch)
			l.advance()
		case '\\':
			b.WriteRune(l.ch)
			l.advance()
			if l.ch != 0 {
				b.WriteRune(l.ch)
				l.advance()
			}
		default:
			b.WriteRune(l.ch)
			l.advance()
		}
	}
}

// scanRegexLiteral scans `/pattern/flags` and validates the pattern
// with dlclark/regexp2, which (unlike the standard library's
// regexp/syntax) understands JavaScript-only regex syntax such as
// lookbehind and named-group backreferences. An invalid pattern is
// reported but still returned as a RegExpLiteral token so the parser
// can recover.
func (l *Lexer) scanRegexLiteral(begin int) token.Token {
	l.advance() // consume opening '/'
	inClass := false
	for {
		if l.ch == 0 || l.ch == '\n' {
			break
		}
		if l.ch == '\\' {
			l.advance()
			if l.ch != 0 {
				l.advance()
			}
			continue
		}
		if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		} else if l.ch == '/' && !inClass {
			l.advance()
			break
		}
		l.advance()
	}
	for isIdentifierContinue(l.ch) {
		l.advance()
	}
	text := l.input[begin:l.pos]
	t := l.make(token.RegExpLiteral, begin)
	t.LiteralText = text
	l.validateRegexLiteral(t)
	return t
}

func (l *Lexer) validateRegexLiteral(t token.Token) {
	text := t.LiteralText
	lastSlash := strings.LastIndex(text, "/")
	if len(text) < 2 || !strings.HasPrefix(text, "/") || lastSlash <= 0 {
		return
	}
	pattern := text[1:lastSlash]
	flags := text[lastSlash+1:]
	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		}
	}
	if _, err := regexp2.Compile(pattern, opts); err != nil && l.reporter != nil {
		l.reporter.Report(diag.Diagnostic{
			Code:    diag.InvalidRegExpLiteral,
			Message: "invalid regular expression literal: " + err.Error(),
			Spans:   []source.Span{t.Span},
			Source:  l.src,
		})
	}
}

func (l *Lexer) scanOperatorStartingWithSlash(begin int) token.Token {
	l.advance()
	if l.ch == '=' {
		l.advance()
		return l.make(token.SlashEqual, begin)
	}
	return l.make(token.Slash, begin)
}

type punct struct {
	text string
	typ  token.Type
}

// punctTable is ordered longest-match-first so `>>>=` is preferred
// over `>>>` which is preferred over `>>`, etc.
var punctTable = []punct{
	{">>>=", token.GreaterGreaterGreaterEqual},
	{"...", token.DotDotDot},
	{"===", token.EqualEqualEqual},
	{"!==", token.BangEqualEqual},
	{"**=", token.StarStarEqual},
	{"<<=", token.LessLessEqual},
	{">>=", token.GreaterGreaterEqual},
	{">>>", token.GreaterGreaterGreater},
	{"&&=", token.AmpAmpEqual},
	{"||=", token.PipePipeEqual},
	{"??=", token.QuestionQuestionEqual},
	{"=>", token.Arrow},
	{"==", token.EqualEqual},
	{"!=", token.BangEqual},
	{"<=", token.LessEqual},
	{">=", token.GreaterEqual},
	{"&&", token.AmpAmp},
	{"||", token.PipePipe},
	{"??", token.QuestionQuestion},
	{"?.", token.QuestionDot},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"**", token.StarStar},
	{"<<", token.LessLess},
	{">>", token.GreaterGreater},
	{"+=", token.PlusEqual},
	{"-=", token.MinusEqual},
	{"*=", token.StarEqual},
	{"%=", token.PercentEqual},
	{"&=", token.AmpEqual},
	{"|=", token.PipeEqual},
	{"^=", token.CaretEqual},
	{"(", token.LeftParen}, {")", token.RightParen},
	{"[", token.LeftSquare}, {"]", token.RightSquare},
	{";", token.Semicolon}, {",", token.Comma}, {":", token.Colon},
	{"?", token.Question}, {"!", token.Bang}, {"~", token.Tilde},
	{"@", token.At}, {"=", token.Equal}, {"+", token.Plus}, {"-", token.Minus},
	{"*", token.Star}, {"%", token.Percent}, {"<", token.Less}, {">", token.Greater},
	{"&", token.Amp}, {"|", token.Pipe}, {"^", token.Caret}, {".", token.Dot},
}

func (l *Lexer) scanPunctuation(begin int) token.Token {
	rest := l.input[l.pos:]
	for _, p := range punctTable {
		if strings.HasPrefix(rest, p.text) {
			for range p.text {
				l.advance()
			}
			return l.make(p.typ, begin)
		}
	}
	l.advance()
	return l.make(token.Invalid, begin)
}
