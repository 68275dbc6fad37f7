// Package token defines the lexical token taxonomy consumed by the
// parser core. It is grounded on the teacher's pkg/lexer token
// constants, generalized from that package's ~40 token kinds to the
// closed enumeration of about 150 kinds described by the parser's
// contract with its lexer.
package token

import "github.com/adrperez5/lintparse/pkg/source"

// Type is a tag from the closed token-type enumeration.
type Type int

// Token is a lexeme record: its type, its byte span into the source
// buffer, whether a line terminator precedes it, and (for
// identifier-shaped or literal-shaped tokens) its decoded value.
type Token struct {
	Type             Type
	Span             source.Span
	HasLeadingNewline bool

	// IdentifierName is populated for Identifier, ContextualKeyword,
	// PrivateIdentifier and ReservedKeywordWithEscapeSequence tokens.
	IdentifierName string

	// LiteralText is the raw source text for Number and BigInt
	// literals and regexp literals; for String literals and template
	// fragments it is the raw text between the delimiters.
	LiteralText string
}

// Begin and End expose the token's byte offsets, mirroring the
// teacher's lexer.Token.StartPos/EndPos fields.
func (t Token) Begin() int { return t.Span.Begin }
func (t Token) End() int   { return t.Span.End }

const (
	Invalid Type = iota

	EndOfFile
	Identifier
	PrivateIdentifier
	ReservedKeywordWithEscapeSequence

	Number
	BigInt
	String
	TemplateComplete    // `text` with no substitutions
	TemplateIncomplete   // `text${ ... opening half of a substitution
	RegExpLiteral

	// Punctuation
	LeftParen
	RightParen
	LeftCurly
	RightCurly
	LeftSquare
	RightSquare
	Dot
	DotDotDot
	Semicolon
	Comma
	Colon
	Question
	QuestionDot
	QuestionQuestion
	Bang
	Tilde
	At
	Arrow // =>

	// Assignment family
	Equal
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PercentEqual
	StarStarEqual
	AmpEqual
	PipeEqual
	CaretEqual
	LessLessEqual
	GreaterGreaterEqual
	GreaterGreaterGreaterEqual
	AmpAmpEqual
	PipePipeEqual
	QuestionQuestionEqual

	// Binary/unary operators
	Plus
	PlusPlus
	Minus
	MinusMinus
	Star
	StarStar
	Slash
	Percent
	Less
	LessEqual
	Greater
	GreaterEqual
	EqualEqual
	EqualEqualEqual
	BangEqual
	BangEqualEqual
	Amp
	AmpAmp
	Pipe
	PipePipe
	Caret
	LessLess
	GreaterGreater
	GreaterGreaterGreater

	// Strict reserved keywords
	KwVar
	KwConst
	KwIf
	KwElse
	KwClass
	KwFunction
	KwReturn
	KwFor
	KwWhile
	KwDo
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwTry
	KwCatch
	KwFinally
	KwThrow
	KwNew
	KwDelete
	KwTypeof
	KwVoid
	KwIn
	KwInstanceof
	KwThis
	KwSuper
	KwNull
	KwTrue
	KwFalse
	KwImport
	KwExport
	KwExtends
	KwWith
	KwDebugger
	KwYield
	KwAwait

	// Contextual keywords (identifier-shaped, grammar-position-sensitive)
	KwAs
	KwFrom
	KwOf
	KwAsync
	KwGet
	KwSet
	KwStatic
	KwType
	KwLet
	KwConstructor
	KwAny
	KwAssert
	KwAsserts
	KwBigint
	KwBoolean
	KwGlobal
	KwIntrinsic
	KwIs
	KwAbstract
	KwDeclare
	KwReadonly
	KwNamespace
	KwInterface
	KwModule
	KwKeyof
	KwInfer
	KwUnknown
	KwNever
	KwObjectKw
	KwString
	KwNumberKw
	KwSymbol
	KwEnum
	KwImplements
	KwPackage
	KwPrivate
	KwProtected
	KwPublic
	KwOverride
	KwOut
	KwSatisfies
	KwUndefinedKw

	// JSX (only meaningful when Options.JSX is set)
	LessSlash
	SlashGreater
)

// contextualKeywords is the set of identifier-shaped tokens that the
// grammar treats as keywords only in specific positions; everywhere
// else they are plain identifiers. Mirrors spec §3's macro-group.
var contextualKeywords = map[Type]bool{
	KwAs: true, KwFrom: true, KwOf: true, KwAsync: true, KwGet: true,
	KwSet: true, KwStatic: true, KwType: true, KwLet: true,
	KwConstructor: true, KwAny: true, KwAssert: true, KwAsserts: true,
	KwBigint: true, KwBoolean: true, KwGlobal: true, KwIntrinsic: true,
	KwIs: true, KwAbstract: true, KwDeclare: true, KwReadonly: true,
	KwNamespace: true, KwInterface: true, KwModule: true, KwKeyof: true,
	KwInfer: true, KwUnknown: true, KwNever: true, KwObjectKw: true,
	KwString: true, KwNumberKw: true, KwSymbol: true, KwEnum: true,
	KwImplements: true, KwPackage: true, KwPrivate: true,
	KwProtected: true, KwPublic: true, KwOverride: true, KwOut: true,
	KwSatisfies: true, KwUndefinedKw: true, KwAwait: true, KwYield: true,
}

// IsContextualKeyword reports whether t may also act as a plain
// identifier depending on grammatical position.
func IsContextualKeyword(t Type) bool { return contextualKeywords[t] }

var compoundAssignment = map[Type]bool{
	PlusEqual: true, MinusEqual: true, StarEqual: true, SlashEqual: true,
	PercentEqual: true, StarStarEqual: true, AmpEqual: true,
	PipeEqual: true, CaretEqual: true, LessLessEqual: true,
	GreaterGreaterEqual: true, GreaterGreaterGreaterEqual: true,
}

// IsCompoundAssignment reports whether t is a compound-assignment
// operator such as `+=`.
func IsCompoundAssignment(t Type) bool { return compoundAssignment[t] }

var conditionalAssignment = map[Type]bool{
	AmpAmpEqual: true, PipePipeEqual: true, QuestionQuestionEqual: true,
}

// IsConditionalAssignment reports whether t is one of `&&=`, `||=`, `??=`.
func IsConditionalAssignment(t Type) bool { return conditionalAssignment[t] }

var binaryOnlyOperator = map[Type]bool{
	Plus: true, Minus: true, Star: true, StarStar: true, Slash: true,
	Percent: true, Less: true, LessEqual: true, Greater: true,
	GreaterEqual: true, EqualEqual: true, EqualEqualEqual: true,
	BangEqual: true, BangEqualEqual: true, Amp: true, AmpAmp: true,
	Pipe: true, PipePipe: true, Caret: true, LessLess: true,
	GreaterGreater: true, GreaterGreaterGreater: true, KwInstanceof: true,
	KwIn: true, QuestionQuestion: true,
}

// IsBinaryOnlyOperator reports whether t is an infix binary operator
// that the expression parser folds into a BinaryOperator node. `+` and
// `-` are in the set even though they also act as unary prefixes.
func IsBinaryOnlyOperator(t Type) bool { return binaryOnlyOperator[t] }

// IsIdentifierShaped reports whether t can begin a label or be used as
// a binding name in a loose grammatical position: a plain identifier,
// a contextual keyword, or an escaped reserved keyword.
func IsIdentifierShaped(t Type) bool {
	return t == Identifier || IsContextualKeyword(t) || t == ReservedKeywordWithEscapeSequence
}

// strictKeywordNames lists spellings that can never be used as a
// binding or import name, per spec §4.2.1/§4.2.4.
var strictKeywordNames = map[string]bool{
	"var": true, "if": true, "else": true, "class": true, "function": true,
	"return": true, "for": true, "while": true, "do": true, "switch": true,
	"case": true, "default": true, "break": true, "continue": true,
	"try": true, "catch": true, "finally": true, "throw": true, "new": true,
	"delete": true, "typeof": true, "void": true, "in": true,
	"instanceof": true, "this": true, "super": true, "null": true,
	"true": true, "false": true, "import": true, "export": true,
	"extends": true, "with": true, "debugger": true,
}

// IsStrictKeywordName reports whether name is a reserved word that can
// never be declared as a binding.
func IsStrictKeywordName(name string) bool { return strictKeywordNames[name] }

// Name returns a human-readable spelling for diagnostics and tests.
func (t Type) Name() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown-token"
}

var typeNames = map[Type]string{
	EndOfFile: "end of file", Identifier: "identifier", Number: "number literal",
	String: "string literal", LeftParen: "'('", RightParen: "')'",
	LeftCurly: "'{'", RightCurly: "'}'", LeftSquare: "'['", RightSquare: "']'",
	Dot: "'.'", DotDotDot: "'...'", Semicolon: "';'", Comma: "','",
	Colon: "':'", Question: "'?'", Arrow: "'=>'", Equal: "'='",
	KwVar: "'var'", KwLet: "'let'", KwConst: "'const'", KwIf: "'if'",
	KwElse: "'else'", KwClass: "'class'", KwFunction: "'function'",
	KwReturn: "'return'", KwFor: "'for'", KwWhile: "'while'", KwDo: "'do'",
	KwSwitch: "'switch'", KwCase: "'case'", KwDefault: "'default'",
	KwBreak: "'break'", KwContinue: "'continue'", KwTry: "'try'",
	KwCatch: "'catch'", KwFinally: "'finally'", KwThrow: "'throw'",
	KwImport: "'import'", KwExport: "'export'", KwExtends: "'extends'",
	KwWith: "'with'", KwDebugger: "'debugger'", KwYield: "'yield'",
	KwAwait: "'await'", KwAsync: "'async'", KwType: "'type'",
	KwAbstract: "'abstract'", KwDeclare: "'declare'", KwEnum: "'enum'",
	KwInterface: "'interface'", Star: "'*'",
}

