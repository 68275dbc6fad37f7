package exprparser

import "github.com/adrperez5/lintparse/pkg/token"

// Precedence levels, grounded on the teacher's pkg/parser/parser.go
// Pratt table (LOWEST..MEMBER), generalized to the new token taxonomy.
const (
	_ int = iota
	Lowest
	Comma
	Assignment
	Ternary
	Coalesce
	LogicalOr
	LogicalAnd
	BitwiseOr
	BitwiseXor
	BitwiseAnd
	Equals
	LessGreater
	Shift
	Sum
	Product
	Power
	Prefix
	Postfix
	Call
	Index
	Member
)

var precedences = map[token.Type]int{
	token.Comma: Comma,

	token.Equal:                      Assignment,
	token.PlusEqual:                  Assignment,
	token.MinusEqual:                 Assignment,
	token.StarEqual:                  Assignment,
	token.SlashEqual:                 Assignment,
	token.PercentEqual:               Assignment,
	token.StarStarEqual:              Assignment,
	token.AmpEqual:                   Assignment,
	token.PipeEqual:                  Assignment,
	token.CaretEqual:                 Assignment,
	token.LessLessEqual:              Assignment,
	token.GreaterGreaterEqual:        Assignment,
	token.GreaterGreaterGreaterEqual: Assignment,
	token.AmpAmpEqual:                Assignment,
	token.PipePipeEqual:              Assignment,
	token.QuestionQuestionEqual:      Assignment,

	token.Question:         Ternary,
	token.QuestionQuestion: Coalesce,
	token.PipePipe:         LogicalOr,
	token.AmpAmp:           LogicalAnd,

	token.Pipe:  BitwiseOr,
	token.Caret: BitwiseXor,
	token.Amp:   BitwiseAnd,

	token.EqualEqual:      Equals,
	token.BangEqual:       Equals,
	token.EqualEqualEqual: Equals,
	token.BangEqualEqual:  Equals,

	token.Less:         LessGreater,
	token.Greater:      LessGreater,
	token.LessEqual:    LessGreater,
	token.GreaterEqual: LessGreater,
	token.KwIn:         LessGreater,
	token.KwInstanceof: LessGreater,

	token.LessLess:              Shift,
	token.GreaterGreater:        Shift,
	token.GreaterGreaterGreater: Shift,

	token.Plus:  Sum,
	token.Minus: Sum,

	token.Star:    Product,
	token.Slash:   Product,
	token.Percent: Product,

	token.StarStar: Power,

	token.LeftParen:    Call,
	token.LeftSquare:   Index,
	token.Dot:          Member,
	token.QuestionDot:  Member,
	token.Bang:         Postfix,
	token.PlusPlus:     Postfix,
	token.MinusMinus:   Postfix,
}

// withAllowIn returns ctx with AllowIn overridden, preserving every
// other field (notably ParseBlock) that a nested parse still needs.
func withAllowIn(ctx Context, allow bool) Context {
	ctx.AllowIn = allow
	return ctx
}

func precedenceOf(t token.Type) int {
	if p, ok := precedences[t]; ok {
		return p
	}
	return Lowest
}

// rightAssociative reports whether the infix operator at t binds its
// right operand at the same precedence instead of one higher, i.e.
// `a ** b ** c` parses as `a ** (b ** c)`.
func rightAssociative(t token.Type) bool {
	return t == token.StarStar || token.IsCompoundAssignment(t) || token.IsConditionalAssignment(t) || t == token.Equal
}
