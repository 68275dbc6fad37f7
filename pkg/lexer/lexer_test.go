package lexer

import (
	"testing"

	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/source"
	"github.com/adrperez5/lintparse/pkg/token"
)

func collectTokens(input string) []token.Token {
	src := source.NewSourceFile("<test>", "", input)
	l := New(src, &diag.CollectingReporter{})
	var toks []token.Token
	for {
		tok := l.Peek()
		toks = append(toks, tok)
		l.Skip()
		if tok.Type == token.EndOfFile {
			break
		}
	}
	return toks
}

func TestNextToken(t *testing.T) {
	input := `let five = 5;
const ten = 10.5;
let add = function(x, y) {
  return x + y;
};
if (five < ten) {
  return true;
} else {
  return false;
}
10 === 10;
10 !== 9;
"foobar"
// a comment
let next = null;`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.KwLet, "let"}, {token.Identifier, "five"}, {token.Equal, "="},
		{token.Number, "5"}, {token.Semicolon, ";"},
		{token.KwConst, "const"}, {token.Identifier, "ten"}, {token.Equal, "="},
		{token.Number, "10.5"}, {token.Semicolon, ";"},
		{token.KwLet, "let"}, {token.Identifier, "add"}, {token.Equal, "="},
		{token.KwFunction, "function"}, {token.LeftParen, "("},
		{token.Identifier, "x"}, {token.Comma, ","}, {token.Identifier, "y"},
		{token.RightParen, ")"}, {token.LeftCurly, "{"},
		{token.KwReturn, "return"}, {token.Identifier, "x"}, {token.Plus, "+"},
		{token.Identifier, "y"}, {token.Semicolon, ";"}, {token.RightCurly, "}"},
		{token.Semicolon, ";"},
		{token.KwIf, "if"}, {token.LeftParen, "("}, {token.Identifier, "five"},
		{token.Less, "<"}, {token.Identifier, "ten"}, {token.RightParen, ")"},
		{token.LeftCurly, "{"}, {token.KwReturn, "return"}, {token.KwTrue, "true"},
		{token.Semicolon, ";"}, {token.RightCurly, "}"}, {token.KwElse, "else"},
		{token.LeftCurly, "{"}, {token.KwReturn, "return"}, {token.KwFalse, "false"},
		{token.Semicolon, ";"}, {token.RightCurly, "}"},
		{token.Number, "10"}, {token.EqualEqualEqual, "==="}, {token.Number, "10"},
		{token.Semicolon, ";"},
		{token.Number, "10"}, {token.BangEqualEqual, "!=="}, {token.Number, "9"},
		{token.Semicolon, ";"},
		{token.String, "foobar"},
		{token.KwLet, "let"}, {token.Identifier, "next"}, {token.Equal, "="},
		{token.KwNull, "null"}, {token.Semicolon, ";"},
		{token.EndOfFile, ""},
	}

	toks := collectTokens(input)
	for i, tt := range tests {
		if i >= len(toks) {
			t.Fatalf("ran out of tokens at index %d, expected %v", i, tt.expectedType.Name())
		}
		got := toks[i]
		if got.Type != tt.expectedType {
			t.Errorf("token[%d] - type wrong. expected=%v, got=%v", i, tt.expectedType.Name(), got.Type.Name())
		}
	}
}

func TestHasLeadingNewline(t *testing.T) {
	toks := collectTokens("a\nb")
	if toks[0].HasLeadingNewline {
		t.Errorf("first token should not have a leading newline")
	}
	if !toks[1].HasLeadingNewline {
		t.Errorf("second token should have a leading newline")
	}
}

func TestRegexLiteralVsDivision(t *testing.T) {
	toks := collectTokens("a / b")
	if toks[1].Type != token.Slash {
		t.Errorf("expected slash after identifier, got %v", toks[1].Type.Name())
	}

	toks = collectTokens("return /abc/;")
	if toks[1].Type != token.RegExpLiteral {
		t.Errorf("expected regexp literal after return, got %v", toks[1].Type.Name())
	}
}

func TestPeekIsIdempotentAcrossRegexLiteral(t *testing.T) {
	src := source.NewSourceFile("<test>", "", "= /bad[/;")
	reporter := &diag.CollectingReporter{}
	l := New(src, reporter)
	l.Skip() // consume '='
	first := l.Peek()
	second := l.Peek()
	if first.Type != second.Type || first.Span != second.Span {
		t.Errorf("Peek is not idempotent: %+v vs %+v", first, second)
	}
	l.Skip()
	if len(reporter.Diagnostics) > 1 {
		t.Errorf("invalid regexp literal reported %d times, want at most 1", len(reporter.Diagnostics))
	}
}

func TestTransactionRollback(t *testing.T) {
	src := source.NewSourceFile("<test>", "", "let x")
	l := New(src, &diag.CollectingReporter{})
	tx := l.BeginTransaction()
	l.Skip() // consume 'let'
	l.RollBackTransaction(tx)
	if l.Peek().Type != token.KwLet {
		t.Errorf("rollback did not restore cursor, got %v", l.Peek().Type.Name())
	}
}

func TestInsertSemicolon(t *testing.T) {
	src := source.NewSourceFile("<test>", "", "x")
	l := New(src, &diag.CollectingReporter{})
	l.Skip() // consume 'x'
	l.InsertSemicolon()
	if l.Peek().Type != token.Semicolon {
		t.Errorf("expected synthetic semicolon, got %v", l.Peek().Type.Name())
	}
	l.Skip()
	if l.Peek().Type != token.EndOfFile {
		t.Errorf("expected end of file after synthetic semicolon, got %v", l.Peek().Type.Name())
	}
}
