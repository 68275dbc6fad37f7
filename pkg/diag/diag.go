// Package diag is the diagnostic reporter sink consumed by the parser
// core (spec §6.4). It is grounded on the teacher's pkg/errors, which
// modeled a handful of error kinds (SyntaxError, TypeError, ...) as
// distinct Go types implementing a shared interface; here that shape
// is generalized to a single Diagnostic struct tagged by a closed
// Code enumeration, since the core never needs to type-switch on a
// diagnostic's Go type, only on its Code.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/adrperez5/lintparse/pkg/source"
)

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Code is a tag from the closed diagnostic registry below. The full
// quick-lint-js diagnostic registry has 200+ entries; this is the
// representative subset cited by name in spec.md §4 plus the few
// original_source-only diagnostics named in SPEC_FULL.md.
type Code int

const (
	UnexpectedToken Code = iota
	UnclosedCodeBlock
	CatchWithoutTry
	FinallyWithoutTry
	ElseWithoutIf
	CaseOutsideSwitch
	DefaultOutsideSwitch
	ExtendsOutsideClass
	QuestionOutsideConditional
	ColonOutsideConditional
	MissingSemicolonAfterStatement
	ExpectedExpressionBeforeNewline
	ReturnStatementReturnsNothing
	MissingInitializerInConstDeclaration
	CannotDeclareVariableNamedLetWithLet
	CannotDeclareVariableWithKeywordName
	CannotAssignToLoopVariableInForOfOrInLoop
	MissingCommaBetweenVariableDeclarations
	LetWithNoBindings
	StrayCommaInLetStatement
	UnexpectedTokenInVariableDeclaration
	CannotUpdateVariableDuringDeclaration
	InvalidParameter
	NonNullAssertionNotAllowedInParameter
	StrayCommaInParameter
	UnexpectedLiteralInParameterList
	CannotDeclareAwaitDuringDeclaration
	CannotDeclareYieldDuringDeclaration
	GeneratorFunctionStarBelongsBeforeName
	CommaNotAllowedAfterSpreadParameter
	MissingFunctionParameterList
	FunctionsOrMethodsShouldNotHaveArrowOperator
	TypeScriptGenericParameterListIsEmpty
	TypeScriptGenericParameterListLeadingComma
	InterfaceMethodsCannotContainBodies
	TypeScriptInlineTypeImportNotAllowedInTypeOnlyImport
	CannotImportVariableNamedKeyword
	CannotImportLet
	CannotExportDefaultVariable
	ExportingRequiresCurlies
	ExportingRequiresDefault
	TypeScriptEnumValueMustBeConstant
	TypeScriptEnumAutoMemberNeedsInitializerAfterComputed
	CannotAssignToVariableNamedAsyncInForOfLoop
	UnexpectedSemicolonInForInLoop
	UnexpectedSemicolonInForOfLoop
	LexicalDeclarationNotAllowedInBodyOfForLoop
	StatementBeforeFirstSwitchCase
	MissingCatchOrFinallyForTryStatement
	ExpectedVariableNameForCatch
	TypeScriptCatchTypeAnnotationMustBeAny
	MissingWhileAndConditionForDoWhileStatement
	MissingIfAfterElse
	UnmatchedParenthesis
	UnmatchedRightCurly
	LabelNamedAwaitNotAllowedInAsyncFunction
	DepthLimitExceeded
	InvalidBreak
	InvalidContinue
	TypeScriptAbstractClassNotAllowedInJavaScript
	TypeScriptTypeAliasNotAllowedInJavaScript
	TypeScriptInterfaceNotAllowedInJavaScript
	TypeScriptEnumNotAllowedInJavaScript
	MissingNameInFunctionStatement
	MissingOperandForOperator
	InvalidRegExpLiteral
	ParserUnimplemented
)

var names = map[Code]string{
	UnexpectedToken:                                        "unexpected_token",
	UnclosedCodeBlock:                                       "unclosed_code_block",
	CatchWithoutTry:                                         "catch_without_try",
	FinallyWithoutTry:                                       "finally_without_try",
	ElseWithoutIf:                                           "else_without_if",
	CaseOutsideSwitch:                                       "case_outside_switch",
	DefaultOutsideSwitch:                                    "default_outside_switch",
	ExtendsOutsideClass:                                     "extends_outside_class",
	QuestionOutsideConditional:                              "question_outside_conditional",
	ColonOutsideConditional:                                 "colon_outside_conditional",
	MissingSemicolonAfterStatement:                          "missing_semicolon_after_statement",
	ExpectedExpressionBeforeNewline:                         "expected_expression_before_newline",
	ReturnStatementReturnsNothing:                           "return_statement_returns_nothing",
	MissingInitializerInConstDeclaration:                    "missing_initializer_in_const_declaration",
	CannotDeclareVariableNamedLetWithLet:                    "cannot_declare_variable_named_let_with_let",
	CannotDeclareVariableWithKeywordName:                    "cannot_declare_variable_with_keyword_name",
	CannotAssignToLoopVariableInForOfOrInLoop:               "cannot_assign_to_loop_variable_in_for_of_or_in_loop",
	MissingCommaBetweenVariableDeclarations:                 "missing_comma_between_variable_declarations",
	LetWithNoBindings:                                       "let_with_no_bindings",
	StrayCommaInLetStatement:                                "stray_comma_in_let_statement",
	UnexpectedTokenInVariableDeclaration:                    "unexpected_token_in_variable_declaration",
	CannotUpdateVariableDuringDeclaration:                   "cannot_update_variable_during_declaration",
	InvalidParameter:                                        "invalid_parameter",
	NonNullAssertionNotAllowedInParameter:                   "non_null_assertion_not_allowed_in_parameter",
	StrayCommaInParameter:                                   "stray_comma_in_parameter",
	UnexpectedLiteralInParameterList:                        "unexpected_literal_in_parameter_list",
	CannotDeclareAwaitDuringDeclaration:                      "cannot_declare_await_during_declaration",
	CannotDeclareYieldDuringDeclaration:                      "cannot_declare_yield_during_declaration",
	GeneratorFunctionStarBelongsBeforeName:                  "generator_function_star_belongs_before_name",
	CommaNotAllowedAfterSpreadParameter:                     "comma_not_allowed_after_spread_parameter",
	MissingFunctionParameterList:                            "missing_function_parameter_list",
	FunctionsOrMethodsShouldNotHaveArrowOperator:            "functions_or_methods_should_not_have_arrow_operator",
	TypeScriptGenericParameterListIsEmpty:                   "typescript_generic_parameter_list_is_empty",
	TypeScriptGenericParameterListLeadingComma:              "typescript_generic_parameter_list_leading_comma",
	InterfaceMethodsCannotContainBodies:                     "interface_methods_cannot_contain_bodies",
	TypeScriptInlineTypeImportNotAllowedInTypeOnlyImport:    "typescript_inline_type_import_not_allowed_in_type_only_import",
	CannotImportVariableNamedKeyword:                        "cannot_import_variable_named_keyword",
	CannotImportLet:                                         "cannot_import_let",
	CannotExportDefaultVariable:                             "cannot_export_default_variable",
	ExportingRequiresCurlies:                                "exporting_requires_curlies",
	ExportingRequiresDefault:                                "exporting_requires_default",
	TypeScriptEnumValueMustBeConstant:                       "typescript_enum_value_must_be_constant",
	TypeScriptEnumAutoMemberNeedsInitializerAfterComputed:   "typescript_enum_auto_member_needs_initializer_after_computed",
	CannotAssignToVariableNamedAsyncInForOfLoop:             "cannot_assign_to_variable_named_async_in_for_of_loop",
	UnexpectedSemicolonInForInLoop:                          "unexpected_semicolon_in_for_in_loop",
	UnexpectedSemicolonInForOfLoop:                          "unexpected_semicolon_in_for_of_loop",
	LexicalDeclarationNotAllowedInBodyOfForLoop:             "lexical_declaration_not_allowed_in_body_of_for_loop",
	StatementBeforeFirstSwitchCase:                          "statement_before_first_switch_case",
	MissingCatchOrFinallyForTryStatement:                    "missing_catch_or_finally_for_try_statement",
	ExpectedVariableNameForCatch:                            "expected_variable_name_for_catch",
	TypeScriptCatchTypeAnnotationMustBeAny:                  "typescript_catch_type_annotation_must_be_any",
	MissingWhileAndConditionForDoWhileStatement:             "missing_while_and_condition_for_do_while_statement",
	MissingIfAfterElse:                                      "missing_if_after_else",
	UnmatchedParenthesis:                                    "unmatched_parenthesis",
	UnmatchedRightCurly:                                     "unmatched_right_curly",
	LabelNamedAwaitNotAllowedInAsyncFunction:                "label_named_await_not_allowed_in_async_function",
	DepthLimitExceeded:                                      "depth_limit_exceeded",
	InvalidBreak:                                            "invalid_break",
	InvalidContinue:                                         "invalid_continue",
	TypeScriptAbstractClassNotAllowedInJavaScript:           "typescript_abstract_class_not_allowed_in_javascript",
	TypeScriptTypeAliasNotAllowedInJavaScript:               "typescript_type_alias_not_allowed_in_javascript",
	TypeScriptInterfaceNotAllowedInJavaScript:               "typescript_interface_not_allowed_in_javascript",
	TypeScriptEnumNotAllowedInJavaScript:                    "typescript_enum_not_allowed_in_javascript",
	MissingNameInFunctionStatement:                          "missing_name_in_function_statement",
	MissingOperandForOperator:                               "missing_operand_for_operator",
	InvalidRegExpLiteral:                                    "invalid_regexp_literal",
	ParserUnimplemented:                                     "parser_unimplemented",
}

// String returns the diagnostic's registry name, e.g. "catch_without_try".
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "unknown_diagnostic"
}

// Diagnostic is a single reported finding: a code, a message, and one
// or more source spans. Every diagnostic the parser reports carries
// exactly one span; Spans is a slice so that a report can carry more.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Spans    []source.Span
	Source   *source.SourceFile
}

func (d Diagnostic) Error() string {
	if d.Source == nil || len(d.Spans) == 0 {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	line, col := d.Source.LineCol(d.Spans[0].Begin)
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Source.DisplayPath(), line, col, d.Code, d.Message)
}

// Reporter is the single operation the parser calls against its
// diagnostic sink (spec §6.4). The parser never inspects what the
// reporter does with a Diagnostic; it reports and continues.
type Reporter interface {
	Report(d Diagnostic)
}

// CollectingReporter accumulates every reported Diagnostic in order,
// grounded on the teacher's []PaseratiError accumulator in Parser.
type CollectingReporter struct {
	Diagnostics []Diagnostic
}

func (r *CollectingReporter) Report(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// DiscardingReporter drops every diagnostic; useful for speculative
// lexer-transaction probes that must not surface reports unless
// committed.
type DiscardingReporter struct{}

func (DiscardingReporter) Report(Diagnostic) {}

// Print writes every diagnostic to w in the teacher's
// errors.DisplayErrors format (source line plus a caret marker).
func Print(w *os.File, src *source.SourceFile, ds []Diagnostic) {
	if len(ds) == 0 {
		return
	}
	lines := src.Lines()
	for _, d := range ds {
		if len(d.Spans) == 0 {
			fmt.Fprintf(w, "error: %s: %s\n", d.Code, d.Message)
			continue
		}
		line, col := src.LineCol(d.Spans[0].Begin)
		fmt.Fprintf(w, "%s:%d:%d: error: %s: %s\n", src.DisplayPath(), line, col, d.Code, d.Message)
		if line-1 >= 0 && line-1 < len(lines) {
			sourceLine := strings.TrimRight(lines[line-1], "\r\n")
			fmt.Fprintf(w, "  %s\n", sourceLine)
			fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col-1))
		}
	}
}
