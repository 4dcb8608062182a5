package lexer

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	TokenIdent
	TokenKeyword
	TokenNumber
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenColonColon
	TokenArrow
	TokenColon
	TokenQuestion
	TokenAssign
	TokenIncrement
	TokenDecrement
	TokenOperator
)

var tokenNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Ident",
	TokenKeyword:       "Keyword",
	TokenNumber:        "Number",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenEllipsis:      "...",
	TokenAt:            "@",
	TokenColonColon:    "::",
	TokenArrow:         "->",
	TokenColon:         ":",
	TokenQuestion:      "?",
	TokenAssign:        "=",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenOperator:      "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string

	// Unterminated is set on comments, literals and text blocks that reach
	// the end of their line (string and char literals) or of the input.
	Unterminated bool
}

// IsTrivia reports whether the token carries no syntax: whitespace and comments.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case TokenWhitespace, TokenComment, TokenLineComment:
		return true
	}
	return false
}

// Is reports whether t is the keyword kw.
func (t Token) Is(kw string) bool {
	return t.Kind == TokenKeyword && t.Literal == kw
}

// IsOpen reports whether t opens a bracket pair.
func (t Token) IsOpen() bool {
	return t.Kind == TokenLParen || t.Kind == TokenLBrace || t.Kind == TokenLBracket
}

// IsClose reports whether t closes a bracket pair.
func (t Token) IsClose() bool {
	return t.Kind == TokenRParen || t.Kind == TokenRBrace || t.Kind == TokenRBracket
}

// Matches reports whether the closing token t pairs with the opening kind.
func (t Token) Matches(open TokenKind) bool {
	switch t.Kind {
	case TokenRParen:
		return open == TokenLParen
	case TokenRBrace:
		return open == TokenLBrace
	case TokenRBracket:
		return open == TokenLBracket
	}
	return false
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true,
	"extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true,
	"long": true, "native": true, "new": true, "package": true,
	"private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true,
	"throws": true, "transient": true, "try": true, "void": true,
	"volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

// IsKeyword reports whether s is a reserved Java keyword or literal.
// Contextual keywords (record, var, yield, sealed, ...) are identifiers.
func IsKeyword(s string) bool {
	return keywords[s]
}
