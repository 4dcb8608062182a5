// Package lexer splits Java source text into tokens.
//
// The lexer is lossless: concatenating the literals of every token returned
// before TokenEOF reproduces the input exactly. Malformed input never stops
// the lexer; it produces TokenError tokens or tokens marked Unterminated and
// carries on, which is what completeness analysis of partial input needs.
package lexer

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize returns every token of input, including trivia, without the
// trailing EOF token.
func Tokenize(input string) []Token {
	l := NewLexer([]byte(input))
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) Position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else if ch < utf8.RuneSelf || utf8.RuneStart(ch) {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if isWhitespace(ch) {
		return l.scanWhitespace(startPos)
	}

	if l.atJavaLetter() {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' {
		return l.scanQuoted(startPos, '\'', TokenCharLiteral)
	}

	if ch == '"' {
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(startPos)
		}
		return l.scanQuoted(startPos, '"', TokenStringLiteral)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isWhitespace(l.peek()) && !l.atEnd() {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	closed := false
	for !l.atEnd() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			closed = true
			break
		}
		l.advance()
	}
	tok := l.token(TokenComment, start)
	tok.Unterminated = !closed
	return tok
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.atJavaLetterOrDigit() {
		l.advanceRune()
	}
	literal := string(l.input[start.Offset:l.pos])

	// non-sealed is the only hyphenated keyword
	if literal == "non" && string(l.input[l.pos:min(l.pos+7, len(l.input))]) == "-sealed" {
		save := *l
		l.advanceN(7)
		if !l.atJavaLetterOrDigit() {
			return l.token(TokenIdent, start)
		}
		*l = save
	}

	if IsKeyword(literal) {
		return l.token(TokenKeyword, start)
	}
	return l.token(TokenIdent, start)
}

func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
}

func (l *Lexer) atJavaLetter() bool {
	ch := l.peek()
	if ch < utf8.RuneSelf {
		return isJavaLetter(ch)
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return unicode.IsLetter(r)
}

func (l *Lexer) atJavaLetterOrDigit() bool {
	if l.atEnd() {
		return false
	}
	ch := l.peek()
	if ch < utf8.RuneSelf {
		return isJavaLetter(ch) || isDigit(ch)
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanNumber accepts every numeric literal form (hex, binary, octal,
// decimal, floating point with exponents and suffixes). It does not
// validate digits; the compiler does that.
func (l *Lexer) scanNumber(start Position) Token {
	hex := l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X')
	seenDot := false
	for {
		ch := l.peek()
		switch {
		case isDigit(ch) || isJavaLetter(ch):
			l.advance()
			if !hex && (ch == 'e' || ch == 'E') || hex && (ch == 'p' || ch == 'P') {
				if l.peek() == '+' || l.peek() == '-' {
					l.advance()
				}
			}
		case ch == '.' && !seenDot && l.dotContinuesNumber(hex):
			seenDot = true
			l.advance()
		default:
			return l.token(TokenNumber, start)
		}
	}
}

// dotContinuesNumber decides whether the '.' at the current position is a
// decimal point (1.5, 1., 1.e3, 1.f) rather than member access (a[1].length).
func (l *Lexer) dotContinuesNumber(hex bool) bool {
	next := l.peekN(1)
	switch {
	case isDigit(next):
		return true
	case hex:
		return isHexDigit(next) || next == 'p' || next == 'P'
	case next == '.':
		return false
	case !isJavaLetter(next):
		return true
	}
	switch next {
	case 'e', 'E', 'f', 'F', 'd', 'D':
		after := l.peekN(2)
		return !isJavaLetter(after) || ((next == 'e' || next == 'E') && isDigit(after))
	}
	return false
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	closed := false
	for !l.atEnd() && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
			if l.peek() == '\n' {
				break
			}
			l.advance()
			continue
		}
		if l.peek() == quote {
			l.advance()
			closed = true
			break
		}
		l.advance()
	}
	tok := l.token(kind, start)
	tok.Unterminated = !closed
	return tok
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	closed := false
	for !l.atEnd() {
		if l.peek() == '\\' {
			l.advanceN(2)
			continue
		}
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			closed = true
			break
		}
		l.advance()
	}
	tok := l.token(TokenTextBlock, start)
	tok.Unterminated = !closed
	return tok
}

var operators = []struct {
	text string
	kind TokenKind
}{
	{">>>=", TokenOperator},
	{"<<=", TokenOperator},
	{">>=", TokenOperator},
	{">>>", TokenOperator},
	{"...", TokenEllipsis},
	{"->", TokenArrow},
	{"::", TokenColonColon},
	{"++", TokenIncrement},
	{"--", TokenDecrement},
	{"&&", TokenOperator},
	{"||", TokenOperator},
	{"==", TokenOperator},
	{"!=", TokenOperator},
	{"<=", TokenOperator},
	{">=", TokenOperator},
	{"+=", TokenOperator},
	{"-=", TokenOperator},
	{"*=", TokenOperator},
	{"/=", TokenOperator},
	{"%=", TokenOperator},
	{"&=", TokenOperator},
	{"|=", TokenOperator},
	{"^=", TokenOperator},
	{"<<", TokenOperator},
	{">>", TokenOperator},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{"@", TokenAt},
	{":", TokenColon},
	{"?", TokenQuestion},
	{"=", TokenAssign},
	{"+", TokenOperator},
	{"-", TokenOperator},
	{"*", TokenOperator},
	{"/", TokenOperator},
	{"%", TokenOperator},
	{"<", TokenOperator},
	{">", TokenOperator},
	{"!", TokenOperator},
	{"~", TokenOperator},
	{"&", TokenOperator},
	{"|", TokenOperator},
	{"^", TokenOperator},
}

func (l *Lexer) scanOperator(start Position) Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}
	l.advanceRune()
	return l.token(TokenError, start)
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isJavaLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
