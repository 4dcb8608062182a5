package jshell

import (
	"strings"

	"github.com/dhamidi/jnb/java/lexer"
)

// oneLine rewrites source so jshell reads it as a single input line.
// Interactive jshell decides completeness again after every line and would
// evaluate a complete prefix such as "int x = 1" on its own, so comments and
// whitespace that span lines are replaced by a space. Text blocks keep their
// line breaks; jshell keeps reading until the closing delimiter.
func oneLine(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for _, tok := range lexer.Tokenize(source) {
		switch tok.Kind {
		case lexer.TokenComment, lexer.TokenLineComment:
			sb.WriteByte(' ')
		case lexer.TokenWhitespace:
			if strings.ContainsAny(tok.Literal, "\r\n") {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(tok.Literal)
			}
		default:
			sb.WriteString(tok.Literal)
		}
	}
	return sb.String()
}
