// Package completion finds the next compilable unit in a buffer of Java
// source text typed into a notebook.
//
// A unit is a statement, declaration, expression or import that can be
// evaluated on its own. Analyze reports how complete the leading unit of a
// buffer is, extracts it and returns the text that follows it, so callers can
// feed the remainder back in until the buffer is exhausted.
//
// The analysis is lexical: it tracks bracket nesting and a small amount of
// statement shape (declarations, control statements, method bodies). It never
// decides whether a unit is well typed or even grammatical; that is left to
// the evaluator.
package completion

import (
	"github.com/dhamidi/jnb/java/lexer"
)

// Analyzer adapts Analyze to the classifier interface used by the notebook.
type Analyzer struct{}

func (Analyzer) Analyze(input string) Info {
	return Analyze(input)
}

type unitKind int

const (
	kindExpr unitKind = iota // expressions, local variables, imports, fields
	kindDecl                 // class, interface, enum, record, @interface
	kindBlock                // control statements and bare blocks
	kindDo                   // do ... while (...);
)

var modifiers = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "native": true, "transient": true,
	"volatile": true, "strictfp": true, "default": true,
	"sealed": true, "non-sealed": true,
}

var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
	"synchronized": true, "catch": true, "try": true,
}

// keywords that cannot end a unit
var danglingKeywords = map[string]bool{
	"new": true, "instanceof": true, "extends": true, "implements": true,
	"throws": true, "import": true, "package": true, "else": true,
	"do": true, "try": true, "finally": true, "throw": true, "assert": true,
	"case": true, "if": true, "for": true, "while": true, "switch": true,
	"synchronized": true, "catch": true, "class": true, "interface": true,
	"enum": true,
}

var primitiveTypes = map[string]bool{
	"void": true, "boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

type analysis struct {
	input  string
	tokens []lexer.Token // significant tokens only
	// openComment is set when the input ends inside a block comment.
	openComment bool
}

// Analyze classifies the leading unit of input.
func Analyze(input string) Info {
	a := &analysis{input: input}
	for _, tok := range lexer.Tokenize(input) {
		if tok.IsTrivia() {
			if tok.Unterminated {
				a.openComment = true
			}
			continue
		}
		a.tokens = append(a.tokens, tok)
	}

	if len(a.tokens) == 0 {
		if a.openComment {
			return Info{Completeness: DefinitelyIncomplete, Remaining: input}
		}
		return Info{Completeness: Empty}
	}
	return a.run()
}

func (a *analysis) start() int {
	return a.tokens[0].Span.Start.Offset
}

func (a *analysis) complete(end int) Info {
	return Info{
		Completeness: Complete,
		Source:       a.input[a.start():end],
		Remaining:    a.input[end:],
	}
}

func (a *analysis) anomaly(c Completeness) Info {
	return Info{Completeness: c, Remaining: a.input[a.start():]}
}

func (a *analysis) run() Info {
	kind, bodyStart := a.classify()

	var stack []lexer.TokenKind
	bodyEnds := false
	headerOpen := -1 // index of the '(' opening a control header
	headerClose := -1
	seenWhile := false

	for i, tok := range a.tokens {
		switch {
		case tok.Kind == lexer.TokenError:
			return a.anomaly(Unknown)
		case tok.Unterminated && (tok.Kind == lexer.TokenStringLiteral || tok.Kind == lexer.TokenCharLiteral):
			return a.anomaly(Unknown)
		case tok.Unterminated:
			return a.anomaly(DefinitelyIncomplete)
		}

		if len(stack) == 0 && kind == kindDo && tok.Is("while") {
			seenWhile = true
		}

		switch {
		case tok.IsOpen():
			if len(stack) == 0 {
				if tok.Kind == lexer.TokenLParen && i > 0 && isControl(a.tokens[i-1]) {
					headerOpen = i
				}
				if tok.Kind == lexer.TokenLBrace {
					switch kind {
					case kindDecl:
						bodyEnds = true
					case kindBlock:
						bodyEnds = a.opensStatementBody(i, bodyStart, headerClose)
					case kindExpr:
						bodyEnds = isMethodHeader(a.tokens[bodyStart:i])
					}
				}
			}
			stack = append(stack, tok.Kind)

		case tok.IsClose():
			if len(stack) == 0 || !tok.Matches(stack[len(stack)-1]) {
				return a.anomaly(Unknown)
			}
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				continue
			}
			if headerOpen >= 0 && tok.Kind == lexer.TokenRParen {
				headerOpen = -1
				headerClose = i
			}
			if tok.Kind == lexer.TokenRBrace && bodyEnds {
				bodyEnds = false
				if !a.continues(kind, i) {
					return a.complete(tok.Span.End.Offset)
				}
			}

		case tok.Kind == lexer.TokenSemicolon && len(stack) == 0:
			if kind == kindDo && !seenWhile {
				continue
			}
			if !a.continues(kind, i) {
				return a.complete(tok.Span.End.Offset)
			}
		}
	}

	if a.openComment || len(stack) > 0 {
		return a.anomaly(DefinitelyIncomplete)
	}

	lastIndex := len(a.tokens) - 1
	last := a.tokens[lastIndex]
	if a.dangling(lastIndex) {
		return a.anomaly(DefinitelyIncomplete)
	}

	switch kind {
	case kindDecl:
		return a.anomaly(DefinitelyIncomplete)
	case kindBlock:
		if headerClose == lastIndex {
			return a.anomaly(DefinitelyIncomplete)
		}
	case kindDo:
		if !seenWhile || headerClose != lastIndex {
			return a.anomaly(DefinitelyIncomplete)
		}
	case kindExpr:
		if isMethodHeader(a.tokens[bodyStart:]) {
			return a.anomaly(ConsideredIncomplete)
		}
	}

	end := last.Span.End.Offset
	return Info{
		Completeness: CompleteWithSemi,
		Source:       a.input[a.start():end],
		Remaining:    a.input[end:],
	}
}

// continues reports whether the statement ending at token i goes on with an
// else, catch or finally clause.
func (a *analysis) continues(kind unitKind, i int) bool {
	if kind != kindBlock || i+1 >= len(a.tokens) {
		return false
	}
	next := a.tokens[i+1]
	return next.Is("else") || next.Is("catch") || next.Is("finally")
}

// opensStatementBody reports whether the '{' at i is the body of a control
// statement or a bare block, as opposed to a lambda body or an initializer
// inside one of its statements.
func (a *analysis) opensStatementBody(i, bodyStart, headerClose int) bool {
	if i == bodyStart || i-1 == headerClose {
		return true
	}
	prev := a.tokens[i-1]
	return prev.Is("else") || prev.Is("try") || prev.Is("finally")
}

// dangling reports whether the token at i needs more input after it.
func (a *analysis) dangling(i int) bool {
	tok := a.tokens[i]
	switch tok.Kind {
	case lexer.TokenKeyword:
		return danglingKeywords[tok.Literal]
	case lexer.TokenDot, lexer.TokenComma, lexer.TokenAt, lexer.TokenColonColon,
		lexer.TokenArrow, lexer.TokenAssign, lexer.TokenQuestion, lexer.TokenColon,
		lexer.TokenEllipsis:
		return true
	case lexer.TokenOperator:
		// import java.util.*
		if tok.Literal == "*" && i > 0 && a.tokens[i-1].Kind == lexer.TokenDot {
			return false
		}
		return true
	}
	return false
}

// classify looks at the head of the unit, past labels, annotations and
// modifiers, and returns the unit kind together with the index of the first
// token after those prefixes.
func (a *analysis) classify() (unitKind, int) {
	toks := a.tokens
	at := func(i int) lexer.Token {
		if i < len(toks) {
			return toks[i]
		}
		return lexer.Token{Kind: lexer.TokenEOF}
	}

	i := 0
	for at(i).Kind == lexer.TokenIdent && at(i+1).Kind == lexer.TokenColon {
		i += 2
	}

	for {
		tok := at(i)
		switch {
		case tok.Kind == lexer.TokenAt && !at(i+1).Is("interface"):
			i = skipAnnotation(toks, i)
			continue
		case tok.Is("synchronized") && at(i+1).Kind != lexer.TokenLParen:
			i++
			continue
		case tok.Is("static") && at(i+1).Kind == lexer.TokenLBrace:
			return kindBlock, i + 1
		case (tok.Kind == lexer.TokenKeyword || tok.Kind == lexer.TokenIdent) &&
			modifiers[tok.Literal] && at(i+1).Kind != lexer.TokenEOF &&
			at(i+1).Kind != lexer.TokenAssign && at(i+1).Kind != lexer.TokenDot:
			i++
			continue
		}
		break
	}

	tok := at(i)
	switch {
	case tok.Is("class"), tok.Is("interface"), tok.Is("enum"):
		return kindDecl, i
	case tok.Kind == lexer.TokenAt && at(i+1).Is("interface"):
		return kindDecl, i
	case tok.Kind == lexer.TokenIdent && tok.Literal == "record" && at(i+1).Kind == lexer.TokenIdent:
		return kindDecl, i
	case tok.Is("do"):
		return kindDo, i
	case tok.Kind == lexer.TokenLBrace:
		return kindBlock, i
	case tok.Kind == lexer.TokenKeyword && controlKeywords[tok.Literal] && tok.Literal != "catch":
		return kindBlock, i
	}
	return kindExpr, i
}

// skipAnnotation returns the index after the annotation starting at i:
// '@' Name ('.' Name)* ['(' ... ')'].
func skipAnnotation(toks []lexer.Token, i int) int {
	i++
	for i < len(toks) && toks[i].Kind == lexer.TokenIdent {
		i++
		if i < len(toks) && toks[i].Kind == lexer.TokenDot {
			i++
			continue
		}
		break
	}
	if i < len(toks) && toks[i].Kind == lexer.TokenLParen {
		depth := 0
		for ; i < len(toks); i++ {
			if toks[i].IsOpen() {
				depth++
			} else if toks[i].IsClose() {
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	}
	return i
}

func isControl(tok lexer.Token) bool {
	return tok.Kind == lexer.TokenKeyword && controlKeywords[tok.Literal]
}

// isMethodHeader reports whether toks has the shape
// Type name '(' ... ')' [throws ...], the head of a method declaration.
func isMethodHeader(toks []lexer.Token) bool {
	paren := -1
	for i, tok := range toks {
		if tok.Kind == lexer.TokenAssign || tok.Kind == lexer.TokenArrow || tok.Is("new") {
			return false
		}
		if tok.Kind == lexer.TokenLParen {
			paren = i
			break
		}
	}
	if paren < 2 || toks[paren-1].Kind != lexer.TokenIdent {
		return false
	}
	switch typ := toks[paren-2]; {
	case typ.Kind == lexer.TokenIdent, typ.Kind == lexer.TokenRBracket:
	case typ.Kind == lexer.TokenKeyword && primitiveTypes[typ.Literal]:
	case typ.Kind == lexer.TokenOperator && (typ.Literal == ">" || typ.Literal == ">>" || typ.Literal == ">>>"):
	default:
		return false
	}

	depth := 0
	for i := paren; i < len(toks); i++ {
		if toks[i].IsOpen() {
			depth++
		} else if toks[i].IsClose() {
			depth--
			if depth == 0 {
				rest := toks[i+1:]
				return len(rest) == 0 || rest[0].Is("throws")
			}
		}
	}
	return false
}
