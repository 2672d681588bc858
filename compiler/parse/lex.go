package parse

import (
	"fmt"
	"io"

	"github.com/depclang/depc/compiler/ast"
)

type (
	TokenKind int

	// Token is one lexeme with its source position. Text holds the
	// identifier or keyword spelling, the operator characters, or the digits
	// of a number.
	Token struct {
		Kind TokenKind
		Loc  ast.Loc
		Text string
	}

	lexer struct {
		b []byte
		i int

		line, col int

		diag io.Writer
	}
)

const (
	TokEOF TokenKind = iota
	TokIdent
	TokKeyword
	TokNumber
	TokPunct
)

var keywords = map[string]bool{
	"type": true, "void": true,
	"u8": true, "s8": true,
	"u16": true, "s16": true,
	"u32": true, "s32": true,
	"u64": true, "s64": true,
	"bool": true, "true": true, "false": true,
	"struct": true, "union": true,
	"return": true, "if": true, "else": true,
}

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokIdent:
		return "identifier"
	case TokKeyword:
		return "keyword"
	case TokNumber:
		return "number"
	case TokPunct:
		return "punctuation"
	}

	return "unknown"
}

// Tokenize lexes text into a token slice terminated by a TokEOF token.
// Unknown characters are reported to diag with their position and skipped;
// lexing continues.
func Tokenize(text []byte, diag io.Writer) []Token {
	l := &lexer{
		b:    text,
		line: 1,
		col:  1,
		diag: diag,
	}

	var toks []Token

	for {
		tk := l.next()
		toks = append(toks, tk)

		if tk.Kind == TokEOF {
			return toks
		}
	}
}

func (l *lexer) next() Token {
	l.skipSpaces()

	loc := ast.Loc{Line: l.line, Col: l.col}

	if l.i == len(l.b) {
		return Token{Kind: TokEOF, Loc: loc}
	}

	c := l.b[l.i]

	switch {
	case isAlpha(c):
		st := l.i
		for l.i < len(l.b) && isAlnum(l.b[l.i]) {
			l.step()
		}

		word := string(l.b[st:l.i])
		kind := TokIdent
		if keywords[word] {
			kind = TokKeyword
		}

		return Token{Kind: kind, Loc: loc, Text: word}

	case isDigit(c):
		st := l.i
		for l.i < len(l.b) && isDigit(l.b[l.i]) {
			l.step()
		}

		return Token{Kind: TokNumber, Loc: loc, Text: string(l.b[st:l.i])}
	}

	if op, ok := l.multiPunct(); ok {
		return Token{Kind: TokPunct, Loc: loc, Text: op}
	}

	if isPunct(c) {
		l.step()

		return Token{Kind: TokPunct, Loc: loc, Text: string(c)}
	}

	fmt.Fprintf(l.diag, "%d:%d: unknown character %q, skipping\n", l.line, l.col, c)
	l.step()

	return l.next()
}

// multiPunct recognizes the two character operators: comparisons, the
// sequencing operator and the lambda arrow.
func (l *lexer) multiPunct() (string, bool) {
	if l.i+1 >= len(l.b) {
		return "", false
	}

	switch string(l.b[l.i : l.i+2]) {
	case "==", "!=", "<=", ">=", ">>", "->":
		op := string(l.b[l.i : l.i+2])
		l.step()
		l.step()

		return op, true
	}

	return "", false
}

func (l *lexer) skipSpaces() {
	for l.i < len(l.b) {
		switch l.b[l.i] {
		case ' ', '\t', '\r', '\n':
			l.step()
		default:
			return
		}
	}
}

func (l *lexer) step() {
	if l.b[l.i] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.i++
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func isPunct(c byte) bool {
	return c > ' ' && c < 0x7f
}
