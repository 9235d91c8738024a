package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenType uint8

const (
	tokEOF tokenType = iota
	tokIllegal
	tokIdent
	tokLifetime
	tokInt
	tokAmp       // &
	tokStar      // *
	tokLBracket  // [
	tokRBracket  // ]
	tokSemicolon // ;
	tokLParen    // (
	tokRParen    // )
	tokComma     // ,
	tokLt        // <
	tokGt        // >
	tokEq        // =
	tokColon     // :
	tokPath      // ::
	tokArrow     // ->
	tokBang      // !
	tokLBrace    // {
	tokRBrace    // }
	tokPlus      // +
)

var tokenNames = map[tokenType]string{
	tokEOF:       "end of input",
	tokIllegal:   "illegal character",
	tokIdent:     "identifier",
	tokLifetime:  "lifetime",
	tokInt:       "integer",
	tokAmp:       "'&'",
	tokStar:      "'*'",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokSemicolon: "';'",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokComma:     "','",
	tokLt:        "'<'",
	tokGt:        "'>'",
	tokEq:        "'='",
	tokColon:     "':'",
	tokPath:      "'::'",
	tokArrow:     "'->'",
	tokBang:      "'!'",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
	tokPlus:      "'+'",
}

func (t tokenType) String() string {
	name, ok := tokenNames[t]
	if !ok {
		return fmt.Sprintf("token(%d)", t)
	}
	return name
}

type token struct {
	typ     tokenType
	literal string
	offset  int
}

func (t token) String() string {
	switch t.typ {
	case tokIdent, tokLifetime, tokInt, tokIllegal:
		return fmt.Sprintf("%s '%s'", t.typ, t.literal)
	default:
		return t.typ.String()
	}
}

type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *lexer) skipSpace() {
	for {
		r, size := l.peekRune()
		if size == 0 || !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func (l *lexer) takeWhile(pred func(rune) bool) string {
	start := l.pos
	for {
		r, size := l.peekRune()
		if size == 0 || !pred(r) {
			break
		}
		l.pos += size
	}
	return l.input[start:l.pos]
}

func (l *lexer) next() token {
	l.skipSpace()
	start := l.pos
	r, size := l.peekRune()
	if size == 0 {
		return token{typ: tokEOF, offset: start}
	}

	single := func(typ tokenType) token {
		l.pos += size
		return token{typ: typ, literal: string(r), offset: start}
	}

	switch {
	case isIdentStart(r):
		return token{typ: tokIdent, literal: l.takeWhile(isIdentPart), offset: start}
	case unicode.IsDigit(r):
		return token{typ: tokInt, literal: l.takeWhile(unicode.IsDigit), offset: start}
	case r == '\'':
		l.pos += size
		name := l.takeWhile(isIdentPart)
		if name == "" {
			return token{typ: tokIllegal, literal: "'", offset: start}
		}
		return token{typ: tokLifetime, literal: "'" + name, offset: start}
	case r == ':':
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == ':' {
			l.pos += 2
			return token{typ: tokPath, literal: "::", offset: start}
		}
		return single(tokColon)
	case r == '-':
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == '>' {
			l.pos += 2
			return token{typ: tokArrow, literal: "->", offset: start}
		}
		return single(tokIllegal)
	}

	switch r {
	case '&':
		return single(tokAmp)
	case '*':
		return single(tokStar)
	case '[':
		return single(tokLBracket)
	case ']':
		return single(tokRBracket)
	case ';':
		return single(tokSemicolon)
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	case ',':
		return single(tokComma)
	case '<':
		return single(tokLt)
	case '>':
		return single(tokGt)
	case '=':
		return single(tokEq)
	case '!':
		return single(tokBang)
	case '{':
		return single(tokLBrace)
	case '}':
		return single(tokRBrace)
	case '+':
		return single(tokPlus)
	default:
		return single(tokIllegal)
	}
}
