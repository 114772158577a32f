// Package formula evaluates user-typed arithmetic over stat columns, e.g.
// "(H + BB) / PA" or "[K/9] - [BB/9]". Expressions are parsed into a tree
// and walked; nothing is compiled or executed from the input text.
package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokIdent:
		return "column name"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// SyntaxError reports where an expression stopped making sense. Pos is a
// zero-based byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula: %s at position %d", e.Msg, e.Pos+1)
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", pos: i})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", pos: i})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar, text: "*", pos: i})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, text: "/", pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '[':
			end := strings.IndexByte(src[i+1:], ']')
			if end < 0 {
				return nil, &SyntaxError{Pos: i, Msg: "unclosed '['"}
			}
			name := strings.TrimSpace(src[i+1 : i+1+end])
			if name == "" {
				return nil, &SyntaxError{Pos: i, Msg: "empty column name"}
			}
			toks = append(toks, token{kind: tokIdent, text: name, pos: i})
			i += end + 2
		case isDigit(c) || c == '.':
			tok, next, err := lexNumberOrIdent(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(rune(src[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

// lexNumberOrIdent reads a numeric literal. Digits followed directly by
// letters form a column name instead, so 2B and 3B work unbracketed.
func lexNumberOrIdent(src string, start int) (token, int, error) {
	i := start
	for i < len(src) && (isDigit(rune(src[i])) || src[i] == '.') {
		i++
	}
	if i < len(src) && isIdentStart(rune(src[i])) && !strings.Contains(src[start:i], ".") {
		for i < len(src) && isIdentPart(rune(src[i])) {
			i++
		}
		return token{kind: tokIdent, text: src[start:i], pos: start}, i, nil
	}

	text := src[start:i]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
	}
	return token{kind: tokNumber, text: text, num: v, pos: start}, i, nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}
