package formula

import (
	"errors"
	"fmt"
	"math"
	"ootp-toolkit/internal/domain"
	"sort"
)

// maxDepth bounds parenthesis nesting so hostile input cannot exhaust the
// stack.
const maxDepth = 64

var ErrUnknownColumn = errors.New("unknown column")

type node interface {
	eval(row domain.StatRow) float64
}

type numberNode float64

func (n numberNode) eval(domain.StatRow) float64 { return float64(n) }

type identNode string

// A row that does not define the column yields NaN, which then propagates.
func (n identNode) eval(row domain.StatRow) float64 {
	if v, ok := row.Stat(string(n)); ok {
		return v
	}
	return math.NaN()
}

type unaryNode struct {
	neg     bool
	operand node
}

func (n unaryNode) eval(row domain.StatRow) float64 {
	v := n.operand.eval(row)
	if n.neg {
		return -v
	}
	return v
}

type binaryNode struct {
	op          tokenKind
	left, right node
}

func (n binaryNode) eval(row domain.StatRow) float64 {
	l, r := n.left.eval(row), n.right.eval(row)
	switch n.op {
	case tokPlus:
		return l + r
	case tokMinus:
		return l - r
	case tokStar:
		return l * r
	case tokSlash:
		return l / r
	}
	return math.NaN()
}

// Expr is a compiled expression. It is safe for concurrent use.
type Expr struct {
	src    string
	root   node
	idents []string
}

// Compile parses src. Grammar:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("-" | "+") unary | factor
//	factor = number | ident | "(" expr ")"
func Compile(src string) (*Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, idents: make(map[string]bool)}
	if p.peek().kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %s", t.kind)}
	}

	idents := make([]string, 0, len(p.idents))
	for id := range p.idents {
		idents = append(idents, id)
	}
	sort.Strings(idents)

	return &Expr{src: src, root: root, idents: idents}, nil
}

func (e *Expr) String() string {
	return e.src
}

// Idents lists the column names the expression reads, sorted.
func (e *Expr) Idents() []string {
	out := make([]string, len(e.idents))
	copy(out, e.idents)
	return out
}

// Eval evaluates the expression against one row. Division follows IEEE
// rules, so x/0 gives ±Inf or NaN rather than an error.
func (e *Expr) Eval(row domain.StatRow) float64 {
	return e.root.eval(row)
}

type parser struct {
	toks   []token
	pos    int
	depth  int
	idents map[string]bool
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		k := p.peek().kind
		if k != tokPlus && k != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: k, left: left, right: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		k := p.peek().kind
		if k != tokStar && k != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: k, left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	t := p.peek()
	if t.kind == tokMinus || t.kind == tokPlus {
		p.next()
		if err := p.enter(t.pos); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		p.depth--
		if err != nil {
			return nil, err
		}
		return unaryNode{neg: t.kind == tokMinus, operand: operand}, nil
	}
	return p.factor()
}

func (p *parser) factor() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numberNode(t.num), nil
	case tokIdent:
		p.idents[t.text] = true
		return identNode(t.text), nil
	case tokLParen:
		if err := p.enter(t.pos); err != nil {
			return nil, err
		}
		inner, err := p.expr()
		p.depth--
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: fmt.Sprintf("expected ')', found %s", closing.kind)}
		}
		return inner, nil
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %s", t.kind)}
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > maxDepth {
		return &SyntaxError{Pos: pos, Msg: "expression nested too deeply"}
	}
	return nil
}
