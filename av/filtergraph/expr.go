package filtergraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// evalExpr evaluates an arithmetic expression such as "iw/2" or
// "max(ih*a, 16)" against the given variables.
//
// Grammar:
//
//	expr   = term { ("+" | "-") term }
//	term   = power { ("*" | "/") power }
//	power  = unary [ "^" power ]
//	unary  = [ "+" | "-" ] unary | primary
//	primary = number | ident [ "(" expr { "," expr } ")" ] | "(" expr ")"
func evalExpr(s string, vars map[string]float64) (float64, error) {
	p := &exprParser{src: s, vars: vars}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return v, nil
}

type exprParser struct {
	src  string
	pos  int
	vars map[string]float64
}

func (p *exprParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: expression %q: %s", ErrInvalidArgument, p.src, fmt.Sprintf(format, args...))
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			r, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += r
		case '-':
			p.pos++
			r, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			r, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			v *= r
		case '/':
			p.pos++
			r, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			v /= r
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	exp, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *exprParser) parseUnary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	c := p.peek()
	switch {
	case c == 0:
		return 0, p.errorf("unexpected end of expression")
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, p.errorf("missing ')'")
		}
		p.pos++
		return v, nil
	case isDigit(c) || c == '.':
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseIdent()
	}
	return 0, p.errorf("unexpected %q", string(c))
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.' || p.src[p.pos] == 'e' ||
		((p.src[p.pos] == '-' || p.src[p.pos] == '+') && p.pos > start && p.src[p.pos-1] == 'e')) {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("invalid number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) parseIdent() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && (isIdentStart(p.src[p.pos]) || isDigit(p.src[p.pos])) {
		p.pos++
	}
	name := strings.ToLower(p.src[start:p.pos])

	if p.peek() != '(' {
		switch name {
		case "pi":
			return math.Pi, nil
		case "e":
			return math.E, nil
		}
		v, ok := p.vars[name]
		if !ok {
			return 0, p.errorf("unknown variable %q", name)
		}
		return v, nil
	}

	p.pos++
	var args []float64
	for {
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		args = append(args, v)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		if p.peek() != ')' {
			return 0, p.errorf("missing ')' after arguments of %s", name)
		}
		p.pos++
		break
	}
	return p.call(name, args)
}

func (p *exprParser) call(name string, args []float64) (float64, error) {
	unary := map[string]func(float64) float64{
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"trunc": math.Trunc,
		"abs":   math.Abs,
		"sqrt":  math.Sqrt,
	}
	if fn, ok := unary[name]; ok {
		if len(args) != 1 {
			return 0, p.errorf("%s takes 1 argument, got %d", name, len(args))
		}
		return fn(args[0]), nil
	}

	switch name {
	case "min", "max":
		if len(args) != 2 {
			return 0, p.errorf("%s takes 2 arguments, got %d", name, len(args))
		}
		if name == "min" {
			return math.Min(args[0], args[1]), nil
		}
		return math.Max(args[0], args[1]), nil
	}
	return 0, p.errorf("unknown function %q", name)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// evalDimension evaluates a size expression and rejects NaN and infinities.
func evalDimension(s string, vars map[string]float64) (int, error) {
	v, err := evalExpr(s, vars)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: expression %q is not a finite number", ErrInvalidArgument, s)
	}
	return int(v), nil
}
