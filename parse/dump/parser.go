package dump

import (
	"regexp"
	"strings"
)

// =========================
// Public API
// =========================

// ParseValue parses a complete dump text into a Value tree.
func ParseValue(text string) (Value, error) {
	p := &parser{text: text}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if !p.eof() {
		return nil, p.expected("end of input")
	}
	return v, nil
}

// Parse parses dump text and returns the builder expression that rebuilds
// the described tree.
func Parse(text string, opts ...Option) (string, error) {
	v, err := ParseValue(text)
	if err != nil {
		return "", err
	}
	return Generate(v, opts...), nil
}

// =========================
// Parser Implementation
// =========================

var intPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

type parser struct {
	text string
	pos  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.text)
}

// peek returns the byte under the cursor, or 0 at the end of input.
func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.text[p.pos]
}

func (p *parser) skipWS() {
	for !p.eof() && isSpace(p.text[p.pos]) {
		p.pos++
	}
}

func (p *parser) eat(tok byte) error {
	if p.eof() {
		return p.errf(ErrUnexpectedEOF)
	}
	if p.text[p.pos] != tok {
		return p.expected("'" + string(tok) + "'")
	}
	p.pos++
	return nil
}

func (p *parser) errf(reason error) error {
	return &SyntaxError{Reason: reason, Pos: p.pos}
}

func (p *parser) expected(what string) error {
	if p.eof() {
		return p.errf(ErrUnexpectedEOF)
	}
	return &SyntaxError{Reason: ErrExpectedToken, Pos: p.pos, Expected: what}
}

func (p *parser) parseValue() (Value, error) {
	p.skipWS()
	if p.eof() {
		return nil, p.errf(ErrUnexpectedEOF)
	}

	if end := scanIdent(p.text, p.pos); end > p.pos && end < len(p.text) && p.text[end] == '(' {
		return p.parseNode(end)
	}

	switch ch := p.peek(); ch {
	case '[':
		elems, err := p.parseElems('[', ']')
		if err != nil {
			return nil, err
		}
		return &Sequence{Type: SeqList, Elems: elems}, nil
	case '(':
		elems, err := p.parseElems('(', ')')
		if err != nil {
			return nil, err
		}
		return &Sequence{Type: SeqTuple, Elems: elems}, nil
	case '\'', '"':
		return p.parseString(ch)
	}
	return p.parseAtom()
}

// parseNode parses Type(field=value, ...). nameEnd is the offset of the
// opening parenthesis.
func (p *parser) parseNode(nameEnd int) (Value, error) {
	n := &Node{Type: p.text[p.pos:nameEnd]}
	p.pos = nameEnd + 1

	for {
		p.skipWS()
		if p.peek() == ')' {
			break
		}

		end := scanFieldName(p.text, p.pos)
		if end == p.pos || end >= len(p.text) || p.text[end] != '=' {
			return nil, p.expected("field or ')'")
		}
		name := p.text[p.pos:end]
		p.pos = end + 1

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, Field{Name: name, Value: v})

		p.skipWS()
		if p.peek() != ',' {
			break
		}
		p.pos++
	}

	p.skipWS()
	if err := p.eat(')'); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseElems(open, closing byte) ([]Value, error) {
	if err := p.eat(open); err != nil {
		return nil, err
	}
	var elems []Value
	for {
		p.skipWS()
		if p.peek() == closing {
			break
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)

		p.skipWS()
		if p.peek() != ',' {
			break
		}
		p.pos++
	}

	p.skipWS()
	if err := p.eat(closing); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *parser) parseString(quote byte) (Value, error) {
	start := p.pos
	idx := strings.IndexByte(p.text[start+1:], quote)
	if idx < 0 {
		return nil, &SyntaxError{Reason: ErrUnterminatedString, Pos: start}
	}
	raw := p.text[start+1 : start+1+idx]
	p.pos = start + 1 + idx + 1
	return &String{Raw: raw, Quote: quote}, nil
}

func (p *parser) parseAtom() (Value, error) {
	start := p.pos
	for !p.eof() && isAtomByte(p.text[p.pos]) {
		p.pos++
	}
	lexeme := p.text[start:p.pos]

	switch {
	case lexeme == "":
		return nil, p.expected("value")
	case lexeme == "True" || lexeme == "False":
		return &Atom{Type: AtomBool, Text: lexeme}, nil
	case lexeme == "None":
		return &Atom{Type: AtomNone, Text: lexeme}, nil
	case intPattern.MatchString(lexeme):
		return &Atom{Type: AtomInt, Text: lexeme}, nil
	}
	return nil, &SyntaxError{Reason: ErrUnknownAtom, Pos: start, Lexeme: lexeme}
}

// =========================
// Utilities
// =========================

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAtomByte(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '.' || c == '+' || c == '-'
}

// scanIdent returns the end offset of an identifier starting at pos, or pos
// if there is none.
func scanIdent(s string, pos int) int {
	if pos >= len(s) || !isLetter(s[pos]) {
		return pos
	}
	end := pos + 1
	for end < len(s) && (isLetter(s[end]) || isDigit(s[end])) {
		end++
	}
	return end
}

// scanFieldName returns the end offset of a field name ([A-Za-z_]+).
func scanFieldName(s string, pos int) int {
	end := pos
	for end < len(s) && isLetter(s[end]) {
		end++
	}
	return end
}
