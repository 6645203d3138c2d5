package plugin

import (
	"fmt"
	"strings"
)

// DefaultExtensions are the extensions the base formatter claims when no
// plugin does.
var DefaultExtensions = []string{".ex", ".exs"}

// Term is the minimal structured representation the base formatter works
// with: a named call applied to zero or more argument terms. A source text
// parses into one Term per non-empty line.
type Term struct {
	Name string
	Args []*Term
}

// Base is the language pretty-printer of last resort. It normalizes each
// line into a call chain where every application is parenthesized unless
// the (name, arity) pair appears in locals_without_parens.
type Base struct {
	Extensions []string
}

// NewBase creates a base formatter claiming the default extensions.
func NewBase() *Base {
	return &Base{Extensions: DefaultExtensions}
}

// Claims reports whether ext belongs to the base language.
func (b *Base) Claims(ext string) bool {
	for _, e := range b.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Format normalizes text line by line, preserving indentation and the
// presence of a trailing newline.
func (b *Base) Format(text string, opts Opts) (string, error) {
	locals := localSet(LocalsFrom(opts))
	trailing := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		term, err := parseLine(line)
		if err != nil || term == nil {
			continue // leave lines we cannot parse untouched
		}
		lines[i] = indentOf(line) + renderTerm(term, locals)
	}
	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out, nil
}

// RenderAST is the canonical structured-to-text conversion. It accepts the
// values the ledger and the sigil dispatch path produce: a single Term, a
// slice of Terms (one line each), a Sigil literal, or an already-textual
// value.
func (b *Base) RenderAST(value any, opts Opts) (string, error) {
	locals := localSet(LocalsFrom(opts))
	switch v := value.(type) {
	case string:
		return v, nil
	case *Term:
		return renderTerm(v, locals) + "\n", nil
	case []*Term:
		var sb strings.Builder
		for _, t := range v {
			sb.WriteString(renderTerm(t, locals))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	case Sigil:
		return "~" + v.Marker + "(" + v.Content + ")" + v.Modifiers, nil
	case *Sigil:
		return b.RenderAST(*v, opts)
	default:
		return "", fmt.Errorf("cannot render value of type %T", value)
	}
}

// Parse derives the structured representation from text: one Term per
// non-empty line.
func (b *Base) Parse(text string, opts Opts) (any, error) {
	var terms []*Term
	for _, line := range strings.Split(text, "\n") {
		term, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		if term != nil {
			terms = append(terms, term)
		}
	}
	return terms, nil
}

func localSet(locals []Local) map[Local]struct{} {
	set := make(map[Local]struct{}, len(locals))
	for _, l := range locals {
		set[l] = struct{}{}
	}
	return set
}

func renderTerm(t *Term, locals map[Local]struct{}) string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = renderTerm(a, locals)
	}
	joined := strings.Join(args, ", ")
	if _, ok := locals[Local{Name: t.Name, Arity: len(t.Args)}]; ok {
		return t.Name + " " + joined
	}
	if !isIdent(t.Name) {
		return t.Name + " " + joined
	}
	return t.Name + "(" + joined + ")"
}

func indentOf(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// lineParser is a tiny recursive-descent reader for the call-chain form the
// base formatter emits: ident [ "(" expr {"," expr} ")" | " " expr ].
type lineParser struct {
	src string
	pos int
}

// parseLine returns nil for blank lines and an error for text that is not a
// call chain; Format treats both as "leave the line alone".
func parseLine(line string) (*Term, error) {
	p := &lineParser{src: strings.TrimSpace(line)}
	if p.src == "" {
		return nil, nil
	}
	term, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing input at column %d in %q", p.pos, p.src)
	}
	return term, nil
}

func (p *lineParser) parseExpr() (*Term, error) {
	name := p.readToken()
	if name == "" {
		return nil, fmt.Errorf("expected a term at column %d in %q", p.pos, p.src)
	}
	term := &Term{Name: name}
	if p.peek() == '(' {
		p.pos++
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			term.Args = append(term.Args, arg)
			p.skipSpaces()
			if p.peek() == ',' {
				p.pos++
				p.skipSpaces()
				continue
			}
			break
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing ')' at column %d in %q", p.pos, p.src)
		}
		p.pos++
		return term, nil
	}
	p.skipSpaces()
	if p.pos < len(p.src) && p.peek() != ')' && p.peek() != ',' {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		term.Args = append(term.Args, arg)
	}
	return term, nil
}

func (p *lineParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *lineParser) skipSpaces() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lineParser) readToken() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == ',' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}
