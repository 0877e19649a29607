package typesystem

import (
	"fmt"
	"strings"
	"text/scanner"
)

// Parse reads a type term written in the textual syntax accepted by the
// lattice tool:
//
//	Int                     constant
//	std.List<Int>           qualified constructor applied to arguments
//	?x  ?3                  variable; vars maps the name to a term
//	fn(A, B) -> R           function
//	(A, B)  ()              tuple and unit
//	opaque app::Iter<Int>   opaque reference declared in unit "app"
//
// vars is called once per occurrence of a variable name; callers that want
// shared variables must memoise.
func Parse(src string, vars func(name string) Type) (Type, error) {
	p := &parser{vars: vars}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail(msg)
	}
	p.next()
	t := p.parseType()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(fmt.Sprintf("unexpected %q after type", p.s.TokenText()))
	}
	if p.err != nil {
		return nil, fmt.Errorf("parse %q: %w", src, p.err)
	}
	return t, nil
}

type parser struct {
	s    scanner.Scanner
	tok  rune
	vars func(string) Type
	err  error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) fail(msg string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %s", p.s.Position, msg)
	}
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail(fmt.Sprintf("expected %q, got %q", string(tok), p.s.TokenText()))
		return
	}
	p.next()
}

func (p *parser) ident() string {
	if p.tok != scanner.Ident {
		p.fail(fmt.Sprintf("expected identifier, got %q", p.s.TokenText()))
		return ""
	}
	name := p.s.TokenText()
	p.next()
	return name
}

// varName accepts an identifier or a number, so printed variables such as
// ?3 read back.
func (p *parser) varName() string {
	if p.tok == scanner.Int {
		name := p.s.TokenText()
		p.next()
		return name
	}
	return p.ident()
}

func (p *parser) parseType() Type {
	if p.err != nil {
		return nil
	}
	switch p.tok {
	case '?':
		p.next()
		name := p.varName()
		if p.vars == nil {
			p.fail("variables are not allowed here")
			return nil
		}
		return p.vars(name)
	case '(':
		p.next()
		return TTuple{Elements: p.list(')')}
	case scanner.Ident:
		switch p.s.TokenText() {
		case "fn":
			p.next()
			p.expect('(')
			params := p.list(')')
			p.expect('-')
			p.expect('>')
			return TFunc{Params: params, ReturnType: p.parseType()}
		case "opaque":
			p.next()
			unit := p.ident()
			p.expect(':')
			p.expect(':')
			def := DefID{Unit: unit, Name: p.ident()}
			return TOpaque{Def: def, Args: p.typeArgs()}
		}
		con := TCon{Name: p.ident()}
		for p.tok == '.' {
			p.next()
			if con.Module != "" {
				con.Module += "." + con.Name
			} else {
				con.Module = con.Name
			}
			con.Name = p.ident()
		}
		if args := p.typeArgs(); args != nil {
			return TApp{Constructor: con, Args: args}
		}
		return con
	case scanner.EOF:
		p.fail("unexpected end of input")
	default:
		p.fail(fmt.Sprintf("unexpected %q", p.s.TokenText()))
	}
	return nil
}

// typeArgs parses an optional <...> list; it returns nil when absent.
// An empty list is rejected: List<> would otherwise be a second spelling
// of List.
func (p *parser) typeArgs() []Type {
	if p.tok != '<' {
		return nil
	}
	p.next()
	if p.tok == '>' {
		p.fail("empty type argument list")
		return nil
	}
	return p.list('>')
}

// list parses comma separated types up to and including the closing token.
func (p *parser) list(closing rune) []Type {
	out := []Type{}
	if p.tok == closing {
		p.next()
		return out
	}
	for p.err == nil {
		out = append(out, p.parseType())
		if p.tok != ',' {
			break
		}
		p.next()
	}
	p.expect(closing)
	return out
}
