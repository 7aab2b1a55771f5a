package recipe

import (
	"fmt"
	"strings"

	"github.com/geos-esm/geosrecipe/internal/version"
)

type termKind int

const (
	termEnabled termKind = iota
	termDisabled
	termValue
	termVersion
	termCompiler
	termDependency
)

type term struct {
	kind  termKind
	name  string
	value string

	// version range; exact is set for "@X" without a colon
	lo, hi string
	exact  bool
	ranged bool
}

// Predicate is a compiled when clause such as "@12: +debug ~fmsyaml" or
// "%gcc@:12". All terms must hold. The zero Predicate always holds.
type Predicate struct {
	raw   string
	terms []term
}

// ParsePredicate compiles a when clause. Terms are separated by spaces and
// take the forms +name, ~name, name=value, @lo:hi, %compiler[@lo:hi] and
// ^dependency.
func ParsePredicate(s string) (Predicate, error) {
	p := Predicate{raw: strings.TrimSpace(s)}
	for _, tok := range strings.Fields(s) {
		t, err := parseTerm(tok)
		if err != nil {
			return Predicate{}, fmt.Errorf("%w: %q: %v", ErrInvalidPredicate, s, err)
		}
		p.terms = append(p.terms, t)
	}
	return p, nil
}

// When is ParsePredicate for recipe declarations; it panics on a malformed clause.
func When(s string) Predicate {
	p, err := ParsePredicate(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the clause as written.
func (p Predicate) String() string {
	return p.raw
}

// IsZero reports whether p has no terms.
func (p Predicate) IsZero() bool {
	return len(p.terms) == 0
}

// Satisfies reports whether s meets every term of p.
func (p Predicate) Satisfies(s *State) bool {
	for _, t := range p.terms {
		if !t.satisfies(s) {
			return false
		}
	}
	return true
}

func parseTerm(tok string) (term, error) {
	switch tok[0] {
	case '+', '~':
		name := tok[1:]
		if !validName(name) {
			return term{}, fmt.Errorf("bad variant %q", tok)
		}
		if tok[0] == '+' {
			return term{kind: termEnabled, name: name}, nil
		}
		return term{kind: termDisabled, name: name}, nil
	case '@':
		t := term{kind: termVersion}
		if err := t.parseRange(tok[1:]); err != nil {
			return term{}, err
		}
		return t, nil
	case '%':
		name, rng, hasRange := strings.Cut(tok[1:], "@")
		if !validName(name) {
			return term{}, fmt.Errorf("bad compiler %q", tok)
		}
		t := term{kind: termCompiler, name: name}
		if hasRange {
			if err := t.parseRange(rng); err != nil {
				return term{}, err
			}
		}
		return t, nil
	case '^':
		name := tok[1:]
		if !validName(name) {
			return term{}, fmt.Errorf("bad dependency %q", tok)
		}
		return term{kind: termDependency, name: name}, nil
	}
	if name, value, ok := strings.Cut(tok, "="); ok && validName(name) && value != "" {
		return term{kind: termValue, name: name, value: value}, nil
	}
	return term{}, fmt.Errorf("unrecognized term %q", tok)
}

func (t *term) parseRange(s string) error {
	if s == "" {
		return fmt.Errorf("empty version range")
	}
	t.ranged = true
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		t.lo, t.exact = s, true
		return nil
	}
	if lo == "" && hi == "" {
		return fmt.Errorf("empty version range")
	}
	t.lo, t.hi = lo, hi
	return nil
}

func (t term) inRange(v string) bool {
	if !t.ranged {
		return true
	}
	// An unknown version lies in no range.
	if v == "" {
		return false
	}
	if t.exact {
		return v == t.lo || version.HasPrefix(v, t.lo)
	}
	return version.InRange(v, t.lo, t.hi)
}

func (t term) satisfies(s *State) bool {
	switch t.kind {
	case termEnabled:
		v, ok := s.Variants[t.name]
		return ok && v == "true"
	case termDisabled:
		v, ok := s.Variants[t.name]
		return ok && v == "false"
	case termValue:
		if t.name == "platform" {
			return s.Platform == t.value
		}
		return s.Variants[t.name] == t.value
	case termVersion:
		return t.inRange(s.Version)
	case termCompiler:
		return s.Compiler.Name == t.name && t.inRange(s.Compiler.Version)
	case termDependency:
		return s.Depends(t.name)
	}
	return false
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
