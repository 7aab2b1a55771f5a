// Package recipe describes how a GEOS component is fetched, configured and
// built: its versions, variants and dependencies, the pre-configure clone
// steps, and the rules that turn a resolved State into CMake definitions.
package recipe

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/geos-esm/geosrecipe/internal/version"
	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

// -----------------------------------------------------------------------------

// VersionEntry pins a version label to a branch or to a tag and commit.
type VersionEntry struct {
	Label     string
	Branch    string
	Tag       string
	Commit    string
	Preferred bool
}

// Ref returns the git ref the entry checks out.
func (v VersionEntry) Ref() string {
	if v.Branch != "" {
		return v.Branch
	}
	return v.Commit
}

// VariantKind tells boolean variants from enumerated ones.
type VariantKind int

const (
	Bool VariantKind = iota
	Enum
)

// Variant declares a build option. A name may be declared more than once
// with disjoint When clauses to change its default across versions.
type Variant struct {
	Name        string
	Kind        VariantKind
	Default     string
	Values      []string
	When        Predicate
	Description string
}

// DepKind is a bit set of when a dependency is needed.
type DepKind uint8

const (
	BuildDep DepKind = 1 << iota
	LinkDep
	RunDep
)

func (k DepKind) String() string {
	if k == 0 {
		k = BuildDep | LinkDep
	}
	var parts []string
	for _, e := range []struct {
		k    DepKind
		name string
	}{{BuildDep, "build"}, {LinkDep, "link"}, {RunDep, "run"}} {
		if k&e.k != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, ",")
}

// Dependency is one depends_on declaration. A zero Kind means build and link.
type Dependency struct {
	Name       string
	Constraint string
	When       Predicate
	Kind       DepKind
}

// String renders the dependency the way it was declared.
func (d Dependency) String() string {
	s := d.Name
	if d.Constraint != "" {
		if strings.HasPrefix(d.Constraint, "@") {
			s += d.Constraint
		} else {
			s += " " + d.Constraint
		}
	}
	return s
}

// Conflict rejects any state matching Spec.
type Conflict struct {
	Spec Predicate
	Msg  string
}

// Toggle mirrors a boolean variant into a CMake ON/OFF definition.
type Toggle struct {
	Key     string
	Variant string
}

// CloneHook describes the mepo steps run before configure.
type CloneHook struct {
	// Partial is the --partial policy for the initial clone.
	Partial string

	// DevelopVariant switches DevelopRepos to their develop branches.
	DevelopVariant string
	DevelopRepos   []string

	// ExperimentalBranch is checked out when it exists and the state
	// satisfies ExperimentalWhen.
	ExperimentalBranch string
	ExperimentalWhen   Predicate
}

// ModulePath names the dependency whose prefix subdirectory becomes
// CMAKE_MODULE_PATH.
type ModulePath struct {
	Dependency string
	Subdir     string
}

// Recipe is the complete description of one package.
type Recipe struct {
	Name        string
	Description string
	Homepage    string
	URL         string
	Git         string
	ListURL     string
	Maintainers []string

	Versions     []VersionEntry
	Variants     []Variant
	Dependencies []Dependency
	Conflicts    []Conflict

	Clone         CloneHook
	Toggles       []Toggle
	FortranPolicy FortranPolicy
	ModulePath    ModulePath

	// UnsetEnv lists variables removed from the build environment.
	UnsetEnv []string
}

// -----------------------------------------------------------------------------

// Validate checks the declarations for internal consistency.
func (r *Recipe) Validate() error {
	preferred := 0
	seen := make(map[string]bool)
	for _, v := range r.Versions {
		if seen[v.Label] {
			return r.invalid("duplicate version %q", v.Label)
		}
		seen[v.Label] = true
		if v.Preferred {
			preferred++
		}
		switch {
		case v.Branch != "" && (v.Tag != "" || v.Commit != ""):
			return r.invalid("version %q has both a branch and a tag", v.Label)
		case v.Branch == "" && (v.Tag == "" || v.Commit == ""):
			return r.invalid("version %q needs a branch or a tag and commit", v.Label)
		case v.Tag != "" && !semver.IsValid(v.Tag):
			return r.invalid("version %q has non-semver tag %q", v.Label, v.Tag)
		}
	}
	if preferred > 1 {
		return r.invalid("%d preferred versions", preferred)
	}
	for _, v := range r.Variants {
		switch v.Kind {
		case Bool:
			if v.Default != "true" && v.Default != "false" {
				return r.invalid("variant %q has non-boolean default %q", v.Name, v.Default)
			}
		case Enum:
			if !slices.Contains(v.Values, v.Default) {
				return r.invalid("variant %q default %q not in %v", v.Name, v.Default, v.Values)
			}
		}
	}
	for _, t := range r.Toggles {
		if !slices.ContainsFunc(r.Variants, func(v Variant) bool {
			return v.Name == t.Variant && v.Kind == Bool
		}) {
			return r.invalid("toggle %s refers to unknown boolean variant %q", t.Key, t.Variant)
		}
	}
	return nil
}

func (r *Recipe) invalid(format string, args ...any) error {
	return zerr.With(fmt.Errorf("%w: %s: %s", ErrInvalidRecipe, r.Name, fmt.Sprintf(format, args...)), "recipe", r.Name)
}

// Version returns the entry labelled label.
func (r *Recipe) Version(label string) (VersionEntry, bool) {
	for _, v := range r.Versions {
		if v.Label == label {
			return v, true
		}
	}
	return VersionEntry{}, false
}

// Preferred returns the preferred version, or the highest non-branch
// version if none is marked.
func (r *Recipe) Preferred() (VersionEntry, bool) {
	var best VersionEntry
	found := false
	for _, v := range r.Versions {
		if v.Preferred {
			return v, true
		}
		if version.IsBranch(v.Label) {
			continue
		}
		if !found || version.Compare(v.Label, best.Label) > 0 {
			best, found = v, true
		}
	}
	return best, found
}

// VariantApplies reports whether variant name is declared for s.
func (r *Recipe) VariantApplies(name string, s *State) bool {
	_, ok := r.variant(name, s)
	return ok
}

func (r *Recipe) variant(name string, s *State) (Variant, bool) {
	for _, v := range r.Variants {
		if v.Name == name && v.When.Satisfies(s) {
			return v, true
		}
	}
	return Variant{}, false
}

// Requirements returns the dependencies whose When clauses hold for s, in
// declaration order.
func (r *Recipe) Requirements(s *State) []Dependency {
	var deps []Dependency
	for _, d := range r.Dependencies {
		if d.When.Satisfies(s) {
			deps = append(deps, d)
		}
	}
	return deps
}

// Concretize builds a State for the given version. Every applicable variant
// takes its default unless overrides names it.
func (r *Recipe) Concretize(label string, overrides map[string]string, compiler Compiler, mpi string) (*State, error) {
	if _, ok := r.Version(label); !ok {
		return nil, zerr.With(fmt.Errorf("%w: %s@%s", ErrUnknownVersion, r.Name, label), "version", label)
	}
	s := &State{
		Package:  r.Name,
		Version:  label,
		Variants: make(map[string]string),
		Compiler: compiler,
		MPI:      mpi,
		Prefixes: make(map[string]string),
	}
	for _, v := range r.Variants {
		if _, set := s.Variants[v.Name]; set {
			continue
		}
		if v.When.Satisfies(s) {
			s.Variants[v.Name] = v.Default
		}
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		value, err := r.checkVariant(name, overrides[name], s)
		if err != nil {
			return nil, err
		}
		s.Variants[name] = value
	}

	if err := r.CheckConflicts(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Recipe) checkVariant(name, value string, s *State) (string, error) {
	v, ok := r.variant(name, s)
	if !ok {
		if slices.ContainsFunc(r.Variants, func(v Variant) bool { return v.Name == name }) {
			return "", zerr.With(fmt.Errorf("%w: %s does not apply to %s@%s", ErrInvalidVariant, name, r.Name, s.Version), "variant", name)
		}
		return "", zerr.With(fmt.Errorf("%w: %s", ErrUnknownVariant, name), "variant", name)
	}
	switch v.Kind {
	case Bool:
		b, err := parseBool(value)
		if err != nil {
			return "", zerr.With(fmt.Errorf("%w: %s=%s", ErrInvalidVariant, name, value), "variant", name)
		}
		return strconv.FormatBool(b), nil
	default:
		if !slices.Contains(v.Values, value) {
			return "", zerr.With(fmt.Errorf("%w: %s=%s, want one of %s", ErrInvalidVariant, name, value, strings.Join(v.Values, ", ")), "variant", name)
		}
		return value, nil
	}
}

// parseBool accepts on/off in any case besides the strconv forms.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return strconv.ParseBool(value)
}

// CheckConflicts returns ErrConflict if s matches a declared conflict.
func (r *Recipe) CheckConflicts(s *State) error {
	for _, c := range r.Conflicts {
		if c.Spec.Satisfies(s) {
			msg := c.Msg
			if msg == "" {
				msg = c.Spec.String()
			}
			return zerr.With(fmt.Errorf("%w: %s: %s", ErrConflict, r.Name, msg), "conflict", c.Spec.String())
		}
	}
	return nil
}
