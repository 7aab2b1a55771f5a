package recipe

import "slices"

// Compiler identifies the compiler chosen for a build.
type Compiler struct {
	// Name is the compiler family, e.g. "gcc", "apple-clang", "intel".
	Name    string
	Version string

	// FC is the Fortran compiler executable, e.g. "/usr/bin/gfortran-13".
	FC string

	// FCVersion is what FC reports for -dumpversion. Empty if not yet probed.
	FCVersion string
}

// State is a resolved build of one recipe: a version, a value for every
// applicable variant, the compiler, the MPI provider and the install
// prefixes of the dependencies the build reads from.
type State struct {
	Package  string
	Version  string
	Variants map[string]string
	Compiler Compiler
	MPI      string
	Platform string
	Prefixes map[string]string

	// Providers lists further resolved dependency names for ^name clauses.
	Providers []string
}

// Enabled reports whether the boolean variant name is set.
func (s *State) Enabled(name string) bool {
	return s.Variants[name] == "true"
}

// Depends reports whether name is among the resolved dependencies.
func (s *State) Depends(name string) bool {
	if s.MPI == name {
		return true
	}
	if _, ok := s.Prefixes[name]; ok {
		return true
	}
	return slices.Contains(s.Providers, name)
}

// Prefix returns the install prefix of dependency name.
func (s *State) Prefix(name string) (string, bool) {
	p, ok := s.Prefixes[name]
	return p, ok && p != ""
}
