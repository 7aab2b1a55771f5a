package recipe

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/geos-esm/geosrecipe/internal/version"
	"github.com/geos-esm/geosrecipe/x/cmake"
	"go.trai.ch/zerr"
)

// FortranPolicy selects when GNU Fortran compatibility flags are added.
type FortranPolicy int

const (
	// FortranMarker adds all three flags when the compiler family is
	// GNU-derived and the Fortran executable name contains "gfortran".
	FortranMarker FortranPolicy = iota

	// FortranVersionGated always adds -ffree-line-length-none for a
	// GNU-derived family, and the two -fallow flags only when the Fortran
	// compiler reports major version 10 or newer.
	FortranVersionGated
)

func (p FortranPolicy) String() string {
	switch p {
	case FortranMarker:
		return "marker"
	case FortranVersionGated:
		return "version-gated"
	}
	return fmt.Sprintf("FortranPolicy(%d)", int(p))
}

// NeedsFortranVersion reports whether p reads Compiler.FCVersion.
func (p FortranPolicy) NeedsFortranVersion() bool {
	return p == FortranVersionGated
}

const gfortranMarker = "gfortran"

// gnuFamilies are the compiler families that pair with gfortran.
var gnuFamilies = []string{"gcc", "clang", "apple-clang"}

// mpiStacks maps an MPI provider to the MPI_STACK name the GEOS scripts use.
var mpiStacks = map[string]string{
	"mpich":            "mpich",
	"openmpi":          "openmpi",
	"intel-oneapi-mpi": "intelmpi",
	"intel-mpi":        "intelmpi",
	"mvapich":          "mvapich",
	"mpt":              "mpt",
	"cray-mpich":       "mpich",
}

// MPIStack returns the MPI_STACK name for provider.
func MPIStack(provider string) (string, error) {
	if name, ok := mpiStacks[provider]; ok {
		return name, nil
	}
	return "", zerr.With(fmt.Errorf("%w: %q, want one of %s", ErrUnsupportedMPIStack, provider, strings.Join(MPIProviders(), ", ")), "provider", provider)
}

// MPIProviders returns the providers MPIStack accepts, sorted.
func MPIProviders() []string {
	names := make([]string, 0, len(mpiStacks))
	for name := range mpiStacks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FortranFlags returns the GNU Fortran compatibility flags for c under policy p.
func FortranFlags(p FortranPolicy, c Compiler) []string {
	if !slices.Contains(gnuFamilies, c.Name) {
		return nil
	}
	var flags []string
	switch p {
	case FortranMarker:
		if strings.Contains(filepath.Base(c.FC), gfortranMarker) {
			flags = append(flags,
				"-ffree-line-length-none",
				"-fallow-invalid-boz",
				"-fallow-argument-mismatch",
			)
		}
	case FortranVersionGated:
		flags = append(flags, "-ffree-line-length-none")
		// an unprobed version counts as older than 10
		if major, ok := version.Major(c.FCVersion); ok && major >= 10 {
			flags = append(flags, "-fallow-invalid-boz", "-fallow-argument-mismatch")
		}
	}
	return flags
}

// CMakeArgs translates s into CMake definitions: feature toggles first,
// then CMAKE_Fortran_FLAGS, then CMAKE_MODULE_PATH, then MPI_STACK. On
// error no definitions are returned.
func (r *Recipe) CMakeArgs(s *State) ([]cmake.Definition, error) {
	stack, err := MPIStack(s.MPI)
	if err != nil {
		return nil, err
	}

	var defs []cmake.Definition
	for _, t := range r.Toggles {
		if !r.VariantApplies(t.Variant, s) {
			continue
		}
		defs = append(defs, cmake.DefineBool(t.Key, s.Enabled(t.Variant)))
	}

	if flags := FortranFlags(r.FortranPolicy, s.Compiler); len(flags) > 0 {
		defs = append(defs, cmake.DefineString("CMAKE_Fortran_FLAGS", strings.Join(flags, " ")))
	}

	if mp := r.ModulePath; mp.Dependency != "" {
		prefix, ok := s.Prefix(mp.Dependency)
		if !ok {
			return nil, zerr.With(fmt.Errorf("%w: %s", ErrMissingPrefix, mp.Dependency), "dependency", mp.Dependency)
		}
		defs = append(defs, cmake.Define("CMAKE_MODULE_PATH", filepath.Join(prefix, mp.Subdir)))
	}

	defs = append(defs, cmake.Define("MPI_STACK", stack))
	return defs, nil
}
