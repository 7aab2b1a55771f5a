// Package config loads resolved build states from YAML files.
package config

import (
	"fmt"
	"os"

	"github.com/geos-esm/geosrecipe/recipe"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ErrPackageMismatch is returned when a state file names another package.
var ErrPackageMismatch = zerr.New("state file is for another package")

// StateFile is the on-disk form of a resolved build state.
type StateFile struct {
	Package   string            `yaml:"package"`
	Version   string            `yaml:"version"`
	Variants  map[string]any    `yaml:"variants"`
	Compiler  CompilerDTO       `yaml:"compiler"`
	MPI       string            `yaml:"mpi"`
	Platform  string            `yaml:"platform"`
	Prefixes  map[string]string `yaml:"prefixes"`
	Providers []string          `yaml:"providers"`
}

// CompilerDTO describes the compiler in a state file.
type CompilerDTO struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	FC        string `yaml:"fc"`
	FCVersion string `yaml:"fc_version"`
}

// LoadState reads a state file.
func LoadState(path string) (*StateFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read state file")
	}
	return ParseState(data)
}

// ParseState decodes a state file.
func ParseState(data []byte) (*StateFile, error) {
	var f StateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, zerr.Wrap(err, "failed to parse state file")
	}
	return &f, nil
}

// Resolve concretizes r with the choices in f. An empty version selects the
// preferred one.
func (f *StateFile) Resolve(r *recipe.Recipe) (*recipe.State, error) {
	if f.Package != "" && f.Package != r.Name {
		return nil, zerr.With(fmt.Errorf("%w: %s, not %s", ErrPackageMismatch, f.Package, r.Name), "package", f.Package)
	}
	label := f.Version
	if label == "" {
		v, ok := r.Preferred()
		if !ok {
			return nil, fmt.Errorf("%s: no versions declared", r.Name)
		}
		label = v.Label
	}

	overrides := make(map[string]string, len(f.Variants))
	for k, v := range f.Variants {
		overrides[k] = fmt.Sprint(v)
	}

	s, err := r.Concretize(label, overrides, recipe.Compiler{
		Name:      f.Compiler.Name,
		Version:   f.Compiler.Version,
		FC:        f.Compiler.FC,
		FCVersion: f.Compiler.FCVersion,
	}, f.MPI)
	if err != nil {
		return nil, err
	}
	s.Platform = f.Platform
	s.Providers = f.Providers
	for k, v := range f.Prefixes {
		s.Prefixes[k] = v
	}
	if err := r.CheckConflicts(s); err != nil {
		return nil, err
	}
	return s, nil
}
