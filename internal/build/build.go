// Package build runs a recipe end to end: the mepo pre-configure hook,
// CMake argument translation, environment sanitation and the cmake
// configure, build and install steps.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geos-esm/geosrecipe/internal/buildenv"
	"github.com/geos-esm/geosrecipe/internal/compiler"
	"github.com/geos-esm/geosrecipe/internal/mepo"
	"github.com/geos-esm/geosrecipe/internal/stage"
	"github.com/geos-esm/geosrecipe/recipe"
	"github.com/geos-esm/geosrecipe/x/cmake"
	"github.com/hashicorp/go-hclog"
)

// Options controls where a build happens and how far it goes.
type Options struct {
	SourceDir  string
	BuildDir   string // defaults to <SourceDir>/build
	InstallDir string

	// CMake overrides the cmake executable.
	CMake     string
	Generator string

	// Environ is the base environment. Nil means the process environment.
	Environ []string

	// ConfigureOnly stops after cmake configure.
	ConfigureOnly bool
}

// Result describes a finished build.
type Result struct {
	Definitions []cmake.Definition
	OutputDir   string
}

// Builder runs recipes.
type Builder struct {
	mepo  mepo.Tool
	l     hclog.Logger
	probe func(ctx context.Context, bin string) (string, error)
}

// NewBuilder returns a Builder that clones with tool.
func NewBuilder(tool mepo.Tool, l hclog.Logger) *Builder {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	return &Builder{
		mepo:  tool,
		l:     l.Named("build"),
		probe: compiler.DumpVersion,
	}
}

// PreConfigure materializes the multi-repository source tree in srcDir.
// It always clones, switches the develop repositories when the develop
// variant is on, and checks out the experimental branch where it exists
// when the state matches its version gate.
func (b *Builder) PreConfigure(ctx context.Context, r *recipe.Recipe, s *recipe.State, srcDir string) error {
	h := r.Clone
	return stage.Within(srcDir, func() error {
		b.l.Info("cloning sub-repositories", "package", r.Name, "dir", srcDir, "partial", h.Partial)
		if err := b.mepo.Clone(ctx, "", h.Partial); err != nil {
			return err
		}

		if h.DevelopVariant != "" && s.Enabled(h.DevelopVariant) && len(h.DevelopRepos) > 0 {
			b.l.Info("switching to develop branches", "repos", h.DevelopRepos)
			if err := b.mepo.Develop(ctx, "", h.DevelopRepos...); err != nil {
				return err
			}
		}

		if h.ExperimentalBranch != "" && h.ExperimentalWhen.Satisfies(s) {
			b.l.Info("checking out experimental branch", "branch", h.ExperimentalBranch)
			if err := b.mepo.CheckoutIfExists(ctx, "", h.ExperimentalBranch); err != nil {
				return err
			}
		}
		return nil
	})
}

// Args returns the CMake definitions for s, probing the Fortran compiler
// version first when the recipe's policy needs it.
func (b *Builder) Args(ctx context.Context, r *recipe.Recipe, s *recipe.State) ([]cmake.Definition, error) {
	if r.FortranPolicy.NeedsFortranVersion() && s.Compiler.FCVersion == "" && s.Compiler.FC != "" {
		v, err := b.probe(ctx, s.Compiler.FC)
		if err != nil {
			return nil, fmt.Errorf("probe fortran compiler: %w", err)
		}
		b.l.Debug("probed fortran compiler", "fc", s.Compiler.FC, "version", v)
		s.Compiler.FCVersion = v
	}
	return r.CMakeArgs(s)
}

// Environ returns the environment for the cmake child processes with the
// recipe's unwanted variables removed.
func (b *Builder) Environ(r *recipe.Recipe, base []string) []string {
	env := buildenv.FromOS()
	if base != nil {
		env = buildenv.New(base)
	}
	for _, name := range r.UnsetEnv {
		if _, ok := env.Get(name); ok {
			b.l.Debug("unsetting inherited variable", "name", name)
		}
	}
	buildenv.Sanitize(env, r.UnsetEnv)
	return env.Environ()
}

// Run builds r in opts.SourceDir. Any failing step aborts the build.
func (b *Builder) Run(ctx context.Context, r *recipe.Recipe, s *recipe.State, opts Options) (*Result, error) {
	if opts.SourceDir == "" {
		return nil, fmt.Errorf("%s: no source directory", r.Name)
	}
	srcDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(srcDir); err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}

	if err := b.PreConfigure(ctx, r, s, srcDir); err != nil {
		return nil, fmt.Errorf("%s: pre-configure: %w", r.Name, err)
	}

	defs, err := b.Args(ctx, r, s)
	if err != nil {
		return nil, fmt.Errorf("%s: configure: %w", r.Name, err)
	}

	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = filepath.Join(srcDir, "build")
	}
	c := cmake.New(srcDir, buildDir, opts.InstallDir)
	if opts.CMake != "" {
		c.Bin(opts.CMake)
	}
	if opts.Generator != "" {
		c.Generator(opts.Generator)
	}
	if bt := s.Variants["build_type"]; bt != "" {
		c.BuildType(bt)
	}
	c.Env(b.Environ(r, opts.Environ))
	c.Add(defs...)

	b.l.Info("configuring", "package", r.Name, "version", s.Version, "build_dir", buildDir)
	if err := c.Configure(ctx); err != nil {
		return nil, fmt.Errorf("%s: configure: %w", r.Name, err)
	}
	res := &Result{Definitions: c.Definitions(), OutputDir: c.OutputDir()}
	if opts.ConfigureOnly {
		return res, nil
	}

	b.l.Info("building", "package", r.Name)
	if err := c.Build(ctx); err != nil {
		return nil, fmt.Errorf("%s: build: %w", r.Name, err)
	}
	if opts.InstallDir != "" {
		b.l.Info("installing", "package", r.Name, "prefix", opts.InstallDir)
		if err := c.Install(ctx); err != nil {
			return nil, fmt.Errorf("%s: install: %w", r.Name, err)
		}
	}
	return res, nil
}
