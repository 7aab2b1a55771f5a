// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Definition is a single -D cache entry passed to cmake.
type Definition struct {
	Key   string
	Type  string
	Value string
}

// Define returns an untyped definition.
func Define(key, value string) Definition {
	return Definition{Key: key, Value: value}
}

// DefineBool returns a BOOL definition set to ON or OFF.
func DefineBool(key string, value bool) Definition {
	v := "OFF"
	if value {
		v = "ON"
	}
	return Definition{Key: key, Type: "BOOL", Value: v}
}

// DefineString returns a STRING definition.
func DefineString(key, value string) Definition {
	return Definition{Key: key, Type: "STRING", Value: value}
}

// Arg renders d as a command-line argument.
func (d Definition) Arg() string {
	if d.Type != "" {
		return "-D" + d.Key + ":" + d.Type + "=" + d.Value
	}
	return "-D" + d.Key + "=" + d.Value
}

// String renders d as KEY=VALUE.
func (d Definition) String() string {
	return d.Key + "=" + d.Value
}

// Args renders defs in order.
func Args(defs []Definition) []string {
	if len(defs) == 0 {
		return nil
	}
	args := make([]string, 0, len(defs))
	for _, d := range defs {
		args = append(args, d.Arg())
	}
	return args
}

// CMake drives CMake-based builds.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	bin        string
	env        []string
	defines    []Definition

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a ready-to-use CMake.
func New(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		bin:        "cmake",
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// Bin overrides the cmake executable.
func (c *CMake) Bin(path string) { c.bin = path }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Env sets the environment of every cmake child process. A nil env
// inherits the current process environment.
func (c *CMake) Env(env []string) { c.env = env }

// Add appends definitions, keeping their order. A later definition of the
// same key replaces the earlier one in place.
func (c *CMake) Add(defs ...Definition) {
	for _, d := range defs {
		replaced := false
		for i := range c.defines {
			if c.defines[i].Key == d.Key {
				c.defines[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			c.defines = append(c.defines, d)
		}
	}
}

// Definitions returns the definitions added so far.
func (c *CMake) Definitions() []Definition {
	return append([]Definition(nil), c.defines...)
}

// ConfigureArgs returns the arguments Configure passes to cmake.
func (c *CMake) ConfigureArgs(args ...string) []string {
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	var implicit []Definition
	if c.installDir != "" {
		implicit = append(implicit, DefineString("CMAKE_INSTALL_PREFIX", c.installDir))
	}
	if c.buildType != "" {
		implicit = append(implicit, DefineString("CMAKE_BUILD_TYPE", c.buildType))
	}
	cmakeArgs = append(cmakeArgs, Args(implicit)...)
	cmakeArgs = append(cmakeArgs, Args(c.defines)...)
	return append(cmakeArgs, args...)
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	return c.run(ctx, c.ConfigureArgs(args...))
}

// Build runs "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	return c.run(ctx, append(cmakeArgs, args...))
}

// Install runs "cmake --install <build>" with optional extra arguments.
func (c *CMake) Install(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--install", c.buildDir}
	if c.installDir != "" {
		cmakeArgs = append(cmakeArgs, "--prefix", c.installDir)
	}
	return c.run(ctx, append(cmakeArgs, args...))
}

// OutputDir returns installDir if set, otherwise buildDir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.Env = c.env
	if err := cmd.Run(); err != nil {
		return &RunError{Args: args, Err: err}
	}
	return nil
}

// RunError reports a failed cmake invocation.
type RunError struct {
	Args []string
	Err  error
}

func (e *RunError) Error() string {
	return "cmake " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
}

func (e *RunError) Unwrap() error { return e.Err }
