// Package buildenv prepares the environment handed to build subprocesses.
package buildenv

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Env is an ordered set of environment variables.
type Env struct {
	keys []string
	vars map[string]string
}

// New returns an Env seeded from environ entries of the form KEY=VALUE.
// Later entries override earlier ones.
func New(environ []string) *Env {
	e := &Env{vars: make(map[string]string, len(environ))}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			e.Set(k, v)
		}
	}
	return e
}

// FromOS returns an Env seeded from the current process environment.
func FromOS() *Env {
	return New(os.Environ())
}

// Set sets key to value.
func (e *Env) Set(key, value string) {
	if _, ok := e.vars[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.vars[key] = value
}

// Get returns the value of key.
func (e *Env) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Unset removes key. Removing an absent key does nothing.
func (e *Env) Unset(key string) {
	if _, ok := e.vars[key]; !ok {
		return
	}
	delete(e.vars, key)
	e.keys = slices.DeleteFunc(e.keys, func(k string) bool { return k == key })
}

// Environ renders e as KEY=VALUE entries for exec.Cmd.Env.
func (e *Env) Environ() []string {
	out := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// Sanitize removes every variable in names.
func Sanitize(e *Env, names []string) {
	for _, name := range names {
		e.Unset(name)
	}
}

// WorkDir returns the default directory for staged sources and builds.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, "geosrecipe"), nil
}

// BuildDir returns the default build directory for pkg at version.
func BuildDir(pkg, version string) (string, error) {
	dir, err := WorkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, pkg+"-"+version, "build"), nil
}
