package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	argsState, argsRaw, depsState = "", false, ""
	buildState, buildSource, buildDir, buildPrefix = "", "", "", ""
	buildCMake, buildGenerator, buildConfigure = "", "", false
	mepoPath = "mepo"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeState(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("list output = %q", out)
	}
	if !strings.HasPrefix(lines[0], "geosfvdycore") || !strings.Contains(lines[0], "2.19.1") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "geosgcm") || !strings.Contains(lines[1], "11.7.1") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestInfoCommand(t *testing.T) {
	out, err := run(t, "info", "geosgcm")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"GEOS Earth System Model GEOSgcm Fixture",
		"11.7.1",
		"[preferred]",
		"commit=402d26c88408e1d5a75f371a440e5a182e4338e9",
		"jemalloc [true]",
		"when @12:",
		"%gcc@:12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q", want)
		}
	}

	if _, err := run(t, "info", "nope"); err == nil {
		t.Error("info on unknown package succeeded")
	}
}

func TestArgsCommand(t *testing.T) {
	path := writeState(t, `
version: 11.7.1
variants: {f2py: false}
compiler: {name: oneapi, version: 2024.1.0, fc: ifx}
mpi: openmpi
prefixes: {esmf: /opt/esmf}
`)
	out, err := run(t, "args", "geosgcm", "-f", path, "--raw")
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	want := strings.Join([]string{
		"USE_F2PY=OFF",
		"FMS_BUILT_WITH_YAML=OFF",
		"AQUAPLANET=OFF",
		"USE_EXTERNAL_MAPL=OFF",
		"CMAKE_MODULE_PATH=/opt/esmf/cmake",
		"MPI_STACK=openmpi",
	}, "\n")
	if strings.TrimSpace(out) != want {
		t.Errorf("args output =\n%s\nwant\n%s", out, want)
	}

	out, err = run(t, "args", "geosgcm", "-f", path)
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	if !strings.Contains(out, "-DUSE_F2PY:BOOL=OFF") {
		t.Errorf("args output = %q", out)
	}
}

func TestArgsCommandUnsupportedMPI(t *testing.T) {
	path := writeState(t, "mpi: fictional-mpi\nprefixes: {esmf: /opt/esmf}\n")
	out, err := run(t, "args", "geosgcm", "-f", path)
	if err == nil || !strings.Contains(err.Error(), "unsupported MPI stack") {
		t.Fatalf("args error = %v", err)
	}
	if out != "" {
		t.Errorf("args printed %q on failure", out)
	}
}

func TestDepsCommand(t *testing.T) {
	path := writeState(t, "version: 12.0.0-rc1\nvariants: {debug: true}\ncompiler: {name: gcc, version: 13.2.0}\n")
	out, err := run(t, "deps", "geosgcm", "-f", path)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	for _, want := range []string{"esmf +debug", "jemalloc", "build_type=Debug", "mepo\t(build)"} {
		if !strings.Contains(out, want) {
			t.Errorf("deps output missing %q", want)
		}
	}
	if strings.Contains(out, "esmf ~debug") {
		t.Error("deps output has esmf ~debug")
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildCommandDefaultBuildDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs a shell and XDG_CACHE_HOME")
	}
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	bin := t.TempDir()
	log := filepath.Join(bin, "cmake.log")
	mepo := writeScript(t, bin, "mepo", "exit 0\n")
	cmake := writeScript(t, bin, "cmake", "echo \"$*\" >> "+log+"\n")

	state := writeState(t, `
version: 11.7.1
compiler: {name: gcc, version: 13.2.0, fc: /usr/bin/gfortran}
mpi: openmpi
prefixes: {esmf: /opt/esmf}
`)
	out, err := run(t, "--mepo", mepo, "build", "geosgcm", "-f", state, "-s", t.TempDir(), "--cmake", cmake, "--configure-only")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := filepath.Join(cache, "geosrecipe", "geosgcm-11.7.1", "build")
	if !strings.Contains(out, want) {
		t.Errorf("build output = %q, want %q", out, want)
	}
	data, err := os.ReadFile(log)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "-B "+want) {
		t.Errorf("cmake args = %q", data)
	}
}
