package recipe_test

import (
	"testing"

	"github.com/geos-esm/geosrecipe/packages"
	"github.com/geos-esm/geosrecipe/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gcc13 = recipe.Compiler{Name: "gcc", Version: "13.2.0", FC: "/usr/bin/gfortran"}

func TestPackagesValidate(t *testing.T) {
	for _, r := range packages.All() {
		assert.NoError(t, r.Validate(), r.Name)
	}
}

func TestValidateRejects(t *testing.T) {
	base := func() *recipe.Recipe {
		return &recipe.Recipe{
			Name: "demo",
			Versions: []recipe.VersionEntry{
				{Label: "main", Branch: "main"},
				{Label: "1.0.0", Tag: "v1.0.0", Commit: "abc", Preferred: true},
			},
			Variants: []recipe.Variant{{Name: "f2py", Kind: recipe.Bool, Default: "false"}},
			Toggles:  []recipe.Toggle{{Key: "USE_F2PY", Variant: "f2py"}},
		}
	}
	require.NoError(t, base().Validate())

	for name, mutate := range map[string]func(r *recipe.Recipe){
		"two preferred": func(r *recipe.Recipe) { r.Versions[0].Preferred = true },
		"branch and tag": func(r *recipe.Recipe) { r.Versions[0].Tag = "v2.0.0" },
		"tag without commit": func(r *recipe.Recipe) {
			r.Versions[1].Commit = ""
		},
		"bad tag": func(r *recipe.Recipe) { r.Versions[1].Tag = "release-1" },
		"duplicate": func(r *recipe.Recipe) {
			r.Versions = append(r.Versions, recipe.VersionEntry{Label: "main", Branch: "x"})
		},
		"bool default": func(r *recipe.Recipe) { r.Variants[0].Default = "yes" },
		"enum default": func(r *recipe.Recipe) {
			r.Variants = append(r.Variants, recipe.Variant{Name: "bt", Kind: recipe.Enum, Default: "X", Values: []string{"A"}})
		},
		"dangling toggle": func(r *recipe.Recipe) { r.Toggles[0].Variant = "nope" },
	} {
		r := base()
		mutate(r)
		assert.ErrorIs(t, r.Validate(), recipe.ErrInvalidRecipe, name)
	}
}

func TestPreferred(t *testing.T) {
	v, ok := packages.GEOSgcm.Preferred()
	require.True(t, ok)
	assert.Equal(t, "11.7.1", v.Label)
	assert.Equal(t, "402d26c88408e1d5a75f371a440e5a182e4338e9", v.Ref())

	r := &recipe.Recipe{Versions: []recipe.VersionEntry{
		{Label: "main", Branch: "main"},
		{Label: "1.2.0", Tag: "v1.2.0", Commit: "a"},
		{Label: "1.10.0", Tag: "v1.10.0", Commit: "b"},
	}}
	v, ok = r.Preferred()
	require.True(t, ok)
	assert.Equal(t, "1.10.0", v.Label)

	_, ok = (&recipe.Recipe{}).Preferred()
	assert.False(t, ok)
}

func TestConcretizeDefaults(t *testing.T) {
	s, err := packages.GEOSgcm.Concretize("11.6.3", nil, gcc13, "openmpi")
	require.NoError(t, err)
	assert.Equal(t, "false", s.Variants["jemalloc"])
	assert.Equal(t, "Release", s.Variants["build_type"])
	_, hasMAPL := s.Variants["external-mapl"]
	assert.False(t, hasMAPL)

	s, err = packages.GEOSgcm.Concretize("12.0.0-rc.2", nil, gcc13, "openmpi")
	require.NoError(t, err)
	assert.Equal(t, "true", s.Variants["jemalloc"])
	assert.Equal(t, "false", s.Variants["external-mapl"])

	s, err = packages.GEOSgcm.Concretize("main", nil, gcc13, "openmpi")
	require.NoError(t, err)
	assert.Equal(t, "true", s.Variants["jemalloc"])
}

func TestConcretizeOverrides(t *testing.T) {
	s, err := packages.GEOSgcm.Concretize("11.7.1", map[string]string{
		"debug":      "on",
		"build_type": "Debug",
		"f2py":       "1",
	}, gcc13, "mpich")
	require.NoError(t, err)
	assert.True(t, s.Enabled("debug"))
	assert.True(t, s.Enabled("f2py"))
	assert.Equal(t, "Debug", s.Variants["build_type"])

	s, err = packages.GEOSgcm.Concretize("11.7.1", map[string]string{"debug": "OFF", "f2py": "On"}, gcc13, "mpich")
	require.NoError(t, err)
	assert.Equal(t, "false", s.Variants["debug"])
	assert.Equal(t, "true", s.Variants["f2py"])

	_, err = packages.GEOSgcm.Concretize("11.7.1", map[string]string{"nope": "true"}, gcc13, "mpich")
	assert.ErrorIs(t, err, recipe.ErrUnknownVariant)

	_, err = packages.GEOSgcm.Concretize("11.7.1", map[string]string{"build_type": "Fast"}, gcc13, "mpich")
	assert.ErrorIs(t, err, recipe.ErrInvalidVariant)

	_, err = packages.GEOSgcm.Concretize("11.7.1", map[string]string{"debug": "maybe"}, gcc13, "mpich")
	assert.ErrorIs(t, err, recipe.ErrInvalidVariant)

	_, err = packages.GEOSgcm.Concretize("11.6.0", map[string]string{"external-mapl": "true"}, gcc13, "mpich")
	assert.ErrorIs(t, err, recipe.ErrInvalidVariant)

	_, err = packages.GEOSgcm.Concretize("99.0.0", nil, gcc13, "mpich")
	assert.ErrorIs(t, err, recipe.ErrUnknownVersion)
}

func TestConcretizeConflict(t *testing.T) {
	_, err := packages.GEOSgcm.Concretize("11.7.1", nil, recipe.Compiler{Name: "gcc", Version: "12.3.0"}, "mpich")
	assert.ErrorIs(t, err, recipe.ErrConflict)

	_, err = packages.GEOSfvdycore.Concretize("2.19.1", nil, recipe.Compiler{Name: "gcc", Version: "12.3.0"}, "mpich")
	assert.NoError(t, err)

	_, err = packages.GEOSgcm.Concretize("11.7.1", nil, recipe.Compiler{Name: "gcc"}, "mpich")
	assert.NoError(t, err)
}

func names(deps []recipe.Dependency) []string {
	var out []string
	for _, d := range deps {
		out = append(out, d.String())
	}
	return out
}

func TestRequirements(t *testing.T) {
	s, err := packages.GEOSgcm.Concretize("12.0.0-rc1", map[string]string{"debug": "true", "fmsyaml": "true"}, gcc13, "mpich")
	require.NoError(t, err)
	got := names(packages.GEOSgcm.Requirements(s))

	assert.Contains(t, got, "esmf +debug")
	assert.NotContains(t, got, "esmf ~debug")
	assert.Contains(t, got, "fms@2024.03 precision=32,64 ~gfs_phys +openmp +pic constants=GEOS +deprecated_io +yaml build_type=Debug")
	assert.Contains(t, got, "jemalloc")
	assert.NotContains(t, got, "mapl@2.52:")
	assert.NotContains(t, got, "llvm-openmp")

	s, err = packages.GEOSgcm.Concretize("11.7.1", map[string]string{"external-mapl": "true"},
		recipe.Compiler{Name: "apple-clang", Version: "15.0.0"}, "openmpi")
	require.NoError(t, err)
	got = names(packages.GEOSgcm.Requirements(s))
	assert.Contains(t, got, "mapl@2.52:")
	assert.Contains(t, got, "llvm-openmp")
	assert.NotContains(t, got, "jemalloc")
	for _, d := range got {
		assert.NotContains(t, d, "fms@")
	}
}

func TestRequirementsFvdycoreFMS(t *testing.T) {
	s, err := packages.GEOSfvdycore.Concretize("3.0.0", nil, gcc13, "mpich")
	require.NoError(t, err)
	got := names(packages.GEOSfvdycore.Requirements(s))
	assert.Contains(t, got, "fms precision=32,64 +quad_precision ~gfs_phys +openmp +pic constants=GEOS build_type=Release +deprecated_io")

	s, err = packages.GEOSfvdycore.Concretize("2.19.1", map[string]string{"f2py": "true"}, gcc13, "mpich")
	require.NoError(t, err)
	got = names(packages.GEOSfvdycore.Requirements(s))
	assert.Contains(t, got, "python@3:3.11")
	for _, d := range got {
		assert.NotContains(t, d, "fms")
	}
}

func TestDepKindString(t *testing.T) {
	assert.Equal(t, "build,link", recipe.DepKind(0).String())
	assert.Equal(t, "build", recipe.BuildDep.String())
	assert.Equal(t, "build,run", (recipe.BuildDep | recipe.RunDep).String())
}
