package packages

import "github.com/geos-esm/geosrecipe/recipe"

// GEOSfvdycore is the GEOS FV dynamical core fixture.
var GEOSfvdycore = &recipe.Recipe{
	Name:        "geosfvdycore",
	Description: "GEOS Earth System Model GEOSfvdycore Fixture",
	Homepage:    "https://github.com/GEOS-ESM/GEOSfvdycore",
	URL:         "https://github.com/GEOS-ESM/GEOSfvdycore/archive/refs/tags/v2.16.0.tar.gz",
	Git:         "https://github.com/GEOS-ESM/GEOSfvdycore.git",
	ListURL:     "https://github.com/GEOS-ESM/GEOSfvdycore/tags",
	Maintainers: []string{"mathomp4", "tclune"},

	// Tags are pinned with their commits until mepo can fetch by checksum
	// (GEOS-ESM/mepo#311).
	Versions: []recipe.VersionEntry{
		{Label: "main", Branch: "main"},
		{Label: "3.0.0", Branch: "feature/sdrabenh/gcm_v12"},
		{Label: "2.19.1", Tag: "v2.19.1", Commit: "67e6b3915c3e0ebab20e9df29a354db8cc5e987b", Preferred: true},
		{Label: "2.19.0", Tag: "v2.19.0", Commit: "89ea359c91bae105d7a4a3ac2ca83421b15b5c80"},
		{Label: "2.18.0", Tag: "v2.18.0", Commit: "f86f61656a76fd02a24814167f29e7a20acf63df"},
	},

	Variants: []recipe.Variant{
		boolVariant("debug", false, "Build with debugging"),
		boolVariant("f2py", false, "Build with f2py support"),
		boolVariant("develop", false, "Update GMAO_Shared GEOS_Util subrepos to their develop branches (used internally for testing)"),
		buildTypes,
	},

	Dependencies: []recipe.Dependency{
		buildTool("cmake", "@3.24:"),
		buildTool("ecbuild", ""),
		dep("mpi", ""),
		dep("blas", ""),
		dep("lapack", ""),

		// MAPL code generators
		dep("python", "@3:"),
		dep("py-pyyaml", ""),
		dep("py-numpy", ""),
		dep("perl", ""),

		// f2py is broken on meson-based python 3.12
		depWhen("python", "@3:3.11", "+f2py"),

		dep("hdf5", ""),
		dep("netcdf-c", ""),
		dep("netcdf-fortran", ""),
		dep("esmf", "@8.6.1:"),
		depWhen("esmf", "~debug", "~debug"),
		depWhen("esmf", "+debug", "+debug"),

		dep("gftl", "@1.14.0:"),
		dep("gftl-shared", "@1.9.0:"),
		dep("pflogger", "@1.15.0:"),
		dep("fargparse", "@1.8.0:"),

		{Name: "llvm-openmp", When: recipe.When("%apple-clang"), Kind: recipe.BuildDep | recipe.RunDep},
		dep("udunits", ""),

		depWhen("fms", "precision=32,64 +quad_precision ~gfs_phys +openmp +pic constants=GEOS build_type=Release +deprecated_io", "@3: ~debug"),
		depWhen("fms", "precision=32,64 +quad_precision ~gfs_phys +openmp +pic constants=GEOS build_type=Debug +deprecated_io", "@3: +debug"),

		buildTool("mepo", ""),
	},

	Clone: recipe.CloneHook{
		Partial:            "blobless",
		DevelopVariant:     "develop",
		DevelopRepos:       []string{"GMAO_Shared", "GEOS_Util"},
		ExperimentalBranch: experimentalBranch,
		ExperimentalWhen:   recipe.When("@12:"),
	},

	Toggles: []recipe.Toggle{
		{Key: "USE_F2PY", Variant: "f2py"},
	},
	FortranPolicy: recipe.FortranVersionGated,
	ModulePath:    recipe.ModulePath{Dependency: "esmf", Subdir: "cmake"},

	// esma_cmake falls back to $BASEDIR when -DBASEDIR is absent, and a
	// stray BASEDIR breaks the MAPL build.
	UnsetEnv: []string{"BASEDIR"},
}
