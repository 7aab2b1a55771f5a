package packages

import "github.com/geos-esm/geosrecipe/recipe"

var fmsWhen = []struct{ spec, when string }{
	{"@2024.03 precision=32,64 ~gfs_phys +openmp +pic constants=GEOS +deprecated_io +yaml build_type=Release", "@12: ~debug +fmsyaml"},
	{"@2024.03 precision=32,64 ~gfs_phys +openmp +pic constants=GEOS +deprecated_io ~yaml build_type=Release", "@12: ~debug ~fmsyaml"},
	{"@2024.03 precision=32,64 ~gfs_phys +openmp +pic constants=GEOS +deprecated_io +yaml build_type=Debug", "@12: +debug +fmsyaml"},
	{"@2024.03 precision=32,64 ~gfs_phys +openmp +pic constants=GEOS +deprecated_io ~yaml build_type=Debug", "@12: +debug ~fmsyaml"},
}

// GEOSgcm is the GEOS general circulation model fixture.
var GEOSgcm = &recipe.Recipe{
	Name:        "geosgcm",
	Description: "GEOS Earth System Model GEOSgcm Fixture",
	Homepage:    "https://github.com/GEOS-ESM/GEOSgcm",
	URL:         "https://github.com/GEOS-ESM/GEOSgcm/archive/refs/tags/v11.6.3.tar.gz",
	Git:         "https://github.com/GEOS-ESM/GEOSgcm.git",
	ListURL:     "https://github.com/GEOS-ESM/GEOSgcm/tags",
	Maintainers: []string{"mathomp4", "tclune"},

	Versions: []recipe.VersionEntry{
		{Label: "main", Branch: "main"},
		{Label: "12.0.0-rc.2", Tag: "v12.0.0-rc.2", Commit: "f28b993033d9583080193bf6d2161c896bb07617"},
		{Label: "12.0.0-rc1", Tag: "v12.0.0-rc1", Commit: "b41d7d5858a511acea0d62b335ebc5755d309fe5"},
		{Label: "11.7.1", Tag: "v11.7.1", Commit: "402d26c88408e1d5a75f371a440e5a182e4338e9", Preferred: true},
		{Label: "11.7.0", Tag: "v11.7.0", Commit: "a5c504d04f0b0fc15342a65131c67b5d98e33535"},
		{Label: "11.6.3", Tag: "v11.6.3", Commit: "1bf10d3fd30ad9ee90d3400bd214d88ed763b06f"},
		{Label: "11.6.2", Tag: "v11.6.2", Commit: "fdbab3d7f32fe17bef689a1cdc5be2da71f03e5e"},
		{Label: "11.6.1", Tag: "v11.6.1", Commit: "c3a0f1b3c7ea340ed0b532e49742f410da966ec4"},
		{Label: "11.6.0", Tag: "v11.6.0", Commit: "3feaeb6695134ed04ad29079af176d104fdd73bb"},
	},

	Variants: []recipe.Variant{
		boolVariant("debug", false, "Build with debugging"),
		boolVariant("f2py", false, "Build with f2py support"),
		boolVariant("develop", false, "Update GEOSgcm_GridComp GEOSgcm_App GMAO_Shared GEOS_Util subrepos to their develop branches (used internally for testing)"),
		buildTypes,
		withWhen(boolVariant("external-mapl", false, "Build with external MAPL"), "@11.7:"),
		boolVariant("aquaplanet", false, "Build with aquaplanet support (experimental)"),
		withWhen(boolVariant("jemalloc", false, "Use jemalloc for memory allocation"), "@:11"),
		withWhen(boolVariant("jemalloc", true, "Use jemalloc for memory allocation"), "@12:"),
		boolVariant("fmsyaml", false, "Build FMS with YAML support"),
	},

	Dependencies: gcmDependencies(),

	// only tested with gcc 13 and newer
	Conflicts: []recipe.Conflict{
		{Spec: recipe.When("%gcc@:12"), Msg: "GEOSgcm requires gcc 13 or newer"},
	},

	Clone: recipe.CloneHook{
		Partial:            "blobless",
		DevelopVariant:     "develop",
		DevelopRepos:       []string{"GEOSgcm_GridComp", "GEOSgcm_App", "GMAO_Shared", "GEOS_Util"},
		ExperimentalBranch: experimentalBranch,
		ExperimentalWhen:   recipe.When("@12:"),
	},

	Toggles: []recipe.Toggle{
		{Key: "USE_F2PY", Variant: "f2py"},
		{Key: "FMS_BUILT_WITH_YAML", Variant: "fmsyaml"},
		{Key: "AQUAPLANET", Variant: "aquaplanet"},
		// Added on top of the stock GEOSgcm options. external-mapl exists
		// only at @11.7:, so older versions get no USE_EXTERNAL_MAPL at all.
		{Key: "USE_EXTERNAL_MAPL", Variant: "external-mapl"},
	},
	FortranPolicy: recipe.FortranMarker,
	ModulePath:    recipe.ModulePath{Dependency: "esmf", Subdir: "cmake"},
	UnsetEnv:      []string{"BASEDIR"},
}

func withWhen(v recipe.Variant, when string) recipe.Variant {
	v.When = recipe.When(when)
	return v
}

func gcmDependencies() []recipe.Dependency {
	buildRun := recipe.BuildDep | recipe.RunDep
	deps := []recipe.Dependency{
		buildTool("fortran", ""),
		buildTool("c", ""),
		buildTool("cxx", ""),
		buildTool("cmake", "@3.24:"),
		dep("mpi", ""),
		dep("blas", ""),
		dep("lapack", ""),

		{Name: "python", Constraint: "@3:", Kind: buildRun},
		{Name: "py-pyyaml", Kind: buildRun},
		{Name: "py-numpy", Kind: buildRun},
		dep("py-ruamel-yaml", ""),
		{Name: "perl", Kind: buildRun},
		// remapping tool
		dep("py-questionary", ""),

		dep("hdf5", "+fortran +hl +threadsafe +mpi"),
		dep("netcdf-c", ""),
		dep("netcdf-fortran", ""),
		dep("esmf", "@8.6.1:"),
		depWhen("esmf", "~debug", "~debug"),
		depWhen("esmf", "+debug", "+debug"),

		dep("gftl", "@1.14.0:"),
		dep("gftl-shared", "@1.9.0:"),
		dep("pflogger", "@1.15.0: +mpi"),
		dep("fargparse", "@1.8.0:"),

		{Name: "llvm-openmp", When: recipe.When("%apple-clang"), Kind: buildRun},
		{Name: "udunits", Kind: buildRun},
		{Name: "tcsh", Kind: recipe.RunDep},

		// keep in step with the MAPL bundled in GEOSgcm and with esmf above
		depWhen("mapl", "@2.52:", "+external-mapl"),
		depWhen("mapl", "@2.52: +debug", "+external-mapl +debug"),
	}
	for _, f := range fmsWhen {
		deps = append(deps, depWhen("fms", f.spec, f.when))
	}
	return append(deps,
		buildTool("mepo", ""),
		depWhen("jemalloc", "", "+jemalloc"),
	)
}
