// Package packages holds the GEOS recipes.
package packages

import (
	"slices"

	"github.com/geos-esm/geosrecipe/recipe"
)

var all = []*recipe.Recipe{
	GEOSfvdycore,
	GEOSgcm,
}

// All returns every recipe, sorted by name.
func All() []*recipe.Recipe {
	out := slices.Clone(all)
	slices.SortFunc(out, func(a, b *recipe.Recipe) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// Lookup returns the recipe called name.
func Lookup(name string) (*recipe.Recipe, bool) {
	for _, r := range all {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// buildTool declares a build-only dependency.
func buildTool(name, constraint string) recipe.Dependency {
	return recipe.Dependency{Name: name, Constraint: constraint, Kind: recipe.BuildDep}
}

func dep(name, constraint string) recipe.Dependency {
	return recipe.Dependency{Name: name, Constraint: constraint}
}

func depWhen(name, constraint, when string) recipe.Dependency {
	return recipe.Dependency{Name: name, Constraint: constraint, When: recipe.When(when)}
}

func boolVariant(name string, def bool, desc string) recipe.Variant {
	v := recipe.Variant{Name: name, Kind: recipe.Bool, Default: "false", Description: desc}
	if def {
		v.Default = "true"
	}
	return v
}

var buildTypes = recipe.Variant{
	Name:        "build_type",
	Kind:        recipe.Enum,
	Default:     "Release",
	Values:      []string{"Debug", "Release", "Aggressive"},
	Description: "The build type to build",
}

const experimentalBranch = "feature/sdrabenh/gcm_v12"
