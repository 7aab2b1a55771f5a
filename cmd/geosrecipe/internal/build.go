package internal

import (
	"fmt"

	"github.com/geos-esm/geosrecipe/internal/build"
	"github.com/geos-esm/geosrecipe/internal/buildenv"
	"github.com/geos-esm/geosrecipe/internal/mepo"
	"github.com/spf13/cobra"
)

var (
	buildState     string
	buildSource    string
	buildDir       string
	buildPrefix    string
	buildCMake     string
	buildGenerator string
	buildConfigure bool
)

var buildCmd = &cobra.Command{
	Use:   "build <package>",
	Short: "Clone, configure and build a package",
	Long: `Build runs mepo in the staged source tree, translates the resolved
state into CMake definitions and runs cmake configure, build and install.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildState, "file", "f", "", "Resolved state file (YAML)")
	buildCmd.Flags().StringVarP(&buildSource, "source", "s", "", "Staged source directory")
	buildCmd.Flags().StringVarP(&buildDir, "build-dir", "b", "", "Build directory (default in the user cache directory)")
	buildCmd.Flags().StringVarP(&buildPrefix, "prefix", "p", "", "Install prefix")
	buildCmd.Flags().StringVar(&buildCMake, "cmake", "", "Path to the cmake executable")
	buildCmd.Flags().StringVarP(&buildGenerator, "generator", "G", "", "CMake generator")
	buildCmd.Flags().BoolVar(&buildConfigure, "configure-only", false, "Stop after cmake configure")
	_ = buildCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	r, err := lookup(args[0])
	if err != nil {
		return err
	}
	s, err := resolveState(r, buildState)
	if err != nil {
		return err
	}

	dir := buildDir
	if dir == "" {
		if dir, err = buildenv.BuildDir(r.Name, s.Version); err != nil {
			return err
		}
	}

	b := build.NewBuilder(mepo.New(mepo.WithPath(mepoPath), mepo.WithLogger(logger)), logger)
	res, err := b.Run(cmd.Context(), r, s, build.Options{
		SourceDir:     buildSource,
		BuildDir:      dir,
		InstallDir:    buildPrefix,
		CMake:         buildCMake,
		Generator:     buildGenerator,
		ConfigureOnly: buildConfigure,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s@%s: %s\n", r.Name, s.Version, res.OutputDir)
	return nil
}
