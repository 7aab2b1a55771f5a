package internal

import (
	"fmt"
	"log"
	"os"

	"github.com/geos-esm/geosrecipe/internal/config"
	"github.com/geos-esm/geosrecipe/packages"
	"github.com/geos-esm/geosrecipe/recipe"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	mepoPath string

	logger hclog.Logger = hclog.NewNullLogger()
)

var rootCmd = &cobra.Command{
	Use:   "geosrecipe",
	Short: "geosrecipe builds GEOS model components",
	Long: `geosrecipe carries the build recipes for the GEOS Earth System Model
components and runs their mepo clone, CMake configure and build steps.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "geosrecipe",
			Level:  hclog.LevelFromString(logLevel),
			Output: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (TRACE, DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&mepoPath, "mepo", "mepo", "Path to the mepo executable")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.SetFlags(0)
		log.Print(err)
		os.Exit(1)
	}
}

func lookup(name string) (*recipe.Recipe, error) {
	r, ok := packages.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown package %q", name)
	}
	return r, nil
}

// resolveState loads the state file at path for r. An empty path yields the
// preferred version with default variants.
func resolveState(r *recipe.Recipe, path string) (*recipe.State, error) {
	f := &config.StateFile{}
	if path != "" {
		var err error
		if f, err = config.LoadState(path); err != nil {
			return nil, err
		}
	}
	return f.Resolve(r)
}
