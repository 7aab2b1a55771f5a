package internal

import (
	"fmt"

	"github.com/geos-esm/geosrecipe/internal/build"
	"github.com/geos-esm/geosrecipe/internal/mepo"
	"github.com/spf13/cobra"
)

var (
	argsState string
	argsRaw   bool
)

var argsCmd = &cobra.Command{
	Use:   "args <package>",
	Short: "Print the CMake definitions for a resolved state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := lookup(args[0])
		if err != nil {
			return err
		}
		s, err := resolveState(r, argsState)
		if err != nil {
			return err
		}
		b := build.NewBuilder(mepo.New(mepo.WithPath(mepoPath), mepo.WithLogger(logger)), logger)
		defs, err := b.Args(cmd.Context(), r, s)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, d := range defs {
			if argsRaw {
				fmt.Fprintln(out, d.String())
				continue
			}
			fmt.Fprintln(out, d.Arg())
		}
		return nil
	},
}

var depsState string

var depsCmd = &cobra.Command{
	Use:   "deps <package>",
	Short: "Print the dependencies that apply to a resolved state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := lookup(args[0])
		if err != nil {
			return err
		}
		s, err := resolveState(r, depsState)
		if err != nil {
			return err
		}
		for _, d := range r.Requirements(s) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", d, d.Kind)
		}
		return nil
	},
}

func init() {
	argsCmd.Flags().StringVarP(&argsState, "file", "f", "", "Resolved state file (YAML)")
	argsCmd.Flags().BoolVar(&argsRaw, "raw", false, "Print KEY=VALUE instead of -D arguments")
	depsCmd.Flags().StringVarP(&depsState, "file", "f", "", "Resolved state file (YAML)")
	rootCmd.AddCommand(argsCmd)
	rootCmd.AddCommand(depsCmd)
}
