package internal

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/geos-esm/geosrecipe/packages"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, r := range packages.All() {
			preferred := "-"
			if v, ok := r.Preferred(); ok {
				preferred = v.Label
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, preferred, r.Description)
		}
		return w.Flush()
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show versions, variants and dependencies of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := lookup(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s\n", r.Name, r.Description)
		fmt.Fprintf(out, "Homepage: %s\n", r.Homepage)
		fmt.Fprintf(out, "Git: %s\n", r.Git)
		fmt.Fprintf(out, "Maintainers: %s\n", strings.Join(r.Maintainers, ", "))

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\nVersions:")
		for _, v := range r.Versions {
			mark := ""
			if v.Preferred {
				mark = "[preferred]"
			}
			loc := "branch=" + v.Ref()
			if v.Branch == "" {
				loc = "tag=" + v.Tag + " commit=" + v.Ref()
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", v.Label, loc, mark)
		}

		fmt.Fprintln(w, "\nVariants:")
		for _, v := range r.Variants {
			values := "on, off"
			if len(v.Values) > 0 {
				values = strings.Join(v.Values, ", ")
			}
			when := ""
			if !v.When.IsZero() {
				when = "when " + v.When.String()
			}
			fmt.Fprintf(w, "  %s [%s]\t%s\t%s\t%s\n", v.Name, v.Default, values, when, v.Description)
		}

		fmt.Fprintln(w, "\nDependencies:")
		for _, d := range r.Dependencies {
			when := ""
			if !d.When.IsZero() {
				when = "when " + d.When.String()
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", d, d.Kind, when)
		}

		if len(r.Conflicts) > 0 {
			fmt.Fprintln(w, "\nConflicts:")
			for _, c := range r.Conflicts {
				fmt.Fprintf(w, "  %s\t%s\n", c.Spec, c.Msg)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
}
