package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kyaoi/paperview/internal/app"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [file]",
	Short: "List the navigable sections of the analysis",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		doc, err := app.LoadDocument(cfg, targetArg(args))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for i, entry := range doc.Nav {
			region := "yes"
			if _, ok := doc.Region(entry.ID); !ok {
				region = "no"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, entry.ID, entry.Label, region)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
