package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/wordalloc/mem/strategy"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "strategies",
		Short: "List placement strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := strategy.Names()
			if jsonOut {
				return printJSON(names)
			}
			for _, name := range names {
				printInfo("%s\n", name)
			}
			return nil
		},
	})
}
