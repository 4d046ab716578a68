package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patternware/satchel/pkg/export"
)

var (
	exportFlags = struct {
		Output string
	}{}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the bag as JSON",
		Args:  cobra.MaximumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := engine()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exportFlags.Output != "" {
				f, err := os.Create(exportFlags.Output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			return export.Write(out, store.Items(), time.Now())
		},
	}
)

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.Output, "output", "o", "", "write to file instead of stdout")

	root.AddCommand(exportCmd)
}
