package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/patternware/satchel/pkg/share"
)

var (
	shareCmd = &cobra.Command{
		Use:   "share",
		Short: "Print a share link for the current bag",
		Args:  cobra.MaximumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := engine()
			if err != nil {
				return err
			}

			u, err := share.BuildURL(cfg.BaseURL, store.Items())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), u.String())
			return nil
		},
	}

	importCmd = &cobra.Command{
		Use:   "import <share-url>",
		Short: "Import a shared bag link into this bag",
		Long: `Import fetches the patterns referenced by a share link and merges them
into the bag. mode=replace overwrites the bag with the shared collection;
any other mode appends, skipping patterns already collected. On a fetch
failure the bag is left untouched so the import can simply be re-run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := engine()
			if err != nil {
				return err
			}

			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("unable to parse share url: %w", err)
			}

			client, err := fetcher(cfg)
			if err != nil {
				return err
			}

			importer := share.NewImporter(store, client)
			if _, err := importer.Run(cmd.Context(), u); err != nil {
				return err
			}

			if importer.State() == share.StateIdle {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to import")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "bag now holds %d patterns\n", store.Len())
			return nil
		},
	}
)

func init() {
	root.AddCommand(shareCmd)
	root.AddCommand(importCmd)
}
