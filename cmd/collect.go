package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

var (
	addFlags = struct {
		Notes string
	}{}

	addCmd = &cobra.Command{
		Use:   "add <slug>",
		Short: "Fetch a pattern by slug and put it in the bag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := engine()
			if err != nil {
				return err
			}

			client, err := fetcher(cfg)
			if err != nil {
				return err
			}

			slug := strings.TrimSpace(args[0])
			patterns, err := client.FetchBySlugs(cmd.Context(), []string{slug})
			if err != nil {
				return err
			}
			if len(patterns) == 0 {
				return fmt.Errorf("no pattern found for slug %q", slug)
			}

			if store.Has(patterns[0].ID) {
				fmt.Fprintf(cmd.OutOrStdout(), "already in the bag: %s\n", patterns[0].Title)
				return nil
			}

			store.Add(patterns[0], addFlags.Notes)
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", patterns[0].Title)
			return nil
		},
	}

	rmCmd = &cobra.Command{
		Use:   "rm <id>",
		Short: "Take a pattern out of the bag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := engine()
			if err != nil {
				return err
			}

			id := resolveID(store.Items(), args[0])
			store.Remove(id)
			return nil
		},
	}

	noteCmd = &cobra.Command{
		Use:   "note <id> <notes...>",
		Short: "Set the memo on a collected pattern",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := engine()
			if err != nil {
				return err
			}

			id := resolveID(store.Items(), args[0])
			store.UpdateNotes(id, strings.Join(args[1:], " "))
			return nil
		},
	}

	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Empty the bag",
		Args:  cobra.MaximumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := engine()
			if err != nil {
				return err
			}

			store.Clear()
			return nil
		},
	}
)

func init() {
	addCmd.Flags().StringVarP(&addFlags.Notes, "notes", "n", "", "memo to attach to the pattern")

	root.AddCommand(addCmd)
	root.AddCommand(rmCmd)
	root.AddCommand(noteCmd)
	root.AddCommand(clearCmd)
}

// resolveID accepts either a pattern id or a slug, so shell users can use
// whichever they have at hand.
func resolveID(items []v1.CollectedItem, arg string) types.ID {
	for _, it := range items {
		if it.Pattern.Slug == arg {
			return it.Pattern.ID
		}
	}
	return types.ID(arg)
}
