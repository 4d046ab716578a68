package cmd

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	te "github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/patternware/satchel/pkg/text"
	"github.com/patternware/satchel/pkg/types"
	"github.com/patternware/satchel/pkg/view"
)

var (
	lsFlags = struct {
		Tags      []string
		Audiences []string
		Sort      string
		Group     bool
		Manual    bool
		Filter    string
	}{}

	lsCmd = &cobra.Command{
		Use:   "ls",
		Short: "List the bag through the same filter/sort/group pipeline the browser uses",
		Args:  cobra.MaximumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := engine()
			if err != nil {
				return err
			}

			state := view.DefaultFilterState()
			for _, t := range lsFlags.Tags {
				state.ToggleTag(types.ID(t))
			}
			for _, a := range lsFlags.Audiences {
				state.ToggleAudience(types.ID(a))
			}
			switch lsFlags.Sort {
			case "az":
				state.Sort = view.SortAZ
			case "za":
				state.Sort = view.SortZA
			default:
				return fmt.Errorf("unknown sort order %q (want az or za)", lsFlags.Sort)
			}
			state.GroupByTheme = lsFlags.Group
			if lsFlags.Manual {
				state.BeginManualOrder()
			}

			pipeline := view.New(cfg.Locale)
			projection := pipeline.Apply(store.Items(), state)

			out := cmd.OutOrStdout()
			if projection.Grouped {
				for _, g := range projection.Groups {
					fmt.Fprintf(out, "%s\n", g.Label)
					for _, r := range g.Rows {
						if !matchesFilter(r, lsFlags.Filter) {
							continue
						}
						printRow(out, r, "  ", lsFlags.Filter)
					}
				}
				return nil
			}

			for _, r := range projection.Rows {
				if !matchesFilter(r, lsFlags.Filter) {
					continue
				}
				printRow(out, r, "", lsFlags.Filter)
			}
			return nil
		},
	}
)

func init() {
	lsCmd.Flags().StringSliceVarP(&lsFlags.Tags, "tag", "t", nil, "filter by tag id (repeatable, OR semantics)")
	lsCmd.Flags().StringSliceVarP(&lsFlags.Audiences, "audience", "a", nil, "filter by audience id (repeatable, OR semantics)")
	lsCmd.Flags().StringVarP(&lsFlags.Sort, "sort", "s", "az", "title sort order: az or za")
	lsCmd.Flags().BoolVarP(&lsFlags.Group, "group", "g", false, "group by theme")
	lsCmd.Flags().BoolVarP(&lsFlags.Manual, "manual", "m", false, "show the bag's manual order, ignoring filters")
	lsCmd.Flags().StringVarP(&lsFlags.Filter, "filter", "f", "", "fuzzy-match titles, like the browser's search box")

	root.AddCommand(lsCmd)
}

// matchesFilter fuzzy-matches the needle against the normalized title, the
// same matching the interactive list uses.
func matchesFilter(r view.Row, needle string) bool {
	if needle == "" {
		return true
	}
	normalized, err := text.Normalize(r.Item.Pattern.Title)
	if err != nil {
		normalized = r.Item.Pattern.Title
	}
	return len(fuzzy.Find(needle, []string{normalized})) > 0
}

func printRow(out io.Writer, r view.Row, indent, needle string) {
	title := runewidth.FillRight(runewidth.Truncate(r.Item.Pattern.Title, 48, "…"), 48)
	if needle != "" {
		// Styled output carries ANSI sequences, so skip column padding.
		title = text.StyleFilteredText(r.Item.Pattern.Title, needle, te.Style{}, te.Style{}.Underline())
	}
	slug := r.Item.Pattern.Slug
	if slug == "" {
		slug = "(no page)"
	}
	fmt.Fprintf(out, "%s%s  %s  %s\n", indent, r.Item.Pattern.ID, title, slug)
}
