package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/patternware/satchel/pkg/text"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

// renderDetail renders one collected pattern as a markdown card for the
// detail pager.
func (m *Application) renderDetail(item v1.CollectedItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", item.Pattern.Title)

	if theme := item.Pattern.ThemeTitle(); theme != "" {
		fmt.Fprintf(&b, "%s **Theme:** %s\n\n", text.EmojiTheme, theme)
	}
	if len(item.Pattern.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n\n", joinTitles(item.Pattern.Tags))
	}
	if len(item.Pattern.Audiences) > 0 {
		fmt.Fprintf(&b, "**Audiences:** %s\n\n", joinTitles(item.Pattern.Audiences))
	}

	fmt.Fprintf(&b, "Added %s.\n\n", text.RelativeTime(item.DateAdded))

	if item.Pattern.Linkable() {
		fmt.Fprintf(&b, "`%s`\n\n", item.Pattern.Slug)
	} else {
		fmt.Fprintf(&b, "_This pattern has no published page yet._\n\n")
	}

	if item.Notes != "" {
		fmt.Fprintf(&b, "## Notes\n\n%s\n", item.Notes)
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return b.String()
	}

	out, err := r.Render(b.String())
	if err != nil {
		return b.String()
	}
	return out
}

func joinTitles(refs []v1.TaxonomyRef) string {
	titles := make([]string, len(refs))
	for i, r := range refs {
		titles[i] = r.Title
	}
	return strings.Join(titles, ", ")
}
