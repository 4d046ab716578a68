package app

import (
	"strings"

	"github.com/patternware/satchel/pkg/text"
	"github.com/patternware/satchel/pkg/view"
)

// bagItem adapts a projected row to the bubbles list. Group carries the
// theme bucket label when the projection is grouped.
type bagItem struct {
	row   view.Row
	group string
}

func (b bagItem) Title() string {
	title := b.row.Item.Pattern.Title
	if !b.row.Linkable() {
		title = title + " " + text.EmojiNoLink
	}
	if b.group != "" {
		title = b.group + " · " + title
	}
	return title
}

func (b bagItem) Description() string {
	parts := []string{"added " + text.RelativeTime(b.row.Item.DateAdded)}

	if len(b.row.Item.Pattern.Tags) > 0 {
		titles := make([]string, len(b.row.Item.Pattern.Tags))
		for i, t := range b.row.Item.Pattern.Tags {
			titles[i] = t.Title
		}
		parts = append(parts, text.ColoredTags(titles, " "))
	}

	if b.row.Item.Notes != "" {
		parts = append(parts, text.EmojiNote+" "+text.TruncateWithTail(b.row.Item.Notes, 64, text.Ellipsis))
	}

	return strings.Join(parts, "  ")
}

// FilterValue feeds the list's fuzzy filter: normalized title plus tag and
// theme titles so "/commons" finds tagged patterns too.
func (b bagItem) FilterValue() string {
	chunks := []string{b.row.Item.Pattern.Title}
	for _, t := range b.row.Item.Pattern.Tags {
		chunks = append(chunks, t.Title)
	}
	if theme := b.row.Item.Pattern.ThemeTitle(); theme != "" {
		chunks = append(chunks, theme)
	}
	normalized, err := text.Normalize(strings.Join(chunks, " "))
	if err != nil {
		return strings.Join(chunks, " ")
	}
	return normalized
}
