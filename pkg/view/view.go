// Package view derives the render-ready projection of the carrier bag:
// filtered, sorted and optionally grouped, or in manual order when the user
// has reordered the bag by hand. Everything here is a pure function of
// (items, filter state); the store is never mutated.
package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

// OtherThemeLabel buckets grouped items whose theme is absent or whose
// theme reference never resolved to a title.
const OtherThemeLabel = "Other"

type SortOrder string

const (
	SortAZ SortOrder = "az"
	SortZA SortOrder = "za"
)

// Row is one projected item. Items without a slug stay in the projection
// but render without a navigable link.
type Row struct {
	Item v1.CollectedItem
}

func (r Row) Linkable() bool { return r.Item.Pattern.Linkable() }

// Group is one theme bucket of a grouped projection.
type Group struct {
	Label string
	Rows  []Row
}

// Projection is the derived view of the bag. Either Rows (flat) or Groups
// (grouped) is populated, never both.
type Projection struct {
	Rows    []Row
	Groups  []Group
	Grouped bool

	// Manual reports that the projection is the bag's own order and filter,
	// sort and grouping were bypassed.
	Manual bool
}

// Flatten returns the projection's rows in display order regardless of
// grouping.
func (p Projection) Flatten() []Row {
	if !p.Grouped {
		return p.Rows
	}
	var rows []Row
	for _, g := range p.Groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}

// Pipeline projects bag items using a locale-aware collator for every
// ordering decision.
type Pipeline struct {
	coll *collate.Collator
}

func New(locale string) *Pipeline {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Pipeline{coll: collate.New(tag)}
}

// Apply derives the projection. Manual order takes total precedence: the
// bag's current order is returned unfiltered and ungrouped until manual
// order is reset.
func (p *Pipeline) Apply(items []v1.CollectedItem, state FilterState) Projection {
	if state.ManualOrder {
		rows := make([]Row, len(items))
		for i, it := range items {
			rows[i] = Row{Item: it}
		}
		return Projection{Rows: rows, Manual: true}
	}

	var rows []Row
	for _, it := range items {
		if !matches(&it.Pattern, state) {
			continue
		}
		rows = append(rows, Row{Item: it})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		c := p.coll.CompareString(rows[i].Item.Pattern.Title, rows[j].Item.Pattern.Title)
		if state.Sort == SortZA {
			return c > 0
		}
		return c < 0
	})

	if !state.GroupByTheme {
		return Projection{Rows: rows}
	}

	return Projection{Groups: p.group(rows), Grouped: true}
}

// matches implements OR within a filter dimension and AND across
// dimensions: an empty dimension passes everything.
func matches(pat *v1.PatternSummary, state FilterState) bool {
	if len(state.TagIDs) > 0 && !hasAny(state.TagIDs, pat.HasTag) {
		return false
	}
	if len(state.AudienceIDs) > 0 && !hasAny(state.AudienceIDs, pat.HasAudience) {
		return false
	}
	return true
}

func hasAny(ids map[types.ID]bool, has func(types.ID) bool) bool {
	for id := range ids {
		if has(id) {
			return true
		}
	}
	return false
}

// group buckets already-sorted rows by theme title, preserving the sorted
// order within each bucket, with bucket labels ordered alphabetically.
func (p *Pipeline) group(rows []Row) []Group {
	buckets := map[string][]Row{}
	for _, r := range rows {
		label := r.Item.Pattern.ThemeTitle()
		if label == "" {
			label = OtherThemeLabel
		}
		buckets[label] = append(buckets[label], r)
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return p.coll.CompareString(labels[i], labels[j]) < 0
	})

	groups := make([]Group, len(labels))
	for i, label := range labels {
		groups[i] = Group{Label: label, Rows: buckets[label]}
	}
	return groups
}
