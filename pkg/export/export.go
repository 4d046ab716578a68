// Package export serializes the carrier bag for download. This is a
// one-way, read-only surface; there are no round-trip or import semantics.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

type Document struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Count       int       `json:"count"`
	Patterns    []Pattern `json:"patterns"`
}

type Pattern struct {
	ID        types.ID  `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	DateAdded time.Time `json:"dateAdded"`
}

func Snapshot(items []v1.CollectedItem, now time.Time) Document {
	doc := Document{
		GeneratedAt: now,
		Count:       len(items),
		Patterns:    make([]Pattern, len(items)),
	}
	for i, it := range items {
		doc.Patterns[i] = Pattern{
			ID:        it.Pattern.ID,
			Title:     it.Pattern.Title,
			Slug:      it.Pattern.Slug,
			Notes:     it.Notes,
			DateAdded: it.DateAdded,
		}
	}
	return doc
}

func Write(w io.Writer, items []v1.CollectedItem, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Snapshot(items, now))
}
