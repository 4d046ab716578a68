package cms

import (
	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

// wirePattern is the content API's representation of a pattern. Taxonomy
// entries may arrive as bare references (id only) when the API could not
// dereference them; resolve keeps them with an empty title so downstream
// code can bucket them under "Other" rather than branch on shape.
type wirePattern struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Tags      []wireRef `json:"tags"`
	Audiences []wireRef `json:"audiences"`
	Theme     *wireRef  `json:"theme"`
}

type wireRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (w wirePattern) resolve() v1.PatternSummary {
	p := v1.PatternSummary{
		ID:    types.ID(w.ID),
		Title: w.Title,
		Slug:  w.Slug,
	}
	for _, t := range w.Tags {
		p.Tags = append(p.Tags, v1.TaxonomyRef{ID: types.ID(t.ID), Title: t.Title})
	}
	for _, a := range w.Audiences {
		p.Audiences = append(p.Audiences, v1.TaxonomyRef{ID: types.ID(a.ID), Title: a.Title})
	}
	if w.Theme != nil {
		p.Theme = &v1.TaxonomyRef{ID: types.ID(w.Theme.ID), Title: w.Theme.Title}
	}
	return p
}
