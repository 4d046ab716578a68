package v1

import (
	"github.com/go-playground/validator"

	"github.com/patternware/satchel/pkg/types"
)

// TaxonomyRef is a tag, audience or theme reference that has been resolved
// to a title by the content backend. The collection never stores bare
// references; resolution happens entirely at the fetch boundary.
type TaxonomyRef struct {
	ID    types.ID `json:"id" yaml:"id" validate:"required"`
	Title string   `json:"title" yaml:"title"`
}

// PatternSummary is the minimal projection of a pattern document that the
// carrier bag stores. Fields beyond id/title/slug are pass-through payload
// owned by the content backend.
type PatternSummary struct {
	ID        types.ID      `json:"id" yaml:"id" validate:"required"`
	Title     string        `json:"title" yaml:"title" validate:"required"`
	Slug      string        `json:"slug,omitempty" yaml:"slug,omitempty"`
	Tags      []TaxonomyRef `json:"tags,omitempty" yaml:"tags,omitempty,flow"`
	Audiences []TaxonomyRef `json:"audiences,omitempty" yaml:"audiences,omitempty,flow"`
	Theme     *TaxonomyRef  `json:"theme,omitempty" yaml:"theme,omitempty"`
}

func (p *PatternSummary) Validate() error {
	validate := validator.New()
	err := validate.Struct(*p)
	return err
}

// Linkable reports whether the pattern resolves to a navigable route. A
// pattern without a slug still participates in the collection normally.
func (p *PatternSummary) Linkable() bool { return p.Slug != "" }

func (p *PatternSummary) HasTag(id types.ID) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (p *PatternSummary) HasAudience(id types.ID) bool {
	for _, a := range p.Audiences {
		if a.ID == id {
			return true
		}
	}
	return false
}

// ThemeTitle returns the resolved theme title, or "" when the theme is
// absent or its reference never resolved.
func (p *PatternSummary) ThemeTitle() string {
	if p.Theme == nil {
		return ""
	}
	return p.Theme.Title
}
