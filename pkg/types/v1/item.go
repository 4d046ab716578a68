package v1

import (
	"time"

	"github.com/go-playground/validator"
)

// CollectedItem is one entry of the carrier bag: the collected pattern plus
// the collection-local fields layered on top of it.
type CollectedItem struct {
	Pattern PatternSummary `json:"pattern" yaml:"pattern" validate:"required"`

	// DateAdded is assigned once at first insertion and never mutated.
	DateAdded time.Time `json:"dateAdded" yaml:"dateAdded" validate:"required"`

	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (c *CollectedItem) Validate() error {
	validate := validator.New()
	err := validate.Struct(*c)
	return err
}

type ByDateAdded []CollectedItem

func (p ByDateAdded) Len() int           { return len(p) }
func (p ByDateAdded) Less(i, j int) bool { return p[i].DateAdded.Before(p[j].DateAdded) }
func (p ByDateAdded) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
