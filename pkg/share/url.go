// Package share turns the carrier bag into a URL and back: building share
// links from the current collection and importing collections referenced by
// an incoming link.
package share

import (
	"fmt"
	"net/url"
	"strings"

	v1 "github.com/patternware/satchel/pkg/types/v1"
)

const (
	ParamSlugs = "slugs"
	ParamMode  = "mode"

	ModeReplace = "replace"
	ModeAppend  = "append"
)

// BuildURL builds the shareable URL for the given collection on the bag's
// canonical route. Patterns without a resolvable slug are excluded. The
// mode is always replace: opening a share link hands the recipient the
// sender's bag, not a merge.
func BuildURL(base string, items []v1.CollectedItem) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("unable to parse bag route %q: %w", base, err)
	}

	var slugs []string
	for _, it := range items {
		if it.Pattern.Slug == "" {
			continue
		}
		slugs = append(slugs, it.Pattern.Slug)
	}

	q := u.Query()
	if len(slugs) > 0 {
		q.Set(ParamSlugs, strings.Join(slugs, ","))
	}
	q.Set(ParamMode, ModeReplace)
	u.RawQuery = q.Encode()

	return u, nil
}

// Request is a parsed import request from a share link.
type Request struct {
	Slugs []string
	Mode  string
}

// Replace reports whether the import should clear the bag first. Any mode
// other than "replace", including absence, is treated as append-like.
func (r Request) Replace() bool { return r.Mode == ModeReplace }

// ParseRequest reads a share link's query parameters. ok is false when no
// import was requested: slugs absent, or empty after trimming and splitting
// on commas.
func ParseRequest(u *url.URL) (Request, bool) {
	q := u.Query()

	var slugs []string
	for _, chunk := range strings.Split(q.Get(ParamSlugs), ",") {
		s := strings.TrimSpace(chunk)
		if s == "" {
			continue
		}
		slugs = append(slugs, s)
	}
	if len(slugs) == 0 {
		return Request{}, false
	}

	return Request{Slugs: slugs, Mode: q.Get(ParamMode)}, true
}

// CleanURL strips only the consumed share parameters and leaves every other
// query parameter (onboarding state and friends) intact.
func CleanURL(u *url.URL) *url.URL {
	clean := *u
	q := clean.Query()
	q.Del(ParamSlugs)
	q.Del(ParamMode)
	clean.RawQuery = q.Encode()
	return &clean
}
