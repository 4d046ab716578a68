package share

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/patternware/satchel/pkg/bag"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

// Fetcher is the content-fetch collaborator: given slugs, it returns fully
// resolved pattern summaries. Response order is not guaranteed to match the
// request order.
type Fetcher interface {
	FetchBySlugs(ctx context.Context, slugs []string) ([]v1.PatternSummary, error)
}

type State int

const (
	StateIdle State = iota
	StateFetching
	StateApplied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateApplied:
		return "applied"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Importer applies incoming share links to a bag store. Runs are
// single-flight and idempotent per query string: a second Run with a query
// string that already applied is a no-op, so re-mounting the same URL never
// double-imports.
type Importer struct {
	mu sync.Mutex

	store   *bag.Store
	fetcher Fetcher

	state     State
	err       error
	inflight  bool
	processed map[string]bool
}

func NewImporter(store *bag.Store, fetcher Fetcher) *Importer {
	return &Importer{
		store:     store,
		fetcher:   fetcher,
		processed: map[string]bool{},
	}
}

func (im *Importer) State() State {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.state
}

// Err returns the failure of the most recent run, if any. The error is
// retained rather than surfaced mid-run so a caller can toast it.
func (im *Importer) Err() error {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.err
}

// Reset clears the terminal state so a later run may re-process a query
// string, e.g. after the user asked for a retry.
func (im *Importer) Reset() {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.state = StateIdle
	im.err = nil
	im.processed = map[string]bool{}
}

// Run reads the share parameters from u, fetches the referenced patterns
// and merges them into the bag. It returns the URL the caller should
// rewrite to: on success the cleaned URL (history replace, no back entry),
// on failure or no-op the input URL unchanged so a reload can retry.
//
// Failure policy: the bag is never cleared and the URL is never cleaned
// unless the fetch succeeded and was applied.
func (im *Importer) Run(ctx context.Context, u *url.URL) (*url.URL, error) {
	req, ok := ParseRequest(u)
	if !ok {
		return u, nil
	}

	im.mu.Lock()
	if im.inflight || im.processed[u.RawQuery] {
		im.mu.Unlock()
		return u, nil
	}
	im.inflight = true
	im.state = StateFetching
	im.err = nil
	im.mu.Unlock()

	fetched, err := im.fetcher.FetchBySlugs(ctx, req.Slugs)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		im.mu.Lock()
		im.inflight = false
		im.state = StateFailed
		im.err = fmt.Errorf("unable to import shared bag: %w", err)
		failure := im.err
		im.mu.Unlock()
		return u, failure
	}

	// Re-order client-side to match the requested slug order; the
	// collaborator's response order is not part of its contract.
	bySlug := make(map[string]v1.PatternSummary, len(fetched))
	for _, p := range fetched {
		bySlug[p.Slug] = p
	}

	if req.Replace() {
		im.store.Clear()
	}
	for _, slug := range req.Slugs {
		p, found := bySlug[slug]
		if !found {
			continue
		}
		im.store.Add(p, "")
	}

	im.mu.Lock()
	im.inflight = false
	im.state = StateApplied
	im.processed[u.RawQuery] = true
	im.mu.Unlock()

	return CleanURL(u), nil
}
