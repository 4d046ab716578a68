package share

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternware/satchel/pkg/bag"
	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

// fakeFetcher serves patterns keyed by slug, in map iteration order, which
// exercises the importer's client-side re-ordering.
type fakeFetcher struct {
	patterns map[string]v1.PatternSummary
	err      error
	calls    int
}

func (f *fakeFetcher) FetchBySlugs(_ context.Context, slugs []string) ([]v1.PatternSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []v1.PatternSummary
	for _, p := range f.patterns {
		out = append(out, p)
	}
	return out, nil
}

func serving(slugs ...string) *fakeFetcher {
	f := &fakeFetcher{patterns: map[string]v1.PatternSummary{}}
	for _, s := range slugs {
		f.patterns[s] = v1.PatternSummary{
			ID:    types.ID("id-" + s),
			Title: "Pattern " + s,
			Slug:  s,
		}
	}
	return f
}

func shareURL(t *testing.T, query string) *url.URL {
	t.Helper()
	u, err := url.Parse("https://patterns.example.org/carrier-bag?" + query)
	require.NoError(t, err)
	return u
}

func bagSlugs(s *bag.Store) []string {
	var out []string
	for _, it := range s.Items() {
		out = append(out, it.Pattern.Slug)
	}
	return out
}

func TestShareURLRoundTripsThroughImport(t *testing.T) {
	sender := bag.New(nil)
	sender.Add(v1.PatternSummary{ID: "id-alpha", Title: "Alpha", Slug: "alpha"}, "")
	sender.Add(v1.PatternSummary{ID: "id-beta", Title: "Beta", Slug: "beta"}, "")

	u, err := BuildURL("https://patterns.example.org/carrier-bag", sender.Items())
	require.NoError(t, err)

	receiver := bag.New(nil)
	im := NewImporter(receiver, serving("alpha", "beta"))
	_, err = im.Run(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, bagSlugs(sender), bagSlugs(receiver))
}

func TestRunReplaceMode(t *testing.T) {
	store := bag.New(nil)
	store.Add(v1.PatternSummary{ID: "old", Title: "Old", Slug: "old"}, "kept notes")

	im := NewImporter(store, serving("alpha", "beta"))
	got, err := im.Run(context.Background(), shareURL(t, "slugs=alpha,beta&mode=replace"))

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, bagSlugs(store), "previous contents cleared")
	assert.Equal(t, StateApplied, im.State())
	assert.Empty(t, got.Query().Get(ParamSlugs), "URL cleaned after apply")
}

func TestRunAppendMode(t *testing.T) {
	store := bag.New(nil)
	store.Add(v1.PatternSummary{ID: "old", Title: "Old", Slug: "old"}, "")

	im := NewImporter(store, serving("alpha"))
	_, err := im.Run(context.Background(), shareURL(t, "slugs=alpha&mode=append"))

	require.NoError(t, err)
	assert.Equal(t, []string{"old", "alpha"}, bagSlugs(store))
}

func TestRunUnknownModeAppends(t *testing.T) {
	store := bag.New(nil)
	store.Add(v1.PatternSummary{ID: "old", Title: "Old", Slug: "old"}, "")

	im := NewImporter(store, serving("alpha"))
	_, err := im.Run(context.Background(), shareURL(t, "slugs=alpha&mode=merge"))

	require.NoError(t, err)
	assert.Equal(t, []string{"old", "alpha"}, bagSlugs(store))
}

func TestRunReordersToRequestedSlugOrder(t *testing.T) {
	store := bag.New(nil)

	im := NewImporter(store, serving("alpha", "beta", "gamma"))
	_, err := im.Run(context.Background(), shareURL(t, "slugs=gamma,alpha,beta&mode=replace"))

	require.NoError(t, err)
	assert.Equal(t, []string{"gamma", "alpha", "beta"}, bagSlugs(store))
}

func TestRunSkipsSlugsTheFetcherCouldNotResolve(t *testing.T) {
	store := bag.New(nil)

	im := NewImporter(store, serving("alpha"))
	_, err := im.Run(context.Background(), shareURL(t, "slugs=alpha,ghost&mode=replace"))

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, bagSlugs(store))
	assert.Equal(t, StateApplied, im.State())
}

func TestRunNoShareParamsIsNoop(t *testing.T) {
	store := bag.New(nil)
	store.Add(v1.PatternSummary{ID: "old", Title: "Old", Slug: "old"}, "")
	fetcher := serving("alpha")

	im := NewImporter(store, fetcher)
	u := shareURL(t, "step=3")
	got, err := im.Run(context.Background(), u)

	require.NoError(t, err)
	assert.Same(t, u, got)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, StateIdle, im.State())
	assert.Equal(t, []string{"old"}, bagSlugs(store))
}

func TestRunFailurePreservesBagAndURL(t *testing.T) {
	store := bag.New(nil)
	store.Add(v1.PatternSummary{ID: "old", Title: "Old", Slug: "old"}, "")

	im := NewImporter(store, &fakeFetcher{err: fmt.Errorf("upstream down")})
	u := shareURL(t, "slugs=alpha,beta&mode=replace")
	got, err := im.Run(context.Background(), u)

	require.Error(t, err)
	assert.Equal(t, []string{"old"}, bagSlugs(store), "bag untouched on failure")
	assert.Equal(t, "alpha,beta", got.Query().Get(ParamSlugs), "URL kept so a reload retries")
	assert.Equal(t, StateFailed, im.State())
	assert.Error(t, im.Err())
}

func TestRunCancelledContextCountsAsFailure(t *testing.T) {
	store := bag.New(nil)
	store.Add(v1.PatternSummary{ID: "old", Title: "Old", Slug: "old"}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := NewImporter(store, serving("alpha"))
	_, err := im.Run(ctx, shareURL(t, "slugs=alpha&mode=replace"))

	require.Error(t, err)
	assert.Equal(t, []string{"old"}, bagSlugs(store))
	assert.Equal(t, StateFailed, im.State())
}

func TestRunIsIdempotentPerQueryString(t *testing.T) {
	store := bag.New(nil)
	fetcher := serving("alpha")

	im := NewImporter(store, fetcher)
	u := shareURL(t, "slugs=alpha&mode=append")

	_, err := im.Run(context.Background(), u)
	require.NoError(t, err)
	_, err = im.Run(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, []string{"alpha"}, bagSlugs(store), "no double import")
}

func TestResetAllowsReprocessing(t *testing.T) {
	store := bag.New(nil)
	fetcher := serving("alpha")

	im := NewImporter(store, fetcher)
	u := shareURL(t, "slugs=alpha&mode=replace")

	_, err := im.Run(context.Background(), u)
	require.NoError(t, err)

	im.Reset()
	assert.Equal(t, StateIdle, im.State())
	assert.NoError(t, im.Err())

	_, err = im.Run(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestImportedItemsStartWithEmptyNotes(t *testing.T) {
	store := bag.New(nil)

	im := NewImporter(store, serving("alpha"))
	_, err := im.Run(context.Background(), shareURL(t, "slugs=alpha&mode=replace"))
	require.NoError(t, err)

	got, ok := store.Get("id-alpha")
	require.True(t, ok)
	assert.Empty(t, got.Notes)
	assert.False(t, got.DateAdded.IsZero(), "added now, not at the sender's time")
}
