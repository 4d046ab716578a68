package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternware/satchel/pkg/db"
	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "carrier-bag.json"), true)
	require.NoError(t, err)
	return s
}

func sampleSnapshot() *db.Snapshot {
	return &db.Snapshot{
		State: db.State{
			Items: []v1.CollectedItem{
				{
					Pattern: v1.PatternSummary{
						ID:    types.ID("p1"),
						Title: "Inline validation",
						Slug:  "inline-validation",
						Tags:  []v1.TaxonomyRef{{ID: "t1", Title: "forms"}},
						Theme: &v1.TaxonomyRef{ID: "th1", Title: "Forms"},
					},
					DateAdded: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
					Notes:     "use on signup",
				},
			},
		},
		Version: db.SnapshotVersion,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Save(sampleSnapshot()))

	got, err := s.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(sampleSnapshot(), got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, types.StatusOK, s.Status())
}

func TestLoadMissingFileYieldsEmptySnapshot(t *testing.T) {
	s := tempStore(t)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got.State.Items)
	assert.Equal(t, db.SnapshotVersion, got.Version)
}

func TestLoadCorruptFile(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, os.WriteFile(s.Path, []byte("{not json"), 0600))

	_, err := s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrSnapshotCorrupt)
}

func TestLoadTooNewSnapshot(t *testing.T) {
	s := tempStore(t)
	raw, err := json.Marshal(db.Snapshot{Version: db.SnapshotVersion + 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path, raw, 0600))

	_, err = s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrSnapshotTooNew)
}

func TestLoadUnversionedSnapshotReadsAsVersionOne(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, os.WriteFile(s.Path, []byte(`{"state":{"items":[]}}`), 0600))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestPrefsRoundTrip(t *testing.T) {
	s := tempStore(t)

	snap := sampleSnapshot()
	snap.State.Prefs = map[string]json.RawMessage{
		"sort": json.RawMessage(`"za"`),
	}
	require.NoError(t, s.Save(snap))

	got, err := s.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `"za"`, string(got.State.Prefs["sort"]))
}

func TestNewRefusesMissingDirWithoutCreate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "carrier-bag.json")

	_, err := New(missing, false)
	require.Error(t, err)

	s, err := New(missing, true)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleSnapshot()))
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New("", true)
	require.Error(t, err)
}

func TestWatchSeesForeignWrites(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(sampleSnapshot()))

	changes := make(chan *db.Snapshot, 1)
	require.NoError(t, s.Watch(func(snap *db.Snapshot) {
		select {
		case changes <- snap:
		default:
		}
	}))
	defer s.Close()

	// A second store on the same path stands in for another process.
	other, err := New(s.Path, false)
	require.NoError(t, err)

	// Bump past the recorded mtime; coarse filesystems round to the second.
	time.Sleep(1100 * time.Millisecond)

	updated := sampleSnapshot()
	updated.State.Items[0].Notes = "written elsewhere"
	require.NoError(t, other.Save(updated))

	select {
	case snap := <-changes:
		require.Len(t, snap.State.Items, 1)
		assert.Equal(t, "written elsewhere", snap.State.Items[0].Notes)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never reported the foreign write")
	}
}
