// Package bag holds the carrier bag: the user's personal, locally persisted
// collection of patterns. The Store is the single source of truth for the
// collection; every consumer reads through it and every mutation writes
// through it.
package bag

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/patternware/satchel/pkg/db"
	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

// Store keeps the ordered collection of collected patterns, guarantees
// uniqueness by pattern id, and persists every mutation synchronously to
// the injected backend. Mutations never fail: a storage write error flips
// Status to error and the session continues in memory.
type Store struct {
	mu sync.Mutex

	backend db.Backend // nil means in-memory only
	items   []v1.CollectedItem
	prefs   map[string]json.RawMessage

	hydrated bool
	status   types.SyncStatus
	subs     []func()

	now func() time.Time
}

func New(backend db.Backend) *Store {
	return &Store{
		backend: backend,
		status:  types.StatusUninitialized,
		now:     time.Now,
	}
}

// Hydrate loads the persisted snapshot and applies it. It runs once at
// startup; consumers treat Hydrated() == false as "loading", not "empty".
// A corrupt or unreadable snapshot leaves the bag empty but still marks it
// hydrated, so the session degrades to in-memory operation.
func (s *Store) Hydrate() error {
	if s.backend == nil {
		s.SetHydrated(true)
		return nil
	}

	snap, err := s.backend.Load()

	s.mu.Lock()
	if err == nil {
		s.items = append([]v1.CollectedItem(nil), snap.State.Items...)
		s.prefs = snap.State.Prefs
		s.status = types.StatusOK
	} else {
		s.status = types.StatusError
	}
	s.hydrated = true
	s.mu.Unlock()

	s.notify()
	return err
}

// ApplySnapshot wholesale-replaces the collection from an externally loaded
// snapshot without writing back. Used when another instance wrote the
// storage file; last write wins.
func (s *Store) ApplySnapshot(snap *db.Snapshot) {
	s.mu.Lock()
	s.items = append([]v1.CollectedItem(nil), snap.State.Items...)
	s.prefs = snap.State.Prefs
	s.mu.Unlock()

	s.notify()
}

// Add appends the pattern to the end of the collection. Adding a pattern
// that is already collected is a no-op: the first write wins for both notes
// and dateAdded, and no error is raised.
func (s *Store) Add(p v1.PatternSummary, notes string) {
	s.mu.Lock()
	if s.indexOf(p.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items, v1.CollectedItem{
		Pattern:   p,
		DateAdded: s.now(),
		Notes:     notes,
	})
	s.persist()
	s.mu.Unlock()

	s.notify()
}

// Remove drops the item with the given pattern id. Removing an id that is
// not collected is a no-op.
func (s *Store) Remove(id types.ID) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persist()
	s.mu.Unlock()

	s.notify()
}

// UpdateNotes replaces the notes on the matching item; no-op if the id is
// not collected. DateAdded is never touched.
func (s *Store) UpdateNotes(id types.ID, notes string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items[i].Notes = notes
	s.persist()
	s.mu.Unlock()

	s.notify()
}

// Clear empties the bag.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.persist()
	s.mu.Unlock()

	s.notify()
}

// SetItems wholesale-replaces the ordered sequence; this is the manual
// reorder operation. The caller supplies items already present in the bag
// and must not introduce duplicates.
func (s *Store) SetItems(items []v1.CollectedItem) {
	s.mu.Lock()
	s.items = append([]v1.CollectedItem(nil), items...)
	s.persist()
	s.mu.Unlock()

	s.notify()
}

func (s *Store) Has(id types.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

func (s *Store) Get(id types.ID) (v1.CollectedItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return v1.CollectedItem{}, false
}

// Items returns a copy of the collection in its current order.
func (s *Store) Items() []v1.CollectedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]v1.CollectedItem(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *Store) SetHydrated(hydrated bool) {
	s.mu.Lock()
	s.hydrated = hydrated
	s.mu.Unlock()

	s.notify()
}

func (s *Store) Status() types.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe registers fn to run after every change to the collection, on
// the mutating goroutine. Consumers recompute their projections in fn; the
// collection is small enough that full recomputation is fine.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id types.ID) int {
	for i := range s.items {
		if s.items[i].Pattern.ID == id {
			return i
		}
	}
	return -1
}

// persist write-throughs the current state. Must be called with the lock
// held. Storage is a best-effort cache within a session: a failed write is
// recorded on Status and otherwise swallowed.
func (s *Store) persist() {
	if s.backend == nil {
		return
	}

	snap := db.Snapshot{
		State: db.State{
			Items: append([]v1.CollectedItem(nil), s.items...),
			Prefs: s.prefs,
		},
		Version: db.SnapshotVersion,
	}

	if err := s.backend.Save(&snap); err != nil {
		s.status = types.StatusError
		return
	}
	s.status = types.StatusOK
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := append(([]func())(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
