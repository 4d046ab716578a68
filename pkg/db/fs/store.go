package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator"
	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"

	"github.com/patternware/satchel/pkg/db"
	"github.com/patternware/satchel/pkg/types"
)

// Store persists the carrier bag snapshot to a single JSON file. One file,
// one bag; callers that need isolated bags (tests, multiple scopes) point
// each store at its own path.
type Store struct {
	*sync.Mutex

	Path string `yaml:"path" validate:"required"`

	status  types.SyncStatus
	mtime   time.Time
	watcher *fsnotify.Watcher
}

func New(storagePath string, createDirIfMissing bool) (*Store, error) {
	expandedPath, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	s := Store{
		Mutex:  &sync.Mutex{},
		Path:   expandedPath,
		status: types.StatusUninitialized,
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("error validating storage provider: %w", err)
	}

	dir := filepath.Dir(expandedPath)
	finfo, err := os.Stat(dir)
	if err != nil || !finfo.IsDir() {
		if !createDirIfMissing {
			return nil, fmt.Errorf("storage directory %s does not exist", dir)
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("error creating %s: %w", dir, err)
		}
	}

	s.status = types.StatusOK

	return &s, nil
}

func (x *Store) Validate() error {
	validate := validator.New()
	err := validate.Struct(*x)
	return err
}

func (x *Store) StoragePath() string { return x.Path }

func (x *Store) Status() types.SyncStatus {
	x.Lock()
	defer x.Unlock()
	return x.status
}

// Load reads the snapshot from disk. A missing file yields an empty
// snapshot so first-run hydration completes normally.
func (x *Store) Load() (*db.Snapshot, error) {
	x.Lock()
	defer x.Unlock()

	raw, err := os.ReadFile(x.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &db.Snapshot{Version: db.SnapshotVersion}, nil
		}
		x.status = types.StatusError
		return nil, fmt.Errorf("unable to read %s: %w", x.Path, err)
	}

	var snap db.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		x.status = types.StatusError
		return nil, fmt.Errorf("%w: %s", db.ErrSnapshotCorrupt, x.Path)
	}

	// Version 0 predates the versioned envelope and reads as version 1.
	if snap.Version == 0 {
		snap.Version = 1
	}
	if snap.Version > db.SnapshotVersion {
		x.status = types.StatusError
		return nil, fmt.Errorf("%w: version %d", db.ErrSnapshotTooNew, snap.Version)
	}

	if finfo, err := os.Stat(x.Path); err == nil {
		x.mtime = finfo.ModTime()
	}

	x.status = types.StatusOK
	return &snap, nil
}

// Save writes the snapshot atomically so a crash mid-write can never
// truncate the persisted collection.
func (x *Store) Save(snap *db.Snapshot) error {
	x.Lock()
	defer x.Unlock()

	x.status = types.StatusSynchronizing

	snap.Version = db.SnapshotVersion
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		x.status = types.StatusError
		return fmt.Errorf("unable to marshal snapshot: %w", err)
	}

	if err := atomic.WriteFile(x.Path, bytes.NewReader(raw)); err != nil {
		x.status = types.StatusError
		return fmt.Errorf("unable to write %s: %w", x.Path, err)
	}

	// Remember our own write so the watcher does not reload it.
	if finfo, err := os.Stat(x.Path); err == nil {
		x.mtime = finfo.ModTime()
	}

	x.status = types.StatusOK
	return nil
}

// Watch invokes onChange with a freshly loaded snapshot whenever another
// process replaces the storage file. Last write wins across instances.
func (x *Store) Watch(onChange func(*db.Snapshot)) error {
	x.Lock()
	defer x.Unlock()

	if x.watcher != nil {
		_ = x.watcher.Close()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory rather than the file: atomic replace swaps the
	// inode out from under a file-level watch.
	dir := filepath.Dir(x.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}

	x.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if path.Base(event.Name) != path.Base(x.Path) {
					continue
				}
				if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
					continue
				}
				if !x.shouldReload() {
					continue
				}
				snap, err := x.Load()
				if err != nil {
					continue
				}
				onChange(snap)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

func (x *Store) shouldReload() bool {
	x.Lock()
	defer x.Unlock()

	finfo, err := os.Stat(x.Path)
	if err != nil {
		return false
	}
	return finfo.ModTime().After(x.mtime)
}

func (x *Store) Close() error {
	x.Lock()
	defer x.Unlock()

	if x.watcher == nil {
		return nil
	}
	w := x.watcher
	x.watcher = nil
	return w.Close()
}
