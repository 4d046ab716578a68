package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mitchellh/go-homedir"

	"github.com/patternware/satchel/pkg/bag"
	"github.com/patternware/satchel/pkg/config"
	"github.com/patternware/satchel/pkg/db"
	dbfs "github.com/patternware/satchel/pkg/db/fs"
	"github.com/patternware/satchel/pkg/ui"
	"github.com/patternware/satchel/pkg/view"
)

// LoadConfig reads the config file at path, falling back to the built-in
// default when the file is missing.
func LoadConfig(path string) (*config.Config, error) {
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expandedPath)
	if err != nil {
		// if the file is missing, ignore and use the default config
		cfg := config.Default
		return &cfg, nil
	}
	defer f.Close()

	cfg, err := config.NewFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}
	return cfg, nil
}

// OpenStore builds the persisted bag store for cfg, hydrates it, and wires
// the storage watcher so snapshots written by other instances are applied
// (last write wins).
func OpenStore(cfg *config.Config) (*bag.Store, *dbfs.Store, error) {
	backend, err := dbfs.New(cfg.StoragePath, true)
	if err != nil {
		return nil, nil, err
	}

	store := bag.New(backend)
	// A corrupt snapshot degrades to an empty, in-memory bag; it must not
	// prevent startup.
	_ = store.Hydrate()

	_ = backend.Watch(func(snap *db.Snapshot) {
		store.ApplySnapshot(snap)
	})

	return store, backend, nil
}

func New(configPath string, useAltScreen bool) (*Application, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	store, _, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	ni := textinput.NewModel()
	ni.Placeholder = "Why did you collect this pattern?"
	ni.Prompt = ui.FuchsiaFg("❯ ")
	ni.CharLimit = 256

	l := list.NewModel([]list.Item{}, newBagDelegate(), 0, 0)
	l.Title = "Carrier bag"

	m := Application{
		Config:       cfg,
		UseAltScreen: useAltScreen && cfg.UseAltScreen,
		store:        store,
		pipeline:     view.New(cfg.Locale),
		filter:       view.DefaultFilterState(),
		keys:         DefaultKeyMap(),
		list:         l,
		noteInput:    ni,
		viewport:     viewport.Model{},
	}

	return &m, nil
}
