package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/patternware/satchel/pkg/app"
	"github.com/patternware/satchel/pkg/bag"
	"github.com/patternware/satchel/pkg/config"
	"github.com/patternware/satchel/pkg/plugins"
	"github.com/patternware/satchel/pkg/plugins/cms"
	"github.com/patternware/satchel/pkg/version"
)

var (
	flags = struct {
		ConfigFile string
	}{}

	root = &cobra.Command{
		Use:     "satchel",
		Short:   "Satchel is a carrier bag for browsing and sharing pattern collections",
		Version: version.Version,
		Args:    cobra.MaximumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.New(flags.ConfigFile, true)
			if err != nil {
				return err
			}

			p := tea.NewProgram(*m, tea.WithAltScreen())
			return p.Start()
		},
	}
)

func init() {
	root.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "~/.satchel.yaml", "configuration file")
}

func Execute() {
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// engine loads the config and opens the persisted bag the same way the TUI
// does, for the scripting subcommands.
func engine() (*config.Config, *bag.Store, error) {
	cfg, err := app.LoadConfig(flags.ConfigFile)
	if err != nil {
		return nil, nil, err
	}

	store, _, err := app.OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	return cfg, store, nil
}

func fetcher(cfg *config.Config) (*cms.Client, error) {
	if cfg.API.Source != plugins.TypeCMS {
		return nil, fmt.Errorf("unknown content source %q", cfg.API.Source)
	}
	if cfg.API.Endpoint == "" {
		return nil, fmt.Errorf("no content api endpoint configured")
	}
	return cms.New(cfg.API.Endpoint, cfg.API.Token)
}
