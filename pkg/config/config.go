package config

import (
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/patternware/satchel/pkg/plugins"
)

const (
	XDGName = "satchel"
)

var (
	// Default is the configuration used when ~/.satchel.yaml is absent;
	// explicit settings are merged over it.
	Default = Config{
		StoragePath: filepath.Join(xdg.DataHome, XDGName, "carrier-bag.json"),
		BaseURL:     "https://patterns.example.org/carrier-bag",
		Locale:      "en",
		API: APIConfig{
			Source:   plugins.TypeCMS,
			Endpoint: "https://patterns.example.org/api",
		},
		UseAltScreen: true,
	}
)

type Config struct {
	// StoragePath is where the carrier bag snapshot lives.
	StoragePath string `yaml:"storagePath" validate:"required"`

	// BaseURL is the bag's canonical route; share links are built on it.
	BaseURL string `yaml:"baseURL" validate:"required,url"`

	// Locale drives locale-aware title collation in the list view.
	Locale string `yaml:"locale" validate:"required"`

	API APIConfig `yaml:"api"`

	UseAltScreen bool `yaml:"altScreen"`
}

// APIConfig points at the content API that resolves pattern slugs.
type APIConfig struct {
	Source   plugins.Type `yaml:"source" validate:"required"`
	Endpoint string       `yaml:"endpoint" validate:"omitempty,url"`

	// Token authenticates against non-public content; usually left empty
	// and cached in the runtime dir instead.
	Token string `yaml:"token,omitempty"`
}

func NewFromReader(r io.Reader) (*Config, error) {
	c := Default

	bytes, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read Config: %w", err)
	}
	err = yaml.Unmarshal(bytes, &c)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal Config: %w", err)
	}

	validate := validator.New()
	err = validate.Struct(c)
	if err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &c, nil
}
