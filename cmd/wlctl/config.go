package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/block-webdev/wlmint-contract/descriptor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout = 15 * time.Second
	defaultWorkers = 4
)

// config is the operator tool configuration read from the YAML file. Global
// command line flags override file values.
type config struct {
	RPC struct {
		Endpoint       string        `yaml:"endpoint"`
		DialTimeout    time.Duration `yaml:"dial_timeout"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"rpc"`

	Wallet struct {
		Path     string `yaml:"path"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
	} `yaml:"wallet"`

	// Whitelist contract address in LE hex.
	Contract string `yaml:"contract"`

	// Number of transactions sent concurrently by batch commands.
	Workers int `yaml:"workers"`

	Placeholders []placeholderEntry `yaml:"placeholders"`
}

type placeholderEntry struct {
	ContentID uint64 `yaml:"content_id"`
	URI       string `yaml:"uri"`
}

func defaultConfig() config {
	var cfg config
	cfg.RPC.DialTimeout = defaultTimeout
	cfg.RPC.RequestTimeout = defaultTimeout
	cfg.Workers = defaultWorkers
	return cfg
}

func readConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode config file %s: %w", path, err)
	}

	return cfg, nil
}

// loadConfig reads the file referenced by the config flag and applies flag
// overrides.
func loadConfig(c *cli.Context) (config, error) {
	cfg, err := readConfig(c.String(flagConfig))
	if err != nil {
		return cfg, err
	}

	if c.IsSet(flagRPC) {
		cfg.RPC.Endpoint = c.String(flagRPC)
	}
	if c.IsSet(flagWallet) {
		cfg.Wallet.Path = c.String(flagWallet)
	}
	if c.IsSet(flagAddress) {
		cfg.Wallet.Address = c.String(flagAddress)
	}
	if c.IsSet(flagPassword) {
		cfg.Wallet.Password = c.String(flagPassword)
	}
	if c.IsSet(flagContract) {
		cfg.Contract = c.String(flagContract)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}

	if cfg.Workers <= 0 {
		return cfg, fmt.Errorf("invalid number of workers %d", cfg.Workers)
	}

	return cfg, nil
}

func (cfg config) contract() (util.Uint160, error) {
	if cfg.Contract == "" {
		return util.Uint160{}, errors.New("missing whitelist contract address")
	}

	h, err := util.Uint160DecodeStringLE(cfg.Contract)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid whitelist contract address: %w", err)
	}

	return h, nil
}

// validatePlaceholders checks content IDs are unique and URIs fit the
// placeholder buffer.
func validatePlaceholders(list []placeholderEntry) error {
	seen := make(map[uint64]struct{}, len(list))

	for i := range list {
		if _, ok := seen[list[i].ContentID]; ok {
			return fmt.Errorf("placeholder #%d: duplicated content ID %d", i, list[i].ContentID)
		}
		seen[list[i].ContentID] = struct{}{}

		if err := descriptor.ValidateContentURI(list[i].URI); err != nil {
			return fmt.Errorf("placeholder #%d (content ID %d): %w", i, list[i].ContentID, err)
		}
	}

	return nil
}
