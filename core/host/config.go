package host

import (
	"os"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultChainID is the chain identifier used when none is configured.
	DefaultChainID = "cwcounter"

	// DefaultDBPath is the database file used when none is configured.
	DefaultDBPath = "cwcounter.db"
)

// Config is the configuration of a host read from a YAML file.
type Config struct {
	ChainID string `yaml:"chain_id"`
	DBPath  string `yaml:"db_path"`
}

// DefaultConfig returns the configuration with the default values.
func DefaultConfig() Config {
	return Config{
		ChainID: DefaultChainID,
		DBPath:  DefaultDBPath,
	}
}

// LoadConfig reads the YAML file at the path. The missing fields keep their
// default value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to read config: %v", err)
	}

	cfg := DefaultConfig()

	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to parse config: %v", err)
	}

	return cfg, nil
}
