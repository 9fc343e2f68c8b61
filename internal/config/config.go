package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type FotaClientConfig struct {
	ListenAddr              string `yaml:"listen_addr"`
	ManifestTimeoutSeconds  int    `yaml:"manifest_timeout_seconds"`
	MaxManifestFetchRetries int    `yaml:"max_manifest_fetch_retries"`
	ConcurrentResolves      int    `yaml:"concurrent_resolves"`
	ResolveChanSize         int    `yaml:"resolve_chan_size"`
	DefaultMaxMatches       int    `yaml:"default_max_matches"`
	ProgressEventInterval   int    `yaml:"progress_event_interval"`
}

var Config FotaClientConfig = FotaClientConfig{
	ListenAddr:              ":8080",
	ManifestTimeoutSeconds:  10,
	MaxManifestFetchRetries: 3,
	ConcurrentResolves:      8,
	ResolveChanSize:         64,
	DefaultMaxMatches:       10,
	ProgressEventInterval:   100000,
}

// LoadFromFile overrides the defaults with values from a YAML file.
// Zero-valued fields in the file keep their defaults.
func LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	overrides := Config
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return err
	}
	Config = overrides
	return nil
}

func init() {
	if path := os.Getenv("FOTA_CONFIG"); path != "" {
		if err := LoadFromFile(path); err != nil {
			panic(err)
		}
	}
}
