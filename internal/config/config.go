// Package config loads the m68kvm CLI's TOML configuration file, giving
// named "profiles" a home so a starting PC/USP/SSP can be reused across
// invocations instead of re-typed as flags every time.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Profile is one named set of starting conditions, selected at the
// command line with --profile. ROM is parsed and kept here, but the CLI
// takes the ROM path from its positional argument and does not read it.
type Profile struct {
	Name string `toml:"name"`
	ROM  string `toml:"rom"`
	PC   uint32 `toml:"pc"`
	USP  uint32 `toml:"usp"`
	SSP  uint32 `toml:"ssp"`
}

// Config is the root of the TOML document: a default log level plus any
// number of named profiles.
type Config struct {
	Log      string    `toml:"log"`
	Profiles []Profile `toml:"profile"`
}

// Default returns an empty configuration with the default log level and
// no profiles, the state a fresh install starts from.
func Default() *Config {
	return &Config{Log: "warn"}
}

// Load reads and parses the TOML file at path. A missing file is not an
// error; it returns Default() so the CLI can run unconfigured.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Profile looks up a named profile. ok is false if no profile by that
// name is configured.
func (c *Config) Profile(name string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
