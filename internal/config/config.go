// Package config loads user defaults for hatch from hatch.yml and the
// environment.
//
// Lookup order, later wins:
//
//	built-in defaults
//	$HOME/.config/hatch/hatch.yml
//	./hatch.yml
//	HATCH_* environment variables (HATCH_DEFAULTS_TEMPLATE=react)
//
// Command-line flags are applied on top by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file name without extension
const FileName = "hatch"

// Config holds the resolved user defaults
type Config struct {
	Defaults Defaults
	Author   Author

	// File is the config file that was read, empty when none was found
	File string
}

// Defaults are the values used when a flag is not given
type Defaults struct {
	Template       string
	Deploy         string
	PackageManager string
	Install        bool
	Git            bool
	Enhance        bool
}

// Author is substituted into LICENSE and package metadata
type Author struct {
	Name  string
	Email string
}

// String formats the author as "Name <email>"
func (a Author) String() string {
	switch {
	case a.Name != "" && a.Email != "":
		return fmt.Sprintf("%s <%s>", a.Name, a.Email)
	case a.Name != "":
		return a.Name
	default:
		return a.Email
	}
}

// DefaultSearchPaths returns the directories searched for hatch.yml, in
// increasing precedence
func DefaultSearchPaths() []string {
	paths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "hatch"))
	}
	return append(paths, ".")
}

// Load reads hatch.yml from the given directories (DefaultSearchPaths when
// empty). A missing file is not an error.
func Load(searchPaths ...string) (*Config, error) {
	if len(searchPaths) == 0 {
		searchPaths = DefaultSearchPaths()
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := ""
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, FileName+".yml")
		if _, err := os.Stat(candidate); err != nil {
			continue
		}

		v.SetConfigFile(candidate)
		if file == "" {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
			}
		} else if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
		file = candidate
	}

	cfg := &Config{
		Defaults: Defaults{
			Template:       v.GetString("defaults.template"),
			Deploy:         v.GetString("defaults.deploy"),
			PackageManager: v.GetString("defaults.package_manager"),
			Install:        v.GetBool("defaults.install"),
			Git:            v.GetBool("defaults.git"),
			Enhance:        v.GetBool("defaults.enhance"),
		},
		Author: Author{
			Name:  v.GetString("author.name"),
			Email: v.GetString("author.email"),
		},
		File: file,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	if err := ValidatePackageManager(c.Defaults.PackageManager); err != nil {
		return fmt.Errorf("invalid defaults.package_manager: %w", err)
	}

	switch c.Defaults.Deploy {
	case "none", "vercel", "netlify", "aws", "gcp":
	default:
		return fmt.Errorf("invalid defaults.deploy %q (expected none, vercel, netlify, aws or gcp)", c.Defaults.Deploy)
	}

	if c.Defaults.Template == "" {
		return errors.New("defaults.template must not be empty")
	}

	return nil
}

// ValidatePackageManager reports whether pm is npm, yarn or pnpm
func ValidatePackageManager(pm string) error {
	switch pm {
	case "npm", "yarn", "pnpm":
		return nil
	}
	return fmt.Errorf("unknown package manager %q (expected npm, yarn or pnpm)", pm)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.template", "node")
	v.SetDefault("defaults.deploy", "none")
	v.SetDefault("defaults.package_manager", "npm")
	v.SetDefault("defaults.install", true)
	v.SetDefault("defaults.git", true)
	v.SetDefault("defaults.enhance", false)
	v.SetDefault("author.name", "")
	v.SetDefault("author.email", "")
}
