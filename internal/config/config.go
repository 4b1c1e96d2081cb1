package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override configuration.
const EnvPrefix = "FOLIO_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FOLIO_*). A .env file next to the
// configuration is loaded into the environment first without replacing
// variables that are already set.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("reading %s: %w", dotenv, err)
		}
	}

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: FOLIO_OWNER_NAME -> owner_name,
	// FOLIO_SERVER__PORT -> server.port.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.ProfilePath == "" {
		return fmt.Errorf("profile_path is required")
	}
	if c.BlogPath == "" {
		return fmt.Errorf("blog_path is required")
	}
	if c.LoaderScript == "" {
		return fmt.Errorf("loader_script is required")
	}

	for _, p := range c.Pages {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid page pattern %q", p)
		}
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	if err := c.GitHub.validate(); err != nil {
		return err
	}

	if c.ProbeConcurrency < 1 {
		return fmt.Errorf("probe_concurrency must be at least 1")
	}
	if c.ProbeWait < 0 {
		return fmt.Errorf("probe_wait must be non-negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.Contact.Endpoint != "" {
		if err := validateHTTPURL(c.Contact.Endpoint); err != nil {
			return fmt.Errorf("invalid contact.endpoint: %w", err)
		}
	}
	return nil
}

func (g GitHubConfig) validate() error {
	for _, r := range g.ExtraRepos {
		owner, name, ok := strings.Cut(r, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("invalid github.extra_repos entry %q: want owner/name", r)
		}
	}
	if len(g.ExtraRepos) > 0 && g.Username == "" {
		return fmt.Errorf("github.username is required when github.extra_repos is set")
	}
	if g.MaxPages < 1 {
		return fmt.Errorf("github.max_pages must be at least 1")
	}
	if err := validateHTTPURL(g.APIURL); err != nil {
		return fmt.Errorf("invalid github.api_url: %w", err)
	}
	if err := validateHTTPURL(g.RawURL); err != nil {
		return fmt.Errorf("invalid github.raw_url: %w", err)
	}
	if g.CoverFile == "" {
		return fmt.Errorf("github.cover_file is required")
	}
	return nil
}

func validateHTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an http(s) URL", s)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", s)
	}
	return nil
}
