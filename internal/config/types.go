package config

import (
	"os"
	"time"
)

// DefaultPath is where folio looks for its configuration.
const DefaultPath = ".folio.yml"

// Config is the top-level folio configuration, corresponding to .folio.yml.
type Config struct {
	// SiteDir holds the static HTML pages and assets.
	SiteDir   string `yaml:"site_dir" koanf:"site_dir"`
	OutputDir string `yaml:"output_dir" koanf:"output_dir"`
	// DataBase is where data documents are read from: a directory or an
	// http(s) URL. Empty means SiteDir.
	DataBase     string   `yaml:"data_base" koanf:"data_base"`
	ProfilePath  string   `yaml:"profile_path" koanf:"profile_path"`
	BlogPath     string   `yaml:"blog_path" koanf:"blog_path"`
	OwnerName    string   `yaml:"owner_name" koanf:"owner_name"`
	LoaderScript string   `yaml:"loader_script" koanf:"loader_script"`
	Pages        []string `yaml:"pages" koanf:"pages"`
	// Exclude lists doublestar patterns left out of exports.
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	GitHub GitHubConfig `yaml:"github" koanf:"github"`

	ProbeConcurrency int           `yaml:"probe_concurrency" koanf:"probe_concurrency"`
	ProbeWait        time.Duration `yaml:"probe_wait" koanf:"probe_wait"`
	HTTPTimeout      time.Duration `yaml:"http_timeout" koanf:"http_timeout"`

	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Contact ContactConfig `yaml:"contact" koanf:"contact"`
}

// GitHubConfig selects the repositories on the projects page.
type GitHubConfig struct {
	Username     string   `yaml:"username" koanf:"username"`
	ExtraRepos   []string `yaml:"extra_repos" koanf:"extra_repos"`
	ExcludeRepos []string `yaml:"exclude_repos" koanf:"exclude_repos"`
	ExcludeForks bool     `yaml:"exclude_forks" koanf:"exclude_forks"`
	APIURL       string   `yaml:"api_url" koanf:"api_url"`
	RawURL       string   `yaml:"raw_url" koanf:"raw_url"`
	CoverFile    string   `yaml:"cover_file" koanf:"cover_file"`
	MaxPages     int      `yaml:"max_pages" koanf:"max_pages"`
	// TokenEnv names the environment variable holding an API token.
	TokenEnv string `yaml:"token_env" koanf:"token_env"`
}

// Enabled reports whether the projects page should be populated.
func (g GitHubConfig) Enabled() bool {
	return g.Username != ""
}

// Token returns the API token from the configured environment variable.
func (g GitHubConfig) Token() string {
	if g.TokenEnv == "" {
		return ""
	}
	return os.Getenv(g.TokenEnv)
}

// ServerConfig holds settings for folio serve.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ContactConfig holds settings for the contact form relay.
type ContactConfig struct {
	// Endpoint receives submissions as JSON. Empty means submissions are
	// only logged.
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
	// Inbox is a SQLite file keeping every submission. Empty disables it.
	Inbox string `yaml:"inbox" koanf:"inbox"`
}
