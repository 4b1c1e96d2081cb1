package config

import "time"

// DefaultPages are the doublestar patterns exported by default.
var DefaultPages = []string{"*.html"}

// DefaultExcludes are left out of exports by default.
var DefaultExcludes = []string{"node_modules", "*.md", "linkedin"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteDir:      ".",
		OutputDir:    "dist",
		ProfilePath:  "data/profile.json",
		BlogPath:     "data/blog.json",
		LoaderScript: "assets/js/data-loader.js",
		Pages:        append([]string(nil), DefaultPages...),
		Exclude:      append([]string(nil), DefaultExcludes...),
		GitHub: GitHubConfig{
			ExcludeForks: true,
			APIURL:       "https://api.github.com",
			RawURL:       "https://raw.githubusercontent.com",
			CoverFile:    "cover.jpg",
			MaxPages:     1,
			TokenEnv:     "GITHUB_TOKEN",
		},
		ProbeConcurrency: 4,
		ProbeWait:        3 * time.Second,
		HTTPTimeout:      15 * time.Second,
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// DataLocation returns where data documents are read from.
func (c *Config) DataLocation() string {
	if c.DataBase != "" {
		return c.DataBase
	}
	return c.SiteDir
}
