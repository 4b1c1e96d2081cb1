package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// siteMarkers are files whose presence identifies a portfolio site root.
var siteMarkers = []string{
	"assets/js/data-loader.js",
	"index.html",
	"data/profile.json",
}

// detectSiteDir looks for a site in the current directory and a few
// conventional subdirectories.
func detectSiteDir() string {
	for _, dir := range []string{".", "site", "public", "docs"} {
		for _, marker := range siteMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
	}
	return "."
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .folio.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to folio! Let's configure your portfolio.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site directory.
	sitePrompt := promptui.Prompt{
		Label:   "Site directory (HTML pages and assets)",
		Default: detectSiteDir(),
	}
	siteDir, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}
	cfg.SiteDir = siteDir

	// 2. Owner name, used in blog post titles.
	ownerPrompt := promptui.Prompt{
		Label: "Your name (shown in blog post titles)",
	}
	owner, err := ownerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("owner name: %w", err)
	}
	cfg.OwnerName = strings.TrimSpace(owner)

	// 3. GitHub username.
	userPrompt := promptui.Prompt{
		Label: "GitHub username for the projects page (leave blank to skip)",
	}
	username, err := userPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("github username: %w", err)
	}
	cfg.GitHub.Username = strings.TrimSpace(username)

	if cfg.GitHub.Enabled() {
		// 4. Extra repositories.
		extraPrompt := promptui.Prompt{
			Label: "Extra repositories (comma-separated owner/name)",
			Validate: func(s string) error {
				for _, r := range splitAndTrim(s) {
					if !strings.Contains(r, "/") {
						return fmt.Errorf("%q is not owner/name", r)
					}
				}
				return nil
			},
		}
		extra, err := extraPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("extra repos: %w", err)
		}
		cfg.GitHub.ExtraRepos = splitAndTrim(extra)

		// 5. Excluded repositories.
		excludePrompt := promptui.Prompt{
			Label:   "Repositories to hide (comma-separated names or globs)",
			Default: cfg.GitHub.Username,
		}
		exclude, err := excludePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("exclude repos: %w", err)
		}
		cfg.GitHub.ExcludeRepos = splitAndTrim(exclude)

		// 6. Forks.
		forkPrompt := promptui.Select{
			Label: "Hide forked repositories?",
			Items: []string{"yes", "no"},
		}
		forkIdx, _, err := forkPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("fork selection: %w", err)
		}
		cfg.GitHub.ExcludeForks = forkIdx == 0
	}

	// 7. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Port for folio serve",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// Check for a GitHub token.
	if cfg.GitHub.Enabled() && cfg.GitHub.Token() == "" {
		fmt.Printf("\nNote: set %s (or add it to .env) to avoid GitHub rate limits.\n", cfg.GitHub.TokenEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Save to .folio.yml.
	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
