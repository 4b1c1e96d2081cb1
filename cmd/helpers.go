package cmd

import (
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/config"
	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/loader"
	"github.com/ziadkadry99/folio/internal/showcase"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `folio init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLoader wires the content fetcher and, when a GitHub user is
// configured, the repository showcase.
func newLoader(cfg *config.Config, log *zap.Logger) (*loader.Loader, error) {
	hc := &http.Client{Timeout: cfg.HTTPTimeout}

	fetcher, err := content.New(cfg.DataLocation(), hc)
	if err != nil {
		return nil, fmt.Errorf("creating content fetcher: %w", err)
	}

	var (
		agg    *showcase.Aggregator
		prober *showcase.Prober
	)
	if cfg.GitHub.Enabled() {
		agg = showcase.NewAggregator(showcase.NewClient(showcase.ClientConfig{
			APIURL:     cfg.GitHub.APIURL,
			Token:      cfg.GitHub.Token(),
			MaxPages:   cfg.GitHub.MaxPages,
			HTTPClient: hc,
		}))
		prober = showcase.NewProber(showcase.ProberConfig{
			RawURL:      cfg.GitHub.RawURL,
			CoverFile:   cfg.GitHub.CoverFile,
			Concurrency: cfg.ProbeConcurrency,
			HTTPClient:  hc,
			Logger:      log,
		})
	} else {
		log.Debug("github.username not set, projects page keeps its fallback")
	}

	return loader.New(fetcher, agg, prober, loader.Config{
		ProfilePath:  cfg.ProfilePath,
		BlogPath:     cfg.BlogPath,
		OwnerName:    cfg.OwnerName,
		LoaderScript: cfg.LoaderScript,
		Showcase: showcase.Options{
			Username:     cfg.GitHub.Username,
			ExtraRepos:   cfg.GitHub.ExtraRepos,
			ExcludeRepos: cfg.GitHub.ExcludeRepos,
			ExcludeForks: cfg.GitHub.ExcludeForks,
		},
	}, log), nil
}

// isRemote reports whether a data location is an http(s) URL.
func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
