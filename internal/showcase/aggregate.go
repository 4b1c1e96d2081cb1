// Package showcase builds the projects page from GitHub: it collects the
// owner's repositories plus any extra ones, filters and orders them, renders
// project cards and probes each repository for a cover image.
package showcase

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/folio/internal/model"
)

// Options selects which repositories appear on the projects page.
type Options struct {
	Username string
	// ExtraRepos are "owner/name" repositories shown in addition to the
	// user's own, typically organisation projects.
	ExtraRepos []string
	// ExcludeRepos are repository names or doublestar patterns to hide.
	// Patterns containing "/" are matched against the full name.
	ExcludeRepos []string
	ExcludeForks bool
}

// Aggregator collects repositories from a Source.
type Aggregator struct {
	source Source
}

// NewAggregator creates an Aggregator reading from source.
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Collect fetches the user's listing and every extra repository
// concurrently. If any request fails the whole collection fails. The result
// is deduplicated, filtered and sorted most recently updated first.
func (a *Aggregator) Collect(ctx context.Context, opts Options) ([]model.Repository, error) {
	results := make([][]model.Repository, 1+len(opts.ExtraRepos))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		repos, err := a.source.ListUserRepos(gctx, opts.Username)
		if err != nil {
			return fmt.Errorf("listing repositories for %s: %w", opts.Username, err)
		}
		results[0] = repos
		return nil
	})
	for i, fullName := range opts.ExtraRepos {
		g.Go(func() error {
			repo, err := a.source.GetRepo(gctx, fullName)
			if err != nil {
				return fmt.Errorf("fetching repository %s: %w", fullName, err)
			}
			results[i+1] = []model.Repository{repo}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Repository
	for _, r := range results {
		all = append(all, r...)
	}
	all = Dedupe(all)
	all = Filter(all, opts.ExcludeRepos, opts.ExcludeForks)
	SortByUpdated(all)
	return all, nil
}

// Dedupe drops repositories whose full name was already seen, keeping the
// first occurrence.
func Dedupe(repos []model.Repository) []model.Repository {
	seen := make(map[string]bool, len(repos))
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if seen[r.FullName] {
			continue
		}
		seen[r.FullName] = true
		out = append(out, r)
	}
	return out
}

// Filter removes excluded repositories and, when excludeForks is set, forks.
func Filter(repos []model.Repository, exclude []string, excludeForks bool) []model.Repository {
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if excludeForks && r.Fork {
			continue
		}
		if excluded(r, exclude) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func excluded(r model.Repository, patterns []string) bool {
	for _, p := range patterns {
		subject := r.Name
		if strings.Contains(p, "/") {
			subject = r.FullName
		}
		if p == subject {
			return true
		}
		// A malformed pattern only ever matches exactly.
		if ok, err := doublestar.Match(p, subject); err == nil && ok {
			return true
		}
	}
	return false
}

// SortByUpdated orders repositories by last update, newest first. Ties keep
// their input order.
func SortByUpdated(repos []model.Repository) {
	slices.SortStableFunc(repos, func(a, b model.Repository) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

var categories = map[string]string{
	"JavaScript": "WEB DEVELOPMENT",
	"TypeScript": "WEB DEVELOPMENT",
	"Python":     "PYTHON DEVELOPMENT",
	"Java":       "JAVA APPLICATION",
	"HTML":       "HTML / CSS",
	"CSS":        "HTML / CSS",
	"C++":        "C++ DEVELOPMENT",
	"C":          "C DEVELOPMENT",
	"Dart":       "MOBILE DEVELOPMENT",
	"Kotlin":     "MOBILE DEVELOPMENT",
	"Swift":      "MOBILE DEVELOPMENT",
}

// DefaultCategory labels repositories whose language has no mapping.
const DefaultCategory = "SOFTWARE DEVELOPMENT"

// Category maps a repository's primary language to its display label.
func Category(lang string) string {
	if c, ok := categories[lang]; ok {
		return c
	}
	return DefaultCategory
}

var (
	separatorRuns = regexp.MustCompile(`[-_]+`)
	wordStart     = regexp.MustCompile(`\b\w`)
)

// Title turns a repository name into a display title: separator runs become
// spaces and the first character after every word boundary is upper-cased,
// so "user.github.io" becomes "User.Github.Io". Names longer than two
// space-separated words keep the first two followed by "...".
func Title(name string) string {
	full := wordStart.ReplaceAllStringFunc(separatorRuns.ReplaceAllString(name, " "), strings.ToUpper)
	words := strings.Split(full, " ")
	if len(words) > 2 {
		return strings.Join(words[:2], " ") + "..."
	}
	return full
}
