// Package site exports a portfolio as a static site with every page
// pre-populated from its data documents.
package site

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/folio/internal/dom"
	"github.com/ziadkadry99/folio/internal/loader"
	"github.com/ziadkadry99/folio/internal/page"
	"github.com/ziadkadry99/folio/internal/progress"
)

// Exporter renders a site directory into an output directory.
type Exporter struct {
	SiteDir   string
	OutputDir string
	// Pages are doublestar patterns, relative to SiteDir, selecting the
	// pages to populate. Everything else is copied verbatim.
	Pages []string
	// Exclude are doublestar patterns, matched against the relative path
	// and the base name, for files and directories left out of the export.
	Exclude []string
	// ProbeWait bounds how long each projects page waits for cover probes.
	ProbeWait time.Duration
	// Concurrency bounds how many pages render at once.
	Concurrency int

	Loader   *loader.Loader
	Logger   *zap.Logger
	Progress progress.Reporter
}

// Report summarises an export.
type Report struct {
	Pages  int
	Assets int
	// Degraded lists pages that kept some fallback markup because a data
	// document could not be loaded.
	Degraded []string
}

// Export copies the site and writes every populated page.
func (e *Exporter) Export(ctx context.Context) (*Report, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	siteAbs, err := filepath.Abs(e.SiteDir)
	if err != nil {
		return nil, fmt.Errorf("resolving site dir: %w", err)
	}
	outAbs, err := filepath.Abs(e.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output dir: %w", err)
	}
	if outAbs == siteAbs {
		return nil, fmt.Errorf("output dir must differ from site dir")
	}

	pages, err := e.findPages(siteAbs, outAbs)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages matching %v found in %s", e.Pages, e.SiteDir)
	}

	if err := os.MkdirAll(outAbs, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	isPage := make(map[string]bool, len(pages))
	for _, p := range pages {
		isPage[p] = true
	}
	assets, err := copySite(siteAbs, outAbs, isPage, e.Exclude)
	if err != nil {
		return nil, fmt.Errorf("copying site: %w", err)
	}

	reporter := e.Progress
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(pages))
	defer reporter.Finish()

	report := &Report{Pages: len(pages), Assets: assets}
	var (
		mu   sync.Mutex
		done int
	)

	limit := e.Concurrency
	if limit < 1 {
		limit = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, rel := range pages {
		g.Go(func() error {
			degraded, err := e.exportPage(gctx, siteAbs, outAbs, rel)
			if err != nil {
				return fmt.Errorf("exporting %s: %w", rel, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if degraded {
				report.Degraded = append(report.Degraded, rel)
				logger.Warn("page exported with fallback content", zap.String("page", rel))
			}
			done++
			reporter.Update(done, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(report.Degraded)
	return report, nil
}

// findPages returns the slash-separated page paths matching e.Pages,
// sorted and without duplicates.
func (e *Exporter) findPages(siteAbs, outAbs string) ([]string, error) {
	fsys := os.DirFS(siteAbs)
	outRel, _ := filepath.Rel(siteAbs, outAbs)
	outRel = filepath.ToSlash(outRel)

	seen := make(map[string]bool)
	var pages []string
	for _, pattern := range e.Pages {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || within(m, outRel) || excluded(m, e.Exclude) {
				continue
			}
			seen[m] = true
			pages = append(pages, m)
		}
	}
	slices.Sort(pages)
	return pages, nil
}

func (e *Exporter) exportPage(ctx context.Context, siteAbs, outAbs, rel string) (bool, error) {
	f, err := os.Open(filepath.Join(siteAbs, filepath.FromSlash(rel)))
	if err != nil {
		return false, err
	}
	doc, err := dom.Parse(f)
	f.Close()
	if err != nil {
		return false, err
	}

	res := e.Loader.Run(ctx, doc, rel, page.Resolve("/"+rel, ""))
	if res.Probes != nil && e.ProbeWait > 0 {
		wctx, cancel := context.WithTimeout(ctx, e.ProbeWait)
		_ = res.Probes.Wait(wctx)
		cancel()
	}

	dst := filepath.Join(outAbs, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return false, err
	}
	if err := doc.Render(out); err != nil {
		out.Close()
		return false, err
	}
	if err := out.Close(); err != nil {
		return false, err
	}

	degraded := res.ProfileErr != nil || res.BlogErr != nil || res.ProjectsErr != nil
	return degraded, nil
}

// copySite copies every file under src except pages, hidden entries and the
// output directory itself. It returns the number of files copied.
func copySite(src, dst string, isPage map[string]bool, exclude []string) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dst {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && (strings.HasPrefix(d.Name(), ".") || excluded(rel, exclude)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		destPath := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}
		if isPage[filepath.ToSlash(rel)] {
			return nil
		}

		copied++
		return copyFile(path, destPath)
	})
	return copied, err
}

// copyFile copies a single file.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// excluded reports whether rel, or its base name, matches any pattern.
func excluded(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

func within(rel, dir string) bool {
	if dir == "" || dir == "." || strings.HasPrefix(dir, "..") {
		return false
	}
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}
