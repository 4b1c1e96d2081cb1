package site

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/loader"
	"github.com/ziadkadry99/folio/internal/progress"
)

const profileJSON = `{
  "name": "Ada Lovelace",
  "headline": "Engineer",
  "about": "Short bio.",
  "email": "ada@example.com",
  "experienceStartYear": 2021,
  "experience": [],
  "education": []
}`

func writeTestFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func newExporter(t *testing.T, site, out string) *Exporter {
	t.Helper()
	f, err := content.New(site, nil)
	if err != nil {
		t.Fatal(err)
	}
	ld := loader.New(f, nil, nil, loader.Config{
		ProfilePath:  "data/profile.json",
		BlogPath:     "data/blog.json",
		LoaderScript: "assets/js/data-loader.js",
	}, nil)
	return &Exporter{
		SiteDir:   site,
		OutputDir: out,
		Pages:     []string{"**/*.html"},
		Loader:    ld,
	}
}

func testPage(nameID, script string) string {
	return `<!DOCTYPE html><html><head><title>Fallback</title></head><body>` +
		`<h1 id="` + nameID + `">Fallback Name</h1>` +
		`<script src="` + script + `"></script></body></html>`
}

func TestExportPopulatesPages(t *testing.T) {
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist")

	writeTestFile(t, site, "index.html", testPage("index-name", "assets/js/data-loader.js"))
	writeTestFile(t, site, "pages/about.html", testPage("about-name", "../assets/js/data-loader.js"))
	writeTestFile(t, site, "data/profile.json", profileJSON)
	writeTestFile(t, site, "assets/js/data-loader.js", "// loader")
	writeTestFile(t, site, "assets/css/site.css", "body{}")

	var buf bytes.Buffer
	e := newExporter(t, site, out)
	e.Progress = &progress.CIReporter{Out: &buf}

	report, err := e.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if report.Pages != 2 {
		t.Errorf("Pages = %d, want 2", report.Pages)
	}
	if report.Assets != 3 {
		t.Errorf("Assets = %d, want 3", report.Assets)
	}
	if len(report.Degraded) != 0 {
		t.Errorf("Degraded = %v, want none", report.Degraded)
	}

	for _, rel := range []string{"index.html", "pages/about.html"} {
		html := readFile(t, out, rel)
		if !strings.Contains(html, "Ada Lovelace") {
			t.Errorf("%s was not populated:\n%s", rel, html)
		}
		if strings.Contains(html, "Fallback Name") {
			t.Errorf("%s still has fallback name", rel)
		}
	}

	if got := readFile(t, out, "assets/css/site.css"); got != "body{}" {
		t.Errorf("asset = %q, want copied verbatim", got)
	}
	if !strings.Contains(buf.String(), "Exporting 2 pages") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestExportDegradedPage(t *testing.T) {
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist")
	writeTestFile(t, site, "index.html", testPage("index-name", "assets/js/data-loader.js"))

	report, err := newExporter(t, site, out).Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if diff := cmp.Diff([]string{"index.html"}, report.Degraded); diff != "" {
		t.Errorf("Degraded mismatch (-want +got):\n%s", diff)
	}
	if html := readFile(t, out, "index.html"); !strings.Contains(html, "Fallback Name") {
		t.Errorf("fallback markup should be kept:\n%s", html)
	}
}

func TestExportSkipsNestedOutputAndHidden(t *testing.T) {
	site := t.TempDir()
	out := filepath.Join(site, "dist")

	writeTestFile(t, site, "index.html", testPage("index-name", "assets/js/data-loader.js"))
	writeTestFile(t, site, "dist/old.html", "stale")
	writeTestFile(t, site, ".git/config", "secret")
	writeTestFile(t, site, ".folio.yml", "site_dir: .")

	report, err := newExporter(t, site, out).Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if report.Pages != 1 {
		t.Errorf("Pages = %d, want 1", report.Pages)
	}
	if report.Assets != 0 {
		t.Errorf("Assets = %d, want 0", report.Assets)
	}
	if _, err := os.Stat(filepath.Join(out, "dist")); !os.IsNotExist(err) {
		t.Errorf("output dir was copied into itself: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, ".git")); !os.IsNotExist(err) {
		t.Errorf("hidden dir was copied: %v", err)
	}
}

func TestExportPagePatterns(t *testing.T) {
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist")

	writeTestFile(t, site, "index.html", testPage("index-name", "assets/js/data-loader.js"))
	writeTestFile(t, site, "drafts/wip.html", testPage("index-name", "../assets/js/data-loader.js"))
	writeTestFile(t, site, "data/profile.json", profileJSON)

	e := newExporter(t, site, out)
	e.Pages = []string{"*.html"}
	report, err := e.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if report.Pages != 1 {
		t.Errorf("Pages = %d, want 1", report.Pages)
	}

	// Unmatched HTML is copied as an asset.
	if got := readFile(t, out, "drafts/wip.html"); !strings.Contains(got, "Fallback Name") {
		t.Errorf("unmatched page should be copied verbatim:\n%s", got)
	}
}

func TestExportErrors(t *testing.T) {
	site := t.TempDir()

	t.Run("same dir", func(t *testing.T) {
		if _, err := newExporter(t, site, site).Export(context.Background()); err == nil {
			t.Error("expected error when output equals site dir")
		}
	})

	t.Run("no pages", func(t *testing.T) {
		writeTestFile(t, site, "readme.txt", "hi")
		if _, err := newExporter(t, site, t.TempDir()).Export(context.Background()); err == nil {
			t.Error("expected error when no page matches")
		}
	})
}

func TestExportExclude(t *testing.T) {
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist")

	writeTestFile(t, site, "index.html", testPage("index-name", "assets/js/data-loader.js"))
	writeTestFile(t, site, "node_modules/pkg/index.js", "x")
	writeTestFile(t, site, "README.md", "# site")
	writeTestFile(t, site, "drafts/wip.html", "draft")
	writeTestFile(t, site, "assets/app.js", "y")

	e := newExporter(t, site, out)
	e.Exclude = []string{"drafts/**", "node_modules", "*.md"}
	report, err := e.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if report.Pages != 1 || report.Assets != 1 {
		t.Errorf("Pages = %d, Assets = %d, want 1 and 1", report.Pages, report.Assets)
	}
	for _, rel := range []string{"node_modules", "README.md", "drafts/wip.html"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			t.Errorf("%s should be excluded: %v", rel, err)
		}
	}
}

func TestExcluded(t *testing.T) {
	patterns := []string{"node_modules", "*.md", "drafts/**"}
	tests := []struct {
		rel  string
		want bool
	}{
		{"node_modules", true},
		{"web/node_modules", true},
		{"README.md", true},
		{"docs/notes.md", true},
		{"drafts/a/b.html", true},
		{"index.html", false},
		{"assets/modules.js", false},
	}
	for _, tt := range tests {
		if got := excluded(tt.rel, patterns); got != tt.want {
			t.Errorf("excluded(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		rel, dir string
		want     bool
	}{
		{"dist/index.html", "dist", true},
		{"dist", "dist", true},
		{"distro/index.html", "dist", false},
		{"index.html", ".", false},
		{"index.html", "../out", false},
	}
	for _, tt := range tests {
		if got := within(tt.rel, tt.dir); got != tt.want {
			t.Errorf("within(%q, %q) = %v, want %v", tt.rel, tt.dir, got, tt.want)
		}
	}
}
