// Package authoring compiles Markdown posts with front matter into the blog
// document read by the site.
package authoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/model"
)

// DefaultPattern selects the posts inside a source directory.
const DefaultPattern = "**/*.md"

// dateLayouts are tried in order when sorting posts.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
}

type frontMatter struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Category string   `yaml:"category"`
	Excerpt  string   `yaml:"excerpt"`
	Image    string   `yaml:"image"`
	Tags     []string `yaml:"tags"`
}

// Compiler turns Markdown sources into posts.
type Compiler struct {
	md     goldmark.Markdown
	logger *zap.Logger
}

// NewCompiler creates a compiler. A nil logger discards warnings.
func NewCompiler(logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger: logger,
	}
}

// CompileDir compiles every file under dir matching pattern and returns the
// posts most recent first. Post ids must be unique.
func (c *Compiler) CompileDir(dir, pattern string) ([]model.Post, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}
	slices.Sort(matches)

	posts := make([]model.Post, 0, len(matches))
	dates := make(map[string]time.Time, len(matches))
	sources := make(map[string]string, len(matches))
	for _, rel := range matches {
		src, err := fs.ReadFile(os.DirFS(dir), rel)
		if err != nil {
			return nil, err
		}
		post, err := c.Compile(rel, src)
		if err != nil {
			return nil, fmt.Errorf("compiling %s: %w", rel, err)
		}
		if prev, ok := sources[post.ID]; ok {
			return nil, fmt.Errorf("post id %q used by both %s and %s", post.ID, prev, rel)
		}
		sources[post.ID] = rel

		when, ok := parseDate(post.Date)
		if !ok {
			c.logger.Warn("unrecognised post date, sorting last",
				zap.String("file", rel), zap.String("date", post.Date))
		}
		dates[post.ID] = when
		posts = append(posts, post)
	}

	slices.SortStableFunc(posts, func(a, b model.Post) int {
		da, db := dates[a.ID], dates[b.ID]
		switch {
		case da.IsZero() && db.IsZero():
			return 0
		case da.IsZero():
			return 1
		case db.IsZero():
			return -1
		}
		return db.Compare(da)
	})
	return posts, nil
}

// Compile converts one Markdown source. name supplies the id when the front
// matter has none. Paragraphs before the first list become the content, the
// list items become bullets and paragraphs after the list the closing.
func (c *Compiler) Compile(name string, src []byte) (model.Post, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return model.Post{}, fmt.Errorf("parsing front matter: %w", err)
	}
	if fm.Title == "" {
		return model.Post{}, fmt.Errorf("front matter has no title")
	}

	post := model.Post{
		ID:       fm.ID,
		Title:    fm.Title,
		Date:     fm.Date,
		Category: fm.Category,
		Excerpt:  fm.Excerpt,
		Image:    fm.Image,
		Tags:     fm.Tags,
		Content:  []string{},
	}
	if post.ID == "" {
		post.ID = strings.TrimSuffix(path.Base(filepath.ToSlash(name)), path.Ext(name))
	}

	doc := c.md.Parser().Parse(text.NewReader(body))
	var closing []string
	seenList := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case ast.KindParagraph:
			t := plainText(n, body)
			if t == "" {
				continue
			}
			if seenList {
				closing = append(closing, t)
			} else {
				post.Content = append(post.Content, t)
			}
		case ast.KindList:
			if seenList {
				continue
			}
			seenList = true
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if t := plainText(item, body); t != "" {
					post.Bullets = append(post.Bullets, t)
				}
			}
		}
	}
	post.Closing = strings.Join(closing, " ")

	if post.Excerpt == "" && len(post.Content) > 0 {
		post.Excerpt = post.Content[0]
	}
	return post, nil
}

// WriteFile writes posts as indented JSON.
func WriteFile(filename string, posts []model.Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), 0o644)
}

// plainText flattens the inline text below n. Line breaks become spaces and
// blocks inside n are separated by a space.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if c != n && c.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
