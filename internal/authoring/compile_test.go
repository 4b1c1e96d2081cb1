package authoring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/folio/internal/model"
)

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

const fullPost = `---
id: "go-errors"
title: "Handling errors in Go"
date: "2024-03-10"
category: "Go"
excerpt: "Wrapping, sentinels and types."
image: "assets/img/blog/errors.jpg"
tags: ["go", "errors"]
---
# Heading is ignored

Errors are values.
They can be wrapped with **fmt.Errorf**.

Use ` + "`errors.Is`" + ` to compare.

- Wrap with %w
- Compare with errors.Is
- Inspect with [errors.As](https://pkg.go.dev/errors#As)

Keep messages lowercase.

That is all.
`

func TestCompile(t *testing.T) {
	got, err := NewCompiler(nil).Compile("posts/go-errors.md", []byte(fullPost))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := model.Post{
		ID:       "go-errors",
		Title:    "Handling errors in Go",
		Date:     "2024-03-10",
		Category: "Go",
		Excerpt:  "Wrapping, sentinels and types.",
		Image:    "assets/img/blog/errors.jpg",
		Tags:     []string{"go", "errors"},
		Content: []string{
			"Errors are values. They can be wrapped with fmt.Errorf.",
			"Use errors.Is to compare.",
		},
		Bullets: []string{"Wrap with %w", "Compare with errors.Is", "Inspect with errors.As"},
		Closing: "Keep messages lowercase. That is all.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compile mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileDefaults(t *testing.T) {
	src := "---\ntitle: \"Plain\"\n---\nOnly paragraph.\n"
	got, err := NewCompiler(nil).Compile("notes/plain-post.md", []byte(src))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got.ID != "plain-post" {
		t.Errorf("ID = %q, want file name", got.ID)
	}
	if got.Excerpt != "Only paragraph." {
		t.Errorf("Excerpt = %q, want first paragraph", got.Excerpt)
	}
	if got.Bullets != nil || got.Closing != "" {
		t.Errorf("expected no bullets or closing, got %v %q", got.Bullets, got.Closing)
	}
}

func TestCompileRequiresTitle(t *testing.T) {
	if _, err := NewCompiler(nil).Compile("a.md", []byte("no front matter\n")); err == nil {
		t.Error("expected error for post without title")
	}
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "old.md", "---\ntitle: \"Old\"\ndate: \"2022-01-01\"\n---\nbody\n")
	writeTestFile(t, dir, "nested/new.md", "---\ntitle: \"New\"\ndate: \"March 5, 2024\"\n---\nbody\n")
	writeTestFile(t, dir, "mid.md", "---\ntitle: \"Mid\"\ndate: \"2023-06-01\"\n---\nbody\n")
	writeTestFile(t, dir, "undated.md", "---\ntitle: \"Undated\"\ndate: \"someday\"\n---\nbody\n")
	writeTestFile(t, dir, "readme.txt", "ignored")

	posts, err := NewCompiler(nil).CompileDir(dir, "")
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}

	var ids []string
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"new", "mid", "old", "undated"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileDirDuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.md", "---\nid: \"same\"\ntitle: \"A\"\n---\nx\n")
	writeTestFile(t, dir, "b.md", "---\nid: \"same\"\ntitle: \"B\"\n---\ny\n")

	if _, err := NewCompiler(nil).CompileDir(dir, ""); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestWriteFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data", "blog.json")
	posts := []model.Post{{ID: "1", Title: "T", Content: []string{"p"}}}
	if err := WriteFile(out, posts); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got []model.Post
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if diff := cmp.Diff(posts, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-01-02", true},
		{"2024-01-02T10:00:00Z", true},
		{"January 2, 2024", true},
		{"Jan 2, 2024", true},
		{"2 January 2024", true},
		{"02 Jan 2024", true},
		{"soon", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := parseDate(tt.in); ok != tt.ok {
			t.Errorf("parseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}
