package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

type doc struct {
	Name string `json:"name"`
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFetchJSONLocal(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "data", "profile.json"), `{"name":"Ada"}`)

	f, err := New(root, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var d doc
	if err := f.FetchJSON(context.Background(), "data/profile.json", &d); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if d.Name != "Ada" {
		t.Errorf("Name = %q, want %q", d.Name, "Ada")
	}
}

func TestFetchJSONLocalMissing(t *testing.T) {
	f, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var d doc
	err = f.FetchJSON(context.Background(), "data/profile.json", &d)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if errors.Is(err, ErrDecode) {
		t.Error("missing file should not be a decode failure")
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Errorf("expected *Error with status 404, got %#v", err)
	}
}

func TestFetchJSONLocalMalformed(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "data", "blog.json"), `[{"id": `)

	f, _ := New(root, nil)
	var posts []doc
	err := f.FetchJSON(context.Background(), "data/blog.json", &posts)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestWithinResolvesPageRelativePrefix(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "data", "profile.json"), `{"name":"Nested"}`)

	f, _ := New(root, nil)
	nested := f.Within("blog").Within("../")

	var d doc
	if err := nested.FetchJSON(context.Background(), "data/profile.json", &d); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if d.Name != "Nested" {
		t.Errorf("Name = %q, want %q", d.Name, "Nested")
	}

	abs := f.Within("blog").Within("/")
	if err := abs.FetchJSON(context.Background(), "data/profile.json", &d); err != nil {
		t.Fatalf("root-relative prefix: %v", err)
	}
}

func TestLocalPathCannotEscapeRoot(t *testing.T) {
	f, _ := New(t.TempDir(), nil)
	var d doc
	err := f.Within("../../").FetchJSON(context.Background(), "etc/passwd", &d)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
}

func TestFetchJSONRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site/data/profile.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"Remote"}`))
		case "/site/data/broken.json":
			w.Write([]byte(`<html>not json</html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := New(srv.URL+"/site", srv.Client())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var d doc
	if err := f.FetchJSON(context.Background(), "data/profile.json", &d); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if d.Name != "Remote" {
		t.Errorf("Name = %q, want %q", d.Name, "Remote")
	}

	err = f.FetchJSON(context.Background(), "data/missing.json", &d)
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindFetch || fe.Status != http.StatusNotFound {
		t.Errorf("missing: got %v, want fetch error with status 404", err)
	}

	err = f.FetchJSON(context.Background(), "data/broken.json", &d)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("broken: got %v, want ErrDecode", err)
	}
}

func TestFetchJSONRemoteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f, _ := New(base, nil)
	var d doc
	err := f.FetchJSON(context.Background(), "data/profile.json", &d)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		{"https://cdn.example.com/site/", true},
		{"http://localhost:8080/", true},
		{"//cdn.example.com/site/", true},
		{"/portfolio/", false},
		{"../", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.location); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.location, got, tt.want)
		}
	}
}

func TestRebase(t *testing.T) {
	local, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	remote, err := New("http://origin.example.com/", nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		from    *Fetcher
		base    string
		want    string
		wantErr bool
	}{
		{"absolute from local", local, "https://cdn.example.com/site/", "https://cdn.example.com/site/data/profile.json", false},
		{"absolute without slash", local.Within("pages"), "https://cdn.example.com/site", "https://cdn.example.com/site/data/profile.json", false},
		{"protocol relative from local", local, "//cdn.example.com/site/", "https://cdn.example.com/site/data/profile.json", false},
		{"protocol relative from remote", remote, "//cdn.example.com/", "http://cdn.example.com/data/profile.json", false},
		{"not a url", local, "/portfolio/", "", true},
		{"bad port", local, "https://cdn.example.com:port/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.from.Rebase(tt.base)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Rebase(%q) succeeded, want error", tt.base)
				}
				return
			}
			if err != nil {
				t.Fatalf("Rebase(%q): %v", tt.base, err)
			}
			got, err := f.Location("data/profile.json")
			if err != nil {
				t.Fatalf("Location: %v", err)
			}
			if got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFound("post 99")
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound should match ErrNotFound")
	}
	if errors.Is(err, ErrFetch) {
		t.Error("NotFound should not match ErrFetch")
	}
}

func TestDetectBasePath(t *testing.T) {
	tests := []struct {
		srcs []string
		want string
	}{
		{[]string{"assets/js/jquery.min.js", "assets/js/data-loader.js"}, ""},
		{[]string{"../assets/js/data-loader.js"}, "../"},
		{[]string{"/portfolio/assets/js/data-loader.js?v=3"}, "/portfolio/"},
		{[]string{"assets/js/main.js"}, ""},
		{[]string{"https://cdn.example.com/site/assets/js/data-loader.js"}, "https://cdn.example.com/site/"},
		{nil, ""},
	}
	for _, tt := range tests {
		got := DetectBasePath(tt.srcs, "")
		if got != tt.want {
			t.Errorf("DetectBasePath(%v) = %q, want %q", tt.srcs, got, tt.want)
		}
	}
}
