package dom

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testPage = `<!DOCTYPE html>
<html><head><title>Fallback</title></head>
<body>
<h1 id="index-name">Static Name</h1>
<ul id="list"><li>static</li></ul>
<div id="cover" class="project-img"><img alt="Project"></div>
<script src="../assets/js/main.js"></script>
<script>inline()</script>
<script src="../assets/js/data-loader.js"></script>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	return doc
}

func TestSetTextEscapes(t *testing.T) {
	doc := mustParse(t, testPage)

	if !doc.SetText("index-name", "<b>Ada</b>") {
		t.Fatal("SetText() reported missing element")
	}
	got, _ := doc.Text("index-name")
	if got != "<b>Ada</b>" {
		t.Errorf("Text() = %q", got)
	}
	if !strings.Contains(doc.String(), "&lt;b&gt;Ada&lt;/b&gt;") {
		t.Error("text should be escaped when rendered")
	}
}

func TestSetTextMissingElement(t *testing.T) {
	doc := mustParse(t, testPage)
	before := doc.String()
	if doc.SetText("nope", "x") {
		t.Error("SetText() on a missing id should report false")
	}
	if doc.String() != before {
		t.Error("document changed after writing to a missing id")
	}
}

func TestSetHTMLReplacesChildren(t *testing.T) {
	doc := mustParse(t, testPage)

	ok, err := doc.SetHTML("list", `<li>one</li><li>two</li>`)
	if err != nil || !ok {
		t.Fatalf("SetHTML() = %v, %v", ok, err)
	}
	got, _ := doc.InnerHTML("list")
	if got != `<li>one</li><li>two</li>` {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestTitle(t *testing.T) {
	doc := mustParse(t, testPage)
	if doc.Title() != "Fallback" {
		t.Errorf("Title() = %q", doc.Title())
	}
	doc.SetTitle("Post - Ada")
	if doc.Title() != "Post - Ada" {
		t.Errorf("Title() after SetTitle = %q", doc.Title())
	}
}

func TestSetTitleCreatesElement(t *testing.T) {
	doc := mustParse(t, `<html><head></head><body></body></html>`)
	doc.SetTitle("New")
	if doc.Title() != "New" {
		t.Errorf("Title() = %q, want New", doc.Title())
	}
}

func TestHideShow(t *testing.T) {
	doc := mustParse(t, testPage)

	doc.Hide("cover")
	if !doc.Hidden("cover") {
		t.Error("cover should be hidden")
	}
	doc.Show("cover")
	if doc.Hidden("cover") {
		t.Error("cover should be visible")
	}
	if _, ok := doc.Attr("cover", "class"); !ok {
		t.Error("Show() must keep other attributes")
	}
}

func TestSetImageSource(t *testing.T) {
	doc := mustParse(t, testPage)
	if !doc.SetImageSource("cover", "https://raw.example/cover.jpg") {
		t.Fatal("SetImageSource() reported no image")
	}
	inner, _ := doc.InnerHTML("cover")
	if !strings.Contains(inner, `src="https://raw.example/cover.jpg"`) {
		t.Errorf("InnerHTML() = %q", inner)
	}
}

func TestScriptSources(t *testing.T) {
	doc := mustParse(t, testPage)
	want := []string{"../assets/js/main.js", "../assets/js/data-loader.js"}
	if diff := cmp.Diff(want, doc.ScriptSources()); diff != "" {
		t.Errorf("ScriptSources() mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendToBody(t *testing.T) {
	doc := mustParse(t, testPage)
	if err := doc.AppendToBody(`<script src="/__livereload.js"></script>`); err != nil {
		t.Fatal(err)
	}
	srcs := doc.ScriptSources()
	if srcs[len(srcs)-1] != "/__livereload.js" {
		t.Errorf("last script = %q", srcs[len(srcs)-1])
	}
}

func TestConcurrentWrites(t *testing.T) {
	doc := mustParse(t, testPage)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc.Hide("cover")
			doc.SetText("index-name", "x")
			_ = doc.String()
		}()
	}
	wg.Wait()
}
