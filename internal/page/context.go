// Package page classifies a request path into the kind of page being loaded.
package page

import (
	"net/url"
	"strings"
)

// Kind is the logical page a document represents.
type Kind int

const (
	KindOther Kind = iota
	KindLanding
	KindAbout
	KindCredentials
	KindContact
	KindBlogList
	KindBlogDetail
	KindProjects
)

var kindNames = map[Kind]string{
	KindOther:       "other",
	KindLanding:     "landing",
	KindAbout:       "about",
	KindCredentials: "credentials",
	KindContact:     "contact",
	KindBlogList:    "blog-list",
	KindBlogDetail:  "blog-detail",
	KindProjects:    "projects",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// files maps a page's file name to its kind.
var files = map[string]Kind{
	"":                  KindLanding,
	"index.html":        KindLanding,
	"about.html":        KindAbout,
	"credentials.html":  KindCredentials,
	"contact.html":      KindContact,
	"blog.html":         KindBlogList,
	"blog-details.html": KindBlogDetail,
	"works.html":        KindProjects,
}

// Context is the resolved identity of one page load.
type Context struct {
	Kind Kind
	// PostID is the requested blog post on a blog-detail page. HasPostID is
	// false when the query carried no id, which means "first post".
	PostID    string
	HasPostID bool
}

// Resolve classifies urlPath by its final segment and, for the blog detail
// page, reads the id query parameter from rawQuery.
func Resolve(urlPath, rawQuery string) Context {
	segment := urlPath
	if idx := strings.LastIndex(urlPath, "/"); idx >= 0 {
		segment = urlPath[idx+1:]
	}

	ctx := Context{Kind: files[segment]}
	if ctx.Kind != KindBlogDetail {
		return ctx
	}

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ctx
	}
	if id := q.Get("id"); id != "" {
		ctx.PostID = id
		ctx.HasPostID = true
	}
	return ctx
}

// ResolveURL is Resolve for a parsed URL.
func ResolveURL(u *url.URL) Context {
	return Resolve(u.Path, u.RawQuery)
}

// NeedsProfile reports whether the page reads the profile document. Blog
// detail pages use it for the owner name in the title.
func (c Context) NeedsProfile() bool {
	switch c.Kind {
	case KindLanding, KindAbout, KindCredentials, KindContact, KindBlogDetail:
		return true
	}
	return false
}

// NeedsBlog reports whether the page is populated from the blog document.
func (c Context) NeedsBlog() bool {
	return c.Kind == KindBlogList || c.Kind == KindBlogDetail
}

// NeedsProjects reports whether the page shows the repository showcase.
func (c Context) NeedsProjects() bool {
	return c.Kind == KindProjects
}
