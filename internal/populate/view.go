// Package populate maps fetched documents onto the insertion points of each
// page. Every function here is pure: it returns a View and never touches a
// document. Fields that are absent produce no fragment, so the page's
// fallback markup stays in place for them.
package populate

// Fragment is one write into the element with the given id.
type Fragment struct {
	ID      string
	Content string
	// HTML marks Content as markup to parse into the element. Otherwise
	// Content replaces the element's children as a single text node.
	HTML bool
}

// View is everything a populator wants written into a page.
type View struct {
	// Title replaces the document title when non-empty.
	Title     string
	Fragments []Fragment
}

// Lookup returns the fragment targeting id.
func (v View) Lookup(id string) (Fragment, bool) {
	for _, f := range v.Fragments {
		if f.ID == id {
			return f, true
		}
	}
	return Fragment{}, false
}

// Empty reports whether the view writes nothing.
func (v View) Empty() bool {
	return v.Title == "" && len(v.Fragments) == 0
}

func (v *View) text(id, s string) {
	if s == "" {
		return
	}
	v.Fragments = append(v.Fragments, Fragment{ID: id, Content: s})
}

func (v *View) html(id, s string) {
	if s == "" {
		return
	}
	v.Fragments = append(v.Fragments, Fragment{ID: id, Content: s, HTML: true})
}
