// Package render holds the escaping helpers every populator uses before
// placing fetched text into an HTML fragment.
package render

import "strings"

// contentReplacer mirrors what a DOM text node serializes to when read back
// through innerHTML.
var contentReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\u00a0", "&nbsp;",
)

// Content escapes s for use as element content. An empty string yields an
// empty string.
func Content(s string) string {
	if s == "" {
		return ""
	}
	return contentReplacer.Replace(s)
}

// Attribute escapes s for use inside a double-quoted attribute value.
func Attribute(s string) string {
	return strings.ReplaceAll(Content(s), `"`, "&quot;")
}
