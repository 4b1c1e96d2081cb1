package content

import "strings"

// DefaultLoaderScript is the script every populated page includes. Its src
// tells where the site root sits relative to the page.
const DefaultLoaderScript = "assets/js/data-loader.js"

// DetectBasePath returns the text in front of marker in the first script
// source that contains it, so "../assets/js/data-loader.js" yields "../".
// It returns "" when no source matches.
func DetectBasePath(scriptSrcs []string, marker string) string {
	if marker == "" {
		marker = DefaultLoaderScript
	}
	for _, src := range scriptSrcs {
		if idx := strings.Index(src, marker); idx >= 0 {
			return src[:idx]
		}
	}
	return ""
}
