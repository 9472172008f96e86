package extract

import (
	"html"
	"regexp"
	"strings"
)

var (
	xmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	paragraphEnds = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
)

// stripTags converts WordprocessingML to plain text: paragraph and line breaks
// become newlines, all other tags are dropped, entities are unescaped and runs
// of whitespace inside a line are collapsed.
func stripTags(content string) string {
	withBreaks := paragraphEnds.ReplaceAllString(content, "\n")
	plain := html.UnescapeString(xmlTagRegex.ReplaceAllString(withBreaks, ""))

	lines := strings.Split(plain, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
