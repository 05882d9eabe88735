package parser

import (
	"strings"
)

// Excerpt returns the raw text of sc: from its keyword line to the end of the
// scenario, excluding the tags and blank lines that precede the next block.
func Excerpt(doc *Document, content []byte, sc *Scenario) string {
	if doc == nil || doc.Feature == nil || sc == nil {
		return ""
	}

	lines := strings.Split(string(content), "\n")
	startLine := sc.Location.Line - 1 // 0-based
	if startLine < 0 || startLine >= len(lines) {
		return ""
	}
	endLine := len(lines)

	var boundaries []int
	for _, other := range doc.Feature.Children {
		boundaries = append(boundaries, other.Location.Line)
	}
	if bg := doc.Feature.Background; bg != nil {
		boundaries = append(boundaries, bg.Location.Line)
	}

	// Find the next block's start line or use end of file
	for _, b := range boundaries {
		if b <= sc.Location.Line || b-1 >= endLine {
			continue
		}
		candidateEnd := b - 1 // 0-based index of next keyword line
		// Walk back to exclude tag lines and blank lines before the next block
		for candidateEnd > startLine {
			t := strings.TrimSpace(lines[candidateEnd-1])
			if t == "" || strings.HasPrefix(t, "@") || strings.HasPrefix(t, "#") {
				candidateEnd--
			} else {
				break
			}
		}
		if candidateEnd < endLine {
			endLine = candidateEnd
		}
	}

	// Trim trailing blank lines
	for endLine > startLine && strings.TrimSpace(lines[endLine-1]) == "" {
		endLine--
	}

	return strings.Join(lines[startLine:endLine], "\n")
}
