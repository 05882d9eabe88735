package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var stepKeywords = []string{"Given ", "When ", "Then ", "And ", "But ", "* "}

// ParseReader reads a feature file from r and parses it.
func ParseReader(filename string, r io.Reader) (*Document, []ParseError, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	doc, errors := Parse(filename, content)
	return doc, errors, nil
}

// Parse parses a feature file and returns a Document AST and any parse errors.
// Every node carries the 1-based line and column of its keyword.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	lines := strings.Split(string(content), "\n")
	var errors []ParseError

	feature := &Feature{}
	doc := &Document{Feature: feature}

	i := 0

	// Skip leading blanks and comments
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		break
	}

	// Collect feature-level tags
	var featureTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if isTagLine(trimmed) {
			featureTags = append(featureTags, parseTags(lines[i], i+1)...)
			i++
			continue
		}
		break
	}
	feature.Tags = featureTags

	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "Feature:") {
		trimmed := strings.TrimSpace(lines[i])
		feature.Location = locate(lines, i)
		feature.Name = strings.TrimSpace(strings.TrimPrefix(trimmed, "Feature:"))
		i++

		// Scan description lines until keyword or tag
		var descLines []string
		for i < len(lines) {
			trimmed := strings.TrimSpace(lines[i])
			if isKeyword(trimmed) || isTagLine(trimmed) {
				break
			}
			descLines = append(descLines, lines[i])
			i++
		}
		feature.Description = strings.TrimRight(strings.Join(descLines, "\n"), "\n ")
	} else {
		// No Feature: line, use filename without extension
		feature.Location = Location{Line: 1, Column: 1}
		feature.Name = filenameWithoutExt(filename)
	}

	// Body loop
	var (
		pendingTags []Tag
		scenario    *Scenario
		examples    *Examples
		steps       *[]Step
	)
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if isDocStringDelimiter(trimmed) {
			i = skipDocString(lines, i)
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		if isTagLine(trimmed) {
			pendingTags = append(pendingTags, parseTags(line, i+1)...)
			i++
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "Background:"):
			pendingTags = nil // Background doesn't get tags
			bg := &Background{Location: locate(lines, i)}
			feature.Background = bg
			scenario, examples = nil, nil
			steps = &bg.Steps

		case hasAnyPrefix(trimmed, "Scenario Outline:", "Scenario Template:"):
			scenario = &Scenario{
				Location: locate(lines, i),
				Kind:     KindOutline,
				Tags:     pendingTags,
				Name:     afterColon(trimmed),
			}
			pendingTags = nil
			examples = nil
			steps = &scenario.Steps
			feature.Children = append(feature.Children, scenario)

		case hasAnyPrefix(trimmed, "Scenario:", "Example:"):
			scenario = &Scenario{
				Location: locate(lines, i),
				Kind:     KindScenario,
				Tags:     pendingTags,
				Name:     afterColon(trimmed),
			}
			pendingTags = nil
			examples = nil
			steps = &scenario.Steps
			feature.Children = append(feature.Children, scenario)

		case hasAnyPrefix(trimmed, "Examples:", "Scenarios:"):
			if scenario == nil || scenario.Kind != KindOutline {
				errors = append(errors, ParseError{Line: i + 1, Message: "Examples outside of a Scenario Outline"})
				pendingTags = nil
				i++
				i = consumeBlock(lines, i)
				continue
			}
			examples = &Examples{
				Location: locate(lines, i),
				Tags:     pendingTags,
				Name:     afterColon(trimmed),
			}
			pendingTags = nil
			steps = nil
			scenario.Examples = append(scenario.Examples, examples)

		case strings.HasPrefix(trimmed, "Rule:"):
			errors = append(errors, ParseError{Line: i + 1, Message: "Rule is not supported"})
			pendingTags = nil

		case strings.HasPrefix(trimmed, "|"):
			// Rows outside an Examples block are step data tables.
			if examples != nil {
				row := &TableRow{Location: locate(lines, i), Cells: splitCells(trimmed)}
				if examples.Header == nil {
					examples.Header = row
				} else {
					examples.Rows = append(examples.Rows, row)
				}
			}

		default:
			if kw, ok := stepKeyword(trimmed); ok && steps != nil {
				*steps = append(*steps, Step{
					Location: locate(lines, i),
					Keyword:  strings.TrimSpace(kw),
					Text:     strings.TrimSpace(strings.TrimPrefix(trimmed, kw)),
				})
			}
			// Otherwise a description line for the current block, skip
		}
		i++
	}

	return doc, errors
}

// locate returns the position of the first non-blank character on line i.
func locate(lines []string, i int) Location {
	line := lines[i]
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	return Location{Line: i + 1, Column: indent + 1}
}

func parseTags(line string, lineNumber int) []Tag {
	var tags []Tag
	for _, m := range tagPattern.FindAllStringIndex(line, -1) {
		tags = append(tags, Tag{
			Location: Location{Line: lineNumber, Column: m[0] + 1},
			Name:     line[m[0]:m[1]],
		})
	}
	return tags
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isKeyword(trimmed string) bool {
	return hasAnyPrefix(trimmed,
		"Feature:",
		"Background:",
		"Scenario:",
		"Example:",
		"Scenario Outline:",
		"Scenario Template:",
		"Rule:",
		"Examples:",
		"Scenarios:",
	)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func afterColon(trimmed string) string {
	_, name, _ := strings.Cut(trimmed, ":")
	return strings.TrimSpace(name)
}

func stepKeyword(trimmed string) (string, bool) {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return kw, true
		}
	}
	return "", false
}

// splitCells splits a table row into its cells, honouring \| and \\ escapes.
func splitCells(trimmed string) []string {
	row := strings.TrimPrefix(trimmed, "|")
	var cells []string
	var cell strings.Builder
	for j := 0; j < len(row); j++ {
		c := row[j]
		switch {
		case c == '\\' && j+1 < len(row):
			j++
			switch row[j] {
			case 'n':
				cell.WriteByte('\n')
			default:
				cell.WriteByte(row[j])
			}
		case c == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(c)
		}
	}
	// Text after the final pipe is not a cell.
	return cells
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// skipDocString advances past a doc string block. i points at the opening delimiter.
// Returns the index of the line after the closing delimiter.
func skipDocString(lines []string, i int) int {
	opener := strings.TrimSpace(lines[i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	i++ // move past opening delimiter
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == delimiter {
			return i + 1 // past the closing delimiter
		}
		i++
	}
	return i // EOF without closing delimiter
}

// consumeBlock advances past content lines, skipping over doc strings,
// until the next keyword, tag line, or EOF.
func consumeBlock(lines []string, i int) int {
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if isDocStringDelimiter(t) {
			i = skipDocString(lines, i)
			continue
		}
		if isKeyword(t) || isTagLine(t) {
			break
		}
		i++
	}
	return i
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
