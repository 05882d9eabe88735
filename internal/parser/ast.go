package parser

import "net/url"

// Location is a 1-based line and column in a feature file.
type Location struct {
	Line   int
	Column int
}

type Document struct {
	Feature *Feature
}

type Feature struct {
	Location    Location
	Tags        []Tag
	Name        string
	Description string
	// URI is the logical address the document was read from. Set by the
	// caller; Parse leaves it nil.
	URI        *url.URL
	Background *Background
	Children   []*Scenario
}

type Background struct {
	Location Location
	Steps    []Step
}

type ScenarioKind int

const (
	KindScenario ScenarioKind = iota
	KindOutline
)

func (k ScenarioKind) String() string {
	if k == KindOutline {
		return "Scenario Outline"
	}
	return "Scenario"
}

// Scenario is a Scenario or a Scenario Outline. Only outlines carry Examples.
type Scenario struct {
	Location Location
	Kind     ScenarioKind
	Tags     []Tag
	Name     string
	Steps    []Step
	Examples []*Examples
}

type Examples struct {
	Location Location
	Tags     []Tag
	Name     string
	Header   *TableRow
	Rows     []*TableRow
}

type TableRow struct {
	Location Location
	Cells    []string
}

type Tag struct {
	Location Location
	Name     string // e.g. "@smoke"
}

type Step struct {
	Location Location
	Keyword  string // Given, When, Then, And, But, *
	Text     string
}

type ParseError struct {
	Line    int
	Message string
}
