package discovery

import (
	"strconv"

	"github.com/chriserin/ftorigin/internal/origin"
	"github.com/chriserin/ftorigin/internal/parser"
	"github.com/chriserin/ftorigin/internal/source"
	"github.com/chriserin/ftorigin/internal/uniqueid"
)

// Node is one entry of the discovered test tree.
type Node struct {
	ID       uniqueid.ID
	Type     string // the type of the last ID segment
	Name     string
	Line     int
	Source   source.Source
	Children []*Node
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the node with the given id, or nil.
func (n *Node) Find(id uniqueid.ID) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil || !id.HasPrefix(c.ID) {
			return false
		}
		if c.ID.Equal(id) {
			found = c
			return false
		}
		return true
	})
	return found
}

// BuildTree derives ids and sources for every node of doc.
func BuildTree(o origin.Origin, parent uniqueid.ID, doc *parser.Document) *Node {
	f := doc.Feature
	root := &Node{
		ID:     o.FeatureSegment(parent, f),
		Type:   origin.FeatureSegmentType,
		Name:   f.Name,
		Line:   f.Location.Line,
		Source: o.FeatureSource(),
	}

	for _, sc := range f.Children {
		if sc.Kind != parser.KindOutline {
			root.Children = append(root.Children, &Node{
				ID:     origin.ScenarioSegment(root.ID, sc),
				Type:   origin.ScenarioSegmentType,
				Name:   sc.Name,
				Line:   sc.Location.Line,
				Source: o.NodeSource(sc.Location),
			})
			continue
		}

		outline := &Node{
			ID:     origin.OutlineSegment(root.ID, sc),
			Type:   origin.OutlineSegmentType,
			Name:   sc.Name,
			Line:   sc.Location.Line,
			Source: o.NodeSource(sc.Location),
		}
		for _, ex := range sc.Examples {
			examples := &Node{
				ID:     origin.ExamplesSegment(outline.ID, ex),
				Type:   origin.ExamplesSegmentType,
				Name:   ex.Name,
				Line:   ex.Location.Line,
				Source: o.NodeSource(ex.Location),
			}
			for i, row := range ex.Rows {
				examples.Children = append(examples.Children, &Node{
					ID:     origin.ExampleSegment(examples.ID, row),
					Type:   origin.ExampleSegmentType,
					Name:   exampleName(i, ex.Header, row),
					Line:   row.Location.Line,
					Source: o.NodeSource(row.Location),
				})
			}
			outline.Children = append(outline.Children, examples)
		}
		root.Children = append(root.Children, outline)
	}

	return root
}

// exampleName is "Example #n" followed by the row's header=value pairs.
func exampleName(i int, header, row *parser.TableRow) string {
	name := "Example #" + strconv.Itoa(i+1)
	if header == nil {
		return name
	}
	for j, cell := range row.Cells {
		if j >= len(header.Cells) {
			break
		}
		if j == 0 {
			name += ":"
		}
		name += " " + header.Cells[j] + "=" + cell
	}
	return name
}
