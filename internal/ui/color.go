package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle    = lipgloss.NewStyle().Faint(true)
	delStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	typeStyle   = lipgloss.NewStyle().Bold(true)
	idStyle     = lipgloss.NewStyle().Faint(true)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func NewLine(w io.Writer, uri string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+uri)
}

func TrkLine(w io.Writer, uri string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+uri)
}

func SummaryLine(w io.Writer, count int, removed int64) {
	if removed > 0 {
		fmt.Fprintf(w, "synced %d features, %s\n", count, delStyle.Render(fmt.Sprintf("removed %d", removed)))
		return
	}
	fmt.Fprintf(w, "synced %d features\n", count)
}

// NodeLine prints one node of a discovered tree, indented by depth.
func NodeLine(w io.Writer, depth int, nodeType, name, source string) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s  %s\n", indent, typeStyle.Render(nodeType), name, sourceStyle.Render(source))
}

// IDLine prints a unique id below the node it belongs to.
func IDLine(w io.Writer, depth int, id string) {
	fmt.Fprintln(w, strings.Repeat("  ", depth+1)+idStyle.Render(id))
}

func ParseErrorLine(w io.Writer, uri string, line int, message string) {
	fmt.Fprintln(w, errStyle.Render("warn")+fmt.Sprintf("  %s:%d: %s", uri, line, message))
}

// Field prints a "label: value" pair with an aligned label.
func Field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-9s %s\n", label+":", value)
}
