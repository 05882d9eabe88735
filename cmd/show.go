package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftorigin/internal/discovery"
	"github.com/chriserin/ftorigin/internal/origin"
	"github.com/chriserin/ftorigin/internal/parser"
	"github.com/chriserin/ftorigin/internal/ui"
	"github.com/chriserin/ftorigin/internal/uniqueid"
)

var showCmd = &cobra.Command{
	Use:   "show <unique-id>",
	Short: "Show the node a unique id points at",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.Context(), cmd.OutOrStdout(), configFlag, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(ctx context.Context, w io.Writer, configPath, rawID string) error {
	id, err := uniqueid.Parse(rawID)
	if err != nil {
		return err
	}

	featureURI, err := featureURIOf(id)
	if err != nil {
		return err
	}
	target := origin.Resolve(featureURI).URI().String()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	features, err := discovery.Discover(ctx, cfg)
	if err != nil {
		return err
	}

	var feature *discovery.Feature
	for _, f := range features {
		if f.URI() == target {
			feature = f
			break
		}
	}
	if feature == nil {
		return fmt.Errorf("feature %s not found", featureURI)
	}

	node := feature.Root.Find(rebase(id, feature.Root.ID))
	if node == nil {
		return fmt.Errorf("%s not found in %s", rawID, featureURI)
	}

	ui.Field(w, node.Type, node.Name)
	ui.Field(w, "source", node.Source.String())
	ui.Field(w, "id", node.ID.String())

	if sc := enclosingScenario(feature.Document, node.Line); sc != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, parser.Excerpt(feature.Document, feature.Content, sc))
	}
	return nil
}

// featureURIOf walks id for its feature segment.
func featureURIOf(id uniqueid.ID) (*url.URL, error) {
	for _, seg := range id.Segments() {
		if !origin.IsFeatureSegment(seg) {
			continue
		}
		u, err := url.Parse(seg.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid feature URI %s: %w", seg.Value, err)
		}
		return u, nil
	}
	return nil, fmt.Errorf("%s has no feature segment", id)
}

// rebase replaces everything up to id's feature segment with featureID, so
// ids written with a non-canonical feature URI still match.
func rebase(id, featureID uniqueid.ID) uniqueid.ID {
	out := uniqueid.ID{}
	for _, seg := range id.Segments() {
		if origin.IsFeatureSegment(seg) {
			out = featureID
			continue
		}
		if !out.IsZero() {
			out = out.Append(seg.Type, seg.Value)
		}
	}
	return out
}

// enclosingScenario returns the last scenario starting at or before line.
func enclosingScenario(doc *parser.Document, line int) *parser.Scenario {
	var found *parser.Scenario
	for _, sc := range doc.Feature.Children {
		if sc.Location.Line <= line {
			found = sc
		}
	}
	return found
}
