package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftorigin/internal/discovery"
	"github.com/chriserin/ftorigin/internal/ui"
)

var idsFlag bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the test tree of every feature file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunDiscover(cmd.Context(), cmd.OutOrStdout(), configFlag, idsFlag)
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&idsFlag, "ids", false, "Print the unique id of every node")
	rootCmd.AddCommand(discoverCmd)
}

func RunDiscover(ctx context.Context, w io.Writer, configPath string, showIDs bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	features, err := discovery.Discover(ctx, cfg)
	if err != nil {
		return err
	}

	for _, f := range features {
		for _, pe := range f.ParseErrors {
			ui.ParseErrorLine(w, f.URI(), pe.Line, pe.Message)
		}
		printTree(w, f.Root, 0, showIDs)
	}
	return nil
}

func printTree(w io.Writer, n *discovery.Node, depth int, showIDs bool) {
	ui.NodeLine(w, depth, n.Type, n.Name, n.Source.String())
	if showIDs {
		ui.IDLine(w, depth, n.ID.String())
	}
	for _, c := range n.Children {
		printTree(w, c, depth+1, showIDs)
	}
}
