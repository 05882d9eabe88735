package cmd

import (
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftorigin/internal/origin"
	"github.com/chriserin/ftorigin/internal/ui"
	"github.com/chriserin/ftorigin/internal/uniqueid"
)

var engineFlag string

var resolveCmd = &cobra.Command{
	Use:   "resolve <uri>",
	Short: "Classify a feature URI and print its source and feature id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunResolve(cmd.OutOrStdout(), args[0], engineFlag)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&engineFlag, "engine", "ft", "Engine segment of the printed id")
	rootCmd.AddCommand(resolveCmd)
}

func RunResolve(w io.Writer, rawURI, engine string) error {
	u, err := url.Parse(rawURI)
	if err != nil {
		return fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	o := origin.Resolve(u)
	id := o.FeatureSegment(uniqueid.ForEngine(engine), nil)

	ui.Field(w, "kind", o.Kind().String())
	ui.Field(w, "uri", o.URI().String())
	ui.Field(w, "source", o.FeatureSource().String())
	ui.Field(w, "id", id.String())
	return nil
}
