package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftorigin/internal/db"
	"github.com/chriserin/ftorigin/internal/discovery"
	"github.com/chriserin/ftorigin/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Discover feature files and store their test trees",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.Context(), cmd.OutOrStdout(), configFlag)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(ctx context.Context, w io.Writer, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	features, err := discovery.Discover(ctx, cfg)
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	uris := make([]string, 0, len(features))
	for _, f := range features {
		created, err := db.SaveFeature(sqlDB, db.FeatureRecord{
			URI:  f.URI(),
			Kind: f.Origin.Kind().String(),
			Name: f.Root.Name,
		}, nodeRecords(f))
		if err != nil {
			return err
		}
		if created {
			ui.NewLine(w, f.URI())
		} else {
			ui.TrkLine(w, f.URI())
		}
		uris = append(uris, f.URI())
	}

	removed, err := db.PruneFeatures(sqlDB, uris)
	if err != nil {
		return err
	}

	ui.SummaryLine(w, len(features), removed)
	return nil
}

func nodeRecords(f *discovery.Feature) []db.NodeRecord {
	var out []db.NodeRecord
	f.Root.Walk(func(n *discovery.Node) bool {
		out = append(out, db.NodeRecord{
			FeatureURI: f.URI(),
			UniqueID:   n.ID.String(),
			Type:       n.Type,
			Name:       n.Name,
			Line:       n.Line,
			Source:     n.Source.String(),
		})
		return true
	})
	return out
}
