package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chriserin/ftorigin/internal/db"
)

var typeFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored test nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), configFlag, typeFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&typeFlag, "type", "", "Only show nodes of this type (feature, scenario, outline, examples, example)")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, configPath, typeFilter string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	nodes, err := db.ListNodes(sqlDB)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Line", "Name", "Source"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	rows := 0
	for _, n := range nodes {
		if typeFilter != "" && n.Type != typeFilter {
			continue
		}
		table.Append([]string{n.Type, strconv.Itoa(n.Line), n.Name, n.Source})
		rows++
	}

	if rows == 0 {
		return nil
	}
	table.Render()
	return nil
}
