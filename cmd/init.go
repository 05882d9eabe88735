package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftorigin/internal/config"
	"github.com/chriserin/ftorigin/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ftorigin in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout(), configFlag)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer, configPath string) error {
	// config file
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(w, "%s already exists\n", configPath)
	} else {
		if err := config.Default().Write(configPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s created\n", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// feature roots
	for _, root := range cfg.Roots {
		if root.Dir == "" {
			continue
		}
		rel := relToCwd(root.Dir)
		if _, err := os.Stat(root.Dir); err == nil {
			fmt.Fprintf(w, "%s/ already exists\n", rel)
			continue
		}
		if err := os.MkdirAll(root.Dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", rel, err)
		}
		fmt.Fprintf(w, "%s/ created\n", rel)
	}

	// database
	dbRel := relToCwd(cfg.Database)
	_, err = os.Stat(cfg.Database)
	dbExists := err == nil
	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", dbRel)
	} else {
		fmt.Fprintf(w, "%s created\n", dbRel)
	}

	// gitignore
	msgs, err := ensureGitignore(filepath.ToSlash(dbRel))
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func relToCwd(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
