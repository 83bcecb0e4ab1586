package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/recordmap/config"
	"github.com/artpar/recordmap/core/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and schema declarations",
	Long: `Validate the recordmap configuration file and, when a models
directory is configured, every schema declaration in it.

Checks:
  - YAML syntax is valid
  - Required fields are present
  - Each declaration materializes against the type registry

Examples:
  recordmap validate
  recordmap validate --config /etc/recordmap/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Printf("Validating %s...\n\n", cfgFile)

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Printf("  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Printf("  %s Config file exists\n", checkMark)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Printf("  %s Config syntax valid\n", checkMark)
	fmt.Printf("  %s Database: %s (%s)\n", checkMark, cfg.Database.DSN, cfg.Database.Driver)

	if cfg.ModelsDir == "" {
		fmt.Printf("  %s No models directory, schemas discovered at runtime\n", checkMark)
		fmt.Println()
		fmt.Println("Configuration is valid.")
		return nil
	}

	decls, err := schema.ParseDir(cfg.ModelsDir)
	if err != nil {
		fmt.Printf("  %s Declarations parse\n", crossMark)
		return fmt.Errorf("declaration error: %w", err)
	}
	fmt.Printf("  %s Declarations parse\n", checkMark)

	for _, decl := range decls {
		if _, err := decl.Schema(nil); err != nil {
			fmt.Printf("  %s Table %s\n", crossMark, decl.Table)
			return fmt.Errorf("declaration error: %w", err)
		}
		fmt.Printf("  %s Table %s (%d columns)\n", checkMark, decl.Table, len(decl.Columns))
	}

	fmt.Println()
	fmt.Println("Configuration is valid.")
	return nil
}
