package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <table>",
	Short: "Show the discovered column matrix of a table",
	Long: `Resolve the schema of a table, either from its declaration in the
models directory or by database introspection, and print the columns.

Examples:
  recordmap describe users`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	env, holder, closeDB, err := openEnv()
	if err != nil {
		return err
	}
	defer closeDB()

	table := args[0]
	m, err := defineModel(env, holder, table)
	if err != nil {
		return err
	}

	sch, err := m.Schema(cmd.Context(), env.Executor)
	if err != nil {
		return err
	}

	primaries := map[string]bool{}
	for _, pk := range sch.Primaries {
		primaries[pk] = true
	}

	names := sch.ColumnNames()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tTYPE\tKEY\tEXTRA")
	for _, name := range names {
		t, _ := sch.Column(name)
		key, extra := "", ""
		if primaries[name] {
			key = "PRI"
		}
		if name == sch.Autoincrement {
			extra = "auto_increment"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, t.Name(), key, extra)
	}
	return w.Flush()
}
