package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artpar/recordmap/core/record"
)

var getCmd = &cobra.Command{
	Use:   "get <table> <key>",
	Short: "Load a record by primary key",
	Long: `Load one record by its primary key and print its attributes in
their display form.

Examples:
  recordmap get users 16`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <table> <key> <field=value>...",
	Short: "Assign fields of a record and save it",
	Long: `Load a record by primary key if it exists, assign the given
field=value pairs and save. A missing record is created with the key.

Examples:
  recordmap set users 16 name=john price=3.50`,
	Args: cobra.MinimumNArgs(3),
	RunE: runSet,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <key>",
	Short: "Delete a record by primary key",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	env, holder, closeDB, err := openEnv()
	if err != nil {
		return err
	}
	defer closeDB()

	m, err := defineModel(env, holder, args[0])
	if err != nil {
		return err
	}

	r := m.New(nil)
	found, err := r.LoadKey(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %s: not found", args[0], args[1])
	}

	printRecord(r)
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	env, holder, closeDB, err := openEnv()
	if err != nil {
		return err
	}
	defer closeDB()

	m, err := defineModel(env, holder, args[0])
	if err != nil {
		return err
	}

	assigns := make(map[string]any, len(args)-2)
	for _, pair := range args[2:] {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return fmt.Errorf("bad assignment %q, want field=value", pair)
		}
		assigns[field] = value
	}

	r := m.New(nil)
	found, err := r.LoadKey(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	if !found {
		sch, err := m.Schema(cmd.Context(), env.Executor)
		if err != nil {
			return err
		}
		if len(sch.Primaries) == 1 {
			r.SetWith(map[string]any{sch.Primaries[0]: args[1]}, record.SetOptions{Silent: true})
		}
	}

	r.SetAll(assigns)
	if err := r.Save(cmd.Context(), record.SaveOptions{}); err != nil {
		return err
	}

	if found {
		fmt.Printf("Updated %s %s (%d fields)\n", args[0], args[1], len(assigns))
	} else {
		fmt.Printf("Created %s %s\n", args[0], args[1])
	}
	printRecord(r)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, holder, closeDB, err := openEnv()
	if err != nil {
		return err
	}
	defer closeDB()

	m, err := defineModel(env, holder, args[0])
	if err != nil {
		return err
	}

	r := m.New(nil)
	found, err := r.LoadKey(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %s: not found", args[0], args[1])
	}

	if err := r.Delete(cmd.Context(), record.WriteOptions{}); err != nil {
		return err
	}
	fmt.Printf("Deleted %s %s\n", args[0], args[1])
	return nil
}

func printRecord(r *record.Record) {
	data := r.Data()
	fields := make([]string, 0, len(data))
	for field := range data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tVALUE")
	for _, field := range fields {
		fmt.Fprintf(w, "%s\t%v\n", field, r.Get(field))
	}
	w.Flush()
}
