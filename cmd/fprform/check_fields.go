package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csg33k/fpr-form/internal/fieldconfig"
)

var checkFieldsCmd = &cobra.Command{
	Use:   "check-fields <file>",
	Short: "Validate a field configuration file",
	Long: `Loads a JSON or YAML field configuration, validates it against the schema
and checks that every optional field and numeric bound is consistent.
Exits non-zero when the file would be rejected at startup.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckFields,
}

func runCheckFields(cmd *cobra.Command, args []string) error {
	cfg, err := fieldconfig.LoadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d input, %d tab, %d dropdown fields)\n",
		args[0], len(cfg.InputFields), len(cfg.TabFields), len(cfg.DropdownFields))
	return nil
}
