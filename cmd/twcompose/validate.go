package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-twcomposer/loader"
)

func newValidateCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a style document for structural and composer errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootFlags)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, rootFlags *rootFlags) error {
	doc, err := loader.LoadFile(rootFlags.file)
	if err != nil {
		return newCommandError("validate", fmt.Sprintf("checking %s", rootFlags.file), err, "Fix the fields listed above and run validate again.")
	}
	rootFlags.logger().Info("style document valid", "file", rootFlags.file, "components", len(doc.Components))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d component(s) OK\n", rootFlags.file, len(doc.Components))
	return nil
}
