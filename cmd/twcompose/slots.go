package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-twcomposer/composer"
)

type slotsOptions struct {
	set        []string
	jsonOutput bool
}

func newSlotsCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &slotsOptions{}

	cmd := &cobra.Command{
		Use:   "slots <component>",
		Short: "Print the class string of every slot of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlots(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.set, "set", "s", nil, "Select a variant value (variant=value), repeatable")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runSlots(cmd *cobra.Command, rootFlags *rootFlags, name string, opts *slotsOptions) error {
	values, err := parseAssignments(opts.set)
	if err != nil {
		return newCommandError("compose slots", "parsing --set", err, "Pass variants as --set tone=info.")
	}
	reg, err := loadRegistry(rootFlags, "compose slots")
	if err != nil {
		return err
	}
	resolved, ok := reg.Lookup(name)
	if !ok {
		return newCommandError("compose slots", fmt.Sprintf("looking up component %q", name), fmt.Errorf("component %q not found", name), "Run 'twcompose keys' to list components.")
	}

	slots := resolved.SlotClasses(composer.With(values)).Strings()

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(slots)
	}

	for _, slot := range sortedKeys(slots) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", slot, slots[slot])
	}
	return nil
}
