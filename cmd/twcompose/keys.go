package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newKeysCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys [component]",
		Short: "List components, or the variants and values of one component",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runComponentKeys(cmd, rootFlags, args[0])
			}
			return runKeys(cmd, rootFlags)
		},
	}
	return cmd
}

func runKeys(cmd *cobra.Command, rootFlags *rootFlags) error {
	reg, err := loadRegistry(rootFlags, "list components")
	if err != nil {
		return err
	}
	defs := reg.List()
	if len(defs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No components defined.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tKIND\tVARIANTS")
	for _, def := range defs {
		kind := "plain"
		if def.Slotted {
			kind = "slotted"
		}
		variants := strings.Join(def.Config.VariantKeys(), ", ")
		if variants == "" {
			variants = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, kind, variants)
	}
	return w.Flush()
}

func runComponentKeys(cmd *cobra.Command, rootFlags *rootFlags, name string) error {
	reg, err := loadRegistry(rootFlags, "list variants")
	if err != nil {
		return err
	}
	def, ok := reg.Get(name)
	if !ok {
		return newCommandError("list variants", fmt.Sprintf("looking up component %q", name), fmt.Errorf("component %q not found", name), "Run 'twcompose keys' to list components.")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Component: %s\n", def.Name)
	if def.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", def.Description)
	}
	if def.Slotted {
		fmt.Fprintf(out, "Slots: %s\n", strings.Join(def.Config.SlotKeys(), ", "))
	}
	for _, variant := range def.Config.Variants {
		line := strings.Join(variant.Keys(), ", ")
		if fallback, ok := def.Config.DefaultVariants[variant.Name]; ok {
			line += fmt.Sprintf(" (default %s)", fallback)
		}
		fmt.Fprintf(out, "  %s: %s\n", variant.Name, line)
	}
	return nil
}
