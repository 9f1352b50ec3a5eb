package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-twcomposer/composer"
)

type classOptions struct {
	set        []string
	class      []string
	trace      bool
	jsonOutput bool
}

type classOutput struct {
	Component string            `json:"component"`
	Class     string            `json:"class"`
	Variants  map[string]string `json:"variants,omitempty"`
}

func newClassCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &classOptions{}

	cmd := &cobra.Command{
		Use:   "class <component>",
		Short: "Print the class string for a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClass(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.set, "set", "s", nil, "Select a variant value (variant=value), repeatable")
	cmd.Flags().StringArrayVarP(&opts.class, "class", "c", nil, "Extra classes appended last")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Show how each variant was resolved")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runClass(cmd *cobra.Command, rootFlags *rootFlags, name string, opts *classOptions) error {
	values, err := parseAssignments(opts.set)
	if err != nil {
		return newCommandError("compose", "parsing --set", err, "Pass variants as --set size=lg.")
	}
	reg, err := loadRegistry(rootFlags, "compose")
	if err != nil {
		return err
	}
	resolved, ok := reg.Lookup(name)
	if !ok {
		return newCommandError("compose", fmt.Sprintf("looking up component %q", name), fmt.Errorf("component %q not found", name), "Run 'twcompose keys' to list components.")
	}

	props := composer.Props{Variants: values}
	if len(opts.class) > 0 {
		props = props.WithClass(opts.class)
	}

	var trace composer.Trace
	out := classOutput{Component: resolved.Name}
	if resolved.Slotted() {
		var slots composer.SlotClasses
		slots, trace = resolved.Slots.SlotsWithTrace(props)
		out.Class = slots.Get(composer.BaseSlot)
	} else {
		out.Class, trace = resolved.Composer.ClassWithTrace(props)
	}
	if opts.trace {
		out.Variants = traceSummary(trace)
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.Class)
	for _, key := range sortedKeys(out.Variants) {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", key, out.Variants[key])
	}
	return nil
}

// traceSummary renders each variant as "value (source)".
func traceSummary(trace composer.Trace) map[string]string {
	out := make(map[string]string, len(trace.Variants))
	for _, variant := range trace.Variants {
		switch {
		case variant.Source == composer.VariantSourceUnresolved:
			out[variant.Name] = "(unresolved)"
		case !variant.Matched:
			out[variant.Name] = fmt.Sprintf("%s (%s, no classes)", variant.Value, variant.Source)
		default:
			out[variant.Name] = fmt.Sprintf("%s (%s)", variant.Value, variant.Source)
		}
	}
	return out
}
