package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-twcomposer/classes"
	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/loader"
	"github.com/goliatone/go-twcomposer/registry"
)

func loadRegistry(flags *rootFlags, operation string) (*registry.Static, error) {
	log := flags.logger()
	var options []registry.Option
	if flags.noMerge {
		options = append(options, registry.WithComposerOptions(composer.WithMerger(classes.NoopMerger{})))
	}
	reg, err := loader.LoadRegistry(flags.file, options...)
	if err != nil {
		log.Debug("style document rejected", "file", flags.file, "error", err)
		return nil, newCommandError(operation, fmt.Sprintf("loading %s", flags.file), err, "Run 'twcompose validate' to list every problem in the document.")
	}
	log.Debug("style document loaded", "file", flags.file, "components", len(reg.List()))
	return reg, nil
}

// parseAssignments turns repeated key=value flags into variant values.
func parseAssignments(pairs []string) (composer.Values, error) {
	values := composer.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected variant=value, got %q", pair)
		}
		values[key] = strings.TrimSpace(value)
	}
	return values, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
