package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-twcomposer/adapters/zerologadapter"
	"github.com/goliatone/go-twcomposer/logger"
)

const defaultStylesFile = "styles.yaml"

type rootFlags struct {
	file     string
	logLevel string
	verbose  bool
	noMerge  bool

	log logger.Logger
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "twcompose",
		Short:         "Compose Tailwind class strings from a YAML style document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := flags.logLevel
			if flags.verbose {
				level = "debug"
			}
			log, err := zerologadapter.New(zerologadapter.Options{
				Level:         level,
				HumanReadable: true,
				Writer:        cmd.ErrOrStderr(),
			})
			if err != nil {
				return newCommandError("start", "configuring logger", err, "Use one of trace, debug, info, warn or error for --log-level.")
			}
			flags.log = log
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.file, "file", "f", defaultStylesFile, "Path to the YAML style document")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.noMerge, "no-merge", false, "Skip Tailwind conflict resolution")

	cmd.AddCommand(newClassCmd(flags))
	cmd.AddCommand(newSlotsCmd(flags))
	cmd.AddCommand(newKeysCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (f *rootFlags) logger() logger.Logger {
	if f == nil || f.log == nil {
		return logger.Nop()
	}
	return f.log
}
