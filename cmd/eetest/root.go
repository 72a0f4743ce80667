package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/eetest/internal/logger"
)

type rootFlags struct {
	verbose         bool
	logFormat       string
	containerEngine string
	outputDir       string
	summaryTable    bool

	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "eetest",
		Short:         "eetest runs collection integration targets inside execution environments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if flags.verbose {
				level = "debug"
			}
			log, err := logger.New(logger.Options{Level: level, Format: flags.logFormat, Writer: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			flags.log = log
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", logger.FormatConsole, "Log format (console or json)")
	cmd.PersistentFlags().StringVar(&flags.containerEngine, "container-engine", "docker", "Container engine used to run execution environments")
	cmd.PersistentFlags().StringVar(&flags.outputDir, "output-dir", "", "Directory receiving <target>_stdout.txt for failed targets (default: current directory)")
	cmd.PersistentFlags().BoolVar(&flags.summaryTable, "summary-table", false, "Print a summary table after the result lines")

	cmd.AddCommand(newAWSCmd(flags))
	cmd.AddCommand(newK8sCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
