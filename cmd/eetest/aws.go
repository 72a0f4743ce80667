package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/envprovider"
)

func newAWSCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	var varsFile string

	cmd := &cobra.Command{
		Use:   "aws",
		Short: "Run targets with AWS credentials taken from a variables file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(root, cmd.OutOrStdout())
			opts.VarsFile = varsFile
			if err := validateRunOptions(&opts); err != nil {
				return err
			}

			vars, err := config.LoadVariables(opts.VarsFile)
			if err != nil {
				return err
			}
			root.log.Debug("variables: " + vars.String())

			provider := envprovider.NewAWS(vars, opts.TargetsDir())
			return runCmdRunner(cmd.Context(), cmd.OutOrStdout(), root.log, provider, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&varsFile, "vars-file", "", "YAML file with global variables and AWS credentials")

	return cmd
}
