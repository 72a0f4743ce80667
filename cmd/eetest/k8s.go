package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/eetest/internal/envprovider"
)

func newK8sCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	var kubeconfig string

	cmd := &cobra.Command{
		Use:   "k8s",
		Short: "Run targets against a local kind cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(root, cmd.OutOrStdout())
			opts.Kubeconfig = kubeconfig
			if err := validateRunOptions(&opts); err != nil {
				return err
			}

			provider := envprovider.NewKube(opts.Kubeconfig, opts.TargetsDir(), "", root.log)
			return runCmdRunner(cmd.Context(), cmd.OutOrStdout(), root.log, provider, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Kubeconfig of the cluster (default: first file in $KUBECONFIG, then ~/.kube/config)")

	return cmd
}
