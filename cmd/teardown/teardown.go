package main

import (
	"github.com/spf13/cobra"

	"github.com/freundallein/sqslab/backend/chassis/cli"
	"github.com/freundallein/sqslab/backend/maintainer"
)

const defaultLabConfig = "labs/lab1/config.toml"

func main() {
	args := &cli.CommonArgs{}
	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Delete an existing queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cli.Setup(cmd.Context(), "teardown", args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			name, err := cli.RequireQueueName(args.QueueName, env.Config)
			if err != nil {
				return err
			}
			return maintainer.Teardown(cmd.Context(), &maintainer.Config{
				Command: "teardown",
				Queue:   env.Queue,
				Journal: env.Journal,
				Printer: env.Printer,
				Log:     env.Log,
			}, name)
		},
	}
	args.Bind(cmd.Flags(), defaultLabConfig)
	cli.Execute(cmd)
}
