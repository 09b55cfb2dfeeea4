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
		Use:   "bootstrap",
		Short: "Create the queue if it is missing and print its attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cli.Setup(cmd.Context(), "bootstrap", args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			name, err := cli.RequireQueueName(args.QueueName, env.Config)
			if err != nil {
				return err
			}
			cfg := &maintainer.Config{
				Command: "bootstrap",
				Queue:   env.Queue,
				Journal: env.Journal,
				Printer: env.Printer,
				Log:     env.Log,
			}
			_, err = maintainer.Bootstrap(cmd.Context(), cfg, name, env.CreateOptions())
			return err
		},
	}
	args.Bind(cmd.Flags(), defaultLabConfig)
	cli.Execute(cmd)
}
