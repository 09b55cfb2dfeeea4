package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/freundallein/sqslab/backend/chassis/cli"
	"github.com/freundallein/sqslab/backend/chassis/metrics"
	"github.com/freundallein/sqslab/backend/receiver"
)

const defaultLabConfig = "labs/lab1/config.toml"

func main() {
	args := &cli.CommonArgs{}
	var noDelete bool
	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Long-poll a queue, print and delete each message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			env, err := cli.Setup(ctx, "recv", args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			name, err := cli.RequireQueueName(args.QueueName, env.Config)
			if err != nil {
				return err
			}
			cfg := &receiver.Config{
				Command:   "recv",
				Queue:     env.Queue,
				Journal:   env.Journal,
				Printer:   env.Printer,
				Log:       env.Log,
				QueueName: name,
				Region:    env.Config.Runtime.Region,
				Mode:      string(env.Config.Runtime.Mode),
				WaitSecs:  env.Config.RecvWaitSecs(),
				NoDelete:  noDelete,
			}
			if addr := env.Config.Metrics.Addr; addr != "" {
				reg := prometheus.NewRegistry()
				cfg.Metrics = metrics.New(reg)
				metrics.Serve(ctx, addr, reg, env.Log)
			}
			return receiver.Run(ctx, cfg)
		},
	}
	args.Bind(cmd.Flags(), defaultLabConfig)
	cmd.Flags().BoolVar(&noDelete, "no-delete", false, "Leave received messages on the queue")
	cli.Execute(cmd)
}
