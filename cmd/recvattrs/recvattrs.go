package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/freundallein/sqslab/backend/chassis/cli"
	"github.com/freundallein/sqslab/backend/chassis/metrics"
	"github.com/freundallein/sqslab/backend/receiver"
)

const defaultLabConfig = "labs/lab2/config.yml"

func main() {
	args := &cli.CommonArgs{}
	var noDelete bool
	cmd := &cobra.Command{
		Use:   "recv_attrs",
		Short: "Long-poll a queue, print each message with its system and user attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			env, err := cli.Setup(ctx, "recv_attrs", args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			name, err := cli.RequireQueueName(args.QueueName, env.Config)
			if err != nil {
				return err
			}
			cfg := &receiver.Config{
				Command:        "recv_attrs",
				Queue:          env.Queue,
				Journal:        env.Journal,
				Printer:        env.Printer,
				Log:            env.Log,
				QueueName:      name,
				Region:         env.Config.Runtime.Region,
				Mode:           string(env.Config.Runtime.Mode),
				WaitSecs:       env.Config.RecvWaitSecs(),
				NoDelete:       noDelete,
				WithAttributes: true,
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
