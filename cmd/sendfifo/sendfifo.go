package main

import (
	"github.com/spf13/cobra"

	"github.com/freundallein/sqslab/backend/chassis/cli"
	"github.com/freundallein/sqslab/backend/sender"
)

const defaultLabConfig = "labs/lab2/config.yml"

func main() {
	args := &cli.CommonArgs{}
	var msg, group, dedup string
	cmd := &cobra.Command{
		Use:   "send_fifo [message]",
		Short: "Send one message to a FIFO queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			env, err := cli.Setup(cmd.Context(), "send_fifo", args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			name, err := cli.RequireQueueName(args.QueueName, env.Config)
			if err != nil {
				return err
			}
			cfg := &sender.Config{
				Command: "send_fifo",
				Queue:   env.Queue,
				Journal: env.Journal,
				Printer: env.Printer,
				Log:     env.Log,
			}
			var explicit *string
			if cmd.Flags().Changed("msg") {
				explicit = &msg
			}
			_, err = sender.SendFifo(cmd.Context(), cfg, &sender.Message{
				QueueName: name,
				Body:      sender.Body(explicit, positional, sender.DefaultFifoBody),
				GroupID:   group,
				DedupID:   dedup,
			})
			return err
		},
	}
	args.Bind(cmd.Flags(), defaultLabConfig)
	cmd.Flags().StringVar(&msg, "msg", "", "Message body")
	cmd.Flags().StringVar(&group, "group", "", "MessageGroupId")
	cmd.Flags().StringVar(&dedup, "dedup", "", "MessageDeduplicationId (optional with content-based dedup)")
	_ = cmd.MarkFlagRequired("group")
	cli.Execute(cmd)
}
