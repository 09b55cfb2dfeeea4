package main

import (
	"github.com/spf13/cobra"

	"github.com/freundallein/sqslab/backend/chassis/cli"
	"github.com/freundallein/sqslab/backend/sender"
)

const defaultLabConfig = "labs/lab2/config.yml"

func main() {
	args := &cli.CommonArgs{}
	var (
		msg, group, dedup string
		attrs             []string
	)
	cmd := &cobra.Command{
		Use:   "send_attrs [message]",
		Short: "Send one message with String user attributes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			env, err := cli.Setup(cmd.Context(), "send_attrs", args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			name, err := cli.RequireQueueName(args.QueueName, env.Config)
			if err != nil {
				return err
			}
			attributes, err := sender.ParseAttrs(attrs)
			if err != nil {
				return err
			}
			cfg := &sender.Config{
				Command: "send_attrs",
				Queue:   env.Queue,
				Journal: env.Journal,
				Printer: env.Printer,
				Log:     env.Log,
			}
			var explicit *string
			if cmd.Flags().Changed("msg") {
				explicit = &msg
			}
			_, err = sender.SendAttrs(cmd.Context(), cfg, &sender.Message{
				QueueName:  name,
				Body:       sender.Body(explicit, positional, sender.DefaultFifoBody),
				Attributes: attributes,
				GroupID:    group,
				DedupID:    dedup,
			}, env.Config.SQS.Fifo)
			return err
		},
	}
	args.Bind(cmd.Flags(), defaultLabConfig)
	cmd.Flags().StringVar(&msg, "msg", "", "Message body")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "User attribute key=value (repeatable)")
	cmd.Flags().StringVar(&group, "group", "", "MessageGroupId (FIFO queues only)")
	cmd.Flags().StringVar(&dedup, "dedup", "", "MessageDeduplicationId (FIFO queues only)")
	cli.Execute(cmd)
}
