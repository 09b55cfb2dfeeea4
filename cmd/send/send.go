package main

import (
	"github.com/spf13/cobra"

	"github.com/freundallein/sqslab/backend/chassis/cli"
	"github.com/freundallein/sqslab/backend/sender"
)

const defaultLabConfig = "labs/lab1/config.toml"

func main() {
	args := &cli.CommonArgs{}
	var msg string
	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send one message to a standard queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			env, err := cli.Setup(cmd.Context(), "send", args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()
			name, err := cli.RequireQueueName(args.QueueName, env.Config)
			if err != nil {
				return err
			}
			cfg := &sender.Config{
				Command: "send",
				Queue:   env.Queue,
				Journal: env.Journal,
				Printer: env.Printer,
				Log:     env.Log,
			}
			var explicit *string
			if cmd.Flags().Changed("msg") {
				explicit = &msg
			}
			_, err = sender.Send(cmd.Context(), cfg, &sender.Message{
				QueueName: name,
				Body:      sender.Body(explicit, positional, sender.DefaultBody),
			})
			return err
		},
	}
	args.Bind(cmd.Flags(), defaultLabConfig)
	cmd.Flags().StringVar(&msg, "msg", "", "Message body")
	cli.Execute(cmd)
}
