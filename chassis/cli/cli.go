// Package cli holds what every sqslab binary shares: common flags, startup
// wiring of config, logger, queue client and journal, and process exit.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/freundallein/sqslab/backend/chassis/config"
	"github.com/freundallein/sqslab/backend/chassis/logging"
	"github.com/freundallein/sqslab/backend/chassis/protocol"
	"github.com/freundallein/sqslab/backend/chassis/queue"
	"github.com/freundallein/sqslab/backend/chassis/storage"
)

// DefaultRootConfig ...
const DefaultRootConfig = "config.toml"

// ErrQueueNameRequired is returned when neither the CLI nor the config names a queue.
var ErrQueueNameRequired = errors.New("queue name is required. Pass --queue-name or set [sqs].queue_name in the lab config")

// CommonArgs - flags shared by all binaries
type CommonArgs struct {
	Config    string
	LabConfig string
	QueueName string
	Output    string
}

// Bind registers the common flags on fs.
func (a *CommonArgs) Bind(fs *pflag.FlagSet, defaultLabConfig string) {
	fs.StringVar(&a.Config, "config", DefaultRootConfig, "Path to the root config (required)")
	fs.StringVar(&a.LabConfig, "lab-config", defaultLabConfig, "Path to the lab-scoped config (skipped when missing)")
	fs.StringVar(&a.QueueName, "queue-name", "", "Ad-hoc override for the queue name")
	fs.StringVarP(&a.Output, "output", "o", string(protocol.Text), "Output format: text, json, yaml")
}

// RequireQueueName prefers the CLI override over the configured name.
func RequireQueueName(override string, cfg *config.AppConfig) (string, error) {
	if override != "" {
		return override, nil
	}
	if cfg != nil && cfg.SQS.QueueName != "" {
		return cfg.SQS.QueueName, nil
	}
	return "", ErrQueueNameRequired
}

// Env - everything a command handler needs, built once at startup
type Env struct {
	Config  *config.AppConfig
	Log     *logrus.Entry
	Queue   queue.Client
	Journal storage.Journal
	Printer *protocol.Printer
}

// Setup resolves config and builds the collaborators of one binary.
// Results go to stdout, logs to stderr.
func Setup(ctx context.Context, module string, args *CommonArgs, stdout, stderr io.Writer) (*Env, error) {
	format, err := protocol.ParseFormat(args.Output)
	if err != nil {
		return nil, err
	}
	opts, err := logging.ReadOptions()
	if err != nil {
		return nil, errors.Wrap(err, "reading logging options")
	}
	log := logging.New(module, opts, stderr)

	appCfg, err := config.Load(args.Config, args.LabConfig, config.EnvPrefix)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"event":    "config_loaded",
		"region":   appCfg.Runtime.Region,
		"mode":     appCfg.Runtime.Mode,
		"endpoint": appCfg.SQS.EndpointURL,
	}).Debug("config merged")

	client, err := queue.InitAWSQueue(queue.Config{
		Region:             appCfg.Runtime.Region,
		Endpoint:           appCfg.SQS.EndpointURL,
		StaticCredentials:  appCfg.UsesStaticCredentials(),
		CredentialsProfile: appCfg.Runtime.Profile,
		Retries:            appCfg.SQS.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	journal, err := storage.Open(ctx, storage.Config{DSN: appCfg.Storage.DSN})
	if err != nil {
		log.WithFields(logrus.Fields{
			"event": "journal_open_failed",
		}).Warn(err)
		journal = storage.NoopJournal{}
	}

	return &Env{
		Config:  appCfg,
		Log:     log,
		Queue:   client,
		Journal: journal,
		Printer: protocol.NewPrinter(stdout, format),
	}, nil
}

// CreateOptions - configured attributes for queue creation
func (e *Env) CreateOptions() queue.CreateOptions {
	return queue.CreateOptions{
		Fifo:                  e.Config.SQS.Fifo,
		ContentBasedDedup:     e.Config.SQS.ContentBasedDedup,
		VisibilityTimeoutSecs: e.Config.SQS.VisibilityTimeoutSecs,
	}
}

// Close ...
func (e *Env) Close() {
	e.Journal.Close()
}

// Execute runs cmd with a context cancelled on SIGINT/SIGTERM and exits
// non-zero on error. A second signal kills the process.
func Execute(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		signal.Stop(done)
		cancel()
	}()

	err := cmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}
