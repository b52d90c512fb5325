// Package servecmder provides the serve command that runs the tutor backend.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/tutor/api"
	"github.com/papercomputeco/tutor/api/worker"
	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/dotdir"
	"github.com/papercomputeco/tutor/pkg/eventstream"
	"github.com/papercomputeco/tutor/pkg/eventstream/kafka"
	"github.com/papercomputeco/tutor/pkg/eventstream/nop"
	"github.com/papercomputeco/tutor/pkg/llm/provider"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/storage/open"
)

type serveCommander struct {
	listen       string
	providerName string
	model        string
	upstream     string
	apiKeyEnv    string
	sqlitePath   string
	postgresDSN  string
	language     string
	maxRetries   int
	kafkaBrokers string
	kafkaTopic   string

	logFile string
	json    bool
	debug   bool

	logger *slog.Logger
}

const serveLongDesc string = `Run the tutor backend.

The backend generates courses, streams interview and chat replies from the
configured model provider, and keeps the progress log your profile, job
matches and dashboard are computed from.

Storage is PostgreSQL when --postgres is set, SQLite when --sqlite is set,
and in-memory otherwise. Every recorded result is also published to Kafka
when --kafka-brokers is set.

Examples:
  tutor serve
  tutor serve --provider ollama --model llama3.2
  tutor serve --sqlite ~/.tutor/progress.db --log-file tutor.log`

const serveShortDesc string = "Run the tutor backend"

var serveFlags = []string{
	config.FlagListen,
	config.FlagProvider,
	config.FlagModel,
	config.FlagUpstream,
	config.FlagAPIKeyEnv,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagLanguage,
	config.FlagMaxRetries,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.resolve(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.providerName)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKeyEnv, &cmder.apiKeyEnv)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.Flags, config.FlagLanguage, &cmder.language)
	config.AddIntFlag(cmd, config.Flags, config.FlagMaxRetries, &cmder.maxRetries)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaTopic, &cmder.kafkaTopic)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Write JSON logs to stdout instead of pretty output")

	return cmd
}

func (c *serveCommander) resolve(v *viper.Viper) {
	key := func(flag string) string { return config.Flags[flag].ViperKey }

	c.listen = v.GetString(key(config.FlagListen))
	c.providerName = v.GetString(key(config.FlagProvider))
	c.model = v.GetString(key(config.FlagModel))
	c.upstream = v.GetString(key(config.FlagUpstream))
	c.apiKeyEnv = v.GetString(key(config.FlagAPIKeyEnv))
	c.sqlitePath = dotdir.ExpandHome(v.GetString(key(config.FlagSQLite)))
	c.postgresDSN = v.GetString(key(config.FlagPostgres))
	c.language = v.GetString(key(config.FlagLanguage))
	c.maxRetries = v.GetInt(key(config.FlagMaxRetries))
	c.kafkaBrokers = v.GetString(key(config.FlagKafkaBrokers))
	c.kafkaTopic = v.GetString(key(config.FlagKafkaTopic))
}

func (c *serveCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	c.logger = log

	apiKey := ""
	if c.apiKeyEnv != "" {
		apiKey = os.Getenv(c.apiKeyEnv)
		if apiKey == "" {
			c.logger.Warn("provider API key is empty", "env", c.apiKeyEnv)
		}
	}

	prov, err := provider.New(ctx, provider.Config{
		Name:       c.providerName,
		Model:      c.model,
		Upstream:   c.upstream,
		APIKey:     apiKey,
		MaxRetries: c.maxRetries,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	driver, err := open.Driver(ctx, open.Options{
		PostgresDSN: c.postgresDSN,
		SQLitePath:  c.sqlitePath,
	}, c.logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	pool, err := worker.NewPool(&worker.Config{
		Driver:    driver,
		Publisher: publisher,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Close()

	server, err := api.NewServer(api.Config{
		ListenAddr: c.listen,
		Provider:   prov,
		Model:      c.model,
		Language:   c.language,
	}, driver, pool, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
	}

	if err := server.Shutdown(); err != nil {
		c.logger.Error("API server shutdown failed", "error", err)
	}
	return nil
}

// newLogger returns the service logger and a func closing the log file.
func (c *serveCommander) newLogger() (*slog.Logger, func(), error) {
	console := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(!c.json),
		logger.WithJSON(c.json),
	)
	if c.logFile == "" {
		return console, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)
	return logger.Multi(console, file), func() { _ = f.Close() }, nil
}

func (c *serveCommander) newPublisher() (eventstream.Publisher, error) {
	brokers := splitBrokers(c.kafkaBrokers)
	if len(brokers) == 0 {
		return nop.NewPublisher(), nil
	}

	p, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   c.kafkaTopic,
		Logger:  c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}

	c.logger.Info("publishing progress events", "brokers", brokers, "topic", c.kafkaTopic)
	return p, nil
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
