// Package servecmder provides the serve command for running the corpus API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/thinkhaus/corpus/api"
	"github.com/thinkhaus/corpus/pkg/config"
	"github.com/thinkhaus/corpus/pkg/dotdir"
	"github.com/thinkhaus/corpus/pkg/eventstream"
	"github.com/thinkhaus/corpus/pkg/eventstream/kafka"
	"github.com/thinkhaus/corpus/pkg/eventstream/nop"
	"github.com/thinkhaus/corpus/pkg/logger"
	"github.com/thinkhaus/corpus/pkg/storage"
	"github.com/thinkhaus/corpus/pkg/storage/inmemory"
	"github.com/thinkhaus/corpus/pkg/storage/postgres"
	"github.com/thinkhaus/corpus/pkg/storage/sqlite"
)

// serveFlags is the registry of flags the serve command binds to viper.
var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	config.FlagStorageProvider: {
		Name:        "storage",
		ViperKey:    "storage.provider",
		Description: "Storage backend (sqlite, postgres, memory)",
	},
	config.FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to the SQLite database (default: .corpus/corpus.db)",
	},
	config.FlagPostgresURL: {
		Name:        "postgres-url",
		ViperKey:    "storage.postgres_url",
		Description: "Postgres connection URL",
	},
	config.FlagEventsProvider: {
		Name:        "events",
		ViperKey:    "events.provider",
		Description: "Event publisher (nop, kafka)",
	},
	config.FlagEventsBrokers: {
		Name:        "brokers",
		ViperKey:    "events.brokers",
		Description: "Comma-separated Kafka broker addresses",
	},
	config.FlagEventsTopic: {
		Name:        "topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for document events",
	},
}

var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagStorageProvider,
	config.FlagSQLite,
	config.FlagPostgresURL,
	config.FlagEventsProvider,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
}

type ServeCommander struct {
	listen          string
	storageProvider string
	sqlitePath      string
	postgresURL     string
	eventsProvider  string
	eventsBrokers   string
	eventsTopic     string
	debug           bool
	logger          *zap.Logger
}

const serveLongDesc string = `Run the corpus API server.

The server accepts document uploads on POST /api/process, streams analysis
progress back to the client, and stores the results in the configured
storage backend.`

const serveShortDesc string = "Run the corpus API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)
			cmder.applyViper(v)

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, serveFlags, config.FlagPostgresURL, &cmder.postgresURL)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsProvider, &cmder.eventsProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsTopic, &cmder.eventsTopic)

	return cmd
}

// applyViper copies the resolved viper values back into the commander so
// flag, env, file, and default precedence is settled in one place.
func (c *ServeCommander) applyViper(v *viper.Viper) {
	c.listen = v.GetString("api.listen")
	c.storageProvider = v.GetString("storage.provider")
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.postgresURL = v.GetString("storage.postgres_url")
	c.eventsProvider = v.GetString("events.provider")
	c.eventsBrokers = v.GetString("events.brokers")
	c.eventsTopic = v.GetString("events.topic")
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	driver, err := c.newStorageDriver()
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	server := api.NewServer(api.Config{ListenAddr: c.listen}, driver, publisher, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *ServeCommander) newStorageDriver() (storage.Driver, error) {
	switch strings.ToLower(c.storageProvider) {
	case "postgres":
		if c.postgresURL == "" {
			return nil, fmt.Errorf("postgres storage requires storage.postgres_url")
		}
		driver, err := postgres.NewDriver(context.Background(), c.postgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres store: %w", err)
		}
		c.logger.Info("using Postgres storage")
		return driver, nil

	case "memory":
		c.logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil

	case "sqlite", "":
		path := c.sqlitePath
		if path == "" {
			target, err := dotdir.NewManager().Target("")
			if err != nil {
				return nil, fmt.Errorf("resolving sqlite path: %w", err)
			}
			path = filepath.Join(target, "corpus.db")
		}
		driver, err := sqlite.NewDriver(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		c.logger.Info("using SQLite storage", zap.String("path", path))
		return driver, nil

	default:
		return nil, fmt.Errorf("unknown storage provider %q (available: sqlite, postgres, memory)", c.storageProvider)
	}
}

func (c *ServeCommander) newPublisher() (eventstream.Publisher, error) {
	switch strings.ToLower(c.eventsProvider) {
	case "kafka":
		if c.eventsBrokers == "" {
			return nil, fmt.Errorf("kafka events require events.brokers")
		}
		brokers := strings.Split(c.eventsBrokers, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		c.logger.Info("publishing document events to kafka",
			zap.Strings("brokers", brokers),
			zap.String("topic", c.eventsTopic),
		)
		return kafka.NewPublisher(brokers, c.eventsTopic), nil

	case "nop", "":
		return nop.NewPublisher(), nil

	default:
		return nil, fmt.Errorf("unknown events provider %q (available: nop, kafka)", c.eventsProvider)
	}
}
