// Package ingestcmder provides the ingest command for loading drop-folder
// corpus files into storage.
package ingestcmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/thinkhaus/corpus/pkg/cliui"
	"github.com/thinkhaus/corpus/pkg/config"
	"github.com/thinkhaus/corpus/pkg/dotdir"
	"github.com/thinkhaus/corpus/pkg/ingest"
	"github.com/thinkhaus/corpus/pkg/logger"
	"github.com/thinkhaus/corpus/pkg/storage"
	"github.com/thinkhaus/corpus/pkg/storage/inmemory"
	"github.com/thinkhaus/corpus/pkg/storage/postgres"
	"github.com/thinkhaus/corpus/pkg/storage/sqlite"
)

// ingestFlagSet is the registry of flags the ingest command binds to viper.
var ingestFlagSet = config.FlagSet{
	config.FlagIngestFolder: {
		Name:        "folder",
		Shorthand:   "f",
		ViperKey:    "ingest.folder",
		Description: "Drop folder to ingest corpus files from",
	},
	config.FlagIngestWorkers: {
		Name:        "workers",
		ViperKey:    "ingest.workers",
		Description: "Number of concurrent ingest workers",
	},
	config.FlagIngestRemove: {
		Name:        "remove",
		ViperKey:    "ingest.remove_after_ingest",
		Description: "Delete files after successful ingestion",
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
}

var ingestFlagKeys = []string{
	config.FlagIngestFolder,
	config.FlagIngestWorkers,
	config.FlagIngestRemove,
	config.FlagStorageProvider,
	config.FlagSQLite,
	config.FlagPostgresURL,
}

type ingestCommander struct {
	folder          string
	workers         uint
	remove          bool
	watch           bool
	storageProvider string
	sqlitePath      string
	postgresURL     string
	debug           bool
	logger          *zap.Logger
}

const ingestLongDesc string = `Ingest a drop folder of corpus files.

File names route content to the right table:
  freud_positions_1.txt     pipe-delimited positions
  freud_quotes_8.txt        pipe-delimited quotes
  kuczynski_works_1.txt     complete texts, stored as documents
  nietzsche_arguments_2.txt markdown argument blocks
  anything_else.txt         chunked for retrieval

With --watch the command keeps running and ingests files as they appear.`

const ingestShortDesc string = "Ingest a drop folder of corpus files"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
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
			config.BindRegisteredFlags(v, cmd, ingestFlagSet, ingestFlagKeys)
			cmder.applyViper(v)

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, ingestFlagSet, config.FlagIngestFolder, &cmder.folder)
	config.AddUintFlag(cmd, ingestFlagSet, config.FlagIngestWorkers, &cmder.workers)
	config.AddBoolFlag(cmd, ingestFlagSet, config.FlagIngestRemove, &cmder.remove)
	config.AddStringFlag(cmd, ingestFlagSet, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, ingestFlagSet, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, ingestFlagSet, config.FlagPostgresURL, &cmder.postgresURL)
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Keep watching the folder for new files")

	return cmd
}

func (c *ingestCommander) applyViper(v *viper.Viper) {
	c.folder = v.GetString("ingest.folder")
	c.workers = v.GetUint("ingest.workers")
	c.remove = v.GetBool("ingest.remove_after_ingest")
	c.storageProvider = v.GetString("storage.provider")
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.postgresURL = v.GetString("storage.postgres_url")
}

func (c *ingestCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	driver, err := c.newStorageDriver()
	if err != nil {
		return err
	}
	defer driver.Close()

	ingestor := ingest.NewIngestor(ingest.Config{
		Driver:            driver,
		RemoveAfterIngest: c.remove,
		Logger:            c.logger,
	})

	if err := os.MkdirAll(c.folder, 0o755); err != nil {
		return fmt.Errorf("creating ingest folder: %w", err)
	}

	if !c.watch {
		var count int
		err := cliui.Step(os.Stdout, fmt.Sprintf("Ingesting %s", c.folder), func() error {
			var err error
			count, err = ingestor.IngestFolder(context.Background(), c.folder)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Printf("  %s ingested\n", cliui.ValueStyle.Render(fmt.Sprintf("%d file(s)", count)))
		return nil
	}

	pool := ingest.NewPool(ingest.PoolConfig{
		Ingestor:   ingestor,
		NumWorkers: c.workers,
		Logger:     c.logger,
	})
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ingest.Watch(ctx, c.folder, pool, c.logger); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	c.logger.Info("ingest watcher stopped")
	return nil
}

func (c *ingestCommander) newStorageDriver() (storage.Driver, error) {
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
