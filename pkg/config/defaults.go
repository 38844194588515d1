package config

const (
	defaultStorageProvider = "sqlite"
	defaultAPIListen       = ":8080"

	defaultClientAPITarget = "http://localhost:8080"

	defaultIngestFolder  = "data/ingest"
	defaultIngestWorkers = 3

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "corpus.documents"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider: defaultStorageProvider,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Ingest: IngestConfig{
			Folder:  defaultIngestFolder,
			Workers: defaultIngestWorkers,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
