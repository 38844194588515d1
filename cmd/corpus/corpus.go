// Package corpuscmder
package corpuscmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/thinkhaus/corpus/cmd/corpus/config"
	ingestcmder "github.com/thinkhaus/corpus/cmd/corpus/ingest"
	processcmder "github.com/thinkhaus/corpus/cmd/corpus/process"
	servecmder "github.com/thinkhaus/corpus/cmd/corpus/serve"
	versioncmder "github.com/thinkhaus/corpus/cmd/version"
)

const corpusLongDesc string = `Corpus is a document processing system for philosophical texts.

Upload a document and corpus extracts its outline, positions, quotes,
arguments, recurring themes, and generated Q&A pairs, streaming progress
as it works.

  corpus serve              Run the API server
  corpus process <file>     Upload and process a document
  corpus ingest             Ingest a drop folder of corpus files`

const corpusShortDesc string = "Corpus - philosophical text processing"

func NewCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: corpusShortDesc,
		Long:  corpusLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .corpus config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(processcmder.NewProcessCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
