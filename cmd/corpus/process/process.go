// Package processcmder provides the process command for uploading a
// document and following its analysis progress.
package processcmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinkhaus/corpus/pkg/cliui"
	"github.com/thinkhaus/corpus/pkg/client"
	"github.com/thinkhaus/corpus/pkg/config"
	"github.com/thinkhaus/corpus/pkg/logger"
	"github.com/thinkhaus/corpus/pkg/utils"
)

// processFlags is the registry of flags the process command binds to viper.
var processFlags = config.FlagSet{
	config.FlagAPITarget: {
		Name:        "api-target",
		ViperKey:    "client.api_target",
		Description: "URL of the corpus API server",
	},
}

type processCommander struct {
	apiTarget string
	author    string
	debug     bool
	logger    *zap.Logger
}

const processLongDesc string = `Upload a document for processing and follow its progress.

The document is analyzed for outline structure, positions, quotes,
arguments, recurring themes, and generated Q&A pairs, then stored in
the corpus database.

Examples:
  corpus process --author freud dreams.md
  corpus process --author "Nietzsche" beyond_good_and_evil.txt`

const processShortDesc string = "Upload and process a document"

func NewProcessCmd() *cobra.Command {
	cmder := &processCommander{}

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: processShortDesc,
		Long:  processLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			config.BindRegisteredFlags(v, cmd, processFlags, []string{config.FlagAPITarget})
			cmder.apiTarget = v.GetString("client.api_target")

			return cmder.run(cmd.Context(), args[0])
		},
	}

	config.AddStringFlag(cmd, processFlags, config.FlagAPITarget, &cmder.apiTarget)
	cmd.Flags().StringVarP(&cmder.author, "author", "a", "", "Author of the document (required)")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func (c *processCommander) run(ctx context.Context, path string) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	req := client.ProcessRequest{
		FileName:   filepath.Base(path),
		File:       f,
		AuthorName: c.author,
	}

	cl := client.NewClient(c.apiTarget, c.logger)

	fmt.Printf("\nProcessing %s as %s\n\n",
		cliui.ValueStyle.Render(filepath.Base(path)),
		cliui.KeyStyle.Render(c.author),
	)

	start := time.Now()
	result, err := cl.Process(ctx, req, func(s client.State) {
		if s.Kind == client.KindStreaming {
			fmt.Printf("\r%s", cliui.RenderProgress(string(s.Phase), utils.Truncate(s.Status, 40), s.Progress))
		}
	})
	fmt.Println()
	elapsed := cliui.StepStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(time.Since(start))))

	if err != nil {
		fmt.Printf("\n  %s processing failed %s\n\n", cliui.Mark(err), elapsed)
		return describeFailure(err)
	}

	fmt.Printf("\n  %s %s %s\n\n", cliui.Mark(nil),
		cliui.ValueStyle.Render(result.DocumentTitle),
		elapsed,
	)
	fmt.Printf("  words      %d\n", result.Stats.WordCount)
	fmt.Printf("  sections   %d\n", result.Stats.Sections)
	fmt.Printf("  positions  %d\n", result.Stats.Positions)
	fmt.Printf("  arguments  %d\n", result.Stats.Arguments)
	fmt.Printf("  trends     %d\n", result.Stats.Trends)
	fmt.Printf("  qas        %d\n\n", result.Stats.QAs)

	return nil
}

// describeFailure maps client error types onto friendlier messages.
func describeFailure(err error) error {
	var reqErr client.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("the server rejected the upload: %w", err)
	}

	var streamErr client.StreamError
	if errors.As(err, &streamErr) {
		return fmt.Errorf("the server could not process the document: %w", err)
	}

	if errors.Is(err, client.ErrTruncatedStream) {
		return fmt.Errorf("lost the server mid-processing: %w", err)
	}

	return err
}
